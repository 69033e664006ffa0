// Package salvage orchestrates the end-to-end reconstruction of one or
// more ZIP archives from a fragmented memory image. It implements
// component F (Reconstruction Driver) of the pipeline, driving
// internal/memimage, internal/skeleton, internal/cluster, and
// internal/zipfmt through a fixed sequence of discovery, clustering,
// attribution, and render steps.
package salvage

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/zipshard/zipshard/internal/cluster"
	"github.com/zipshard/zipshard/internal/memimage"
	"github.com/zipshard/zipshard/internal/scanner"
	"github.com/zipshard/zipshard/internal/skeleton"
	"github.com/zipshard/zipshard/internal/zipfmt"
)

// DefaultPageSize is the pool page size used when the caller doesn't
// override it (BEZ_PAGE at the CLI layer).
const DefaultPageSize = 0x400

// cdInstance is an unclassified Central Directory record plus its own
// absolute offset within the blob. The driver only needs two things from
// a CD: a fingerprint for clustering, and its source-blob offset, so
// this is kept a plain record rather than an interface.
type cdInstance struct {
	offset int64
	cd     zipfmt.CD
}

// Result is one recovered archive, ready to be written out by the caller.
type Result struct {
	Index int
	Bytes []byte
}

// Run executes steps 0-7 over blob at pageSize and returns one Result per
// surviving skeleton, in discovery order. It never panics; I/O around the
// blob itself is the caller's responsibility (the CLI layer opens and
// reads the dump file).
func Run(ctx context.Context, blob []byte, pageSize int64) ([]Result, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	// Step 0: build the page pool.
	pool := memimage.New(blob, pageSize)
	totalPages := pool.Remaining()

	// Step 1: discover EOCDs, build skeletons, drop incoherent ones.
	eocdOffsets := pool.FindBytes(zipfmt.EOCDMagic)
	skeletons := make([]*skeleton.Skeleton, 0, len(eocdOffsets))
	for _, off := range eocdOffsets {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		sk, err := skeleton.New(pool, off)
		if err != nil {
			slog.Debug("dropping EOCD candidate", "offset", off, "err", err)
			continue
		}
		// PageCount includes the trailing tail slot; the archive itself
		// spans one page fewer.
		if archivePages := sk.PageCount() - 1; archivePages > totalPages {
			slog.Debug("dropping skeleton: page count exceeds pool size", "offset", off, "pages", archivePages)
			continue
		}
		skeletons = append(skeletons, sk)
	}
	slog.Info("discovered skeletons", "count", len(skeletons))
	if len(skeletons) == 0 {
		return nil, nil
	}

	// Step 2: discover and parse all CDs across the full blob.
	cdOffsets := pool.FindBytes(zipfmt.CDMagic)
	cds := make([]cdInstance, 0, len(cdOffsets))
	for _, off := range cdOffsets {
		cd, _, err := zipfmt.ParseCD(blob[off:])
		if err != nil {
			slog.Debug("dropping CD candidate", "offset", off, "err", err)
			continue
		}
		cds = append(cds, cdInstance{offset: off, cd: cd})
	}
	slog.Info("discovered central directory records", "count", len(cds))
	if len(cds) == 0 {
		return render(skeletons, blob), nil
	}

	// Step 3: cluster the CD list with k = |skeletons|.
	points := make([]cluster.Point, len(cds))
	for i, inst := range cds {
		points[i] = cluster.Point{Fingerprint: inst.cd.Fingerprint(), Index: i}
	}
	clusters, err := cluster.KMeans(points, len(skeletons))
	if err != nil {
		slog.Error("clustering failed", "err", err)
		return nil, err
	}

	// Step 4: sort each cluster by ascending lf_offset.
	for _, members := range clusters {
		sortByLFOffset(members, cds)
	}

	// Step 5: attribute clusters to skeletons and splice in CD pages.
	attributeClusters(pool, skeletons, clusters, cds)

	// Step 6: reparse CDs on each rendered skeleton and place straddling LFs.
	lfOffsets := pool.FindBytes(zipfmt.LFMagic)
	for _, sk := range skeletons {
		reparseAndPlaceLFs(pool, sk, blob, lfOffsets)
	}

	return render(skeletons, blob), nil
}

func sortByLFOffset(members []int, cds []cdInstance) {
	// Insertion sort: cluster sizes are small relative to the CD
	// population and this keeps the comparison logic obvious.
	for i := 1; i < len(members); i++ {
		for j := i; j > 0 && cds[members[j-1]].cd.LFOffset > cds[members[j]].cd.LFOffset; j-- {
			members[j-1], members[j] = members[j], members[j-1]
		}
	}
}

// attributeClusters chooses, for each cluster, the skeleton minimising
// (tot_entries - |cluster|)^2 (greedy, ties broken by first occurrence),
// then splices each member's containing page into that skeleton starting
// at cd_start_pg_idx().
func attributeClusters(pool *memimage.PagePool, skeletons []*skeleton.Skeleton, clusters [][]int, cds []cdInstance) {
	for _, members := range clusters {
		if len(members) == 0 {
			continue
		}

		best, bestScore := 0, -1
		for i, sk := range skeletons {
			diff := int(sk.EOCD.TotalEntries) - len(members)
			score := diff * diff
			if bestScore < 0 || score < bestScore {
				best, bestScore = i, score
			}
		}
		target := skeletons[best]
		cdStartIdx := target.CDStartPageIndex()

		// Pages are placed one at a time rather than via a single
		// AssignPages splice so a pool miss on one member (edge policy:
		// "silently skipped") doesn't overwrite a later slot with a hole.
		// The write cursor only advances on a successful take, so the
		// taken pages still land packed contiguously from cdStartIdx.
		next := cdStartIdx
		for _, idx := range members {
			page, err := pool.TakePageFor(cds[idx].offset)
			if err != nil {
				slog.Debug("pool miss placing CD page", "offset", cds[idx].offset, "err", err)
				continue
			}
			target.AssignPage(next, page)
			next++
		}
	}
}

// reparseAndPlaceLFs renders sk so far, re-scans the rendered buffer for
// CD magics (recovering CDs that straddle a page boundary), and for each
// one derives the expected LF bytes and searches the original blob's LF
// magic offsets for an exact match.
func reparseAndPlaceLFs(pool *memimage.PagePool, sk *skeleton.Skeleton, blob []byte, lfOffsets []int64) {
	rendered := sk.Render(blob, skeleton.DefaultHoleSize)

	for _, off := range scanner.FindAll(rendered, zipfmt.CDMagic) {
		cd, _, err := zipfmt.ParseCD(rendered[off:])
		if err != nil {
			continue
		}

		want := cd.AsLF().Append(nil)
		match, ok := findExactLF(blob, lfOffsets, want)
		if !ok {
			continue
		}

		page, err := pool.TakePageFor(match)
		if err != nil {
			slog.Debug("pool miss placing LF page", "offset", match, "err", err)
			continue
		}
		sk.AssignPage(sk.PageIndexFor(int64(cd.LFOffset)), page)
	}
}

// findExactLF returns the first offset in lfOffsets whose following
// len(want) bytes in blob equal want exactly.
func findExactLF(blob []byte, lfOffsets []int64, want []byte) (int64, bool) {
	for _, off := range lfOffsets {
		end := off + int64(len(want))
		if end > int64(len(blob)) {
			continue
		}
		if bytes.Equal(blob[off:end], want) {
			return off, true
		}
	}
	return 0, false
}

func render(skeletons []*skeleton.Skeleton, blob []byte) []Result {
	out := make([]Result, len(skeletons))
	for i, sk := range skeletons {
		out[i] = Result{Index: i, Bytes: sk.Render(blob, skeleton.DefaultHoleSize)}
	}
	return out
}
