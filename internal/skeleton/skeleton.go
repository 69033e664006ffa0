// Package skeleton builds and renders the ordered-with-holes page list
// representing one reconstructed archive. It implements components D
// (Archive Skeleton) and G (Renderer) of the reconstruction pipeline.
package skeleton

import (
	"errors"

	"github.com/zipshard/zipshard/internal/memimage"
	"github.com/zipshard/zipshard/internal/zipfmt"
)

// ErrGeometry is returned when an EOCD candidate's offsets and sizes
// don't describe a coherent page layout (e.g. the computed page count
// would be negative). Callers drop the skeleton and move on.
var ErrGeometry = errors.New("skeleton: incoherent archive geometry")

// DefaultHoleSize is the fixed zero-block size substituted for
// unassigned slots during Render, independent of the pool's page size.
// This is a latent mismatch when PageSize != 1024: rendered output shifts
// relative to true archive offsets in that case. It is kept fixed rather
// than tied to page size.
const DefaultHoleSize = 1024

// Skeleton is the ordered, holed page list for one recovered archive.
type Skeleton struct {
	EOCD     zipfmt.EOCD
	InitOffs int64 // bytes from the start of the first page to archive byte 0
	pageSize int64
	pages    []memimage.Page // nil/zero entries are unassigned holes
}

// New parses an EOCD at ptr in pool's blob and computes the archive's page
// geometry. The page holding the EOCD itself is taken from
// the pool immediately and placed at the last occupied slot.
func New(pool *memimage.PagePool, ptr int64) (*Skeleton, error) {
	blob := pool.Blob()
	if ptr < 0 || ptr >= int64(len(blob)) {
		return nil, ErrGeometry
	}
	eocd, _, err := zipfmt.ParseEOCD(blob[ptr:])
	if err != nil {
		return nil, err
	}

	ps := pool.PageSize()
	eocdPgOffs := floorMod(ptr, ps)
	archiveEnd := int64(eocd.CDSize) + int64(eocd.CDOffset)

	if archiveEnd < eocdPgOffs {
		return nil, ErrGeometry
	}

	initOffs := floorMod(ps-floorMod(archiveEnd-eocdPgOffs, ps), ps)
	if archiveEnd < eocdPgOffs+initOffs {
		return nil, ErrGeometry
	}

	rem := archiveEnd - eocdPgOffs - initOffs
	if rem < 0 {
		return nil, ErrGeometry
	}

	pgCount := rem / ps // floor division: the "+1"s below account for the partial head/tail pages
	if eocdPgOffs > 0 {
		pgCount++
	}
	if initOffs > 0 {
		pgCount++
	}
	if pgCount <= 0 {
		return nil, ErrGeometry
	}

	sk := &Skeleton{
		EOCD:     eocd,
		InitOffs: initOffs,
		pageSize: ps,
		pages:    make([]memimage.Page, pgCount+1),
	}

	eocdPage, err := pool.TakePageFor(ptr)
	if err != nil {
		return nil, err
	}
	sk.pages[pgCount-1] = eocdPage

	return sk, nil
}

func floorMod(a, m int64) int64 {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}

// PageSize returns the page size this skeleton was built against.
func (sk *Skeleton) PageSize() int64 { return sk.pageSize }

// PageCount returns the number of slots in the skeleton's page list.
func (sk *Skeleton) PageCount() int { return len(sk.pages) }

// PageIndexFor maps a byte offset relative to the archive start (e.g. a
// CD's lf_offset, or cd_offset) to the page-list index that should carry
// the page containing that byte.
func (sk *Skeleton) PageIndexFor(offs int64) int {
	return int((offs + sk.InitOffs) / sk.pageSize)
}

// CDStartPageIndex is PageIndexFor(cd_offset): the first page index the
// Central Directory region occupies.
func (sk *Skeleton) CDStartPageIndex() int {
	return sk.PageIndexFor(int64(sk.EOCD.CDOffset))
}

// AssignPages splices pages into the skeleton's page list starting at
// insertionPt, replacing indices [insertionPt, insertionPt+len(pages)).
// The list grows if the splice would run past its current length.
func (sk *Skeleton) AssignPages(insertionPt int, pages []memimage.Page) {
	need := insertionPt + len(pages)
	if need > len(sk.pages) {
		grown := make([]memimage.Page, need)
		copy(grown, sk.pages)
		sk.pages = grown
	}
	copy(sk.pages[insertionPt:], pages)
}

// AssignPage writes a single page at idx. It is a no-op if idx is out of
// bounds.
func (sk *Skeleton) AssignPage(idx int, page memimage.Page) {
	if idx < 0 || idx >= len(sk.pages) {
		return
	}
	sk.pages[idx] = page
}

// Render concatenates the skeleton's page ranges from blob, substituting
// a zero block of length holeSize for each unassigned slot. Pass
// DefaultHoleSize (1024) to match the documented default behaviour.
func (sk *Skeleton) Render(blob []byte, holeSize int) []byte {
	out := make([]byte, 0, len(sk.pages)*int(sk.pageSize))
	hole := make([]byte, holeSize)
	for _, p := range sk.pages {
		if p.Assigned() {
			out = append(out, blob[p.Start():p.End()]...)
		} else {
			out = append(out, hole...)
		}
	}
	return out
}
