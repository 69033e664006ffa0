// Package memimage owns the raw blob being recovered and a pool of
// equal-sized pages covering it. It implements component C of the
// reconstruction pipeline: the fragmented-image model.
package memimage

import (
	"errors"

	"github.com/zipshard/zipshard/internal/scanner"
)

// ErrPoolMiss is returned by TakePageFor when a page lookup by address
// matches zero or more than one pool page. With equal-sized,
// non-overlapping pages this should not happen.
var ErrPoolMiss = errors.New("memimage: page lookup matched zero or multiple pages")

// Page is either an assigned byte range of exactly PageSize bytes, or an
// unassigned hole placeholder.
type Page struct {
	assigned bool
	start    int64
	end      int64
}

// Assigned reports whether this page carries a real byte range.
func (p Page) Assigned() bool { return p.assigned }

// Start and End return the page's byte range within the blob. Only
// meaningful when Assigned() is true.
func (p Page) Start() int64 { return p.start }
func (p Page) End() int64   { return p.end }

// Contains reports whether addr falls within this page's range.
func (p Page) Contains(addr int64) bool {
	return p.assigned && addr >= p.start && addr < p.end
}

// Unassigned is the hole placeholder used for page slots that have not
// (yet, or ever) been filled.
var Unassigned = Page{}

// PagePool is the ordered collection of pages covering [0, N) of a blob.
// Pages are removed from the pool exactly once, when taken by
// TakePageFor; a page taken for one archive cannot be attributed to
// another.
type PagePool struct {
	blob     []byte
	pageSize int64
	pages    []Page // nil entry (zero value) once taken
}

// New builds a PagePool over blob, populated with ceil(len(blob)/pageSize)
// assigned pages. The last page may be short if len(blob) is not a
// multiple of pageSize.
func New(blob []byte, pageSize int64) *PagePool {
	n := int64(len(blob))
	count := (n + pageSize - 1) / pageSize
	pages := make([]Page, count)
	for i := range pages {
		start := int64(i) * pageSize
		end := min(start+pageSize, n)
		pages[i] = Page{assigned: true, start: start, end: end}
	}
	return &PagePool{blob: blob, pageSize: pageSize, pages: pages}
}

// PageSize returns the pool's page size.
func (pp *PagePool) PageSize() int64 { return pp.pageSize }

// Blob returns the underlying byte blob. Callers must not mutate it.
func (pp *PagePool) Blob() []byte { return pp.blob }

// Remaining returns the number of pages still in the pool (not yet taken).
func (pp *PagePool) Remaining() int {
	n := 0
	for _, p := range pp.pages {
		if p.assigned {
			n++
		}
	}
	return n
}

// TakePageFor finds the unique pool page whose range contains addr,
// removes it from the pool, and returns it. If zero or more than one
// match (should not happen with equal-sized non-overlapping pages, but
// the guard is preserved), returns ErrPoolMiss and leaves the pool
// unchanged.
func (pp *PagePool) TakePageFor(addr int64) (Page, error) {
	idx := -1
	matches := 0
	for i, p := range pp.pages {
		if p.Contains(addr) {
			matches++
			idx = i
		}
	}
	if matches != 1 {
		return Page{}, ErrPoolMiss
	}
	taken := pp.pages[idx]
	pp.pages[idx] = Unassigned
	return taken, nil
}

// FindBytes returns every offset where pattern occurs in the blob, per
// component A (internal/scanner), restricted to non-overlapping matches.
func (pp *PagePool) FindBytes(pattern [4]byte) []int64 {
	return scanner.FindAll(pp.blob, pattern)
}
