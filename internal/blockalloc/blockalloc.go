// Package blockalloc implements the block allocator: first-fit allocation
// and release of data blocks against the block bitmap, grounded on the
// teacher's drivers/common.AllocatorMap (itself a thin first-clear-bit scan
// over a bitmap).
package blockalloc

import (
	"github.com/roadkillsanta/nufs/internal/bitmap"
	"github.com/roadkillsanta/nufs/internal/layout"
	nufserrors "github.com/roadkillsanta/nufs/errors"
)

// Allocator hands out and reclaims data-block numbers from the block
// bitmap. It never touches blocks below Layout.FirstDataBlock() — those are
// permanently reserved for the bitmaps and inode table.
type Allocator struct {
	layout layout.Layout
	bitmap bitmap.Map
}

// New wraps a block bitmap for allocation. `bm` must have been obtained from
// the same image the given layout describes.
func New(l layout.Layout, bm bitmap.Map) *Allocator {
	return &Allocator{layout: l, bitmap: bm}
}

// Alloc returns the number of a free data block, marking it allocated. It
// returns ErrNoSpace if the image has no free blocks left.
func (a *Allocator) Alloc() (uint32, error) {
	first := int(a.layout.FirstDataBlock())
	idx := a.bitmap.FirstClear(first)
	if idx < 0 {
		return 0, nufserrors.ErrNoSpace.WithMessage("no free data blocks")
	}
	a.bitmap.Put(idx, true)
	return uint32(idx), nil
}

// Free releases block `n` back to the pool. Freeing a block below
// FirstDataBlock, or one already free, is a caller bug and panics.
func (a *Allocator) Free(n uint32) {
	if n < a.layout.FirstDataBlock() {
		panic("blockalloc: cannot free a reserved block")
	}
	if !a.bitmap.Get(int(n)) {
		panic("blockalloc: double free of block")
	}
	a.bitmap.Put(int(n), false)
}

// IsAllocated reports whether block `n` is currently in use.
func (a *Allocator) IsAllocated(n uint32) bool {
	return a.bitmap.Get(int(n))
}

// FreeCount returns the number of unallocated data blocks.
func (a *Allocator) FreeCount() int {
	total := int(a.layout.TotalBlocks) - int(a.layout.FirstDataBlock())
	used := 0
	for i := int(a.layout.FirstDataBlock()); i < int(a.layout.TotalBlocks); i++ {
		if a.bitmap.Get(i) {
			used++
		}
	}
	return total - used
}
