// Package bitmap wraps github.com/boljen/go-bitmap to address bit-addressed
// allocation maps over a fixed-size byte region, the way the teacher's
// drivers/common.Allocator wraps it for block/inode allocation bitmaps.
package bitmap

import (
	"fmt"

	gobitmap "github.com/boljen/go-bitmap"
)

// Map is a fixed-size bit-addressed allocation map backed by a byte slice.
// Bit i lives in byte i/8, mask 1 << (i%8), matching spec.md's bit-order
// requirement.
type Map struct {
	bits gobitmap.Bitmap
	size int
}

// New creates a Map with room for `size` bits, all initially clear.
func New(size int) Map {
	return Map{bits: gobitmap.New(size), size: size}
}

// FromBytes wraps an existing byte region as a Map without copying it. The
// region must be at least big enough to hold `size` bits.
func FromBytes(data []byte, size int) Map {
	return Map{bits: gobitmap.Bitmap(data), size: size}
}

// Bytes returns the raw backing bytes of the map.
func (m Map) Bytes() []byte {
	return []byte(m.bits)
}

// Len returns the number of addressable bits.
func (m Map) Len() int {
	return m.size
}

// Get returns the value of bit i.
func (m Map) Get(i int) bool {
	m.checkBounds(i)
	return m.bits.Get(i)
}

// Put sets bit i to the given value.
func (m Map) Put(i int, value bool) {
	m.checkBounds(i)
	m.bits.Set(i, value)
}

func (m Map) checkBounds(i int) {
	if i < 0 || i >= m.size {
		panic(fmt.Sprintf("bitmap index %d out of range [0, %d)", i, m.size))
	}
}

// FirstClear scans for the first clear bit at or after `start`. It returns
// -1 if no clear bit exists in [start, Len()).
func (m Map) FirstClear(start int) int {
	for i := start; i < m.size; i++ {
		if !m.bits.Get(i) {
			return i
		}
	}
	return -1
}

// CountSet returns the number of set bits in the map.
func (m Map) CountSet() int {
	count := 0
	for i := 0; i < m.size; i++ {
		if m.bits.Get(i) {
			count++
		}
	}
	return count
}
