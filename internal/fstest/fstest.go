// Package fstest provides in-memory image fixtures for tests elsewhere in
// this module. It is grounded on (and named differently from) the
// teacher's own `testing` helper package; the rename avoids colliding with
// the standard library's "testing" package, which every _test.go file here
// also imports.
package fstest

import (
	"crypto/rand"

	"github.com/xaionaro-go/bytesextra"

	"github.com/roadkillsanta/nufs/internal/blockstore"
	"github.com/roadkillsanta/nufs/internal/layout"
)

// NewImage returns a fresh, in-memory, zero-filled block store of the
// given layout, with the reserved blocks already marked allocated. Nothing
// is written to disk; the backing buffer disappears when the test ends.
func NewImage(l layout.Layout) (*blockstore.Store, error) {
	buf := make([]byte, l.ImageSize())
	stream := bytesextra.NewReadWriteSeeker(buf)
	return blockstore.OpenStream(stream, l, true)
}

// RandomBytes returns `n` bytes of cryptographically random data, used by
// tests to build file contents that won't accidentally collide with a
// zero-filled hole.
func RandomBytes(n int) []byte {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return buf
}
