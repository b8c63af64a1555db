package blockstore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"

	"github.com/roadkillsanta/nufs/internal/blockstore"
	"github.com/roadkillsanta/nufs/internal/layout"

	nufserrors "github.com/roadkillsanta/nufs/errors"
)

func newFreshStore(t *testing.T, l layout.Layout) *blockstore.Store {
	buf := make([]byte, l.ImageSize())
	stream := bytesextra.NewReadWriteSeeker(buf)
	store, err := blockstore.OpenStream(stream, l, true)
	require.NoError(t, err)
	return store
}

func TestFreshImageReservesBitmapAndInodeTableBlocks(t *testing.T) {
	l := layout.DefaultLayout()
	store := newFreshStore(t, l)

	bbm := store.BlockBitmap()
	for i := uint32(0); i < l.ReservedBlocks(); i++ {
		assert.True(t, bbm.Get(int(i)), "reserved block %d should be marked allocated", i)
	}
	assert.False(t, bbm.Get(int(l.FirstDataBlock())), "first data block should be free")
}

func TestGetBlockViewsAreWritableAndStable(t *testing.T) {
	l := layout.DefaultLayout()
	store := newFreshStore(t, l)

	block := store.GetBlock(l.FirstDataBlock())
	block[0] = 0xAB

	again := store.GetBlock(l.FirstDataBlock())
	assert.Equal(t, byte(0xAB), again[0])
}

func TestGetBlockOutOfRangePanics(t *testing.T) {
	l := layout.DefaultLayout()
	store := newFreshStore(t, l)
	assert.Panics(t, func() { store.GetBlock(l.TotalBlocks) })
}

func TestSyncThenReopenPreservesContents(t *testing.T) {
	l := layout.DefaultLayout()
	buf := make([]byte, l.ImageSize())
	stream := bytesextra.NewReadWriteSeeker(buf)

	store, err := blockstore.OpenStream(stream, l, true)
	require.NoError(t, err)
	store.GetBlock(l.FirstDataBlock())[0] = 0x42
	require.NoError(t, store.Sync())

	reopened, err := blockstore.OpenStream(stream, l, false)
	require.NoError(t, err)
	assert.Equal(t, byte(0x42), reopened.GetBlock(l.FirstDataBlock())[0])
}

func TestReopenWithMismatchedLayoutFailsHeaderCheck(t *testing.T) {
	l := layout.DefaultLayout()
	buf := make([]byte, l.ImageSize())
	stream := bytesextra.NewReadWriteSeeker(buf)

	store, err := blockstore.OpenStream(stream, l, true)
	require.NoError(t, err)
	require.NoError(t, store.Sync())

	wrong := l
	wrong.InodeCount = l.InodeCount * 2
	_, err = blockstore.OpenStream(stream, wrong, false)
	assert.ErrorIs(t, err, nufserrors.ErrCorruptImage)
}

func TestReopenOfUnformattedStreamFails(t *testing.T) {
	l := layout.DefaultLayout()
	buf := make([]byte, l.ImageSize())
	stream := bytesextra.NewReadWriteSeeker(buf)

	_, err := blockstore.OpenStream(stream, l, false)
	assert.ErrorIs(t, err, nufserrors.ErrCorruptImage)
}
