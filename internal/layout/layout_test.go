package layout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roadkillsanta/nufs/internal/layout"
)

func TestDefaultLayoutMatchesSpecConstants(t *testing.T) {
	l := layout.DefaultLayout()
	assert.EqualValues(t, 4096, l.BlockSize)
	assert.EqualValues(t, 256, l.TotalBlocks)
	assert.EqualValues(t, 256, l.InodeCount)
	assert.EqualValues(t, 1048576, l.ImageSize())
}

func TestReservedBlocksCoverBitmapsAndInodeTable(t *testing.T) {
	l := layout.DefaultLayout()
	// block bitmap (1) + inode bitmap (1) + inode table blocks.
	assert.EqualValues(t, 2+l.InodeTableBlocks(), l.ReservedBlocks())
	assert.Equal(t, l.ReservedBlocks(), l.FirstDataBlock())
}

func TestInodeTableBlocksFitsAllInodes(t *testing.T) {
	l := layout.DefaultLayout()
	bytesAvailable := l.InodeTableBlocks() * l.BlockSize
	assert.GreaterOrEqual(t, bytesAvailable, l.InodeCount*layout.InodeRecordSize)
}

func TestDirentsPerBlock(t *testing.T) {
	l := layout.DefaultLayout()
	assert.EqualValues(t, 4096/32, l.DirentsPerBlock())
}

func TestMaxFileSize(t *testing.T) {
	l := layout.DefaultLayout()
	// 4 KiB primary block + 1024 refs * 4 KiB each via the indirect block.
	refsPerBlock := l.BlockSize / 4
	want := int64(l.BlockSize) * (1 + int64(refsPerBlock))
	assert.Equal(t, want, l.MaxFileSize())
}

func TestBlockCountForSize(t *testing.T) {
	l := layout.DefaultLayout()
	assert.EqualValues(t, 1, l.BlockCountForSize(0))
	assert.EqualValues(t, 1, l.BlockCountForSize(1))
	assert.EqualValues(t, 1, l.BlockCountForSize(l.BlockSize))
	assert.EqualValues(t, 2, l.BlockCountForSize(l.BlockSize+1))
}
