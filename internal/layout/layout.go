// Package layout defines the fixed on-disk geometry of a nufs image: block
// size, total block count, and inode count, plus the block indexes derived
// from them.
package layout

// InodeRecordSize is the serialized size, in bytes, of a single inode record.
// See internal/inode for the wire layout.
const InodeRecordSize = 16

// DirentRecordSize is the serialized size, in bytes, of a single directory
// entry. See internal/dirent for the wire layout.
const DirentRecordSize = 32

// Layout describes the fixed geometry of a disk image.
type Layout struct {
	// BlockSize is the size, in bytes, of a single block.
	BlockSize uint32
	// TotalBlocks is the total number of blocks in the image.
	TotalBlocks uint32
	// InodeCount is the number of entries in the inode table, including the
	// reserved inode 0.
	InodeCount uint32
}

// DefaultLayout reproduces the fixed constants from the specification:
// 4096-byte blocks, 256 blocks total, 256 inodes.
func DefaultLayout() Layout {
	return Layout{
		BlockSize:   4096,
		TotalBlocks: 256,
		InodeCount:  256,
	}
}

// InodeTableBlocks returns the number of blocks occupied by the inode table.
func (l Layout) InodeTableBlocks() uint32 {
	bytesNeeded := l.InodeCount * InodeRecordSize
	return ceilDiv(bytesNeeded, l.BlockSize)
}

// ReservedBlocks returns the number of blocks reserved at the start of the
// image: the block bitmap, the inode bitmap, and the inode table.
func (l Layout) ReservedBlocks() uint32 {
	return 2 + l.InodeTableBlocks()
}

// FirstDataBlock returns the index of the first block available for general
// allocation (directory and file data).
func (l Layout) FirstDataBlock() uint32 {
	return l.ReservedBlocks()
}

// ImageSize returns the total size of the disk image, in bytes.
func (l Layout) ImageSize() int64 {
	return int64(l.BlockSize) * int64(l.TotalBlocks)
}

// BlockBitmapBytes returns the number of bytes the block bitmap occupies at
// the front of block 0. The rest of that block is unused by the bitmap
// itself and holds the image header.
func (l Layout) BlockBitmapBytes() uint32 {
	return ceilDiv(l.TotalBlocks, 8)
}

// DirentsPerBlock returns the number of directory entries that fit in a
// single block.
func (l Layout) DirentsPerBlock() uint32 {
	return l.BlockSize / DirentRecordSize
}

// RefsPerBlock returns the number of block-number slots that fit in a single
// indirect block.
func (l Layout) RefsPerBlock() uint32 {
	return l.BlockSize / 4
}

// MaxFileSize returns the largest file size representable with a single
// primary block plus one indirect block, per spec.md's Non-goals.
func (l Layout) MaxFileSize() int64 {
	return int64(l.BlockSize) * (1 + int64(l.RefsPerBlock()))
}

func ceilDiv(a, b uint32) uint32 {
	return (a + b - 1) / b
}

// BlockCountForSize returns the number of file-blocks (blocks 0..n-1 in
// file-relative numbering) needed to hold `size` bytes. A size of 0 still
// requires one block, since the primary block always exists for a live
// inode.
func (l Layout) BlockCountForSize(size uint32) uint32 {
	if size == 0 {
		return 1
	}
	count := ceilDiv(size, l.BlockSize)
	if count == 0 {
		count = 1
	}
	return count
}
