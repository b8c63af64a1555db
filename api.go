// Package nufs implements a single-file, fixed-layout filesystem core: a
// block bitmap, an inode bitmap, an inode table, single-block directories,
// and byte-range read/write over a two-level (primary + one indirect
// block) addressing scheme. It is a storage engine only — mounting it as a
// FUSE filesystem is the caller's job.
package nufs

import (
	"time"
)

// FileStat is a platform-independent description of an inode, grounded on
// the teacher's api.go FileStat, trimmed to the fields this filesystem's
// inode record can actually produce: there's no uid/gid, no nlink
// bookkeeping (Open Question 6), and no timestamps on disk, so
// LastModified is always the zero time.
type FileStat struct {
	InodeNumber  uint64
	ModeFlags    uint32
	Size         int64
	BlockSize    int64
	NumBlocks    int64
	LastModified time.Time
}

// IsDir reports whether the stat describes a directory.
func (s FileStat) IsDir() bool {
	return IsDir(s.ModeFlags)
}

// IsFile reports whether the stat describes a regular file.
func (s FileStat) IsFile() bool {
	return IsRegular(s.ModeFlags)
}

// FSStat is a platform-independent description of the whole image,
// grounded on the teacher's api.go FSStat, trimmed to what a fixed-layout
// image without a volume label or filesystem ID can report.
type FSStat struct {
	BlockSize     int64
	TotalBlocks   uint64
	BlocksFree    uint64
	Inodes        uint64
	InodesFree    uint64
	MaxNameLength int64
}
