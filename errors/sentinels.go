package errors

import "syscall"

func newSentinel(errno syscall.Errno, message string) nufsError {
	return nufsError{message: message, errno: errno}
}

// ErrNotFound is returned when a path component cannot be resolved to an
// inode, per spec.md §7.
var ErrNotFound DriverError = newSentinel(syscall.ENOENT, "no such file or directory")

// ErrIsADirectory is returned when an operation expecting a regular file is
// given a directory.
var ErrIsADirectory DriverError = newSentinel(syscall.EISDIR, "is a directory")

// ErrNotADirectory is returned when a path walks through a component that
// isn't a directory, or an operation expecting a directory is given a file.
var ErrNotADirectory DriverError = newSentinel(syscall.ENOTDIR, "not a directory")

// ErrNameTooLong is returned when a path component exceeds the 15-byte
// directory entry name limit.
var ErrNameTooLong DriverError = newSentinel(syscall.ENAMETOOLONG, "file name too long")

// ErrNoSpace is returned when the block bitmap, inode bitmap, or a
// directory's single block has no room left.
var ErrNoSpace DriverError = newSentinel(syscall.ENOSPC, "no space left on device")

// ErrExists is returned when an operation that requires a fresh name finds
// one already bound in the destination directory (Open Question 5).
var ErrExists DriverError = newSentinel(syscall.EEXIST, "file exists")

// ErrInvalidArgument is returned for malformed input the caller controls
// directly: a path with no final component (the root or an empty path)
// where a parent is needed, a negative write offset, or a file block index
// past what the indirect block can address.
var ErrInvalidArgument DriverError = newSentinel(syscall.EINVAL, "invalid argument")

// ErrCorruptImage is returned when an existing image's header doesn't match
// the magic number or the layout it was opened with.
var ErrCorruptImage DriverError = newSentinel(syscall.EIO, "corrupt or mismatched image header")
