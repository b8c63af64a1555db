package nufs

import (
	stderrors "errors"

	nufserrors "github.com/roadkillsanta/nufs/errors"
)

// This file adapts Engine's (value, error) methods onto the 0/-1/-2
// integer contract from spec.md §4.6/§6, for callers (e.g. a FUSE shim)
// that want the original ABI rather than Go errors.

func isNotFound(err error) bool {
	return stderrors.Is(err, nufserrors.ErrNotFound)
}

// FindCode implements find(path) → 0/−1.
func (e *Engine) FindCode(path string) int {
	if _, err := e.Find(path); err != nil {
		return -1
	}
	return 0
}

// StatCode implements stat(path, out) → 0, or −2/−1, writing into *out on
// success.
func (e *Engine) StatCode(path string, out *FileStat) int {
	stat, err := e.Stat(path)
	if err != nil {
		if isNotFound(err) {
			return -2
		}
		return -1
	}
	*out = stat
	return 0
}

// ReadCode implements read(path, buf, offset) → bytes read, or −2/−1.
func (e *Engine) ReadCode(path string, buf []byte, offset int64) int {
	n, err := e.Read(path, buf, offset)
	if err != nil {
		if isNotFound(err) {
			return -2
		}
		return -1
	}
	return n
}

// WriteCode implements write(path, buf, offset) → bytes written, or −2/−1.
func (e *Engine) WriteCode(path string, data []byte, offset int64) int {
	n, err := e.Write(path, data, offset)
	if err != nil {
		if isNotFound(err) {
			return -2
		}
		return -1
	}
	return n
}

// MknodCode implements mknod(path, mode) → 0/−1.
func (e *Engine) MknodCode(path string, mode uint32) int {
	if err := e.Mknod(path, mode); err != nil {
		return -1
	}
	return 0
}

// UnlinkCode implements unlink(path) → 0/−1.
func (e *Engine) UnlinkCode(path string) int {
	if err := e.Unlink(path); err != nil {
		return -1
	}
	return 0
}

// RenameCode implements rename(from, to) → 0/−1.
func (e *Engine) RenameCode(from, to string) int {
	if err := e.Rename(from, to); err != nil {
		return -1
	}
	return 0
}

// ChmodCode implements chmod(path, mode) → 0/−1.
func (e *Engine) ChmodCode(path string, mode uint32) int {
	if err := e.Chmod(path, mode); err != nil {
		return -1
	}
	return 0
}

// TruncateCode implements truncate(path) → 0/−1.
func (e *Engine) TruncateCode(path string) int {
	if err := e.Truncate(path); err != nil {
		return -1
	}
	return 0
}
