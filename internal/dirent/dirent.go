// Package dirent implements the directory layer: fixed 32-byte entries
// packed into a single data block, with lookup/put/remove/list operations
// over that block. Directories in this filesystem never grow past one
// block (spec.md's explicit Non-goal), so every operation here works on a
// single []byte of layout.Layout.BlockSize.
package dirent

import (
	"bytes"
	"encoding/binary"

	"github.com/roadkillsanta/nufs/internal/layout"

	nufserrors "github.com/roadkillsanta/nufs/errors"
)

// MaxNameLength is the longest name a directory entry can hold, per
// spec.md §4.4/§4.6. The on-disk Name field is wider to leave room for a
// trailing NUL and padding without changing this enforced limit.
const MaxNameLength = 15

// Entry is a decoded directory entry.
type Entry struct {
	Name string
	Inum uint32
}

func encode(name string, inum uint32) [layout.DirentRecordSize]byte {
	var buf [layout.DirentRecordSize]byte
	copy(buf[0:20], name)
	binary.LittleEndian.PutUint32(buf[20:24], inum)
	return buf
}

func decode(buf []byte) Entry {
	nameEnd := bytes.IndexByte(buf[0:20], 0)
	if nameEnd < 0 {
		nameEnd = 20
	}
	return Entry{
		Name: string(buf[0:nameEnd]),
		Inum: binary.LittleEndian.Uint32(buf[20:24]),
	}
}

func slotAt(block []byte, i uint32) []byte {
	start := i * layout.DirentRecordSize
	return block[start : start+layout.DirentRecordSize]
}

// Lookup scans a directory block for `name`, returning its inode number and
// true if found.
func Lookup(block []byte, l layout.Layout, name string) (uint32, bool) {
	for i := uint32(0); i < l.DirentsPerBlock(); i++ {
		entry := decode(slotAt(block, i))
		if entry.Inum != 0 && entry.Name == name {
			return entry.Inum, true
		}
	}
	return 0, false
}

// Put adds a new entry to a directory block. It returns ErrExists if `name`
// is already bound, ErrNameTooLong if it exceeds MaxNameLength, and
// ErrNoSpace if the block has no free slot.
func Put(block []byte, l layout.Layout, name string, inum uint32) error {
	if len(name) > MaxNameLength {
		return nufserrors.ErrNameTooLong.WithMessage(name)
	}

	freeSlot := -1
	for i := uint32(0); i < l.DirentsPerBlock(); i++ {
		entry := decode(slotAt(block, i))
		if entry.Inum == 0 {
			if freeSlot < 0 {
				freeSlot = int(i)
			}
			continue
		}
		if entry.Name == name {
			return nufserrors.ErrExists.WithMessage(name)
		}
	}

	if freeSlot < 0 {
		return nufserrors.ErrNoSpace.WithMessage("directory block is full")
	}

	encoded := encode(name, inum)
	copy(slotAt(block, uint32(freeSlot)), encoded[:])
	return nil
}

// Remove clears the entry named `name` from a directory block. It returns
// ErrNotFound if no such entry exists.
func Remove(block []byte, l layout.Layout, name string) error {
	for i := uint32(0); i < l.DirentsPerBlock(); i++ {
		slot := slotAt(block, i)
		entry := decode(slot)
		if entry.Inum != 0 && entry.Name == name {
			var zero [layout.DirentRecordSize]byte
			copy(slot, zero[:])
			return nil
		}
	}
	return nufserrors.ErrNotFound.WithMessage(name)
}

// UnlinkInum clears the first entry bound to `inum`, regardless of name.
// Used by rename to detach the source entry from its parent while leaving
// the inode itself intact, per spec.md §4.5's unlink(dir, inum).
func UnlinkInum(block []byte, l layout.Layout, inum uint32) error {
	for i := uint32(0); i < l.DirentsPerBlock(); i++ {
		slot := slotAt(block, i)
		entry := decode(slot)
		if entry.Inum == inum {
			var zero [layout.DirentRecordSize]byte
			copy(slot, zero[:])
			return nil
		}
	}
	return nufserrors.ErrNotFound.WithMessage("no entry for inode")
}

// List returns every entry in a directory block, in slot order, except the
// self-referencing "." entry every directory carries — matching the
// teacher's removeDotsFromSlice convention in basedriver.Driver.
func List(block []byte, l layout.Layout) []Entry {
	entries := make([]Entry, 0, l.DirentsPerBlock())
	for i := uint32(0); i < l.DirentsPerBlock(); i++ {
		entry := decode(slotAt(block, i))
		if entry.Inum == 0 || entry.Name == "." {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

// InitDir seeds a freshly allocated directory block with a self-referencing
// "." entry. spec.md's invariant 2 requires this for the root; this rewrite
// supplements it for every directory, following directory_init in
// original_source/directory.c (see SPEC_FULL.md §4.7).
func InitDir(block []byte, selfInum uint32) error {
	for i := range block {
		block[i] = 0
	}
	encoded := encode(".", selfInum)
	copy(block[0:layout.DirentRecordSize], encoded[:])
	return nil
}
