// Package inode implements the inode table: fixed-size on-disk records
// addressed by inode number, plus allocation, release, and block-index
// resolution (primary block + one level of indirection).
//
// The record layout is grounded on the teacher's unixv6.RawInode and
// unixv1.RawInode/RawDirent, which favor a fixed Go struct decoded with
// encoding/binary over an unsafe pointer cast.
package inode

import (
	"encoding/binary"

	"github.com/roadkillsanta/nufs/internal/bitmap"
	"github.com/roadkillsanta/nufs/internal/blockalloc"
	"github.com/roadkillsanta/nufs/internal/blockstore"
	"github.com/roadkillsanta/nufs/internal/layout"

	nufserrors "github.com/roadkillsanta/nufs/errors"
)

// RawInode is the in-memory form of an on-disk inode record: 16 bytes,
// little-endian, four uint32 fields. See SPEC_FULL.md §3 for why Block and
// IBlock are uint32 rather than the original's uint8.
type RawInode struct {
	Mode   uint32
	Size   uint32
	Block  uint32
	IBlock uint32
}

// Encode serializes the record into its 16-byte wire form.
func (r RawInode) Encode() [layout.InodeRecordSize]byte {
	var buf [layout.InodeRecordSize]byte
	binary.LittleEndian.PutUint32(buf[0:4], r.Mode)
	binary.LittleEndian.PutUint32(buf[4:8], r.Size)
	binary.LittleEndian.PutUint32(buf[8:12], r.Block)
	binary.LittleEndian.PutUint32(buf[12:16], r.IBlock)
	return buf
}

// Decode parses a 16-byte wire record.
func Decode(buf []byte) RawInode {
	return RawInode{
		Mode:   binary.LittleEndian.Uint32(buf[0:4]),
		Size:   binary.LittleEndian.Uint32(buf[4:8]),
		Block:  binary.LittleEndian.Uint32(buf[8:12]),
		IBlock: binary.LittleEndian.Uint32(buf[12:16]),
	}
}

// Table is the inode table plus the inode-allocation bitmap and the block
// allocator it uses to back new inodes with data blocks.
type Table struct {
	layout layout.Layout
	store  *blockstore.Store
	blocks *blockalloc.Allocator
}

// New wraps a block store's inode region for inode-level operations.
func New(l layout.Layout, store *blockstore.Store, blocks *blockalloc.Allocator) *Table {
	return &Table{layout: l, store: store, blocks: blocks}
}

func (t *Table) inodeBitmap() bitmap.Map {
	return t.store.InodeBitmap()
}

func (t *Table) record(inum uint32) []byte {
	start := int64(inum) * layout.InodeRecordSize
	table := t.store.InodeTableBytes()
	return table[start : start+layout.InodeRecordSize]
}

// Get reads the inode record for `inum`. It returns ErrNotFound if `inum` is
// out of range or not currently allocated.
func (t *Table) Get(inum uint32) (RawInode, error) {
	if inum == 0 || inum >= t.layout.InodeCount || !t.inodeBitmap().Get(int(inum)) {
		return RawInode{}, nufserrors.ErrNotFound.WithMessage("inode not allocated")
	}
	return Decode(t.record(inum)), nil
}

// Put overwrites the inode record for an already-allocated `inum`.
func (t *Table) Put(inum uint32, raw RawInode) error {
	if inum == 0 || inum >= t.layout.InodeCount || !t.inodeBitmap().Get(int(inum)) {
		return nufserrors.ErrNotFound.WithMessage("inode not allocated")
	}
	encoded := raw.Encode()
	copy(t.record(inum), encoded[:])
	return nil
}

// Alloc reserves the first free inode (never inode 0, which is permanently
// reserved) and a single primary data block for it, and writes an initial
// record with the given mode and zero size.
func (t *Table) Alloc(mode uint32) (uint32, RawInode, error) {
	ibm := t.inodeBitmap()
	inum := ibm.FirstClear(1)
	if inum < 0 {
		return 0, RawInode{}, nufserrors.ErrNoSpace.WithMessage("no free inodes")
	}

	primary, err := t.blocks.Alloc()
	if err != nil {
		return 0, RawInode{}, err
	}

	raw := RawInode{Mode: mode, Size: 0, Block: primary, IBlock: 0}
	ibm.Put(inum, true)
	encoded := raw.Encode()
	copy(t.record(uint32(inum)), encoded[:])
	return uint32(inum), raw, nil
}

// Free releases an inode and every data block it owns: the primary block
// and, if present, the indirect block itself — fixing Open Question 1,
// where the original only freed the slots an indirect block pointed to, not
// the indirect block's own storage.
func (t *Table) Free(inum uint32) error {
	raw, err := t.Get(inum)
	if err != nil {
		return err
	}

	t.blocks.Free(raw.Block)
	if raw.IBlock != 0 {
		indirect := t.store.GetBlock(raw.IBlock)
		for i := uint32(0); i < t.layout.RefsPerBlock(); i++ {
			num := binary.LittleEndian.Uint32(indirect[i*4 : i*4+4])
			if num != 0 {
				t.blocks.Free(num)
			}
		}
		t.blocks.Free(raw.IBlock)
	}

	t.inodeBitmap().Put(int(inum), false)
	var zero [layout.InodeRecordSize]byte
	copy(t.record(inum), zero[:])
	return nil
}

// BlockNum resolves file-relative block index `idx` (0 is the primary
// block, 1..RefsPerBlock come from the indirect block) to an absolute
// block number. It returns ErrNotFound if the block hasn't been allocated
// yet — callers that are growing the file should use EnsureBlock instead.
func (t *Table) BlockNum(raw RawInode, idx uint32) (uint32, error) {
	if idx == 0 {
		return raw.Block, nil
	}
	refIdx := idx - 1
	if refIdx >= t.layout.RefsPerBlock() {
		return 0, nufserrors.ErrInvalidArgument.WithMessage("file block index out of range")
	}
	if raw.IBlock == 0 {
		return 0, nufserrors.ErrNotFound.WithMessage("indirect block not allocated")
	}
	indirect := t.store.GetBlock(raw.IBlock)
	num := binary.LittleEndian.Uint32(indirect[refIdx*4 : refIdx*4+4])
	if num == 0 {
		return 0, nufserrors.ErrNotFound.WithMessage("file block not allocated")
	}
	return num, nil
}

// EnsureBlock resolves file-relative block index `idx`, allocating the
// indirect block and/or the target data block on demand, and persists the
// updated inode record. It returns the new record alongside the resolved
// block number so callers can fold it back into their working copy.
func (t *Table) EnsureBlock(inum uint32, raw RawInode, idx uint32) (RawInode, uint32, error) {
	if idx == 0 {
		return raw, raw.Block, nil
	}

	refIdx := idx - 1
	if refIdx >= t.layout.RefsPerBlock() {
		return raw, 0, nufserrors.ErrInvalidArgument.WithMessage("file block index out of range")
	}

	if raw.IBlock == 0 {
		ib, err := t.blocks.Alloc()
		if err != nil {
			return raw, 0, err
		}
		clearBlock(t.store.GetBlock(ib))
		raw.IBlock = ib
		if err := t.Put(inum, raw); err != nil {
			return raw, 0, err
		}
	}

	indirect := t.store.GetBlock(raw.IBlock)
	existing := binary.LittleEndian.Uint32(indirect[refIdx*4 : refIdx*4+4])
	if existing != 0 {
		return raw, existing, nil
	}

	num, err := t.blocks.Alloc()
	if err != nil {
		return raw, 0, err
	}
	clearBlock(t.store.GetBlock(num))
	binary.LittleEndian.PutUint32(indirect[refIdx*4:refIdx*4+4], num)
	return raw, num, nil
}

// Grow ensures every file-block index up to ceil(newSize/BlockSize)-1 is
// backed by a real allocated block, per spec.md §4.3's grow(inode, new_size):
// it densely fills slots 0,1,2,... rather than only the blocks a write
// happens to touch, so no index below the new size is ever left
// unallocated (invariant 6). It is a no-op if newSize doesn't require any
// block beyond what raw already has. Indexes below
// BlockCountForSize(raw.Size) are taken as already backed and are not
// re-checked, so slots released by Truncate (which keeps Size) are not
// re-allocated here.
func (t *Table) Grow(inum uint32, raw RawInode, newSize uint32) (RawInode, error) {
	current := t.layout.BlockCountForSize(raw.Size)
	target := t.layout.BlockCountForSize(newSize)

	for idx := current; idx < target; idx++ {
		var err error
		raw, _, err = t.EnsureBlock(inum, raw, idx)
		if err != nil {
			return raw, err
		}
	}
	return raw, nil
}

// Truncate releases every block addressed through the indirect block (but
// not the primary block) and frees the indirect block itself, per spec.md
// §4.3's truncate(inode). It does not touch Size; callers that need the
// file to read back as empty must update Size themselves.
func (t *Table) Truncate(inum uint32) error {
	raw, err := t.Get(inum)
	if err != nil {
		return err
	}
	if raw.IBlock == 0 {
		return nil
	}

	indirect := t.store.GetBlock(raw.IBlock)
	for i := uint32(0); i < t.layout.RefsPerBlock(); i++ {
		num := binary.LittleEndian.Uint32(indirect[i*4 : i*4+4])
		if num != 0 {
			t.blocks.Free(num)
		}
	}

	t.blocks.Free(raw.IBlock)
	raw.IBlock = 0
	return t.Put(inum, raw)
}

func clearBlock(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
