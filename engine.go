package nufs

import (
	"github.com/roadkillsanta/nufs/internal/blockalloc"
	"github.com/roadkillsanta/nufs/internal/blockstore"
	"github.com/roadkillsanta/nufs/internal/dirent"
	"github.com/roadkillsanta/nufs/internal/inode"
	"github.com/roadkillsanta/nufs/internal/layout"
	"github.com/roadkillsanta/nufs/internal/pathutil"

	nufserrors "github.com/roadkillsanta/nufs/errors"
)

// RootInum is the fixed inode number of the root directory.
const RootInum = 1

// Engine is the storage facade: the single entry point a host adapter
// (FUSE shim, CLI, test) drives to manipulate an image. It is
// single-threaded and non-reentrant — callers must serialize access
// themselves, the way the teacher's CommonDriver expects its caller to
// hold whatever lock the mount layer provides.
type Engine struct {
	layout layout.Layout
	store  *blockstore.Store
	blocks *blockalloc.Allocator
	inodes *inode.Table
}

// Open loads (or creates) the image at `path` under the given layout and
// ensures the root directory exists, per spec.md §4.1's init(path).
func Open(path string, l layout.Layout) (*Engine, error) {
	store, err := blockstore.Open(path, l)
	if err != nil {
		return nil, err
	}
	e, err := NewWithStore(store, l)
	if err != nil {
		store.Close()
		return nil, err
	}
	return e, nil
}

// NewWithStore builds an Engine over an already-open block store, ensuring
// the root directory exists. It exists for callers (tests, internal/fstest)
// that construct a Store over an in-memory backend rather than a file path.
func NewWithStore(store *blockstore.Store, l layout.Layout) (*Engine, error) {
	blocks := blockalloc.New(l, store.BlockBitmap())
	inodes := inode.New(l, store, blocks)

	e := &Engine{layout: l, store: store, blocks: blocks, inodes: inodes}
	if !store.InodeBitmap().Get(RootInum) {
		if err := e.initRoot(); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (e *Engine) initRoot() error {
	ibm := e.store.InodeBitmap()
	ibm.Put(RootInum, true)

	primary, err := e.blocks.Alloc()
	if err != nil {
		return err
	}

	raw := inode.RawInode{Mode: ModeIFDIR | 0755, Size: 0, Block: primary, IBlock: 0}
	if err := e.inodes.Put(RootInum, raw); err != nil {
		return err
	}
	return dirent.InitDir(e.store.GetBlock(primary), RootInum)
}

// Close flushes the image to disk and releases the backing file.
func (e *Engine) Close() error {
	return e.store.Close()
}

// resolve walks a path's components from the root, returning the inode
// number of the final component. The root itself resolves to RootInum
// without touching any directory block. Any resolved inum is, by
// construction, > 0 — fixing Open Question 3 by never reproducing the
// original's inverted "found" predicate.
func (e *Engine) resolve(path string) (uint32, error) {
	cur := uint32(RootInum)
	for _, name := range pathutil.Split(path) {
		raw, err := e.inodes.Get(cur)
		if err != nil {
			return 0, err
		}
		if !IsDir(raw.Mode) {
			return 0, nufserrors.ErrNotADirectory.WithMessage(name)
		}
		block := e.store.GetBlock(raw.Block)
		next, found := dirent.Lookup(block, e.layout, name)
		if !found {
			return 0, nufserrors.ErrNotFound.WithMessage(name)
		}
		cur = next
	}
	return cur, nil
}

// resolveParent walks every component of a path except the last, returning
// the parent directory's inode number and the final component's name.
// ParentAndName already rejects the rootless path (Open Question 4).
func (e *Engine) resolveParent(path string) (uint32, string, error) {
	parentParts, name, err := pathutil.ParentAndName(path)
	if err != nil {
		return 0, "", err
	}

	cur := uint32(RootInum)
	for _, part := range parentParts {
		raw, err := e.inodes.Get(cur)
		if err != nil {
			return 0, "", err
		}
		if !IsDir(raw.Mode) {
			return 0, "", nufserrors.ErrNotADirectory.WithMessage(part)
		}
		block := e.store.GetBlock(raw.Block)
		next, found := dirent.Lookup(block, e.layout, part)
		if !found {
			return 0, "", nufserrors.ErrNotFound.WithMessage(part)
		}
		cur = next
	}
	return cur, name, nil
}

// Find reports whether `path` resolves to a live inode.
func (e *Engine) Find(path string) (uint32, error) {
	return e.resolve(path)
}

// Stat returns the mode and size of the inode at `path`.
func (e *Engine) Stat(path string) (FileStat, error) {
	inum, err := e.resolve(path)
	if err != nil {
		return FileStat{}, err
	}
	raw, err := e.inodes.Get(inum)
	if err != nil {
		return FileStat{}, err
	}
	return FileStat{
		InodeNumber: uint64(inum),
		ModeFlags:   raw.Mode,
		Size:        int64(raw.Size),
		BlockSize:   int64(e.layout.BlockSize),
		NumBlocks:   int64(e.layout.BlockCountForSize(raw.Size)),
	}, nil
}

// Read copies up to len(buf) bytes starting at `offset` out of the file at
// `path`, clamped to the file's size. It refuses directories.
func (e *Engine) Read(path string, buf []byte, offset int64) (int, error) {
	inum, err := e.resolve(path)
	if err != nil {
		return 0, err
	}
	raw, err := e.inodes.Get(inum)
	if err != nil {
		return 0, err
	}
	if IsDir(raw.Mode) {
		return 0, nufserrors.ErrIsADirectory.WithMessage(path)
	}

	size := int64(raw.Size)
	if offset < 0 || offset >= size {
		return 0, nil
	}

	toRead := min(int64(len(buf)), size-offset)
	blockSize := int64(e.layout.BlockSize)
	var written int64
	for written < toRead {
		pos := offset + written
		blockIdx := uint32(pos / blockSize)
		blockOff := pos % blockSize

		bnum, err := e.inodes.BlockNum(raw, blockIdx)
		if err != nil {
			break
		}
		block := e.store.GetBlock(bnum)
		chunk := min(toRead-written, blockSize-blockOff)
		copy(buf[written:written+chunk], block[blockOff:blockOff+chunk])
		written += chunk
	}
	return int(written), nil
}

// Write copies len(data) bytes into the file at `path` starting at
// `offset`, growing it (and the underlying blocks) as needed, and sets
// Size to max(oldSize, offset+len(data)) — fixing Open Question 2, which
// would otherwise truncate any hidden tail data beyond the write.
//
// Growth runs as a pre-pass over the whole new size, per spec.md §4.3's
// grow(inode, new_size): every file-block index up to the new size is
// allocated, not just the ones this write happens to touch, so a write
// that starts past the current end of the file doesn't leave a gap of
// unallocated blocks behind it (invariant 6).
func (e *Engine) Write(path string, data []byte, offset int64) (int, error) {
	inum, err := e.resolve(path)
	if err != nil {
		return 0, err
	}
	raw, err := e.inodes.Get(inum)
	if err != nil {
		return 0, err
	}
	if IsDir(raw.Mode) {
		return 0, nufserrors.ErrIsADirectory.WithMessage(path)
	}
	if offset < 0 {
		return 0, nufserrors.ErrInvalidArgument.WithMessage("negative offset")
	}

	targetSize := max(raw.Size, uint32(offset+int64(len(data))))
	raw, err = e.inodes.Grow(inum, raw, targetSize)
	if err != nil {
		return 0, err
	}

	blockSize := int64(e.layout.BlockSize)
	total := int64(len(data))
	var written int64
	for written < total {
		pos := offset + written
		blockIdx := uint32(pos / blockSize)
		blockOff := pos % blockSize

		bnum, err := e.inodes.BlockNum(raw, blockIdx)
		if err != nil {
			return int(written), err
		}
		block := e.store.GetBlock(bnum)
		chunk := min(total-written, blockSize-blockOff)
		copy(block[blockOff:blockOff+chunk], data[written:written+chunk])
		written += chunk
	}

	raw.Size = targetSize
	if err := e.inodes.Put(inum, raw); err != nil {
		return int(written), err
	}
	return int(written), nil
}

// Mknod creates a new inode named by the last component of `path` inside
// its parent directory, with the given mode. It rejects names over 15
// bytes and names that already exist in the parent (the latter an
// Open-Question-5-style supplement: see SPEC_FULL.md §7).
func (e *Engine) Mknod(path string, mode uint32) error {
	parentInum, name, err := e.resolveParent(path)
	if err != nil {
		return err
	}
	if len(name) > dirent.MaxNameLength {
		return nufserrors.ErrNameTooLong.WithMessage(name)
	}

	parentRaw, err := e.inodes.Get(parentInum)
	if err != nil {
		return err
	}
	if !IsDir(parentRaw.Mode) {
		return nufserrors.ErrNotADirectory.WithMessage(path)
	}
	parentBlock := e.store.GetBlock(parentRaw.Block)

	if _, found := dirent.Lookup(parentBlock, e.layout, name); found {
		return nufserrors.ErrExists.WithMessage(name)
	}

	inum, raw, err := e.inodes.Alloc(mode)
	if err != nil {
		return err
	}

	if err := dirent.Put(parentBlock, e.layout, name, inum); err != nil {
		_ = e.inodes.Free(inum)
		return err
	}

	if IsDir(mode) {
		if err := dirent.InitDir(e.store.GetBlock(raw.Block), inum); err != nil {
			return err
		}
	}
	return nil
}

// Mkdir is Mknod with the directory bit folded into `perm`, plus seeding
// the new directory's own "." entry — a supplemented operation; see
// SPEC_FULL.md §4.7.
func (e *Engine) Mkdir(path string, perm uint32) error {
	return e.Mknod(path, ModeIFDIR|(perm&^uint32(ModeIFMT)))
}

// Unlink removes the entry named by `path` from its parent and frees the
// inode it pointed to, recursively if it was a directory.
func (e *Engine) Unlink(path string) error {
	parentInum, name, err := e.resolveParent(path)
	if err != nil {
		return err
	}
	parentRaw, err := e.inodes.Get(parentInum)
	if err != nil {
		return err
	}
	parentBlock := e.store.GetBlock(parentRaw.Block)

	inum, found := dirent.Lookup(parentBlock, e.layout, name)
	if !found {
		return nufserrors.ErrNotFound.WithMessage(name)
	}
	if err := dirent.Remove(parentBlock, e.layout, name); err != nil {
		return err
	}
	return e.freeRecursive(inum)
}

func (e *Engine) freeRecursive(inum uint32) error {
	raw, err := e.inodes.Get(inum)
	if err != nil {
		return err
	}
	if IsDir(raw.Mode) {
		block := e.store.GetBlock(raw.Block)
		for _, child := range dirent.List(block, e.layout) {
			if err := e.freeRecursive(child.Inum); err != nil {
				return err
			}
		}
	}
	return e.inodes.Free(inum)
}

// Chmod replaces the mode field of the inode at `path` verbatim.
func (e *Engine) Chmod(path string, mode uint32) error {
	inum, err := e.resolve(path)
	if err != nil {
		return err
	}
	raw, err := e.inodes.Get(inum)
	if err != nil {
		return err
	}
	raw.Mode = mode
	return e.inodes.Put(inum, raw)
}

// Truncate releases every non-primary block of the file at `path`. It does
// not touch Size, matching spec.md §4.6.
func (e *Engine) Truncate(path string) error {
	inum, err := e.resolve(path)
	if err != nil {
		return err
	}
	raw, err := e.inodes.Get(inum)
	if err != nil {
		return err
	}
	if IsDir(raw.Mode) {
		return nufserrors.ErrIsADirectory.WithMessage(path)
	}
	return e.inodes.Truncate(inum)
}

// FSStat reports aggregate occupancy for the whole image: total and free
// blocks, total and free inodes, and the fixed directory-entry name limit.
func (e *Engine) FSStat() FSStat {
	ibm := e.store.InodeBitmap()
	freeInodes := 0
	for i := 1; i < ibm.Len(); i++ {
		if !ibm.Get(i) {
			freeInodes++
		}
	}

	return FSStat{
		BlockSize:     int64(e.layout.BlockSize),
		TotalBlocks:   uint64(e.layout.TotalBlocks),
		BlocksFree:    uint64(e.blocks.FreeCount()),
		Inodes:        uint64(e.layout.InodeCount - 1),
		InodesFree:    uint64(freeInodes),
		MaxNameLength: int64(dirent.MaxNameLength),
	}
}

// List returns the names in the directory at `path`, in directory-block
// slot order, excluding the self-referencing "." entry.
func (e *Engine) List(path string) ([]string, error) {
	inum, err := e.resolve(path)
	if err != nil {
		return nil, err
	}
	raw, err := e.inodes.Get(inum)
	if err != nil {
		return nil, err
	}
	if !IsDir(raw.Mode) {
		return nil, nufserrors.ErrNotADirectory.WithMessage(path)
	}

	block := e.store.GetBlock(raw.Block)
	entries := dirent.List(block, e.layout)
	names := make([]string, len(entries))
	for i, entry := range entries {
		names[i] = entry.Name
	}
	return names, nil
}
