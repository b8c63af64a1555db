// Package blockstore implements the image / block store layer: it owns the
// single on-disk image as a stream of fixed-size blocks, plus the
// block-allocation and inode bitmaps carved out of the front of the image.
// It is grounded on the teacher's drivers/common.BlockDevice, which wraps
// an io.Seeker rather than hardcoding *os.File — the same abstraction lets
// production code back a Store with a real file while tests back one with
// an in-memory stream.
package blockstore

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/noxer/bytewriter"

	"github.com/roadkillsanta/nufs/internal/bitmap"
	"github.com/roadkillsanta/nufs/internal/layout"

	nufserrors "github.com/roadkillsanta/nufs/errors"
)

// headerMagic identifies a nufs image in the header written to the tail of
// block 0, past the block bitmap. Grounded on the teacher's
// unixv1.formatFilesystem, which sequentially encodes a similar preamble with
// bytewriter.New plus binary.Write rather than building the bytes by hand.
const headerMagic = 0x6e756673 // "nufs" in ASCII, read as a big-endian uint32

type imageHeader struct {
	Magic       uint32
	BlockSize   uint32
	TotalBlocks uint32
	InodeCount  uint32
}

// Backend is the stream a Store reads and writes the whole image through.
// *os.File satisfies it, and so does an in-memory stream such as
// xaionaro-go/bytesextra's ReadWriteSeeker, which internal/fstest uses for
// test fixtures.
type Backend interface {
	io.ReadWriteSeeker
}

type syncer interface {
	Sync() error
}

// Store is the in-memory view of a disk image, backed by a Backend stream.
type Store struct {
	Layout layout.Layout

	backend Backend
	data    []byte
}

// Open loads the image at `path` into memory, creating it (zero-filled, at
// the correct size) if it doesn't already exist. The caller is responsible
// for calling Close when done.
func Open(path string, l layout.Layout) (*Store, error) {
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening image %q: %w", path, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("statting image %q: %w", path, err)
	}

	imageSize := l.ImageSize()
	isFresh := info.Size() == 0
	if isFresh {
		if err := file.Truncate(imageSize); err != nil {
			file.Close()
			return nil, fmt.Errorf("sizing image %q: %w", path, err)
		}
	} else if info.Size() != imageSize {
		file.Close()
		return nil, fmt.Errorf(
			"image %q is %d bytes, expected %d", path, info.Size(), imageSize,
		)
	}

	store, err := OpenStream(file, l, isFresh)
	if err != nil {
		file.Close()
		return nil, err
	}
	return store, nil
}

// OpenStream wraps an already-correctly-sized Backend as a Store. `isFresh`
// tells it whether to treat the stream as a brand new, zero-filled image
// (and so reserve the bitmap/inode-table blocks) or to read back an
// existing image's contents.
func OpenStream(backend Backend, l layout.Layout, isFresh bool) (*Store, error) {
	store := &Store{Layout: l, backend: backend, data: make([]byte, l.ImageSize())}

	if !isFresh {
		if _, err := backend.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("seeking image: %w", err)
		}
		if _, err := io.ReadFull(backend, store.data); err != nil {
			return nil, fmt.Errorf("reading image: %w", err)
		}
		if err := store.verifyHeader(); err != nil {
			return nil, err
		}
	}

	if isFresh {
		store.reserveBlocks()
		store.writeHeader()
	}
	return store, nil
}

// headerOffset is where the image header starts within block 0, right past
// the block bitmap's own bytes.
func (s *Store) headerOffset() uint32 {
	return s.Layout.BlockBitmapBytes()
}

// writeHeader stamps block 0's tail with the image's magic number and
// geometry, the way the teacher's unixv1 formatter stamps its superblock:
// sequential binary.Write calls into a bytewriter view over the target
// slice rather than hand-indexed byte offsets.
func (s *Store) writeHeader() {
	block := s.GetBlock(0)
	writer := bytewriter.New(block[s.headerOffset():])
	binary.Write(writer, binary.BigEndian, imageHeader{
		Magic:       headerMagic,
		BlockSize:   s.Layout.BlockSize,
		TotalBlocks: s.Layout.TotalBlocks,
		InodeCount:  s.Layout.InodeCount,
	})
}

// verifyHeader checks a reopened image's header against the Layout it was
// opened with, catching a stale image reused with the wrong geometry or a
// file that was never formatted at all.
func (s *Store) verifyHeader() error {
	block := s.GetBlock(0)
	var hdr imageHeader
	off := s.headerOffset()
	hdr.Magic = binary.BigEndian.Uint32(block[off : off+4])
	hdr.BlockSize = binary.BigEndian.Uint32(block[off+4 : off+8])
	hdr.TotalBlocks = binary.BigEndian.Uint32(block[off+8 : off+12])
	hdr.InodeCount = binary.BigEndian.Uint32(block[off+12 : off+16])

	if hdr.Magic != headerMagic {
		return nufserrors.ErrCorruptImage.WithMessage("bad magic number")
	}
	if hdr.BlockSize != s.Layout.BlockSize || hdr.TotalBlocks != s.Layout.TotalBlocks || hdr.InodeCount != s.Layout.InodeCount {
		return nufserrors.ErrCorruptImage.WithMessage("image geometry does not match the requested layout")
	}
	return nil
}

// reserveBlocks marks the blocks used by the bitmaps and inode table as
// allocated in the block bitmap, per spec.md §3: "On image creation, blocks
// 0..(k-1) are marked allocated in the block bitmap."
func (s *Store) reserveBlocks() {
	bbm := s.BlockBitmap()
	for i := uint32(0); i < s.Layout.ReservedBlocks(); i++ {
		bbm.Put(int(i), true)
	}
}

// GetBlock returns a mutable view into block `n`. Writes through the
// returned slice are visible to subsequent reads and are persisted on Sync
// or Close.
func (s *Store) GetBlock(n uint32) []byte {
	s.checkBlockRange(n)
	start := int64(n) * int64(s.Layout.BlockSize)
	return s.data[start : start+int64(s.Layout.BlockSize)]
}

func (s *Store) checkBlockRange(n uint32) {
	if n >= s.Layout.TotalBlocks {
		panic(fmt.Sprintf("block %d out of range [0, %d)", n, s.Layout.TotalBlocks))
	}
}

// BlockBitmap returns the block-allocation bitmap, a view into block 0.
func (s *Store) BlockBitmap() bitmap.Map {
	return bitmap.FromBytes(s.GetBlock(0), int(s.Layout.TotalBlocks))
}

// InodeBitmap returns the inode-allocation bitmap, a view into block 1.
func (s *Store) InodeBitmap() bitmap.Map {
	return bitmap.FromBytes(s.GetBlock(1), int(s.Layout.InodeCount))
}

// InodeTableBytes returns the raw bytes backing the inode table, spanning
// however many blocks it needs starting at block 2.
func (s *Store) InodeTableBytes() []byte {
	start := int64(2) * int64(s.Layout.BlockSize)
	size := int64(s.Layout.InodeTableBlocks()) * int64(s.Layout.BlockSize)
	return s.data[start : start+size]
}

// Sync writes the in-memory image back to the backing stream.
func (s *Store) Sync() error {
	if _, err := s.backend.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("seeking image: %w", err)
	}
	if _, err := s.backend.Write(s.data); err != nil {
		return fmt.Errorf("flushing image: %w", err)
	}
	if sy, ok := s.backend.(syncer); ok {
		return sy.Sync()
	}
	return nil
}

// Close flushes pending changes and releases the backing stream, if it's
// closeable.
func (s *Store) Close() error {
	err := s.Sync()
	if closer, ok := s.backend.(io.Closer); ok {
		if cerr := closer.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
