package nufs

import (
	"github.com/hashicorp/go-multierror"

	"github.com/roadkillsanta/nufs/internal/dirent"

	nufserrors "github.com/roadkillsanta/nufs/errors"
)

// Rename moves the entry at `from` to `to`: it resolves the source inode
// and both parent directories, detaches the source entry from its parent
// by inode number (the inode itself is never freed, so its contents
// survive), and links it into the destination parent under the
// destination's basename.
//
// Unlike the original, it first checks whether `to` already exists and
// rejects the whole operation with ErrExists rather than creating a
// duplicate entry (Open Question 5). The two directory-entry mutations
// that follow are independent and both attempted regardless of whether the
// first succeeds, matching spec.md §4.6's "bitwise-or of return codes";
// here that combination is a multierror rather than a bitwise OR of ints.
func (e *Engine) Rename(from, to string) error {
	srcInum, err := e.resolve(from)
	if err != nil {
		return err
	}

	srcParentInum, _, err := e.resolveParent(from)
	if err != nil {
		return err
	}
	dstParentInum, dstName, err := e.resolveParent(to)
	if err != nil {
		return err
	}
	if len(dstName) > dirent.MaxNameLength {
		return nufserrors.ErrNameTooLong.WithMessage(dstName)
	}

	dstParentRaw, err := e.inodes.Get(dstParentInum)
	if err != nil {
		return err
	}
	if !IsDir(dstParentRaw.Mode) {
		return nufserrors.ErrNotADirectory.WithMessage(to)
	}
	dstBlock := e.store.GetBlock(dstParentRaw.Block)

	if _, found := dirent.Lookup(dstBlock, e.layout, dstName); found {
		return nufserrors.ErrExists.WithMessage(dstName)
	}

	srcParentRaw, err := e.inodes.Get(srcParentInum)
	if err != nil {
		return err
	}
	srcBlock := e.store.GetBlock(srcParentRaw.Block)

	var result *multierror.Error
	if err := dirent.UnlinkInum(srcBlock, e.layout, srcInum); err != nil {
		result = multierror.Append(result, err)
	}
	if err := dirent.Put(dstBlock, e.layout, dstName, srcInum); err != nil {
		result = multierror.Append(result, err)
	}

	return result.ErrorOrNil()
}
