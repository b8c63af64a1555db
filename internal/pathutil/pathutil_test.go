package pathutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadkillsanta/nufs/internal/pathutil"

	nufserrors "github.com/roadkillsanta/nufs/errors"
)

func TestSplitRoot(t *testing.T) {
	assert.Empty(t, pathutil.Split("/"))
	assert.Empty(t, pathutil.Split(""))
}

func TestSplitBasicPath(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, pathutil.Split("/a/b/c"))
}

func TestSplitCollapsesDotsAndDoubleSlashes(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, pathutil.Split("/a/./b"))
	assert.Equal(t, []string{"a", "b"}, pathutil.Split("/a//b"))
}

func TestSplitTrailingSlash(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, pathutil.Split("/a/b/"))
}

func TestBasename(t *testing.T) {
	assert.Equal(t, "c", pathutil.Basename("/a/b/c"))
	assert.Equal(t, "", pathutil.Basename("/"))
}

func TestParentAndNameOfTopLevelFile(t *testing.T) {
	parent, name, err := pathutil.ParentAndName("/foo")
	require.NoError(t, err)
	assert.Empty(t, parent)
	assert.Equal(t, "foo", name)
}

func TestParentAndNameOfNestedFile(t *testing.T) {
	parent, name, err := pathutil.ParentAndName("/a/b/c")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, parent)
	assert.Equal(t, "c", name)
}

func TestParentAndNameOfRootFails(t *testing.T) {
	_, _, err := pathutil.ParentAndName("/")
	assert.ErrorIs(t, err, nufserrors.ErrInvalidArgument)
}
