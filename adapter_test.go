package nufs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadkillsanta/nufs"
	"github.com/roadkillsanta/nufs/internal/layout"
)

func TestFindCodeContract(t *testing.T) {
	e := newEngine(t, layout.DefaultLayout())
	assert.Equal(t, 0, e.FindCode("/"))
	assert.Equal(t, -1, e.FindCode("/missing"))
}

func TestStatCodeContract(t *testing.T) {
	e := newEngine(t, layout.DefaultLayout())
	require.NoError(t, e.Mknod("/f", nufs.ModeIFREG|0644))

	var out nufs.FileStat
	assert.Equal(t, 0, e.StatCode("/f", &out))
	assert.True(t, out.IsFile())

	assert.Equal(t, -2, e.StatCode("/missing", &out))
}

func TestReadWriteCodeContract(t *testing.T) {
	e := newEngine(t, layout.DefaultLayout())
	require.NoError(t, e.Mknod("/f", nufs.ModeIFREG|0644))

	written := e.WriteCode("/f", []byte("abcd"), 0)
	assert.Equal(t, 4, written)

	buf := make([]byte, 4)
	read := e.ReadCode("/f", buf, 0)
	assert.Equal(t, 4, read)
	assert.Equal(t, -2, e.ReadCode("/missing", buf, 0))
}

func TestMutatorCodesContract(t *testing.T) {
	e := newEngine(t, layout.DefaultLayout())
	assert.Equal(t, 0, e.MknodCode("/a", nufs.ModeIFREG|0644))
	assert.Equal(t, -1, e.MknodCode("/a", nufs.ModeIFREG|0644), "duplicate name")

	assert.Equal(t, 0, e.ChmodCode("/a", nufs.ModeIFREG|0600))
	assert.Equal(t, 0, e.TruncateCode("/a"))
	assert.Equal(t, 0, e.RenameCode("/a", "/b"))
	assert.Equal(t, 0, e.UnlinkCode("/b"))
	assert.Equal(t, -1, e.UnlinkCode("/b"), "already removed")
}
