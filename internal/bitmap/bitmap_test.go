package bitmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadkillsanta/nufs/internal/bitmap"
)

func TestGetPutRoundTrip(t *testing.T) {
	m := bitmap.New(32)
	assert.False(t, m.Get(5))
	m.Put(5, true)
	assert.True(t, m.Get(5))
	m.Put(5, false)
	assert.False(t, m.Get(5))
}

func TestFromBytesSharesBackingArray(t *testing.T) {
	data := make([]byte, 4)
	m := bitmap.FromBytes(data, 32)
	m.Put(0, true)
	m.Put(9, true)

	assert.Equal(t, byte(1), data[0], "bit 0 lives in byte 0, mask 1<<0")
	assert.Equal(t, byte(2), data[1], "bit 9 lives in byte 1, mask 1<<1")
}

func TestFirstClear(t *testing.T) {
	m := bitmap.New(8)
	for i := 0; i < 4; i++ {
		m.Put(i, true)
	}
	assert.Equal(t, 4, m.FirstClear(0))
	assert.Equal(t, 4, m.FirstClear(4))
	assert.Equal(t, -1, m.FirstClear(8))
}

func TestFirstClearAllSetReturnsNegativeOne(t *testing.T) {
	m := bitmap.New(4)
	for i := 0; i < 4; i++ {
		m.Put(i, true)
	}
	assert.Equal(t, -1, m.FirstClear(0))
}

func TestCountSet(t *testing.T) {
	m := bitmap.New(10)
	m.Put(1, true)
	m.Put(3, true)
	m.Put(7, true)
	assert.Equal(t, 3, m.CountSet())
}

func TestOutOfRangeAccessPanics(t *testing.T) {
	m := bitmap.New(4)
	require.Panics(t, func() { m.Get(4) })
	require.Panics(t, func() { m.Put(-1, true) })
}
