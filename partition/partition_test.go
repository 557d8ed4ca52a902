package partition_test

import (
	"testing"

	"github.com/bodgit/tilescreen/partition"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloorDiv(t *testing.T) {
	tables := []struct {
		a, b     int
		div, mod int
	}{
		{7, 2, 3, 1},
		{-7, 2, -4, 1},
		{-1, 8, -1, 7},
		{-8, 8, -1, 0},
		{0, 8, 0, 0},
		{15, 8, 1, 7},
	}

	for _, table := range tables {
		assert.Equal(t, table.div, partition.FloorDiv(table.a, table.b), "FloorDiv(%d, %d)", table.a, table.b)
		assert.Equal(t, table.mod, partition.FloorMod(table.a, table.b), "FloorMod(%d, %d)", table.a, table.b)
	}
}

func TestCeilDiv(t *testing.T) {
	assert.Equal(t, 1, partition.CeilDiv(32, 32))
	assert.Equal(t, 2, partition.CeilDiv(33, 32))
	assert.Equal(t, 0, partition.CeilDiv(0, 32))
	assert.Equal(t, 1, partition.CeilDiv(1, 32))
}

func TestNew(t *testing.T) {
	_, err := partition.New(0, 8, 10, 10)
	require.ErrorIs(t, err, partition.ErrInvalidDimensions)

	_, err = partition.New(8, -1, 10, 10)
	require.ErrorIs(t, err, partition.ErrInvalidDimensions)

	_, err = partition.New(8, 8, -1, 10)
	require.ErrorIs(t, err, partition.ErrInvalidBounds)

	l, err := partition.New(8, 6, 10, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, l.ScreensPerRow())
	assert.Equal(t, 2, l.ScreensPerCol())
	assert.Equal(t, 4, l.Screens())
	assert.Equal(t, 48, l.ScreenLength())
}

func TestScreenCountBoundary(t *testing.T) {
	// Exactly one screen
	l, err := partition.New(4, 3, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, l.Screens())

	// One column more spills into a second screen
	l, err = partition.New(4, 3, 4, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, l.ScreensPerRow())
	assert.Equal(t, 1, l.ScreensPerCol())
	assert.Equal(t, 2, l.Screens())
}

func TestLocate(t *testing.T) {
	l, err := partition.New(32, 22, 95, 43)
	require.NoError(t, err)

	index, lx, ly := l.Locate(0, 0)
	assert.Equal(t, [3]int{0, 0, 0}, [3]int{index, lx, ly})

	index, lx, ly = l.Locate(33, 1)
	assert.Equal(t, [3]int{1, 1, 1}, [3]int{index, lx, ly})

	index, lx, ly = l.Locate(64, 22)
	assert.Equal(t, [3]int{5, 0, 0}, [3]int{index, lx, ly})

	index, lx, ly = l.Locate(95, 43)
	assert.Equal(t, [3]int{5, 31, 21}, [3]int{index, lx, ly})
}

func TestLocateNegative(t *testing.T) {
	l, err := partition.New(8, 8, 15, 15)
	require.NoError(t, err)

	lx, ly := l.Local(-1, -9)
	assert.Equal(t, 7, lx)
	assert.Equal(t, 7, ly)
	assert.Equal(t, -1+(-2)*2, l.Index(-1, -9))
	assert.False(t, l.InBounds(-1, 0))
}

func TestBijection(t *testing.T) {
	for _, dims := range [][4]int{
		{1, 1, 0, 0},
		{2, 2, 1, 1},
		{3, 2, 7, 4},
		{8, 5, 8, 5},
		{5, 7, 31, 20},
		{32, 22, 63, 43},
	} {
		l, err := partition.New(dims[0], dims[1], dims[2], dims[3])
		require.NoError(t, err)

		seen := make(map[[3]int]struct{})
		for y := 0; y < l.ScreensPerCol()*l.ScreenHeight; y++ {
			for x := 0; x < l.ScreensPerRow()*l.ScreenWidth; x++ {
				index, lx, ly := l.Locate(x, y)
				require.True(t, index >= 0 && index < l.Screens(), "index %d out of range for (%d, %d)", index, x, y)

				key := [3]int{index, lx, ly}
				_, dup := seen[key]
				require.False(t, dup, "(%d, %d) collides at %v", x, y, key)
				seen[key] = struct{}{}

				gx, gy := l.Global(index, lx, ly)
				require.Equal(t, x, gx)
				require.Equal(t, y, gy)
			}
		}
		assert.Len(t, seen, l.Screens()*l.ScreenLength())
	}
}
