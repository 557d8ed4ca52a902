package tilescreen

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/bodgit/tilescreen/catalog"
	"github.com/bodgit/tilescreen/partition"
	"github.com/bodgit/tilescreen/preview"
	"github.com/bodgit/tilescreen/screen"
	"github.com/bodgit/tilescreen/tmx"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScan(t *testing.T) {
	dir := t.TempDir()
	file := writeMap(t, dir, "maps.tmx", chunkMap)

	set, err := New(WithBounds(BoundsScan)).Load(file)
	require.NoError(t, err)

	assert.Equal(t, 3, set.Layout.MaxX)
	assert.Equal(t, 2, set.Layout.MaxY)
	require.Equal(t, 4, set.Len())

	want := [][]int{
		{1, 2, 5, 6},
		{3, 4, 7, 8},
		{9, 10, 0, 0},
		{11, 12, 0, 0},
	}
	for i, s := range set.Screens {
		if diff := cmp.Diff(want[i], s.Tiles); diff != "" {
			t.Errorf("screen %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestLoadChunks(t *testing.T) {
	dir := t.TempDir()
	// Row 0 stops after one tile so the scan strategy sees a 1x1 map
	file := writeMap(t, dir, "maps.tmx", chunkedMap(2, 2, 3, 2, "1,0,3,\n4,5,6"))

	set, err := New(WithBounds(BoundsScan)).Load(file)
	require.NoError(t, err)
	assert.Equal(t, 0, set.Layout.MaxX)
	assert.Equal(t, 1, set.Layout.MaxY)
	assert.Equal(t, 1, set.Len())

	for _, b := range []Bounds{BoundsAuto, BoundsChunks} {
		set, err = New(WithBounds(b)).Load(file)
		require.NoError(t, err, b)
		assert.Equal(t, 2, set.Layout.MaxX, b)
		assert.Equal(t, 1, set.Layout.MaxY, b)
		require.Equal(t, 2, set.Len(), b)
		assert.Equal(t, []int{1, 0, 4, 5}, set.Screens[0].Tiles, b)
		assert.Equal(t, []int{3, 0, 6, 0}, set.Screens[1].Tiles, b)
	}
}

// finiteMap is a dense 3x2 layer whose cell (1, 0) is empty.
const finiteMap = `<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" orientation="orthogonal" width="3" height="2" tilewidth="8" tileheight="8" infinite="0">
 <properties>
  <property name="screenWidth" type="int" value="2"/>
  <property name="screenHeight" type="int" value="2"/>
 </properties>
 <tileset firstgid="1" source="tiles.tsx"/>
 <layer id="1" name="map" width="3" height="2">
  <data encoding="csv">
1,0,3,
4,5,6
</data>
 </layer>
</map>
`

func TestLoadAutoFinite(t *testing.T) {
	file := writeMap(t, t.TempDir(), "maps.tmx", finiteMap)

	set, err := New().Load(file)
	require.NoError(t, err)
	assert.Equal(t, 0, set.Layout.MaxX)
	assert.Equal(t, 1, set.Layout.MaxY)
	require.Equal(t, 1, set.Len())
	assert.Equal(t, []int{1, 0, 4, 5}, set.Screens[0].Tiles)
}

func TestLoadLocalIDs(t *testing.T) {
	dir := t.TempDir()
	file := writeMap(t, dir, "maps.tmx", chunkedMap(2, 2, 2, 2, "1,2,3,4"))

	for _, b := range []Bounds{BoundsScan, BoundsChunks} {
		set, err := New(WithBounds(b), WithLocalIDs(true)).Load(file)
		require.NoError(t, err, b)
		assert.Equal(t, []int{0, 1, 2, 3}, set.Screens[0].Tiles, b)
	}
}

func TestLoadMissingDimensions(t *testing.T) {
	dir := t.TempDir()
	file := writeMap(t, dir, "maps.tmx", strings.Replace(chunkMap, `<property name="screenHeight" type="int" value="2"/>`, "", 1))

	_, err := New().Load(file)
	require.ErrorIs(t, err, tmx.ErrMissingProperty)
	assert.Contains(t, err.Error(), "screenHeight")
}

func TestExportBinary(t *testing.T) {
	dir := t.TempDir()
	file := writeMap(t, dir, "maps.tmx", chunkMap)

	var written int32
	e := New(WithWorkers(3), WithProgress(func() { atomic.AddInt32(&written, 1) }))

	set, err := e.Load(file)
	require.NoError(t, err)
	require.NoError(t, e.ExportBinary(context.Background(), set, filepath.Join(dir, "maps.bin")))

	assert.Equal(t, int32(4), atomic.LoadInt32(&written))

	for i, want := range [][]byte{
		{1, 2, 5, 6},
		{3, 4, 7, 8},
		{9, 10, 0, 0},
		{11, 12, 0, 0},
	} {
		b, err := os.ReadFile(filepath.Join(dir, screen.Filename("maps", i)))
		require.NoError(t, err)
		assert.Equal(t, want, b, "screen %d", i)
	}

	// No temporary files left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 5)
}

func TestExportBinaryScenario(t *testing.T) {
	dir := t.TempDir()
	file := writeMap(t, dir, "maps.tmx", chunkedMap(2, 2, 2, 2, "1,0,0,2"))

	e := New()
	set, err := e.Load(file)
	require.NoError(t, err)
	require.Equal(t, 1, set.Len())
	require.NoError(t, e.ExportBinary(context.Background(), set, filepath.Join(dir, "maps.bin")))

	b, err := os.ReadFile(filepath.Join(dir, "maps_0.bin"))
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 0, 0, 2}, b)

	report, err := e.Verify(file, dir, "maps")
	require.NoError(t, err)
	assert.True(t, report.Passed())
}

func TestExportBinaryShrink(t *testing.T) {
	dir := t.TempDir()
	file := writeMap(t, dir, "maps.tmx", chunkMap)
	out := filepath.Join(dir, "maps.bin")

	e := New()
	set, err := e.Load(file)
	require.NoError(t, err)
	require.NoError(t, e.ExportBinary(context.Background(), set, out))

	other := filepath.Join(dir, "maps_extra_3.bin")
	require.NoError(t, os.WriteFile(other, []byte{1}, 0644))

	writeMap(t, dir, "maps.tmx", chunkedMap(2, 2, 2, 2, "1,0,0,2"))
	set, err = e.Load(file)
	require.NoError(t, err)
	require.Equal(t, 1, set.Len())
	require.NoError(t, e.ExportBinary(context.Background(), set, out))

	for i := 1; i < 4; i++ {
		_, err := os.Stat(filepath.Join(dir, screen.Filename("maps", i)))
		assert.True(t, os.IsNotExist(err), "screen %d", i)
	}
	_, err = os.Stat(other)
	assert.NoError(t, err)

	report, err := e.Verify(file, dir, "maps")
	require.NoError(t, err)
	require.Len(t, report.Files, 1)
	assert.True(t, report.Passed())
}

func TestExportBinaryRange(t *testing.T) {
	dir := t.TempDir()
	file := writeMap(t, dir, "maps.tmx", chunkedMap(2, 2, 2, 2, "1,300,0,2"))

	e := New()
	set, err := e.Load(file)
	require.NoError(t, err)

	err = e.ExportBinary(context.Background(), set, filepath.Join(dir, "maps.bin"))
	var re *screen.RangeError
	require.True(t, errors.As(err, &re), "%v", err)
	assert.Equal(t, 300, re.Tile)

	_, err = os.Stat(filepath.Join(dir, "maps_0.bin"))
	assert.True(t, os.IsNotExist(err))
}

func TestExportBinaryCancelled(t *testing.T) {
	dir := t.TempDir()
	l, err := partition.New(2, 2, 63, 63)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = New().ExportBinary(ctx, screen.NewSet(l), filepath.Join(dir, "maps.bin"))
	assert.ErrorIs(t, err, errCancelled)
}

func TestExportBinaryMissingDir(t *testing.T) {
	dir := t.TempDir()
	file := writeMap(t, dir, "maps.tmx", chunkMap)

	e := New(WithWorkers(2))
	set, err := e.Load(file)
	require.NoError(t, err)

	err = e.ExportBinary(context.Background(), set, filepath.Join(dir, "missing", "maps.bin"))
	assert.Error(t, err)
}

func TestExportBinaryCatalog(t *testing.T) {
	dir := t.TempDir()
	file := writeMap(t, dir, "maps.tmx", chunkedMap(2, 1, 6, 1, "1,2,1,2,3,3"))

	db, err := catalog.Open(filepath.Join(dir, "catalog.db"))
	require.NoError(t, err)
	defer db.Close()

	e := New(WithCatalog(db))
	set, err := e.Load(file)
	require.NoError(t, err)

	base := filepath.Join(dir, "maps")
	require.NoError(t, e.ExportBinary(context.Background(), set, base+".bin"))

	entries, err := db.Entries(base)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	dups, err := db.Duplicates(base)
	require.NoError(t, err)
	require.Len(t, dups, 1)
	assert.Equal(t, []int{0, 1}, dups[0].Indices)
}

func TestExportText(t *testing.T) {
	dir := t.TempDir()
	file := writeMap(t, dir, "maps.tmx", chunkMap)

	e := New()
	set, err := e.Load(file)
	require.NoError(t, err)

	out := filepath.Join(dir, "maps.bas")
	require.NoError(t, e.ExportText(set, out))

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(b), "Const SCREENS_COUNT = 4\n")
	assert.Contains(t, string(b), "    {9,10}, _\n    {0,0} _\n")
}

func TestExportPreview(t *testing.T) {
	dir := t.TempDir()
	file := writeMap(t, dir, "maps.tmx", chunkMap)

	e := New()
	set, err := e.Load(file)
	require.NoError(t, err)

	out := filepath.Join(dir, "maps.png")
	require.NoError(t, e.ExportPreview(set, out, preview.Options{CellSize: 2}))

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
}
