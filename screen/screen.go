/*
Package screen implements the dense per-screen tile grids produced by
partitioning a tile map and their binary encoding.

A screen file holds exactly width * height bytes, one tile id per byte in
row-major order starting at the top-left tile. There is no header and no
compression so the screen geometry must be known by the reader. Tile id 0
means no tile.
*/
package screen

import (
	"fmt"

	"github.com/bodgit/tilescreen/partition"
)

const (
	// Empty is returned by a Layer for a cell with no tile.
	Empty = -1

	// MaxTile is the largest tile id that fits in a screen file.
	MaxTile = 0xff
)

// Layer is a tile layer addressable by global coordinate.
type Layer interface {
	// TileAt returns the tile id at (x, y) or Empty.
	TileAt(x, y int) int
}

// Screen is one fixed-size partition of a map.
type Screen struct {
	Index  int
	Width  int
	Height int
	Tiles  []int
}

// New returns a Screen with every tile set to 0.
func New(index, width, height int) *Screen {
	return &Screen{
		Index:  index,
		Width:  width,
		Height: height,
		Tiles:  make([]int, width*height),
	}
}

// At returns the tile at local offset (x, y).
func (s *Screen) At(x, y int) int {
	return s.Tiles[y*s.Width+x]
}

// Set stores tile at local offset (x, y).
func (s *Screen) Set(x, y, tile int) {
	s.Tiles[y*s.Width+x] = tile
}

// Row returns the tiles of local row y.
func (s *Screen) Row(y int) []int {
	return s.Tiles[y*s.Width : (y+1)*s.Width]
}

// Set is every screen of a map in index order.
type Set struct {
	Layout  partition.Layout
	Screens []*Screen
}

// NewSet allocates every screen described by layout.
func NewSet(layout partition.Layout) *Set {
	screens := make([]*Screen, layout.Screens())
	for i := range screens {
		screens[i] = New(i, layout.ScreenWidth, layout.ScreenHeight)
	}
	return &Set{
		Layout:  layout,
		Screens: screens,
	}
}

// Len returns the number of screens.
func (s *Set) Len() int {
	return len(s.Screens)
}

// Put writes tile at global coordinate (x, y).
func (s *Set) Put(x, y, tile int) {
	index, lx, ly := s.Layout.Locate(x, y)
	s.Screens[index].Set(lx, ly, tile)
}

// RangeError records a tile id that cannot be stored in a single byte.
type RangeError struct {
	Screen int
	X, Y   int
	Tile   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("screen: tile %d at screen %d local (%d,%d) does not fit in a byte", e.Tile, e.Screen, e.X, e.Y)
}

// Check returns a *RangeError for the first tile outside 0-MaxTile.
func (s *Screen) Check() error {
	for i, t := range s.Tiles {
		if t < 0 || t > MaxTile {
			return &RangeError{
				Screen: s.Index,
				X:      i % s.Width,
				Y:      i / s.Width,
				Tile:   t,
			}
		}
	}
	return nil
}

// Check returns the first *RangeError of any screen in the set.
func (s *Set) Check() error {
	for _, sc := range s.Screens {
		if err := sc.Check(); err != nil {
			return err
		}
	}
	return nil
}
