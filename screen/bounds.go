package screen

import (
	"errors"
	"image"
)

// ErrEmptyMap is returned when no bounds can be found because there are no
// tiles to export.
var ErrEmptyMap = errors.New("screen: map has no tiles to export")

// ScanBounds finds the inclusive bounds of l by walking right along row 0
// until the first empty cell, then down the last occupied column until the
// first empty cell.
//
// Only row 0 and column maxX are probed. A map whose rightmost column is
// shorter or taller than the rest, or with gaps in row 0, gets bounds that
// under- or over-estimate the real content. Content outside the bounds is
// not exported.
func ScanBounds(l Layer) (maxX, maxY int, err error) {
	for l.TileAt(maxX, 0) != Empty {
		maxX++
	}
	maxX--

	if maxX < 0 {
		return 0, 0, ErrEmptyMap
	}

	for l.TileAt(maxX, maxY) != Empty {
		maxY++
	}
	maxY--

	return maxX, maxY, nil
}

// Sparse maps global coordinates to non-empty tile ids.
type Sparse struct {
	tiles map[image.Point]int
}

// NewSparse returns an empty Sparse map.
func NewSparse() *Sparse {
	return &Sparse{
		tiles: make(map[image.Point]int),
	}
}

// Set stores tile at (x, y); a tile of 0 is ignored so a later empty cell
// never clears an earlier value.
func (s *Sparse) Set(x, y, tile int) {
	if tile == 0 {
		return
	}
	s.tiles[image.Pt(x, y)] = tile
}

// Get returns the tile at (x, y) or 0.
func (s *Sparse) Get(x, y int) int {
	return s.tiles[image.Pt(x, y)]
}

// Len returns the number of non-empty cells.
func (s *Sparse) Len() int {
	return len(s.tiles)
}

// TileAt implements Layer.
func (s *Sparse) TileAt(x, y int) int {
	if t, ok := s.tiles[image.Pt(x, y)]; ok {
		return t
	}
	return Empty
}

// Each calls fn for every non-empty cell in no particular order.
func (s *Sparse) Each(fn func(x, y, tile int)) {
	for p, t := range s.tiles {
		fn(p.X, p.Y, t)
	}
}

// Extent returns the smallest and largest coordinates of any non-empty
// cell. ok is false when the map is empty.
func (s *Sparse) Extent() (lo, hi image.Point, ok bool) {
	for p := range s.tiles {
		if !ok {
			lo, hi, ok = p, p, true
			continue
		}
		lo.X, lo.Y = min(lo.X, p.X), min(lo.Y, p.Y)
		hi.X, hi.Y = max(hi.X, p.X), max(hi.Y, p.Y)
	}
	return
}

// Bounds returns the inclusive export bounds anchored at (0, 0). Cells at
// negative coordinates are kept for lookup but do not extend the bounds.
func (s *Sparse) Bounds() (maxX, maxY int, err error) {
	_, hi, ok := s.Extent()
	if !ok {
		return 0, 0, ErrEmptyMap
	}
	return max(0, hi.X), max(0, hi.Y), nil
}
