package screen

import "github.com/bodgit/tilescreen/partition"

// FromLayers builds every screen of layout from the given layers. Layers
// are applied in order and a later layer only overwrites a tile when its
// own cell is not empty.
func FromLayers(layout partition.Layout, layers ...Layer) *Set {
	set := NewSet(layout)
	for _, l := range layers {
		for y := 0; y <= layout.MaxY; y++ {
			for x := 0; x <= layout.MaxX; x++ {
				if t := l.TileAt(x, y); t != Empty {
					set.Put(x, y, t)
				}
			}
		}
	}
	return set
}

// FromSparse builds every screen of layout from a sparse map. Cells outside
// of the layout bounds, including any at negative coordinates, are skipped.
func FromSparse(layout partition.Layout, sparse *Sparse) *Set {
	set := NewSet(layout)
	sparse.Each(func(x, y, tile int) {
		if layout.InBounds(x, y) {
			set.Put(x, y, tile)
		}
	})
	return set
}
