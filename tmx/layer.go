package tmx

import (
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/bodgit/tilescreen/screen"
)

func splitValues(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		switch r {
		case ',', ' ', '\t', '\n', '\r':
			return true
		}
		return false
	})
}

func parseValues(text string, tiles []Tile, encoding string) ([]uint32, error) {
	switch encoding {
	case encodingCSV:
		fields := splitValues(text)
		values := make([]uint32, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseUint(f, 10, 32)
			if err != nil {
				return nil, err
			}
			values[i] = uint32(v)
		}
		return values, nil
	case "":
		values := make([]uint32, len(tiles))
		for i, t := range tiles {
			values[i] = t.GID
		}
		return values, nil
	default:
		return nil, ErrUnsupportedEncoding
	}
}

// Values returns the raw stored values of the chunk in row-major order.
func (c *Chunk) Values(encoding string) ([]uint32, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	values, err := parseValues(c.Text, c.Tiles, encoding)
	if err != nil {
		return nil, err
	}
	if len(values) != c.Width*c.Height {
		return nil, ErrCellCount
	}
	return values, nil
}

func (c *Chunk) validate() error {
	if len(c.missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrChunkAttribute, strings.Join(c.missing, ", "))
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrChunkAttribute, c.Width, c.Height)
	}
	return nil
}

func (l *Layer) store(x, y, width int, values []uint32) {
	for i, v := range values {
		if v&GIDMask == 0 {
			continue
		}
		l.cells[image.Pt(x+i%width, y+i/width)] = v
	}
}

func (l *Layer) decode(m *Map) error {
	l.cells = make(map[image.Point]uint32)

	if l.Data.Compression != "" {
		return &FormatError{Layer: l.Name, Chunk: -1, Err: ErrUnsupportedEncoding}
	}

	if len(l.Data.Chunks) > 0 {
		for i := range l.Data.Chunks {
			c := &l.Data.Chunks[i]
			values, err := c.Values(l.Data.Encoding)
			if err != nil {
				return &FormatError{Layer: l.Name, Chunk: i, Err: err}
			}
			l.store(c.X, c.Y, c.Width, values)
		}
		return nil
	}

	values, err := parseValues(l.Data.Text, l.Data.Tiles, l.Data.Encoding)
	if err != nil {
		return &FormatError{Layer: l.Name, Chunk: -1, Err: err}
	}
	if len(values) == 0 {
		return nil
	}

	width := l.Width
	if width == 0 {
		width = m.Width
	}
	height := l.Height
	if height == 0 {
		height = m.Height
	}
	if len(values) != width*height {
		return &FormatError{Layer: l.Name, Chunk: -1, Err: ErrCellCount}
	}
	l.store(0, 0, width, values)

	return nil
}

// GID returns the masked GID at (x, y), or 0 for an empty cell.
func (l *Layer) GID(x, y int) uint32 {
	return l.cells[image.Pt(x, y)] & GIDMask
}

// Len returns the number of non-empty cells.
func (l *Layer) Len() int {
	return len(l.cells)
}

// TileAt implements screen.Layer using the masked GID as the tile id.
func (l *Layer) TileAt(x, y int) int {
	if gid := l.GID(x, y); gid != 0 {
		return int(gid)
	}
	return screen.Empty
}

// Each calls fn for every non-empty cell with its masked GID.
func (l *Layer) Each(fn func(x, y int, gid uint32)) {
	for p, v := range l.cells {
		fn(p.X, p.Y, v&GIDMask)
	}
}

type localLayer struct {
	m *Map
	l *Layer
}

func (ll localLayer) TileAt(x, y int) int {
	gid := ll.l.GID(x, y)
	if gid == 0 {
		return screen.Empty
	}
	return int(gid - ll.m.FirstGID(gid))
}

// TileLayers returns every layer as a screen.Layer. When local is true the
// tile ids are relative to the first GID of their tileset, the same as the
// tile ids reported by the Tiled editor, otherwise they are GIDs.
func (m *Map) TileLayers(local bool) []screen.Layer {
	layers := make([]screen.Layer, len(m.Layers))
	for i, l := range m.Layers {
		if local {
			layers[i] = localLayer{m, l}
		} else {
			layers[i] = l
		}
	}
	return layers
}

// Sparse collects the non-empty cells of every layer, in layer order, into
// a single sparse map keyed by global coordinate.
func (m *Map) Sparse() *screen.Sparse {
	sparse := screen.NewSparse()
	for _, l := range m.Layers {
		l.Each(func(x, y int, gid uint32) {
			sparse.Set(x, y, int(gid))
		})
	}
	return sparse
}
