/*
Package tmx reads the parts of a Tiled TMX map needed to partition it into
screens: map properties, tileset first GIDs and tile layer data.

Layer data may be stored either as a single block covering the whole map or,
for infinite maps, as a list of rectangular chunks each with its own origin.
Both the csv encoding and the plain XML <tile> encoding are supported. Each
stored value is a GID whose top three bits hold the flip and rotation flags,
these are masked off before the value is used.
*/
package tmx

import (
	"encoding/xml"
	"image"
	"io"
	"os"
	"sort"
	"strconv"
)

const (
	// GIDMask strips the flip and rotation flags from a stored value.
	GIDMask = 0x1fffffff

	// ScreenWidth is the map property holding the screen width in tiles.
	ScreenWidth = "screenWidth"
	// ScreenHeight is the map property holding the screen height in tiles.
	ScreenHeight = "screenHeight"

	encodingCSV = "csv"
)

// Map is a decoded TMX map.
type Map struct {
	XMLName    xml.Name   `xml:"map"`
	Width      int        `xml:"width,attr"`
	Height     int        `xml:"height,attr"`
	TileWidth  int        `xml:"tilewidth,attr"`
	TileHeight int        `xml:"tileheight,attr"`
	Infinite   int        `xml:"infinite,attr"`
	Properties []Property `xml:"properties>property"`
	Tilesets   []Tileset  `xml:"tileset"`
	Layers     []*Layer   `xml:"layer"`
}

// Property is a custom map property.
type Property struct {
	Name  string `xml:"name,attr"`
	Type  string `xml:"type,attr"`
	Value string `xml:"value,attr"`
	Text  string `xml:",chardata"`
}

// Tileset is a reference to a tileset used by the map.
type Tileset struct {
	FirstGID uint32 `xml:"firstgid,attr"`
	Source   string `xml:"source,attr"`
	Name     string `xml:"name,attr"`
}

// Layer is a tile layer.
type Layer struct {
	ID     int    `xml:"id,attr"`
	Name   string `xml:"name,attr"`
	Width  int    `xml:"width,attr"`
	Height int    `xml:"height,attr"`
	Data   Data   `xml:"data"`

	cells map[image.Point]uint32
}

// Data holds the encoded cells of a layer.
type Data struct {
	Encoding    string  `xml:"encoding,attr"`
	Compression string  `xml:"compression,attr"`
	Chunks      []Chunk `xml:"chunk"`
	Tiles       []Tile  `xml:"tile"`
	Text        string  `xml:",chardata"`
}

// Chunk is a rectangular region of an infinite map layer.
type Chunk struct {
	X      int    `xml:"x,attr"`
	Y      int    `xml:"y,attr"`
	Width  int    `xml:"width,attr"`
	Height int    `xml:"height,attr"`
	Tiles  []Tile `xml:"tile"`
	Text   string `xml:",chardata"`

	missing []string
}

var chunkAttrs = []string{"x", "y", "width", "height"}

// UnmarshalXML decodes a chunk and notes which of its required attributes
// are absent.
func (c *Chunk) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	type chunk Chunk
	if err := d.DecodeElement((*chunk)(c), &start); err != nil {
		return err
	}

	c.missing = nil
	for _, name := range chunkAttrs {
		found := false
		for _, a := range start.Attr {
			if a.Name.Local == name {
				found = true
				break
			}
		}
		if !found {
			c.missing = append(c.missing, name)
		}
	}

	return nil
}

// Tile is a single cell in the XML encoding.
type Tile struct {
	GID uint32 `xml:"gid,attr"`
}

// Decode reads a TMX map from r and decodes the cells of every tile layer.
func Decode(r io.Reader) (*Map, error) {
	m := new(Map)
	if err := xml.NewDecoder(r).Decode(m); err != nil {
		return nil, &FormatError{Err: err}
	}

	sort.SliceStable(m.Tilesets, func(i, j int) bool { return m.Tilesets[i].FirstGID < m.Tilesets[j].FirstGID })

	for _, l := range m.Layers {
		if err := l.decode(m); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Open reads the TMX map in file.
func Open(file string) (*Map, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Decode(f)
}

// Property returns the value of the named map property.
func (m *Map) Property(name string) (string, bool) {
	for _, p := range m.Properties {
		if p.Name == name {
			if p.Value == "" {
				return p.Text, true
			}
			return p.Value, true
		}
	}
	return "", false
}

// Int returns the named map property as an integer.
func (m *Map) Int(name string) (int, error) {
	v, ok := m.Property(name)
	if !ok {
		return 0, &PropertyError{Name: name, Err: ErrMissingProperty}
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, &PropertyError{Name: name, Err: err}
	}
	return i, nil
}

// ScreenSize returns the screen dimensions stored in the screenWidth and
// screenHeight map properties. Both must be present and positive.
func (m *Map) ScreenSize() (int, int, error) {
	var size [2]int
	for i, name := range []string{ScreenWidth, ScreenHeight} {
		v, err := m.Int(name)
		if err != nil {
			return 0, 0, err
		}
		if v <= 0 {
			return 0, 0, &PropertyError{Name: name, Err: ErrInvalidProperty}
		}
		size[i] = v
	}
	return size[0], size[1], nil
}

// FirstGID returns the first GID of the tileset containing gid, or 0 when
// gid is not covered by any tileset.
func (m *Map) FirstGID(gid uint32) uint32 {
	var first uint32
	for _, ts := range m.Tilesets {
		if ts.FirstGID > gid {
			break
		}
		first = ts.FirstGID
	}
	return first
}

// Chunked reports whether the map is infinite or any layer stores its
// cells as chunks.
func (m *Map) Chunked() bool {
	if m.Infinite != 0 {
		return true
	}
	for _, l := range m.Layers {
		if len(l.Data.Chunks) > 0 {
			return true
		}
	}
	return false
}
