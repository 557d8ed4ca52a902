/*
Package preview renders a set of screens as a paletted PNG.

Every tile id is drawn as a square block of a colour derived from the id,
with tile 0 drawn black. Screens are laid out in the same grid they were
cut from and optionally separated by a one pixel border. The image is
reduced to at most Colors colours with a median cut quantizer so the
preview matches the colour budget of the target platform.
*/
package preview

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/bodgit/tilescreen/screen"
	"github.com/ericpauley/go-quantize/quantize"
)

const (
	defaultCellSize = 4
	defaultColors   = 16
	maxColors       = 256
)

var (
	borderColor = color.RGBA{0xff, 0xff, 0xff, 0xff}
	emptyColor  = color.RGBA{0x00, 0x00, 0x00, 0xff}
)

// Options controls how a preview is drawn.
type Options struct {
	// CellSize is the width and height in pixels of each tile.
	CellSize int
	// Colors is the maximum number of colours in the palette.
	Colors int
	// Border draws a line between screens.
	Border bool
}

func (o *Options) defaults() {
	if o.CellSize <= 0 {
		o.CellSize = defaultCellSize
	}
	if o.Colors <= 0 {
		o.Colors = defaultColors
	}
	if o.Colors > maxColors {
		o.Colors = maxColors
	}
}

// TileColor returns the colour used for tile id t. Hues are spread using
// the golden ratio so neighbouring ids get distinct colours.
func TileColor(t int) color.RGBA {
	if t == 0 {
		return emptyColor
	}
	h := math.Mod(float64(t)*0.618033988749895, 1)
	return hsv(h, 0.65, 0.95)
}

func hsv(h, s, v float64) color.RGBA {
	i := math.Floor(h * 6)
	f := h*6 - i
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var r, g, b float64
	switch int(i) % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}
	return color.RGBA{uint8(r * 255), uint8(g * 255), uint8(b * 255), 0xff}
}

// Render draws set onto a full colour image.
func Render(set *screen.Set, o Options) *image.RGBA {
	o.defaults()

	l := set.Layout
	border := 0
	if o.Border {
		border = 1
	}

	sw := l.ScreenWidth*o.CellSize + border
	sh := l.ScreenHeight*o.CellSize + border

	m := image.NewRGBA(image.Rect(0, 0, l.ScreensPerRow()*sw+border, l.ScreensPerCol()*sh+border))
	if o.Border {
		draw.Draw(m, m.Bounds(), image.NewUniform(borderColor), image.Point{}, draw.Src)
	}

	for _, s := range set.Screens {
		ox := (s.Index%l.ScreensPerRow())*sw + border
		oy := (s.Index/l.ScreensPerRow())*sh + border
		for y := 0; y < s.Height; y++ {
			for x := 0; x < s.Width; x++ {
				r := image.Rect(0, 0, o.CellSize, o.CellSize).Add(image.Pt(ox+x*o.CellSize, oy+y*o.CellSize))
				draw.Draw(m, r, image.NewUniform(TileColor(s.At(x, y))), image.Point{}, draw.Src)
			}
		}
	}

	return m
}

func uniqueColors(m image.Image, limit int) color.Palette {
	seen := make(map[color.Color]struct{})
	var p color.Palette
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := m.At(x, y)
			if _, ok := seen[c]; ok {
				continue
			}
			if len(p) == limit {
				return nil
			}
			seen[c] = struct{}{}
			p = append(p, c)
		}
	}
	return p
}

// Paletted reduces m to at most colors colours.
func Paletted(m image.Image, colors int) *image.Paletted {
	b := m.Bounds()

	p := uniqueColors(m, colors)
	if p == nil {
		q := quantize.MedianCutQuantizer{}
		p = q.Quantize(make(color.Palette, 0, colors), m)
	}

	pm := image.NewPaletted(b, p)
	draw.Draw(pm, b, m, b.Min, draw.Src)

	return pm
}

// Encode writes a PNG preview of set to w.
func Encode(w io.Writer, set *screen.Set, o Options) error {
	if set.Len() == 0 {
		return errors.New("preview: no screens to draw")
	}
	o.defaults()

	return png.Encode(w, Paletted(Render(set, o), o.Colors))
}
