/*
Package basic writes a set of screens as a Boriel ZX Basic source module.

The module declares the screen count and geometry as constants, a drawTile
stub for the caller to fill in, the tiles of every screen as a three
dimensional Ubyte array indexed by (screen, y, x), and a mapDraw
subroutine that walks one screen calling drawTile for every tile.
*/
package basic

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/bodgit/tilescreen/screen"
)

const header = `Const SCREENS_COUNT = {{count}}
Const SCREEN_WIDTH as Ubyte = {{width}}
Const SCREEN_HEIGHT as Ubyte = {{height}}
Const SCREEN_LENGTH as Uinteger = {{length}}

Sub drawTile(tileId as Ubyte, x as Ubyte, y as Ubyte)
    ' Put your code here to draw the tile
    Print At y, x; tileId
End Sub

`

// The row wraps once x reaches SCREEN_WIDTH so every column is drawn.
const drawSub = `Sub mapDraw(screen as Ubyte)
    Dim index As Uinteger
    Dim y, x As Ubyte
    
    x = 0
    y = 0
    
    For index=0 To SCREEN_LENGTH - 1
        drawTile(map(screen, y, x), x, y)
        
        x = x + 1
        If x = SCREEN_WIDTH Then
            x = 0
            y = y + 1
        End If
    Next index
End Sub
`

type encoder struct {
	w *bufio.Writer
}

func (e *encoder) header(set *screen.Set) {
	l := set.Layout
	r := strings.NewReplacer(
		"{{count}}", strconv.Itoa(set.Len()),
		"{{width}}", strconv.Itoa(l.ScreenWidth),
		"{{height}}", strconv.Itoa(l.ScreenHeight),
		"{{length}}", strconv.Itoa(l.ScreenLength()),
	)
	r.WriteString(e.w, header)
}

func (e *encoder) row(tiles []int) {
	e.w.WriteString("    {")
	for i, t := range tiles {
		if i > 0 {
			e.w.WriteByte(',')
		}
		e.w.WriteString(strconv.Itoa(t))
	}
	e.w.WriteByte('}')
}

func (e *encoder) array(set *screen.Set) {
	l := set.Layout

	e.w.WriteString("Dim map(")
	e.w.WriteString(strconv.Itoa(set.Len() - 1))
	e.w.WriteString(", ")
	e.w.WriteString(strconv.Itoa(l.ScreenHeight - 1))
	e.w.WriteString(", ")
	e.w.WriteString(strconv.Itoa(l.ScreenWidth - 1))
	e.w.WriteString(") as Ubyte = { _\n")

	for i, s := range set.Screens {
		e.w.WriteString("  { _\n")
		for y := 0; y < s.Height; y++ {
			e.row(s.Row(y))
			if y < s.Height-1 {
				e.w.WriteString(", _\n")
			} else {
				e.w.WriteString(" _\n")
			}
		}
		if i < set.Len()-1 {
			e.w.WriteString("  }, _\n")
		} else {
			e.w.WriteString("  } _\n")
		}
	}

	e.w.WriteString("}\n\n")
}

func (e *encoder) encode(set *screen.Set) error {
	e.header(set)
	e.array(set)
	e.w.WriteString(drawSub)

	return e.w.Flush()
}

// Encode writes set to w as a Boriel Basic module. Every tile must fit in a
// Ubyte, otherwise a *screen.RangeError is returned before anything is
// written.
func Encode(w io.Writer, set *screen.Set) error {
	if set.Len() == 0 {
		return screen.ErrEmptyMap
	}
	if err := set.Check(); err != nil {
		return err
	}

	e := encoder{w: bufio.NewWriter(w)}

	return e.encode(set)
}
