/*
Package partition maps global tile coordinates onto fixed-size screens.

A map is split into screens of ScreenWidth by ScreenHeight tiles, numbered
left to right then top to bottom starting from the screen containing (0, 0).
Screen n covers the tiles from ((n mod ScreensPerRow) * ScreenWidth,
(n div ScreensPerRow) * ScreenHeight) inclusive. All division uses floor
semantics so coordinates left of or above the origin land on negative
screen rows and columns rather than being folded onto screen 0.
*/
package partition

import (
	"errors"
	"fmt"
)

// ErrInvalidDimensions is returned when a screen width or height is not
// positive.
var ErrInvalidDimensions = errors.New("partition: screen dimensions must be positive")

// ErrInvalidBounds is returned when the inclusive map bounds are negative,
// which means there are no tiles to export.
var ErrInvalidBounds = errors.New("partition: map bounds must not be negative")

// Layout describes how a map with inclusive bounds (0, 0)-(MaxX, MaxY) is
// split into screens.
type Layout struct {
	ScreenWidth  int
	ScreenHeight int
	MaxX         int
	MaxY         int
}

// New returns a Layout after validating the screen dimensions.
func New(screenWidth, screenHeight, maxX, maxY int) (Layout, error) {
	if screenWidth <= 0 || screenHeight <= 0 {
		return Layout{}, fmt.Errorf("%w: got %dx%d", ErrInvalidDimensions, screenWidth, screenHeight)
	}
	if maxX < 0 || maxY < 0 {
		return Layout{}, fmt.Errorf("%w: got (%d, %d)", ErrInvalidBounds, maxX, maxY)
	}
	return Layout{
		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,
		MaxX:         maxX,
		MaxY:         maxY,
	}, nil
}

// FloorDiv returns a/b rounded towards negative infinity.
func FloorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// FloorMod returns a - b*FloorDiv(a, b), which has the sign of b.
func FloorMod(a, b int) int {
	m := a % b
	if m != 0 && ((m < 0) != (b < 0)) {
		m += b
	}
	return m
}

// CeilDiv returns a/b rounded towards positive infinity.
func CeilDiv(a, b int) int {
	return -FloorDiv(-a, b)
}

// ScreensPerRow returns ceil((maxX+1) / screenWidth).
func ScreensPerRow(maxX, screenWidth int) int {
	return CeilDiv(maxX+1, screenWidth)
}

// ScreensPerCol returns ceil((maxY+1) / screenHeight).
func ScreensPerCol(maxY, screenHeight int) int {
	return CeilDiv(maxY+1, screenHeight)
}

// ScreensPerRow returns the number of screens along the x axis.
func (l Layout) ScreensPerRow() int {
	return ScreensPerRow(l.MaxX, l.ScreenWidth)
}

// ScreensPerCol returns the number of screens along the y axis.
func (l Layout) ScreensPerCol() int {
	return ScreensPerCol(l.MaxY, l.ScreenHeight)
}

// Screens returns the total number of screens.
func (l Layout) Screens() int {
	return l.ScreensPerRow() * l.ScreensPerCol()
}

// ScreenLength returns the number of tiles in a single screen.
func (l Layout) ScreenLength() int {
	return l.ScreenWidth * l.ScreenHeight
}

// InBounds reports whether (x, y) lies within (0, 0)-(MaxX, MaxY).
func (l Layout) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x <= l.MaxX && y <= l.MaxY
}

// Index returns the screen containing the global coordinate (x, y).
func (l Layout) Index(x, y int) int {
	return FloorDiv(x, l.ScreenWidth) + FloorDiv(y, l.ScreenHeight)*l.ScreensPerRow()
}

// Local returns the offset of (x, y) within its screen.
func (l Layout) Local(x, y int) (int, int) {
	return FloorMod(x, l.ScreenWidth), FloorMod(y, l.ScreenHeight)
}

// Locate returns the screen index and local offset of (x, y).
func (l Layout) Locate(x, y int) (index, localX, localY int) {
	localX, localY = l.Local(x, y)
	return l.Index(x, y), localX, localY
}

// Origin returns the global coordinate of the top-left tile of screen index.
func (l Layout) Origin(index int) (int, int) {
	perRow := l.ScreensPerRow()
	return FloorMod(index, perRow) * l.ScreenWidth, FloorDiv(index, perRow) * l.ScreenHeight
}

// Global is the inverse of Locate.
func (l Layout) Global(index, localX, localY int) (int, int) {
	x, y := l.Origin(index)
	return x + localX, y + localY
}

func (l Layout) String() string {
	return fmt.Sprintf("%dx%d tiles in %dx%d screens of %dx%d", l.MaxX+1, l.MaxY+1, l.ScreensPerRow(), l.ScreensPerCol(), l.ScreenWidth, l.ScreenHeight)
}
