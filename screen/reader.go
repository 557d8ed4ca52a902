package screen

import (
	"errors"
	"io"
)

var (
	// ErrNotEnough is returned when a screen file is shorter than the
	// screen geometry.
	ErrNotEnough = errors.New("screen: not enough screen data")
	// ErrTooMuch is returned when a screen file is longer than the
	// screen geometry.
	ErrTooMuch = errors.New("screen: too much screen data")
)

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

type decoder struct {
	r      io.Reader
	screen *Screen
	tmp    []byte
}

func (d *decoder) decode(r io.Reader) error {
	d.r = r

	if err := readFull(d.r, d.tmp); err != nil {
		if err != io.ErrUnexpectedEOF {
			return err
		}
		return ErrNotEnough
	}

	var one [1]byte
	if n, err := d.r.Read(one[:]); n != 0 || (err != io.EOF && err != io.ErrUnexpectedEOF) {
		if err != nil {
			return err
		}
		return ErrTooMuch
	}

	for i, b := range d.tmp {
		d.screen.Tiles[i] = int(b)
	}

	return nil
}

// Decode reads a width by height screen from r. The screen index is left
// at 0 for the caller to fill in.
func Decode(r io.Reader, width, height int) (*Screen, error) {
	d := decoder{
		screen: New(0, width, height),
		tmp:    make([]byte, width*height),
	}
	if err := d.decode(r); err != nil {
		return nil, err
	}
	return d.screen, nil
}
