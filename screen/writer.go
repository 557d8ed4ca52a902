package screen

import (
	"bufio"
	"io"
)

type encoder struct {
	w *bufio.Writer
}

func (e *encoder) encode(s *Screen) error {
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			if err := e.w.WriteByte(byte(s.At(x, y))); err != nil {
				return err
			}
		}
	}
	return e.w.Flush()
}

// Encode writes the Screen s to w, one byte per tile. A tile that does not
// fit in a byte returns a *RangeError before anything is written.
func Encode(w io.Writer, s *Screen) error {
	if err := s.Check(); err != nil {
		return err
	}

	e := encoder{w: bufio.NewWriterSize(w, len(s.Tiles))}

	return e.encode(s)
}

// MarshalBinary returns the encoded form of s.
func (s *Screen) MarshalBinary() ([]byte, error) {
	if err := s.Check(); err != nil {
		return nil, err
	}
	b := make([]byte, len(s.Tiles))
	for i, t := range s.Tiles {
		b[i] = byte(t)
	}
	return b, nil
}
