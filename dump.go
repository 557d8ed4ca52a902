package tilescreen

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultDumpWidth is the row width used by Dump when none is given.
const DefaultDumpWidth = 32

// Dump writes the tile ids in a screen file to w, width tiles per row with
// each row prefixed by its hexadecimal byte offset.
func Dump(w io.Writer, file string, width int) error {
	b, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	return DumpBytes(w, file, b, width)
}

// DumpBytes writes b to w in the same layout as Dump, using name in the
// heading.
func DumpBytes(w io.Writer, name string, b []byte, width int) error {
	if width <= 0 {
		width = DefaultDumpWidth
	}

	bw := bufio.NewWriter(w)
	rule := strings.Repeat("-", 60)

	fmt.Fprintf(bw, "Reading %s\n", name)
	fmt.Fprintf(bw, "Size: %d bytes\n", len(b))
	fmt.Fprintln(bw, rule)
	for i := 0; i < len(b); i += width {
		fmt.Fprintf(bw, "%04X: ", i)
		for _, v := range b[i:min(i+width, len(b))] {
			fmt.Fprintf(bw, "%3d ", v)
		}
		fmt.Fprintln(bw)
	}
	fmt.Fprintln(bw, rule)

	return bw.Flush()
}
