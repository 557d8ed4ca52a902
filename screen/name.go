package screen

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Extension is the file extension of a screen file.
const Extension = ".bin"

var indexRegexp = regexp.MustCompile(`_(\d+)\.bin$`)

// Base strips the screen file extension from filename so it can be used as
// the base name of every screen file.
func Base(filename string) string {
	return strings.TrimSuffix(filename, Extension)
}

// Filename returns the name of screen index for the given base name.
func Filename(base string, index int) string {
	return fmt.Sprintf("%s_%d%s", base, index, Extension)
}

// ParseIndex returns the screen index encoded in a screen filename.
func ParseIndex(filename string) (int, bool) {
	m := indexRegexp.FindStringSubmatch(filename)
	if m == nil {
		return 0, false
	}
	index, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return index, true
}
