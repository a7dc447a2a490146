package offset

import (
	"unicode/utf16"
	"unicode/utf8"
)

// UnitIndex translates byte indexes of a Go (UTF-8) string into UTF-16
// code-unit indexes. Scanners that run regular expressions over the raw
// buffer text use it to report host coordinates.
type UnitIndex struct {
	units []int
}

// NewUnitIndex builds the index for text. Lookups are O(1).
func NewUnitIndex(text string) *UnitIndex {
	units := make([]int, len(text)+1)
	unit := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		for j := 0; j < size; j++ {
			units[i+j] = unit
		}
		if n := utf16.RuneLen(r); n > 0 {
			unit += n
		} else {
			unit++
		}
		i += size
	}
	units[len(text)] = unit
	return &UnitIndex{units: units}
}

// Unit returns the code-unit index of byte index b. Indexes inside a
// multi-byte rune map to the rune's first unit. Returns -1 when b is out
// of range.
func (x *UnitIndex) Unit(b int) int {
	if b < 0 || b >= len(x.units) {
		return -1
	}
	return x.units[b]
}

// Len returns the text length in code units.
func (x *UnitIndex) Len() int {
	return x.units[len(x.units)-1]
}
