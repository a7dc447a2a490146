package syntax

import (
	"encoding/binary"
	"unicode/utf16"
)

// BytesPerUnit is the number of grammar bytes per UTF-16 code unit.
const BytesPerUnit = 2

// Source is a document encoded as UTF-16 code units, the coordinate space
// of the host text buffer.
type Source []uint16

// Encode converts text into UTF-16 code units.
func Encode(text string) Source {
	return Source(utf16.Encode([]rune(text)))
}

// Len returns the number of code units.
func (s Source) Len() int {
	return len(s)
}

// Bytes returns the source as UTF-16LE bytes, the input encoding handed to
// the grammar runtime.
func (s Source) Bytes() []byte {
	out := make([]byte, len(s)*BytesPerUnit)
	for i, unit := range s {
		binary.LittleEndian.PutUint16(out[i*BytesPerUnit:], unit)
	}
	return out
}

// Text decodes the units in [start, end). Out-of-range bounds yield "".
func (s Source) Text(start, end int) string {
	if start < 0 || end > len(s) || start > end {
		return ""
	}
	return string(utf16.Decode(s[start:end]))
}

// TextBetweenBytes decodes the units covered by a grammar byte range.
func (s Source) TextBetweenBytes(startByte, endByte uint32) string {
	return s.Text(int(startByte/BytesPerUnit), int(endByte/BytesPerUnit))
}

// String decodes the whole source.
func (s Source) String() string {
	return string(utf16.Decode(s))
}
