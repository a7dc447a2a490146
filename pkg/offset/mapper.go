// Package offset converts grammar byte ranges into host buffer ranges.
//
// The grammars are fed UTF-16LE text, so every byte offset they report is
// exactly twice the UTF-16 code-unit offset of the host buffer, surrogate
// pairs included. This package is the one place that encodes that rule.
package offset

import (
	"errors"
	"fmt"

	"github.com/yaklabco/stickymd/pkg/document"
	"github.com/yaklabco/stickymd/pkg/syntax"
)

// ErrOutOfRange is returned when a mapped range does not fit the buffer.
var ErrOutOfRange = errors.New("range outside buffer")

// ByteRange is anything that reports a grammar byte range: syntax nodes
// and query captures.
type ByteRange interface {
	StartByte() uint32
	EndByte() uint32
}

// Mapper maps grammar byte ranges into a buffer of Length code units.
type Mapper struct {
	// Length is the buffer length in UTF-16 code units.
	Length int
}

// NewMapper creates a mapper for a buffer of the given length.
func NewMapper(length int) Mapper {
	return Mapper{Length: length}
}

// ForSource creates a mapper sized to a source.
func ForSource(src syntax.Source) Mapper {
	return Mapper{Length: src.Len()}
}

// ToHostRange converts a grammar byte range into a host range. The second
// result is false when either endpoint falls outside [0, Length] or the
// range would have negative length; such ranges are dropped, not clamped.
func (m Mapper) ToHostRange(r ByteRange) (document.Range, bool) {
	if r == nil {
		return document.Range{}, false
	}
	start := int(r.StartByte()) / syntax.BytesPerUnit
	end := int(r.EndByte()) / syntax.BytesPerUnit
	return m.validate(start, end)
}

// Check is ToHostRange with an error suitable for logging.
func (m Mapper) Check(r ByteRange) (document.Range, error) {
	host, ok := m.ToHostRange(r)
	if !ok {
		return document.Range{}, fmt.Errorf("bytes [%d,%d) in buffer of %d units: %w",
			r.StartByte(), r.EndByte(), m.Length, ErrOutOfRange)
	}
	return host, nil
}

func (m Mapper) validate(start, end int) (document.Range, bool) {
	if start < 0 || start > m.Length || end < 0 || end > m.Length || end < start {
		return document.Range{}, false
	}
	return document.Range{Start: start, End: end}, true
}

// Bytes is a literal byte range, handy for ranges not backed by a node.
type Bytes struct {
	Start uint32
	End   uint32
}

// StartByte returns the start byte.
func (b Bytes) StartByte() uint32 { return b.Start }

// EndByte returns the end byte.
func (b Bytes) EndByte() uint32 { return b.End }
