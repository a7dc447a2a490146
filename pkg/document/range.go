package document

import "fmt"

// Range is a half-open interval [Start, End) of UTF-16 code units.
type Range struct {
	Start int
	End   int
}

// Len returns the number of code units covered by the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// IsEmpty returns true if the range covers no code units.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Valid reports whether 0 <= Start <= End <= length.
func (r Range) Valid(length int) bool {
	return r.Start >= 0 && r.Start <= r.End && r.End <= length
}

// Contains returns true if offset lies within the range.
func (r Range) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End
}

// Overlaps reports whether r and other share at least one code unit.
func (r Range) Overlaps(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}

// Shift returns the range moved by delta code units.
func (r Range) Shift(delta int) Range {
	return Range{Start: r.Start + delta, End: r.End + delta}
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}
