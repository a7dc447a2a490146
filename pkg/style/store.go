package style

import (
	"slices"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/yaklabco/stickymd/pkg/document"
)

// Font is the font attribute of a run of text.
type Font struct {
	Family    string
	Size      float64
	Bold      bool
	Italic    bool
	Monospace bool
}

// Attributes is the full attribute set of one code unit.
type Attributes struct {
	Font          Font
	Foreground    colorful.Color
	Background    colorful.Color
	HasBackground bool
	Underline     bool
	Strikethrough bool
}

// Store is the attribute storage of a host text buffer, addressed in UTF-16
// code units. Callers only pass ranges valid for Len.
type Store interface {
	// Len returns the buffer length in code units.
	Len() int

	// FontAt returns the font at offset.
	FontAt(offset int) (Font, bool)

	// Reset replaces every attribute in r with font and foreground.
	Reset(r document.Range, font Font, foreground colorful.Color)

	SetFont(r document.Range, font Font)
	SetForeground(r document.Range, color colorful.Color)
	SetBackground(r document.Range, color colorful.Color)
	SetUnderline(r document.Range, on bool)
	SetStrikethrough(r document.Range, on bool)
}

// Run is a maximal range of equal attributes.
type Run struct {
	Range      document.Range
	Attributes Attributes
}

// Buffer is an in-memory Store holding one attribute set per code unit.
type Buffer struct {
	attrs []Attributes
}

var _ Store = (*Buffer)(nil)

// NewBuffer creates a buffer of length code units with zero attributes.
func NewBuffer(length int) *Buffer {
	return &Buffer{attrs: make([]Attributes, length)}
}

func (b *Buffer) Len() int {
	return len(b.attrs)
}

func (b *Buffer) FontAt(offset int) (Font, bool) {
	if offset < 0 || offset >= len(b.attrs) {
		return Font{}, false
	}
	return b.attrs[offset].Font, true
}

func (b *Buffer) Reset(r document.Range, font Font, foreground colorful.Color) {
	b.each(r, func(a *Attributes) {
		*a = Attributes{Font: font, Foreground: foreground}
	})
}

func (b *Buffer) SetFont(r document.Range, font Font) {
	b.each(r, func(a *Attributes) { a.Font = font })
}

func (b *Buffer) SetForeground(r document.Range, color colorful.Color) {
	b.each(r, func(a *Attributes) { a.Foreground = color })
}

func (b *Buffer) SetBackground(r document.Range, color colorful.Color) {
	b.each(r, func(a *Attributes) {
		a.Background = color
		a.HasBackground = true
	})
}

func (b *Buffer) SetUnderline(r document.Range, on bool) {
	b.each(r, func(a *Attributes) { a.Underline = on })
}

func (b *Buffer) SetStrikethrough(r document.Range, on bool) {
	b.each(r, func(a *Attributes) { a.Strikethrough = on })
}

// At returns the attributes of one code unit.
func (b *Buffer) At(offset int) (Attributes, bool) {
	if offset < 0 || offset >= len(b.attrs) {
		return Attributes{}, false
	}
	return b.attrs[offset], true
}

// Snapshot returns a copy of the per-unit attributes.
func (b *Buffer) Snapshot() []Attributes {
	return slices.Clone(b.attrs)
}

// Runs returns the buffer as maximal runs of equal attributes.
func (b *Buffer) Runs() []Run {
	var runs []Run
	for i, a := range b.attrs {
		if n := len(runs); n > 0 && runs[n-1].Attributes == a {
			runs[n-1].Range.End = i + 1
			continue
		}
		runs = append(runs, Run{Range: document.Range{Start: i, End: i + 1}, Attributes: a})
	}
	return runs
}

func (b *Buffer) each(r document.Range, fn func(*Attributes)) {
	if !r.Valid(len(b.attrs)) {
		return
	}
	for i := r.Start; i < r.End; i++ {
		fn(&b.attrs[i])
	}
}
