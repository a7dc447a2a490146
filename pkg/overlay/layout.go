package overlay

import (
	"math"

	"github.com/yaklabco/stickymd/pkg/syntax"
)

// Rect is a rectangle in layout points, origin top-left.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Layout is the text layout of the host buffer as seen by the placer.
// Offsets are UTF-16 code units.
type Layout interface {
	// ContentWidth is the usable width of a line.
	ContentWidth() float64

	// LineOf returns an identifier of the line holding offset, or -1.
	LineOf(offset int) int

	// ResetSpacing removes all spacing previously added after lines.
	ResetSpacing()

	// SetSpacingAfterLine reserves vertical space after the line holding
	// offset.
	SetSpacingAfterLine(offset int, spacing float64)

	// EnsureLayout finalises geometry after spacing changes.
	EnsureLayout()

	// LineRect returns the text rectangle of the line holding offset,
	// excluding its trailing spacing. It fails while layout is pending.
	LineRect(offset int) (Rect, bool)
}

// LineLayout lays out a buffer as fixed-height lines of fixed-width cells,
// wrapping long lines at the content width.
type LineLayout struct {
	lines      []syntax.Line
	width      float64
	cellWidth  float64
	lineHeight float64
	inset      float64

	spacing map[int]float64
	tops    []float64
	heights []float64
	dirty   bool
}

var _ Layout = (*LineLayout)(nil)

// LineLayoutOption configures a LineLayout.
type LineLayoutOption func(*LineLayout)

// WithCellSize sets the width of one code unit and the height of one row.
func WithCellSize(width, height float64) LineLayoutOption {
	return func(l *LineLayout) {
		l.cellWidth = width
		l.lineHeight = height
	}
}

// WithInset sets the horizontal text inset.
func WithInset(inset float64) LineLayoutOption {
	return func(l *LineLayout) {
		l.inset = inset
	}
}

// Default cell geometry, roughly a 14pt monospace face.
const (
	DefaultCellWidth  = 8.4
	DefaultLineHeight = 17
)

// NewLineLayout lays out text within width points.
func NewLineLayout(text string, width float64, opts ...LineLayoutOption) *LineLayout {
	l := &LineLayout{
		lines:      syntax.BuildLines(syntax.Encode(text)),
		width:      width,
		cellWidth:  DefaultCellWidth,
		lineHeight: DefaultLineHeight,
		spacing:    make(map[int]float64),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.EnsureLayout()
	return l
}

func (l *LineLayout) ContentWidth() float64 {
	return l.width
}

func (l *LineLayout) LineOf(offset int) int {
	return syntax.LineIndex(l.lines, offset)
}

func (l *LineLayout) ResetSpacing() {
	if len(l.spacing) == 0 {
		return
	}
	l.spacing = make(map[int]float64)
	l.dirty = true
}

func (l *LineLayout) SetSpacingAfterLine(offset int, spacing float64) {
	line := l.LineOf(offset)
	if line < 0 {
		return
	}
	l.spacing[line] = spacing
	l.dirty = true
}

// SpacingAfter returns the spacing reserved after a line.
func (l *LineLayout) SpacingAfter(line int) float64 {
	return l.spacing[line]
}

func (l *LineLayout) EnsureLayout() {
	l.tops = make([]float64, len(l.lines))
	l.heights = make([]float64, len(l.lines))

	y := 0.0
	for i, line := range l.lines {
		l.tops[i] = y
		l.heights[i] = float64(l.rows(line)) * l.lineHeight
		y += l.heights[i] + l.spacing[i]
	}
	l.dirty = false
}

func (l *LineLayout) LineRect(offset int) (Rect, bool) {
	if l.dirty {
		return Rect{}, false
	}
	line := l.LineOf(offset)
	if line < 0 {
		return Rect{}, false
	}
	return Rect{X: l.inset, Y: l.tops[line], Width: l.width, Height: l.heights[line]}, true
}

// Height is the total laid-out height.
func (l *LineLayout) Height() float64 {
	if len(l.lines) == 0 {
		return 0
	}
	last := len(l.lines) - 1
	return l.tops[last] + l.heights[last] + l.spacing[last]
}

func (l *LineLayout) rows(line syntax.Line) int {
	units := line.NewlineStart - line.Start
	if units == 0 || l.width <= 0 || l.cellWidth <= 0 {
		return 1
	}
	cols := int(math.Max(1, math.Floor(l.width/l.cellWidth)))
	return (units + cols - 1) / cols
}
