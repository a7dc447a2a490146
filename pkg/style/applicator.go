package style

import (
	"github.com/charmbracelet/log"

	"github.com/yaklabco/stickymd/internal/logging"
	"github.com/yaklabco/stickymd/pkg/document"
	"github.com/yaklabco/stickymd/pkg/offset"
)

// Token is one coloured token of a code block, in host coordinates.
type Token struct {
	Class string
	Range document.Range
}

// Applicator writes element styles to a Store.
type Applicator struct {
	theme  Theme
	logger *log.Logger
}

// Option configures an Applicator.
type Option func(*Applicator)

// WithLogger sets the logger for dropped spans.
func WithLogger(logger *log.Logger) Option {
	return func(a *Applicator) {
		a.logger = logger
	}
}

// NewApplicator creates an applicator for theme.
func NewApplicator(theme Theme, opts ...Option) *Applicator {
	app := &Applicator{theme: theme, logger: logging.Default()}
	for _, opt := range opts {
		opt(app)
	}
	return app
}

// Theme returns the applicator's theme.
func (a *Applicator) Theme() Theme {
	return a.theme
}

// Reset restores the whole buffer to the base font and text colour.
func (a *Applicator) Reset(store Store) {
	store.Reset(document.Range{Start: 0, End: store.Len()}, a.theme.BaseFont(), a.theme.Text)
}

// Apply writes spans in order; later writes win where attributes overlap.
// Spans outside the buffer are dropped. It returns the number applied.
func (a *Applicator) Apply(spans []document.Span, store Store) int {
	applied := 0
	for _, span := range spans {
		if !a.inBounds(span.Range, store) {
			continue
		}
		a.applyOne(span, store)
		applied++
	}
	return applied
}

func (a *Applicator) applyOne(span document.Span, store Store) {
	r := span.Range

	switch span.Element.Kind {
	case document.ElementHeading:
		store.SetFont(r, a.theme.HeadingFont(span.Element.Level))
	case document.ElementBold:
		font := a.fontAt(store, r.Start)
		font.Bold = true
		store.SetFont(r, font)
	case document.ElementItalic:
		font := a.fontAt(store, r.Start)
		font.Italic = true
		store.SetFont(r, font)
	case document.ElementUnderline:
		store.SetUnderline(r, true)
	case document.ElementStrikethrough:
		store.SetStrikethrough(r, true)
	case document.ElementInlineCode:
		store.SetFont(r, a.theme.CodeFont())
		store.SetBackground(r, a.theme.InlineCode)
	case document.ElementCodeBlock:
		store.SetFont(r, a.theme.CodeFont())
		store.SetBackground(r, a.theme.CodeBlock)
	case document.ElementImageLink:
		store.SetForeground(r, a.theme.Link)
	}
}

// ApplyTokens colours code tokens. Tokens of an unknown class or outside
// the buffer are skipped. It returns the number applied.
func (a *Applicator) ApplyTokens(tokens []Token, store Store) int {
	applied := 0
	for _, token := range tokens {
		color, ok := a.theme.Tokens[token.Class]
		if !ok || !a.inBounds(token.Range, store) {
			continue
		}
		store.SetForeground(token.Range, color)
		applied++
	}
	return applied
}

func (a *Applicator) fontAt(store Store, offset int) Font {
	if font, ok := store.FontAt(offset); ok {
		return font
	}
	return a.theme.BaseFont()
}

func (a *Applicator) inBounds(r document.Range, store Store) bool {
	if r.Valid(store.Len()) {
		return true
	}
	a.logger.Debug("span dropped",
		logging.FieldRange, r.String(),
		logging.FieldError, offset.ErrOutOfRange)
	return false
}
