// Package codeblock colours the contents of code blocks with the grammar of
// their language. Each block is parsed in isolation and its captures are
// mapped back into the host buffer.
package codeblock

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/stickymd/internal/logging"
	"github.com/yaklabco/stickymd/pkg/document"
	"github.com/yaklabco/stickymd/pkg/grammar"
	"github.com/yaklabco/stickymd/pkg/langdetect"
	"github.com/yaklabco/stickymd/pkg/offset"
	"github.com/yaklabco/stickymd/pkg/style"
	"github.com/yaklabco/stickymd/pkg/syntax"
)

// Token classes.
const (
	ClassKeyword     = "keyword"
	ClassString      = "string"
	ClassComment     = "comment"
	ClassNumber      = "number"
	ClassType        = "type"
	ClassFunction    = "function"
	ClassVariable    = "variable"
	ClassProperty    = "property"
	ClassOperator    = "operator"
	ClassConstant    = "constant"
	ClassPunctuation = "punctuation"
)

// captureClasses maps the first component of a capture name to a class.
//
//nolint:gochecknoglobals // Read-only lookup table.
var captureClasses = map[string]string{
	"keyword":     ClassKeyword,
	"string":      ClassString,
	"comment":     ClassComment,
	"number":      ClassNumber,
	"float":       ClassNumber,
	"type":        ClassType,
	"function":    ClassFunction,
	"method":      ClassFunction,
	"variable":    ClassVariable,
	"property":    ClassProperty,
	"field":       ClassProperty,
	"operator":    ClassOperator,
	"constant":    ClassConstant,
	"boolean":     ClassConstant,
	"punctuation": ClassPunctuation,
}

// ClassOf returns the token class of a capture name such as
// "keyword.function", or false when the name has no class.
func ClassOf(capture string) (string, bool) {
	head, _, _ := strings.Cut(strings.TrimPrefix(capture, "@"), ".")
	class, ok := captureClasses[head]
	return class, ok
}

// Highlighter runs the nested per-language pass.
type Highlighter struct {
	registry *grammar.Registry
	detect   bool
	logger   *log.Logger
}

// Option configures a Highlighter.
type Option func(*Highlighter)

// WithDetection guesses the language of untagged blocks.
func WithDetection(on bool) Option {
	return func(h *Highlighter) {
		h.detect = on
	}
}

// WithLogger sets the logger for skipped blocks.
func WithLogger(logger *log.Logger) Option {
	return func(h *Highlighter) {
		h.logger = logger
	}
}

// New creates a highlighter resolving languages through registry.
func New(registry *grammar.Registry, opts ...Option) *Highlighter {
	h := &Highlighter{registry: registry}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = logging.Or(h.logger)
	return h
}

// Highlight tokenises code written in language. Token ranges are shifted
// by hostOffset; tokens outside the snippet or outside [0, hostLength] are
// discarded.
func (h *Highlighter) Highlight(
	ctx context.Context,
	code string,
	language string,
	hostOffset int,
	hostLength int,
) ([]style.Token, error) {
	if code == "" {
		return nil, nil
	}

	language = h.language(code, language)
	if language == "" {
		return nil, nil
	}

	g, err := h.registry.Resolve(language)
	if err != nil {
		return nil, err
	}

	querier, ok := g.(grammar.CaptureQuerier)
	if !ok {
		return nil, fmt.Errorf("%s: %w", g.Name(), grammar.ErrNoQuery)
	}

	src := syntax.Encode(code)
	captures, err := querier.Captures(ctx, src)
	if err != nil {
		return nil, err
	}

	mapper := offset.ForSource(src)
	tokens := make([]style.Token, 0, len(captures))
	for _, capture := range captures {
		class, ok := ClassOf(capture.Name)
		if !ok {
			continue
		}

		local, ok := mapper.ToHostRange(capture)
		if !ok || local.IsEmpty() {
			continue
		}

		host := local.Shift(hostOffset)
		if !host.Valid(hostLength) {
			continue
		}

		tokens = append(tokens, style.Token{Class: class, Range: host})
	}

	return tokens, nil
}

// HighlightBlocks runs Highlight over every block of the host source.
// Blocks that cannot be highlighted are skipped.
func (h *Highlighter) HighlightBlocks(ctx context.Context, host syntax.Source, blocks []document.CodeBlock) []style.Token {
	var tokens []style.Token
	for _, block := range blocks {
		if !block.Content.Valid(host.Len()) || block.Content.IsEmpty() {
			continue
		}

		code := host.Text(block.Content.Start, block.Content.End)
		blockTokens, err := h.Highlight(ctx, code, block.Language, block.Content.Start, host.Len())
		if err != nil {
			h.logger.Debug("code block skipped",
				logging.FieldLanguage, block.Language,
				logging.FieldRange, block.Content.String(),
				logging.FieldError, err)
			continue
		}
		tokens = append(tokens, blockTokens...)
	}
	return tokens
}

func (h *Highlighter) language(code, tag string) string {
	tag = strings.TrimSpace(tag)
	if tag != "" || !h.detect {
		return tag
	}

	lang, ok := langdetect.Guess(code, func(lang string) bool {
		_, known := h.registry.Canonical(lang)
		return known
	})
	if !ok {
		return ""
	}
	h.logger.Debug("detected code block language", logging.FieldLanguage, lang)
	return lang
}
