// Package render runs one highlight pass over a document: parse, classify,
// style, colour code blocks and place image overlays.
package render

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/stickymd/internal/logging"
	"github.com/yaklabco/stickymd/pkg/codeblock"
	"github.com/yaklabco/stickymd/pkg/config"
	"github.com/yaklabco/stickymd/pkg/document"
	"github.com/yaklabco/stickymd/pkg/grammar"
	"github.com/yaklabco/stickymd/pkg/orginline"
	"github.com/yaklabco/stickymd/pkg/overlay"
	"github.com/yaklabco/stickymd/pkg/parser"
	"github.com/yaklabco/stickymd/pkg/style"
)

// ErrStale is returned when the document changed while a pass was running.
// The pass's results are discarded without touching the store.
var ErrStale = errors.New("document changed during highlight pass")

// Pass is the outcome of one highlight pass.
type Pass struct {
	// Version is the document version the pass was computed for.
	Version uint64
	Dialect document.Dialect

	Spans      []document.Span
	CodeBlocks []document.CodeBlock
	Tokens     []style.Token
	Anchors    []document.ImageAnchor
	Commands   []overlay.Command

	// Applied counts spans and tokens written to the store.
	Applied int

	// Skipped is set when the document was empty and nothing was written.
	Skipped bool
}

// Engine highlights one document. It keeps the parse trees and the overlay
// set between passes, so each open document needs its own Engine.
type Engine struct {
	registry   *grammar.Registry
	parser     *parser.DualParser
	applicator *style.Applicator
	code       *codeblock.Highlighter
	placer     *overlay.Placer
	logger     *log.Logger

	theme      style.Theme
	detect     bool
	noCode     bool
	noImages    bool
	placerOpts  []overlay.Option
	scannerOpts []orginline.Option
}

// Option configures an Engine.
type Option func(*Engine)

// WithRegistry sets the grammar registry. The default is grammar.Default().
func WithRegistry(registry *grammar.Registry) Option {
	return func(e *Engine) {
		e.registry = registry
	}
}

// WithTheme sets the style theme.
func WithTheme(theme style.Theme) Option {
	return func(e *Engine) {
		e.theme = theme
	}
}

// WithPlacerOptions configures the image overlay placer.
func WithPlacerOptions(opts ...overlay.Option) Option {
	return func(e *Engine) {
		e.placerOpts = append(e.placerOpts, opts...)
	}
}

// WithScannerOptions configures the Org inline scanner.
func WithScannerOptions(opts ...orginline.Option) Option {
	return func(e *Engine) {
		e.scannerOpts = append(e.scannerOpts, opts...)
	}
}

// WithoutImages disables image overlays.
func WithoutImages() Option {
	return func(e *Engine) {
		e.noImages = true
	}
}

// WithoutCodeHighlighting disables the nested code block pass.
func WithoutCodeHighlighting() Option {
	return func(e *Engine) {
		e.noCode = true
	}
}

// WithDetection guesses the language of untagged code blocks.
func WithDetection(on bool) Option {
	return func(e *Engine) {
		e.detect = on
	}
}

// WithLogger sets the logger shared by every stage.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates an engine for a document of the given dialect.
func New(dialect document.Dialect, opts ...Option) *Engine {
	e := &Engine{theme: style.DefaultTheme()}
	for _, opt := range opts {
		opt(e)
	}

	e.logger = logging.Or(e.logger)
	if e.registry == nil {
		e.registry = grammar.Default()
	}

	scannerOpts := append([]orginline.Option{orginline.WithLogger(e.logger)}, e.scannerOpts...)
	e.parser = parser.New(dialect,
		parser.WithRegistry(e.registry),
		parser.WithScanner(orginline.New(scannerOpts...)),
		parser.WithLogger(e.logger))
	e.applicator = style.NewApplicator(e.theme, style.WithLogger(e.logger))

	if !e.noCode {
		e.code = codeblock.New(e.registry,
			codeblock.WithDetection(e.detect),
			codeblock.WithLogger(e.logger))
	}
	if !e.noImages {
		placerOpts := append([]overlay.Option{overlay.WithLogger(e.logger)}, e.placerOpts...)
		e.placer = overlay.NewPlacer(placerOpts...)
	}

	return e
}

// NewFromConfig creates an engine from configuration. baseDir is the
// directory image links are resolved against.
func NewFromConfig(cfg *config.Config, dialect document.Dialect, baseDir string, opts ...Option) (*Engine, error) {
	theme, err := style.ThemeFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("theme: %w", err)
	}

	logger := logging.Default()

	// Configured aliases go on a view of the shared registry so grammars
	// stay compiled once per process.
	registry := grammar.Default()
	if len(cfg.Code.Aliases) > 0 {
		registry = registry.Derive(cfg.Code.Aliases)
	}

	base := []Option{
		WithRegistry(registry),
		WithTheme(theme),
		WithDetection(cfg.Code.DetectEnabled()),
		WithLogger(logger),
		WithPlacerOptions(
			overlay.WithBaseDir(baseDir),
			overlay.WithLimits(cfg.Images.MaxHeight, cfg.Images.Margin),
			overlay.WithExtensions(cfg.Images.Extensions),
		),
	}
	if len(cfg.Images.Extensions) > 0 {
		base = append(base, WithScannerOptions(orginline.WithImageExtensions(cfg.Images.Extensions)))
	}
	if !cfg.Code.HighlightEnabled() {
		base = append(base, WithoutCodeHighlighting())
	}
	if !cfg.Images.IsEnabled() {
		base = append(base, WithoutImages())
	}

	return New(dialect, append(base, opts...)...), nil
}

// Parser returns the engine's parser.
func (e *Engine) Parser() *parser.DualParser {
	return e.parser
}

// Registry returns the grammar registry the engine resolves through.
func (e *Engine) Registry() *grammar.Registry {
	return e.registry
}

// Theme returns the engine's theme.
func (e *Engine) Theme() style.Theme {
	return e.theme
}

// SetBaseDir changes the directory image links are resolved against.
func (e *Engine) SetBaseDir(dir string) {
	if e.placer != nil {
		e.placer.SetBaseDir(dir)
	}
}

// Highlight runs one pass over state, writing attributes to store and
// placing overlays in layout. A nil layout skips overlays.
//
// The pass:
//  1. Captures the document version and parses the text.
//  2. Returns the parse error, or ErrStale if the version moved, without
//     touching the store.
//  3. For empty text, removes overlays and writes nothing else.
//  4. Resets the store and applies spans in discovery order.
//  5. Applies code block tokens.
//  6. Rebuilds the overlay set.
func (e *Engine) Highlight(
	ctx context.Context,
	state *document.State,
	store style.Store,
	layout overlay.Layout,
) (*Pass, error) {
	version := state.Version()
	e.parser.SetDialect(state.Dialect())

	result, err := e.parser.Parse(ctx, state.Text())
	if err != nil {
		return nil, err
	}
	if state.Version() != version {
		e.logger.Debug("pass discarded", logging.FieldVersion, version)
		return nil, fmt.Errorf("version %d: %w", version, ErrStale)
	}

	pass := &Pass{Version: version, Dialect: result.Dialect}

	if result.IsEmpty() {
		pass.Skipped = true
		if e.placer != nil && layout != nil {
			pass.Commands = e.placer.Clear(layout)
		}
		return pass, nil
	}

	pass.Spans = result.Spans
	pass.CodeBlocks = result.CodeBlocks

	e.applicator.Reset(store)
	pass.Applied = e.applicator.Apply(result.Spans, store)

	if e.code != nil {
		pass.Tokens = e.code.HighlightBlocks(ctx, result.Source, result.CodeBlocks)
		pass.Applied += e.applicator.ApplyTokens(pass.Tokens, store)
	}

	if e.placer != nil && layout != nil {
		pass.Anchors, pass.Commands = e.placer.Place(result.Images(), layout)
	}

	e.logger.Debug("pass complete",
		logging.FieldVersion, version,
		logging.FieldSpans, len(pass.Spans),
		logging.FieldTokens, len(pass.Tokens),
		logging.FieldOverlays, len(pass.Anchors))

	return pass, nil
}
