// Package overlay places image previews beneath the lines that link them.
// Every pass tears down the previous overlay set and builds a new one.
package overlay

import (
	"fmt"
	"math"
	"net/url"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/yaklabco/stickymd/internal/logging"
	"github.com/yaklabco/stickymd/pkg/config"
	"github.com/yaklabco/stickymd/pkg/document"
)

// CommandKind distinguishes overlay commands.
type CommandKind string

const (
	CommandAdd    CommandKind = "add"
	CommandRemove CommandKind = "remove"
)

// Overlay is one placed image preview.
type Overlay struct {
	ID     string
	Path   string
	Anchor document.Range
	Rect   Rect
}

// Command tells the host to add or remove an overlay. Remove commands only
// carry the ID.
type Command struct {
	Kind    CommandKind
	Overlay Overlay
}

// Placer turns image link spans into overlays.
type Placer struct {
	loader     Loader
	baseDir    string
	maxHeight  float64
	margin     float64
	extensions []string
	newID      func() string
	logger     *log.Logger

	current []Overlay
}

// Option configures a Placer.
type Option func(*Placer)

// WithLoader replaces the image loader.
func WithLoader(loader Loader) Option {
	return func(p *Placer) {
		p.loader = loader
	}
}

// WithBaseDir sets the directory relative paths are resolved against.
func WithBaseDir(dir string) Option {
	return func(p *Placer) {
		p.baseDir = dir
	}
}

// WithLimits sets the maximum display height and the margin below images.
func WithLimits(maxHeight, margin float64) Option {
	return func(p *Placer) {
		p.maxHeight = maxHeight
		p.margin = margin
	}
}

// WithExtensions sets the recognised image extensions (with dot).
func WithExtensions(exts []string) Option {
	return func(p *Placer) {
		p.extensions = make([]string, 0, len(exts))
		for _, ext := range exts {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if ext != "" && !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			p.extensions = append(p.extensions, ext)
		}
	}
}

// WithIDFunc replaces the overlay ID generator.
func WithIDFunc(fn func() string) Option {
	return func(p *Placer) {
		p.newID = fn
	}
}

// WithLogger sets the logger for skipped images.
func WithLogger(logger *log.Logger) Option {
	return func(p *Placer) {
		p.logger = logger
	}
}

// NewPlacer creates a placer with the default limits.
func NewPlacer(opts ...Option) *Placer {
	p := &Placer{
		loader:    FileLoader{},
		maxHeight: config.DefaultImageMaxHeight,
		margin:    config.DefaultImageMargin,
		newID:     uuid.NewString,
		logger:    logging.Default(),
	}
	WithExtensions(config.DefaultImageExtensions())(p)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SetBaseDir changes the directory relative paths are resolved against.
func (p *Placer) SetBaseDir(dir string) {
	p.baseDir = dir
}

// Overlays returns the overlays of the last pass.
func (p *Placer) Overlays() []Overlay {
	return slices.Clone(p.current)
}

// Anchors resolves and sizes the image links among spans. Links that are
// remote, have no image extension or cannot be loaded are skipped.
func (p *Placer) Anchors(spans []document.Span, maxWidth float64) []document.ImageAnchor {
	var anchors []document.ImageAnchor
	for _, span := range spans {
		if span.Element.Kind != document.ElementImageLink {
			continue
		}

		path, ok := p.resolve(span.Element.Path)
		if !ok {
			continue
		}

		size, err := p.loader.Load(path)
		if err != nil {
			p.logger.Debug("image skipped", logging.FieldPath, path, logging.FieldError, err)
			continue
		}

		width, height := Fit(size, maxWidth, p.maxHeight)
		if width <= 0 || height <= 0 {
			p.logger.Debug("image skipped", logging.FieldPath, path,
				logging.FieldError, fmt.Errorf("%w: zero display size", ErrImageUnavailable))
			continue
		}

		anchors = append(anchors, document.ImageAnchor{
			Path:   path,
			Range:  span.Range,
			Width:  width,
			Height: height,
		})
	}
	return anchors
}

// Place rebuilds the overlay set for one pass. It reserves spacing after
// each anchor's line, finalises layout, then reads line rectangles. The
// returned commands remove every previous overlay before adding the new
// ones.
func (p *Placer) Place(spans []document.Span, layout Layout) ([]document.ImageAnchor, []Command) {
	anchors := p.Anchors(spans, layout.ContentWidth())

	commands := make([]Command, 0, len(p.current)+len(anchors))
	for _, old := range p.current {
		commands = append(commands, Command{Kind: CommandRemove, Overlay: Overlay{ID: old.ID}})
	}
	p.current = nil

	layout.ResetSpacing()

	// Images linked from the same line stack vertically.
	reserved := make(map[int]float64)
	stackOffset := make([]float64, len(anchors))
	for i, anchor := range anchors {
		line := layout.LineOf(anchor.Range.Start)
		stackOffset[i] = reserved[line]
		reserved[line] += anchor.Height + p.margin
		layout.SetSpacingAfterLine(anchor.Range.Start, reserved[line])
	}

	layout.EnsureLayout()

	for i, anchor := range anchors {
		lineRect, ok := layout.LineRect(anchor.Range.Start)
		if !ok {
			p.logger.Debug("overlay skipped", logging.FieldPath, anchor.Path, logging.FieldRange, anchor.Range.String())
			continue
		}

		overlay := Overlay{
			ID:     p.newID(),
			Path:   anchor.Path,
			Anchor: anchor.Range,
			Rect: Rect{
				X:      lineRect.X,
				Y:      lineRect.Y + lineRect.Height + stackOffset[i] + p.margin/2,
				Width:  anchor.Width,
				Height: anchor.Height,
			},
		}
		p.current = append(p.current, overlay)
		commands = append(commands, Command{Kind: CommandAdd, Overlay: overlay})
	}

	return anchors, commands
}

// Clear removes every overlay.
func (p *Placer) Clear(layout Layout) []Command {
	commands := make([]Command, 0, len(p.current))
	for _, old := range p.current {
		commands = append(commands, Command{Kind: CommandRemove, Overlay: Overlay{ID: old.ID}})
	}
	p.current = nil
	if layout != nil {
		layout.ResetSpacing()
		layout.EnsureLayout()
	}
	return commands
}

// resolve returns the local file an image link points at.
func (p *Placer) resolve(link string) (string, bool) {
	link = strings.TrimSpace(link)
	if link == "" {
		return "", false
	}

	parsed, err := url.Parse(link)
	if err != nil || parsed.Scheme != "" || parsed.Host != "" {
		return "", false
	}

	path, err := url.PathUnescape(parsed.Path)
	if err != nil {
		path = parsed.Path
	}

	if !slices.Contains(p.extensions, strings.ToLower(filepath.Ext(path))) {
		return "", false
	}

	path = filepath.FromSlash(path)
	if !filepath.IsAbs(path) {
		path = filepath.Join(p.baseDir, path)
	}
	return path, true
}

// Fit scales size down to fit maxWidth and maxHeight, keeping the aspect
// ratio. Non-positive limits are ignored. Images are never enlarged.
func Fit(size Size, maxWidth, maxHeight float64) (float64, float64) {
	if size.Width <= 0 || size.Height <= 0 {
		return 0, 0
	}

	scale := 1.0
	if maxWidth > 0 {
		scale = math.Min(scale, maxWidth/size.Width)
	}
	if maxHeight > 0 {
		scale = math.Min(scale, maxHeight/size.Height)
	}

	return size.Width * scale, size.Height * scale
}
