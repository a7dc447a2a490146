// Package orginline finds Org emphasis, verbatim markup and image links in
// raw text. Org has no inline grammar, so markers are matched with one
// regular expression per marker kind and filtered by Org's PRE/POST
// boundary rules.
package orginline

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/stickymd/internal/logging"
	"github.com/yaklabco/stickymd/pkg/config"
	"github.com/yaklabco/stickymd/pkg/document"
	"github.com/yaklabco/stickymd/pkg/offset"
)

// ErrPattern is reported when a marker pattern fails to compile.
var ErrPattern = errors.New("marker pattern failed to compile")

// Boundary characters allowed around emphasis, besides whitespace and the
// buffer edges.
const (
	preChars  = `-('"{`
	postChars = `-.,;:!?'")}]`
)

// Marker pairs an emphasis delimiter with the element it produces.
type Marker struct {
	Char byte
	Kind document.ElementKind
}

// Markers lists the Org emphasis markers in scan order.
//
//nolint:gochecknoglobals // Read-only lookup table.
var Markers = []Marker{
	{Char: '*', Kind: document.ElementBold},
	{Char: '/', Kind: document.ElementItalic},
	{Char: '_', Kind: document.ElementUnderline},
	{Char: '+', Kind: document.ElementStrikethrough},
	{Char: '~', Kind: document.ElementInlineCode},
	{Char: '=', Kind: document.ElementInlineCode},
}

// LinkPattern matches an Org link, [[target]] or [[target][description]].
// The first group is the target.
const LinkPattern = `\[\[([^\[\]\n]+)\](?:\[[^\[\]\n]*\])?\]`

// fileScheme prefixes explicit file link targets.
const fileScheme = "file:"

//nolint:gochecknoglobals // Compiled pattern is read-only.
var schemeRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]+:`)

// CompileFunc compiles a marker pattern.
type CompileFunc func(expr string) (*regexp.Regexp, error)

type pattern struct {
	marker Marker
	re     *regexp.Regexp
}

// Scanner holds the compiled marker patterns. It is safe for concurrent use.
type Scanner struct {
	patterns   []pattern
	link       *regexp.Regexp
	extensions map[string]bool
}

// Option configures a Scanner.
type Option func(*options)

type options struct {
	compile    CompileFunc
	logger     *log.Logger
	extensions []string
}

// WithCompiler replaces regexp.Compile.
func WithCompiler(compile CompileFunc) Option {
	return func(o *options) {
		o.compile = compile
	}
}

// WithImageExtensions sets the extensions (with dot) that make a file link
// an image link. The default is config.DefaultImageExtensions.
func WithImageExtensions(exts []string) Option {
	return func(o *options) {
		o.extensions = exts
	}
}

// WithLogger sets the logger for pattern failures.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Pattern returns the expression matching one marker-delimited run: the
// content is non-empty, contains neither the marker nor a newline, and
// starts and ends with a non-space character.
func Pattern(marker byte) string {
	m := regexp.QuoteMeta(string(marker))
	return fmt.Sprintf(`%[1]s([^\s%[1]s](?:[^%[1]s\n]*[^\s%[1]s])?)%[1]s`, m)
}

// New compiles the marker patterns. A marker whose pattern fails to
// compile never matches; the failure is logged.
func New(opts ...Option) *Scanner {
	cfg := options{compile: regexp.Compile, extensions: config.DefaultImageExtensions()}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.logger = logging.Or(cfg.logger)

	scanner := &Scanner{extensions: make(map[string]bool, len(cfg.extensions))}
	for _, ext := range cfg.extensions {
		scanner.extensions[strings.ToLower(ext)] = true
	}

	link, err := cfg.compile(LinkPattern)
	if err != nil || link == nil {
		cfg.logger.Debug("link pattern skipped",
			logging.FieldPattern, LinkPattern,
			logging.FieldError, fmt.Errorf("%w: %w", ErrPattern, err))
	} else {
		scanner.link = link
	}

	for _, marker := range Markers {
		re, err := cfg.compile(Pattern(marker.Char))
		if err != nil || re == nil {
			cfg.logger.Debug("marker skipped",
				logging.FieldMarker, string(marker.Char),
				logging.FieldError, fmt.Errorf("%w: %w", ErrPattern, err))
			continue
		}
		scanner.patterns = append(scanner.patterns, pattern{marker: marker, re: re})
	}
	return scanner
}

// Scan returns the emphasis and image link spans of text in host (UTF-16)
// coordinates. Markers are scanned independently; spans of different kinds
// may overlap and are returned per marker in discovery order, followed by
// the image links.
func (s *Scanner) Scan(text string) []document.Span {
	if text == "" {
		return nil
	}

	units := offset.NewUnitIndex(text)
	var spans []document.Span

	for _, p := range s.patterns {
		pos := 0
		for pos < len(text) {
			loc := p.re.FindStringIndex(text[pos:])
			if loc == nil {
				break
			}
			start, end := pos+loc[0], pos+loc[1]

			if !preBoundary(text, start) || !postBoundary(text, end) {
				// Markers are ASCII, so start+1 is a rune boundary.
				pos = start + 1
				continue
			}

			spans = append(spans, document.Span{
				Element: document.Simple(p.marker.Kind),
				Range:   document.Range{Start: units.Unit(start), End: units.Unit(end)},
			})
			pos = end
		}
	}

	return append(spans, s.imageLinks(text, units)...)
}

// imageLinks returns a span over each link whose target is a local file
// with an image extension.
func (s *Scanner) imageLinks(text string, units *offset.UnitIndex) []document.Span {
	if s.link == nil {
		return nil
	}

	var spans []document.Span
	for _, m := range s.link.FindAllStringSubmatchIndex(text, -1) {
		target, ok := s.imageTarget(text[m[2]:m[3]])
		if !ok {
			continue
		}
		spans = append(spans, document.Span{
			Element: document.ImageLink(target),
			Range:   document.Range{Start: units.Unit(m[0]), End: units.Unit(m[1])},
		})
	}
	return spans
}

// imageTarget strips the file: scheme and rejects other schemes and
// non-image extensions.
func (s *Scanner) imageTarget(target string) (string, bool) {
	target = strings.TrimSpace(target)
	if rest, ok := strings.CutPrefix(target, fileScheme); ok {
		target = rest
	} else if schemeRe.MatchString(target) {
		return "", false
	}

	if target == "" || !s.extensions[strings.ToLower(path.Ext(target))] {
		return "", false
	}
	return target, true
}

func preBoundary(text string, start int) bool {
	if start == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:start])
	return unicode.IsSpace(r) || strings.ContainsRune(preChars, r)
}

func postBoundary(text string, end int) bool {
	if end >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[end:])
	return unicode.IsSpace(r) || strings.ContainsRune(postChars, r)
}
