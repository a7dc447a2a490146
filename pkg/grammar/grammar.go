// Package grammar resolves markup dialects and code-fence language tags to
// compiled grammars and caches them for the lifetime of the process.
//
// Every grammar parses UTF-16 text and reports byte offsets in the UTF-16LE
// encoding, so a single offset rule applies to all of them.
package grammar

import (
	"context"
	"errors"

	"github.com/yaklabco/stickymd/pkg/syntax"
)

// Canonical identifiers of the document grammars.
const (
	Markdown       = "markdown"
	MarkdownInline = "markdown-inline"
	Org            = "org"
)

var (
	// ErrNotFound is returned when no grammar matches an identifier.
	ErrNotFound = errors.New("grammar not found")

	// ErrNoTree is returned when a grammar fails to produce a tree.
	ErrNoTree = errors.New("grammar produced no tree")

	// ErrNoQuery is returned by Captures when a grammar has no highlight query.
	ErrNoQuery = errors.New("grammar has no highlight query")
)

// Grammar parses text into a raw syntax tree.
type Grammar interface {
	// Name returns the canonical identifier.
	Name() string

	// Parse builds a fresh tree for src.
	Parse(ctx context.Context, src syntax.Source) (*syntax.Tree, error)
}

// CaptureQuerier is implemented by grammars that carry a highlight query.
type CaptureQuerier interface {
	Grammar

	// Captures parses src in isolation and runs the highlight query over it.
	Captures(ctx context.Context, src syntax.Source) ([]Capture, error)
}

// Capture is one named sub-match of a highlight query.
type Capture struct {
	// Name is the capture name without the leading "@" (e.g. "keyword.function").
	Name string

	// Start and End are byte offsets in the grammar encoding.
	Start uint32
	End   uint32
}

// StartByte returns the start byte offset.
func (c Capture) StartByte() uint32 { return c.Start }

// EndByte returns the end byte offset.
func (c Capture) EndByte() uint32 { return c.End }
