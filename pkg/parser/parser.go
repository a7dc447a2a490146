// Package parser owns the syntax trees of one document and turns them into
// highlight spans. Markdown is parsed with the block grammar, then each
// inline region of the block tree is parsed with the inline grammar; Org
// is parsed with its block grammar and scanned for inline markup.
package parser

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/stickymd/internal/logging"
	"github.com/yaklabco/stickymd/pkg/document"
	"github.com/yaklabco/stickymd/pkg/grammar"
	"github.com/yaklabco/stickymd/pkg/offset"
	"github.com/yaklabco/stickymd/pkg/orginline"
	"github.com/yaklabco/stickymd/pkg/syntax"
)

// markdownInlineNode is the block grammar node that holds inline text.
const markdownInlineNode = "inline"

// State is the parse state of a document.
type State uint8

const (
	// StateEmpty means the document has no text and no trees.
	StateEmpty State = iota

	// StateParsed means the trees match the last parsed text.
	StateParsed

	// StateStale means the text changed since the trees were built.
	StateStale
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateParsed:
		return "parsed"
	case StateStale:
		return "stale"
	default:
		return fmt.Sprintf("State(%d)", s)
	}
}

// Result is the output of one parse.
type Result struct {
	Dialect document.Dialect

	// Source is the parsed text in UTF-16 code units.
	Source syntax.Source

	// Spans are ordered block pass first, then the inline pass.
	Spans []document.Span

	// CodeBlocks are the inputs of the nested per-language pass.
	CodeBlocks []document.CodeBlock
}

// Images returns the image link spans.
func (r *Result) Images() []document.Span {
	if r == nil {
		return nil
	}
	return document.FilterKind(r.Spans, document.ElementImageLink)
}

// IsEmpty reports whether the result carries no text.
func (r *Result) IsEmpty() bool {
	return r == nil || r.Source.Len() == 0
}

// DualParser parses one document with the grammars of its dialect.
type DualParser struct {
	dialect  document.Dialect
	registry *grammar.Registry
	scanner  *orginline.Scanner
	logger   *log.Logger

	state  State
	block  *syntax.Tree
	inline *syntax.Tree
}

// Option configures a DualParser.
type Option func(*DualParser)

// WithRegistry sets the grammar registry. The default is grammar.Default().
func WithRegistry(registry *grammar.Registry) Option {
	return func(p *DualParser) {
		p.registry = registry
	}
}

// WithScanner sets the Org inline scanner.
func WithScanner(scanner *orginline.Scanner) Option {
	return func(p *DualParser) {
		p.scanner = scanner
	}
}

// WithLogger sets the logger for dropped spans and skipped passes.
func WithLogger(logger *log.Logger) Option {
	return func(p *DualParser) {
		p.logger = logger
	}
}

// New creates a parser for dialect.
func New(dialect document.Dialect, opts ...Option) *DualParser {
	p := &DualParser{dialect: dialect}
	for _, opt := range opts {
		opt(p)
	}

	p.logger = logging.Or(p.logger)
	if p.registry == nil {
		p.registry = grammar.Default()
	}
	if p.scanner == nil {
		p.scanner = orginline.New(orginline.WithLogger(p.logger))
	}
	return p
}

// Dialect returns the parser's dialect.
func (p *DualParser) Dialect() document.Dialect {
	return p.dialect
}

// SetDialect switches the dialect and discards the trees.
func (p *DualParser) SetDialect(dialect document.Dialect) {
	if dialect == p.dialect {
		return
	}
	p.dialect = dialect
	p.block, p.inline = nil, nil
	if p.state != StateEmpty {
		p.state = StateStale
	}
}

// State returns the parse state.
func (p *DualParser) State() State {
	return p.state
}

// Invalidate marks the trees as out of date.
func (p *DualParser) Invalidate() {
	if p.state == StateParsed {
		p.state = StateStale
	}
}

// Trees returns the current block and inline trees. Either may be nil.
func (p *DualParser) Trees() (*syntax.Tree, *syntax.Tree) {
	return p.block, p.inline
}

// Parse re-parses text from scratch.
//
// The method:
//  1. Marks the trees stale.
//  2. Returns an empty result for empty text and moves to StateEmpty.
//  3. Parses the block tree and, for Markdown, the inline tree.
//  4. Replaces both trees only when every parse succeeded.
//  5. Walks the block tree, then the inline tree or the Org scanner. Org
//     scanner spans inside a src block are skipped.
//
// On failure the previous trees are kept and the error wraps
// grammar.ErrNotFound or grammar.ErrNoTree.
func (p *DualParser) Parse(ctx context.Context, text string) (*Result, error) {
	p.Invalidate()

	if text == "" {
		p.state = StateEmpty
		p.block, p.inline = nil, nil
		return &Result{Dialect: p.dialect}, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	src := syntax.Encode(text)

	block, err := p.parseBlock(ctx, src)
	if err != nil {
		return nil, err
	}

	var inline *syntax.Tree
	if p.dialect == document.DialectMarkdown {
		inline, err = p.parseInline(ctx, src, block)
		if err != nil {
			return nil, err
		}
	}

	p.block, p.inline = block, inline
	p.state = StateParsed

	result := &Result{Dialect: p.dialect, Source: src}
	v := newVisitor(p.dialect, src, p.logger)
	v.walk(block)

	switch p.dialect {
	case document.DialectMarkdown:
		v.walk(inline)
	case document.DialectOrg:
		v.addOutsideCode(p.scanner.Scan(text)...)
	}

	result.Spans = v.spans
	result.CodeBlocks = v.blocks

	p.logger.Debug("parsed",
		logging.FieldDialect, p.dialect,
		logging.FieldLength, src.Len(),
		logging.FieldSpans, len(result.Spans),
		logging.FieldDropped, v.dropped)

	return result, nil
}

func (p *DualParser) parseBlock(ctx context.Context, src syntax.Source) (*syntax.Tree, error) {
	name, err := blockGrammar(p.dialect)
	if err != nil {
		return nil, err
	}

	g, err := p.registry.Resolve(name)
	if err != nil {
		p.logger.Debug("block pass skipped", logging.FieldGrammar, name, logging.FieldError, err)
		return nil, fmt.Errorf("block grammar: %w", err)
	}

	tree, err := g.Parse(ctx, src)
	if err != nil {
		p.logger.Debug("parse failed", logging.FieldGrammar, name, logging.FieldError, err)
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return tree, nil
}

// parseInline parses the inline regions of the block tree and joins them
// under one root. Each region is parsed on its own and shifted back into
// document coordinates, so code blocks and other literal text never reach
// the inline grammar. A nil tree means no inline grammar is registered.
func (p *DualParser) parseInline(ctx context.Context, src syntax.Source, block *syntax.Tree) (*syntax.Tree, error) {
	g, err := p.registry.Resolve(grammar.MarkdownInline)
	if errors.Is(err, grammar.ErrNotFound) {
		p.logger.Debug("inline pass skipped", logging.FieldGrammar, grammar.MarkdownInline, logging.FieldError, err)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("inline grammar: %w", err)
	}

	mapper := offset.ForSource(src)
	root := syntax.NewNode(block.Root.Type, block.Root.Start, block.Root.End)

	for _, region := range inlineRegions(block.Root) {
		r, err := mapper.Check(region)
		if err != nil || r.IsEmpty() {
			continue
		}

		tree, err := g.Parse(ctx, src[r.Start:r.End])
		if err != nil {
			p.logger.Debug("parse failed", logging.FieldGrammar, grammar.MarkdownInline, logging.FieldError, err)
			return nil, fmt.Errorf("parse %s: %w", grammar.MarkdownInline, err)
		}
		if tree.Root == nil {
			continue
		}

		syntax.Shift(tree.Root, region.Start)
		syntax.AppendChild(root, tree.Root)
	}

	return syntax.NewTree(src, root), nil
}

// inlineRegions returns the block tree's inline nodes in document order.
func inlineRegions(root *syntax.Node) []*syntax.Node {
	var regions []*syntax.Node
	_ = syntax.Walk(root, func(node *syntax.Node) error {
		if node.Type == markdownInlineNode {
			regions = append(regions, node)
			return syntax.SkipChildren
		}
		return nil
	})
	return regions
}

func blockGrammar(dialect document.Dialect) (string, error) {
	switch dialect {
	case document.DialectMarkdown:
		return grammar.Markdown, nil
	case document.DialectOrg:
		return grammar.Org, nil
	default:
		return "", fmt.Errorf("dialect %q: %w", dialect, grammar.ErrNotFound)
	}
}
