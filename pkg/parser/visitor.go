package parser

import (
	"slices"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/stickymd/internal/logging"
	"github.com/yaklabco/stickymd/pkg/classify"
	"github.com/yaklabco/stickymd/pkg/document"
	"github.com/yaklabco/stickymd/pkg/offset"
	"github.com/yaklabco/stickymd/pkg/syntax"
)

// visitor collects spans from one or more trees into a single sink.
type visitor struct {
	dialect document.Dialect
	mapper  offset.Mapper
	logger  *log.Logger

	spans   []document.Span
	blocks  []document.CodeBlock
	dropped int
}

func newVisitor(dialect document.Dialect, src syntax.Source, logger *log.Logger) *visitor {
	return &visitor{
		dialect: dialect,
		mapper:  offset.ForSource(src),
		logger:  logger,
	}
}

// walk visits tree in pre-order. A nil tree is a no-op.
func (v *visitor) walk(tree *syntax.Tree) {
	if tree == nil {
		return
	}

	_ = syntax.Walk(tree.Root, func(node *syntax.Node) error {
		elem, target, ok := v.classify(tree, node)
		if !ok {
			return nil
		}

		r, err := v.mapper.Check(target)
		if err != nil {
			v.drop(target.Type, err)
			return nil
		}

		v.spans = append(v.spans, document.Span{Element: elem, Range: r})
		if elem.Kind == document.ElementCodeBlock {
			v.codeBlock(elem, node)
		}
		return nil
	})
}

// classify returns the element of node and the node whose range it covers.
func (v *visitor) classify(tree *syntax.Tree, node *syntax.Node) (document.Element, *syntax.Node, bool) {
	if elem, ok := classify.Classify(tree, node, v.dialect); ok {
		return elem, node, true
	}
	if v.dialect == document.DialectMarkdown {
		return classify.OverlongHeading(tree, node)
	}
	return document.Element{}, nil, false
}

func (v *visitor) codeBlock(elem document.Element, node *syntax.Node) {
	content := classify.CodeContent(node, v.dialect)
	if content == nil {
		return
	}

	r, err := v.mapper.Check(content)
	if err != nil {
		v.drop(content.Type, err)
		return
	}
	if r.IsEmpty() {
		return
	}

	v.blocks = append(v.blocks, document.CodeBlock{Language: elem.Language, Content: r})
}

// add appends spans already in host coordinates, dropping invalid ones.
func (v *visitor) add(spans ...document.Span) {
	for _, span := range spans {
		if !span.Range.Valid(v.mapper.Length) {
			v.drop(span.Element.Kind.String(), offset.ErrOutOfRange)
			continue
		}
		v.spans = append(v.spans, span)
	}
}

// addOutsideCode is add for spans scanned from raw text. Spans overlapping
// a code block already collected are skipped.
func (v *visitor) addOutsideCode(spans ...document.Span) {
	code := document.FilterKind(v.spans, document.ElementCodeBlock)
	for _, span := range spans {
		inside := slices.ContainsFunc(code, func(block document.Span) bool {
			return block.Range.Overlaps(span.Range)
		})
		if !inside {
			v.add(span)
		}
	}
}

func (v *visitor) drop(kind string, err error) {
	v.dropped++
	v.logger.Debug("span dropped", logging.FieldKind, kind, logging.FieldError, err)
}
