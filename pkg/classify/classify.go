// Package classify maps raw grammar node types onto the closed set of
// dialect-independent document elements. Unknown node types are dropped.
package classify

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/yuin/goldmark/util"

	"github.com/yaklabco/stickymd/pkg/document"
	"github.com/yaklabco/stickymd/pkg/grammar"
	"github.com/yaklabco/stickymd/pkg/syntax"
)

// Markdown node types.
const (
	mdFencedCode      = "fenced_code_block"
	mdIndentedCode    = "indented_code_block"
	mdInfoString      = "info_string"
	mdLanguage        = "language"
	mdFenceContent    = "code_fence_content"
	mdStrong          = "strong_emphasis"
	mdEmphasis        = "emphasis"
	mdStrikethrough   = "strikethrough"
	mdCodeSpan        = "code_span"
	mdImage           = "image"
	mdLinkDestination = "link_destination"
	mdSetextH1        = "setext_h1_underline"
	mdSetextH2        = "setext_h2_underline"
	mdParagraph       = "paragraph"
)

//nolint:gochecknoglobals // Compiled pattern is read-only.
var atxMarkerRe = regexp.MustCompile(`^atx_h([0-9]+)_marker$`)

// overlongHeadingRe matches a line opening with seven or more hashes.
//
//nolint:gochecknoglobals // Compiled pattern is read-only.
var overlongHeadingRe = regexp.MustCompile(`^ {0,3}#{7,}(?:[ \t]|$)`)

//nolint:gochecknoglobals // Read-only lookup table.
var markdownInline = map[string]document.ElementKind{
	mdStrong:        document.ElementBold,
	mdEmphasis:      document.ElementItalic,
	mdStrikethrough: document.ElementStrikethrough,
	mdCodeSpan:      document.ElementInlineCode,
}

// Classify returns the element a node represents, or false when the node
// type has no visual meaning for the dialect.
func Classify(tree *syntax.Tree, node *syntax.Node, dialect document.Dialect) (document.Element, bool) {
	if node == nil {
		return document.Element{}, false
	}

	switch dialect {
	case document.DialectMarkdown:
		return classifyMarkdown(tree, node)
	case document.DialectOrg:
		return classifyOrg(tree, node)
	default:
		return document.Element{}, false
	}
}

func classifyMarkdown(tree *syntax.Tree, node *syntax.Node) (document.Element, bool) {
	typ := node.Type

	if strings.Contains(typ, "heading") && !strings.Contains(typ, "content") {
		return document.Heading(markdownHeadingLevel(node)), true
	}

	switch typ {
	case mdFencedCode:
		return document.CodeBlockElement(fenceLanguage(tree, node)), true
	case mdIndentedCode:
		return document.CodeBlockElement(""), true
	case mdImage:
		return document.ImageLink(imageDestination(tree, node)), true
	}

	if kind, ok := markdownInline[typ]; ok {
		return document.Simple(kind), true
	}

	return document.Element{}, false
}

// markdownHeadingLevel reads the level from the marker child. Headings
// without a recognised marker are level 1.
func markdownHeadingLevel(node *syntax.Node) int {
	for _, child := range node.Children {
		if m := atxMarkerRe.FindStringSubmatch(child.Type); m != nil {
			level, err := strconv.Atoi(m[1])
			if err == nil {
				return document.ClampLevel(level)
			}
		}
		switch child.Type {
		case mdSetextH1:
			return 1
		case mdSetextH2:
			return 2 //nolint:mnd // Setext level two.
		}
	}
	return 1
}

// OverlongHeading reports whether a Markdown paragraph opens with a line of
// seven or more hashes. The grammar leaves such a line in the paragraph;
// it is styled as the deepest heading. The returned node covers the first
// line only.
func OverlongHeading(tree *syntax.Tree, node *syntax.Node) (document.Element, *syntax.Node, bool) {
	if tree == nil || node == nil || node.Type != mdParagraph {
		return document.Element{}, nil, false
	}

	line, _, _ := strings.Cut(tree.Text(node), "\n")
	line = strings.TrimSuffix(line, "\r")
	if !overlongHeadingRe.MatchString(line) {
		return document.Element{}, nil, false
	}

	end := node.Start + uint32(syntax.Encode(line).Len()*syntax.BytesPerUnit) //nolint:gosec // Bounded by the node.
	return document.Heading(document.MaxHeadingLevel), syntax.NewNode(node.Type, node.Start, end), true
}

func fenceLanguage(tree *syntax.Tree, node *syntax.Node) string {
	info := node.ChildByType(mdInfoString)
	if info == nil {
		return ""
	}
	if lang := info.ChildByType(mdLanguage); lang != nil {
		return strings.TrimSpace(tree.Text(lang))
	}
	return firstWord(tree.Text(info))
}

func imageDestination(tree *syntax.Tree, node *syntax.Node) string {
	dest := node.ChildByType(mdLinkDestination)
	if dest == nil {
		return ""
	}
	raw := strings.TrimSpace(tree.Text(dest))
	raw = strings.TrimSuffix(strings.TrimPrefix(raw, "<"), ">")
	return string(util.UnescapePunctuations([]byte(raw)))
}

func classifyOrg(tree *syntax.Tree, node *syntax.Node) (document.Element, bool) {
	switch node.Type {
	case grammar.OrgHeadline:
		return document.Heading(orgHeadingLevel(tree, node)), true
	case grammar.OrgBlock:
		return document.CodeBlockElement(orgBlockLanguage(tree, node)), true
	default:
		return document.Element{}, false
	}
}

func orgHeadingLevel(tree *syntax.Tree, node *syntax.Node) int {
	stars := node.ChildByType(grammar.OrgStars)
	if stars == nil {
		return 1
	}
	return document.ClampLevel(strings.Count(tree.Text(stars), "*"))
}

// orgBlockLanguage returns the language of a src block: the first
// parameter after the block name.
func orgBlockLanguage(tree *syntax.Tree, node *syntax.Node) string {
	exprs := node.ChildrenByType(grammar.OrgExpr)
	if len(exprs) < 2 || !strings.EqualFold(tree.Text(exprs[0]), "src") {
		return ""
	}
	return strings.TrimSpace(tree.Text(exprs[1]))
}

// CodeContent returns the node holding a code block's body text, or nil
// for an empty block.
func CodeContent(node *syntax.Node, dialect document.Dialect) *syntax.Node {
	if node == nil {
		return nil
	}
	switch {
	case dialect == document.DialectMarkdown && node.Type == mdFencedCode:
		return node.ChildByType(mdFenceContent)
	case dialect == document.DialectMarkdown && node.Type == mdIndentedCode:
		return node
	case dialect == document.DialectOrg && node.Type == grammar.OrgBlock:
		return node.ChildByType(grammar.OrgContents)
	default:
		return nil
	}
}

func firstWord(s string) string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '{' || r == ','
	})
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
