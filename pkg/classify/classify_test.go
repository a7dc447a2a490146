package classify_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/stickymd/pkg/classify"
	"github.com/yaklabco/stickymd/pkg/document"
	"github.com/yaklabco/stickymd/pkg/grammar"
	"github.com/yaklabco/stickymd/pkg/syntax"
)

func parse(t *testing.T, name, text string) *syntax.Tree {
	t.Helper()

	g, err := grammar.Default().Resolve(name)
	require.NoError(t, err)

	tree, err := g.Parse(context.Background(), syntax.Encode(text))
	require.NoError(t, err)
	return tree
}

// collect classifies every node of the tree in walk order.
func collect(tree *syntax.Tree, dialect document.Dialect) []document.Element {
	var out []document.Element
	_ = syntax.Walk(tree.Root, func(n *syntax.Node) error {
		if el, ok := classify.Classify(tree, n, dialect); ok {
			out = append(out, el)
		}
		return nil
	})
	return out
}

func TestMarkdownHeadingLevels(t *testing.T) {
	t.Parallel()

	for level := 1; level <= 6; level++ {
		text := strings.Repeat("#", level) + " H\n"
		elements := collect(parse(t, grammar.Markdown, text), document.DialectMarkdown)

		require.Len(t, elements, 1, text)
		assert.Equal(t, document.ElementHeading, elements[0].Kind)
		assert.Equal(t, level, elements[0].Level, text)
	}
}

func TestMarkdownSetextHeadings(t *testing.T) {
	t.Parallel()

	elements := collect(parse(t, grammar.Markdown, "Title\n=====\n\nSub\n---\n"), document.DialectMarkdown)

	require.Len(t, elements, 2)
	assert.Equal(t, 1, elements[0].Level)
	assert.Equal(t, 2, elements[1].Level)
}

func TestMarkdownHeadingLevel_ClampedAndDefaulted(t *testing.T) {
	t.Parallel()

	src := syntax.Encode("x")

	deep := syntax.NewNode("atx_heading", 0, 2)
	syntax.AppendChild(deep, syntax.NewNode("atx_h7_marker", 0, 2))
	el, ok := classify.Classify(syntax.NewTree(src, deep), deep, document.DialectMarkdown)
	require.True(t, ok)
	assert.Equal(t, 6, el.Level)

	bare := syntax.NewNode("atx_heading", 0, 2)
	el, ok = classify.Classify(syntax.NewTree(src, bare), bare, document.DialectMarkdown)
	require.True(t, ok)
	assert.Equal(t, 1, el.Level)

	content := syntax.NewNode("heading_content", 0, 2)
	_, ok = classify.Classify(syntax.NewTree(src, content), content, document.DialectMarkdown)
	assert.False(t, ok)
}

func TestOverlongHeading(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "seven hashes", text: "####### H7\n", want: "####### H7"},
		{name: "many hashes", text: "########## deep", want: "########## deep"},
		{name: "bare marker", text: "#######\n", want: "#######"},
		{name: "first line only", text: "####### H7\nmore text\n", want: "####### H7"},
		{name: "no space", text: "#######x\n"},
		{name: "hash later", text: "text ####### x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tree := parse(t, grammar.Markdown, tt.text)
			paragraph := tree.Root.FindDescendant("paragraph")
			require.NotNil(t, paragraph)

			el, line, ok := classify.OverlongHeading(tree, paragraph)
			if tt.want == "" {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, document.Heading(document.MaxHeadingLevel), el)
			assert.Equal(t, tt.want, tree.Text(line))
		})
	}

	src := syntax.Encode("####### x")
	heading := syntax.NewNode("atx_heading", 0, uint32(len(src.Bytes())))
	_, _, ok := classify.OverlongHeading(syntax.NewTree(src, heading), heading)
	assert.False(t, ok, "only paragraphs qualify")
}

func TestMarkdownFencedCode(t *testing.T) {
	t.Parallel()

	tree := parse(t, grammar.Markdown, "```python\nprint(1)\n```\n")
	elements := collect(tree, document.DialectMarkdown)

	require.Len(t, elements, 1)
	assert.Equal(t, document.ElementCodeBlock, elements[0].Kind)
	assert.Equal(t, "python", elements[0].Language)

	block := tree.Root.FindDescendant("fenced_code_block")
	content := classify.CodeContent(block, document.DialectMarkdown)
	require.NotNil(t, content)
	assert.Contains(t, tree.Text(content), "print(1)")
}

func TestMarkdownInline(t *testing.T) {
	t.Parallel()

	tree := parse(t, grammar.MarkdownInline, "**b** *i* ~~s~~ `c` ![alt](pic.png)")
	elements := collect(tree, document.DialectMarkdown)

	kinds := make([]document.ElementKind, 0, len(elements))
	for _, el := range elements {
		kinds = append(kinds, el.Kind)
	}
	assert.Contains(t, kinds, document.ElementBold)
	assert.Contains(t, kinds, document.ElementItalic)
	assert.Contains(t, kinds, document.ElementInlineCode)
	assert.Contains(t, kinds, document.ElementImageLink)

	for _, el := range elements {
		if el.Kind == document.ElementImageLink {
			assert.Equal(t, "pic.png", el.Path)
		}
	}
}

func TestImageDestination_Unescaped(t *testing.T) {
	t.Parallel()

	text := `![a](<my\_pic.png>)`
	src := syntax.Encode(text)
	image := syntax.NewNode("image", 0, uint32(src.Len()*2))
	// Destination starts after "![a](" (5 units).
	syntax.AppendChild(image, syntax.NewNode("link_destination", 5*2, uint32(src.Len()-1)*2))

	el, ok := classify.Classify(syntax.NewTree(src, image), image, document.DialectMarkdown)
	require.True(t, ok)
	assert.Equal(t, "my_pic.png", el.Path)
}

func TestOrgHeadingLevels(t *testing.T) {
	t.Parallel()

	for stars := 1; stars <= 7; stars++ {
		text := strings.Repeat("*", stars) + " H\n"
		elements := collect(parse(t, grammar.Org, text), document.DialectOrg)

		require.Len(t, elements, 1, text)
		assert.Equal(t, min(stars, 6), elements[0].Level, fmt.Sprintf("%d stars", stars))
	}
}

func TestOrgBlocks(t *testing.T) {
	t.Parallel()

	tree := parse(t, grammar.Org, "#+begin_src rust\nfn main() {}\n#+end_src\n\n#+BEGIN_EXAMPLE\nx\n#+END_EXAMPLE\n")
	elements := collect(tree, document.DialectOrg)

	require.Len(t, elements, 2)
	assert.Equal(t, document.CodeBlockElement("rust"), elements[0])
	assert.Equal(t, document.CodeBlockElement(""), elements[1])

	block := tree.Root.FindDescendant(grammar.OrgBlock)
	content := classify.CodeContent(block, document.DialectOrg)
	require.NotNil(t, content)
	assert.Equal(t, "fn main() {}\n", tree.Text(content))
}

func TestUnknownTypesDropped(t *testing.T) {
	t.Parallel()

	src := syntax.Encode("x")
	for _, typ := range []string{"paragraph", "list_item", "some_future_node"} {
		n := syntax.NewNode(typ, 0, 2)
		for _, d := range []document.Dialect{document.DialectMarkdown, document.DialectOrg} {
			_, ok := classify.Classify(syntax.NewTree(src, n), n, d)
			assert.False(t, ok, "%s/%s", typ, d)
		}
	}

	_, ok := classify.Classify(nil, nil, document.DialectMarkdown)
	assert.False(t, ok)
}
