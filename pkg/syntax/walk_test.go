package syntax_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/stickymd/pkg/syntax"
)

func buildTestTree() *syntax.Node {
	// document
	//   section
	//     headline
	//       stars
	//     paragraph
	//   section
	doc := syntax.NewNode("document", 0, 40)
	section := syntax.NewNode("section", 0, 30)
	headline := syntax.NewNode("headline", 0, 10)
	syntax.AppendChild(headline, syntax.NewNode("stars", 0, 2))
	syntax.AppendChild(section, headline)
	syntax.AppendChild(section, syntax.NewNode("paragraph", 12, 30))
	syntax.AppendChild(doc, section)
	syntax.AppendChild(doc, syntax.NewNode("section", 30, 40))
	return doc
}

func TestWalk_PreOrder(t *testing.T) {
	t.Parallel()

	var visited []string
	err := syntax.Walk(buildTestTree(), func(n *syntax.Node) error {
		visited = append(visited, n.Type)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"document", "section", "headline", "stars", "paragraph", "section"}, visited)
}

func TestWalk_NilRoot(t *testing.T) {
	t.Parallel()

	err := syntax.Walk(nil, func(_ *syntax.Node) error {
		t.Fatal("callback should not be invoked")
		return nil
	})
	assert.NoError(t, err)
}

func TestWalk_SkipChildren(t *testing.T) {
	t.Parallel()

	var visited []string
	err := syntax.Walk(buildTestTree(), func(n *syntax.Node) error {
		visited = append(visited, n.Type)
		if n.Type == "headline" {
			return syntax.SkipChildren
		}
		return nil
	})

	require.NoError(t, err)
	assert.NotContains(t, visited, "stars")
	assert.Contains(t, visited, "paragraph")
}

func TestWalk_StopsOnError(t *testing.T) {
	t.Parallel()

	stop := errors.New("stop")
	count := 0
	err := syntax.Walk(buildTestTree(), func(_ *syntax.Node) error {
		count++
		if count == 2 {
			return stop
		}
		return nil
	})

	require.ErrorIs(t, err, stop)
	assert.Equal(t, 2, count)
}

func TestNewTree_LinksParents(t *testing.T) {
	t.Parallel()

	root := buildTestTree()
	for _, child := range root.Children {
		child.Parent = nil
	}

	tree := syntax.NewTree(syntax.Encode("irrelevant"), root)
	stars := tree.Root.FindDescendant("stars")
	require.NotNil(t, stars)
	require.NotNil(t, stars.Parent)
	assert.Equal(t, "headline", stars.Parent.Type)
	assert.Equal(t, "section", stars.Parent.Parent.Type)
}

func TestNode_ChildLookup(t *testing.T) {
	t.Parallel()

	root := buildTestTree()
	assert.Equal(t, 2, root.ChildCount())
	assert.Len(t, root.ChildrenByType("section"), 2)
	assert.Nil(t, root.ChildByType("paragraph"))
	assert.Nil(t, root.Child(5))
	assert.Equal(t, 6, syntax.Count(root))
}

func TestShift(t *testing.T) {
	t.Parallel()

	root := buildTestTree()
	syntax.Shift(root, 100)

	assert.Equal(t, uint32(100), root.Start)
	assert.Equal(t, uint32(140), root.End)

	paragraph := root.FindDescendant("paragraph")
	require.NotNil(t, paragraph)
	assert.Equal(t, uint32(112), paragraph.Start)
	assert.Equal(t, uint32(130), paragraph.End)

	stars := root.FindDescendant("stars")
	require.NotNil(t, stars)
	assert.Equal(t, uint32(102), stars.End)

	syntax.Shift(nil, 1)
}
