// Package syntax provides the raw parse-tree representation shared by all
// grammars: an immutable snapshot of the grammar's node tree together with
// the UTF-16 source it was parsed from.
//
// Node offsets are in the grammar's own byte convention (two bytes per
// UTF-16 code unit); converting them into host ranges is the job of the
// offset package.
package syntax

// Tree is a parse result: the source it was built from and its root node.
// A Tree is rebuilt wholesale on every parse and never edited.
type Tree struct {
	// Source is the text the tree was parsed from.
	Source Source

	// Root is the document node.
	Root *Node
}

// NewTree creates a tree and links every node's parent pointer.
func NewTree(source Source, root *Node) *Tree {
	if root != nil {
		linkParents(root)
	}
	return &Tree{Source: source, Root: root}
}

// Text returns the source text covered by a node.
// Returns "" if the node's range is outside the source.
func (t *Tree) Text(n *Node) string {
	if t == nil || n == nil {
		return ""
	}
	return t.Source.TextBetweenBytes(n.Start, n.End)
}

func linkParents(n *Node) {
	for _, child := range n.Children {
		child.Parent = n
		linkParents(child)
	}
}
