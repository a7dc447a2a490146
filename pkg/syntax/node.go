package syntax

// Node is one node of a raw parse tree. Type is the grammar's node type
// name; Start and End are byte offsets in the grammar's encoding.
type Node struct {
	// Type is the grammar node type name (e.g. "atx_heading").
	Type string

	// Start is the first byte of the node (inclusive).
	Start uint32

	// End is the byte just past the node (exclusive).
	End uint32

	// Children are the ordered child nodes, named and anonymous.
	Children []*Node

	// Parent is a lookup-only back link; nil for the root.
	Parent *Node
}

// NewNode creates a detached node covering [start, end).
func NewNode(typ string, start, end uint32) *Node {
	return &Node{Type: typ, Start: start, End: end}
}

// StartByte returns the start byte offset.
func (n *Node) StartByte() uint32 { return n.Start }

// EndByte returns the end byte offset.
func (n *Node) EndByte() uint32 { return n.End }

// AppendChild appends child to parent and sets the back link.
func AppendChild(parent, child *Node) {
	if parent == nil || child == nil {
		return
	}
	child.Parent = parent
	parent.Children = append(parent.Children, child)
}

// Shift moves n and its descendants delta bytes later. It places a tree
// parsed from a slice of a source back into the source's coordinates.
func Shift(n *Node, delta uint32) {
	if n == nil {
		return
	}
	n.Start += delta
	n.End += delta
	for _, child := range n.Children {
		Shift(child, delta)
	}
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int {
	return len(n.Children)
}

// Child returns the i-th child or nil.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// ChildByType returns the first direct child with the given type, or nil.
func (n *Node) ChildByType(typ string) *Node {
	for _, child := range n.Children {
		if child.Type == typ {
			return child
		}
	}
	return nil
}

// ChildrenByType returns all direct children with the given type.
func (n *Node) ChildrenByType(typ string) []*Node {
	var out []*Node
	for _, child := range n.Children {
		if child.Type == typ {
			out = append(out, child)
		}
	}
	return out
}

// FindDescendant returns the first node of the given type below n in
// pre-order, or nil.
func (n *Node) FindDescendant(typ string) *Node {
	for _, child := range n.Children {
		if child.Type == typ {
			return child
		}
		if found := child.FindDescendant(typ); found != nil {
			return found
		}
	}
	return nil
}
