package syntax

import "errors"

// SkipChildren may be returned by a WalkFunc to skip the node's subtree
// without stopping the walk.
//
//nolint:gochecknoglobals // Sentinel error.
var SkipChildren = errors.New("skip children")

// WalkFunc is the function signature for Walk callbacks.
// Return a non-nil error to stop the walk.
type WalkFunc func(n *Node) error

// Walk performs a pre-order traversal: each node is visited before its
// descendants, and descendants before later siblings.
func Walk(root *Node, walkFunc WalkFunc) error {
	if root == nil {
		return nil
	}

	if err := walkFunc(root); err != nil {
		if errors.Is(err, SkipChildren) {
			return nil
		}
		return err
	}

	for _, child := range root.Children {
		if err := Walk(child, walkFunc); err != nil {
			return err
		}
	}

	return nil
}

// Count returns the number of nodes in the subtree rooted at root.
func Count(root *Node) int {
	count := 0
	_ = Walk(root, func(_ *Node) error {
		count++
		return nil
	})
	return count
}
