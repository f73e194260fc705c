package parser

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// ParseError reports syntactically invalid source. The position points at
// the first error node tree-sitter produced (0-indexed row and column).
type ParseError struct {
	Row    uint
	Column uint
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("syntax error at line %d, column %d", e.Row+1, e.Column+1)
}

// nodeText extracts the text content of a tree-sitter node.
func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// walkTree recursively walks a tree-sitter tree and calls the visitor for
// each node. Returning false from the visitor stops descent into that node.
func walkTree(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}

	if !visitor(node) {
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		walkTree(node.Child(uint(i)), visitor)
	}
}

// firstErrorNode finds the first ERROR or MISSING node in the tree.
func firstErrorNode(root *sitter.Node) *sitter.Node {
	var found *sitter.Node
	walkTree(root, func(n *sitter.Node) bool {
		if found != nil {
			return false
		}
		if n.IsError() || n.IsMissing() {
			found = n
			return false
		}
		// Only error-bearing subtrees need visiting.
		return n.HasError()
	})
	return found
}
