// Copyright © 2024 The ELPS authors

// Package astutil provides shared walking utilities for token trees.
//
// These helpers are used by the analysis, lint and lsp packages.
package astutil

import "github.com/luthersystems/recscan/ast"

// Walk calls fn for every node in the tree, depth-first.
// parent is nil for top-level expressions.
func Walk(exprs []*ast.Node, fn func(node *ast.Node, parent *ast.Node, depth int)) {
	for _, expr := range exprs {
		walkNode(expr, nil, 0, fn)
	}
}

func walkNode(node *ast.Node, parent *ast.Node, depth int, fn func(*ast.Node, *ast.Node, int)) {
	if node == nil {
		return
	}
	fn(node, parent, depth)
	for _, child := range node.Cells {
		walkNode(child, node, depth+1, fn)
	}
}

// WalkGroups calls fn for every group in the tree.
func WalkGroups(exprs []*ast.Node, fn func(group *ast.Node, depth int)) {
	Walk(exprs, func(node *ast.Node, _ *ast.Node, depth int) {
		if node.IsGroup() {
			fn(node, depth)
		}
	})
}

// WalkAtoms calls fn for every atom in the tree.
func WalkAtoms(exprs []*ast.Node, fn func(atom *ast.Node)) {
	Walk(exprs, func(node *ast.Node, _ *ast.Node, _ int) {
		if node.IsAtom() {
			fn(node)
		}
	})
}

// Contains reports whether an atom with text name occurs anywhere in node,
// searching every nested group.  An atom node matches only itself.
func Contains(node *ast.Node, name string) bool {
	return Find(node, name, nil)
}

// Find calls fn for every atom in node whose text is name and reports
// whether any was found.  A nil fn stops at the first match.
func Find(node *ast.Node, name string, fn func(atom *ast.Node)) bool {
	if node == nil {
		return false
	}
	if node.IsAtom() {
		if node.Text != name {
			return false
		}
		if fn != nil {
			fn(node)
		}
		return true
	}
	found := false
	for _, child := range node.Cells {
		if Find(child, name, fn) {
			found = true
			if fn == nil {
				return true
			}
		}
	}
	return found
}

// StripComments returns a copy of exprs with every comment atom removed.
// Nodes without comments are shared with the input.
func StripComments(exprs []*ast.Node) []*ast.Node {
	out := make([]*ast.Node, 0, len(exprs))
	for _, expr := range exprs {
		if expr.IsComment() {
			continue
		}
		out = append(out, stripNode(expr))
	}
	return out
}

func stripNode(n *ast.Node) *ast.Node {
	if !n.IsGroup() || !hasComment(n) {
		return n
	}
	cp := *n
	cp.Cells = StripComments(n.Cells)
	return &cp
}

func hasComment(n *ast.Node) bool {
	for _, c := range n.Cells {
		if c.IsComment() || (c.IsGroup() && hasComment(c)) {
			return true
		}
	}
	return false
}
