// Copyright © 2024 The ELPS authors

package analysis

import (
	"github.com/luthersystems/recscan/ast"
	"github.com/luthersystems/recscan/astutil"
)

// Definition is a function definition found in a token tree.
type Definition struct {
	// Node is the whole (define ...) group.
	Node *ast.Node

	// NameNode is the atom naming the function.
	NameNode *ast.Node

	// Params are the cells following the name in the signature group.
	Params []*ast.Node

	// Body holds the forms after the signature.  It has exactly one element
	// unless Config.MultiBody is set.
	Body []*ast.Node

	// Parent is the closest enclosing definition, nil at top level.
	Parent *Definition

	// Children are the definitions nested directly inside this one.
	Children []*Definition
}

// Name returns the defined function name.
func (d *Definition) Name() string {
	return d.NameNode.Text
}

// Shadowed reports whether the function name is also one of its
// parameters.  Inside the body such a name refers to the parameter.
func (d *Definition) Shadowed() bool {
	for _, p := range d.Params {
		if p.IsSymbol(d.Name()) {
			return true
		}
	}
	return false
}

// SelfRecursive reports whether the function name occurs anywhere in the
// body and is not shadowed by a parameter.
func (d *Definition) SelfRecursive() bool {
	if d.Shadowed() {
		return false
	}
	for _, form := range d.Body {
		if astutil.Contains(form, d.Name()) {
			return true
		}
	}
	return false
}

// References returns every atom in the body matching the function name.
// References returns nil when the name is shadowed by a parameter.
func (d *Definition) References() []*ast.Node {
	if d.Shadowed() {
		return nil
	}
	var refs []*ast.Node
	for _, form := range d.Body {
		astutil.Find(form, d.Name(), func(atom *ast.Node) {
			refs = append(refs, atom)
		})
	}
	return refs
}

// IsDefinition reports whether n has the shape (define (name param...)
// body).
func IsDefinition(n *ast.Node) bool {
	return (*Config)(nil).IsDefinition(n)
}

// IsDefinition reports whether n has the shape of a definition under c.  A
// nil Config applies the default rules.
func (c *Config) IsDefinition(n *ast.Node) bool {
	if !n.IsGroup() {
		return false
	}
	if c != nil && c.MultiBody {
		if len(n.Cells) < 3 {
			return false
		}
	} else if len(n.Cells) != 3 {
		return false
	}
	if !n.Cells[0].IsSymbol(DefineKeyword) {
		return false
	}
	sig := n.Cells[1]
	return sig.IsGroup() && len(sig.Cells) > 0 && sig.Cells[0].IsAtom()
}

func newDefinition(n *ast.Node, parent *Definition) *Definition {
	sig := n.Cells[1]
	return &Definition{
		Node:     n,
		NameNode: sig.Cells[0],
		Params:   sig.Cells[1:],
		Body:     n.Cells[2:],
		Parent:   parent,
	}
}

// Collect returns every definition in exprs at any depth.  Definitions are
// ordered depth-first: a definition precedes the definitions nested inside
// it, which precede any later siblings.
func Collect(exprs []*ast.Node, cfg *Config) []*Definition {
	var defs []*Definition
	for _, expr := range exprs {
		defs = cfg.gather(expr, nil, defs)
	}
	return defs
}

func (c *Config) gather(n *ast.Node, parent *Definition, defs []*Definition) []*Definition {
	if !n.IsGroup() {
		return defs
	}
	if c.IsDefinition(n) {
		def := newDefinition(n, parent)
		if parent != nil {
			parent.Children = append(parent.Children, def)
		}
		defs = append(defs, def)
		parent = def
	}
	for _, child := range n.Cells {
		if child.IsGroup() {
			defs = c.gather(child, parent, defs)
		}
	}
	return defs
}

// TopLevel returns the definitions which appear directly in exprs.
func TopLevel(exprs []*ast.Node, cfg *Config) []*Definition {
	var defs []*Definition
	for _, expr := range exprs {
		if cfg.IsDefinition(expr) {
			defs = append(defs, newDefinition(expr, nil))
		}
	}
	return defs
}
