// Copyright © 2024 The ELPS authors

package analysis

import (
	"github.com/luthersystems/recscan/ast"
	"github.com/luthersystems/recscan/astutil"
	"github.com/luthersystems/recscan/parser/token"
)

// Occurrences returns every symbol atom in exprs whose text is name.
// String literals and comments never match.
func Occurrences(exprs []*ast.Node, name string) []*ast.Node {
	var found []*ast.Node
	astutil.WalkAtoms(exprs, func(atom *ast.Node) {
		if atom.Token == token.SYMBOL && atom.Text == name {
			found = append(found, atom)
		}
	})
	return found
}

// Uses returns the members of symbols that occur in exprs, in the order
// they were given.
func Uses(exprs []*ast.Node, symbols []string) []string {
	want := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		want[s] = true
	}
	seen := make(map[string]bool)
	astutil.WalkAtoms(exprs, func(atom *ast.Node) {
		if atom.Token == token.SYMBOL && want[atom.Text] {
			seen[atom.Text] = true
		}
	})
	var used []string
	for _, s := range symbols {
		if seen[s] {
			used = append(used, s)
			delete(seen, s)
		}
	}
	return used
}
