// Copyright © 2024 The ELPS authors

package astutil

import (
	"testing"

	"github.com/luthersystems/recscan/ast"
	"github.com/luthersystems/recscan/parser/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func comment(text string) *ast.Node {
	return &ast.Node{Kind: ast.KindAtom, Token: token.COMMENT, Text: text}
}

func TestWalk(t *testing.T) {
	inner := ast.Group(ast.Atom("b"))
	outer := ast.Group(ast.Atom("a"), inner)
	var visited []string
	var depths []int
	Walk([]*ast.Node{outer, ast.Atom("c")}, func(node, parent *ast.Node, depth int) {
		visited = append(visited, node.String())
		depths = append(depths, depth)
		if node == inner {
			assert.Same(t, outer, parent)
		}
	})
	assert.Equal(t, []string{"(a (b))", "a", "(b)", "b", "c"}, visited)
	assert.Equal(t, []int{0, 1, 1, 2, 0}, depths)
}

func TestWalkGroupsAndAtoms(t *testing.T) {
	exprs := []*ast.Node{ast.Group(ast.Atom("a"), ast.Group(ast.Atom("b"))), ast.Atom("c")}
	var groups, atoms []string
	WalkGroups(exprs, func(g *ast.Node, _ int) { groups = append(groups, g.String()) })
	WalkAtoms(exprs, func(a *ast.Node) { atoms = append(atoms, a.Text) })
	assert.Equal(t, []string{"(a (b))", "(b)"}, groups)
	assert.Equal(t, []string{"a", "b", "c"}, atoms)
}

func TestContains(t *testing.T) {
	deep := ast.Group(ast.Atom("if"), ast.Group(ast.Atom("lambda"), ast.Group(ast.Atom("y")), ast.Group(ast.Atom("f"), ast.Atom("y"))))
	assert.True(t, Contains(deep, "f"))
	assert.True(t, Contains(deep, "y"))
	assert.False(t, Contains(deep, "g"))
	assert.False(t, Contains(deep, "fy"))
	assert.True(t, Contains(ast.Atom("f"), "f"))
	assert.False(t, Contains(ast.Atom("fx"), "f"))
	assert.False(t, Contains(nil, "f"))
}

func TestFindAll(t *testing.T) {
	body := ast.Group(ast.Atom("f"), ast.Group(ast.Atom("f"), ast.Atom("x")))
	var hits int
	assert.True(t, Find(body, "f", func(*ast.Node) { hits++ }))
	assert.Equal(t, 2, hits)
}

func TestStripComments(t *testing.T) {
	untouched := ast.Group(ast.Atom("g"))
	exprs := []*ast.Node{
		comment("; top"),
		ast.Group(ast.Atom("f"), comment("; inner"), ast.Group(ast.Atom("x"), comment(";deep"))),
		untouched,
	}
	out := StripComments(exprs)
	require.Len(t, out, 2)
	assert.Equal(t, "(f (x))", out[0].String())
	assert.Same(t, untouched, out[1])
	// The input tree is not modified.
	assert.Equal(t, "(f ; inner (x ;deep))", exprs[1].String())
}
