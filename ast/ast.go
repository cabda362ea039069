// Copyright © 2024 The ELPS authors

// Package ast defines the token tree produced by the recscan tokenizer.
//
// A token tree is a sequence of nodes where every node is either an Atom (a
// symbol, literal, string or comment) or a Group (a parenthesized or
// bracketed sequence of nodes).
package ast

import (
	"strings"

	"github.com/luthersystems/recscan/parser/token"
)

// Kind distinguishes the two variants of Node.
type Kind uint8

const (
	KindAtom Kind = iota
	KindGroup
)

func (k Kind) String() string {
	switch k {
	case KindAtom:
		return "atom"
	case KindGroup:
		return "group"
	default:
		return "unknown"
	}
}

// Node is a single element of a token tree.
type Node struct {
	Kind Kind

	// Token is the lexical class of an atom (token.SYMBOL, token.STRING or
	// token.COMMENT) or the opening delimiter of a group (token.PAREN_L or
	// token.BRACE_L).
	Token token.Type

	// Text holds the characters of an atom.  String atoms include their
	// surrounding quote characters and comment atoms their leading ';'.
	Text string

	// Cells holds the children of a group.
	Cells []*Node

	Source *token.Location
}

// Atom returns a new symbol atom.
func Atom(text string) *Node {
	return &Node{Kind: KindAtom, Token: token.SYMBOL, Text: text}
}

// Group returns a new parenthesized group containing cells.
func Group(cells ...*Node) *Node {
	return &Node{Kind: KindGroup, Token: token.PAREN_L, Cells: cells}
}

// IsAtom reports whether n is an atom.
func (n *Node) IsAtom() bool {
	return n != nil && n.Kind == KindAtom
}

// IsGroup reports whether n is a group.
func (n *Node) IsGroup() bool {
	return n != nil && n.Kind == KindGroup
}

// IsComment reports whether n is a comment atom.
func (n *Node) IsComment() bool {
	return n.IsAtom() && strings.HasPrefix(n.Text, ";")
}

// IsSymbol reports whether n is an atom whose text is exactly name.
func (n *Node) IsSymbol(name string) bool {
	return n.IsAtom() && n.Text == name
}

// Len returns the number of cells in a group and zero for atoms.
func (n *Node) Len() int {
	if !n.IsGroup() {
		return 0
	}
	return len(n.Cells)
}

// String renders n back to source form.  Groups are rendered with their
// original delimiters and single spaces between cells.
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	if n == nil {
		return
	}
	if n.IsAtom() {
		b.WriteString(n.Text)
		return
	}
	opener, closer := "(", ")"
	if n.Token == token.BRACE_L {
		opener, closer = "[", "]"
	}
	b.WriteString(opener)
	for i, c := range n.Cells {
		if i > 0 {
			b.WriteByte(' ')
		}
		c.write(b)
	}
	b.WriteString(closer)
}

// Format renders a sequence of top-level nodes separated by newlines.
func Format(exprs []*Node) string {
	parts := make([]string, len(exprs))
	for i, expr := range exprs {
		parts[i] = expr.String()
	}
	return strings.Join(parts, "\n")
}
