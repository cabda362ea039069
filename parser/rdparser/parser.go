// Copyright © 2024 The ELPS authors

// Package rdparser implements the recursive-descent tokenizer which turns
// source text into an ast token tree.
//
// The tokenizer is deliberately permissive.  It never fails: unbalanced
// delimiters and unterminated strings yield a partial tree along with
// Warnings describing what was cut short.
package rdparser

import (
	"fmt"

	"github.com/luthersystems/recscan/ast"
	"github.com/luthersystems/recscan/parser/token"
)

// Warning is a recoverable problem found while tokenizing.
type Warning struct {
	Source  *token.Location
	Message string
}

func (w Warning) String() string {
	if w.Source == nil {
		return w.Message
	}
	return fmt.Sprintf("%s: %s", w.Source, w.Message)
}

// Option configures a Parser.
type Option func(*Parser)

// KeepComments retains comment atoms in the token tree.
func KeepComments(keep bool) Option {
	return func(p *Parser) { p.keepComments = keep }
}

// Parser builds a token tree from a token.Scanner.
type Parser struct {
	s            *token.Scanner
	keepComments bool
	warnings     []Warning
}

// New initializes and returns a new Parser that reads runes from scanner.
func New(scanner *token.Scanner, opts ...Option) *Parser {
	p := &Parser{s: scanner}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Warnings returns the warnings collected by ParseProgram.
func (p *Parser) Warnings() []Warning {
	return p.warnings
}

// ParseProgram consumes the remaining input and returns the top-level
// nodes.  A ')' at top level terminates the program; anything after it is
// ignored.
func (p *Parser) ParseProgram() []*ast.Node {
	exprs, closed := p.parseCells(')')
	if closed {
		p.warn(p.s.Last(), "unexpected ')' at top level; remaining input ignored")
	}
	return exprs
}

// parseCells collects nodes until the rune end is consumed.  The boolean
// result is false when the input ran out before end was found.
func (p *Parser) parseCells(end rune) ([]*ast.Node, bool) {
	var cells []*ast.Node
	var cur *ast.Node  // atom in progress
	var last *ast.Node // group closed with nothing after it yet
	finish := func() {
		if cur != nil {
			cells = p.appendCell(cells, cur)
			cur = nil
		}
		last = nil
	}
	for {
		loc := p.s.Loc()
		c, ok := p.s.Next()
		if !ok {
			finish()
			return cells, false
		}
		switch c {
		case ';':
			finish()
			text, _ := p.s.ScanUntil('\n')
			cur = &ast.Node{Kind: ast.KindAtom, Token: token.COMMENT, Text: ";" + text, Source: loc}
			p.s.End(loc)
		case '"':
			finish()
			text, ok := p.s.ScanUntil('"')
			if !ok {
				p.warn(loc, "unterminated string literal")
			}
			cur = &ast.Node{Kind: ast.KindAtom, Token: token.STRING, Text: `"` + text + `"`, Source: loc}
			p.s.End(loc)
		case end:
			finish()
			return cells, true
		case '(', '[':
			finish()
			last = p.parseGroup(c, loc)
			cells = append(cells, last)
		case '\n':
		case ' ':
			finish()
		default:
			if last != nil {
				// Each rune glued to a closed group becomes a one rune
				// atom inside that group.
				atom := &ast.Node{Kind: ast.KindAtom, Token: token.SYMBOL, Text: string(c), Source: loc}
				p.s.End(atom.Source)
				p.s.End(last.Source)
				last.Cells = append(last.Cells, atom)
				continue
			}
			if cur == nil {
				cur = &ast.Node{Kind: ast.KindAtom, Token: token.SYMBOL, Source: loc}
			}
			cur.Text += string(c)
			p.s.End(cur.Source)
		}
	}
}

func (p *Parser) parseGroup(open rune, loc *token.Location) *ast.Node {
	typ, _ := token.Delimiter(open)
	closer := ')'
	if typ == token.BRACE_L {
		closer = ']'
	}
	cells, closed := p.parseCells(closer)
	p.s.End(loc)
	if !closed {
		p.warn(loc, fmt.Sprintf("unclosed %q; group ends at end of input", open))
	}
	return &ast.Node{Kind: ast.KindGroup, Token: typ, Cells: cells, Source: loc}
}

// appendCell adds a finished atom to cells, dropping empty atoms and, unless
// comments are kept, comment atoms.
func (p *Parser) appendCell(cells []*ast.Node, n *ast.Node) []*ast.Node {
	if n.Text == "" {
		return cells
	}
	if !p.keepComments && n.IsComment() {
		return cells
	}
	return append(cells, n)
}

func (p *Parser) warn(loc *token.Location, msg string) {
	p.warnings = append(p.warnings, Warning{Source: loc, Message: msg})
}
