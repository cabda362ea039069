// Copyright © 2024 The ELPS authors

package analysis

import (
	"testing"

	"github.com/luthersystems/recscan/ast"
	"github.com/luthersystems/recscan/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseSource(t *testing.T, src string) []*ast.Node {
	t.Helper()
	res := parser.Parse("test.rkt", []byte(src), &parser.Config{})
	require.Empty(t, res.Warnings, "source should be well formed")
	return res.Exprs
}

func analyze(t *testing.T, src string) *Result {
	t.Helper()
	return Analyze("test.rkt", parseSource(t, src), nil)
}

func TestSelfRecursion(t *testing.T) {
	tests := []struct {
		name      string
		source    string
		recursive []string
	}{
		{"direct", `(define (f x) (f x))`, []string{"f"}},
		{"shadowed by parameter", `(define (f f) (f 1))`, nil},
		{"shadowed among many parameters", `(define (f a f b) (f a b))`, nil},
		{"no self reference", `(define (f x) (+ x 1))`, nil},
		{"factorial", `(define (fact n) (if (= n 0) 1 (* n (fact (- n 1)))))`, []string{"fact"}},
		{"inside lambda", `(define (f x) (map (lambda (y) (f y)) x))`, []string{"f"}},
		{"inside brackets", `(define (f x) (cond [(empty? x) 0] [else (f (rest x))]))`, []string{"f"}},
		{"name as value", `(define (f x) (map f x))`, []string{"f"}},
		{"body is the name", `(define (f x) f)`, []string{"f"}},
		{"body atom containing the name", `(define (f x) fx)`, nil},
		{"string literal", `(define (f x) (string-append "f" x))`, nil},
		{"value definition", `(define f (lambda (x) (f x)))`, nil},
		{"empty signature", `(define () 1)`, nil},
		{"quote prefix joins the atom", `(define (f x) (list 'f x))`, nil},
		{"local helper", `(define (f x) (local [(define (g y) (g y))] (g x)))`, []string{"g"}},
		{"both recursive", `(define (f x) (local [(define (g y) (g y))] (f (g x))))`, []string{"f", "g"}},
		{"quoted literal glued to closing paren", "(define (f x) (f x))\n'(1 2)", nil},
		{"runes glued to the body", "(define (f x) (f x))z", nil},
		{"runes glued to an inner call", "(define (f x) (g x)f)", []string{"f"}},
		{"sibling definitions", "(define (a x) (a x))\n(define (b x) (a x))\n(define (c x) (c x))", []string{"a", "c"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			res := analyze(t, test.source)
			if test.recursive == nil {
				assert.Empty(t, res.RecursiveNames())
				return
			}
			assert.Equal(t, test.recursive, res.RecursiveNames())
		})
	}
}

func TestQuotedSymbolIsTextualMatch(t *testing.T) {
	// 'f tokenizes as the single atom 'f, which is not f.
	res := analyze(t, `(define (f x) (list 'f x))`)
	assert.Empty(t, res.Recursive)

	// A quoted list is ordinary data but still matches.
	res = analyze(t, `(define (f x) (list '(f) x))`)
	assert.Equal(t, []string{"f"}, res.RecursiveNames())
}

func TestNestedRedefinitionCountsAsRecursion(t *testing.T) {
	res := analyze(t, `(define (f x) (local [(define (f y) y)] (f x)))`)
	assert.Equal(t, []string{"f"}, res.RecursiveNames())
}

func TestCollectNested(t *testing.T) {
	src := `(define (a x) (local [(define (b y) (local [(define (c z) z)] (c y)))] (b x)))
(define (d x) x)`
	defs := Collect(parseSource(t, src), nil)
	require.Len(t, defs, 4)
	assert.Equal(t, []string{"a", "b", "c", "d"}, Names(defs))

	a, b, c, d := defs[0], defs[1], defs[2], defs[3]
	assert.Nil(t, a.Parent)
	assert.Same(t, a, b.Parent)
	assert.Same(t, b, c.Parent)
	assert.Nil(t, d.Parent)
	assert.Equal(t, []*Definition{b}, a.Children)
	assert.Equal(t, []*Definition{c}, b.Children)
	assert.Empty(t, d.Children)

	assert.Equal(t, "x", a.Params[0].Text)
	require.Len(t, a.Body, 1)
	assert.Equal(t, 2, d.NameNode.Source.Line)
	assert.Equal(t, 10, d.NameNode.Source.Col)
}

func TestCollectMultiBody(t *testing.T) {
	src := `(define (f x) (define (g y) (g y)) (g x))`
	exprs := parseSource(t, src)

	strict := Analyze("test.rkt", exprs, nil)
	assert.Equal(t, []string{"g"}, Names(strict.Definitions))
	assert.Equal(t, []string{"g"}, strict.RecursiveNames())

	multi := Analyze("test.rkt", exprs, &Config{MultiBody: true})
	assert.Equal(t, []string{"f", "g"}, Names(multi.Definitions))
	assert.Equal(t, []string{"g"}, multi.RecursiveNames())
	assert.Len(t, multi.Definitions[0].Body, 2)
	assert.Same(t, multi.Definitions[0], multi.Definitions[1].Parent)
}

func TestIsDefinition(t *testing.T) {
	tests := []struct {
		source string
		strict bool
		multi  bool
	}{
		{`(define (f x) x)`, true, true},
		{`(define (f) 1)`, true, true},
		{`[define (f x) x]`, true, true},
		{`(define [f x] x)`, true, true},
		{`(define x 1)`, false, false},
		{`(define (f x))`, false, false},
		{`(define (f x) a b)`, false, true},
		{`(define () 1)`, false, false},
		{`(define ((f a) b) 1)`, false, false},
		{`(defun (f x) x)`, false, false},
		{`("define" (f x) x)`, false, false},
		{`define`, false, false},
	}
	multi := &Config{MultiBody: true}
	for _, test := range tests {
		exprs := parseSource(t, test.source)
		require.Len(t, exprs, 1, test.source)
		assert.Equal(t, test.strict, IsDefinition(exprs[0]), "strict: %s", test.source)
		assert.Equal(t, test.multi, multi.IsDefinition(exprs[0]), "multi: %s", test.source)
	}
}

func TestReferences(t *testing.T) {
	src := "(define (f x)\n  (if (zero? x) 0 (f (f (- x 1)))))"
	defs := Collect(parseSource(t, src), nil)
	require.Len(t, defs, 1)
	refs := defs[0].References()
	require.Len(t, refs, 2)
	assert.Equal(t, 2, refs[0].Source.Line)
	assert.Equal(t, 20, refs[0].Source.Col)
	assert.Equal(t, 23, refs[1].Source.Col)

	shadowed := Collect(parseSource(t, `(define (f f) (f 1))`), nil)
	assert.Nil(t, shadowed[0].References())
	assert.True(t, shadowed[0].Shadowed())
}

func TestFunctionNames(t *testing.T) {
	src := `(define (b x) x)
(define (a x) (local [(define (z y) y)] (z x)))
(define c 3)
(define (c x) x)`
	assert.Equal(t, []string{"a", "b", "c"}, FunctionNames(parseSource(t, src), nil))
	assert.Empty(t, FunctionNames(nil, nil))
}

func TestFunctionNamesKeepsDuplicates(t *testing.T) {
	src := "(define (f x) x)\n(define (f y) y)"
	assert.Equal(t, []string{"f", "f"}, FunctionNames(parseSource(t, src), nil))
}
