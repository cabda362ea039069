// Copyright © 2024 The ELPS authors

// Package analysis finds function definitions in a token tree and decides
// which of them are self-recursive.
//
// A definition is a group shaped like
//
//	(define (name param...) body)
//
// Definitions are collected at any depth, so local helpers defined inside
// another function's body are analyzed the same way as top-level ones.  A
// definition is self-recursive when its name occurs as an atom anywhere in
// its body, unless the name is also one of its parameters.  The match is
// purely lexical: quoted data and shadowing by nested definitions are not
// taken into account.
package analysis

import (
	"sort"

	"github.com/luthersystems/recscan/ast"
)

// DefineKeyword is the head symbol of a definition form.
const DefineKeyword = "define"

// Config controls the behavior of the analyzer.
type Config struct {
	// MultiBody accepts definitions with more than one body form, as in
	// (define (f x) (define (g y) ...) (g x)).  The default only accepts
	// exactly one body form.
	MultiBody bool
}

// Result holds the output of analyzing one file.
type Result struct {
	File string

	// Definitions holds every definition in collection order.
	Definitions []*Definition

	// Recursive holds the self-recursive subset of Definitions, in the
	// same order.
	Recursive []*Definition
}

// Analyze collects the definitions in exprs and tests each for
// self-recursion.
func Analyze(file string, exprs []*ast.Node, cfg *Config) *Result {
	res := &Result{
		File:        file,
		Definitions: Collect(exprs, cfg),
	}
	for _, def := range res.Definitions {
		if def.SelfRecursive() {
			res.Recursive = append(res.Recursive, def)
		}
	}
	return res
}

// RecursiveNames returns the names of the recursive definitions in
// discovery order.
func (r *Result) RecursiveNames() []string {
	return Names(r.Recursive)
}

// Names returns the name of each definition, preserving order.
func Names(defs []*Definition) []string {
	names := make([]string, len(defs))
	for i, def := range defs {
		names[i] = def.Name()
	}
	return names
}

// FunctionNames returns the sorted names of the top-level definitions in
// exprs.  Nested definitions are not included.  Duplicate names are kept.
func FunctionNames(exprs []*ast.Node, cfg *Config) []string {
	names := Names(TopLevel(exprs, cfg))
	sort.Strings(names)
	return names
}
