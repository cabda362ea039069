// Copyright © 2024 The ELPS authors

// Package parser reads source files into token trees.
//
// Source files begin with header lines (language version and metadata
// written by the editor) which are skipped before tokenizing.  The remaining
// text is handed to the recursive-descent tokenizer in package rdparser.
package parser

import (
	"errors"
	"io/fs"
	"os"

	"github.com/luthersystems/recscan/ast"
	"github.com/luthersystems/recscan/parser/rdparser"
	"github.com/luthersystems/recscan/parser/token"
)

// DefaultHeaderLines is the number of leading lines skipped in every file.
const DefaultHeaderLines = 3

// Warning is a recoverable problem found while tokenizing.
type Warning = rdparser.Warning

// Config controls how source text is tokenized.
type Config struct {
	// HeaderLines is the number of leading lines which are discarded before
	// tokenizing.  Negative values are treated as zero.
	HeaderLines int

	// KeepComments retains comment atoms in the token tree.
	KeepComments bool
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() *Config {
	return &Config{HeaderLines: DefaultHeaderLines}
}

// Result is the token tree of a single file.
type Result struct {
	File     string
	Exprs    []*ast.Node
	Warnings []Warning
}

// Parse tokenizes src.  Parse never fails; malformed input is reported
// through Result.Warnings.
func Parse(name string, src []byte, cfg *Config) *Result {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	s := token.NewScanner(name, string(src))
	if cfg.HeaderLines > 0 {
		s.SkipLines(cfg.HeaderLines)
	}
	p := rdparser.New(s, rdparser.KeepComments(cfg.KeepComments))
	exprs := p.ParseProgram()
	return &Result{
		File:     name,
		Exprs:    exprs,
		Warnings: p.Warnings(),
	}
}

// ReadSource returns the contents of the file at path.  Errors are returned
// as a *token.LocationError naming the file.
func ReadSource(path string) ([]byte, error) {
	src, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
	if err != nil {
		var pe *fs.PathError
		if errors.As(err, &pe) {
			err = pe.Err
		}
		return nil, &token.LocationError{Err: err, Source: &token.Location{File: path, Pos: -1}}
	}
	return src, nil
}

// ReadFile tokenizes the file at path.
func ReadFile(path string, cfg *Config) (*Result, error) {
	src, err := ReadSource(path)
	if err != nil {
		return nil, err
	}
	return Parse(path, src, cfg), nil
}
