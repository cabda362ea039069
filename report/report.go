// Copyright © 2024 The ELPS authors

// Package report writes analysis results in the plain text formats consumed
// by grading scripts, and in JSON.
//
// Recursion report, for files containing recursive definitions only:
//
//	*** a08q1.rkt contains recursive functions:
//	    fact
//	    helper
//
// Listing:
//
//	a08q1.rkt:	fact helper main
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/luthersystems/recscan/analysis"
)

// NoneMarker is written by Usage for files which use none of the symbols.
const NoneMarker = "NONE"

// Recursion writes the recursion report for res.  Nothing is written when
// res has no recursive definitions.
func Recursion(w io.Writer, res *analysis.Result) error {
	if len(res.Recursive) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "*** %s contains recursive functions:\n", res.File); err != nil {
		return err
	}
	for _, def := range res.Recursive {
		if _, err := fmt.Fprintf(w, "    %s\n", def.Name()); err != nil {
			return err
		}
	}
	return nil
}

// Listing writes the names of a file's top-level functions on one line.
// names is written in the order given.
func Listing(w io.Writer, file string, names []string) error {
	_, err := fmt.Fprintf(w, "%s:\t%s\n", file, strings.Join(names, " "))
	return err
}

// Usage writes which of the searched symbols a file uses.
func Usage(w io.Writer, file string, used []string) error {
	found := NoneMarker
	if len(used) > 0 {
		found = strings.Join(used, " ")
	}
	_, err := fmt.Fprintf(w, "%s: %s\n", file, found)
	return err
}

// Function describes one recursive definition in JSON output.
type Function struct {
	Name string `json:"name"`
	Line int    `json:"line,omitempty"`

	// Calls holds the line of every self reference.
	Calls []int `json:"calls,omitempty"`
}

// RecursionRecord is the JSON form of a recursion report.
type RecursionRecord struct {
	File      string     `json:"file"`
	Recursive []Function `json:"recursive"`
}

// ListingRecord is the JSON form of a listing.
type ListingRecord struct {
	File      string   `json:"file"`
	Functions []string `json:"functions"`
}

// NewRecursionRecord converts res to its JSON form.
func NewRecursionRecord(res *analysis.Result) RecursionRecord {
	rec := RecursionRecord{File: res.File, Recursive: []Function{}}
	for _, def := range res.Recursive {
		fn := Function{Name: def.Name()}
		if src := def.NameNode.Source; src != nil {
			fn.Line = src.Line
		}
		for _, ref := range def.References() {
			if ref.Source != nil {
				fn.Calls = append(fn.Calls, ref.Source.Line)
			}
		}
		rec.Recursive = append(rec.Recursive, fn)
	}
	return rec
}

// RecursionJSON writes res as a single line of JSON.  Unlike Recursion a
// record is written even when no recursion was found.
func RecursionJSON(w io.Writer, res *analysis.Result) error {
	return json.NewEncoder(w).Encode(NewRecursionRecord(res))
}

// ListingJSON writes a listing as a single line of JSON.
func ListingJSON(w io.Writer, file string, names []string) error {
	if names == nil {
		names = []string{}
	}
	return json.NewEncoder(w).Encode(ListingRecord{File: file, Functions: names})
}
