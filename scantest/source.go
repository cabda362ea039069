// Copyright © 2018 The ELPS authors

// Package scantest provides helpers for testing code that reads Racket
// teaching-language sources.
package scantest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/luthersystems/recscan/parser"
)

// Header is the three line preamble DrRacket writes at the top of saved
// teaching-language files.  It is skipped by the tokenizer.
const Header = `;; The first three lines of this file were inserted by DrRacket. They record metadata
;; about the language level of this file in a form that our tools can easily process.
#reader(lib "htdp-beginner-reader.ss" "lang")((modname sample) (read-case-sensitive #t) (teachpacks ()) (htdp-settings #(#t constructor repeating-decimal #f #t none #f () #f)))
`

// Source returns body preceded by Header.
func Source(body string) []byte {
	return []byte(Header + body)
}

// WriteSource writes body, preceded by Header, to dir/name and returns the
// file path.  Intermediate directories are created as needed.
func WriteSource(t testing.TB, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, Source(body), 0o600); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

// BenchmarkParse returns a benchmark tokenizing the file at path.
func BenchmarkParse(path string, cfg *parser.Config) func(*testing.B) {
	return func(b *testing.B) {
		buf, err := os.ReadFile(path) //#nosec G304
		if err != nil {
			b.Fatalf("Unable to read source file %v: %v", path, err)
		}
		b.SetBytes(int64(len(buf)))
		for i := 0; i < b.N; i++ {
			parser.Parse(path, buf, cfg)
		}
	}
}
