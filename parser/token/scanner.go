// Copyright © 2024 The ELPS authors

package token

import "strings"

// Scanner is a cursor over an immutable sequence of runes.  It tracks the
// line and column of the next rune so that the tokenizer can attach a
// Location to everything it produces.
type Scanner struct {
	file string
	src  []rune
	pos  int // index of the next rune in src
	line int // line of the next rune
	col  int // column of the next rune

	lastLine int
	lastCol  int
}

// newlines maps "\r\n" and a lone "\r" to "\n", as reading a file in
// universal newline mode does.
var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// NewScanner initializes and returns a Scanner over text.  Line endings are
// normalized to "\n".
func NewScanner(file string, text string) *Scanner {
	text = newlines.Replace(text)
	return &Scanner{
		file: file,
		src:  []rune(text),
		line: 1,
		col:  1,
	}
}

// EOF returns true when all runes have been consumed.
func (s *Scanner) EOF() bool {
	return s.pos >= len(s.src)
}

// Next consumes and returns the next rune.  Next returns a false second
// value at the end of input.
func (s *Scanner) Next() (rune, bool) {
	if s.EOF() {
		return 0, false
	}
	c := s.src[s.pos]
	s.pos++
	s.lastLine, s.lastCol = s.line, s.col
	if c == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return c, true
}

// ScanUntil consumes runes up to and including end and returns the text
// preceding end.  If the input runs out before end is found ScanUntil
// returns everything that remained and false.
func (s *Scanner) ScanUntil(end rune) (string, bool) {
	var b strings.Builder
	for {
		c, ok := s.Next()
		if !ok {
			return b.String(), false
		}
		if c == end {
			return b.String(), true
		}
		b.WriteRune(c)
	}
}

// SkipLines discards the next n lines of input, including their line
// terminators, and returns the number of lines actually skipped.
func (s *Scanner) SkipLines(n int) int {
	skipped := 0
	for skipped < n && !s.EOF() {
		s.ScanUntil('\n')
		skipped++
	}
	return skipped
}

// Loc returns a Location referencing the next rune to be scanned.
func (s *Scanner) Loc() *Location {
	return &Location{
		File: s.file,
		Pos:  s.pos,
		Line: s.line,
		Col:  s.col,
	}
}

// Last returns a Location referencing the most recently consumed rune.
func (s *Scanner) Last() *Location {
	return &Location{
		File: s.file,
		Pos:  s.pos - 1,
		Line: s.lastLine,
		Col:  s.lastCol,
	}
}

// End records the position of the most recently consumed rune as the end of
// loc.
func (s *Scanner) End(loc *Location) {
	if s.pos == 0 {
		return
	}
	loc.EndLine = s.lastLine
	loc.EndCol = s.lastCol
}
