// Copyright © 2024 The ELPS authors

package token

import "fmt"

// Type classifies the lexical elements recognized by the tokenizer.
type Type uint

// Type constants used by the recscan tokenizer.  Only SYMBOL, STRING and
// COMMENT ever appear on atoms in a token tree; the delimiter types are used
// when reporting positions of grouping characters.
const (
	INVALID Type = iota
	EOF

	// Atoms
	SYMBOL
	STRING
	COMMENT

	// Delimiters
	PAREN_L
	PAREN_R
	BRACE_L
	BRACE_R

	numTokenTypes
)

func (typ Type) String() string {
	typeStrings := [numTokenTypes]string{
		INVALID: "invalid",
		EOF:     "EOF",
		SYMBOL:  "symbol",
		STRING:  "string",
		COMMENT: ";",
		PAREN_L: "(",
		PAREN_R: ")",
		BRACE_L: "[",
		BRACE_R: "]",
	}
	if typ >= numTokenTypes {
		return typeStrings[INVALID]
	}
	return typeStrings[typ]
}

// Delimiter returns the delimiter type for the character c and true, or
// INVALID and false when c is not a grouping character.
func Delimiter(c rune) (Type, bool) {
	switch c {
	case '(':
		return PAREN_L, true
	case ')':
		return PAREN_R, true
	case '[':
		return BRACE_L, true
	case ']':
		return BRACE_R, true
	}
	return INVALID, false
}

type Location struct {
	File    string // a name representing the source stream
	Pos     int
	Line    int // line number (starting at 1 when tracked)
	Col     int // line column number (starting at 1 when tracked)
	EndLine int // last line of a multi-character element (0 when unknown)
	EndCol  int // column of the last character (0 when unknown)
}

func (loc *Location) String() string {
	switch {
	case loc.Pos < 0:
		return loc.File
	case loc.Line == 0:
		return fmt.Sprintf("%s[%d]", loc.File, loc.Pos)
	case loc.Col == 0:
		return fmt.Sprintf("%s:%d", loc.File, loc.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Col)
	}
}

type LocationError struct {
	Err    error
	Source *Location
}

func (err *LocationError) Error() string {
	return fmt.Sprintf("%s: %s", err.Source, err.Err)
}

func (err *LocationError) Unwrap() error {
	return err.Err
}
