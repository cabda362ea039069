// Copyright © 2024 The ELPS authors

package lint

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/luthersystems/recscan/analysis"
	"github.com/luthersystems/recscan/parser"
	"github.com/luthersystems/recscan/parser/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lintSource runs all default analyzers on the given source and returns
// diagnostics.  No header lines are skipped.
func lintSource(t *testing.T, source string, forbidden ...string) []Diagnostic {
	t.Helper()
	l := &Linter{
		Analyzers: DefaultAnalyzers(),
		Parse:     &parser.Config{},
		Forbidden: forbidden,
	}
	diags, err := l.LintFile([]byte(source), "test.rkt")
	require.NoError(t, err)
	return diags
}

// lintCheck runs a single analyzer on the given source.
func lintCheck(t *testing.T, analyzer *Analyzer, source string) []Diagnostic {
	t.Helper()
	l := &Linter{Analyzers: []*Analyzer{analyzer}, Parse: &parser.Config{}}
	diags, err := l.LintFile([]byte(source), "test.rkt")
	require.NoError(t, err)
	return diags
}

// assertHasDiag checks that at least one diagnostic contains the given substring.
func assertHasDiag(t *testing.T, diags []Diagnostic, substr string) {
	t.Helper()
	for _, d := range diags {
		if strings.Contains(d.Message, substr) {
			return
		}
	}
	var msgs []string
	for _, d := range diags {
		msgs = append(msgs, d.String())
	}
	t.Errorf("expected diagnostic containing %q, got: %v", substr, msgs)
}

// assertNoDiags checks that there are no diagnostics.
func assertNoDiags(t *testing.T, diags []Diagnostic) {
	t.Helper()
	if len(diags) > 0 {
		var msgs []string
		for _, d := range diags {
			msgs = append(msgs, d.String())
		}
		t.Errorf("expected no diagnostics, got %d: %v", len(diags), msgs)
	}
}

// assertDiagOnLine checks that a diagnostic exists on the given line with the given substring.
func assertDiagOnLine(t *testing.T, diags []Diagnostic, line int, substr string) {
	t.Helper()
	for _, d := range diags {
		if d.Pos.Line == line && strings.Contains(d.Message, substr) {
			return
		}
	}
	var msgs []string
	for _, d := range diags {
		msgs = append(msgs, fmt.Sprintf("line %d: %s", d.Pos.Line, d.Message))
	}
	t.Errorf("expected diagnostic on line %d containing %q, got: %v", line, substr, msgs)
}

// --- self-recursion ---

func TestSelfRecursion_Direct(t *testing.T) {
	diags := lintCheck(t, AnalyzerSelfRecursion, "(define (f x)\n  (f x))")
	require.Len(t, diags, 1)
	d := diags[0]
	assert.Equal(t, "function f is self-recursive", d.Message)
	assert.Equal(t, "self-recursion", d.Analyzer)
	assert.Equal(t, SeverityWarning, d.Severity)
	assert.Equal(t, Position{File: "test.rkt", Line: 1, Col: 10}, d.Pos)
	assert.Equal(t, []string{"refers to itself at test.rkt:2:4"}, d.Notes)
}

func TestSelfRecursion_Nested(t *testing.T) {
	src := `(define (sum-list l)
  (local [(define (helper l acc)
            (if (empty? l) acc (helper (rest l) (+ acc (first l)))))]
    (helper l 0)))`
	diags := lintCheck(t, AnalyzerSelfRecursion, src)
	require.Len(t, diags, 1)
	assertDiagOnLine(t, diags, 2, "function helper is self-recursive")
}

func TestSelfRecursion_Shadowed(t *testing.T) {
	assertNoDiags(t, lintCheck(t, AnalyzerSelfRecursion, "(define (f f) (f 1))"))
}

func TestSelfRecursion_CommentMention(t *testing.T) {
	assertNoDiags(t, lintCheck(t, AnalyzerSelfRecursion, "(define (f x) ; calls f? no\n  x)"))
}

func TestSelfRecursion_MultiBody(t *testing.T) {
	src := "(define (f x) (define (g y) (f y)) (g x))"
	assertNoDiags(t, lintCheck(t, AnalyzerSelfRecursion, src))

	l := &Linter{
		Analyzers: []*Analyzer{AnalyzerSelfRecursion},
		Parse:     &parser.Config{},
		Analysis:  &analysis.Config{MultiBody: true},
	}
	diags, err := l.LintFile([]byte(src), "test.rkt")
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "function f is self-recursive", diags[0].Message)
}

// --- shadowed-name ---

func TestShadowedName(t *testing.T) {
	diags := lintCheck(t, AnalyzerShadowedName, "(define (f f) (f 1))\n(define (g x) x)")
	require.Len(t, diags, 1)
	assert.Equal(t, SeverityInfo, diags[0].Severity)
	assertDiagOnLine(t, diags, 1, "parameter f shadows the function name")
}

// --- forbidden-symbol ---

func TestForbiddenSymbol(t *testing.T) {
	src := `(define (join a b) (append a b)) ; append is fine here
(define (msg) "append")
(define (twice l) (append l (append l empty)))`
	diags := lintSource(t, src, "append", "foldr")
	var forbidden []Diagnostic
	for _, d := range diags {
		if d.Analyzer == "forbidden-symbol" {
			forbidden = append(forbidden, d)
		}
	}
	require.Len(t, forbidden, 3)
	assert.Equal(t, 1, forbidden[0].Pos.Line)
	assert.Equal(t, 3, forbidden[1].Pos.Line)
	assert.Equal(t, 3, forbidden[2].Pos.Line)
	assert.Equal(t, SeverityError, forbidden[0].Severity)
	assertHasDiag(t, forbidden, "use of forbidden function append")
}

func TestForbiddenSymbol_NoneConfigured(t *testing.T) {
	assertNoDiags(t, lintCheck(t, AnalyzerForbiddenSymbol, "(append a b)"))
}

// --- malformed-input ---

func TestMalformedInput(t *testing.T) {
	diags := lintCheck(t, AnalyzerMalformedInput, "(define (f x) x)\n) (define (g x) (g x))")
	require.Len(t, diags, 1)
	assertDiagOnLine(t, diags, 2, "unexpected ')' at top level")

	diags = lintCheck(t, AnalyzerMalformedInput, "(define (f x")
	assert.Len(t, diags, 2)
	assertHasDiag(t, diags, "unclosed")
}

// --- framework ---

func TestLintFileSkipsHeader(t *testing.T) {
	src := "#lang racket\n(define (a x) (a x))\n;; header\n(define (b x) (b x))\n"
	l := &Linter{Analyzers: DefaultAnalyzers()}
	diags, err := l.LintFile([]byte(src), "q.rkt")
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "q.rkt:4:10: function b is self-recursive (self-recursion)\n  = note: refers to itself at q.rkt:4:16", diags[0].String())
}

func TestNolint(t *testing.T) {
	src := `(define (a x) (a x)) ; nolint
(define (b x) (b x)) ; nolint:self-recursion
(define (c x) (c x)) ; nolint:forbidden-symbol
(define (d x) (d x))`
	diags := lintCheck(t, AnalyzerSelfRecursion, src)
	require.Len(t, diags, 2)
	assert.Equal(t, 3, diags[0].Pos.Line)
	assert.Equal(t, 4, diags[1].Pos.Line)
}

func TestNolintMultipleAnalyzers(t *testing.T) {
	src := "(define (f f) (append f)) ; nolint: shadowed-name, forbidden-symbol"
	diags := lintSource(t, src, "append")
	assertNoDiags(t, diags)
}

func TestDiagnosticsSorted(t *testing.T) {
	src := "(define (b x) (append (b x)))\n(define (a x) (a x))"
	diags := lintSource(t, src, "append")
	require.Len(t, diags, 3)
	assert.Equal(t, []int{1, 1, 2}, []int{diags[0].Pos.Line, diags[1].Pos.Line, diags[2].Pos.Line})
	assert.Equal(t, "self-recursion", diags[0].Analyzer)
	assert.Equal(t, "forbidden-symbol", diags[1].Analyzer)
}

func TestAnalyzerError(t *testing.T) {
	failing := &Analyzer{
		Name: "failing",
		Run:  func(*Pass) error { return errors.New("boom") },
	}
	l := &Linter{Analyzers: []*Analyzer{failing}}
	_, err := l.LintFile([]byte(""), "q.rkt")
	require.Error(t, err)
	assert.Equal(t, "q.rkt: analyzer failing: boom", err.Error())
}

func TestReportDefaultsSeverity(t *testing.T) {
	a := &Analyzer{
		Name:     "custom",
		Severity: SeverityError,
		Run: func(pass *Pass) error {
			pass.Reportf(&token.Location{Line: 1, Col: 2}, "found %d", 1)
			pass.Report(Diagnostic{Message: "plain", Severity: SeverityInfo})
			return nil
		},
	}
	l := &Linter{Analyzers: []*Analyzer{a}}
	diags, err := l.LintFile(nil, "q.rkt")
	require.NoError(t, err)
	require.Len(t, diags, 2)
	assert.Equal(t, SeverityInfo, diags[0].Severity)
	assert.Equal(t, "q.rkt", diags[0].Pos.File)
	assert.Equal(t, SeverityError, diags[1].Severity)
	assert.Equal(t, "found 1", diags[1].Message)
	assert.Equal(t, "custom", diags[1].Analyzer)
}

func TestSeverityJSON(t *testing.T) {
	for _, sev := range []Severity{SeverityError, SeverityWarning, SeverityInfo} {
		b, err := json.Marshal(sev)
		require.NoError(t, err)
		var got Severity
		require.NoError(t, json.Unmarshal(b, &got))
		assert.Equal(t, sev, got)
	}
	b, err := json.Marshal(severityUnset)
	require.NoError(t, err)
	assert.Equal(t, `"warning"`, string(b))

	var s Severity
	assert.Error(t, json.Unmarshal([]byte(`"fatal"`), &s))
	assert.Equal(t, "unknown", Severity(42).String())
}

func TestFormatText(t *testing.T) {
	var buf bytes.Buffer
	FormatText(&buf, []Diagnostic{{
		Pos:      Position{File: "q.rkt", Line: 4, Col: 10},
		Message:  "function f is self-recursive",
		Analyzer: "self-recursion",
	}})
	assert.Equal(t, "q.rkt:4:10: function f is self-recursive (self-recursion)\n", buf.String())
}

func TestFormatJSON(t *testing.T) {
	diags := lintSource(t, "(define (f x) (f x))")
	var buf bytes.Buffer
	require.NoError(t, FormatJSON(&buf, diags))

	var decoded []Diagnostic
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "self-recursion", decoded[0].Analyzer)
	assert.Equal(t, SeverityWarning, decoded[0].Severity)
	assert.Equal(t, 10, decoded[0].Pos.Col)
	assert.Equal(t, 10, decoded[0].EndPos.Col)
}

func TestPositionString(t *testing.T) {
	assert.Equal(t, "q.rkt", Position{File: "q.rkt"}.String())
	assert.Equal(t, "q.rkt:3", Position{File: "q.rkt", Line: 3}.String())
	assert.Equal(t, "q.rkt:3:1", Position{File: "q.rkt", Line: 3, Col: 1}.String())
}

func TestAnalyzerNamesAndDoc(t *testing.T) {
	names := AnalyzerNames()
	assert.Equal(t, []string{"forbidden-symbol", "malformed-input", "self-recursion", "shadowed-name"}, names)
	doc := AnalyzerDoc()
	for _, name := range names {
		assert.Contains(t, doc, "  "+name+"\n")
	}
	for _, line := range strings.Split(doc, "\n") {
		assert.LessOrEqual(t, len(line), 72, "doc line too long: %q", line)
	}
}

func TestLintResult(t *testing.T) {
	src := "(define (f x) (f x))\n(define (g x) (g x) ; nolint\n)\n(define (h x) (h x)"
	res := parser.Parse("q.rkt", []byte(src), &parser.Config{KeepComments: true})
	require.Len(t, res.Exprs, 3)
	before := res.Exprs[1].String()
	require.Contains(t, before, "; nolint")

	l := &Linter{Analyzers: DefaultAnalyzers()}
	diags, err := l.LintResult(res)
	require.NoError(t, err)
	assertDiagOnLine(t, diags, 1, "function f is self-recursive")
	assertDiagOnLine(t, diags, 4, "function h is self-recursive")
	assertDiagOnLine(t, diags, 4, "unclosed")
	for _, d := range diags {
		assert.NotEqual(t, 2, d.Pos.Line, "nolint line reported: %s", d)
		assert.Equal(t, "q.rkt", d.Pos.File)
	}
	assert.Equal(t, before, res.Exprs[1].String(), "comments stay in the caller's tree")
}
