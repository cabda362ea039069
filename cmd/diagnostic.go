// Copyright © 2024 The ELPS authors

package cmd

import (
	"io"

	"github.com/luthersystems/recscan/diagnostic"
	lintpkg "github.com/luthersystems/recscan/lint"
	"github.com/luthersystems/recscan/parser"
)

const stdinName = "<stdin>"

func newRenderer(s *settings, stdin []byte) *diagnostic.Renderer {
	r := &diagnostic.Renderer{Color: s.color}
	if stdin != nil {
		r.SourceReader = func(name string) ([]byte, error) {
			if name == stdinName {
				return stdin, nil
			}
			return parser.ReadSource(name)
		}
	}
	return r
}

// lintDiagToDiagnostic converts a lint.Diagnostic to a diagnostic.Diagnostic.
func lintDiagToDiagnostic(ld lintpkg.Diagnostic) diagnostic.Diagnostic {
	d := diagnostic.Diagnostic{
		Severity: lintSeverity(ld.Severity),
		Message:  ld.Message + " (" + ld.Analyzer + ")",
	}
	if ld.Pos.Line > 0 {
		span := diagnostic.Span{
			File: ld.Pos.File,
			Line: ld.Pos.Line,
			Col:  ld.Pos.Col,
		}
		if ld.EndPos.Line == ld.Pos.Line {
			span.EndCol = ld.EndPos.Col
		}
		d.Spans = append(d.Spans, span)
	}
	d.Notes = append(d.Notes, ld.Notes...)
	d.Notes = append(d.Notes, "to suppress: add \"; nolint:"+ld.Analyzer+"\" as a comment on this line")
	return d
}

func lintSeverity(sev lintpkg.Severity) diagnostic.Severity {
	switch sev {
	case lintpkg.SeverityError:
		return diagnostic.SeverityError
	case lintpkg.SeverityInfo:
		return diagnostic.SeverityNote
	default:
		return diagnostic.SeverityWarning
	}
}

// renderLintDiagnostics renders lint diagnostics with diagnostic formatting.
func renderLintDiagnostics(w io.Writer, r *diagnostic.Renderer, diags []lintpkg.Diagnostic) error {
	ds := make([]diagnostic.Diagnostic, 0, len(diags))
	for _, ld := range diags {
		ds = append(ds, lintDiagToDiagnostic(ld))
	}
	return r.RenderAll(w, ds)
}
