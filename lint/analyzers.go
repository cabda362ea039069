// Copyright © 2024 The ELPS authors

package lint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/luthersystems/recscan/analysis"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

// AnalyzerSelfRecursion reports every function definition, top-level or
// nested, whose body refers to its own name.
var AnalyzerSelfRecursion = &Analyzer{
	Name:     "self-recursion",
	Severity: SeverityWarning,
	Doc:      "Report functions that refer to themselves.\n\nA definition (define (f x ...) body) is self-recursive when f occurs anywhere in body, including inside lambdas and local definitions. Occurrences are matched lexically, so passing f as a value also counts. A definition whose parameter list contains its own name is never reported because the name refers to the parameter.",
	Run: func(pass *Pass) error {
		for _, def := range analysis.Collect(pass.Exprs, pass.Analysis) {
			refs := def.References()
			if len(refs) == 0 {
				continue
			}
			var notes []string
			for _, ref := range refs {
				if ref.Source != nil {
					notes = append(notes, fmt.Sprintf("refers to itself at %s", ref.Source))
				}
			}
			d := Diagnostic{Message: fmt.Sprintf("function %s is self-recursive", def.Name())}
			if src := def.NameNode.Source; src != nil {
				d.Pos, d.EndPos = positions(src)
			}
			pass.ReportWithNotes(d, notes...)
		}
		return nil
	},
}

// AnalyzerShadowedName notes definitions that reuse their own name as a
// parameter.  Such definitions are skipped by self-recursion.
var AnalyzerShadowedName = &Analyzer{
	Name:     "shadowed-name",
	Severity: SeverityInfo,
	Doc:      "Note functions with a parameter of the same name.\n\nIn (define (f f) ...) every f in the body refers to the parameter, so the definition cannot call itself directly and is excluded from self-recursion checks.",
	Run: func(pass *Pass) error {
		for _, def := range analysis.Collect(pass.Exprs, pass.Analysis) {
			if def.Shadowed() {
				pass.Reportf(def.NameNode.Source, "parameter %s shadows the function name; recursion through it is not detected", def.Name())
			}
		}
		return nil
	},
}

// AnalyzerForbiddenSymbol reports uses of configured forbidden functions.
var AnalyzerForbiddenSymbol = &Analyzer{
	Name:     "forbidden-symbol",
	Severity: SeverityError,
	Doc:      "Report uses of forbidden functions.\n\nThe forbidden list comes from the --forbid flag or the forbidden configuration key. Occurrences inside strings and comments are ignored.",
	Run: func(pass *Pass) error {
		for _, name := range pass.Forbidden {
			for _, atom := range analysis.Occurrences(pass.Exprs, name) {
				pass.Reportf(atom.Source, "use of forbidden function %s", name)
			}
		}
		return nil
	},
}

// AnalyzerMalformedInput surfaces the problems the tokenizer recovered
// from.  Results for malformed files may be incomplete.
var AnalyzerMalformedInput = &Analyzer{
	Name:     "malformed-input",
	Severity: SeverityInfo,
	Doc:      "Report unbalanced delimiters and unterminated strings.\n\nThe tokenizer never rejects a file. Input after a stray closing parenthesis is ignored and unclosed groups end at the end of the file, so other checks may miss definitions in malformed files.",
	Run: func(pass *Pass) error {
		for _, w := range pass.Warnings {
			pass.Reportf(w.Source, "%s", w.Message)
		}
		return nil
	},
}

// AnalyzerNames returns a sorted list of all default analyzer names.
func AnalyzerNames() []string {
	analyzers := DefaultAnalyzers()
	names := make([]string, len(analyzers))
	for i, a := range analyzers {
		names[i] = a.Name
	}
	sort.Strings(names)
	return names
}

// AnalyzerDoc returns a formatted documentation string for all analyzers.
func AnalyzerDoc() string {
	var b strings.Builder
	for _, a := range DefaultAnalyzers() {
		fmt.Fprintf(&b, "  %s\n", a.Name)
		lines := strings.Split(a.Doc, "\n")
		fmt.Fprintf(&b, "%s\n\n", indent.String(wordwrap.String(lines[0], 68), 4))
	}
	return b.String()
}
