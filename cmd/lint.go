// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/luthersystems/recscan/lint"
	"github.com/luthersystems/recscan/parser"
	"github.com/spf13/cobra"
)

// LintCommand creates the "lint" cobra command.  Embedders can pass
// WithAnalyzers to run their own checks alongside the built-in set.
func LintCommand(opts ...Option) *cobra.Command {
	return newLintCommand(newCmdConfig(opts))
}

func newLintCommand(cfg *cmdConfig) *cobra.Command {
	var (
		asJSON   bool
		checks   string
		listAll  bool
		excludes []string
	)

	cmd := &cobra.Command{
		Use:   "lint [flags] [files...]",
		Short: "Run static analysis checks on Racket source files",
		Long: `Run static analysis checks on Racket source files.

Each check is an independent analyzer that examines the token tree and
reports diagnostics, similar to "go vet" for Go. Findings are rendered as
annotated source snippets on stderr.

With no files, reads from stdin.

Exit codes:
  0  No problems found
  1  One or more problems were reported
  2  Bad invocation (invalid flags, unreadable files)

To suppress a specific diagnostic, add a comment on the same line:
  (define (loop n) (loop n)) ; nolint:self-recursion

To suppress all checks on a line:
  (define (loop n) (loop n)) ; nolint

Available checks (use --checks to select specific ones):
` + lint.AnalyzerDoc() + `
Examples:
  recscan lint a08q1.rkt                        # Lint a single file
  recscan lint --json ./...                     # Output diagnostics as JSON
  recscan lint --checks=self-recursion ./...    # Run only specific checks
  recscan lint --forbid append --forbid reverse ./...
                                                # Flag forbidden functions
  recscan lint --list                           # List available checks
  recscan lint --exclude='starter' ./...        # Exclude a directory
  cat a08q1.rkt | recscan lint                  # Lint from stdin`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			available := cfg.allAnalyzers()
			if listAll {
				for _, name := range analyzerNames(available) {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}
			analyzers, err := selectAnalyzers(available, checks)
			if err != nil {
				return exitWith(2, err)
			}
			s, err := cfg.load(cmd)
			if err != nil {
				return exitWith(2, err)
			}
			defer s.close()
			l := s.linter(analyzers)

			var (
				all   []lint.Diagnostic
				stdin []byte
			)
			if len(args) == 0 {
				stdin, err = io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return exitWith(2, fmt.Errorf("reading stdin: %w", err))
				}
				if all, err = l.LintFile(stdin, stdinName); err != nil {
					return exitWith(2, err)
				}
			} else {
				paths, err := expandArgs(args, s.extensions, excludes)
				if err != nil {
					return exitWith(2, err)
				}
				for _, path := range paths {
					diags, err := lintFile(l, path)
					if err != nil {
						return exitWith(2, err)
					}
					s.logger.Debug("linted", "file", path, "diagnostics", len(diags))
					all = append(all, diags...)
				}
			}

			if len(all) == 0 {
				return nil
			}
			if asJSON {
				err = lint.FormatJSON(cmd.OutOrStdout(), all)
			} else {
				err = renderLintDiagnostics(cmd.ErrOrStderr(), newRenderer(s, stdin), all)
			}
			if err != nil {
				return exitWith(2, err)
			}
			return exitWith(1, nil)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return exitWith(2, err)
	})

	cmd.Flags().BoolVar(&asJSON, "json", false,
		"Output diagnostics as JSON.")
	cmd.Flags().StringVar(&checks, "checks", "",
		"Comma-separated list of checks to run (default: all).")
	cmd.Flags().BoolVar(&listAll, "list", false,
		"List available checks and exit.")
	cmd.Flags().StringArrayVar(&excludes, "exclude", nil,
		"Glob pattern for files to exclude (may be repeated).")
	return cmd
}

// selectAnalyzers filters available by a comma-separated list of names.
// An empty list selects everything.
func selectAnalyzers(available []*lint.Analyzer, checks string) ([]*lint.Analyzer, error) {
	if checks == "" {
		return available, nil
	}
	selected := make(map[string]bool)
	for _, name := range strings.Split(checks, ",") {
		if name = strings.TrimSpace(name); name != "" {
			selected[name] = true
		}
	}
	var filtered []*lint.Analyzer
	for _, a := range available {
		if selected[a.Name] {
			filtered = append(filtered, a)
			delete(selected, a.Name)
		}
	}
	if len(selected) > 0 {
		unknown := make([]string, 0, len(selected))
		for name := range selected {
			unknown = append(unknown, name)
		}
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown check: %s", strings.Join(unknown, ", "))
	}
	return filtered, nil
}

func analyzerNames(analyzers []*lint.Analyzer) []string {
	names := make([]string, len(analyzers))
	for i, a := range analyzers {
		names[i] = a.Name
	}
	sort.Strings(names)
	return names
}

func lintFile(l *lint.Linter, path string) ([]lint.Diagnostic, error) {
	src, err := parser.ReadSource(path)
	if err != nil {
		return nil, err
	}
	return l.LintFile(src, path)
}
