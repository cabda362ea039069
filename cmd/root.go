// Copyright © 2018 The ELPS authors

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/luthersystems/recscan/analysis"
	"github.com/luthersystems/recscan/parser"
	"github.com/luthersystems/recscan/report"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = NewRootCommand()

const rootLong = `recscan reads Racket teaching-language source files and reports the
functions which call themselves. A function counts as recursive when its own
name appears anywhere in its body, unless one of its parameters has the same
name. Definitions nested inside other definitions are checked too.

The first three lines of every file are skipped; DrRacket stores language
metadata there. Use --header-lines to change this.

Output:
  *** a08q1.rkt contains recursive functions:
      fact
      helper

With -l each file's top-level function names are listed instead, sorted:
  a08q1.rkt:	fact helper main

Getting started:
  recscan a08q1.rkt               Report recursive functions
  recscan -l a08q1.rkt            List defined functions
  recscan --json ./...            Scan every .rkt file below . as JSON lines
  recscan lint --forbid append ./...
                                  Report recursion and forbidden functions
  recscan usage --symbol append ./...
                                  Show which files use append
  recscan lsp                     Start the language server

Configuration is read from $HOME/.recscan.yaml (or --config) and from
RECSCAN_* environment variables, e.g. RECSCAN_HEADER_LINES=0.`

// NewRootCommand returns the recscan command tree.
func NewRootCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts)

	var (
		list     bool
		asJSON   bool
		excludes []string
	)

	cmd := &cobra.Command{
		Use:           "recscan [flags] [files...]",
		Short:         "Report self-recursive functions in Racket source files",
		Long:          rootLong,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			s, err := cfg.load(cmd)
			if err != nil {
				return exitWith(2, err)
			}
			defer s.close()
			paths, err := expandArgs(args, s.extensions, excludes)
			if err != nil {
				return exitWith(1, err)
			}
			return runScan(cmd, s, paths, list, asJSON)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&cfg.cfgFile, "config", "", "config file (default is $HOME/.recscan.yaml)")
	pf.String("color", "auto", `Control colored output: "auto", "always", or "never".`)
	pf.Int("header-lines", parser.DefaultHeaderLines, "Number of leading lines skipped in every file.")
	pf.Bool("keep-comments", false, "Keep comments in the token tree.")
	pf.Bool("multi-body", false, "Accept definitions with more than one body form.")
	pf.StringSlice("extensions", []string{".rkt"}, "File extensions matched when expanding dir/... arguments.")
	pf.StringSlice("forbid", nil, "Functions reported by the forbidden-symbol check (may be repeated).")
	pf.CountP("verbose", "v", "Log progress to stderr; repeat for debug output.")
	pf.String("log-file", "", "Also append JSON log records to this file.")

	cmd.Flags().BoolVarP(&list, "list", "l", false, "List top-level function names instead of reporting recursion.")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Write one JSON object per file.")
	cmd.Flags().StringArrayVar(&excludes, "exclude", nil, "Glob pattern for files to exclude (may be repeated).")

	cmd.AddCommand(
		newLintCommand(cfg),
		newUsageCommand(cfg),
		newLSPCommand(cfg),
		newVersionCommand(),
	)
	return cmd
}

// runScan writes the recursion report, or the listing, for each path in
// order.  It stops at the first unreadable file.
func runScan(cmd *cobra.Command, s *settings, paths []string, list, asJSON bool) error {
	out := cmd.OutOrStdout()
	pcfg := s.parseConfig()
	acfg := s.analysisConfig()
	for _, path := range paths {
		res, err := parser.ReadFile(path, pcfg)
		if err != nil {
			return exitWith(1, err)
		}
		for _, w := range res.Warnings {
			s.logger.Debug("tokenizer warning", "file", path, "warning", w.String())
		}
		switch {
		case list && asJSON:
			err = report.ListingJSON(out, path, analysis.FunctionNames(res.Exprs, acfg))
		case list:
			err = report.Listing(out, path, analysis.FunctionNames(res.Exprs, acfg))
		case asJSON:
			err = report.RecursionJSON(out, analysis.Analyze(path, res.Exprs, acfg))
		default:
			ar := analysis.Analyze(path, res.Exprs, acfg)
			s.logger.Info("scanned", "file", path, "definitions", len(ar.Definitions), "recursive", len(ar.Recursive))
			err = report.Recursion(out, ar)
		}
		if err != nil {
			return exitWith(1, err)
		}
	}
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(reportError(err))
	}
}

// reportError prints err and returns the process exit status for it.
func reportError(err error) int {
	code := 1
	var ee *exitError
	if errors.As(err, &ee) {
		code = ee.code
		err = ee.err
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "recscan:", err)
	}
	return code
}
