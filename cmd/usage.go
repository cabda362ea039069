// Copyright © 2024 The ELPS authors

package cmd

import (
	"github.com/luthersystems/recscan/analysis"
	"github.com/luthersystems/recscan/parser"
	"github.com/luthersystems/recscan/report"
	"github.com/spf13/cobra"
)

// UsageCommand creates the "usage" cobra command.
func UsageCommand(opts ...Option) *cobra.Command {
	return newUsageCommand(newCmdConfig(opts))
}

func newUsageCommand(cfg *cmdConfig) *cobra.Command {
	var (
		symbols  []string
		excludes []string
	)

	cmd := &cobra.Command{
		Use:   "usage [flags] files...",
		Short: "Report which files use the given functions",
		Long: `Report, for each file, which of the given symbols it uses.

A symbol is used when it appears as an atom anywhere after the header lines.
Occurrences inside strings and comments do not count. Files which use none
of the symbols are reported as NONE.

Examples:
  recscan usage a08q1.rkt                       # Files using append
  recscan usage --symbol foldr --symbol map ./...`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cfg.load(cmd)
			if err != nil {
				return exitWith(2, err)
			}
			defer s.close()
			paths, err := expandArgs(args, s.extensions, excludes)
			if err != nil {
				return exitWith(1, err)
			}
			pcfg := s.parseConfig()
			for _, path := range paths {
				res, err := parser.ReadFile(path, pcfg)
				if err != nil {
					return exitWith(1, err)
				}
				if err := report.Usage(cmd.OutOrStdout(), path, analysis.Uses(res.Exprs, symbols)); err != nil {
					return exitWith(1, err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&symbols, "symbol", []string{"append"},
		"Symbol to look for (may be repeated).")
	cmd.Flags().StringArrayVar(&excludes, "exclude", nil,
		"Glob pattern for files to exclude (may be repeated).")
	return cmd
}
