// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"

	"github.com/luthersystems/recscan/lsp"
	"github.com/spf13/cobra"
)

// LSPCommand creates the "lsp" cobra command.  Checks passed with
// WithAnalyzers are published alongside the built-in diagnostics.
func LSPCommand(opts ...Option) *cobra.Command {
	return newLSPCommand(newCmdConfig(opts))
}

func newLSPCommand(cfg *cmdConfig) *cobra.Command {
	var (
		stdio bool
		port  int
	)

	cmd := &cobra.Command{
		Use:   "lsp [flags]",
		Short: "Start the recscan Language Server Protocol server",
		Long: `Start an LSP server for Racket source files.

The language server publishes lint diagnostics as documents are opened,
edited and saved, lists definitions (nested defines as children) as
document symbols, and provides folding ranges.

Transport modes:
  --stdio      Use stdin/stdout for LSP communication (default)
  --port N     Listen for an LSP client on TCP port N

Examples:
  recscan lsp                        Start with stdio transport
  recscan lsp --port 7998            Start with TCP on port 7998
  recscan lsp --multi-body --forbid append

Editor configuration (VS Code):
  Install a generic LSP client extension and configure it to run
  "recscan lsp --stdio" for .rkt files.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := cfg.load(cmd)
			if err != nil {
				return exitWith(2, err)
			}
			defer s.close()

			lsp.Version = Version
			srv := lsp.New(
				lsp.WithLinter(s.linter(cfg.allAnalyzers())),
				lsp.WithLogger(s.logger),
			)
			if !stdio && port > 0 {
				err = srv.RunTCP(fmt.Sprintf("localhost:%d", port))
			} else {
				err = srv.RunStdio()
			}
			if err != nil {
				return exitWith(1, fmt.Errorf("lsp server error: %w", err))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&stdio, "stdio", false,
		"Use stdin/stdout for LSP communication (default behavior)")
	cmd.Flags().IntVar(&port, "port", 0,
		"TCP port for LSP server (use instead of --stdio)")
	return cmd
}
