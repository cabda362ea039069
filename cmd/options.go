// Copyright © 2024 The ELPS authors

package cmd

import (
	"github.com/luthersystems/recscan/lint"
	"github.com/spf13/viper"
)

// Option configures an exported command factory (NewRootCommand,
// LintCommand, UsageCommand, LSPCommand).
type Option func(*cmdConfig)

type cmdConfig struct {
	v         *viper.Viper
	cfgFile   string
	analyzers []*lint.Analyzer
}

// WithViper makes the command read settings from v instead of a private
// viper instance.  Embedders use it to share configuration with their own
// commands.
func WithViper(v *viper.Viper) Option {
	return func(c *cmdConfig) { c.v = v }
}

// WithAnalyzers adds lint checks that run alongside the built-in set.
func WithAnalyzers(analyzers ...*lint.Analyzer) Option {
	return func(c *cmdConfig) { c.analyzers = append(c.analyzers, analyzers...) }
}

func newCmdConfig(opts []Option) *cmdConfig {
	c := &cmdConfig{}
	for _, o := range opts {
		o(c)
	}
	if c.v == nil {
		c.v = viper.New()
	}
	setDefaults(c.v)
	return c
}

// allAnalyzers returns the built-in checks followed by embedder checks.
func (c *cmdConfig) allAnalyzers() []*lint.Analyzer {
	return append(lint.DefaultAnalyzers(), c.analyzers...)
}
