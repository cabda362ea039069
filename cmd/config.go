// Copyright © 2024 The ELPS authors

package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/luthersystems/recscan/analysis"
	"github.com/luthersystems/recscan/diagnostic"
	"github.com/luthersystems/recscan/lint"
	"github.com/luthersystems/recscan/parser"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "RECSCAN"

// Configuration keys.  Each may be set in the config file, through a
// RECSCAN_ environment variable or with the flag of the same name.
const (
	keyHeaderLines  = "header-lines"
	keyKeepComments = "keep-comments"
	keyMultiBody    = "multi-body"
	keyExtensions   = "extensions"
	keyForbidden    = "forbidden"
	keyColor        = "color"
	keyVerbose      = "verbose"
	keyLogFile      = "log-file"
)

// flagKeys maps flag names to configuration keys.
var flagKeys = map[string]string{
	"header-lines":  keyHeaderLines,
	"keep-comments": keyKeepComments,
	"multi-body":    keyMultiBody,
	"extensions":    keyExtensions,
	"forbid":        keyForbidden,
	"color":         keyColor,
	"verbose":       keyVerbose,
	"log-file":      keyLogFile,
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyHeaderLines, parser.DefaultHeaderLines)
	v.SetDefault(keyExtensions, []string{".rkt"})
	v.SetDefault(keyColor, "auto")
}

// settings is the resolved configuration of a single invocation.
type settings struct {
	headerLines  int
	keepComments bool
	multiBody    bool
	extensions   []string
	forbidden    []string
	color        diagnostic.ColorMode

	logger   *slog.Logger
	closeLog func() error
}

// load resolves settings from flags, environment and the config file, in
// that order of precedence.
func (c *cmdConfig) load(cmd *cobra.Command) (*settings, error) {
	v := c.v
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, err
			}
		}
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cfgFile := c.cfgFile
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigName(".recscan")
		v.SetConfigType("yaml")
	}
	configErr := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if configErr != nil && (cfgFile != "" || !errors.As(configErr, &notFound)) {
		return nil, fmt.Errorf("reading config: %w", configErr)
	}

	verbose := v.GetInt(keyVerbose)
	logger, closeLog, err := newLogger(cmd.ErrOrStderr(), verbose, v.GetString(keyLogFile))
	if err != nil {
		return nil, err
	}
	if configErr == nil {
		logger.Debug("using config file", "path", v.ConfigFileUsed())
	}

	s := &settings{
		headerLines:  v.GetInt(keyHeaderLines),
		keepComments: v.GetBool(keyKeepComments),
		multiBody:    v.GetBool(keyMultiBody),
		extensions:   normalizeExtensions(v.GetStringSlice(keyExtensions)),
		forbidden:    v.GetStringSlice(keyForbidden),
		color:        diagnostic.ParseColorMode(v.GetString(keyColor)),
		logger:       logger,
		closeLog:     closeLog,
	}
	logger.Debug("settings",
		"header_lines", s.headerLines,
		"multi_body", s.multiBody,
		"extensions", s.extensions,
		"forbidden", s.forbidden)
	return s, nil
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}

func (s *settings) parseConfig() *parser.Config {
	return &parser.Config{HeaderLines: s.headerLines, KeepComments: s.keepComments}
}

func (s *settings) analysisConfig() *analysis.Config {
	return &analysis.Config{MultiBody: s.multiBody}
}

func (s *settings) linter(analyzers []*lint.Analyzer) *lint.Linter {
	return &lint.Linter{
		Analyzers: analyzers,
		Parse:     s.parseConfig(),
		Analysis:  s.analysisConfig(),
		Forbidden: s.forbidden,
	}
}

// close releases the log file, if any.
func (s *settings) close() {
	if err := s.closeLog(); err != nil {
		fmt.Fprintln(os.Stderr, "closing log file:", err)
	}
}
