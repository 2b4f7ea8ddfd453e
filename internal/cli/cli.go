// Package cli implements the jv command-line interface.
//
// # Commands
//
//   - view: interactive tree viewer and single-line editor (the default)
//   - print: write the visible projection as text or JSON records
//   - fmt: pretty-print a document in canonical form
//   - validate: check any number of files concurrently
//   - version: print the build version
//
// All commands accept --verbose (-v) for debug logging. The logger travels
// through the command context; see loggerFromContext.
package cli

import (
	"context"
	"fmt"
	"path/filepath"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vanderheijden86/jsonview/pkg/config"
	"github.com/vanderheijden86/jsonview/pkg/debug"
	"github.com/vanderheijden86/jsonview/pkg/hooks"
	"github.com/vanderheijden86/jsonview/pkg/metrics"
	"github.com/vanderheijden86/jsonview/pkg/version"
)

// rootOptions holds the persistent flags.
type rootOptions struct {
	verbose    bool
	configPath string
	noHooks    bool
}

// loadConfig reads --config when given, otherwise the XDG config file.
func (o *rootOptions) loadConfig() (config.Config, error) {
	if o.configPath != "" {
		return config.LoadFrom(o.configPath)
	}
	return config.Load()
}

// loadHooks reads hooks.yaml from the directory of the config file. Errors
// disable hooks with a warning.
func (o *rootOptions) loadHooks(l *charmlog.Logger) *hooks.Config {
	if o.noHooks {
		return nil
	}
	dir := config.ConfigDir()
	if o.configPath != "" {
		dir = filepath.Dir(o.configPath)
	}
	if dir == "" {
		return nil
	}
	cfg, warnings, err := hooks.Load(dir)
	if err != nil {
		l.Warn("save hooks disabled", "err", err)
		return nil
	}
	for _, w := range warnings {
		l.Warn(w)
	}
	return cfg
}

// Execute runs the jv CLI.
func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:          "jv [FILE]",
		Short:        "jv views and edits JSON documents as collapsible lines",
		Long:         `jv flattens a JSON document into indented lines with foldable objects and arrays, lets you edit single lines, and validates the whole document before saving.`,
		Version:      version.String(),
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.verbose {
				debug.SetEnabled(true)
			}
			level := charmlog.InfoLevel
			if debug.Enabled() {
				level = charmlog.DebugLevel
			}
			logger := debug.Logger()
			logger.SetLevel(level)
			cmd.SetContext(withLogger(cmd.Context(), logger))
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			dumpMetrics(loggerFromContext(cmd.Context()))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runView(cmd, opts, args[0])
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("jv %s\n", version.String()))
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/jv/config.yaml)")
	root.PersistentFlags().BoolVar(&opts.noHooks, "no-hooks", false, "do not run pre-save/post-save hooks")

	root.AddCommand(newViewCmd(opts))
	root.AddCommand(newPrintCmd())
	root.AddCommand(newFmtCmd(opts))
	root.AddCommand(newValidateCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// dumpMetrics logs the timing metrics that recorded anything.
func dumpMetrics(l *charmlog.Logger) {
	if !metrics.Enabled() {
		return
	}
	for _, s := range metrics.AllTimingStats() {
		l.Debug("timing", "op", s.Name, "count", s.Count, "avg_ms", s.AvgMs, "max_ms", s.MaxMs)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the jv version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "jv %s\n", version.String())
		},
	}
}
