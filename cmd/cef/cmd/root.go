// Package cmd implements the cef command line tool.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// options shared by every subcommand
type rootOptions struct {
	configFile string
	logLevel   string

	// logger replaces the one built from the log level
	logger *zap.Logger
}

// RootOption configures the command tree built by NewRootCmd.
type RootOption func(*rootOptions)

// WithLogger makes every subcommand log to logger instead of stderr. The
// configured log level is still validated but no longer filters anything.
func WithLogger(logger *zap.Logger) RootOption {
	return func(o *rootOptions) {
		o.logger = logger
	}
}

// NewRootCmd builds the complete command tree.
func NewRootCmd(ropts ...RootOption) *cobra.Command {
	opts := &rootOptions{}
	for _, ropt := range ropts {
		ropt(opts)
	}

	rootCmd := &cobra.Command{
		Use:           "cef",
		Short:         "Tools for writing Common Event Format lines",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "path to a YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error), overrides the config file")

	rootCmd.AddCommand(
		newEncodeCmd(opts),
		newGenerateCmd(opts),
		newCheckCmd(opts),
		newEscapeCmd(),
		newKeyCmd(),
	)

	return rootCmd
}

// Execute runs the command tree against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// initLogger builds a zap logger for the given level. Logs go to stderr so
// they never mix with CEF output.
func initLogger(level string) (*zap.Logger, error) {
	var config zap.Config

	level = strings.ToLower(level)

	switch level {
	case "debug":
		config = zap.NewDevelopmentConfig()
	default:
		config = zap.NewProductionConfig()
		config.Level = parseLogLevel(level)
	}

	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	return config.Build()
}

func parseLogLevel(level string) zap.AtomicLevel {
	switch level {
	case "debug":
		return zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	case "error":
		return zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		return zap.NewAtomicLevelAt(zap.WarnLevel)
	}
}
