// Package cmd implements pm, the project management tool of this module.
package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewRootCmd builds the pm command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pm",
		Short:         "Golang project management tools by zostay",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newChangelogCmd(),
		newReleaseCmd(),
	)

	return rootCmd
}

func Execute() {
	err := NewRootCmd().Execute()
	cobra.CheckErr(err)
}

func newLogger() *zap.Logger {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
