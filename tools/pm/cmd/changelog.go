package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zostay/go-cef/tools/pm/changes"
	"github.com/zostay/go-cef/tools/pm/release"
)

func newChangelogCmd() *cobra.Command {
	var file string

	changelogCmd := &cobra.Command{
		Use:   "changelog",
		Short: "Commands related to change logs",
	}

	changelogCmd.PersistentFlags().StringVarP(&file, "file", "f", release.GoCEFConfig.Changelog, "the change log file")

	changelogCmd.AddCommand(
		newLintChangelogCmd(&file),
		newExtractChangelogCmd(&file),
	)

	return changelogCmd
}

func newLintChangelogCmd(file *string) *cobra.Command {
	var (
		isRelease    bool
		isPreRelease bool
	)

	lintCmd := &cobra.Command{
		Use:   "lint",
		Short: "Check the changelog file for problems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			changelog, err := os.Open(*file)
			if err != nil {
				return fmt.Errorf("unable to open change log: %w", err)
			}
			defer func() { _ = changelog.Close() }()

			mode := changes.CheckStandard
			switch {
			case isRelease:
				mode = changes.CheckRelease
			case isPreRelease:
				mode = changes.CheckPreRelease
			}

			if err := changes.NewLinter(changelog, mode).Check(); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}

	lintCmd.Flags().BoolVarP(&isRelease, "release", "r", false, "verify the changelog is ready for release")
	lintCmd.Flags().BoolVarP(&isPreRelease, "pre-release", "p", false, "verify the changelog has a WIP section to release")
	lintCmd.MarkFlagsMutuallyExclusive("release", "pre-release")

	return lintCmd
}

func newExtractChangelogCmd(file *string) *cobra.Command {
	return &cobra.Command{
		Use:   "extract <version>",
		Short: "Extract the bullets for the changelog section for the given version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := changes.ExtractSectionFile(*file, args[0])
			if err != nil {
				return fmt.Errorf("failed to read changelog section: %w", err)
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), s)
			return err
		},
	}
}
