package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zostay/go-cef/tools/pm/release"
)

func newReleaseCmd() *cobra.Command {
	cfg := release.GoCEFConfig

	releaseCmd := &cobra.Command{
		Use:   "release",
		Short: "Commands related to software releases",
	}

	releaseCmd.PersistentFlags().StringVar(&cfg.TargetBranch, "target-branch", cfg.TargetBranch, "the branch to merge into during release")

	releaseCmd.AddCommand(
		&cobra.Command{
			Use:   "start <version>",
			Short: "Start a release",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				logger := newLogger()
				defer func() { _ = logger.Sync() }()

				process, err := release.NewProcess(cmd.Context(), args[0], &cfg, logger)
				if err != nil {
					return err
				}

				return process.Run(cmd.Context(), process.StartSteps()...)
			},
		},
		&cobra.Command{
			Use:   "finish",
			Short: "Complete the release process",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				logger := newLogger()
				defer func() { _ = logger.Sync() }()

				process, err := release.NewProcessContinuation(cmd.Context(), &cfg, logger)
				if err != nil {
					return err
				}

				return process.Run(cmd.Context(), process.FinishSteps()...)
			},
		},
	)

	return releaseCmd
}
