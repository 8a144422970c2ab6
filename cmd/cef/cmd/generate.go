package cmd

import (
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zostay/go-cef/internal/generator"
	"github.com/zostay/go-cef/internal/metrics"
	"github.com/zostay/go-cef/sink"
)

func newGenerateCmd(root *rootOptions) *cobra.Command {
	var (
		count    int
		seed     int64
		interval time.Duration
	)

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Write made up security events to the configured output",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(root, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer e.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			g := generator.New(seed, e.logger)
			for i := 0; count <= 0 || i < count; i++ {
				if ctx.Err() != nil {
					return nil
				}

				if i > 0 && interval > 0 {
					select {
					case <-ctx.Done():
						return nil
					case <-time.After(interval):
					}
				}

				ev := g.Next()
				if err := e.sink.Send(ctx, ev); err != nil {
					reason := metrics.ReasonSend
					var fe *sink.FormatError
					if errors.As(err, &fe) {
						reason = metrics.ReasonFormat
					}
					e.metrics.IncRejected(e.cfg.Output, reason)
					return err
				}
				e.metrics.IncEncoded(e.cfg.Output)
			}

			e.logger.Info("generation finished", zap.Int("count", count))
			return nil
		},
	}

	generateCmd.Flags().IntVarP(&count, "count", "n", 10, "number of events to generate, 0 for no limit")
	generateCmd.Flags().Int64Var(&seed, "seed", 0, "random seed, 0 for a random one")
	generateCmd.Flags().DurationVar(&interval, "interval", 0, "pause between events")

	return generateCmd
}
