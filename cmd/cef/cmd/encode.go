package cmd

import (
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zostay/go-cef/internal/pipeline"
	"github.com/zostay/go-cef/internal/record"
)

func newEncodeCmd(root *rootOptions) *cobra.Command {
	var (
		charset     string
		skipInvalid bool
	)

	encodeCmd := &cobra.Command{
		Use:   "encode [file]",
		Short: "Encode JSON lines into CEF lines",
		Long: `Reads one JSON object per line from the named file, or stdin when no
file is given, and writes one CEF line per object to the configured output.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer func() { _ = f.Close() }()
				in = f
			}

			e, err := setup(root, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer e.close()

			if charset == "" {
				charset = e.cfg.Charset
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			p := &pipeline.Pipeline{
				Sink:        e.sink,
				Output:      e.cfg.Output,
				Metrics:     e.metrics,
				Logger:      e.logger,
				SkipInvalid: skipInvalid,
			}

			stats, err := p.Run(ctx, record.NewDecoder(in, charset, e.eventOptions()...))
			e.logger.Info("encoding finished",
				zap.Int("encoded", stats.Encoded),
				zap.Int("rejected", stats.Rejected),
			)
			return err
		},
	}

	encodeCmd.Flags().StringVar(&charset, "charset", "", "character set of the input (default UTF-8)")
	encodeCmd.Flags().BoolVar(&skipInvalid, "skip-invalid", false, "skip events that cannot be encoded instead of stopping")

	return encodeCmd
}
