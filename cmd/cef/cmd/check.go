package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/zostay/go-cef/header"
	"github.com/zostay/go-cef/internal/pipeline"
	"github.com/zostay/go-cef/internal/record"
	"github.com/zostay/go-cef/sink"
)

// ErrMismatch is returned by check when the output differs from the golden
// file.
var ErrMismatch = errors.New("encoded output does not match expected output")

func newCheckCmd(root *rootOptions) *cobra.Command {
	var charset string

	checkCmd := &cobra.Command{
		Use:   "check <input> <expected>",
		Short: "Encode JSON lines and compare the result to a file of expected CEF lines",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = in.Close() }()

			expected, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}

			e, err := loadEnv(root)
			if err != nil {
				return err
			}
			defer e.close()

			if charset == "" {
				charset = e.cfg.Charset
			}

			got := &bytes.Buffer{}
			p := &pipeline.Pipeline{
				Sink:        sink.NewWriter(got, header.LF, e.logger),
				Logger:      e.logger,
				SkipInvalid: true,
			}
			if _, err := p.Run(cmd.Context(), record.NewDecoder(in, charset, e.eventOptions()...)); err != nil {
				return err
			}

			if got.String() == string(expected) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "ok")
				return nil
			}

			writeLineDiff(cmd.OutOrStdout(), string(expected), got.String())
			return ErrMismatch
		},
	}

	checkCmd.Flags().StringVar(&charset, "charset", "", "character set of the input (default UTF-8)")

	return checkCmd
}

// writeLineDiff writes a line-oriented diff in the familiar -/+ style.
func writeLineDiff(w io.Writer, want, got string) {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(want, got)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}

		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			_, _ = fmt.Fprint(w, prefix, strings.TrimSuffix(line, "\n"), "\n")
		}
	}
}
