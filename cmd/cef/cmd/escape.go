package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zostay/go-cef/field"
)

// ErrInvalidKey is returned by the key command for an invalid key.
var ErrInvalidKey = errors.New("invalid extension key")

func newEscapeCmd() *cobra.Command {
	var extension bool

	escapeCmd := &cobra.Command{
		Use:   "escape <value>",
		Short: "Escape a value for a CEF header field or extension value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			escape := field.Escape
			if extension {
				escape = field.EscapeExtensionValue
			}

			s, err := escape(args[0])
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), s)
			return nil
		},
	}

	escapeCmd.Flags().BoolVarP(&extension, "extension", "x", false, "escape as an extension value rather than a header field")

	return escapeCmd
}

func newKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "key <key>",
		Short: "Check whether a string is a valid CEF extension key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !field.IsValidExtensionKey(args[0]) {
				return fmt.Errorf("%w: %q", ErrInvalidKey, args[0])
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "valid")
			return nil
		},
	}
}
