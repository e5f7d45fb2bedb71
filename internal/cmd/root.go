// Package cmd wires the cobra command tree. The root command starts
// the interactive editor; the subcommands expose the same operations
// for scripted use.
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jsonpad/jsonpad/internal/app"
	"github.com/jsonpad/jsonpad/internal/locale"
	"github.com/jsonpad/jsonpad/internal/tui"
)

// NewRoot builds the top-level `jsonpad` command.
//
// Errors and usage stay silent here; main() decides how to print
// ExitResult vs generic errors.
func NewRoot() *cobra.Command {
	var lang string

	root := &cobra.Command{
		Use:           "jsonpad [file]",
		Short:         "a terminal workbench for structured documents and tokens",
		Long: `jsonpad edits structured documents with an outline, schema assist,
find/replace, and token payload decoding. Run without arguments for an
empty buffer, or pass a .json or .jwt file to open it.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if lang != "" {
				tab := locale.Load(lang)
				if tab.Language() != lang {
					return app.UsageExit(fmt.Sprintf(
						"unsupported language %q (available: %s)",
						lang, strings.Join(tab.Languages(), ", ")))
				}
			}
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return tui.Run(path, lang)
		},
	}

	root.Flags().StringVar(&lang, "lang", "", "interface language (e.g. en, de)")
	root.PersistentFlags().StringP("output", "o", "", "write output to file (default: stdout)")

	root.AddCommand(
		newDecodeCmd(),
		newFmtCmd(),
		newMergeCmd(),
		newValidateCmd(),
		newQueryCmd(),
		newPrintCmd(),
	)
	return root
}
