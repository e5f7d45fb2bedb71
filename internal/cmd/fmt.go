package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsonpad/jsonpad/internal/app"
	"github.com/jsonpad/jsonpad/internal/model"
)

func newFmtCmd() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "fmt <file>",
		Short: "Pretty-print a document",
		Long: `Fmt parses a document and rewrites it in the canonical two-space
layout, preserving key order. With --write the file is rewritten in
place; otherwise the result goes to stdout or -o.

Exit codes:
  0  formatted
  1  the document does not parse (the message carries line and column)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return app.FailExit(err.Error())
			}
			v, perr := model.Parse(string(data))
			if perr != nil {
				return app.FailExit(fmt.Sprintf("%s: %v", path, perr))
			}
			out := []byte(v.Pretty())
			if write {
				if err := app.AtomicWriteFile(path, out, app.FilePerm); err != nil {
					return app.FailExit(err.Error())
				}
				return app.OKText("Formatted " + path)
			}
			return emit(cmd, out)
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "rewrite the file in place")
	return cmd
}
