package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jsonpad/jsonpad/internal/app"
	"github.com/jsonpad/jsonpad/internal/model"
	"github.com/jsonpad/jsonpad/internal/token"
)

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <token-or-file>",
		Short: "Decode a token payload without verifying it",
		Long: `Decode extracts the payload segment of a three-segment token and
prints it, pretty-printed when it parses as a document. The argument is
a file path or the token itself. No signature verification happens.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := args[0]
			if data, err := os.ReadFile(raw); err == nil {
				raw = string(data)
			}
			payload, err := token.ExtractPayload(strings.TrimSpace(raw))
			if err != nil {
				return app.FailExit(err.Error())
			}
			if v, perr := model.Parse(payload); perr == nil {
				payload = v.Pretty()
			}
			return emit(cmd, []byte(payload))
		},
	}
}
