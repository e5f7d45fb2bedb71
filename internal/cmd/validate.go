package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsonpad/jsonpad/internal/app"
	"github.com/jsonpad/jsonpad/internal/model"
	"github.com/jsonpad/jsonpad/internal/schema"
)

func newValidateCmd() *cobra.Command {
	var schemaPath string

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check that a document parses, optionally against a schema",
		Long: `Validate parses the document and reports the first syntax error
with its line and column. With --schema the parsed document is also
validated against a JSON Schema.

Exit codes:
  0  valid
  1  syntax error or schema violation`,
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

			if schemaPath != "" {
				schemaBytes, err := os.ReadFile(schemaPath)
				if err != nil {
					return app.FailExit(err.Error())
				}
				res := schema.ValidateDocument(v.ToGo(), schemaBytes)
				switch res.Status {
				case schema.StatusValid:
				case schema.StatusInvalid:
					return app.FailExit(fmt.Sprintf("%s: %s", path, res.Message))
				default:
					return app.FailExit(res.Message)
				}
			}
			return app.OKText(app.Styles.Success.Render("✓") + " " + path)
		},
	}

	cmd.Flags().StringVar(&schemaPath, "schema", "", "JSON Schema file to validate against")
	return cmd
}
