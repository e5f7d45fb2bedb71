package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	jsonata "github.com/blues/jsonata-go"

	"github.com/jsonpad/jsonpad/internal/app"
	"github.com/jsonpad/jsonpad/internal/model"
)

func newQueryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query <file> <expression>",
		Short: "Evaluate a JSONata expression against a document",
		Long: `Query parses the document and evaluates a JSONata expression over
it, printing the pretty-printed result.

Exit codes:
  0  evaluated
  1  the document does not parse, or the expression fails`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, expr := args[0], args[1]
			data, err := os.ReadFile(path)
			if err != nil {
				return app.FailExit(err.Error())
			}
			v, perr := model.Parse(string(data))
			if perr != nil {
				return app.FailExit(fmt.Sprintf("%s: %v", path, perr))
			}
			e, err := jsonata.Compile(expr)
			if err != nil {
				return app.FailExit(fmt.Sprintf("compile %q: %v", expr, err))
			}
			res, err := e.Eval(v.ToGo())
			if err != nil {
				return app.FailExit(fmt.Sprintf("eval %q: %v", expr, err))
			}
			return emit(cmd, []byte(model.FromGo(res).Pretty()))
		},
	}
}
