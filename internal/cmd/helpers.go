package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jsonpad/jsonpad/internal/app"
)

// getOutputPath returns the global -o/--output flag.
func getOutputPath(c *cobra.Command) string {
	path, _ := c.Root().PersistentFlags().GetString("output")
	return path
}

// emit writes data to the -o path when set, stdout otherwise.
func emit(c *cobra.Command, data []byte) error {
	if path := getOutputPath(c); path != "" {
		if err := app.AtomicWriteFile(path, data, app.FilePerm); err != nil {
			return app.FailExit(err.Error())
		}
		return app.OKText("Wrote " + path)
	}
	fmt.Print(string(data))
	return nil
}
