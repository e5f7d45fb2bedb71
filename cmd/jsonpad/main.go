package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jsonpad/jsonpad/internal/app"
	"github.com/jsonpad/jsonpad/internal/cmd"
)

func main() {
	root := cmd.NewRoot()
	err := root.Execute()
	if err == nil {
		return
	}

	var exit app.ExitResult
	if errors.As(err, &exit) {
		if exit.Message != "" {
			if exit.UseStderr() {
				fmt.Fprintln(os.Stderr, exit.Message)
			} else {
				fmt.Println(exit.Message)
			}
		}
		os.Exit(exit.ExitCode())
	}

	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
