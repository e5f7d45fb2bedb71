package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jsonpad/jsonpad/internal/app"
	"github.com/jsonpad/jsonpad/internal/merge"
	"github.com/jsonpad/jsonpad/internal/model"
)

func newMergeCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "merge <target> <patch>",
		Short: "Merge a patch document or token payload into a target",
		Long: `Merge applies a patch to a target document: missing keys are
assigned, nested mappings merge recursively, and sequences reconcile
per element by identity key (id, then certificateID) with duplicate
suppression for everything else. The patch may be a document or a
three-segment token, in which case its decoded payload is used.

Without -o the target file is rewritten; when run on a terminal the
overwrite asks for confirmation first unless --yes is given.

Exit codes:
  0  merged
  1  a file does not load or the result cannot be written`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			targetPath, patchPath := args[0], args[1]

			data, err := os.ReadFile(targetPath)
			if err != nil {
				return app.FailExit(err.Error())
			}
			target, perr := model.Parse(string(data))
			if perr != nil {
				return app.FailExit(fmt.Sprintf("%s: %v", targetPath, perr))
			}
			patch, err := app.LoadPatch(patchPath)
			if err != nil {
				return app.FailExit(err.Error())
			}

			stats := merge.Apply(target, patch)
			out := []byte(target.Pretty())

			outPath := getOutputPath(cmd)
			if outPath == "" {
				outPath = targetPath
				if !yes && term.IsTerminal(int(os.Stdin.Fd())) {
					ok, err := confirmOverwrite(targetPath)
					if err != nil {
						return app.FailExit(err.Error())
					}
					if !ok {
						return app.OKText("Aborted")
					}
				}
			}
			if err := app.AtomicWriteFile(outPath, out, app.FilePerm); err != nil {
				return app.FailExit(err.Error())
			}
			return app.OKText(fmt.Sprintf(
				"Merged %s into %s (assigned %d, recursed %d, appended %d, overwritten %d)",
				patchPath, outPath,
				stats.Assigned, stats.Recursed, stats.Appended, stats.Overwritten))
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "overwrite the target without asking")
	return cmd
}

func confirmOverwrite(path string) (bool, error) {
	var accept bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(app.Styles.Warning.Render("Overwrite " + path + "?")).
				Description("The merged result replaces the target file.").
				Value(&accept),
		),
	)
	if err := form.Run(); err != nil {
		return false, err
	}
	return accept, nil
}
