package cmd

import (
	"bytes"
	"os"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jsonpad/jsonpad/internal/app"
)

// chromaStyle is the color scheme for syntax highlighting.
var chromaStyle = styles.Get("dracula")

// chromaFormatter outputs 256-color ANSI codes for terminal display.
var chromaFormatter = formatters.Get("terminal256")

func init() {
	if chromaStyle == nil {
		chromaStyle = styles.Fallback
	}
	if chromaFormatter == nil {
		chromaFormatter = formatters.Fallback
	}
}

func newPrintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "print <file>",
		Short: "Print a document with syntax highlighting",
		Long: `Print opens a document the way the editor does (.jwt files are
decoded first) and writes it to stdout with ANSI syntax highlighting.
Highlighting is skipped when stdout is not a terminal or when the
output is redirected with -o.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := app.OpenPath(args[0])
			if err != nil {
				return app.FailExit(err.Error())
			}
			text := doc.Text

			tty := term.IsTerminal(int(os.Stdout.Fd()))
			if !tty || getOutputPath(cmd) != "" || os.Getenv("NO_COLOR") != "" {
				return emit(cmd, []byte(text))
			}
			if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
				printRule(doc.Path, w)
			}
			return emit(cmd, []byte(highlight(text)))
		},
	}
}

// highlight renders document text with 256-color ANSI escapes.
func highlight(input string) string {
	lexer := lexers.Get("json")
	if lexer == nil {
		return input
	}
	lexer = chroma.Coalesce(lexer)
	iterator, err := lexer.Tokenise(nil, input)
	if err != nil {
		return input
	}
	var buf bytes.Buffer
	if err := chromaFormatter.Format(&buf, chromaStyle, iterator); err != nil {
		return input
	}
	return buf.String()
}

// printRule writes a dimmed header line with the file name, clipped to
// the terminal width.
func printRule(path string, width int) {
	header := []rune("── " + path + " ")
	for len(header) < width {
		header = append(header, '─')
	}
	if len(header) > width {
		header = header[:width]
	}
	os.Stdout.WriteString(app.Styles.Dim.Render(string(header)) + "\n")
}
