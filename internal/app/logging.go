package app

import (
	"io"
	"os"
	"path/filepath"

	"github.com/op/go-logging"
)

// Log is the application logger. The TUI owns the terminal, so all
// logging goes to a file; before InitLogging runs, records are
// discarded.
var Log = logging.MustGetLogger("jsonpad")

var logFormat = logging.MustStringFormatter(
	`%{time:15:04:05.000} %{level:.4s} %{module} %{message}`,
)

func init() {
	logging.SetBackend(logging.NewLogBackend(io.Discard, "", 0))
}

// InitLogging routes the logger to a file under the user state
// directory. Failure to open the file is tolerated; logging simply
// stays off.
func InitLogging() {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			dir = os.TempDir()
		} else {
			dir = filepath.Join(home, ".local", "state")
		}
	}
	dir = filepath.Join(dir, "jsonpad")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return
	}
	f, err := os.OpenFile(filepath.Join(dir, "jsonpad.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, FilePerm)
	if err != nil {
		return
	}
	backend := logging.NewLogBackend(f, "", 0)
	logging.SetBackend(logging.NewBackendFormatter(backend, logFormat))
}
