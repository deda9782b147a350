// Package logger configures the application log. The TUI owns stdout, so the
// log goes to a file under the state directory.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// New opens (appending) a log file next to the database and returns a
// structured logger writing to it. A failure to open the file degrades to a
// no-op logger rather than breaking startup.
func New(dir string) (zerolog.Logger, func()) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return zerolog.Nop(), func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "phantomfin.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop(), func() {}
	}
	return NewWithWriter(f), func() { _ = f.Close() }
}

// NewWithWriter returns a structured logger writing to w.
func NewWithWriter(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}
