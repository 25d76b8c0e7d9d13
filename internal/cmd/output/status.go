package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/netorganizer/netorg/internal/cmd/emoji"
)

// SetColor turns colored status lines on or off.
func SetColor(enabled bool) {
	color.NoColor = !enabled
}

// Success writes a success line.
func Success(w io.Writer, format string, args ...any) {
	status(w, color.New(color.FgGreen), emoji.Success, format, args...)
}

// Warning writes a warning line.
func Warning(w io.Writer, format string, args ...any) {
	status(w, color.New(color.FgYellow), emoji.Warning, format, args...)
}

// Error writes an error line.
func Error(w io.Writer, format string, args ...any) {
	status(w, color.New(color.FgRed), emoji.Error, format, args...)
}

// Info writes an informational line.
func Info(w io.Writer, format string, args ...any) {
	status(w, color.New(color.FgCyan), emoji.Info, format, args...)
}

func status(w io.Writer, c *color.Color, symbol, format string, args ...any) {
	_, _ = c.Fprint(w, symbol)
	_, _ = fmt.Fprintf(w, " "+format+"\n", args...)
}
