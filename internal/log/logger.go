package log

import (
	"io"
	"log/slog"

	charmlog "github.com/charmbracelet/log"
)

// FormatJSON selects JSON output in Options.Format.
// Any other value selects the terminal handler.
const FormatJSON = "json"

// Options configures New.
type Options struct {
	// Verbose sets the level to Debug; otherwise Warn.
	Verbose bool

	// Format is FormatJSON or empty for the terminal handler.
	Format string
}

// New creates a sanitizing slog.Logger writing to w.
func New(w io.Writer, opts Options) *slog.Logger {
	if opts.Format == FormatJSON {
		return NewSecureJSONLogger(w, opts.Verbose)
	}
	return NewSecureLogger(w, opts.Verbose)
}

// NewSecureLogger creates a new slog.Logger with secure handling and
// leveled, colored terminal output.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
func NewSecureLogger(w io.Writer, verbose bool) *slog.Logger {
	level := charmlog.WarnLevel
	if verbose {
		level = charmlog.DebugLevel
	}

	terminal := charmlog.NewWithOptions(w, charmlog.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})

	return slog.New(NewSecureHandler(terminal))
}

// NewSecureJSONLogger creates a new slog.Logger with secure handling
// that outputs JSON format.
func NewSecureJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	jsonHandler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewSecureHandler(jsonHandler))
}
