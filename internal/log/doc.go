// Package log provides secure logging functionality with automatic sanitization
// of sensitive information, built on top of the standard slog package.
//
// Storage state carries live login cookies and local storage entries. The
// SecureHandler masks them, along with the usual HTTP and credential keys,
// before any handler sees the record. This holds in verbose mode too.
//
// Two outputs are provided: a colored terminal handler backed by
// github.com/charmbracelet/log and a JSON handler for piping into other tools.
//
// # Usage
//
//	logger := log.New(os.Stderr, log.Options{Verbose: true})
//	logger.Info("browser state saved", "path", "storageState.json")
//	slog.SetDefault(logger)
package log
