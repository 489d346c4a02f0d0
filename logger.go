package scrollframe

import (
	"log/slog"

	"github.com/gogpu/scrollframe/internal/logging"
)

// SetLogger configures the logger for scrollframe and all its sub-packages.
// By default, scrollframe produces no log output. Call SetLogger to enable
// logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by scrollframe:
//   - [slog.LevelDebug]: per-frame diagnostics (frame loaded, load failed, resize)
//   - [slog.LevelInfo]: lifecycle events (mounted, closed, scene reloaded)
//   - [slog.LevelWarn]: non-fatal issues (first frame failed, present errors)
//
// Example:
//
//	// Enable debug-level logging for full diagnostics:
//	scrollframe.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logging.Set(l)
}

// Logger returns the current logger used by scrollframe.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return logging.Logger()
}
