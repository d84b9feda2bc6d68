package g3d

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/g3d/backend"
	"github.com/gogpu/g3d/material"
	"github.com/gogpu/g3d/render"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for g3d and its sub-packages.
// By default nothing is logged. Pass nil to restore the silent default.
//
// Log levels used by g3d:
//   - [slog.LevelDebug]: resource lifecycle, read-back, skipped mip work
//   - [slog.LevelInfo]: driver creation and backend selection
//   - [slog.LevelWarn]: invalid input and unsupported capabilities
//   - [slog.LevelError]: cross-backend misuse and native call failures
//
// Example:
//
//	g3d.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	render.SetLogger(l)
	material.SetLogger(l)
	backend.SetLogger(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

func slogger() *slog.Logger { return loggerPtr.Load() }
