// Package logging holds the structured logger shared by every InkBinder package.
// Nothing is logged until SetLogger installs a real handler.
package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record. Enabled reports false so callers skip
// formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger replaces the logger used by all packages. Passing nil restores
// the silent default. Safe for concurrent use; the smoother goroutines log
// through the same pointer.
//
// Levels in use:
//   - [slog.LevelDebug]: layer transitions, smoothing results
//   - [slog.LevelInfo]: document lifecycle (load, export)
//   - [slog.LevelWarn]: tolerated faults (group mismatch, history overflow)
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
