package shadergen

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards all records. Enabled returns false so callers skip
// formatting.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger sets the logger used by shadergen.
// By default nothing is logged. Pass nil to restore silent behavior.
// Safe for concurrent use; a pass picks the logger up when it starts.
//
// Records of a generation pass carry the "shader" and "target" attributes.
// Levels used:
//   - [slog.LevelDebug]: graph built (node and unresolved counts), light
//     type bound, compound expanded to a function, implementations checked
//   - [slog.LevelWarn]: optional node skipped for lack of an implementation,
//     partial shader returned under the Partial failure policy
//
// Example:
//
//	// Trace why a material generates the code it does:
//	shadergen.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//		Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger { return loggerPtr.Load() }
