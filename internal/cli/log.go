// Package cli implements the kfmtool command-line interface.
//
// This package provides commands for converting KFM animation graphs between
// their binary and YAML forms, patching them, generating C++ headers and
// rendering diagrams. The CLI is built using cobra and supports verbose
// logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - patch: Apply a YAML patch file to a KFM or YAML asset
//   - convert: Convert between .kfm and .yaml
//   - build: Compile a YAML asset into a .kfm file and its C++ header
//   - graph: Render the animation graph as DOT or SVG
//   - inspect, browse: Summarize or interactively explore an asset
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Library
// packages report through observability hooks, which this package forwards
// to the logger at debug level. Loggers are also passed through
// context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
// The returned progress should call done when the operation completes.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// The duration is rounded to the nearest millisecond.
// Example output: "Patched 6 anims (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// ctxKey is the type for context keys used in this package.
// Using a distinct type prevents collisions with other packages.
type ctxKey int

// loggerKey is the context key for storing a logger.
const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
// The logger can be retrieved later with loggerFromContext.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
// This ensures commands always have a valid logger even if context setup fails.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Observability hooks
// =============================================================================

type ioLogHooks struct{ l *log.Logger }

func (h ioLogHooks) OnReadStart(_ context.Context, path, format string) {
	h.l.Debug("reading", "path", path, "format", format)
}

func (h ioLogHooks) OnReadComplete(_ context.Context, path, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.l.Debug("read failed", "path", path, "err", err)
		return
	}
	h.l.Debug("read", "path", path, "format", format, "bytes", size, "took", d.Round(time.Microsecond))
}

func (h ioLogHooks) OnWriteStart(_ context.Context, path, format string) {
	h.l.Debug("writing", "path", path, "format", format)
}

func (h ioLogHooks) OnWriteComplete(_ context.Context, path, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.l.Debug("write failed", "path", path, "err", err)
		return
	}
	h.l.Debug("wrote", "path", path, "format", format, "bytes", size, "took", d.Round(time.Microsecond))
}

func (h ioLogHooks) OnTrailingData(_ context.Context, path string, n int) {
	h.l.Warn("ignoring trailing bytes", "path", path, "bytes", n)
}

type patchLogHooks struct{ l *log.Logger }

func (h patchLogHooks) OnPatchStart(instructions int) {
	h.l.Debug("applying patch", "instructions", instructions)
}

func (h patchLogHooks) OnInstruction(scope, op string, matched int) {
	h.l.Debug("instruction", "scope", scope, "op", op, "matched", matched)
}

func (h patchLogHooks) OnPatchComplete(clips, edges int, d time.Duration, err error) {
	if err != nil {
		h.l.Debug("patch failed", "err", err)
		return
	}
	h.l.Debug("patch applied", "anims", clips, "trans", edges, "took", d.Round(time.Microsecond))
}

type renderLogHooks struct{ l *log.Logger }

func (h renderLogHooks) OnRenderStart(_ context.Context, format string, nodes int) {
	h.l.Debug("rendering", "format", format, "nodes", nodes)
}

func (h renderLogHooks) OnRenderComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.l.Debug("render failed", "format", format, "err", err)
		return
	}
	h.l.Debug("rendered", "format", format, "bytes", size, "took", d.Round(time.Microsecond))
}
