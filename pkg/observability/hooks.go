// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about file I/O, patch application, and graph rendering.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Library packages never log. The CLI registers hooks that forward these
// events to its logger at debug level.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetIOHooks(&myIOHooks{})
//	    observability.SetPatchHooks(&myPatchHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.IO().OnReadStart(ctx, path, "kfm")
//	// ... decode ...
//	observability.IO().OnReadComplete(ctx, path, "kfm", size, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// IO Hooks
// =============================================================================

// IOHooks receives events from reading and writing asset files.
type IOHooks interface {
	OnReadStart(ctx context.Context, path, format string)
	OnReadComplete(ctx context.Context, path, format string, size int, duration time.Duration, err error)

	OnWriteStart(ctx context.Context, path, format string)
	OnWriteComplete(ctx context.Context, path, format string, size int, duration time.Duration, err error)

	// OnTrailingData reports bytes after the end of a decoded binary file.
	// They are not part of the asset and are dropped on re-export.
	OnTrailingData(ctx context.Context, path string, n int)
}

// =============================================================================
// Patch Hooks
// =============================================================================

// PatchHooks receives events from the patch engine. Patch application is
// synchronous and takes no context, so neither do these hooks.
type PatchHooks interface {
	// OnPatchStart records the number of top-level instructions.
	OnPatchStart(instructions int)

	// OnInstruction records one resolved instruction. Scope is "anim" or
	// "tran"; matched is the number of ids the selector resolved to.
	OnInstruction(scope, op string, matched int)

	// OnPatchComplete records the graph size after application.
	OnPatchComplete(clips, edges int, duration time.Duration, err error)
}

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events from graph rendering.
type RenderHooks interface {
	OnRenderStart(ctx context.Context, format string, nodes int)
	OnRenderComplete(ctx context.Context, format string, size int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopIOHooks is a no-op implementation of IOHooks.
type NoopIOHooks struct{}

func (NoopIOHooks) OnReadStart(context.Context, string, string) {}
func (NoopIOHooks) OnReadComplete(context.Context, string, string, int, time.Duration, error) {
}
func (NoopIOHooks) OnWriteStart(context.Context, string, string) {}
func (NoopIOHooks) OnWriteComplete(context.Context, string, string, int, time.Duration, error) {
}
func (NoopIOHooks) OnTrailingData(context.Context, string, int) {}

// NoopPatchHooks is a no-op implementation of PatchHooks.
type NoopPatchHooks struct{}

func (NoopPatchHooks) OnPatchStart(int)                                {}
func (NoopPatchHooks) OnInstruction(string, string, int)               {}
func (NoopPatchHooks) OnPatchComplete(int, int, time.Duration, error) {}

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnRenderStart(context.Context, string, int)                       {}
func (NoopRenderHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	ioHooks     IOHooks     = NoopIOHooks{}
	patchHooks  PatchHooks  = NoopPatchHooks{}
	renderHooks RenderHooks = NoopRenderHooks{}
	hooksMu     sync.RWMutex
)

// SetIOHooks registers custom I/O hooks.
// This should be called once at application startup before any file operations.
func SetIOHooks(h IOHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		ioHooks = h
	}
}

// SetPatchHooks registers custom patch hooks.
func SetPatchHooks(h PatchHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		patchHooks = h
	}
}

// SetRenderHooks registers custom render hooks.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// IO returns the registered I/O hooks.
func IO() IOHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return ioHooks
}

// Patch returns the registered patch hooks.
func Patch() PatchHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return patchHooks
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	ioHooks = NoopIOHooks{}
	patchHooks = NoopPatchHooks{}
	renderHooks = NoopRenderHooks{}
}
