// Package observability provides hooks for metrics, tracing, and logging.
//
// Consumers register hooks at startup to receive events about renderer
// probing, render invocations, and doclet warning suppression. Nothing in
// apiviz depends on a specific metrics backend; the defaults are no-ops.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetRenderHooks(&myRenderHooks{})
//	    observability.SetDocletHooks(&myDocletHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Render().OnRenderStart(ctx, id, executable)
//	// ... drive the renderer ...
//	observability.Render().OnRenderComplete(ctx, id, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events from the Graphviz renderer driver.
type RenderHooks interface {
	// OnProbe records an availability check of the renderer executable.
	OnProbe(ctx context.Context, executable string, available bool, duration time.Duration)

	// OnRenderStart records a renderer process about to be spawned.
	OnRenderStart(ctx context.Context, id, executable string)

	// OnRenderComplete records the end of a render, successful or not.
	OnRenderComplete(ctx context.Context, id string, duration time.Duration, err error)
}

// =============================================================================
// Doclet Hooks
// =============================================================================

// DocletHooks receives events from the documentation-model interceptor.
type DocletHooks interface {
	// OnWarningSuppressed records a host warning dropped because it concerns
	// one of apiviz's own tags.
	OnWarningSuppressed(tag, message string)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnProbe(context.Context, string, bool, time.Duration)           {}
func (NoopRenderHooks) OnRenderStart(context.Context, string, string)                  {}
func (NoopRenderHooks) OnRenderComplete(context.Context, string, time.Duration, error) {}

// NoopDocletHooks is a no-op implementation of DocletHooks.
type NoopDocletHooks struct{}

func (NoopDocletHooks) OnWarningSuppressed(string, string) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	renderHooks RenderHooks = NoopRenderHooks{}
	docletHooks DocletHooks = NoopDocletHooks{}
	hooksMu     sync.RWMutex
)

// SetRenderHooks registers custom render hooks.
// This should be called once at application startup before any render.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// SetDocletHooks registers custom doclet hooks.
func SetDocletHooks(h DocletHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		docletHooks = h
	}
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// Doclet returns the registered doclet hooks.
func Doclet() DocletHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return docletHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	renderHooks = NoopRenderHooks{}
	docletHooks = NoopDocletHooks{}
}
