// Package observability provides hooks for metrics, tracing, and logging.
//
// Instrumentation is optional and carries no backend dependency. Consumers
// register hooks at startup and receive an event as each pipeline stage
// finishes.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    // ... run application
//	}
//
// The pipeline calls hooks to emit events:
//
//	observability.Pipeline().OnLoadComplete(ctx, valid, skipped, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the grid pipeline.
type PipelineHooks interface {
	// OnLoadComplete fires after discovery and decoding with the number of
	// usable and skipped files.
	OnLoadComplete(ctx context.Context, valid, skipped int, duration time.Duration)

	// OnComposeComplete fires after the canvas is built and filled.
	OnComposeComplete(ctx context.Context, width, height int, duration time.Duration, err error)

	// OnSaveComplete fires after the sheet is written.
	OnSaveComplete(ctx context.Context, path string, bytes int64, duration time.Duration, err error)

	// OnCopyComplete fires after the copy-and-rename pass.
	OnCopyComplete(ctx context.Context, copied, failed int, duration time.Duration)

	// OnFileSkipped fires for every file dropped at any stage.
	OnFileSkipped(ctx context.Context, file, stage, reason string)
}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadComplete(context.Context, int, int, time.Duration)             {}
func (NoopPipelineHooks) OnComposeComplete(context.Context, int, int, time.Duration, error)   {}
func (NoopPipelineHooks) OnSaveComplete(context.Context, string, int64, time.Duration, error) {}
func (NoopPipelineHooks) OnCopyComplete(context.Context, int, int, time.Duration)             {}
func (NoopPipelineHooks) OnFileSkipped(context.Context, string, string, string)               {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline runs.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
}
