package async

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/m-mizutani/ctxlog"
)

// Dispatch executes a handler asynchronously with panic recovery.
//
// The handler runs on a fresh background context that preserves the ctxlog
// logger but not the caller's cancellation: a webhook response returning
// must not cancel the validation run it dispatched.
func Dispatch(ctx context.Context, operation string, handler func(ctx context.Context) error) {
	newCtx := newBackgroundContext(ctx)

	go func() {
		logger := ctxlog.From(newCtx)
		start := time.Now()

		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic in async handler",
					"operation", operation,
					"recover", r,
					"stack", string(debug.Stack()))
			}
		}()

		if err := handler(newCtx); err != nil {
			logger.Error("error in async handler",
				"operation", operation,
				"error", err,
				"duration_ms", time.Since(start).Milliseconds())
			return
		}

		logger.Info("async handler completed",
			"operation", operation,
			"duration_ms", time.Since(start).Milliseconds())
	}()
}

// newBackgroundContext creates a background context preserving the logger.
func newBackgroundContext(ctx context.Context) context.Context {
	return ctxlog.With(context.Background(), ctxlog.From(ctx))
}
