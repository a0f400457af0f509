// Package goroutine provides utilities for safely launching goroutines with panic recovery.
package goroutine

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/guildkeeper/guildkeeper/internal/shared/logger"
	"github.com/guildkeeper/guildkeeper/internal/shared/metrics"
)

// SafeGo launches a goroutine with panic recovery. If the goroutine panics,
// the panic is caught and logged with stack trace instead of crashing the process.
func SafeGo(log logger.Interface, name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Errorw("goroutine panicked",
					"goroutine", name,
					"panic", fmt.Sprintf("%v", r),
					"stack", string(debug.Stack()),
				)
			}
		}()
		fn()
	}()
}

// BestEffort runs a side effect inline and reports whether it succeeded.
// Errors and panics are logged and counted, never returned: the caller's
// primary action must not fail because of them.
func BestEffort(ctx context.Context, log logger.Interface, name string, fn func(ctx context.Context) error, keysAndValues ...interface{}) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			metrics.RecordSideEffectFailure(name)
			log.Errorw("side effect panicked",
				append([]interface{}{
					"side_effect", name,
					"panic", fmt.Sprintf("%v", r),
					"stack", string(debug.Stack()),
				}, keysAndValues...)...,
			)
			ok = false
		}
	}()

	if err := fn(ctx); err != nil {
		metrics.RecordSideEffectFailure(name)
		log.Warnw("side effect failed",
			append([]interface{}{"side_effect", name, "error", err}, keysAndValues...)...,
		)
		return false
	}
	return true
}
