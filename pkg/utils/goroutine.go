package utils

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"stock-ai-predictor/pkg/logger"
)

// GoSafe runs fn in a goroutine and recovers from panics so one bad
// instrument cannot take the process down.
func GoSafe(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				fmt.Fprintf(os.Stderr, "recovered from panic: %v\n%s\n", r, debug.Stack())
			}
		}()
		fn()
	}()
}

// ShouldContinue reports whether ctx is still live, logging when it is not.
func ShouldContinue(ctx context.Context, log *logger.Logger) bool {
	select {
	case <-ctx.Done():
		log.WarnContext(ctx, "Context done, stopping", logger.ErrorField(ctx.Err()))
		return false
	default:
		return true
	}
}
