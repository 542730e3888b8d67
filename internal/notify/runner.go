package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"interviewhub/internal/shared/telemetry"
)

// Runner executes best-effort side effects after the primary write commits.
// Errors are logged with the task name and fields, never returned.
type Runner interface {
	Go(ctx context.Context, name string, fields map[string]any, fn func(ctx context.Context) error)
}

// Async runs tasks on their own goroutine with a detached, bounded context.
type Async struct {
	Timeout time.Duration
	wg      sync.WaitGroup
}

func NewAsync(timeout time.Duration) *Async {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Async{Timeout: timeout}
}

func (a *Async) Go(ctx context.Context, name string, fields map[string]any, fn func(ctx context.Context) error) {
	// The request context is cancelled once the response is written.
	base := context.WithoutCancel(ctx)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		taskCtx, cancel := context.WithTimeout(base, a.Timeout)
		defer cancel()
		run(taskCtx, name, fields, fn)
	}()
}

// Wait blocks until in-flight tasks finish or ctx is done.
func (a *Async) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Inline runs tasks synchronously on the caller's goroutine.
type Inline struct{}

func (Inline) Go(ctx context.Context, name string, fields map[string]any, fn func(ctx context.Context) error) {
	run(ctx, name, fields, fn)
}

func run(ctx context.Context, name string, fields map[string]any, fn func(ctx context.Context) error) {
	logFields := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		logFields[k] = v
	}
	logFields["task"] = name
	defer func() {
		if rec := recover(); rec != nil {
			logFields["error"] = fmt.Sprint(rec)
			telemetry.Error("notify.task_panic", logFields)
		}
	}()
	if err := fn(ctx); err != nil {
		logFields["error"] = err
		telemetry.Warn("notify.task_failed", logFields)
	}
}
