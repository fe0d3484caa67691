// Package tasks provides a fire-and-forget background task runner. Task
// failures are captured into a log sink and never propagated to the caller;
// local state is the source of truth and best-effort side effects must not
// block or fail the operations that trigger them.
package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Runner launches background tasks and records their outcomes.
type Runner struct {
	logger *slog.Logger
	wg     sync.WaitGroup
}

// NewRunner constructs a runner that reports failures through the provided
// logger. A nil logger falls back to slog.Default.
func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{logger: logger}
}

// Go runs fn on its own goroutine. Errors and panics are logged under the
// task name and otherwise discarded; there is no retry.
func (r *Runner) Go(name string, fn func(context.Context) error) {
	if r == nil || fn == nil {
		return
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				r.logger.Error("background task panicked", "task", name, "panic", fmt.Sprint(rec))
			}
		}()
		if err := fn(context.Background()); err != nil {
			r.logger.Error("background task failed", "task", name, "error", err)
		}
	}()
}

// Wait blocks until all launched tasks have finished or ctx is done,
// whichever comes first.
func (r *Runner) Wait(ctx context.Context) error {
	if r == nil {
		return nil
	}
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
