package domain

import (
	"context"
	"time"
)

// ExecutableTask is one unit of work a ParallelExecutor can run concurrently
// with others, such as lowering a single file's functions.
type ExecutableTask interface {
	// Name identifies the task for error reporting.
	Name() string

	// Execute runs the task, returning an implementation-defined result.
	Execute(ctx context.Context) (interface{}, error)

	// IsEnabled reports whether the task should run at all.
	IsEnabled() bool
}

// ParallelExecutor runs a batch of ExecutableTasks under a concurrency cap
// and an overall timeout, aggregating the first failure.
type ParallelExecutor interface {
	Execute(ctx context.Context, tasks []ExecutableTask) error
	SetMaxConcurrency(max int)
	SetTimeout(timeout time.Duration)
}
