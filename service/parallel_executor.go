package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/r7330980/gennm/domain"
	"golang.org/x/sync/errgroup"
)

// ParallelExecutorImpl implements domain.ParallelExecutor on top of
// errgroup, bounding concurrency with errgroup.Group.SetLimit instead of a
// hand-rolled semaphore.
type ParallelExecutorImpl struct {
	maxConcurrency int
	timeout        time.Duration
}

// NewParallelExecutor creates a new parallel executor.
func NewParallelExecutor() domain.ParallelExecutor {
	return &ParallelExecutorImpl{
		maxConcurrency: 0, // no limit by default
		timeout:        10 * time.Minute,
	}
}

// Execute runs tasks concurrently, stopping at the first failure.
func (pe *ParallelExecutorImpl) Execute(ctx context.Context, tasks []domain.ExecutableTask) error {
	if len(tasks) == 0 {
		return nil
	}

	if pe.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, pe.timeout)
		defer cancel()
	}

	g, gctx := errgroup.WithContext(ctx)
	if pe.maxConcurrency > 0 {
		g.SetLimit(pe.maxConcurrency)
	}

	for _, task := range tasks {
		if !task.IsEnabled() {
			continue
		}
		t := task
		g.Go(func() error {
			if _, err := t.Execute(gctx); err != nil {
				return fmt.Errorf("task %s failed: %w", t.Name(), err)
			}
			return nil
		})
	}

	err := g.Wait()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		if err == nil {
			err = ctx.Err()
		}
		return fmt.Errorf("parallel execution timed out after %v: %w", pe.timeout, err)
	}
	return err
}

// SetMaxConcurrency sets the maximum number of concurrent tasks.
func (pe *ParallelExecutorImpl) SetMaxConcurrency(max int) {
	pe.maxConcurrency = max
}

// SetTimeout sets the timeout for all tasks.
func (pe *ParallelExecutorImpl) SetTimeout(timeout time.Duration) {
	pe.timeout = timeout
}

// SimpleTask is a basic implementation of domain.ExecutableTask.
type SimpleTask struct {
	name    string
	enabled bool
	execute func(context.Context) (interface{}, error)
}

// NewSimpleTask creates a new simple task.
func NewSimpleTask(name string, enabled bool, execute func(context.Context) (interface{}, error)) domain.ExecutableTask {
	return &SimpleTask{
		name:    name,
		enabled: enabled,
		execute: execute,
	}
}

func (t *SimpleTask) Name() string {
	return t.name
}

func (t *SimpleTask) Execute(ctx context.Context) (interface{}, error) {
	if t.execute == nil {
		return nil, fmt.Errorf("task %s has no execute function", t.name)
	}
	return t.execute(ctx)
}

func (t *SimpleTask) IsEnabled() bool {
	return t.enabled
}
