package domain

import "io"

// ProgressManager reports per-task progress for a lowering run to an
// interactive terminal, and is a silent no-op when stderr isn't a TTY.
type ProgressManager interface {
	// Initialize prepares progress tracking for a run covering totalFiles
	// input files.
	Initialize(totalFiles int)

	// StartTask marks a named task (a lowering run uses one task per input
	// file, named by its path) as started.
	StartTask(taskName string)

	// CompleteTask marks a named task as finished, successfully or not.
	CompleteTask(taskName string, success bool)

	// UpdateProgress reports how many of total units a task has processed.
	UpdateProgress(taskName string, processed, total int)

	// SetWriter changes the destination progress bars render to.
	SetWriter(writer io.Writer)

	// IsInteractive reports whether progress bars are being rendered.
	IsInteractive() bool

	// Close finishes any progress bars still open.
	Close()
}
