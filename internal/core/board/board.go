// Package board defines the backing-store contract every task source
// implements (in-memory, JSON file, SQLite) and the snapshot shape shared by
// reloads and realtime pushes.
package board

import (
	"context"
	"errors"

	"github.com/colonyops/taskboard/internal/core/task"
	"github.com/colonyops/taskboard/internal/core/validation"
)

var (
	// ErrNotFound is returned when a task number does not exist.
	ErrNotFound = errors.New("task not found")
	// ErrInvalidTask is returned when a write carries an empty title.
	ErrInvalidTask = errors.New("task title is required")
	// ErrNoFile is returned by file operations on stores without file backing.
	ErrNoFile = errors.New("store has no backing file")
)

// Snapshot is the full board state: the shape returned by Reload/Snapshot and
// delivered by realtime pushes.
type Snapshot struct {
	Tasks       []task.Task     `json:"tasks"`
	Statuses    []string        `json:"statuses"`
	Validations validation.Sets `json:"validations"`
}

// Store is the task backing store.
type Store interface {
	ListTasks(ctx context.Context) ([]task.Task, error)
	ListStatuses(ctx context.Context) ([]string, error)
	GetValidationSets(ctx context.Context) (validation.Sets, error)
	UpdateValidationSets(ctx context.Context, sets validation.Sets) (validation.Sets, []string, error)

	AddTask(ctx context.Context, t task.Task) (task.Task, error)
	UpdateTask(ctx context.Context, no int, patch task.Patch) (task.Task, error)
	DeleteTask(ctx context.Context, no int) error
	// MoveTask is the status-only convenience over UpdateTask used by
	// drag-and-drop style moves.
	MoveTask(ctx context.Context, no int, status string) (task.Task, error)

	// SaveToFile persists the board and returns a descriptor (a path).
	SaveToFile(ctx context.Context) (string, error)
	// ReloadFromFile re-reads the backing file and returns the new state.
	ReloadFromFile(ctx context.Context) (Snapshot, error)
	// Snapshot returns current state without touching the backing file.
	Snapshot(ctx context.Context) (Snapshot, error)
}
