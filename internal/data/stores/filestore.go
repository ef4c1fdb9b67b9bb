package stores

import (
	"context"
	"os"

	"github.com/colonyops/taskboard/internal/core/board"
	"github.com/colonyops/taskboard/internal/core/task"
	"github.com/colonyops/taskboard/internal/core/validation"
)

// FileStore keeps the board in memory and persists it to a JSON board file.
// It wraps a MemoryStore for all task operations; only load and save touch
// the disk.
type FileStore struct {
	path string
	mem  *MemoryStore
}

var _ board.Store = (*FileStore)(nil)

// NewFileStore opens a file-backed store. A missing file starts empty and is
// created on first save.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, mem: NewMemoryStore().WithSavePath(path)}

	if _, err := os.Stat(path); err == nil {
		doc, err := readBoardDocument(path)
		if err != nil {
			return nil, err
		}
		s.mem.tasks = append([]task.Task(nil), doc.Tasks...)
		if len(doc.Statuses) > 0 {
			s.mem.statusSet = append([]string(nil), doc.Statuses...)
		}
		s.mem.validations = validation.Normalize(doc.Validations)
	}
	return s, nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) ListTasks(ctx context.Context) ([]task.Task, error) {
	return s.mem.ListTasks(ctx)
}

func (s *FileStore) ListStatuses(ctx context.Context) ([]string, error) {
	return s.mem.ListStatuses(ctx)
}

func (s *FileStore) GetValidationSets(ctx context.Context) (validation.Sets, error) {
	return s.mem.GetValidationSets(ctx)
}

func (s *FileStore) UpdateValidationSets(ctx context.Context, sets validation.Sets) (validation.Sets, []string, error) {
	validations, statuses, err := s.mem.UpdateValidationSets(ctx, sets)
	if err != nil {
		return nil, nil, err
	}
	_, err = s.mem.SaveToFile(ctx)
	return validations, statuses, err
}

func (s *FileStore) AddTask(ctx context.Context, t task.Task) (task.Task, error) {
	created, err := s.mem.AddTask(ctx, t)
	if err != nil {
		return task.Task{}, err
	}
	if _, err := s.mem.SaveToFile(ctx); err != nil {
		return created, err
	}
	return created, nil
}

func (s *FileStore) UpdateTask(ctx context.Context, no int, patch task.Patch) (task.Task, error) {
	updated, err := s.mem.UpdateTask(ctx, no, patch)
	if err != nil {
		return task.Task{}, err
	}
	if _, err := s.mem.SaveToFile(ctx); err != nil {
		return updated, err
	}
	return updated, nil
}

func (s *FileStore) DeleteTask(ctx context.Context, no int) error {
	if err := s.mem.DeleteTask(ctx, no); err != nil {
		return err
	}
	_, err := s.mem.SaveToFile(ctx)
	return err
}

func (s *FileStore) MoveTask(ctx context.Context, no int, status string) (task.Task, error) {
	return s.UpdateTask(ctx, no, task.Patch{Status: &status})
}

func (s *FileStore) SaveToFile(ctx context.Context) (string, error) {
	return s.mem.SaveToFile(ctx)
}

func (s *FileStore) ReloadFromFile(ctx context.Context) (board.Snapshot, error) {
	return s.mem.ReloadFromFile(ctx)
}

func (s *FileStore) Snapshot(ctx context.Context) (board.Snapshot, error) {
	return s.mem.Snapshot(ctx)
}
