package stores

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/colonyops/taskboard/internal/core/board"
	"github.com/colonyops/taskboard/internal/core/task"
	"github.com/colonyops/taskboard/internal/core/validation"
)

// MemoryStore is the in-memory task store. Task numbers are positional: the
// list index plus one, renumbered on every read, so deletes keep the sequence
// dense.
type MemoryStore struct {
	mu          sync.RWMutex
	tasks       []task.Task
	statusSet   []string
	validations validation.Sets
	savePath    string
}

var _ board.Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	statuses := append([]string(nil), task.DefaultStatuses...)
	return &MemoryStore{
		statusSet: statuses,
		validations: validation.Sets{
			validation.FieldStatus:   append([]string(nil), statuses...),
			validation.FieldPriority: append([]string(nil), task.DefaultPriorityOptions...),
		},
	}
}

// NewSampleStore creates an in-memory store seeded with demo tasks spread
// around today's date.
func NewSampleStore() *MemoryStore {
	s := NewMemoryStore()

	majors := []string{"プロジェクトA", "プロジェクトB", "プロジェクトC"}
	minors := []string{"企画", "設計", "実装", "検証"}
	assignees := []string{"田中", "佐藤", "鈴木", "高橋"}
	priorities := []string{"高", "中", "低"}

	today := time.Now()
	for i := 0; i < 8; i++ {
		notes := ""
		if i%2 == 0 {
			notes = "サンプルデータ"
		}
		s.tasks = append(s.tasks, task.Task{
			Status:        s.statusSet[i%len(s.statusSet)],
			MajorCategory: majors[i%len(majors)],
			MinorCategory: minors[i%len(minors)],
			Title:         fmt.Sprintf("サンプルタスク %d", i+1),
			Assignee:      assignees[i%len(assignees)],
			Priority:      priorities[i%len(priorities)],
			DueDate:       task.FormatISODate(today.AddDate(0, 0, i-2)),
			Notes:         notes,
		})
	}
	s.validations[validation.FieldMajor] = append([]string(nil), majors...)
	s.validations[validation.FieldMinor] = append([]string(nil), minors...)
	return s
}

// WithSavePath points SaveToFile and ReloadFromFile at a JSON board file.
func (s *MemoryStore) WithSavePath(path string) *MemoryStore {
	s.savePath = path
	return s
}

func (s *MemoryStore) addStatus(status string) {
	for _, existing := range s.statusSet {
		if existing == status {
			return
		}
	}
	s.statusSet = append(s.statusSet, status)
}

// normalizeTask applies the store-side write rules: empty status falls back
// to the first base status, title is required, due dates are reformatted.
func (s *MemoryStore) normalizeTask(t task.Task) (task.Task, error) {
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return task.Task{}, board.ErrInvalidTask
	}

	t.Status = strings.TrimSpace(t.Status)
	if t.Status == "" && len(s.statusSet) > 0 {
		t.Status = s.statusSet[0]
	}
	s.addStatus(t.Status)

	t.MajorCategory = strings.TrimSpace(t.MajorCategory)
	t.MinorCategory = strings.TrimSpace(t.MinorCategory)
	t.Assignee = strings.TrimSpace(t.Assignee)
	t.Priority = strings.TrimSpace(t.Priority)

	if due, ok := task.ParseISODate(t.DueDate); ok {
		t.DueDate = task.FormatISODate(due)
	} else {
		t.DueDate = ""
	}
	return t, nil
}

func (s *MemoryStore) numbered() []task.Task {
	out := make([]task.Task, len(s.tasks))
	for i, t := range s.tasks {
		t.No = i + 1
		out[i] = t
	}
	return out
}

func (s *MemoryStore) locate(no int) (int, error) {
	idx := no - 1
	if idx < 0 || idx >= len(s.tasks) {
		return 0, board.ErrNotFound
	}
	return idx, nil
}

// ListTasks returns all tasks with dense sequential numbers.
func (s *MemoryStore) ListTasks(_ context.Context) ([]task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.numbered(), nil
}

// ListStatuses returns every status observed so far, in first-seen order.
func (s *MemoryStore) ListStatuses(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.statusSet...), nil
}

// GetValidationSets returns the suggestion lists.
func (s *MemoryStore) GetValidationSets(_ context.Context) (validation.Sets, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.validations.Clone(), nil
}

// UpdateValidationSets replaces the suggestion lists, applying the standard
// fallbacks, and folds validated statuses into the status universe.
func (s *MemoryStore) UpdateValidationSets(_ context.Context, sets validation.Sets) (validation.Sets, []string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.validations = validation.Normalize(sets)
	if len(s.validations[validation.FieldStatus]) == 0 {
		s.validations[validation.FieldStatus] = append([]string(nil), s.statusSet...)
	}
	for _, status := range s.validations[validation.FieldStatus] {
		s.addStatus(status)
	}
	return s.validations.Clone(), append([]string(nil), s.statusSet...), nil
}

// AddTask appends a task and returns it with its assigned number.
func (s *MemoryStore) AddTask(_ context.Context, t task.Task) (task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.normalizeTask(t)
	if err != nil {
		return task.Task{}, err
	}
	s.tasks = append(s.tasks, record)
	record.No = len(s.tasks)
	return record, nil
}

// UpdateTask merges a patch into the addressed task.
func (s *MemoryStore) UpdateTask(_ context.Context, no int, patch task.Patch) (task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.locate(no)
	if err != nil {
		return task.Task{}, err
	}
	record, err := s.normalizeTask(patch.Apply(s.tasks[idx]))
	if err != nil {
		return task.Task{}, err
	}
	s.tasks[idx] = record
	record.No = idx + 1
	return record, nil
}

// DeleteTask removes the addressed task; later tasks renumber implicitly.
func (s *MemoryStore) DeleteTask(_ context.Context, no int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.locate(no)
	if err != nil {
		return err
	}
	s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
	return nil
}

// MoveTask is the status-only convenience over UpdateTask.
func (s *MemoryStore) MoveTask(ctx context.Context, no int, status string) (task.Task, error) {
	return s.UpdateTask(ctx, no, task.Patch{Status: &status})
}

// SaveToFile writes the board to the configured path.
func (s *MemoryStore) SaveToFile(_ context.Context) (string, error) {
	s.mu.RLock()
	doc := boardDocument{
		Tasks:       s.numbered(),
		Statuses:    append([]string(nil), s.statusSet...),
		Validations: s.validations.Clone(),
	}
	s.mu.RUnlock()

	if s.savePath == "" {
		return "", board.ErrNoFile
	}
	if err := writeBoardDocument(s.savePath, doc); err != nil {
		return "", err
	}
	return s.savePath, nil
}

// ReloadFromFile re-reads the configured path and replaces in-memory state.
func (s *MemoryStore) ReloadFromFile(ctx context.Context) (board.Snapshot, error) {
	if s.savePath == "" {
		return board.Snapshot{}, board.ErrNoFile
	}
	doc, err := readBoardDocument(s.savePath)
	if err != nil {
		return board.Snapshot{}, err
	}

	s.mu.Lock()
	s.tasks = append([]task.Task(nil), doc.Tasks...)
	s.statusSet = append([]string(nil), doc.Statuses...)
	s.validations = validation.Normalize(doc.Validations)
	s.mu.Unlock()

	return s.Snapshot(ctx)
}

// Snapshot returns current state without touching any file.
func (s *MemoryStore) Snapshot(_ context.Context) (board.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return board.Snapshot{
		Tasks:       s.numbered(),
		Statuses:    append([]string(nil), s.statusSet...),
		Validations: s.validations.Clone(),
	}, nil
}
