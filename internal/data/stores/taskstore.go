package stores

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/colonyops/taskboard/internal/core/board"
	"github.com/colonyops/taskboard/internal/core/task"
	"github.com/colonyops/taskboard/internal/core/validation"
	"github.com/colonyops/taskboard/internal/data/db"
)

// TaskStore implements board.Store using SQLite. Task numbers come from the
// rowid sequence; deletes leave gaps, which the client sanitization layer
// tolerates.
type TaskStore struct {
	db *db.DB
	// exportPath is where SaveToFile writes the JSON board document.
	exportPath string
}

var _ board.Store = (*TaskStore)(nil)

// NewTaskStore creates a new SQLite-backed task store.
func NewTaskStore(database *db.DB, exportPath string) *TaskStore {
	return &TaskStore{db: database, exportPath: exportPath}
}

type taskRow struct {
	No            int    `db:"no"`
	Status        string `db:"status"`
	MajorCategory string `db:"major_category"`
	MinorCategory string `db:"minor_category"`
	Title         string `db:"title"`
	Assignee      string `db:"assignee"`
	Priority      string `db:"priority"`
	DueDate       string `db:"due_date"`
	Notes         string `db:"notes"`
	CreatedAt     int64  `db:"created_at"`
	UpdatedAt     int64  `db:"updated_at"`
}

func rowToTask(row taskRow) task.Task {
	return task.Task{
		No:            row.No,
		Status:        row.Status,
		MajorCategory: row.MajorCategory,
		MinorCategory: row.MinorCategory,
		Title:         row.Title,
		Assignee:      row.Assignee,
		Priority:      row.Priority,
		DueDate:       row.DueDate,
		Notes:         row.Notes,
	}
}

// ListTasks returns all tasks ordered by number.
func (s *TaskStore) ListTasks(ctx context.Context) ([]task.Task, error) {
	var rows []taskRow
	err := s.db.Conn().SelectContext(ctx, &rows, `SELECT * FROM tasks ORDER BY no`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := make([]task.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, rowToTask(row))
	}
	return tasks, nil
}

// ListStatuses returns validated statuses plus statuses observed on tasks.
func (s *TaskStore) ListStatuses(ctx context.Context) ([]string, error) {
	sets, err := s.GetValidationSets(ctx)
	if err != nil {
		return nil, err
	}
	statuses := sets.Values(validation.FieldStatus)
	if len(statuses) == 0 {
		statuses = append([]string(nil), task.DefaultStatuses...)
	}

	var observed []string
	err = s.db.Conn().SelectContext(ctx, &observed,
		`SELECT status FROM tasks WHERE TRIM(status) != '' GROUP BY status ORDER BY MIN(no)`)
	if err != nil {
		return nil, fmt.Errorf("failed to list statuses: %w", err)
	}

	seen := make(map[string]struct{}, len(statuses))
	out := append([]string(nil), statuses...)
	for _, st := range statuses {
		seen[st] = struct{}{}
	}
	for _, st := range observed {
		if _, ok := seen[st]; !ok {
			seen[st] = struct{}{}
			out = append(out, st)
		}
	}
	return out, nil
}

// GetValidationSets returns the stored suggestion lists with fallbacks.
func (s *TaskStore) GetValidationSets(ctx context.Context) (validation.Sets, error) {
	var rows []struct {
		Field string `db:"field"`
		Value string `db:"value"`
	}
	err := s.db.Conn().SelectContext(ctx, &rows,
		`SELECT field, value FROM validation_sets ORDER BY field, pos`)
	if err != nil {
		return nil, fmt.Errorf("failed to get validation sets: %w", err)
	}

	sets := make(validation.Sets)
	for _, row := range rows {
		sets[row.Field] = append(sets[row.Field], row.Value)
	}
	return validation.Normalize(sets), nil
}

// UpdateValidationSets replaces the suggestion lists in one transaction.
func (s *TaskStore) UpdateValidationSets(ctx context.Context, sets validation.Sets) (validation.Sets, []string, error) {
	normalized := validation.Normalize(sets)

	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM validation_sets`); err != nil {
			return fmt.Errorf("clear validation sets: %w", err)
		}
		for field, values := range normalized {
			for pos, value := range values {
				_, err := tx.ExecContext(ctx,
					`INSERT INTO validation_sets (field, value, pos) VALUES (?, ?, ?)`,
					field, value, pos)
				if err != nil {
					return fmt.Errorf("insert validation value: %w", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to update validation sets: %w", err)
	}

	statuses, err := s.ListStatuses(ctx)
	if err != nil {
		return nil, nil, err
	}
	return normalized, statuses, nil
}

func normalizeWrite(t task.Task) (task.Task, error) {
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return task.Task{}, board.ErrInvalidTask
	}
	t.Status = strings.TrimSpace(t.Status)
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

// AddTask inserts a task and returns it with its assigned number.
func (s *TaskStore) AddTask(ctx context.Context, t task.Task) (task.Task, error) {
	record, err := normalizeWrite(t)
	if err != nil {
		return task.Task{}, err
	}

	now := time.Now().UnixMilli()
	res, err := s.db.Conn().ExecContext(ctx,
		`INSERT INTO tasks (status, major_category, minor_category, title, assignee, priority, due_date, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.Status, record.MajorCategory, record.MinorCategory, record.Title,
		record.Assignee, record.Priority, record.DueDate, record.Notes, now, now)
	if err != nil {
		return task.Task{}, fmt.Errorf("failed to add task: %w", err)
	}

	no, err := res.LastInsertId()
	if err != nil {
		return task.Task{}, fmt.Errorf("failed to read inserted task number: %w", err)
	}
	record.No = int(no)
	return record, nil
}

func (s *TaskStore) getTask(ctx context.Context, no int) (task.Task, error) {
	var row taskRow
	err := s.db.Conn().GetContext(ctx, &row, `SELECT * FROM tasks WHERE no = ?`, no)
	if IsNotFoundError(err) {
		return task.Task{}, board.ErrNotFound
	}
	if err != nil {
		return task.Task{}, fmt.Errorf("failed to get task: %w", err)
	}
	return rowToTask(row), nil
}

// UpdateTask merges a patch into the addressed task.
func (s *TaskStore) UpdateTask(ctx context.Context, no int, patch task.Patch) (task.Task, error) {
	current, err := s.getTask(ctx, no)
	if err != nil {
		return task.Task{}, err
	}

	record, err := normalizeWrite(patch.Apply(current))
	if err != nil {
		return task.Task{}, err
	}

	_, err = s.db.Conn().ExecContext(ctx,
		`UPDATE tasks SET status = ?, major_category = ?, minor_category = ?, title = ?,
		 assignee = ?, priority = ?, due_date = ?, notes = ?, updated_at = ?
		 WHERE no = ?`,
		record.Status, record.MajorCategory, record.MinorCategory, record.Title,
		record.Assignee, record.Priority, record.DueDate, record.Notes,
		time.Now().UnixMilli(), no)
	if err != nil {
		return task.Task{}, fmt.Errorf("failed to update task: %w", err)
	}

	record.No = no
	return record, nil
}

// DeleteTask removes the addressed task. Returns board.ErrNotFound when the
// number does not exist.
func (s *TaskStore) DeleteTask(ctx context.Context, no int) error {
	res, err := s.db.Conn().ExecContext(ctx, `DELETE FROM tasks WHERE no = ?`, no)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if affected == 0 {
		return board.ErrNotFound
	}
	return nil
}

// MoveTask is the status-only convenience over UpdateTask.
func (s *TaskStore) MoveTask(ctx context.Context, no int, status string) (task.Task, error) {
	return s.UpdateTask(ctx, no, task.Patch{Status: &status})
}

// SaveToFile exports the board as a JSON document.
func (s *TaskStore) SaveToFile(ctx context.Context) (string, error) {
	if s.exportPath == "" {
		return "", board.ErrNoFile
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	doc := boardDocument(snap)
	if err := writeBoardDocument(s.exportPath, doc); err != nil {
		return "", err
	}
	return s.exportPath, nil
}

// ReloadFromFile replaces database contents with the exported JSON document.
func (s *TaskStore) ReloadFromFile(ctx context.Context) (board.Snapshot, error) {
	if s.exportPath == "" {
		return board.Snapshot{}, board.ErrNoFile
	}
	doc, err := readBoardDocument(s.exportPath)
	if err != nil {
		return board.Snapshot{}, err
	}

	err = s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
			return fmt.Errorf("clear tasks: %w", err)
		}
		now := time.Now().UnixMilli()
		for _, t := range doc.Tasks {
			record, err := normalizeWrite(t)
			if err != nil {
				// Invalid rows in an imported file are skipped, not fatal.
				continue
			}
			_, err = tx.ExecContext(ctx,
				`INSERT INTO tasks (status, major_category, minor_category, title, assignee, priority, due_date, notes, created_at, updated_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				record.Status, record.MajorCategory, record.MinorCategory, record.Title,
				record.Assignee, record.Priority, record.DueDate, record.Notes, now, now)
			if err != nil {
				return fmt.Errorf("insert imported task: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return board.Snapshot{}, fmt.Errorf("failed to import board file: %w", err)
	}

	if len(doc.Validations) > 0 {
		if _, _, err := s.UpdateValidationSets(ctx, doc.Validations); err != nil {
			return board.Snapshot{}, err
		}
	}
	return s.Snapshot(ctx)
}

// Snapshot reads current state without touching the export file.
func (s *TaskStore) Snapshot(ctx context.Context) (board.Snapshot, error) {
	tasks, err := s.ListTasks(ctx)
	if err != nil {
		return board.Snapshot{}, err
	}
	statuses, err := s.ListStatuses(ctx)
	if err != nil {
		return board.Snapshot{}, err
	}
	sets, err := s.GetValidationSets(ctx)
	if err != nil {
		return board.Snapshot{}, err
	}
	return board.Snapshot{Tasks: tasks, Statuses: statuses, Validations: sets}, nil
}
