package stores

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/taskboard/internal/core/board"
	"github.com/colonyops/taskboard/internal/core/task"
	"github.com/colonyops/taskboard/internal/core/validation"
)

func TestMemoryStore_AddTask(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	t.Run("assigns sequential numbers", func(t *testing.T) {
		first, err := s.AddTask(ctx, task.Task{Title: "一つ目"})
		require.NoError(t, err)
		assert.Equal(t, 1, first.No)

		second, err := s.AddTask(ctx, task.Task{Title: "二つ目"})
		require.NoError(t, err)
		assert.Equal(t, 2, second.No)
	})

	t.Run("empty status falls back to first base status", func(t *testing.T) {
		created, err := s.AddTask(ctx, task.Task{Title: "status fallback", Status: "  "})
		require.NoError(t, err)
		assert.Equal(t, task.DefaultStatuses[0], created.Status)
	})

	t.Run("empty title rejected", func(t *testing.T) {
		_, err := s.AddTask(ctx, task.Task{Title: "   "})
		assert.ErrorIs(t, err, board.ErrInvalidTask)
	})

	t.Run("due date reformatted or cleared", func(t *testing.T) {
		created, err := s.AddTask(ctx, task.Task{Title: "due", DueDate: " 2026-03-05 "})
		require.NoError(t, err)
		assert.Equal(t, "2026-03-05", created.DueDate)

		created, err = s.AddTask(ctx, task.Task{Title: "bad due", DueDate: "来週"})
		require.NoError(t, err)
		assert.Equal(t, "", created.DueDate)
	})

	t.Run("new statuses grow the status set", func(t *testing.T) {
		_, err := s.AddTask(ctx, task.Task{Title: "novel", Status: "レビュー中"})
		require.NoError(t, err)

		statuses, err := s.ListStatuses(ctx)
		require.NoError(t, err)
		assert.Contains(t, statuses, "レビュー中")
	})
}

func TestMemoryStore_DeleteRenumbers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	for _, title := range []string{"a", "b", "c"} {
		_, err := s.AddTask(ctx, task.Task{Title: title})
		require.NoError(t, err)
	}

	require.NoError(t, s.DeleteTask(ctx, 2))

	tasks, err := s.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, 1, tasks[0].No)
	assert.Equal(t, "a", tasks[0].Title)
	// The former task 3 is now task 2.
	assert.Equal(t, 2, tasks[1].No)
	assert.Equal(t, "c", tasks[1].Title)

	assert.ErrorIs(t, s.DeleteTask(ctx, 3), board.ErrNotFound)
}

func TestMemoryStore_UpdateTask(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_, err := s.AddTask(ctx, task.Task{Title: "original", Assignee: "田中"})
	require.NoError(t, err)

	title := "renamed"
	updated, err := s.UpdateTask(ctx, 1, task.Patch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, "田中", updated.Assignee)

	empty := " "
	_, err = s.UpdateTask(ctx, 1, task.Patch{Title: &empty})
	assert.ErrorIs(t, err, board.ErrInvalidTask)

	_, err = s.UpdateTask(ctx, 42, task.Patch{Title: &title})
	assert.ErrorIs(t, err, board.ErrNotFound)
}

func TestMemoryStore_MoveTask(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_, err := s.AddTask(ctx, task.Task{Title: "moving", Status: "未着手"})
	require.NoError(t, err)

	moved, err := s.MoveTask(ctx, 1, "進行中")
	require.NoError(t, err)
	assert.Equal(t, "進行中", moved.Status)

	// Moving to empty re-applies the fallback.
	moved, err = s.MoveTask(ctx, 1, "")
	require.NoError(t, err)
	assert.Equal(t, task.DefaultStatuses[0], moved.Status)
}

func TestMemoryStore_UpdateValidationSets(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	sets, statuses, err := s.UpdateValidationSets(ctx, validation.Sets{
		validation.FieldStatus: {"未着手", "レビュー中"},
		validation.FieldMajor:  {"開発"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"未着手", "レビュー中"}, sets[validation.FieldStatus])
	assert.Equal(t, []string{"開発"}, sets[validation.FieldMajor])
	// Validated statuses fold into the status universe without dropping the
	// existing entries.
	assert.Contains(t, statuses, "レビュー中")
	assert.Contains(t, statuses, "進行中")
}

func TestMemoryStore_SampleData(t *testing.T) {
	ctx := context.Background()
	s := NewSampleStore()

	tasks, err := s.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 8)

	for i, got := range tasks {
		assert.Equal(t, i+1, got.No)
		assert.NotEmpty(t, got.Title)
		assert.NotEmpty(t, got.DueDate)
	}

	sets, err := s.GetValidationSets(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, sets[validation.FieldMajor])
	assert.NotEmpty(t, sets[validation.FieldMinor])
}

func TestMemoryStore_FileRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "board.json")

	s := NewMemoryStore().WithSavePath(path)
	_, err := s.AddTask(ctx, task.Task{Title: "persisted", Status: "進行中", DueDate: "2026-03-05"})
	require.NoError(t, err)

	saved, err := s.SaveToFile(ctx)
	require.NoError(t, err)
	assert.Equal(t, path, saved)

	// Mutate, then reload to the saved state.
	_, err = s.AddTask(ctx, task.Task{Title: "transient"})
	require.NoError(t, err)

	snap, err := s.ReloadFromFile(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Tasks, 1)
	assert.Equal(t, "persisted", snap.Tasks[0].Title)
	assert.Contains(t, snap.Statuses, "進行中")
}

func TestMemoryStore_NoFile(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.SaveToFile(ctx)
	assert.ErrorIs(t, err, board.ErrNoFile)

	_, err = s.ReloadFromFile(ctx)
	assert.ErrorIs(t, err, board.ErrNoFile)
}
