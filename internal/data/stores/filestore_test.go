package stores

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/taskboard/internal/core/task"
	"github.com/colonyops/taskboard/internal/core/validation"
)

func TestFileStore_PersistsEveryWrite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "board.json")

	s, err := NewFileStore(path)
	require.NoError(t, err)

	created, err := s.AddTask(ctx, task.Task{Title: "書き込み", Status: "進行中"})
	require.NoError(t, err)

	// A second store over the same file sees the write.
	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	tasks, err := reopened.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, created.Title, tasks[0].Title)

	// Updates and deletes flush too.
	title := "改名"
	_, err = s.UpdateTask(ctx, 1, task.Patch{Title: &title})
	require.NoError(t, err)
	require.NoError(t, s.DeleteTask(ctx, 1))

	reopened, err = NewFileStore(path)
	require.NoError(t, err)
	tasks, err = reopened.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestFileStore_MissingFileStartsEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nope", "board.json")

	s, err := NewFileStore(path)
	require.NoError(t, err)

	tasks, err := s.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	statuses, err := s.ListStatuses(ctx)
	require.NoError(t, err)
	assert.Equal(t, task.DefaultStatuses, statuses)

	// First save creates the directory and file.
	_, err = s.AddTask(ctx, task.Task{Title: "初回"})
	require.NoError(t, err)
	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}

func TestFileStore_CorruptFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	_, err := NewFileStore(path)
	assert.Error(t, err)
}

func TestFileStore_ValidationSetsPersist(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "board.json")

	s, err := NewFileStore(path)
	require.NoError(t, err)

	_, _, err = s.UpdateValidationSets(ctx, validation.Sets{
		validation.FieldMajor: {"開発", "運用"},
	})
	require.NoError(t, err)

	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	sets, err := reopened.GetValidationSets(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"開発", "運用"}, sets[validation.FieldMajor])
}
