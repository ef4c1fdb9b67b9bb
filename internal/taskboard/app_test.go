package taskboard

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/taskboard/internal/core/config"
	"github.com/colonyops/taskboard/internal/core/task"
	"github.com/colonyops/taskboard/internal/core/view"
	"github.com/colonyops/taskboard/internal/data/stores"
	"github.com/colonyops/taskboard/internal/data/watch"
)

func TestWatchBoard_PushesToEveryController(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "board.json")

	store, err := stores.NewFileStore(path)
	require.NoError(t, err)
	_, err = store.AddTask(ctx, task.Task{Title: "既存", Status: "未着手"})
	require.NoError(t, err)

	watcher, err := watch.NewBoardWatcher(path)
	require.NoError(t, err)

	app := NewApp(&config.Config{}, store, nil, watcher)
	defer app.Close()

	kanban, err := app.Controller(ctx, view.KeyKanban)
	require.NoError(t, err)
	list, err := app.Controller(ctx, view.KeyList)
	require.NoError(t, err)

	pushed := make(chan struct{}, 1)
	app.WatchBoard(ctx, func() {
		select {
		case pushed <- struct{}{}:
		default:
		}
	})

	// An outside writer appends a task to the board file.
	outside, err := stores.NewFileStore(path)
	require.NoError(t, err)
	_, err = outside.AddTask(ctx, task.Task{Title: "外部追加", Status: "進行中"})
	require.NoError(t, err)

	select {
	case <-pushed:
	case <-time.After(3 * time.Second):
		t.Fatal("expected a push after the board file changed")
	}

	assert.Len(t, kanban.Derived().Tasks, 2)
	assert.Len(t, list.Derived().Tasks, 2)
}
