package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardWatcher_DetectsWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "board.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	bw, err := NewBoardWatcher(path)
	require.NoError(t, err)
	defer bw.Close()

	events := bw.Watch(context.Background())

	require.NoError(t, os.WriteFile(path, []byte(`{"tasks":[]}`), 0o644))

	select {
	case event := <-events:
		assert.Equal(t, path, event.Path)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change event")
	}
}

func TestBoardWatcher_SurvivesRenameReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "board.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	bw, err := NewBoardWatcher(path)
	require.NoError(t, err)
	defer bw.Close()

	events := bw.Watch(context.Background())

	// Atomic save: write a temp file, rename it over the board.
	tmp := filepath.Join(dir, "board.json.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte(`{"tasks":[]}`), 0o644))
	require.NoError(t, os.Rename(tmp, path))

	select {
	case <-events:
	case <-time.After(2 * time.Second):
		t.Fatal("expected an event after rename-replace")
	}
}

func TestBoardWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "board.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	bw, err := NewBoardWatcher(path)
	require.NoError(t, err)
	defer bw.Close()

	events := bw.Watch(context.Background())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0o644))

	select {
	case event := <-events:
		t.Fatalf("unexpected event for %s", event.Path)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestBoardWatcher_CloseClosesSubscribers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "board.json")

	bw, err := NewBoardWatcher(path)
	require.NoError(t, err)

	events := bw.Watch(context.Background())
	require.NoError(t, bw.Close())

	select {
	case _, open := <-events:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("expected subscriber channel to close")
	}
}

func TestBoardWatcher_ContextCancelUnsubscribes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "board.json")

	bw, err := NewBoardWatcher(path)
	require.NoError(t, err)
	defer bw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	events := bw.Watch(ctx)
	cancel()

	select {
	case _, open := <-events:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("expected subscriber channel to close on cancel")
	}
}
