package filter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/taskboard/internal/core/task"
)

func TestSnapshotRoundTrip(t *testing.T) {
	state := State{
		Assignee: "田中",
		Statuses: NewStatusSet("進行中", task.UnsetStatusLabel),
		Keyword:  "api",
		Due:      DueFilter{Mode: DueModeRange, From: "2026-03-01", To: "2026-03-07"},
		Category: CategoryFilter{Major: "開発", Minor: "API"},
	}

	blob, err := json.Marshal(ToSnapshot(state))
	require.NoError(t, err)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(blob, &snap))
	got := FromSnapshot(snap)

	assert.Equal(t, state.Assignee, got.Assignee)
	assert.Equal(t, state.Keyword, got.Keyword)
	assert.Equal(t, state.Due, got.Due)
	assert.Equal(t, state.Category, got.Category)
	assert.ElementsMatch(t, state.Statuses.Labels(), got.Statuses.Labels())
}

func TestToSnapshot_StableStatusOrder(t *testing.T) {
	state := Default([]string{"c", "a", "b"})
	snap := ToSnapshot(state)
	assert.Equal(t, []string{"a", "b", "c"}, snap.Statuses)
}

func TestToSnapshot_DueKeyName(t *testing.T) {
	blob, err := json.Marshal(ToSnapshot(Default(nil)))
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(blob, &raw))
	assert.Contains(t, raw, "date")
	assert.NotContains(t, raw, "due")
}

func TestFromSnapshot_BackfillsSentinels(t *testing.T) {
	got := FromSnapshot(Snapshot{})

	assert.Equal(t, AssigneeAll, got.Assignee)
	assert.Equal(t, DueModeNone, got.Due.Mode)
	assert.Equal(t, CategoryAll, got.Category.Major)
	assert.Equal(t, CategoryMinorAll, got.Category.Minor)
}
