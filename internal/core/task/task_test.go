package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strptr(s string) *string { return &s }

func TestNormalizeStatusLabel(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "empty maps to sentinel", raw: "", want: UnsetStatusLabel},
		{name: "whitespace maps to sentinel", raw: "   ", want: UnsetStatusLabel},
		{name: "trims surrounding space", raw: "  進行中 ", want: "進行中"},
		{name: "passes labels through", raw: "完了", want: "完了"},
		{name: "idempotent on sentinel", raw: UnsetStatusLabel, want: UnsetStatusLabel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeStatusLabel(tt.raw)
			assert.Equal(t, tt.want, got)

			// Normalizing twice never changes the result.
			assert.Equal(t, got, NormalizeStatusLabel(got))
		})
	}
}

func TestDenormalizeStatusLabel(t *testing.T) {
	assert.Equal(t, "", DenormalizeStatusLabel(UnsetStatusLabel))
	assert.Equal(t, "", DenormalizeStatusLabel("  "+UnsetStatusLabel+" "))
	assert.Equal(t, "進行中", DenormalizeStatusLabel("進行中"))

	// The round trip through normalize is stable for real labels.
	assert.Equal(t, "保留", DenormalizeStatusLabel(NormalizeStatusLabel("保留")))
	// And collapses to empty for the sentinel itself.
	assert.Equal(t, "", DenormalizeStatusLabel(NormalizeStatusLabel("")))
}

func TestPatch_Apply(t *testing.T) {
	base := Task{No: 3, Status: "未着手", Title: "資料作成", Assignee: "田中"}

	t.Run("nil fields untouched", func(t *testing.T) {
		got := Patch{}.Apply(base)
		assert.Equal(t, base, got)
	})

	t.Run("set fields overwrite", func(t *testing.T) {
		got := Patch{
			Status:   strptr("進行中"),
			Assignee: strptr(""),
		}.Apply(base)

		assert.Equal(t, "進行中", got.Status)
		assert.Equal(t, "", got.Assignee)
		assert.Equal(t, "資料作成", got.Title)
		// Apply works on a copy.
		assert.Equal(t, "未着手", base.Status)
	})
}

func TestSanitizeRecord(t *testing.T) {
	tests := []struct {
		name   string
		task   Task
		index  int
		wantOK bool
		want   Task
	}{
		{
			name:   "empty title dropped",
			task:   Task{No: 1, Title: "   "},
			index:  0,
			wantOK: false,
		},
		{
			name:   "title trimmed",
			task:   Task{No: 2, Title: "  レビュー対応  "},
			index:  0,
			wantOK: true,
			want:   Task{No: 2, Title: "レビュー対応"},
		},
		{
			name:   "missing no synthesized from index",
			task:   Task{Title: "設計"},
			index:  4,
			wantOK: true,
			want:   Task{No: 5, Title: "設計"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SanitizeRecord(tt.task, tt.index)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestSanitizeList(t *testing.T) {
	raw := []Task{
		{Title: "最初"},
		{Title: ""},
		{No: 9, Title: "固定番号"},
		{Title: "  "},
		{Title: "最後"},
	}

	got := SanitizeList(raw)

	assert.Len(t, got, 3)
	assert.Equal(t, 1, got[0].No)
	assert.Equal(t, 9, got[1].No)
	// Fallback numbering counts survivors, not the raw position.
	assert.Equal(t, 3, got[2].No)
}

func TestUniqueAssignees(t *testing.T) {
	tasks := []Task{
		{Title: "a", Assignee: "田中"},
		{Title: "b", Assignee: "  佐藤 "},
		{Title: "c", Assignee: "田中"},
		{Title: "d", Assignee: ""},
		{Title: "e", Assignee: "伊藤"},
	}

	got := UniqueAssignees(tasks)
	assert.Equal(t, []string{"伊藤", "佐藤", "田中"}, got)
}
