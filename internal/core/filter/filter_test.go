package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/taskboard/internal/core/task"
)

func TestDefault(t *testing.T) {
	state := Default([]string{"未着手", "進行中"})

	assert.Equal(t, AssigneeAll, state.Assignee)
	assert.True(t, state.Statuses.Has("未着手"))
	assert.True(t, state.Statuses.Has("進行中"))
	assert.Equal(t, DueModeNone, state.Due.Mode)
	assert.Equal(t, CategoryAll, state.Category.Major)
	assert.Equal(t, CategoryMinorAll, state.Category.Minor)
}

func TestReconcileStatuses(t *testing.T) {
	universe := []string{task.UnsetStatusLabel, "未着手", "進行中", "完了"}

	t.Run("surviving selections carry over", func(t *testing.T) {
		prev := NewStatusSet("進行中", "廃止済み")
		next := ReconcileStatuses(prev, universe, nil)

		assert.True(t, next.Has("進行中"))
		assert.False(t, next.Has("廃止済み"))
		assert.False(t, next.Has("完了"))
	})

	t.Run("unset re-added when previously selected", func(t *testing.T) {
		prev := NewStatusSet(task.UnsetStatusLabel, "完了")
		next := ReconcileStatuses(prev, universe, nil)
		assert.True(t, next.Has(task.UnsetStatusLabel))
	})

	t.Run("unset re-added when empty-status tasks exist", func(t *testing.T) {
		prev := NewStatusSet("完了")
		tasks := []task.Task{{Title: "x", Status: "  "}}
		next := ReconcileStatuses(prev, universe, tasks)
		assert.True(t, next.Has(task.UnsetStatusLabel))
	})

	t.Run("empty previous selection re-adds unset only", func(t *testing.T) {
		next := ReconcileStatuses(NewStatusSet(), universe, nil)
		assert.True(t, next.Has(task.UnsetStatusLabel))
		assert.False(t, next.Has("未着手"))
		assert.False(t, next.Has("進行中"))
		assert.False(t, next.Has("完了"))
	})

	t.Run("empty selection without unset in universe gets everything", func(t *testing.T) {
		next := ReconcileStatuses(NewStatusSet(), []string{"未着手", "進行中", "完了"}, nil)
		for _, s := range []string{"未着手", "進行中", "完了"} {
			assert.True(t, next.Has(s), s)
		}
	})

	t.Run("nothing survives defaults to full universe", func(t *testing.T) {
		prev := NewStatusSet("廃止済み")
		next := ReconcileStatuses(prev, []string{"未着手", "進行中"}, nil)
		assert.True(t, next.Has("未着手"))
		assert.True(t, next.Has("進行中"))
	})
}

func TestApply_Assignee(t *testing.T) {
	tasks := []task.Task{
		{No: 1, Title: "a", Assignee: "田中"},
		{No: 2, Title: "b", Assignee: " 田中 "},
		{No: 3, Title: "c", Assignee: ""},
		{No: 4, Title: "d", Assignee: "佐藤"},
	}
	state := Default([]string{task.UnsetStatusLabel})

	t.Run("all passes everything", func(t *testing.T) {
		state.Assignee = AssigneeAll
		assert.Len(t, Apply(tasks, state), 4)
	})

	t.Run("named assignee matches trimmed", func(t *testing.T) {
		state.Assignee = "田中"
		got := Apply(tasks, state)
		require.Len(t, got, 2)
		assert.Equal(t, 1, got[0].No)
		assert.Equal(t, 2, got[1].No)
	})

	t.Run("unassigned matches empty only", func(t *testing.T) {
		state.Assignee = AssigneeUnassigned
		got := Apply(tasks, state)
		require.Len(t, got, 1)
		assert.Equal(t, 3, got[0].No)
	})
}

func TestApply_Category(t *testing.T) {
	tasks := []task.Task{
		{No: 1, Title: "a", MajorCategory: "開発", MinorCategory: "API"},
		{No: 2, Title: "b", MajorCategory: "開発", MinorCategory: "UI"},
		{No: 3, Title: "c", MajorCategory: "運用", MinorCategory: "API"},
		{No: 4, Title: "d"},
	}

	state := Default([]string{task.UnsetStatusLabel})
	state.Category = CategoryFilter{Major: "開発", Minor: "API"}

	got := Apply(tasks, state)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].No)

	// Minor alone never constrains: with major at ALL, the minor clause is
	// short-circuited away.
	state.Category = CategoryFilter{Major: CategoryAll, Minor: "API"}
	assert.Len(t, Apply(tasks, state), 4)
}

func TestApply_Keyword(t *testing.T) {
	tasks := []task.Task{
		{No: 1, Title: "Review the API design", Notes: ""},
		{No: 2, Title: "その他", Notes: "api クライアント修正"},
		{No: 3, Title: "無関係", Notes: "備考"},
	}

	state := Default([]string{task.UnsetStatusLabel})
	state.Keyword = "  API "

	got := Apply(tasks, state)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].No)
	assert.Equal(t, 2, got[1].No)
}

func TestApply_Status(t *testing.T) {
	tasks := []task.Task{
		{No: 1, Title: "a", Status: "進行中"},
		{No: 2, Title: "b", Status: ""},
		{No: 3, Title: "c", Status: "完了"},
	}

	state := Default([]string{"進行中", "完了", task.UnsetStatusLabel})
	state.Statuses = NewStatusSet("進行中", task.UnsetStatusLabel)

	got := Apply(tasks, state)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].No)
	assert.Equal(t, 2, got[1].No)
}

func TestMatchesDue(t *testing.T) {
	tests := []struct {
		name string
		task task.Task
		due  DueFilter
		want bool
	}{
		{
			name: "no mode passes",
			task: task.Task{Title: "x"},
			due:  DueFilter{Mode: DueModeNone},
			want: true,
		},
		{
			name: "constrained filter excludes undated tasks",
			task: task.Task{Title: "x"},
			due:  DueFilter{Mode: DueModeBefore, From: "2026-03-10"},
			want: false,
		},
		{
			name: "before is inclusive",
			task: task.Task{Title: "x", DueDate: "2026-03-10"},
			due:  DueFilter{Mode: DueModeBefore, From: "2026-03-10"},
			want: true,
		},
		{
			name: "before excludes later dates",
			task: task.Task{Title: "x", DueDate: "2026-03-11"},
			due:  DueFilter{Mode: DueModeBefore, From: "2026-03-10"},
			want: false,
		},
		{
			name: "after is inclusive",
			task: task.Task{Title: "x", DueDate: "2026-03-10"},
			due:  DueFilter{Mode: DueModeAfter, From: "2026-03-10"},
			want: true,
		},
		{
			name: "half-typed bound passes vacuously",
			task: task.Task{Title: "x", DueDate: "2026-01-01"},
			due:  DueFilter{Mode: DueModeBefore, From: "2026-03"},
			want: true,
		},
		{
			name: "range with both bounds",
			task: task.Task{Title: "x", DueDate: "2026-03-05"},
			due:  DueFilter{Mode: DueModeRange, From: "2026-03-01", To: "2026-03-07"},
			want: true,
		},
		{
			name: "range excludes outside",
			task: task.Task{Title: "x", DueDate: "2026-03-08"},
			due:  DueFilter{Mode: DueModeRange, From: "2026-03-01", To: "2026-03-07"},
			want: false,
		},
		{
			name: "range with only valid from",
			task: task.Task{Title: "x", DueDate: "2026-03-08"},
			due:  DueFilter{Mode: DueModeRange, From: "2026-03-01", To: "bogus"},
			want: true,
		},
	}

	state := Default([]string{task.UnsetStatusLabel, "進行中"})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state.Due = tt.due
			got := Apply([]task.Task{tt.task}, state)
			assert.Equal(t, tt.want, len(got) == 1)
		})
	}
}

// TestApply_Combined pins the whole predicate over a mixed collection.
func TestApply_Combined(t *testing.T) {
	tasks := []task.Task{
		{No: 1, Title: "API仕様レビュー", Status: "進行中", Assignee: "田中", MajorCategory: "開発", DueDate: "2026-03-05"},
		{No: 2, Title: "API実装", Status: "進行中", Assignee: "佐藤", MajorCategory: "開発", DueDate: "2026-03-06"},
		{No: 3, Title: "API実装", Status: "完了", Assignee: "田中", MajorCategory: "開発", DueDate: "2026-03-04"},
		{No: 4, Title: "API検証", Status: "進行中", Assignee: "田中", MajorCategory: "運用", DueDate: "2026-03-05"},
		{No: 5, Title: "サーバ調達", Status: "進行中", Assignee: "田中", MajorCategory: "開発", DueDate: "2026-03-20"},
	}

	state := Default([]string{"進行中", "完了"})
	state.Assignee = "田中"
	state.Statuses = NewStatusSet("進行中")
	state.Keyword = "api"
	state.Category = CategoryFilter{Major: "開発", Minor: CategoryMinorAll}
	state.Due = DueFilter{Mode: DueModeBefore, From: "2026-03-10"}

	got := Apply(tasks, state)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].No)
}

func TestQuickDuePreset(t *testing.T) {
	// 2026-03-10 is a Tuesday; the containing Sunday-start week is
	// 2026-03-08 .. 2026-03-14.
	today := time.Date(2026, 3, 10, 15, 0, 0, 0, time.Local)

	t.Run("this week", func(t *testing.T) {
		df, ok := QuickDuePreset("this-week", today)
		require.True(t, ok)
		assert.Equal(t, DueModeBefore, df.Mode)
		assert.Equal(t, "2026-03-14", df.From)
	})

	t.Run("next week", func(t *testing.T) {
		df, ok := QuickDuePreset("next-week", today)
		require.True(t, ok)
		assert.Equal(t, DueModeBefore, df.Mode)
		assert.Equal(t, "2026-03-21", df.From)
	})

	t.Run("unknown preset", func(t *testing.T) {
		_, ok := QuickDuePreset("someday", today)
		assert.False(t, ok)
	})
}
