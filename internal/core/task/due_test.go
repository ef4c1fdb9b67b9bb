package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseISODate(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		wantOK bool
		want   string
	}{
		{name: "plain date", text: "2026-03-05", wantOK: true, want: "2026-03-05"},
		{name: "surrounding whitespace", text: " 2026-03-05 ", wantOK: true, want: "2026-03-05"},
		{name: "rollover normalizes", text: "2026-02-30", wantOK: true, want: "2026-03-02"},
		{name: "slash separator rejected", text: "2026/03/05", wantOK: false},
		{name: "short year rejected", text: "26-03-05", wantOK: false},
		{name: "datetime rejected", text: "2026-03-05T00:00:00", wantOK: false},
		{name: "empty rejected", text: "", wantOK: false},
		{name: "garbage rejected", text: "next friday", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseISODate(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, FormatISODate(got))
				assert.Equal(t, 0, got.Hour())
			}
		})
	}
}

func TestIsCompletedStatus(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{"完了", true},
		{"完了済み", true},
		{"完了済", true},
		{"done", true},
		{"DONE", true},
		{" Completed ", true},
		{"com pleted", true},
		{"進行中", false},
		{"", false},
		{"完了予定", false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCompletedStatus(tt.status))
		})
	}
}

func TestDueState(t *testing.T) {
	// Classification must not depend on the time of day.
	today := time.Date(2026, 3, 10, 17, 45, 12, 0, time.Local)

	tests := []struct {
		name      string
		task      Task
		wantOK    bool
		wantLevel DueLevel
		wantDiff  int
		wantLabel string
	}{
		{
			name:      "two days overdue",
			task:      Task{Title: "x", DueDate: "2026-03-08"},
			wantOK:    true,
			wantLevel: DueOverdue,
			wantDiff:  2,
			wantLabel: "2日超過",
		},
		{
			name:      "due today",
			task:      Task{Title: "x", DueDate: "2026-03-10"},
			wantOK:    true,
			wantLevel: DueWarning,
			wantDiff:  0,
			wantLabel: "本日期限",
		},
		{
			name:      "inside warning window",
			task:      Task{Title: "x", DueDate: "2026-03-13"},
			wantOK:    true,
			wantLevel: DueWarning,
			wantDiff:  3,
			wantLabel: "あと3日",
		},
		{
			name:      "just past warning window",
			task:      Task{Title: "x", DueDate: "2026-03-14"},
			wantOK:    true,
			wantLevel: DueNormal,
			wantDiff:  4,
			wantLabel: "あと4日",
		},
		{
			name:   "completed task excluded",
			task:   Task{Title: "x", Status: "完了", DueDate: "2026-03-01"},
			wantOK: false,
		},
		{
			name:   "unparseable date excluded",
			task:   Task{Title: "x", DueDate: "March 10"},
			wantOK: false,
		},
		{
			name:   "no due date excluded",
			task:   Task{Title: "x"},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, ok := DueState(tt.task, today)
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.wantLevel, state.Level)
			assert.Equal(t, tt.wantDiff, state.Diff)
			assert.Equal(t, tt.wantLabel, state.Label)
		})
	}
}

func TestSummarizeDue(t *testing.T) {
	today := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)

	tasks := []Task{
		{Title: "a", DueDate: "2026-03-01"},                // overdue
		{Title: "b", DueDate: "2026-03-10"},                // warning (today)
		{Title: "c", DueDate: "2026-03-12"},                // warning
		{Title: "d", DueDate: "2026-04-01"},                // normal
		{Title: "e", Status: "完了", DueDate: "2026-03-01"}, // completed, skipped
		{Title: "f"}, // no due date
	}

	summary := SummarizeDue(tasks, today)
	assert.Equal(t, DueSummary{Overdue: 1, Warning: 2}, summary)
}
