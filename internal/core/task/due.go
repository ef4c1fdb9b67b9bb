package task

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var isoDatePattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)

// ParseISODate parses a strict YYYY-MM-DD string into a local-midnight time.
// Any other shape returns ok=false. Out-of-range components roll over the
// calendar rather than failing, matching lenient date-entry behavior.
func ParseISODate(text string) (time.Time, bool) {
	trimmed := strings.TrimSpace(text)
	match := isoDatePattern.FindStringSubmatch(trimmed)
	if match == nil {
		return time.Time{}, false
	}
	year, _ := strconv.Atoi(match[1])
	month, _ := strconv.Atoi(match[2])
	day, _ := strconv.Atoi(match[3])
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local), true
}

// FormatISODate renders a time as YYYY-MM-DD.
func FormatISODate(t time.Time) string {
	return t.Format("2006-01-02")
}

// Midnight truncates a time to local midnight.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// completedSynonyms are the status spellings treated as "done" for due-date
// purposes, matched case- and whitespace-insensitively.
var completedSynonyms = map[string]struct{}{
	"完了":        {},
	"完了済み":      {},
	"完了済":       {},
	"done":      {},
	"completed": {},
}

// IsCompletedStatus reports whether a raw status value means the task is
// finished.
func IsCompletedStatus(status string) bool {
	text := strings.TrimSpace(status)
	if text == "" {
		return false
	}
	normalized := strings.ToLower(text)
	normalized = strings.Join(strings.Fields(normalized), "")
	_, ok := completedSynonyms[normalized]
	return ok
}

// DueLevel classifies how urgent a due date is.
type DueLevel string

const (
	DueOverdue DueLevel = "overdue"
	DueWarning DueLevel = "warning"
	DueNormal  DueLevel = "normal"
)

// dueWarningWindowDays is the span (inclusive) ahead of today that counts as
// a warning.
const dueWarningWindowDays = 3

// DueStateInfo describes a task's due classification relative to "today".
// Diff is an absolute day count for overdue tasks and a remaining day count
// otherwise.
type DueStateInfo struct {
	Level DueLevel
	Diff  int
	Label string
}

// DueState classifies a task's due date against today (any time of day).
// Completed tasks and tasks without a parseable due date return ok=false.
func DueState(t Task, today time.Time) (DueStateInfo, bool) {
	if IsCompletedStatus(t.Status) {
		return DueStateInfo{}, false
	}
	due, ok := ParseISODate(t.DueDate)
	if !ok {
		return DueStateInfo{}, false
	}

	base := Midnight(today)
	diffDays := int(math.Ceil(due.Sub(base).Hours() / 24))

	switch {
	case diffDays < 0:
		abs := -diffDays
		return DueStateInfo{Level: DueOverdue, Diff: abs, Label: fmt.Sprintf("%d日超過", abs)}, true
	case diffDays == 0:
		return DueStateInfo{Level: DueWarning, Diff: 0, Label: "本日期限"}, true
	case diffDays <= dueWarningWindowDays:
		return DueStateInfo{Level: DueWarning, Diff: diffDays, Label: fmt.Sprintf("あと%d日", diffDays)}, true
	default:
		return DueStateInfo{Level: DueNormal, Diff: diffDays, Label: fmt.Sprintf("あと%d日", diffDays)}, true
	}
}

// DueSummary counts due alerts over a task set.
type DueSummary struct {
	Overdue int
	Warning int
}

// SummarizeDue tallies overdue and warning tasks relative to today.
func SummarizeDue(tasks []Task, today time.Time) DueSummary {
	var summary DueSummary
	for _, t := range tasks {
		state, ok := DueState(t, today)
		if !ok {
			continue
		}
		switch state.Level {
		case DueOverdue:
			summary.Overdue++
		case DueWarning:
			summary.Warning++
		}
	}
	return summary
}
