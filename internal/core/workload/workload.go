// Package workload rolls the filtered task set up per assignee: totals,
// status breakdowns, and due-risk counts, plus the heavy-workload highlight.
package workload

import (
	"sort"
	"strings"
	"time"

	"github.com/colonyops/taskboard/internal/core/filter"
	"github.com/colonyops/taskboard/internal/core/task"
)

// DefaultHighlightThreshold is the in-progress count above which an assignee
// is flagged as heavily loaded.
const DefaultHighlightThreshold = 5

// defaultInProgressKeywords match status labels that mean active work.
var defaultInProgressKeywords = []string{"進行", "作業中", "inprogress", "wip"}

// DueCounts holds the due-risk tallies for one assignee.
type DueCounts struct {
	Warning int
	Overdue int
}

// Entry is one assignee's rollup.
type Entry struct {
	Key          string
	Label        string
	Total        int
	StatusCounts map[string]int
	Due          DueCounts
}

// Summary is the aggregate over a task collection. Statuses lists every
// normalized status observed, in first-seen order, so the breakdown columns
// stay stable across entries.
type Summary struct {
	Assignees []Entry
	Statuses  []string
}

// Options tunes aggregation. Zero values fall back to defaults.
type Options struct {
	Today              time.Time
	InProgressKeywords []string
	HighlightThreshold int
}

func (o Options) keywords() []string {
	if len(o.InProgressKeywords) > 0 {
		return o.InProgressKeywords
	}
	return defaultInProgressKeywords
}

func (o Options) threshold() int {
	if o.HighlightThreshold > 0 {
		return o.HighlightThreshold
	}
	return DefaultHighlightThreshold
}

// Summarize aggregates tasks per assignee. Entries sort by descending total,
// ties broken by locale-aware label order.
func Summarize(tasks []task.Task, opts Options) Summary {
	today := opts.Today
	if today.IsZero() {
		today = time.Now()
	}

	entries := make([]Entry, 0)
	index := make(map[string]int)
	statuses := make([]string, 0)
	seenStatus := make(map[string]struct{})

	for _, t := range tasks {
		key := strings.TrimSpace(t.Assignee)
		label := key
		if key == "" {
			key = filter.AssigneeUnassigned
			label = filter.UnassignedLabel
		}
		i, ok := index[key]
		if !ok {
			i = len(entries)
			index[key] = i
			entries = append(entries, Entry{Key: key, Label: label, StatusCounts: make(map[string]int)})
		}

		status := task.NormalizeStatusLabel(t.Status)
		if _, ok := seenStatus[status]; !ok {
			seenStatus[status] = struct{}{}
			statuses = append(statuses, status)
		}

		entries[i].Total++
		entries[i].StatusCounts[status]++
		if state, ok := task.DueState(t, today); ok {
			switch state.Level {
			case task.DueOverdue:
				entries[i].Due.Overdue++
			case task.DueWarning:
				entries[i].Due.Warning++
			}
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Total != entries[j].Total {
			return entries[i].Total > entries[j].Total
		}
		return task.CompareText(entries[i].Label, entries[j].Label) < 0
	})

	return Summary{Assignees: entries, Statuses: statuses}
}

// InProgressCount sums the entry's counts for statuses matching any of the
// keywords. Matching is substring-based, case- and space-insensitive.
func InProgressCount(entry Entry, keywords []string) int {
	if len(keywords) == 0 {
		keywords = defaultInProgressKeywords
	}
	total := 0
	for status, count := range entry.StatusCounts {
		folded := foldLabel(status)
		for _, kw := range keywords {
			if strings.Contains(folded, foldLabel(kw)) {
				total += count
				break
			}
		}
	}
	return total
}

func foldLabel(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "")
}

// Highlight reports whether an entry's in-progress load exceeds the
// threshold.
func Highlight(entry Entry, opts Options) bool {
	return InProgressCount(entry, opts.keywords()) > opts.threshold()
}

// ToggleAssignee computes the next assignee filter when an entry is selected:
// selecting the active assignee clears back to ALL, anything else replaces.
func ToggleAssignee(current, selected string) string {
	if current == selected {
		return filter.AssigneeAll
	}
	return selected
}
