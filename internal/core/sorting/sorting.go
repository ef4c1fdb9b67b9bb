// Package sorting implements the multi-column sort model used by the list
// view: an ordered sequence of column entries, a per-column comparator
// registry, and the shared default ordering every view falls back to.
package sorting

import (
	"sort"
	"strings"

	"github.com/colonyops/taskboard/internal/core/task"
)

// Column identifiers for sortable list columns.
const (
	ColumnNo       = "no"
	ColumnMajor    = "major"
	ColumnMinor    = "minor"
	ColumnTask     = "task"
	ColumnStatus   = "status"
	ColumnAssignee = "assignee"
	ColumnDue      = "due"
)

// Entry is one column in the sort sequence.
type Entry struct {
	Column string
	Desc   bool
}

// State is the ordered sort sequence. Earlier entries take precedence.
type State []Entry

// Clone copies the sequence.
func (s State) Clone() State {
	return append(State(nil), s...)
}

// Find returns the entry for a column and its position, or -1 when absent.
func (s State) Find(column string) (Entry, int) {
	for i, e := range s {
		if e.Column == column {
			return e, i
		}
	}
	return Entry{}, -1
}

// Toggle cycles a column through absent, ascending, descending, absent.
// Columns without a registered comparator are ignored. The sequence order of
// untouched columns is preserved.
func (s State) Toggle(column string) State {
	if _, ok := comparators[column]; !ok {
		return s
	}
	entry, idx := s.Find(column)
	if idx < 0 {
		return append(s.Clone(), Entry{Column: column})
	}
	next := s.Clone()
	if !entry.Desc {
		next[idx].Desc = true
		return next
	}
	return append(next[:idx], next[idx+1:]...)
}

// Comparator orders two tasks ascending for one column.
type Comparator func(a, b task.Task) int

var comparators = map[string]Comparator{
	ColumnNo:       compareNo,
	ColumnMajor:    compareMajor,
	ColumnMinor:    compareMinor,
	ColumnTask:     compareTitle,
	ColumnStatus:   compareStatus,
	ColumnAssignee: compareAssignee,
	ColumnDue:      compareDue,
}

// Sortable reports whether a column has a comparator.
func Sortable(column string) bool {
	_, ok := comparators[column]
	return ok
}

// Compare evaluates the sequence left to right, negating descending entries,
// and falls back to the supplied comparator when every entry ties. Entries
// naming unregistered columns are skipped.
func Compare(a, b task.Task, state State, fallback Comparator) int {
	for _, entry := range state {
		cmp, ok := comparators[entry.Column]
		if !ok {
			continue
		}
		if c := cmp(a, b); c != 0 {
			if entry.Desc {
				return -c
			}
			return c
		}
	}
	if fallback != nil {
		return fallback(a, b)
	}
	return 0
}

// Sort stable-sorts tasks by the sequence and fallback, returning a new slice.
func Sort(tasks []task.Task, state State, fallback Comparator) []task.Task {
	out := append([]task.Task(nil), tasks...)
	sort.SliceStable(out, func(i, j int) bool {
		return Compare(out[i], out[j], state, fallback) < 0
	})
	return out
}

// statusSortSequence is the canonical ascending status order. Raw values are
// tried verbatim first, then normalized, so legacy blank statuses and the
// explicit unset label collapse to the same region.
var statusSortSequence = []string{
	"",
	task.UnsetStatusLabel,
	"未着手",
	"進行中",
	"完了",
	"保留中",
}

const statusWeightUnmatched = 100

func statusSortWeight(raw string) int {
	trimmed := strings.TrimSpace(raw)
	for i, s := range statusSortSequence {
		if trimmed == s {
			return i
		}
	}
	normalized := task.NormalizeStatusLabel(raw)
	for i, s := range statusSortSequence {
		if normalized == s {
			return i
		}
	}
	return statusWeightUnmatched
}

func compareStatus(a, b task.Task) int {
	wa := statusSortWeight(a.Status)
	wb := statusSortWeight(b.Status)
	switch {
	case wa < wb:
		return -1
	case wa > wb:
		return 1
	}
	return task.CompareText(task.NormalizeStatusLabel(a.Status), task.NormalizeStatusLabel(b.Status))
}

func compareMajor(a, b task.Task) int {
	return task.CompareText(strings.TrimSpace(a.MajorCategory), strings.TrimSpace(b.MajorCategory))
}

func compareMinor(a, b task.Task) int {
	return task.CompareText(strings.TrimSpace(a.MinorCategory), strings.TrimSpace(b.MinorCategory))
}

func compareTitle(a, b task.Task) int {
	return task.CompareText(strings.TrimSpace(a.Title), strings.TrimSpace(b.Title))
}

func compareAssignee(a, b task.Task) int {
	return task.CompareText(strings.TrimSpace(a.Assignee), strings.TrimSpace(b.Assignee))
}

func compareDue(a, b task.Task) int {
	da, okA := task.ParseISODate(a.DueDate)
	db, okB := task.ParseISODate(b.DueDate)
	switch {
	case okA && okB:
		switch {
		case da.Before(db):
			return -1
		case da.After(db):
			return 1
		}
		return 0
	case okA:
		return -1
	case okB:
		return 1
	}
	return 0
}

func compareNo(a, b task.Task) int {
	switch {
	case a.No < b.No:
		return -1
	case a.No > b.No:
		return 1
	}
	return 0
}

// DefaultFallback builds the shared default ordering over a status universe:
// position in the universe first (missing statuses sort last), then priority
// rank, then task number.
func DefaultFallback(statusUniverse []string) Comparator {
	order := make(map[string]int, len(statusUniverse))
	for i, s := range statusUniverse {
		order[s] = i
	}
	const missing = 999
	rank := func(t task.Task) int {
		if idx, ok := order[task.NormalizeStatusLabel(t.Status)]; ok {
			return idx
		}
		return missing
	}
	return func(a, b task.Task) int {
		ra, rb := rank(a), rank(b)
		switch {
		case ra < rb:
			return -1
		case ra > rb:
			return 1
		}
		if c := task.ComparePriority(a.Priority, b.Priority); c != 0 {
			return c
		}
		return compareNo(a, b)
	}
}
