// Package filter implements the shared filter-state model and its predicate
// evaluation over a task collection. Every view reuses one State; the engine
// is pure and synchronous.
package filter

import (
	"strings"
	"time"

	"github.com/colonyops/taskboard/internal/core/task"
)

// Assignee filter sentinels.
const (
	AssigneeAll        = "__ALL__"
	AssigneeUnassigned = "__UNASSIGNED__"
)

// UnassignedLabel is the display label for the unassigned bucket.
const UnassignedLabel = "（未割り当て）"

// Category filter sentinels.
const (
	CategoryAll      = "__CATEGORY_ALL__"
	CategoryMinorAll = "__CATEGORY_MINOR_ALL__"
)

// DueMode selects how the due-date filter is evaluated.
type DueMode string

const (
	DueModeNone   DueMode = "none"
	DueModeBefore DueMode = "before"
	DueModeAfter  DueMode = "after"
	DueModeRange  DueMode = "range"
)

// DueFilter is the due-date portion of the filter state. From and To hold
// ISO YYYY-MM-DD strings; unparseable bounds make the test vacuously pass so
// that a half-typed filter never hides everything.
type DueFilter struct {
	Mode DueMode
	From string
	To   string
}

// CategoryFilter constrains major/minor categories. Minor is only consulted
// when Major names a concrete value.
type CategoryFilter struct {
	Major string
	Minor string
}

// StatusSet is the set of normalized status labels currently visible.
type StatusSet map[string]struct{}

// NewStatusSet builds a set from labels.
func NewStatusSet(labels ...string) StatusSet {
	set := make(StatusSet, len(labels))
	for _, l := range labels {
		set[l] = struct{}{}
	}
	return set
}

// Has reports membership.
func (s StatusSet) Has(label string) bool {
	_, ok := s[label]
	return ok
}

// Add inserts a label.
func (s StatusSet) Add(label string) { s[label] = struct{}{} }

// Remove deletes a label.
func (s StatusSet) Remove(label string) { delete(s, label) }

// Clone copies the set.
func (s StatusSet) Clone() StatusSet {
	out := make(StatusSet, len(s))
	for l := range s {
		out[l] = struct{}{}
	}
	return out
}

// Labels returns the members in unspecified order.
func (s StatusSet) Labels() []string {
	out := make([]string, 0, len(s))
	for l := range s {
		out = append(out, l)
	}
	return out
}

// State is one view's filter state. Held in memory only; persisted solely
// inside presets.
type State struct {
	Assignee string
	Statuses StatusSet
	Keyword  string
	Due      DueFilter
	Category CategoryFilter
}

// Default returns the neutral state over a status universe: everything
// visible, nothing constrained.
func Default(statusUniverse []string) State {
	return State{
		Assignee: AssigneeAll,
		Statuses: NewStatusSet(statusUniverse...),
		Due:      DueFilter{Mode: DueModeNone},
		Category: CategoryFilter{Major: CategoryAll, Minor: CategoryMinorAll},
	}
}

// ReconcileStatuses carries a previous status selection over to a new status
// universe. Selections still present survive; the unset sentinel is re-added
// when it was selected before, when any task actually has an empty status, or
// when nothing had been chosen yet. An empty result defaults to the full
// universe so the view can never filter itself down to zero rows by accident.
func ReconcileStatuses(prev StatusSet, universe []string, tasks []task.Task) StatusSet {
	next := make(StatusSet)
	inUniverse := make(map[string]struct{}, len(universe))
	for _, s := range universe {
		inUniverse[s] = struct{}{}
		if prev.Has(s) {
			next.Add(s)
		}
	}

	if _, hasUnset := inUniverse[task.UnsetStatusLabel]; hasUnset {
		emptyExists := false
		for _, t := range tasks {
			if strings.TrimSpace(t.Status) == "" {
				emptyExists = true
				break
			}
		}
		if prev.Has(task.UnsetStatusLabel) || emptyExists || len(prev) == 0 {
			next.Add(task.UnsetStatusLabel)
		}
	}

	if len(next) == 0 {
		for _, s := range universe {
			next.Add(s)
		}
	}
	return next
}

// Apply evaluates the predicate over the collection. A task passes only when
// every clause passes; clause order matches evaluation cost (cheap string
// checks first, date parsing last).
func Apply(tasks []task.Task, state State) []task.Task {
	keyword := strings.ToLower(strings.TrimSpace(state.Keyword))
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if matches(t, state, keyword) {
			out = append(out, t)
		}
	}
	return out
}

func matches(t task.Task, state State, keyword string) bool {
	// Category: minor is only consulted under a concrete major.
	if state.Category.Major != CategoryAll && state.Category.Major != "" {
		if strings.TrimSpace(t.MajorCategory) != state.Category.Major {
			return false
		}
		if state.Category.Minor != CategoryMinorAll && state.Category.Minor != "" {
			if strings.TrimSpace(t.MinorCategory) != state.Category.Minor {
				return false
			}
		}
	}

	assignee := strings.TrimSpace(t.Assignee)
	switch state.Assignee {
	case AssigneeUnassigned:
		if assignee != "" {
			return false
		}
	case AssigneeAll, "":
	default:
		if assignee != state.Assignee {
			return false
		}
	}

	if !state.Statuses.Has(task.NormalizeStatusLabel(t.Status)) {
		return false
	}

	if keyword != "" {
		title := strings.ToLower(t.Title)
		notes := strings.ToLower(t.Notes)
		if !strings.Contains(title, keyword) && !strings.Contains(notes, keyword) {
			return false
		}
	}

	return matchesDue(t, state.Due)
}

func matchesDue(t task.Task, df DueFilter) bool {
	if df.Mode == DueModeNone || df.Mode == "" {
		return true
	}
	due, ok := task.ParseISODate(t.DueDate)
	if !ok {
		// A date-constrained filter excludes tasks without a due date.
		return false
	}

	switch df.Mode {
	case DueModeBefore:
		bound, ok := task.ParseISODate(df.From)
		if !ok {
			return true
		}
		return !due.After(bound)
	case DueModeAfter:
		bound, ok := task.ParseISODate(df.From)
		if !ok {
			return true
		}
		return !due.Before(bound)
	case DueModeRange:
		from, hasFrom := task.ParseISODate(df.From)
		to, hasTo := task.ParseISODate(df.To)
		switch {
		case hasFrom && hasTo:
			return !due.Before(from) && !due.After(to)
		case hasFrom:
			return !due.Before(from)
		case hasTo:
			return !due.After(to)
		}
		return true
	}
	return true
}

// QuickDuePreset returns the due filter for a named quick preset
// ("this-week" or "next-week"), computed from the week containing today.
// Weeks run Sunday through Saturday. Unknown names return ok=false.
func QuickDuePreset(name string, today time.Time) (DueFilter, bool) {
	base := task.Midnight(today)
	weekStart := base.AddDate(0, 0, -int(base.Weekday()))

	switch strings.TrimSpace(name) {
	case "this-week":
		weekEnd := weekStart.AddDate(0, 0, 6)
		return DueFilter{Mode: DueModeBefore, From: task.FormatISODate(weekEnd)}, true
	case "next-week":
		nextWeekEnd := weekStart.AddDate(0, 0, 13)
		return DueFilter{Mode: DueModeBefore, From: task.FormatISODate(nextWeekEnd)}, true
	}
	return DueFilter{}, false
}
