// Package task defines the task domain model and the pure normalization
// helpers shared by every view of the board.
package task

import "strings"

// UnsetStatusLabel is the display sentinel standing in for an empty status.
const UnsetStatusLabel = "ステータス未設定"

// DefaultStatuses is the fallback status universe used when neither the
// backing store nor the validation sets supply one.
var DefaultStatuses = []string{"未着手", "進行中", "完了", "保留"}

// DefaultPriorityOptions is the fallback priority suggestion list.
var DefaultPriorityOptions = []string{"高", "中", "低"}

// Task is one unit of work. No is assigned by the backing store as a dense
// 1-based sequence; the client only ever synthesizes it as a last-resort
// fallback during sanitization.
type Task struct {
	No            int    `json:"no"`
	Status        string `json:"status"`
	MajorCategory string `json:"majorCategory"`
	MinorCategory string `json:"minorCategory"`
	Title         string `json:"title"`
	Assignee      string `json:"assignee"`
	Priority      string `json:"priority"`
	DueDate       string `json:"dueDate"`
	Notes         string `json:"notes"`
}

// Patch carries partial task fields for updates. Nil fields are left
// untouched by Apply.
type Patch struct {
	Status        *string `json:"status,omitempty"`
	MajorCategory *string `json:"majorCategory,omitempty"`
	MinorCategory *string `json:"minorCategory,omitempty"`
	Title         *string `json:"title,omitempty"`
	Assignee      *string `json:"assignee,omitempty"`
	Priority      *string `json:"priority,omitempty"`
	DueDate       *string `json:"dueDate,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

// Apply merges the patch into a copy of t and returns it.
func (p Patch) Apply(t Task) Task {
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.MajorCategory != nil {
		t.MajorCategory = *p.MajorCategory
	}
	if p.MinorCategory != nil {
		t.MinorCategory = *p.MinorCategory
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Assignee != nil {
		t.Assignee = *p.Assignee
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	return t
}

// SanitizeRecord enforces the ingestion invariant: a task with an
// empty/whitespace title is invalid and dropped. A missing No is replaced
// with fallbackIndex+1. Returns the cleaned task and whether it survived.
func SanitizeRecord(t Task, fallbackIndex int) (Task, bool) {
	title := strings.TrimSpace(t.Title)
	if title == "" {
		return Task{}, false
	}
	t.Title = title
	if t.No <= 0 {
		t.No = fallbackIndex + 1
	}
	return t, true
}

// SanitizeList applies SanitizeRecord to every element, dropping invalid
// records. The fallback index tracks the position in the surviving list.
func SanitizeList(raw []Task) []Task {
	result := make([]Task, 0, len(raw))
	for _, t := range raw {
		if clean, ok := SanitizeRecord(t, len(result)); ok {
			result = append(result, clean)
		}
	}
	return result
}

// NormalizeStatusLabel trims the raw status and substitutes the unset
// sentinel for empty values. Idempotent: normalizing a normalized label is a
// no-op.
func NormalizeStatusLabel(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return UnsetStatusLabel
	}
	return text
}

// DenormalizeStatusLabel is the inverse of NormalizeStatusLabel. A label
// literally equal to the sentinel collapses to empty, so the round trip is
// lossy for that one input.
func DenormalizeStatusLabel(label string) string {
	text := strings.TrimSpace(label)
	if text == UnsetStatusLabel {
		return ""
	}
	return text
}

// UniqueAssignees returns the distinct trimmed assignee names, locale-sorted.
func UniqueAssignees(tasks []Task) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, t := range tasks {
		name := strings.TrimSpace(t.Assignee)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	SortText(names)
	return names
}
