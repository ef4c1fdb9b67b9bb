// Package validation models the advisory suggestion lists (validation sets)
// attached to task fields. The lists feed pickers and filters; they are never
// enforced as constraints on what a task may actually hold.
package validation

import (
	"strings"

	"github.com/colonyops/taskboard/internal/core/task"
)

// Field keys for validation sets.
const (
	FieldStatus   = "status"
	FieldMajor    = "majorCategory"
	FieldMinor    = "minorCategory"
	FieldPriority = "priority"
)

// Sets maps a field key to its suggested values.
type Sets map[string][]string

// Values returns the list for a field, nil when absent.
func (s Sets) Values(field string) []string {
	if s == nil {
		return nil
	}
	return s[field]
}

// Clone returns a deep copy.
func (s Sets) Clone() Sets {
	if s == nil {
		return nil
	}
	out := make(Sets, len(s))
	for field, values := range s {
		out[field] = append([]string(nil), values...)
	}
	return out
}

// NormalizeValues trims, drops empties, and dedupes while preserving order.
func NormalizeValues(raw []string) []string {
	seen := make(map[string]struct{})
	values := make([]string, 0, len(raw))
	for _, v := range raw {
		text := strings.TrimSpace(v)
		if text == "" {
			continue
		}
		if _, ok := seen[text]; ok {
			continue
		}
		seen[text] = struct{}{}
		values = append(values, text)
	}
	return values
}

// Normalize cleans every list and guarantees non-empty fallbacks for the
// status and priority fields. Fields whose cleaned list is empty are dropped
// before fallbacks are applied.
func Normalize(raw Sets) Sets {
	merged := make(Sets)
	for field, values := range raw {
		cleaned := NormalizeValues(values)
		if len(cleaned) > 0 {
			merged[field] = cleaned
		}
	}
	if len(merged[FieldStatus]) == 0 {
		merged[FieldStatus] = append([]string(nil), task.DefaultStatuses...)
	}
	if len(merged[FieldPriority]) == 0 {
		merged[FieldPriority] = append([]string(nil), task.DefaultPriorityOptions...)
	}
	return merged
}
