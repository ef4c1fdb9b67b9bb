package task

import (
	"strconv"
	"strings"
)

// Priority ranking weights. Known labels rank by table, numeric values rank
// by their own magnitude, anything else sorts after the table with a locale
// tie-break on the literal text, and empty sorts dead last.
const (
	priorityWeightUnknown = 1000
	priorityWeightEmpty   = 1001
)

var priorityLabelOrder = map[string]float64{
	"最優先":          0,
	"緊急":           0,
	"高":            1,
	"High":         1,
	"中":            2,
	"Medium":       2,
	"低":            3,
	"Low":          3,
	"通常":           4,
	"Normal":       4,
	"後回し":          5,
	"Low Priority": 5,
}

// PriorityKey is the sortable rank of a priority value.
type PriorityKey struct {
	Weight float64
	Label  string
}

// PrioritySortKey ranks a raw priority value.
func PrioritySortKey(value string) PriorityKey {
	text := strings.TrimSpace(value)
	if text == "" {
		return PriorityKey{Weight: priorityWeightEmpty}
	}
	if num, err := strconv.ParseFloat(text, 64); err == nil {
		return PriorityKey{Weight: num}
	}
	if weight, ok := priorityLabelOrder[text]; ok {
		return PriorityKey{Weight: weight}
	}
	return PriorityKey{Weight: priorityWeightUnknown, Label: text}
}

// ComparePriority orders two raw priority values by weight, then by
// locale-aware label comparison.
func ComparePriority(a, b string) int {
	ka := PrioritySortKey(a)
	kb := PrioritySortKey(b)
	switch {
	case ka.Weight < kb.Weight:
		return -1
	case ka.Weight > kb.Weight:
		return 1
	}
	return CompareText(ka.Label, kb.Label)
}

// PriorityOptions derives the priority suggestion list from validation
// values, falling back to the defaults when the list is empty.
func PriorityOptions(validated []string) []string {
	base := validated
	if len(base) == 0 {
		base = DefaultPriorityOptions
	}
	seen := make(map[string]struct{})
	options := make([]string, 0, len(base))
	for _, value := range base {
		text := strings.TrimSpace(value)
		if text == "" {
			continue
		}
		if _, ok := seen[text]; ok {
			continue
		}
		seen[text] = struct{}{}
		options = append(options, text)
	}
	if len(options) == 0 {
		options = append(options, DefaultPriorityOptions...)
	}
	return options
}

// DefaultPriorityValue picks the default for new tasks: 中 when offered,
// otherwise the first option.
func DefaultPriorityValue(options []string) string {
	for _, opt := range options {
		if opt == "中" {
			return opt
		}
	}
	if len(options) > 0 {
		return options[0]
	}
	return ""
}
