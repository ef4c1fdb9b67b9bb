package task

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrioritySortKey(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		wantWeight float64
		wantLabel  string
	}{
		{name: "top label", value: "最優先", wantWeight: 0},
		{name: "urgent alias", value: "緊急", wantWeight: 0},
		{name: "high", value: "高", wantWeight: 1},
		{name: "english high", value: "High", wantWeight: 1},
		{name: "medium", value: "中", wantWeight: 2},
		{name: "low priority tail", value: "Low Priority", wantWeight: 5},
		{name: "numeric value ranks by itself", value: "1.5", wantWeight: 1.5},
		{name: "trimmed before lookup", value: " 低 ", wantWeight: 3},
		{name: "unknown label", value: "いつか", wantWeight: 1000, wantLabel: "いつか"},
		{name: "empty sorts last", value: "", wantWeight: 1001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := PrioritySortKey(tt.value)
			assert.Equal(t, tt.wantWeight, key.Weight)
			assert.Equal(t, tt.wantLabel, key.Label)
		})
	}
}

func TestComparePriority(t *testing.T) {
	values := []string{"", "いつか", "低", "0.5", "高", "最優先", "中"}
	sort.SliceStable(values, func(i, j int) bool {
		return ComparePriority(values[i], values[j]) < 0
	})

	assert.Equal(t, []string{"最優先", "0.5", "高", "中", "低", "いつか", ""}, values)
}

func TestPriorityOptions(t *testing.T) {
	t.Run("dedupes and trims validated values", func(t *testing.T) {
		got := PriorityOptions([]string{" 高 ", "中", "高", "", "低"})
		assert.Equal(t, []string{"高", "中", "低"}, got)
	})

	t.Run("falls back to defaults when empty", func(t *testing.T) {
		assert.Equal(t, DefaultPriorityOptions, PriorityOptions(nil))
		assert.Equal(t, DefaultPriorityOptions, PriorityOptions([]string{"  ", ""}))
	})
}

func TestDefaultPriorityValue(t *testing.T) {
	assert.Equal(t, "中", DefaultPriorityValue([]string{"高", "中", "低"}))
	assert.Equal(t, "P1", DefaultPriorityValue([]string{"P1", "P2"}))
	assert.Equal(t, "", DefaultPriorityValue(nil))
}
