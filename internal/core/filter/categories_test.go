package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/taskboard/internal/core/task"
	"github.com/colonyops/taskboard/internal/core/validation"
)

func TestCollectCategoryOptions(t *testing.T) {
	tasks := []task.Task{
		{Title: "a", MajorCategory: "開発", MinorCategory: "API"},
		{Title: "b", MajorCategory: "開発", MinorCategory: "UI"},
		{Title: "c", MajorCategory: "運用", MinorCategory: ""},
		{Title: "d", MajorCategory: "", MinorCategory: "調査"}, // loose minor
		{Title: "e", MajorCategory: " 開発 ", MinorCategory: " API "},
	}

	sets := validation.Sets{
		validation.FieldMajor: {"開発", "企画"},
		validation.FieldMinor: {"API", "教育"},
	}

	opts := CollectCategoryOptions(tasks, sets)

	// Observed plus validated majors, no duplicates.
	assert.ElementsMatch(t, []string{"開発", "運用", "企画"}, opts.Majors)

	require.Contains(t, opts.MinorsByMajor, "開発")
	assert.ElementsMatch(t, []string{"API", "UI"}, opts.MinorsByMajor["開発"])
	assert.Empty(t, opts.MinorsByMajor["運用"])

	// Loose minors (no major on the task, or validated but unattached) show
	// up only in the flattened pool.
	assert.Contains(t, opts.AllMinors, "調査")
	assert.Contains(t, opts.AllMinors, "教育")
	assert.Contains(t, opts.AllMinors, "API")
	for _, minors := range opts.MinorsByMajor {
		assert.NotContains(t, minors, "調査")
		assert.NotContains(t, minors, "教育")
	}
}

func TestCollectCategoryOptions_Empty(t *testing.T) {
	opts := CollectCategoryOptions(nil, validation.Sets{})
	assert.Empty(t, opts.Majors)
	assert.Empty(t, opts.AllMinors)
}
