package grouping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/taskboard/internal/core/task"
)

func TestBuild(t *testing.T) {
	tasks := []task.Task{
		{No: 1, Title: "a", MajorCategory: "開発", MinorCategory: "API"},
		{No: 2, Title: "b", MajorCategory: "運用", MinorCategory: ""},
		{No: 3, Title: "c", MajorCategory: "開発", MinorCategory: "UI"},
		{No: 4, Title: "d", MajorCategory: "", MinorCategory: "調査"},
		{No: 5, Title: "e", MajorCategory: " 開発 ", MinorCategory: " API "},
	}

	groups := Build(tasks)

	// First-seen order of majors.
	require.Len(t, groups, 3)
	assert.Equal(t, "開発", groups[0].Key)
	assert.Equal(t, "運用", groups[1].Key)
	assert.Equal(t, EmptyMajorKey, groups[2].Key)
	assert.Equal(t, EmptyMajorLabel, groups[2].Label)
	assert.Equal(t, "", groups[2].Value)

	// Counts cover all minors.
	assert.Equal(t, 3, groups[0].Count)
	assert.Equal(t, 1, groups[1].Count)
	assert.Equal(t, 1, groups[2].Count)

	// Minor buckets in first-seen order; trimmed values merge.
	require.Len(t, groups[0].Minors, 2)
	assert.Equal(t, "API", groups[0].Minors[0].Key)
	assert.Equal(t, []int{1, 5}, nos(groups[0].Minors[0].Tasks))
	assert.Equal(t, "UI", groups[0].Minors[1].Key)

	// Empty minor gets the synthetic bucket.
	require.Len(t, groups[1].Minors, 1)
	assert.Equal(t, EmptyMinorKey, groups[1].Minors[0].Key)
	assert.Equal(t, EmptyMinorLabel, groups[1].Minors[0].Label)

	// Every input task lands in exactly one bucket.
	total := 0
	for _, g := range groups {
		sum := 0
		for _, m := range g.Minors {
			sum += len(m.Tasks)
		}
		assert.Equal(t, g.Count, sum)
		total += sum
	}
	assert.Equal(t, len(tasks), total)
}

func TestBuild_PreservesTaskOrder(t *testing.T) {
	tasks := []task.Task{
		{No: 3, Title: "c", MajorCategory: "開発"},
		{No: 1, Title: "a", MajorCategory: "開発"},
		{No: 2, Title: "b", MajorCategory: "開発"},
	}

	groups := Build(tasks)
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Minors, 1)
	assert.Equal(t, []int{3, 1, 2}, nos(groups[0].Minors[0].Tasks))
}

func TestBuild_Empty(t *testing.T) {
	assert.Empty(t, Build(nil))
}

func TestGroupKey(t *testing.T) {
	assert.Equal(t, "開発/API", GroupKey("開発", "API"))
	assert.Equal(t, EmptyMajorKey+"/"+EmptyMinorKey, GroupKey(EmptyMajorKey, EmptyMinorKey))
}

func nos(tasks []task.Task) []int {
	out := make([]int, len(tasks))
	for i, t := range tasks {
		out[i] = t.No
	}
	return out
}
