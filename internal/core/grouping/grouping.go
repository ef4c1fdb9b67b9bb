// Package grouping builds the two-level major/minor category tree the list
// view renders. Grouping preserves the incoming task order inside each bucket;
// it never re-sorts.
package grouping

import (
	"strings"

	"github.com/colonyops/taskboard/internal/core/task"
)

// Synthetic keys for the empty-category buckets. Keys are stable identifiers
// for expansion state; labels are what the UI shows.
const (
	EmptyMajorKey = "__EMPTY_MAJOR__"
	EmptyMinorKey = "__EMPTY_MINOR__"

	EmptyMajorLabel = "（大分類なし）"
	EmptyMinorLabel = "（中分類なし）"
)

// MinorGroup is one minor-category bucket under a major group.
type MinorGroup struct {
	Key   string
	Label string
	Value string
	Tasks []task.Task
}

// MajorGroup is one major-category bucket with its minor buckets. Count is the
// total task count across minors.
type MajorGroup struct {
	Key    string
	Label  string
	Value  string
	Count  int
	Minors []MinorGroup
}

// Build groups tasks by trimmed major then minor category, in first-seen
// order. Empty categories land in the synthetic buckets.
func Build(tasks []task.Task) []MajorGroup {
	majors := make([]MajorGroup, 0)
	majorIdx := make(map[string]int)
	minorIdx := make(map[string]map[string]int)

	for _, t := range tasks {
		majorValue := strings.TrimSpace(t.MajorCategory)
		minorValue := strings.TrimSpace(t.MinorCategory)

		majorKey, majorLabel := majorValue, majorValue
		if majorValue == "" {
			majorKey, majorLabel = EmptyMajorKey, EmptyMajorLabel
		}
		mi, ok := majorIdx[majorKey]
		if !ok {
			mi = len(majors)
			majorIdx[majorKey] = mi
			minorIdx[majorKey] = make(map[string]int)
			majors = append(majors, MajorGroup{Key: majorKey, Label: majorLabel, Value: majorValue})
		}

		minorKey, minorLabel := minorValue, minorValue
		if minorValue == "" {
			minorKey, minorLabel = EmptyMinorKey, EmptyMinorLabel
		}
		ni, ok := minorIdx[majorKey][minorKey]
		if !ok {
			ni = len(majors[mi].Minors)
			minorIdx[majorKey][minorKey] = ni
			majors[mi].Minors = append(majors[mi].Minors, MinorGroup{Key: minorKey, Label: minorLabel, Value: minorValue})
		}

		majors[mi].Minors[ni].Tasks = append(majors[mi].Minors[ni].Tasks, t)
		majors[mi].Count++
	}

	return majors
}

// GroupKey joins a major and minor key into the identifier used for persisted
// expansion state.
func GroupKey(majorKey, minorKey string) string {
	return majorKey + "/" + minorKey
}
