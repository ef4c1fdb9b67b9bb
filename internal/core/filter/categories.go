package filter

import (
	"strings"

	"github.com/colonyops/taskboard/internal/core/task"
	"github.com/colonyops/taskboard/internal/core/validation"
)

// CategoryOptions is the discovered category picker data: majors observed on
// tasks or suggested by validation sets, minors bucketed under their major,
// and the flattened minor pool (including minors seen without a major).
type CategoryOptions struct {
	Majors        []string
	MinorsByMajor map[string][]string
	AllMinors     []string
}

// CollectCategoryOptions merges task-observed categories with validation-set
// suggestions. A minor whose task has no major, or a validated minor not
// attached to any observed major, lands in the loose pool that only AllMinors
// exposes. All lists are locale-sorted.
func CollectCategoryOptions(tasks []task.Task, sets validation.Sets) CategoryOptions {
	majorMinors := make(map[string]map[string]struct{})
	looseMinors := make(map[string]struct{})

	ensureMajor := func(name string) map[string]struct{} {
		text := strings.TrimSpace(name)
		if text == "" {
			return nil
		}
		if _, ok := majorMinors[text]; !ok {
			majorMinors[text] = make(map[string]struct{})
		}
		return majorMinors[text]
	}

	for _, t := range tasks {
		major := strings.TrimSpace(t.MajorCategory)
		minor := strings.TrimSpace(t.MinorCategory)
		if major != "" {
			set := ensureMajor(major)
			if minor != "" && set != nil {
				set[minor] = struct{}{}
			}
		} else if minor != "" {
			looseMinors[minor] = struct{}{}
		}
	}

	for _, name := range sets.Values(validation.FieldMajor) {
		ensureMajor(name)
	}

	for _, name := range sets.Values(validation.FieldMinor) {
		text := strings.TrimSpace(name)
		if text == "" {
			continue
		}
		assigned := false
		for _, minors := range majorMinors {
			if _, ok := minors[text]; ok {
				assigned = true
				break
			}
		}
		if !assigned {
			looseMinors[text] = struct{}{}
		}
	}

	majors := make([]string, 0, len(majorMinors))
	for major := range majorMinors {
		majors = append(majors, major)
	}
	task.SortText(majors)

	minorsByMajor := make(map[string][]string, len(majors))
	allMinorSet := make(map[string]struct{})
	for _, major := range majors {
		minors := make([]string, 0, len(majorMinors[major]))
		for minor := range majorMinors[major] {
			minors = append(minors, minor)
			allMinorSet[minor] = struct{}{}
		}
		task.SortText(minors)
		minorsByMajor[major] = minors
	}
	for minor := range looseMinors {
		allMinorSet[minor] = struct{}{}
	}

	allMinors := make([]string, 0, len(allMinorSet))
	for minor := range allMinorSet {
		allMinors = append(allMinors, minor)
	}
	task.SortText(allMinors)

	return CategoryOptions{
		Majors:        majors,
		MinorsByMajor: minorsByMajor,
		AllMinors:     allMinors,
	}
}
