// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"strings"

	"github.com/hay-kot/criterio"
)

// TaskTitle validates a task title is non-empty after trimming whitespace.
func TaskTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title is required")
	}
	return nil
}

// TaskTitleField returns a criterio validator for task titles.
func TaskTitleField(field, title string) error {
	return criterio.Run(field, title, TaskTitle)
}

// PresetName validates a preset name is non-empty after trimming whitespace.
func PresetName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("preset name is required")
	}
	return nil
}

// PresetNameField returns a criterio validator for preset names.
func PresetNameField(field, name string) error {
	return criterio.Run(field, name, PresetName)
}

// ISODate validates an optional date is either empty or strict YYYY-MM-DD.
func ISODate(value string) error {
	text := strings.TrimSpace(value)
	if text == "" {
		return nil
	}
	if len(text) != 10 || text[4] != '-' || text[7] != '-' {
		return fmt.Errorf("date must be YYYY-MM-DD")
	}
	for i, r := range text {
		if i == 4 || i == 7 {
			continue
		}
		if r < '0' || r > '9' {
			return fmt.Errorf("date must be YYYY-MM-DD")
		}
	}
	return nil
}

// ISODateField returns a criterio validator for optional ISO dates.
func ISODateField(field, value string) error {
	return criterio.Run(field, value, ISODate)
}
