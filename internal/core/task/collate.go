package task

import (
	"sort"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Collation is locale-aware (Japanese) everywhere the UI sorts labels, so
// that mixed kana/kanji/ASCII values order the way users expect.

var (
	collatorMu sync.Mutex
	collator   = collate.New(language.Japanese)
)

// CompareText compares two strings with Japanese collation. Empty strings
// sort after non-empty ones.
func CompareText(a, b string) int {
	if a == "" && b == "" {
		return 0
	}
	if a == "" {
		return 1
	}
	if b == "" {
		return -1
	}
	collatorMu.Lock()
	defer collatorMu.Unlock()
	return collator.CompareString(a, b)
}

// SortText sorts a slice of strings in place using CompareText.
func SortText(values []string) {
	sort.SliceStable(values, func(i, j int) bool {
		return CompareText(values[i], values[j]) < 0
	})
}
