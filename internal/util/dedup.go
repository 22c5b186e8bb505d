package util

import "strings"

// DisplayFilter deduplicates proposals by display string, case-insensitively,
// keeping the first occurrence. Used by the post-filter's dedup pass.
type DisplayFilter struct {
	seen map[string]bool
}

// NewDisplayFilter creates a filter instance with an empty seen set.
func NewDisplayFilter() *DisplayFilter {
	return &DisplayFilter{seen: make(map[string]bool)}
}

// ShouldInclude reports whether display should be kept (true) or dropped
// as a duplicate (false), and records it as seen either way.
func (f *DisplayFilter) ShouldInclude(display string) bool {
	key := strings.ToLower(display)
	if f.seen[key] {
		return false
	}
	f.seen[key] = true
	return true
}
