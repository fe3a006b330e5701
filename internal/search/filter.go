// Package search implements the free-text and categorical filters applied to
// schemes, grievances, marketplace listings and emergency contacts.
package search

import "strings"

// All is the filter value that passes every item.
const All = "all"

// Criteria is a filter request. Empty fields and All are inactive.
type Criteria struct {
	Term     string `schema:"q"`
	Category string `schema:"category"`
	Status   string `schema:"status"`
	Tab      string `schema:"tab"`
}

// Active reports whether any filter in c would exclude items.
func (c Criteria) Active() bool {
	return strings.TrimSpace(c.Term) != "" ||
		active(c.Category) || active(c.Status) || active(c.Tab)
}

// Fields describes how a record type exposes itself to Filter. A nil accessor
// makes the matching criterion a no-op for that type.
type Fields[T any] struct {
	Text     func(T) []string
	Category func(T) string
	Status   func(T) string
	// Tab reports whether an item belongs under the named tab. It is only
	// called with active tab values.
	Tab func(T, string) bool
}

// Filter returns the items matching every active criterion, in input order.
func Filter[T any](items []T, c Criteria, f Fields[T]) []T {
	term := strings.ToLower(strings.TrimSpace(c.Term))
	out := make([]T, 0, len(items))
	for _, it := range items {
		if term != "" && f.Text != nil && !containsAny(f.Text(it), term) {
			continue
		}
		if active(c.Category) && f.Category != nil && f.Category(it) != c.Category {
			continue
		}
		if active(c.Status) && f.Status != nil && f.Status(it) != c.Status {
			continue
		}
		if active(c.Tab) && f.Tab != nil && !f.Tab(it, c.Tab) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func active(v string) bool {
	return v != "" && v != All
}

func containsAny(fields []string, lowerTerm string) bool {
	for _, s := range fields {
		if strings.Contains(strings.ToLower(s), lowerTerm) {
			return true
		}
	}
	return false
}
