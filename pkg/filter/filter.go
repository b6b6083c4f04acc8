// Package filter narrows a catalog by a live text query.
package filter

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"tableflip.dev/shelf/pkg/item"
)

// Filter returns the items whose title contains query, ignoring case. The
// result keeps the input order and never contains anything not in items; an
// empty query keeps every item. items is not modified.
func Filter(items []item.Item, query string) []item.Item {
	out := make([]item.Item, 0, len(items))
	for _, it := range items {
		if Matches(it, query) {
			out = append(out, it)
		}
	}
	return out
}

// Matches reports whether a single item passes query.
func Matches(it item.Item, query string) bool {
	if query == "" {
		return true
	}
	lower := cases.Lower(language.Und)
	return strings.Contains(lower.String(it.Title), lower.String(query))
}

// Tagged keeps the items carrying tag. An empty tag keeps everything.
func Tagged(items []item.Item, tag string) []item.Item {
	out := make([]item.Item, 0, len(items))
	for _, it := range items {
		if tag == "" || it.HasTag(tag) {
			out = append(out, it)
		}
	}
	return out
}

// Within keeps the items published no earlier than window before now. A zero
// window keeps everything. Items without a timestamp are dropped when a
// window is set.
func Within(items []item.Item, now time.Time, window time.Duration) []item.Item {
	out := make([]item.Item, 0, len(items))
	if window <= 0 {
		return append(out, items...)
	}
	cutoff := now.Add(-window)
	for _, it := range items {
		if it.Timestamp.IsZero() || it.Timestamp.Before(cutoff) {
			continue
		}
		out = append(out, it)
	}
	return out
}
