// Package textlist converts between ordered string lists and the
// comma-separated text used to edit them.
package textlist

import "strings"

// Separator joins list items for display.
const Separator = ", "

// Join renders items as comma-separated display text. A nil or empty list
// renders as the empty string.
func Join(items []string) string {
	return strings.Join(items, Separator)
}

// Parse splits text on commas, trims each segment and drops empty ones.
// The result is never nil.
func Parse(text string) []string {
	items := []string{}
	for _, part := range strings.Split(text, ",") {
		if s := strings.TrimSpace(part); s != "" {
			items = append(items, s)
		}
	}
	return items
}
