package domain

import "strings"

// Item is a single queue entry, the URL of a document to ingest.
type Item = string

// CleanItems drops empty and whitespace-only entries, keeping order.
func CleanItems(lines []string) []Item {
	items := make([]Item, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		items = append(items, line)
	}
	return items
}
