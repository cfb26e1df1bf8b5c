package domain

import (
	"fmt"
	"strings"
)

// DrainResult aggregates the outcome of one drain run.
type DrainResult struct {
	Processed int
	Failed    int
	// FailedItems keeps the order in which failures were encountered.
	FailedItems []Item
}

// RecordSuccess counts a processed item.
func (r *DrainResult) RecordSuccess() {
	r.Processed++
}

// RecordFailure counts a permanently failed item.
func (r *DrainResult) RecordFailure(item Item) {
	r.Failed++
	r.FailedItems = append(r.FailedItems, item)
}

// Report is the text handed back to whoever triggered the run.
type Report struct {
	Text    string
	IsError bool
}

const emptyQueueText = "Queue is empty (queue file does not exist)"

// EmptyQueueReport is returned when the queue resource does not exist.
func EmptyQueueReport() Report {
	return Report{Text: emptyQueueText}
}

// CompletedReport renders a finished drain.
func CompletedReport(r DrainResult) Report {
	var b strings.Builder
	fmt.Fprintf(&b, "Queue processing complete.\nProcessed: %d URLs\nFailed: %d URLs", r.Processed, r.Failed)
	if len(r.FailedItems) > 0 {
		b.WriteString("\n\nFailed URLs:\n")
		b.WriteString(strings.Join(r.FailedItems, "\n"))
	}
	return Report{Text: b.String()}
}

// AbortedReport renders a run that stopped on a store failure.
func AbortedReport(err error) Report {
	return Report{
		Text:    fmt.Sprintf("Failed to process queue: %v", err),
		IsError: true,
	}
}
