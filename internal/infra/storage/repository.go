package storage

import (
	"context"
	"errors"

	"github.com/vietddude/docqueue/internal/core/domain"
)

var (
	// ErrQueueNotFound is returned by ReadAll when the queue resource has never
	// been created. Stores whose empty queue has no resource (a Redis list) read
	// it as empty instead.
	ErrQueueNotFound = errors.New("queue not found")
)

// QueueStore is the durable, ordered list of pending items.
//
// Implementations must make ReadAll reflect the last WriteAll exactly, minus
// blank entries. A single drainer is assumed; external appends are tolerated.
type QueueStore interface {
	// Exists reports whether the queue resource is present
	Exists(ctx context.Context) (bool, error)

	// ReadAll returns every non-blank item in order
	ReadAll(ctx context.Context) ([]domain.Item, error)

	// WriteAll replaces the queue contents with items
	WriteAll(ctx context.Context, items []domain.Item) error

	// Append adds items to the tail, creating the queue if needed
	Append(ctx context.Context, items ...domain.Item) error
}

// FailureJournal keeps a durable record of permanently failed items.
type FailureJournal interface {
	// Record stores a failed item
	Record(ctx context.Context, item *domain.FailedItem) error

	// List returns the most recent failures, newest first
	List(ctx context.Context, limit int) ([]*domain.FailedItem, error)

	// Count returns the number of recorded failures
	Count(ctx context.Context) (int, error)
}
