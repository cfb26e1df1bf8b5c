package postgres

import (
	"context"
	"fmt"

	"github.com/vietddude/docqueue/internal/core/domain"
)

// FailureJournal implements storage.FailureJournal on the failed_items table.
type FailureJournal struct {
	db    *DB
	queue string
}

// NewFailureJournal creates a journal scoped to the named queue.
func NewFailureJournal(db *DB, queue string) *FailureJournal {
	return &FailureJournal{db: db, queue: queue}
}

// Record inserts a failed item.
func (j *FailureJournal) Record(ctx context.Context, item *domain.FailedItem) error {
	query := `
		INSERT INTO failed_items (id, queue, run_id, item, kind, error_msg, attempts, failed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := j.db.ExecContext(
		ctx,
		query,
		item.ID,
		j.queue,
		item.RunID,
		item.Item,
		string(item.Kind),
		item.Error,
		item.Attempts,
		item.FailedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add failed item: %w", err)
	}
	return nil
}

// List returns the most recent failures, newest first. limit <= 0 returns all.
func (j *FailureJournal) List(ctx context.Context, limit int) ([]*domain.FailedItem, error) {
	query := `
		SELECT id, run_id, item, kind, error_msg, attempts, failed_at
		FROM failed_items
		WHERE queue = $1
		ORDER BY failed_at DESC
	`
	args := []any{j.queue}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	var items []*domain.FailedItem
	if err := j.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list failed items: %w", err)
	}
	return items, nil
}

// Count returns the number of failures recorded for the queue.
func (j *FailureJournal) Count(ctx context.Context) (int, error) {
	var n int
	err := j.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM failed_items WHERE queue = $1`, j.queue)
	if err != nil {
		return 0, fmt.Errorf("failed to count failed items: %w", err)
	}
	return n, nil
}
