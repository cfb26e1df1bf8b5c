package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/vietddude/docqueue/internal/core/domain"
)

// FailureJournal keeps failed items as JSON documents in a capped Redis list,
// newest first.
type FailureJournal struct {
	rdb    *redis.Client
	key    string
	maxLen int64
}

// NewFailureJournal creates a Redis-backed failure journal. maxLen caps how
// many records are kept; 0 keeps everything.
func NewFailureJournal(client *Client, name string, maxLen int64) *FailureJournal {
	return &FailureJournal{
		rdb:    client.rdb,
		key:    client.failedKey(name),
		maxLen: maxLen,
	}
}

// Record pushes a failed item onto the journal.
func (j *FailureJournal) Record(ctx context.Context, item *domain.FailedItem) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal failed item: %w", err)
	}

	_, err = j.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, j.key, data)
		if j.maxLen > 0 {
			pipe.LTrim(ctx, j.key, 0, j.maxLen-1)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to record failed item: %w", err)
	}
	return nil
}

// List returns up to limit records, newest first. limit <= 0 returns all.
func (j *FailureJournal) List(ctx context.Context, limit int) ([]*domain.FailedItem, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}
	values, err := j.rdb.LRange(ctx, j.key, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange failed: %w", err)
	}

	items := make([]*domain.FailedItem, 0, len(values))
	for _, v := range values {
		var fi domain.FailedItem
		if err := json.Unmarshal([]byte(v), &fi); err != nil {
			continue
		}
		items = append(items, &fi)
	}
	return items, nil
}

// Count returns the number of records in the journal.
func (j *FailureJournal) Count(ctx context.Context) (int, error) {
	n, err := j.rdb.LLen(ctx, j.key).Result()
	if err != nil {
		return 0, fmt.Errorf("llen failed: %w", err)
	}
	return int(n), nil
}
