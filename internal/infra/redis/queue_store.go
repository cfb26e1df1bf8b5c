package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/vietddude/docqueue/internal/core/domain"
)

// QueueStore keeps the queue in a Redis list, head at index 0.
type QueueStore struct {
	rdb *redis.Client
	key string
}

// NewQueueStore creates a list-backed queue store for the named queue.
func NewQueueStore(client *Client, name string) *QueueStore {
	return &QueueStore{
		rdb: client.rdb,
		key: client.queueKey(name),
	}
}

// Exists reports whether the list key is present.
func (s *QueueStore) Exists(ctx context.Context) (bool, error) {
	n, err := s.rdb.Exists(ctx, s.key).Result()
	if err != nil {
		return false, fmt.Errorf("exists failed: %w", err)
	}
	return n > 0, nil
}

// ReadAll returns every non-blank element of the list.
func (s *QueueStore) ReadAll(ctx context.Context) ([]domain.Item, error) {
	values, err := s.rdb.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange failed: %w", err)
	}
	return domain.CleanItems(values), nil
}

// WriteAll replaces the list atomically. Redis drops empty lists, so an empty
// write removes the key; ReadAll still reports an empty queue afterwards.
func (s *QueueStore) WriteAll(ctx context.Context, items []domain.Item) error {
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key)
		if len(items) > 0 {
			pipe.RPush(ctx, s.key, toArgs(items)...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("replace queue failed: %w", err)
	}
	return nil
}

// Append pushes items onto the tail of the list.
func (s *QueueStore) Append(ctx context.Context, items ...domain.Item) error {
	items = domain.CleanItems(items)
	if len(items) == 0 {
		return nil
	}
	if err := s.rdb.RPush(ctx, s.key, toArgs(items)...).Err(); err != nil {
		return fmt.Errorf("rpush failed: %w", err)
	}
	return nil
}

func toArgs(items []domain.Item) []any {
	args := make([]any, len(items))
	for i, item := range items {
		args[i] = item
	}
	return args
}
