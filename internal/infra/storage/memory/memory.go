package memory

import (
	"context"
	"sync"

	"github.com/vietddude/docqueue/internal/core/domain"
	"github.com/vietddude/docqueue/internal/infra/storage"
)

// -----------------------------------------------------------------------------
// Queue Store
// -----------------------------------------------------------------------------

// QueueStore is an in-process queue. It is not durable and is meant for tests
// and dry runs.
type QueueStore struct {
	mu      sync.RWMutex
	items   []domain.Item
	present bool
	writes  int
}

// NewQueueStore creates a queue that already exists and holds items.
func NewQueueStore(items ...domain.Item) *QueueStore {
	return &QueueStore{
		items:   domain.CleanItems(items),
		present: true,
	}
}

// NewMissingQueueStore creates a queue that does not exist yet.
func NewMissingQueueStore() *QueueStore {
	return &QueueStore{}
}

func (s *QueueStore) Exists(ctx context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.present, nil
}

func (s *QueueStore) ReadAll(ctx context.Context) ([]domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.present {
		return nil, storage.ErrQueueNotFound
	}
	out := make([]domain.Item, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *QueueStore) WriteAll(ctx context.Context, items []domain.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = domain.CleanItems(items)
	s.present = true
	s.writes++
	return nil
}

func (s *QueueStore) Append(ctx context.Context, items ...domain.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, domain.CleanItems(items)...)
	s.present = true
	return nil
}

// Writes returns how many times WriteAll has been called.
func (s *QueueStore) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

// -----------------------------------------------------------------------------
// Failure Journal
// -----------------------------------------------------------------------------

type FailureJournal struct {
	mu       sync.RWMutex
	failures []*domain.FailedItem
}

func NewFailureJournal() *FailureJournal {
	return &FailureJournal{}
}

func (j *FailureJournal) Record(ctx context.Context, item *domain.FailedItem) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.failures = append(j.failures, item)
	return nil
}

func (j *FailureJournal) List(ctx context.Context, limit int) ([]*domain.FailedItem, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	n := len(j.failures)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]*domain.FailedItem, 0, limit)
	for i := n - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, j.failures[i])
	}
	return out, nil
}

func (j *FailureJournal) Count(ctx context.Context) (int, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.failures), nil
}
