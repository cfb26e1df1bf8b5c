package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vietddude/docqueue/internal/core/config"
	redisclient "github.com/vietddude/docqueue/internal/infra/redis"
	"github.com/vietddude/docqueue/internal/infra/storage"
	"github.com/vietddude/docqueue/internal/infra/storage/file"
	"github.com/vietddude/docqueue/internal/infra/storage/memory"
	"github.com/vietddude/docqueue/internal/infra/storage/postgres"
)

// Storage is the queue store and failure journal described by a config,
// without the ingestion transport. Commands that only inspect or fill the
// queue use it directly.
type Storage struct {
	Store   storage.QueueStore
	Journal storage.FailureJournal // nil when failures.backend is none

	db      *postgres.DB
	closers []func() error
}

// OpenStorage connects the configured queue store and failure journal.
// Schema migrations are not applied; see Migrate.
func OpenStorage(ctx context.Context, cfg *config.AppConfig) (*Storage, error) {
	log := slog.Default().With("component", "storage", "queue", cfg.Queue.Name)
	s := &Storage{}

	var redis *redisclient.Client
	if cfg.Queue.Backend == "redis" || cfg.Failures.Backend == "redis" {
		var err error
		redis, err = redisclient.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to init redis: %w", err)
		}
		s.closers = append(s.closers, redis.Close)
	}

	switch cfg.Queue.Backend {
	case "redis":
		s.Store = redisclient.NewQueueStore(redis, cfg.Queue.Name)
		log.Debug("Using Redis queue store")
	default:
		s.Store = file.NewStore(cfg.Queue.Path)
		log.Debug("Using file queue store", "path", cfg.Queue.Path)
	}

	switch cfg.Failures.Backend {
	case "redis":
		s.Journal = redisclient.NewFailureJournal(redis, cfg.Queue.Name, cfg.Failures.MaxRecords)
	case "postgres":
		db, err := postgres.NewDB(ctx, cfg.Database)
		if err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("failed to init db: %w", err)
		}
		s.db = db
		s.closers = append(s.closers, db.Close)
		s.Journal = postgres.NewFailureJournal(db, cfg.Queue.Name)
	case "memory":
		s.Journal = memory.NewFailureJournal()
	}
	return s, nil
}

// Migrate applies the journal schema when the journal lives in PostgreSQL.
func (s *Storage) Migrate(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	return s.db.Migrate(ctx)
}

// Close releases connections in reverse order of opening.
func (s *Storage) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
