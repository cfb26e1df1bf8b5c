package drain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vietddude/docqueue/internal/core/domain"
	"github.com/vietddude/docqueue/internal/infra/ingest"
	"github.com/vietddude/docqueue/internal/infra/storage"
	"github.com/vietddude/docqueue/internal/metrics"
)

// ErrStore marks failures of the queue store. They abort the whole drain.
var ErrStore = errors.New("queue store")

// Drainer processes queue items one at a time until the queue is empty.
type Drainer struct {
	store     storage.QueueStore
	processor ingest.Processor
	journal   storage.FailureJournal
	backoff   BackoffConfig
	sleep     Sleeper
	now       func() time.Time
	log       *slog.Logger
}

// Option configures a Drainer.
type Option func(*Drainer)

// WithJournal records permanent failures in j.
func WithJournal(j storage.FailureJournal) Option {
	return func(d *Drainer) { d.journal = j }
}

// WithSleeper replaces the pause used between retries.
func WithSleeper(s Sleeper) Option {
	return func(d *Drainer) { d.sleep = s }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Drainer) { d.log = l }
}

// New creates a drainer over store that hands items to processor.
func New(
	store storage.QueueStore,
	processor ingest.Processor,
	backoff BackoffConfig,
	opts ...Option,
) *Drainer {
	d := &Drainer{
		store:     store,
		processor: processor,
		backoff:   backoff,
		sleep:     SleepContext,
		now:       time.Now,
		log:       slog.Default().With("component", "drain"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// RunQueue drains the queue and renders the outcome as a report.
func (d *Drainer) RunQueue(ctx context.Context) domain.Report {
	result, found, err := d.Drain(ctx)
	switch {
	case err != nil:
		metrics.DrainRuns.WithLabelValues("aborted").Inc()
		return domain.AbortedReport(err)
	case !found:
		metrics.DrainRuns.WithLabelValues("empty").Inc()
		return domain.EmptyQueueReport()
	default:
		metrics.DrainRuns.WithLabelValues("completed").Inc()
		return domain.CompletedReport(result)
	}
}

// Drain processes the head of the queue until the queue is empty.
//
// found is false when the queue resource does not exist. A non-nil error means
// the drain was aborted, either by a store failure (wrapping ErrStore) or by
// ctx; the head item is then left in the store untouched.
func (d *Drainer) Drain(ctx context.Context) (result domain.DrainResult, found bool, err error) {
	exists, err := d.store.Exists(ctx)
	if err != nil {
		return result, false, storeError("check queue", err)
	}
	if !exists {
		d.log.Info("Queue does not exist, nothing to do")
		return result, false, nil
	}

	runID := uuid.NewString()
	log := d.log.With("run", runID)
	log.Info("Starting queue drain")

	retry := NewBackoff(d.backoff)
	for {
		if err := ctx.Err(); err != nil {
			return result, true, err
		}

		items, err := d.store.ReadAll(ctx)
		if err != nil {
			return result, true, storeError("read queue", err)
		}
		metrics.QueueLength.Set(float64(len(items)))
		if len(items) == 0 {
			break
		}

		current := items[0]
		procErr := d.processor.Process(ctx, current)
		if err := ctx.Err(); err != nil {
			// Stopping mid-item is like a kill: the item stays at the head.
			return result, true, err
		}

		switch {
		case procErr == nil:
			log.Debug("Item processed", "item", current)
			metrics.ItemsProcessed.Inc()
			result.RecordSuccess()
			retry.Reset()

		case ingest.Classify(procErr) == ingest.KindTimeout:
			if !retry.Exhausted() {
				pause := retry.Next()
				log.Warn("Timeout processing item, retrying",
					"item", current, "delay", pause, "retry", retry.Retries())
				metrics.Retries.Inc()
				metrics.BackoffSeconds.Observe(pause.Seconds())
				if err := d.sleep(ctx, pause); err != nil {
					return result, true, err
				}
				// Store untouched, the same item is retried
				continue
			}
			log.Error("Failed to process item after multiple retries",
				"item", current, "retries", retry.Retries(), "error", procErr)
			d.recordFailure(ctx, runID, current, domain.FailureKindTimeout, procErr, retry.Retries()+1)
			result.RecordFailure(current)
			retry.Reset()

		default:
			log.Error("Failed to process item", "item", current, "error", procErr)
			d.recordFailure(ctx, runID, current, domain.FailureKindOther, procErr, retry.Retries()+1)
			result.RecordFailure(current)
			retry.Reset()
		}

		if err := d.store.WriteAll(ctx, items[1:]); err != nil {
			return result, true, storeError("write queue", err)
		}
	}

	log.Info("Queue drain complete", "processed", result.Processed, "failed", result.Failed)
	return result, true, nil
}

func (d *Drainer) recordFailure(
	ctx context.Context,
	runID string,
	item domain.Item,
	kind domain.FailureKind,
	cause error,
	attempts int,
) {
	metrics.ItemsFailed.WithLabelValues(string(kind)).Inc()
	if d.journal == nil {
		return
	}

	failed := &domain.FailedItem{
		ID:       uuid.NewString(),
		RunID:    runID,
		Item:     item,
		Kind:     kind,
		Error:    cause.Error(),
		Attempts: attempts,
		FailedAt: d.now().UTC(),
	}
	if err := d.journal.Record(ctx, failed); err != nil {
		metrics.JournalErrors.Inc()
		d.log.Warn("Failed to record failed item", "item", item, "error", err)
	}
}

func storeError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
}
