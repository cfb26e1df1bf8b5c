package drain

import (
	"context"
	"time"
)

// BackoffConfig describes the linear backoff applied to timed out items.
type BackoffConfig struct {
	Base time.Duration
	Step time.Duration
	Max  time.Duration
}

// DefaultBackoffConfig pauses 1s, 2s, ... 9s and gives up once the backoff
// reaches 10s.
func DefaultBackoffConfig() BackoffConfig {
	return BackoffConfig{
		Base: 1 * time.Second,
		Step: 1 * time.Second,
		Max:  10 * time.Second,
	}
}

// Backoff is the retry state of the item at the head of the queue.
// It is never persisted; a restart begins again at Base.
type Backoff struct {
	cfg     BackoffConfig
	current time.Duration
	retries int
}

// NewBackoff returns a backoff positioned at cfg.Base.
func NewBackoff(cfg BackoffConfig) *Backoff {
	return &Backoff{cfg: cfg, current: cfg.Base}
}

// Current returns the pause that the next retry would take.
func (b *Backoff) Current() time.Duration {
	return b.current
}

// Retries returns how many pauses have been handed out since the last reset.
func (b *Backoff) Retries() int {
	return b.retries
}

// Exhausted reports whether the backoff has reached the cap, meaning the item
// must be abandoned instead of retried.
func (b *Backoff) Exhausted() bool {
	return b.current >= b.cfg.Max
}

// Next returns the pause to take before retrying and advances by one step.
func (b *Backoff) Next() time.Duration {
	d := b.current
	b.current += b.cfg.Step
	b.retries++
	return d
}

// Reset moves back to Base for the next item.
func (b *Backoff) Reset() {
	b.current = b.cfg.Base
	b.retries = 0
}

// Sleeper pauses for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext is the default Sleeper.
func SleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
