package ingest

import (
	"context"
	"fmt"
)

// Processor hands a single queue item to the ingestion service.
type Processor interface {
	// Process ingests item and returns nil on success. Failures should be
	// *Error values so callers can tell timeouts apart.
	Process(ctx context.Context, item string) error
}

// ProcessorFunc adapts a function to the Processor interface.
type ProcessorFunc func(ctx context.Context, item string) error

func (f ProcessorFunc) Process(ctx context.Context, item string) error {
	return f(ctx, item)
}

// Kind classifies a processing failure.
type Kind int

const (
	// KindOther failures are terminal for the item.
	KindOther Kind = iota
	// KindTimeout failures may be retried with backoff.
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	default:
		return "other"
	}
}

// Error is a classified processing failure.
type Error struct {
	Kind Kind
	Item string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("ingest %s: %s: %v", e.Item, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Timeout wraps err as a timeout failure for item.
func Timeout(item string, err error) *Error {
	return &Error{Kind: KindTimeout, Item: item, Err: err}
}

// Other wraps err as a terminal failure for item.
func Other(item string, err error) *Error {
	return &Error{Kind: KindOther, Item: item, Err: err}
}
