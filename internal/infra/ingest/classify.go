package ingest

import (
	"context"
	"errors"
	"net"
	"strings"
)

// timeoutMarkers are matched against error text when a collaborator does not
// return a classified *Error. The bare word "timeout" is not a marker: it shows
// up in validation errors about timeout parameters.
var timeoutMarkers = []string{
	"request timed out",
	"timed out",
	"deadline exceeded",
}

// Classify returns the failure kind for err.
//
// A *Error anywhere in the chain wins. Otherwise context deadlines and network
// timeouts count as timeouts, and as a last resort the message is matched
// against well-known timeout phrases.
func Classify(err error) Kind {
	if err == nil {
		return KindOther
	}

	var ingestErr *Error
	if errors.As(err, &ingestErr) {
		return ingestErr.Kind
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}

	if IsTimeoutMessage(err.Error()) {
		return KindTimeout
	}
	return KindOther
}

// IsTimeoutMessage reports whether msg reads like a timeout.
func IsTimeoutMessage(msg string) bool {
	lower := strings.ToLower(msg)
	for _, marker := range timeoutMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// Classified wraps a Processor whose errors are not *Error values and
// classifies them with Classify.
func Classified(p Processor) Processor {
	return ProcessorFunc(func(ctx context.Context, item string) error {
		err := p.Process(ctx, item)
		if err == nil {
			return nil
		}
		var ingestErr *Error
		if errors.As(err, &ingestErr) {
			return err
		}
		return &Error{Kind: Classify(err), Item: item, Err: err}
	})
}
