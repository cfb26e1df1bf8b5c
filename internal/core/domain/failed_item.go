package domain

import "time"

// FailedItem is a journal record for an item that was permanently failed.
type FailedItem struct {
	ID       string      `json:"id"        db:"id"`
	RunID    string      `json:"run_id"    db:"run_id"`
	Item     string      `json:"item"      db:"item"`
	Kind     FailureKind `json:"kind"      db:"kind"`
	Error    string      `json:"error_msg" db:"error_msg"`
	Attempts int         `json:"attempts"  db:"attempts"`
	FailedAt time.Time   `json:"failed_at" db:"failed_at"`
}

type FailureKind string

const (
	// FailureKindTimeout marks an item abandoned after its backoff reached the cap.
	FailureKindTimeout FailureKind = "timeout"
	// FailureKindOther marks an item that failed with a non-timeout error.
	FailureKindOther FailureKind = "other"
)
