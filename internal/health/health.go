// Package health exposes drain progress and Prometheus metrics over HTTP.
package health

import (
	"sync"
	"time"

	"github.com/vietddude/docqueue/internal/core/domain"
)

// RunStatus is the state of the most recent drain.
type RunStatus string

const (
	StatusIdle      RunStatus = "idle"
	StatusDraining  RunStatus = "draining"
	StatusCompleted RunStatus = "completed"
	StatusAborted   RunStatus = "aborted"
)

// Snapshot is the JSON view of the monitor.
type Snapshot struct {
	Status     RunStatus  `json:"status"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Report     string     `json:"report,omitempty"`
}

// Monitor tracks the lifecycle of drain runs.
type Monitor struct {
	mu   sync.RWMutex
	snap Snapshot
	now  func() time.Time
}

func NewMonitor() *Monitor {
	return &Monitor{
		snap: Snapshot{Status: StatusIdle},
		now:  time.Now,
	}
}

// Started marks a drain as running.
func (m *Monitor) Started() {
	m.mu.Lock()
	defer m.mu.Unlock()
	started := m.now()
	m.snap = Snapshot{Status: StatusDraining, StartedAt: &started}
}

// Finished records the report of the drain that just ended.
func (m *Monitor) Finished(report domain.Report) {
	m.mu.Lock()
	defer m.mu.Unlock()
	finished := m.now()
	m.snap.FinishedAt = &finished
	m.snap.Report = report.Text
	if report.IsError {
		m.snap.Status = StatusAborted
	} else {
		m.snap.Status = StatusCompleted
	}
}

// Snapshot returns a copy of the current state.
func (m *Monitor) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snap
}
