// Package runlog persists the audit trail of sync runs and enforces the
// single-flight rule: at most one run may be in the running state across the
// whole system.
package runlog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrAlreadyRunning is returned by Begin when another run holds the running
// slot. No new row is created in that case.
var ErrAlreadyRunning = errors.New("a sync run is already in progress")

// ErrRunNotFound is returned by Finish when the target row does not exist.
var ErrRunNotFound = errors.New("sync run not found")

// Run status values
const (
	StatusRunning = "running"
	StatusSuccess = "success"
	StatusError   = "error"
)

// Run is one row of the sync audit log: exactly one per engine invocation
// that got past admission.
type Run struct {
	ID            uuid.UUID
	TriggeredBy   string
	Status        string
	NewCount      int
	UpdatedCount  int
	InactiveCount int
	ErrorMessage  *string
	StartedAt     time.Time
	FinishedAt    *time.Time
}

// Outcome carries the terminal state written by Finish.
type Outcome struct {
	Status        string
	NewCount      int
	UpdatedCount  int
	InactiveCount int
	ErrorMessage  string
	FinishedAt    time.Time
}

// Store is the run log contract the engine depends on.
//
// Begin is the single-flight admission: it atomically claims the running
// slot or fails with ErrAlreadyRunning. Relying on a FindRunning check before
// inserting would leave a race window between concurrent triggers, so
// implementations must make the reservation itself atomic (the Postgres
// implementation uses a partial unique index on the running status).
//
//go:generate mockgen -destination=mocks/mock_store.go -package=mocks github.com/eskoubar95-tech/findjobabroad/internal/sync/runlog Store
type Store interface {
	// Begin inserts a new running row with zeroed counters and returns its
	// id, or ErrAlreadyRunning without touching the log.
	Begin(ctx context.Context, triggeredBy string) (uuid.UUID, error)

	// Finish writes the terminal status, counts, and finish time for the
	// run created by Begin.
	Finish(ctx context.Context, id uuid.UUID, outcome Outcome) error

	// FindRunning returns the currently running row, or (nil, nil) when no
	// run is active.
	FindRunning(ctx context.Context) (*Run, error)

	// List returns the most recent runs, newest first, bounded to limit.
	List(ctx context.Context, limit int) ([]Run, error)
}
