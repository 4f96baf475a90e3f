package runlog

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryStore is a mutex-guarded run log for tests and local development.
// The mutex makes Begin's check-and-insert atomic within one process, which
// is the same guarantee the partial unique index gives across processes.
type InMemoryStore struct {
	mu   sync.Mutex
	runs []Run
}

// NewInMemoryStore creates an empty in-memory run log.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

// Begin claims the running slot or fails with ErrAlreadyRunning.
func (s *InMemoryStore) Begin(_ context.Context, triggeredBy string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.runs {
		if r.Status == StatusRunning {
			return uuid.Nil, ErrAlreadyRunning
		}
	}

	run := Run{
		ID:          uuid.New(),
		TriggeredBy: triggeredBy,
		Status:      StatusRunning,
		StartedAt:   time.Now().UTC(),
	}
	s.runs = append(s.runs, run)
	return run.ID, nil
}

// Finish writes the terminal state for a run.
func (s *InMemoryStore) Finish(_ context.Context, id uuid.UUID, outcome Outcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.runs {
		if s.runs[i].ID != id {
			continue
		}
		s.runs[i].Status = outcome.Status
		s.runs[i].NewCount = outcome.NewCount
		s.runs[i].UpdatedCount = outcome.UpdatedCount
		s.runs[i].InactiveCount = outcome.InactiveCount
		if outcome.ErrorMessage != "" {
			msg := outcome.ErrorMessage
			s.runs[i].ErrorMessage = &msg
		}
		finished := outcome.FinishedAt
		s.runs[i].FinishedAt = &finished
		return nil
	}
	return ErrRunNotFound
}

// FindRunning returns the active run, or nil when none is.
func (s *InMemoryStore) FindRunning(context.Context) (*Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.runs {
		if s.runs[i].Status == StatusRunning {
			clone := s.runs[i]
			return &clone, nil
		}
	}
	return nil, nil
}

// List returns the most recent runs, newest first.
func (s *InMemoryStore) List(_ context.Context, limit int) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Run
	for i := len(s.runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.runs[i])
	}
	return out, nil
}

// Runs returns a copy of every stored run in insertion order, for test
// assertions.
func (s *InMemoryStore) Runs() []Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Run(nil), s.runs...)
}
