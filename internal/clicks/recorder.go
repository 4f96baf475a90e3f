package clicks

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// dbRecorder persists clicks into the job_clicks table.
type dbRecorder struct {
	pool *pgxpool.Pool
}

// NewDBRecorder creates a Postgres-backed click recorder.
func NewDBRecorder(pool *pgxpool.Pool) (Recorder, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgx pool is required")
	}
	return &dbRecorder{pool: pool}, nil
}

func (d *dbRecorder) Record(ctx context.Context, click Click) error {
	var userAgent, referrer *string
	if click.UserAgent != "" {
		userAgent = &click.UserAgent
	}
	if click.Referrer != "" {
		referrer = &click.Referrer
	}

	_, err := d.pool.Exec(ctx,
		`INSERT INTO job_clicks (id, job_id, job_slug, locale, user_agent, referrer, clicked_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.New(), click.JobID, click.JobSlug, click.Locale, userAgent, referrer, click.ClickedAt)
	if err != nil {
		return fmt.Errorf("failed to insert click: %w", err)
	}
	return nil
}

// InMemoryRecorder collects clicks for tests.
type InMemoryRecorder struct {
	mu     sync.Mutex
	clicks []Click
}

// NewInMemoryRecorder creates an empty in-memory recorder.
func NewInMemoryRecorder() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Record stores the click.
func (r *InMemoryRecorder) Record(_ context.Context, click Click) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clicks = append(r.clicks, click)
	return nil
}

// Clicks returns a copy of everything recorded so far.
func (r *InMemoryRecorder) Clicks() []Click {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Click(nil), r.clicks...)
}
