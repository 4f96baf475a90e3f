package runlog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgUniqueViolation is the SQLSTATE raised when the partial unique index on
// the running status rejects a second running row.
const pgUniqueViolation = "23505"

// dbStore is the Postgres-backed run log.
type dbStore struct {
	pool *pgxpool.Pool
}

// NewDBStore creates a Postgres-backed run log store with the given
// connection pool. The caller is responsible for closing the pool when done.
func NewDBStore(pool *pgxpool.Pool) (Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgx pool is required")
	}
	return &dbStore{pool: pool}, nil
}

const runColumns = `id, triggered_by, status, new_count, updated_count, inactive_count,
	error_message, started_at, finished_at`

func (d *dbStore) Begin(ctx context.Context, triggeredBy string) (uuid.UUID, error) {
	id := uuid.New()

	// The sync_runs_single_running partial unique index makes this insert
	// the atomic claim: two concurrent triggers race on the index, and the
	// loser gets a unique violation instead of a second running row.
	_, err := d.pool.Exec(ctx,
		`INSERT INTO sync_runs (id, triggered_by, status, new_count, updated_count, inactive_count, started_at)
		 VALUES ($1, $2, $3, 0, 0, 0, $4)`,
		id, triggeredBy, StatusRunning, time.Now().UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return uuid.Nil, ErrAlreadyRunning
		}
		return uuid.Nil, fmt.Errorf("failed to create sync run row: %w", err)
	}

	return id, nil
}

func (d *dbStore) Finish(ctx context.Context, id uuid.UUID, outcome Outcome) error {
	var errorMessage *string
	if outcome.ErrorMessage != "" {
		errorMessage = &outcome.ErrorMessage
	}

	tag, err := d.pool.Exec(ctx,
		`UPDATE sync_runs
		 SET status = $2, new_count = $3, updated_count = $4, inactive_count = $5,
		     error_message = $6, finished_at = $7
		 WHERE id = $1`,
		id, outcome.Status, outcome.NewCount, outcome.UpdatedCount,
		outcome.InactiveCount, errorMessage, outcome.FinishedAt)
	if err != nil {
		return fmt.Errorf("failed to finalize sync run %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to finalize sync run %s: %w", id, ErrRunNotFound)
	}
	return nil
}

func (d *dbStore) FindRunning(ctx context.Context) (*Run, error) {
	row := d.pool.QueryRow(ctx,
		`SELECT `+runColumns+` FROM sync_runs WHERE status = $1 LIMIT 1`, StatusRunning)

	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find running sync run: %w", err)
	}
	return run, nil
}

func (d *dbStore) List(ctx context.Context, limit int) ([]Run, error) {
	rows, err := d.pool.Query(ctx,
		`SELECT `+runColumns+` FROM sync_runs ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sync runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sync run row: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sync run rows: %w", err)
	}
	return runs, nil
}

func scanRun(row pgx.Row) (*Run, error) {
	var r Run
	err := row.Scan(
		&r.ID, &r.TriggeredBy, &r.Status, &r.NewCount, &r.UpdatedCount,
		&r.InactiveCount, &r.ErrorMessage, &r.StartedAt, &r.FinishedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
