package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// postgresStore is the production DocumentStore backed by pgx.
type postgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed DocumentStore with the given
// connection pool. The caller is responsible for closing the pool when done.
func NewPostgresStore(pool *pgxpool.Pool) (DocumentStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgx pool is required")
	}
	return &postgresStore{pool: pool}, nil
}

// jobColumns maps payload field identifiers to jobs table columns. Only keys
// in this map may appear in an update payload.
var jobColumns = map[Field]string{
	FieldTitle:             "title",
	FieldDescription:       "description",
	FieldCompany:           "company",
	FieldJobType:           "job_type",
	FieldCategory:          "category",
	FieldRequiredLanguages: "required_languages",
	FieldCountry:           "country_id",
	FieldCity:              "city_id",
	FieldSalary:            "salary",
	FieldPostedAt:          "posted_at",
	FieldExpiresAt:         "expires_at",
	FieldAffiliateSource:   "affiliate_source",
	FieldAffiliateURL:      "affiliate_url",
	FieldStatus:            "status",
	FieldLastSeenAt:        "last_seen_at",
}

// jobCreateColumns adds the creation-only columns on top of jobColumns.
var jobCreateColumns = map[Field]string{
	FieldSlug:        "slug",
	FieldSource:      "source",
	FieldAffiliateID: "affiliate_id",
}

const jobSelectColumns = `id, slug, source, status, title, title_da, description, description_da,
	company, job_type, category, salary, required_languages, country_id, city_id,
	affiliate_id, affiliate_source, affiliate_url, posted_at, expires_at, last_seen_at,
	manual_overrides, created_at, updated_at`

func (s *postgresStore) FindCountryBySlug(ctx context.Context, slug string) (*Country, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, slug, name FROM countries WHERE slug = $1`, slug)

	var c Country
	if err := row.Scan(&c.ID, &c.Slug, &c.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find country %q: %w", slug, err)
	}
	return &c, nil
}

func (s *postgresStore) FindCityBySlug(ctx context.Context, slug string, countryID *uuid.UUID) (*City, error) {
	query := `SELECT id, slug, name, country_id FROM cities WHERE slug = $1`
	args := []any{slug}
	if countryID != nil {
		query += ` AND country_id = $2`
		args = append(args, *countryID)
	}
	query += ` LIMIT 1`

	var c City
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&c.ID, &c.Slug, &c.Name, &c.CountryID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find city %q: %w", slug, err)
	}
	return &c, nil
}

func (s *postgresStore) FindJobByAffiliateID(ctx context.Context, affiliateID string) (*Job, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+jobSelectColumns+` FROM jobs WHERE affiliate_id = $1`, affiliateID)

	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find job by affiliate id %q: %w", affiliateID, err)
	}
	return job, nil
}

func (s *postgresStore) FindJobBySlug(ctx context.Context, slug string) (*Job, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+jobSelectColumns+` FROM jobs WHERE slug = $1`, slug)

	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find job by slug %q: %w", slug, err)
	}
	return job, nil
}

func (s *postgresStore) ListStaleAffiliateJobs(ctx context.Context, cutoff time.Time, limit int) ([]Job, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+jobSelectColumns+` FROM jobs
		 WHERE source = $1 AND status = $2 AND last_seen_at < $3
		 ORDER BY last_seen_at ASC
		 LIMIT $4`,
		SourceAffiliate, StatusActive, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale affiliate jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stale job row: %w", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stale job rows: %w", err)
	}
	return jobs, nil
}

func (s *postgresStore) CreateJob(ctx context.Context, fields Fields) (*Job, error) {
	columns := []string{"id", "created_at", "updated_at"}
	now := time.Now().UTC()
	args := []any{uuid.New(), now, now}

	// Iterate a fixed field order so the statement is deterministic.
	for _, f := range createFieldOrder {
		value, ok := fields[f]
		if !ok {
			continue
		}
		columns = append(columns, createColumn(f))
		args = append(args, value)
	}
	for f := range fields {
		if createColumn(f) == "" {
			return nil, fmt.Errorf("unknown job field %q", f)
		}
	}

	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(
		`INSERT INTO jobs (%s) VALUES (%s) RETURNING %s`,
		strings.Join(columns, ", "), strings.Join(placeholders, ", "), jobSelectColumns)

	job, err := scanJob(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return job, nil
}

func (s *postgresStore) UpdateJob(ctx context.Context, id uuid.UUID, fields Fields) (*Job, error) {
	if len(fields) == 0 {
		return s.findJobByID(ctx, id)
	}

	setClauses := []string{"updated_at = $1"}
	args := []any{time.Now().UTC()}

	for _, f := range updateFieldOrder {
		value, ok := fields[f]
		if !ok {
			continue
		}
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", jobColumns[f], len(args)))
	}
	for f := range fields {
		if _, ok := jobColumns[f]; !ok {
			return nil, fmt.Errorf("field %q is not updatable", f)
		}
	}

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE jobs SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), len(args), jobSelectColumns)

	job, err := scanJob(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update job %s: %w", id, err)
	}
	return job, nil
}

func (s *postgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *postgresStore) findJobByID(ctx context.Context, id uuid.UUID) (*Job, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+jobSelectColumns+` FROM jobs WHERE id = $1`, id)

	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find job %s: %w", id, err)
	}
	return job, nil
}

// createFieldOrder fixes the column order for inserts.
var createFieldOrder = []Field{
	FieldSlug, FieldSource, FieldStatus, FieldTitle, FieldDescription, FieldCompany,
	FieldJobType, FieldCategory, FieldSalary, FieldRequiredLanguages, FieldCountry,
	FieldCity, FieldAffiliateID, FieldAffiliateSource, FieldAffiliateURL,
	FieldPostedAt, FieldExpiresAt, FieldLastSeenAt,
}

// updateFieldOrder fixes the SET clause order for partial updates.
var updateFieldOrder = []Field{
	FieldStatus, FieldTitle, FieldDescription, FieldCompany, FieldJobType,
	FieldCategory, FieldSalary, FieldRequiredLanguages, FieldCountry, FieldCity,
	FieldAffiliateSource, FieldAffiliateURL, FieldPostedAt, FieldExpiresAt,
	FieldLastSeenAt,
}

func createColumn(f Field) string {
	if col, ok := jobColumns[f]; ok {
		return col
	}
	if col, ok := jobCreateColumns[f]; ok {
		return col
	}
	return ""
}

// scanJob reads one job row from either QueryRow or Query results.
func scanJob(row pgx.Row) (*Job, error) {
	var (
		j         Job
		overrides []string
	)
	err := row.Scan(
		&j.ID, &j.Slug, &j.Source, &j.Status, &j.Title, &j.TitleDA, &j.Description,
		&j.DescriptionDA, &j.Company, &j.JobType, &j.Category, &j.Salary,
		&j.RequiredLanguages, &j.CountryID, &j.CityID, &j.AffiliateID,
		&j.AffiliateSource, &j.AffiliateURL, &j.PostedAt, &j.ExpiresAt,
		&j.LastSeenAt, &overrides, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	j.ManualOverrides = make([]Field, len(overrides))
	for i, o := range overrides {
		j.ManualOverrides[i] = Field(o)
	}
	return &j, nil
}
