// Package sync implements the affiliate job reconciliation engine: one full
// pass of fetch, upsert-all, expire-stale, finalize-log.
package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/eskoubar95-tech/findjobabroad/internal/feed"
	"github.com/eskoubar95-tech/findjobabroad/internal/logger"
	"github.com/eskoubar95-tech/findjobabroad/internal/store"
	"github.com/eskoubar95-tech/findjobabroad/internal/sync/runlog"
)

// ErrSyncInProgress is returned when another run holds the single-flight
// slot. The caller retries later; nothing was mutated.
var ErrSyncInProgress = errors.New("sync already running")

// FetchError marks a run that failed at the fetch phase, before any job
// record was touched. The run log row records the upstream message.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("feed fetch failed: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// TriggeredBy classifies what started a run.
type TriggeredBy string

// Trigger classifications stored on the run log row
const (
	TriggeredByCron   TriggeredBy = "cron"
	TriggeredByManual TriggeredBy = "manual"
)

// ParseTriggeredBy normalizes a caller-supplied classification. Unrecognized
// values default to cron.
func ParseTriggeredBy(raw string) TriggeredBy {
	switch raw {
	case string(TriggeredByManual):
		return TriggeredByManual
	default:
		return TriggeredByCron
	}
}

// Result carries the counts of a completed run.
type Result struct {
	NewCount      int `json:"new_count"`
	UpdatedCount  int `json:"updated_count"`
	InactiveCount int `json:"inactive_count"`
}

// Config holds the engine's tunables, passed in at construction rather than
// read from the environment inside the pass.
type Config struct {
	// ExpiryWindow is the staleness grace period. Affiliate jobs unseen for
	// longer are soft-expired by the sweep. Zero means the 48h default.
	ExpiryWindow time.Duration

	// StaleBatchLimit bounds how many jobs one sweep may expire. Zero means
	// the 1000 default.
	StaleBatchLimit int
}

const (
	defaultExpiryWindow    = 48 * time.Hour
	defaultStaleBatchLimit = 1000
)

func (c Config) expiryWindow() time.Duration {
	if c.ExpiryWindow <= 0 {
		return defaultExpiryWindow
	}
	return c.ExpiryWindow
}

func (c Config) staleBatchLimit() int {
	if c.StaleBatchLimit <= 0 {
		return defaultStaleBatchLimit
	}
	return c.StaleBatchLimit
}

// Engine executes reconciliation passes. One Engine is shared by the HTTP
// trigger, the CLI, and the scheduler; the run log's single-flight claim is
// what keeps concurrent passes out, not the Engine itself.
type Engine struct {
	store   store.DocumentStore
	runs    runlog.Store
	adapter feed.Adapter
	cfg     Config

	// Injectable for tests.
	now       func() time.Time
	newSuffix func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the engine's time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithSlugSuffix overrides the random slug suffix source.
func WithSlugSuffix(fn func() string) Option {
	return func(e *Engine) {
		e.newSuffix = fn
	}
}

// NewEngine creates a reconciliation engine.
func NewEngine(docs store.DocumentStore, runs runlog.Store, adapter feed.Adapter, cfg Config, opts ...Option) *Engine {
	e := &Engine{
		store:     docs,
		runs:      runs,
		adapter:   adapter,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
		newSuffix: randomSuffix,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes one complete sync pass.
//
// Phases, in order: single-flight admission, run registration, fetch,
// per-job reconciliation in batch order, staleness sweep, finalization.
// Admission conflicts return ErrSyncInProgress without creating a log row.
// Fetch and per-record failures are terminal for the run; already-applied
// upserts stay applied; the run is not transactional.
func (e *Engine) Run(ctx context.Context, triggeredBy TriggeredBy) (*Result, error) {
	runID, err := e.runs.Begin(ctx, string(triggeredBy))
	if err != nil {
		if errors.Is(err, runlog.ErrAlreadyRunning) {
			return nil, ErrSyncInProgress
		}
		return nil, fmt.Errorf("failed to register sync run: %w", err)
	}

	logger.Infof("Sync run %s started (triggered by %s)", runID, triggeredBy)

	jobs, err := e.adapter.FetchJobs(ctx)
	if err != nil {
		e.finalize(ctx, runID, &Result{}, err)
		return nil, &FetchError{Err: err}
	}

	result := &Result{}
	for _, job := range jobs {
		if err := e.reconcileJob(ctx, job, result); err != nil {
			e.finalize(ctx, runID, result, err)
			return nil, fmt.Errorf("failed to reconcile job %q: %w", job.AffiliateID, err)
		}
	}

	if err := e.expireStale(ctx, result); err != nil {
		e.finalize(ctx, runID, result, err)
		return nil, fmt.Errorf("staleness sweep failed: %w", err)
	}

	e.finalize(ctx, runID, result, nil)
	logger.Infof("Sync run %s finished: %d new, %d updated, %d expired",
		runID, result.NewCount, result.UpdatedCount, result.InactiveCount)
	return result, nil
}

// reconcileJob upserts a single normalized job against the store, honoring
// the record's manual-override set on update.
func (e *Engine) reconcileJob(ctx context.Context, job feed.NormalizedJob, result *Result) error {
	countryID, cityID, err := e.resolveLocation(ctx, job)
	if err != nil {
		return err
	}

	existing, err := e.store.FindJobByAffiliateID(ctx, job.AffiliateID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}

	now := e.now()
	payload := e.syncPayload(job, countryID, cityID, now)

	if existing == nil {
		payload[store.FieldSlug] = GenerateSlug(job.Title, job.Company, job.CountrySlug, e.newSuffix())
		payload[store.FieldSource] = store.SourceAffiliate
		payload[store.FieldAffiliateID] = job.AffiliateID
		if _, err := e.store.CreateJob(ctx, payload); err != nil {
			return err
		}
		result.NewCount++
		return nil
	}

	// Slug and affiliate id are immutable after creation, so they are never
	// part of the update payload. Operator-locked fields are dropped here.
	for _, f := range existing.ManualOverrides {
		delete(payload, f)
	}
	if _, err := e.store.UpdateJob(ctx, existing.ID, payload); err != nil {
		return err
	}
	result.UpdatedCount++
	return nil
}

// resolveLocation maps the feed's country/city slugs onto foreign keys. A
// lookup miss is non-fatal and yields a nil key; the job is still upserted.
func (e *Engine) resolveLocation(ctx context.Context, job feed.NormalizedJob) (*uuid.UUID, *uuid.UUID, error) {
	var countryID *uuid.UUID
	if job.CountrySlug != "" {
		country, err := e.store.FindCountryBySlug(ctx, job.CountrySlug)
		switch {
		case err == nil:
			countryID = &country.ID
		case errors.Is(err, store.ErrNotFound):
			logger.Debugf("Country slug %q not found, leaving job %q without country", job.CountrySlug, job.AffiliateID)
		default:
			return nil, nil, err
		}
	}

	var cityID *uuid.UUID
	if job.CitySlug != "" {
		city, err := e.store.FindCityBySlug(ctx, job.CitySlug, countryID)
		switch {
		case err == nil:
			cityID = &city.ID
		case errors.Is(err, store.ErrNotFound):
			logger.Debugf("City slug %q not found, leaving job %q without city", job.CitySlug, job.AffiliateID)
		default:
			return nil, nil, err
		}
	}

	return countryID, cityID, nil
}

// syncPayload builds the field set a sync pass writes: lastSeenAt, an active
// status, and every syncable attribute from the feed.
func (e *Engine) syncPayload(job feed.NormalizedJob, countryID, cityID *uuid.UUID, now time.Time) store.Fields {
	return store.Fields{
		store.FieldLastSeenAt:        now,
		store.FieldStatus:            store.StatusActive,
		store.FieldTitle:             job.Title,
		store.FieldCompany:           optionalString(job.Company),
		store.FieldJobType:           optionalString(job.JobType),
		store.FieldCategory:          optionalString(job.Category),
		store.FieldSalary:            optionalString(job.Salary),
		store.FieldRequiredLanguages: job.RequiredLanguages,
		store.FieldCountry:           countryID,
		store.FieldCity:              cityID,
		store.FieldAffiliateSource:   optionalString(job.AffiliateSource),
		store.FieldAffiliateURL:      optionalString(job.AffiliateURL),
		store.FieldPostedAt:          optionalTime(job.PostedAt),
		store.FieldExpiresAt:         optionalTime(job.ExpiresAt),
	}
}

// expireStale soft-expires affiliate jobs unseen for the whole expiry
// window. Jobs missing from a single fetch inside the window survive.
func (e *Engine) expireStale(ctx context.Context, result *Result) error {
	cutoff := e.now().Add(-e.cfg.expiryWindow())

	stale, err := e.store.ListStaleAffiliateJobs(ctx, cutoff, e.cfg.staleBatchLimit())
	if err != nil {
		return err
	}

	for _, job := range stale {
		if _, err := e.store.UpdateJob(ctx, job.ID, store.Fields{
			store.FieldStatus: store.StatusExpired,
		}); err != nil {
			return err
		}
		result.InactiveCount++
	}
	return nil
}

// finalize writes the terminal run log row. When the pass itself failed, a
// failure to finalize is logged but the original error wins.
func (e *Engine) finalize(ctx context.Context, runID uuid.UUID, result *Result, runErr error) {
	outcome := runlog.Outcome{
		Status:        runlog.StatusSuccess,
		NewCount:      result.NewCount,
		UpdatedCount:  result.UpdatedCount,
		InactiveCount: result.InactiveCount,
		FinishedAt:    e.now(),
	}
	if runErr != nil {
		outcome.Status = runlog.StatusError
		outcome.ErrorMessage = runErr.Error()
	}

	if err := e.runs.Finish(ctx, runID, outcome); err != nil {
		logger.Errorf("Failed to finalize sync run %s: %v", runID, err)
	}
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// optionalTime parses an RFC 3339 timestamp from the feed. Unparseable
// values are dropped rather than failing the record.
func optionalTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}
