package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryStore is a mutex-guarded DocumentStore used by tests and local
// development. All reads return deep copies so callers can't mutate the
// stored records.
type InMemoryStore struct {
	mu        sync.RWMutex
	jobs      map[uuid.UUID]*Job
	countries map[uuid.UUID]*Country
	cities    map[uuid.UUID]*City
}

// NewInMemoryStore creates an empty in-memory document store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		jobs:      make(map[uuid.UUID]*Job),
		countries: make(map[uuid.UUID]*Country),
		cities:    make(map[uuid.UUID]*City),
	}
}

// SeedCountry inserts a country and returns its id.
func (s *InMemoryStore) SeedCountry(slug, name string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New()
	s.countries[id] = &Country{ID: id, Slug: slug, Name: name}
	return id
}

// SeedCity inserts a city scoped to a country and returns its id.
func (s *InMemoryStore) SeedCity(slug, name string, countryID uuid.UUID) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New()
	s.cities[id] = &City{ID: id, Slug: slug, Name: name, CountryID: countryID}
	return id
}

// JobCount returns the number of stored jobs.
func (s *InMemoryStore) JobCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

// FindCountryBySlug looks up a country by its slug.
func (s *InMemoryStore) FindCountryBySlug(_ context.Context, slug string) (*Country, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.countries {
		if c.Slug == slug {
			clone := *c
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

// FindCityBySlug looks up a city by its slug, scoped to a country when
// countryID is non-nil.
func (s *InMemoryStore) FindCityBySlug(_ context.Context, slug string, countryID *uuid.UUID) (*City, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.cities {
		if c.Slug != slug {
			continue
		}
		if countryID != nil && c.CountryID != *countryID {
			continue
		}
		clone := *c
		return &clone, nil
	}
	return nil, ErrNotFound
}

// FindJobByAffiliateID looks up the job holding the given external identifier.
func (s *InMemoryStore) FindJobByAffiliateID(_ context.Context, affiliateID string) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, j := range s.jobs {
		if j.AffiliateID != nil && *j.AffiliateID == affiliateID {
			return cloneJob(j), nil
		}
	}
	return nil, ErrNotFound
}

// FindJobBySlug looks up a job by its public slug.
func (s *InMemoryStore) FindJobBySlug(_ context.Context, slug string) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, j := range s.jobs {
		if j.Slug == slug {
			return cloneJob(j), nil
		}
	}
	return nil, ErrNotFound
}

// ListStaleAffiliateJobs returns active affiliate jobs unseen since cutoff.
func (s *InMemoryStore) ListStaleAffiliateJobs(_ context.Context, cutoff time.Time, limit int) ([]Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stale []Job
	for _, j := range s.jobs {
		if len(stale) >= limit {
			break
		}
		if j.Source != SourceAffiliate || j.Status != StatusActive {
			continue
		}
		if j.LastSeenAt == nil || !j.LastSeenAt.Before(cutoff) {
			continue
		}
		stale = append(stale, *cloneJob(j))
	}
	return stale, nil
}

// CreateJob inserts a new job record from the given payload.
func (s *InMemoryStore) CreateJob(_ context.Context, fields Fields) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	job := &Job{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := applyJobFields(job, fields, true); err != nil {
		return nil, err
	}

	s.jobs[job.ID] = job
	return cloneJob(job), nil
}

// UpdateJob applies a partial update to an existing job.
func (s *InMemoryStore) UpdateJob(_ context.Context, id uuid.UUID, fields Fields) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	if err := applyJobFields(job, fields, false); err != nil {
		return nil, err
	}
	job.UpdatedAt = time.Now().UTC()
	return cloneJob(job), nil
}

// SetManualOverrides replaces a job's override set, mimicking an operator
// locking fields in the editorial UI.
func (s *InMemoryStore) SetManualOverrides(id uuid.UUID, overrides ...Field) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return ErrNotFound
	}
	job.ManualOverrides = append([]Field(nil), overrides...)
	return nil
}

// Ping always succeeds for the in-memory store.
func (*InMemoryStore) Ping(context.Context) error {
	return nil
}

func cloneJob(j *Job) *Job {
	clone := *j
	clone.RequiredLanguages = append([]string(nil), j.RequiredLanguages...)
	clone.ManualOverrides = append([]Field(nil), j.ManualOverrides...)
	return &clone
}

// applyJobFields mutates job from a payload map. Creation-only fields are
// accepted only when create is true.
func applyJobFields(job *Job, fields Fields, create bool) error {
	for f, v := range fields {
		switch f {
		case FieldSlug, FieldSource, FieldAffiliateID:
			if !create {
				return fmt.Errorf("field %q is not updatable", f)
			}
		}

		switch f {
		case FieldSlug:
			job.Slug = v.(string)
		case FieldSource:
			job.Source = v.(string)
		case FieldStatus:
			job.Status = v.(string)
		case FieldTitle:
			job.Title = v.(string)
		case FieldDescription:
			job.Description = toStringPtr(v)
		case FieldCompany:
			job.Company = toStringPtr(v)
		case FieldJobType:
			job.JobType = toStringPtr(v)
		case FieldCategory:
			job.Category = toStringPtr(v)
		case FieldSalary:
			job.Salary = toStringPtr(v)
		case FieldAffiliateID:
			job.AffiliateID = toStringPtr(v)
		case FieldAffiliateSource:
			job.AffiliateSource = toStringPtr(v)
		case FieldAffiliateURL:
			job.AffiliateURL = toStringPtr(v)
		case FieldRequiredLanguages:
			langs, _ := v.([]string)
			job.RequiredLanguages = append([]string(nil), langs...)
		case FieldCountry:
			job.CountryID = toUUIDPtr(v)
		case FieldCity:
			job.CityID = toUUIDPtr(v)
		case FieldPostedAt:
			job.PostedAt = toTimePtr(v)
		case FieldExpiresAt:
			job.ExpiresAt = toTimePtr(v)
		case FieldLastSeenAt:
			job.LastSeenAt = toTimePtr(v)
		default:
			return fmt.Errorf("unknown job field %q", f)
		}
	}
	return nil
}

func toStringPtr(v any) *string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return &t
	case *string:
		return t
	}
	return nil
}

func toUUIDPtr(v any) *uuid.UUID {
	switch t := v.(type) {
	case nil:
		return nil
	case uuid.UUID:
		return &t
	case *uuid.UUID:
		return t
	}
	return nil
}

func toTimePtr(v any) *time.Time {
	switch t := v.(type) {
	case nil:
		return nil
	case time.Time:
		return &t
	case *time.Time:
		return t
	}
	return nil
}
