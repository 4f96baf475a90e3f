// Package store provides the document store the reconciler and the click
// tracker read and write: jobs, countries, and cities, backed by Postgres in
// production and by an in-memory implementation in tests.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a lookup matches no record.
var ErrNotFound = errors.New("record not found")

// Job source values
const (
	SourceAffiliate = "affiliate"
	SourceManual    = "manual"
)

// Job lifecycle status values. This is distinct from any editorial
// draft/published state; it only tracks whether the posting is live.
const (
	StatusActive  = "active"
	StatusExpired = "expired"
)

// Job type values
const (
	JobTypeFullTime = "full-time"
	JobTypePartTime = "part-time"
	JobTypeSeasonal = "seasonal"
)

// Locale identifiers. LocaleEN is canonical: sync writes it, and localized
// reads fall back to it.
const (
	LocaleEN = "en"
	LocaleDA = "da"
)

// Field identifies a syncable job attribute in create/update payloads and in
// a record's manual-override set. Overrides are matched against these values,
// so operator-edited fields are masked by key, not by ad-hoc conditionals.
type Field string

// Syncable job fields
const (
	FieldTitle             Field = "title"
	FieldDescription       Field = "description"
	FieldCompany           Field = "company"
	FieldJobType           Field = "jobType"
	FieldCategory          Field = "category"
	FieldRequiredLanguages Field = "requiredLanguages"
	FieldCountry           Field = "country"
	FieldCity              Field = "city"
	FieldSalary            Field = "salary"
	FieldPostedAt          Field = "postedAt"
	FieldExpiresAt         Field = "expiresAt"
	FieldAffiliateSource   Field = "affiliateSource"
	FieldAffiliateURL      Field = "affiliateUrl"
	FieldStatus            Field = "status"
	FieldLastSeenAt        Field = "lastSeenAt"
)

// Creation-only fields. Slug and affiliate id are set once and never appear
// in update payloads.
const (
	FieldSlug        Field = "slug"
	FieldSource      Field = "source"
	FieldAffiliateID Field = "affiliateId"
)

// Fields is a partial job payload keyed by field identifier. Masking a
// manual override is a key deletion on this map.
type Fields map[Field]any

// Job is a persisted job posting.
type Job struct {
	ID                uuid.UUID
	Slug              string
	Source            string
	Status            string
	Title             string
	TitleDA           *string
	Description       *string
	DescriptionDA     *string
	Company           *string
	JobType           *string
	Category          *string
	Salary            *string
	RequiredLanguages []string
	CountryID         *uuid.UUID
	CityID            *uuid.UUID
	AffiliateID       *string
	AffiliateSource   *string
	AffiliateURL      *string
	PostedAt          *time.Time
	ExpiresAt         *time.Time
	LastSeenAt        *time.Time
	ManualOverrides   []Field
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// HasOverride reports whether the given field is locked against sync writes.
func (j *Job) HasOverride(f Field) bool {
	for _, o := range j.ManualOverrides {
		if o == f {
			return true
		}
	}
	return false
}

// LocalizedTitle returns the title for the given locale, falling back to the
// canonical title when no translation exists.
func (j *Job) LocalizedTitle(locale string) string {
	if locale == LocaleDA && j.TitleDA != nil && *j.TitleDA != "" {
		return *j.TitleDA
	}
	return j.Title
}

// Country is a persisted country record.
type Country struct {
	ID   uuid.UUID
	Slug string
	Name string
}

// City is a persisted city record, always scoped to a country.
type City struct {
	ID        uuid.UUID
	Slug      string
	Name      string
	CountryID uuid.UUID
}

// DocumentStore is the persistence contract the reconciler and the click
// tracker depend on. Lookups return ErrNotFound on a miss; updates are
// partial and reject unknown fields.
//
//go:generate mockgen -destination=mocks/mock_store.go -package=mocks github.com/eskoubar95-tech/findjobabroad/internal/store DocumentStore
type DocumentStore interface {
	// FindCountryBySlug looks up a country by its slug.
	FindCountryBySlug(ctx context.Context, slug string) (*Country, error)

	// FindCityBySlug looks up a city by its slug, scoped to a country when
	// countryID is non-nil.
	FindCityBySlug(ctx context.Context, slug string, countryID *uuid.UUID) (*City, error)

	// FindJobByAffiliateID looks up the job holding the given external
	// identifier. At most one exists.
	FindJobByAffiliateID(ctx context.Context, affiliateID string) (*Job, error)

	// FindJobBySlug looks up a job by its public slug.
	FindJobBySlug(ctx context.Context, slug string) (*Job, error)

	// ListStaleAffiliateJobs returns active affiliate jobs whose lastSeenAt
	// is older than cutoff, bounded to limit rows.
	ListStaleAffiliateJobs(ctx context.Context, cutoff time.Time, limit int) ([]Job, error)

	// CreateJob inserts a new job record. The payload must carry slug,
	// source, and status; slug and affiliateId are immutable afterwards.
	CreateJob(ctx context.Context, fields Fields) (*Job, error)

	// UpdateJob applies a partial update to an existing job. Unknown or
	// creation-only fields in the payload are an error.
	UpdateJob(ctx context.Context, id uuid.UUID, fields Fields) (*Job, error)

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}
