// Package feed defines the affiliate job feed contract and its adapters.
// The reconciler depends only on the Adapter interface; implementations are
// swappable between the mock fixture batch and a live HTTP feed.
package feed

import "context"

// NormalizedJob is the canonical shape a feed adapter produces. AffiliateID
// is the reconciliation join key: unique per external source, never changed
// once a record is created from it.
type NormalizedJob struct {
	Title             string   `json:"title"`
	Company           string   `json:"company,omitempty"`
	JobType           string   `json:"jobType,omitempty"`
	RequiredLanguages []string `json:"requiredLanguages"`
	CountrySlug       string   `json:"countrySlug,omitempty"`
	CitySlug          string   `json:"citySlug,omitempty"`
	AffiliateID       string   `json:"affiliateId"`
	AffiliateSource   string   `json:"affiliateSource"`
	AffiliateURL      string   `json:"affiliateUrl"`
	Category          string   `json:"category,omitempty"`
	Salary            string   `json:"salary,omitempty"`
	PostedAt          string   `json:"postedAt,omitempty"`
	ExpiresAt         string   `json:"expiresAt,omitempty"`
}

// Adapter fetches the full candidate batch from an affiliate feed in one
// call. No pagination, no side effects; a failed fetch aborts the whole
// sync pass rather than yielding a partial result.
//
//go:generate mockgen -destination=mocks/mock_adapter.go -package=mocks github.com/eskoubar95-tech/findjobabroad/internal/feed Adapter
type Adapter interface {
	FetchJobs(ctx context.Context) ([]NormalizedJob, error)
}
