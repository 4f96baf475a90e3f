package feed

import (
	"context"
	"time"
)

// MockAdapter returns a fixed batch of postings. It is the development
// default; swap in the HTTP adapter when integrating a live affiliate feed.
type MockAdapter struct{}

// NewMockAdapter creates the fixture-backed adapter.
func NewMockAdapter() *MockAdapter {
	return &MockAdapter{}
}

// FetchJobs returns the fixture batch.
func (*MockAdapter) FetchJobs(_ context.Context) ([]NormalizedJob, error) {
	return []NormalizedJob{
		{
			Title:             "Software Engineer",
			Company:           "Tech Corp",
			JobType:           "full-time",
			RequiredLanguages: []string{"en"},
			CountrySlug:       "denmark",
			CitySlug:          "copenhagen",
			AffiliateID:       "mock-1",
			AffiliateSource:   "mock",
			AffiliateURL:      "https://example.com/job/1",
			Category:          "IT & Tech",
			Salary:            "€50,000–70,000",
			PostedAt:          time.Now().UTC().Format(time.RFC3339),
		},
		{
			Title:             "Seasonal Farm Worker",
			Company:           "Green Farms",
			JobType:           "seasonal",
			RequiredLanguages: []string{"en", "da"},
			CountrySlug:       "denmark",
			CitySlug:          "aarhus",
			AffiliateID:       "mock-2",
			AffiliateSource:   "mock",
			AffiliateURL:      "https://example.com/job/2",
		},
		{
			Title:             "Marketing Manager",
			Company:           "Nordic Agency",
			JobType:           "full-time",
			RequiredLanguages: []string{"en", "sv"},
			CountrySlug:       "sweden",
			CitySlug:          "stockholm",
			AffiliateID:       "mock-3",
			AffiliateSource:   "mock",
			AffiliateURL:      "https://example.com/job/3",
			Category:          "Marketing",
		},
		{
			Title:             "Part-time Barista",
			Company:           "Coffee House",
			JobType:           "part-time",
			RequiredLanguages: []string{"da"},
			CountrySlug:       "denmark",
			CitySlug:          "copenhagen",
			AffiliateID:       "mock-4",
			AffiliateSource:   "mock",
			AffiliateURL:      "https://example.com/job/4",
		},
		{
			Title:             "Full-stack Developer",
			Company:           "Startup AB",
			JobType:           "full-time",
			RequiredLanguages: []string{"en"},
			CountrySlug:       "sweden",
			CitySlug:          "gothenburg",
			AffiliateID:       "mock-5",
			AffiliateSource:   "mock",
			AffiliateURL:      "https://example.com/job/5",
			Category:          "IT & Tech",
		},
	}, nil
}
