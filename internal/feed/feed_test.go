package feed_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eskoubar95-tech/findjobabroad/internal/config"
	"github.com/eskoubar95-tech/findjobabroad/internal/feed"
)

func TestMockAdapterFixtures(t *testing.T) {
	t.Parallel()

	jobs, err := feed.NewMockAdapter().FetchJobs(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 5)

	ids := make(map[string]bool, len(jobs))
	for _, j := range jobs {
		assert.NotEmpty(t, j.Title)
		assert.NotEmpty(t, j.AffiliateID)
		assert.False(t, ids[j.AffiliateID], "fixture affiliate ids must be unique")
		ids[j.AffiliateID] = true
	}

	assert.Equal(t, "Software Engineer", jobs[0].Title)
	assert.Equal(t, "mock-1", jobs[0].AffiliateID)
	assert.Equal(t, "denmark", jobs[0].CountrySlug)
}

func TestHTTPAdapterFetchJobs(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"title": "Chef", "company": "Bistro", "affiliateId": "feed-1", "countrySlug": "denmark"},
			{"title": "Waiter", "affiliateId": "feed-2"}
		]`))
	}))
	t.Cleanup(srv.Close)

	jobs, err := feed.NewHTTPAdapter(srv.URL).FetchJobs(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "Chef", jobs[0].Title)
	assert.Equal(t, "Bistro", jobs[0].Company)
	assert.Equal(t, "feed-1", jobs[0].AffiliateID)
	assert.Equal(t, "denmark", jobs[0].CountrySlug)
}

func TestHTTPAdapterUpstreamFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	_, err := feed.NewHTTPAdapter(srv.URL).FetchJobs(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestHTTPAdapterMalformedBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"not": "an array"}`))
	}))
	t.Cleanup(srv.Close)

	_, err := feed.NewHTTPAdapter(srv.URL).FetchJobs(context.Background())
	assert.Error(t, err)
}

func TestNewAdapter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     config.FeedConfig
		wantErr bool
	}{
		{
			name: "mock adapter",
			cfg:  config.FeedConfig{Type: config.FeedTypeMock},
		},
		{
			name: "http adapter",
			cfg: config.FeedConfig{
				Type: config.FeedTypeHTTP,
				HTTP: &config.HTTPFeedConfig{Endpoint: "https://feed.example.com/jobs"},
			},
		},
		{
			name:    "http adapter without endpoint",
			cfg:     config.FeedConfig{Type: config.FeedTypeHTTP},
			wantErr: true,
		},
		{
			name:    "unrecognized type",
			cfg:     config.FeedConfig{Type: "carrier-pigeon"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			adapter, err := feed.NewAdapter(&tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, adapter)
		})
	}
}
