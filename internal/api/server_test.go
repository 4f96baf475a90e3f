package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eskoubar95-tech/findjobabroad/internal/api"
	v0 "github.com/eskoubar95-tech/findjobabroad/internal/api/v0"
	"github.com/eskoubar95-tech/findjobabroad/internal/clicks"
	"github.com/eskoubar95-tech/findjobabroad/internal/feed"
	"github.com/eskoubar95-tech/findjobabroad/internal/store"
	syncengine "github.com/eskoubar95-tech/findjobabroad/internal/sync"
	"github.com/eskoubar95-tech/findjobabroad/internal/sync/runlog"
)

func newTestServer(t *testing.T, syncSecret string) http.Handler {
	t.Helper()

	docs := store.NewInMemoryStore()
	docs.SeedCountry("denmark", "Denmark")
	runs := runlog.NewInMemoryStore()
	engine := syncengine.NewEngine(docs, runs, feed.NewMockAdapter(), syncengine.Config{})
	tracker := clicks.NewTracker(docs, clicks.NewInMemoryRecorder(), nil)

	routes := v0.NewRoutes(engine, runs, tracker, docs)
	return api.NewServer(routes, syncSecret)
}

func TestSyncSecretGuard(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, "s3cret")

	tests := []struct {
		name       string
		secret     string
		wantStatus int
	}{
		{name: "correct secret", secret: "s3cret", wantStatus: http.StatusOK},
		{name: "wrong secret", secret: "nope", wantStatus: http.StatusUnauthorized},
		{name: "missing secret", secret: "", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v0/sync-jobs", nil)
			if tt.secret != "" {
				req.Header.Set(api.SyncSecretHeader, tt.secret)
			}
			rr := httptest.NewRecorder()
			server.ServeHTTP(rr, req)
			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestUnconfiguredSecretRejectsEverything(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, "")

	req := httptest.NewRequest(http.MethodPost, "/api/v0/sync-jobs", nil)
	req.Header.Set(api.SyncSecretHeader, "")
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code,
		"a server without a secret must not accept an empty header match")
}

func TestPublicRoutesSkipSecret(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, "s3cret")

	t.Run("health", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rr := httptest.NewRecorder()
		server.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("apply redirect", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/jobs/unknown-slug/apply", nil)
		rr := httptest.NewRecorder()
		server.ServeHTTP(rr, req)
		require.Equal(t, http.StatusFound, rr.Code)
		assert.Equal(t, "/en/jobs", rr.Header().Get("Location"))
	})
}

func TestSyncRunsGuarded(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, "s3cret")

	req := httptest.NewRequest(http.MethodGet, "/api/v0/sync-runs", nil)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v0/sync-runs", nil)
	req.Header.Set(api.SyncSecretHeader, "s3cret")
	rr = httptest.NewRecorder()
	server.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}
