// Package v0 provides the REST handlers for the job sync service.
package v0

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/eskoubar95-tech/findjobabroad/internal/clicks"
	"github.com/eskoubar95-tech/findjobabroad/internal/logger"
	"github.com/eskoubar95-tech/findjobabroad/internal/store"
	syncengine "github.com/eskoubar95-tech/findjobabroad/internal/sync"
	"github.com/eskoubar95-tech/findjobabroad/internal/sync/runlog"
	"github.com/eskoubar95-tech/findjobabroad/internal/versions"
)

// TriggeredByHeader classifies what fired the sync trigger (cron or manual).
const TriggeredByHeader = "X-Triggered-By"

const (
	defaultRunListLimit = 20
	maxRunListLimit     = 100
)

// SyncResponse is the success payload of the sync trigger endpoint.
type SyncResponse struct {
	Success       bool `json:"success"`
	NewCount      int  `json:"new_count"`
	UpdatedCount  int  `json:"updated_count"`
	InactiveCount int  `json:"inactive_count"`
}

// RunResponse is one sync run in the audit listing.
type RunResponse struct {
	ID            string  `json:"id"`
	TriggeredBy   string  `json:"triggered_by"`
	Status        string  `json:"status"`
	NewCount      int     `json:"new_count"`
	UpdatedCount  int     `json:"updated_count"`
	InactiveCount int     `json:"inactive_count"`
	ErrorMessage  *string `json:"error_message,omitempty"`
	StartedAt     string  `json:"started_at"`
	FinishedAt    *string `json:"finished_at,omitempty"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// Routes defines the routes for the sync API with dependency injection
type Routes struct {
	engine  *syncengine.Engine
	runs    runlog.Store
	tracker *clicks.Tracker
	docs    store.DocumentStore
}

// NewRoutes creates a new Routes instance with the provided collaborators
func NewRoutes(engine *syncengine.Engine, runs runlog.Store, tracker *clicks.Tracker, docs store.DocumentStore) *Routes {
	return &Routes{
		engine:  engine,
		runs:    runs,
		tracker: tracker,
		docs:    docs,
	}
}

// Router creates a router for the secret-guarded sync endpoints
func Router(routes *Routes) http.Handler {
	r := chi.NewRouter()

	r.Post("/sync-jobs", routes.syncJobs)
	r.Get("/sync-runs", routes.listSyncRuns)

	return r
}

// syncJobs handles POST /api/v0/sync-jobs
//
// Outcome mapping: conflict 409, fetch failure 502, reconciliation failure
// 500, success 200 with the run's counts.
func (rr *Routes) syncJobs(w http.ResponseWriter, r *http.Request) {
	triggeredBy := syncengine.ParseTriggeredBy(r.Header.Get(TriggeredByHeader))

	result, err := rr.engine.Run(r.Context(), triggeredBy)
	if err != nil {
		var fetchErr *syncengine.FetchError
		switch {
		case errors.Is(err, syncengine.ErrSyncInProgress):
			rr.writeErrorResponse(w, "sync already running", http.StatusConflict)
		case errors.As(err, &fetchErr):
			logger.Errorf("Sync run failed at fetch: %v", err)
			rr.writeErrorResponse(w, "upstream feed fetch failed", http.StatusBadGateway)
		default:
			logger.Errorf("Sync run failed: %v", err)
			rr.writeErrorResponse(w, "sync failed", http.StatusInternalServerError)
		}
		return
	}

	rr.writeJSONResponse(w, SyncResponse{
		Success:       true,
		NewCount:      result.NewCount,
		UpdatedCount:  result.UpdatedCount,
		InactiveCount: result.InactiveCount,
	})
}

// listSyncRuns handles GET /api/v0/sync-runs
func (rr *Routes) listSyncRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxRunListLimit {
			rr.writeErrorResponse(w, "limit must be an integer between 1 and 100", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	runs, err := rr.runs.List(r.Context(), limit)
	if err != nil {
		logger.Errorf("Failed to list sync runs: %v", err)
		rr.writeErrorResponse(w, "failed to list sync runs", http.StatusInternalServerError)
		return
	}

	out := make([]RunResponse, 0, len(runs))
	for _, run := range runs {
		resp := RunResponse{
			ID:            run.ID.String(),
			TriggeredBy:   run.TriggeredBy,
			Status:        run.Status,
			NewCount:      run.NewCount,
			UpdatedCount:  run.UpdatedCount,
			InactiveCount: run.InactiveCount,
			ErrorMessage:  run.ErrorMessage,
			StartedAt:     run.StartedAt.Format(time.RFC3339),
		}
		if run.FinishedAt != nil {
			finished := run.FinishedAt.Format(time.RFC3339)
			resp.FinishedAt = &finished
		}
		out = append(out, resp)
	}

	rr.writeJSONResponse(w, out)
}

// ApplyRedirect handles GET /jobs/{slug}/apply
//
// Resolves the job's affiliate destination, records the click without
// blocking, and redirects. A missing job or destination falls back to the
// locale's jobs listing instead of erroring.
func (rr *Routes) ApplyRedirect(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	locale := r.URL.Query().Get("locale")
	if locale != store.LocaleEN && locale != store.LocaleDA {
		locale = store.LocaleEN
	}

	target, ok := rr.tracker.ResolveTarget(r.Context(), slug)
	if !ok {
		http.Redirect(w, r, "/"+locale+"/jobs", http.StatusFound)
		return
	}

	rr.tracker.Track(clicks.Click{
		JobID:     target.JobID,
		JobSlug:   slug,
		Locale:    locale,
		UserAgent: r.UserAgent(),
		Referrer:  r.Referer(),
	})

	http.Redirect(w, r, target.URL, http.StatusFound)
}

// HealthRouter creates a router for health check endpoints
func HealthRouter(routes *Routes) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", healthHandler)
	r.Get("/readiness", routes.readinessHandler)
	r.Get("/version", versionHandler)

	return r
}

// healthHandler handles health check requests
func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

// readinessHandler reports whether the document store is reachable
func (rr *Routes) readinessHandler(w http.ResponseWriter, r *http.Request) {
	if err := rr.docs.Ping(r.Context()); err != nil {
		errorResp := ErrorResponse{
			Error: "store not ready: " + err.Error(),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		if encodeErr := json.NewEncoder(w).Encode(errorResp); encodeErr != nil {
			logger.Errorf("Failed to encode readiness error response: %v", encodeErr)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ready"}`))
}

// versionHandler handles version information requests
func versionHandler(w http.ResponseWriter, _ *http.Request) {
	info := versions.GetVersionInfo()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(info); err != nil {
		logger.Errorf("Failed to encode version info: %v", err)
	}
}

// writeJSONResponse writes a JSON response with the given data
func (*Routes) writeJSONResponse(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Errorf("Failed to encode JSON response: %v", err)
	}
}

// writeErrorResponse writes a standardized error response
func (*Routes) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	errorResp := ErrorResponse{
		Error: message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(errorResp); err != nil {
		logger.Errorf("Failed to encode error response: %v", err)
	}
}
