package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const httpTimeout = 15 * time.Second

// HTTPAdapter fetches normalized jobs from a live affiliate feed endpoint
// returning a JSON array of postings.
type HTTPAdapter struct {
	endpoint string
	client   *http.Client
}

// NewHTTPAdapter constructs an adapter with a shared HTTP client.
func NewHTTPAdapter(endpoint string) *HTTPAdapter {
	return &HTTPAdapter{
		endpoint: endpoint,
		client:   &http.Client{Timeout: httpTimeout},
	}
}

// FetchJobs retrieves the full candidate batch from the feed endpoint.
func (a *HTTPAdapter) FetchJobs(ctx context.Context) ([]NormalizedJob, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed request failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	var jobs []NormalizedJob
	if err := json.NewDecoder(resp.Body).Decode(&jobs); err != nil {
		return nil, fmt.Errorf("failed to decode feed response: %w", err)
	}
	return jobs, nil
}
