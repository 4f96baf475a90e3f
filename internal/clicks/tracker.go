// Package clicks implements the apply-redirect tracker: resolve a job's
// affiliate destination, log the click best-effort, and never let the log
// write delay the redirect.
package clicks

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/eskoubar95-tech/findjobabroad/internal/logger"
	"github.com/eskoubar95-tech/findjobabroad/internal/store"
)

const (
	// redirectCacheTTL bounds how long a cached redirect target may lag a
	// manual edit of the affiliate URL.
	redirectCacheTTL = 5 * time.Minute

	redirectCachePrefix = "job:redirect:"

	// trackTimeout caps the detached click write.
	trackTimeout = 5 * time.Second
)

// Click is one recorded apply click.
type Click struct {
	JobID     uuid.UUID
	JobSlug   string
	Locale    string
	UserAgent string
	Referrer  string
	ClickedAt time.Time
}

// Recorder persists click events. Failures are swallowed by the tracker;
// implementations should still return them for logging.
type Recorder interface {
	Record(ctx context.Context, click Click) error
}

// Target is a resolved redirect destination.
type Target struct {
	JobID uuid.UUID
	URL   string
}

// Tracker resolves apply redirects and records clicks. The Redis client is
// optional; without it every resolve hits the document store.
type Tracker struct {
	docs     store.DocumentStore
	recorder Recorder
	cache    *redis.Client
}

// NewTracker creates a click tracker. cache may be nil.
func NewTracker(docs store.DocumentStore, recorder Recorder, cache *redis.Client) *Tracker {
	return &Tracker{
		docs:     docs,
		recorder: recorder,
		cache:    cache,
	}
}

// ResolveTarget returns the affiliate redirect target for a job slug. The
// second return value is false when the job is missing or has no destination
// URL, in which case the caller falls back to the jobs listing.
func (t *Tracker) ResolveTarget(ctx context.Context, slug string) (Target, bool) {
	if target, ok := t.cachedTarget(ctx, slug); ok {
		return target, true
	}

	job, err := t.docs.FindJobBySlug(ctx, slug)
	if err != nil {
		// Missing job and store failure both fall back to the listing.
		logger.Debugf("Apply redirect lookup for %q failed: %v", slug, err)
		return Target{}, false
	}
	if job.AffiliateURL == nil || *job.AffiliateURL == "" {
		return Target{}, false
	}

	target := Target{JobID: job.ID, URL: *job.AffiliateURL}
	t.storeCachedTarget(ctx, slug, target)
	return target, true
}

// Track records a click on a detached context so the caller's redirect is
// never blocked. Failures are logged and dropped.
func (t *Tracker) Track(click Click) {
	if click.ClickedAt.IsZero() {
		click.ClickedAt = time.Now().UTC()
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), trackTimeout)
		defer cancel()

		if err := t.recorder.Record(ctx, click); err != nil {
			logger.Debugf("Failed to record click for %q: %v", click.JobSlug, err)
		}
	}()
}

func (t *Tracker) cachedTarget(ctx context.Context, slug string) (Target, bool) {
	if t.cache == nil {
		return Target{}, false
	}

	raw, err := t.cache.Get(ctx, redirectCachePrefix+slug).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Debugf("Redirect cache read for %q failed: %v", slug, err)
		}
		return Target{}, false
	}

	var target Target
	if err := json.Unmarshal([]byte(raw), &target); err != nil {
		return Target{}, false
	}
	return target, true
}

func (t *Tracker) storeCachedTarget(ctx context.Context, slug string, target Target) {
	if t.cache == nil {
		return
	}

	raw, err := json.Marshal(target)
	if err != nil {
		return
	}
	if err := t.cache.Set(ctx, redirectCachePrefix+slug, raw, redirectCacheTTL).Err(); err != nil {
		logger.Debugf("Redirect cache write for %q failed: %v", slug, err)
	}
}
