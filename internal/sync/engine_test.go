package sync_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/eskoubar95-tech/findjobabroad/internal/feed"
	feedmocks "github.com/eskoubar95-tech/findjobabroad/internal/feed/mocks"
	"github.com/eskoubar95-tech/findjobabroad/internal/store"
	storemocks "github.com/eskoubar95-tech/findjobabroad/internal/store/mocks"
	syncengine "github.com/eskoubar95-tech/findjobabroad/internal/sync"
	"github.com/eskoubar95-tech/findjobabroad/internal/sync/runlog"
)

// newTestEngine wires an engine over in-memory stores with a deterministic
// clock and slug suffix.
func newTestEngine(t *testing.T, adapter feed.Adapter, now time.Time) (*syncengine.Engine, *store.InMemoryStore, *runlog.InMemoryStore) {
	t.Helper()

	docs := store.NewInMemoryStore()
	docs.SeedCountry("denmark", "Denmark")
	docs.SeedCountry("sweden", "Sweden")

	runs := runlog.NewInMemoryStore()

	engine := syncengine.NewEngine(docs, runs, adapter, syncengine.Config{},
		syncengine.WithClock(func() time.Time { return now }),
		syncengine.WithSlugSuffix(func() string { return "ab1cd" }),
	)
	return engine, docs, runs
}

func TestRunCreatesAllNewJobs(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	engine, docs, runs := newTestEngine(t, feed.NewMockAdapter(), now)

	result, err := engine.Run(context.Background(), syncengine.TriggeredByManual)
	require.NoError(t, err)

	assert.Equal(t, 5, result.NewCount)
	assert.Equal(t, 0, result.UpdatedCount)
	assert.Equal(t, 0, result.InactiveCount)
	assert.Equal(t, 5, docs.JobCount())

	logged := runs.Runs()
	require.Len(t, logged, 1)
	assert.Equal(t, runlog.StatusSuccess, logged[0].Status)
	assert.Equal(t, "manual", logged[0].TriggeredBy)
	assert.Equal(t, 5, logged[0].NewCount)
	require.NotNil(t, logged[0].FinishedAt)
	assert.Nil(t, logged[0].ErrorMessage)

	job, err := docs.FindJobByAffiliateID(context.Background(), "mock-1")
	require.NoError(t, err)
	assert.Equal(t, "software-engineer-tech-corp-denmark-ab1cd", job.Slug)
	assert.Equal(t, store.SourceAffiliate, job.Source)
	assert.Equal(t, store.StatusActive, job.Status)
	assert.Equal(t, "Software Engineer", job.Title)
	require.NotNil(t, job.Company)
	assert.Equal(t, "Tech Corp", *job.Company)
	require.NotNil(t, job.LastSeenAt)
	assert.Equal(t, now, *job.LastSeenAt)
	assert.NotNil(t, job.CountryID, "known country slug should resolve to a foreign key")
}

func TestRunIsIdempotent(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	engine, docs, runs := newTestEngine(t, feed.NewMockAdapter(), now)

	_, err := engine.Run(context.Background(), syncengine.TriggeredByCron)
	require.NoError(t, err)

	result, err := engine.Run(context.Background(), syncengine.TriggeredByCron)
	require.NoError(t, err)

	assert.Equal(t, 0, result.NewCount)
	assert.Equal(t, 5, result.UpdatedCount)
	assert.Equal(t, 5, docs.JobCount(), "re-running the same batch must not duplicate jobs")
	assert.Len(t, runs.Runs(), 2)
}

func TestRunPreservesManualOverrides(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	engine, docs, _ := newTestEngine(t, feed.NewMockAdapter(), now)
	ctx := context.Background()

	_, err := engine.Run(ctx, syncengine.TriggeredByCron)
	require.NoError(t, err)

	job, err := docs.FindJobByAffiliateID(ctx, "mock-1")
	require.NoError(t, err)

	// An operator rewrites the title and locks it.
	curated := "Senior Software Engineer (Relocation Support)"
	_, err = docs.UpdateJob(ctx, job.ID, store.Fields{store.FieldTitle: curated})
	require.NoError(t, err)
	require.NoError(t, docs.SetManualOverrides(job.ID, store.FieldTitle))

	_, err = engine.Run(ctx, syncengine.TriggeredByCron)
	require.NoError(t, err)

	after, err := docs.FindJobByAffiliateID(ctx, "mock-1")
	require.NoError(t, err)
	assert.Equal(t, curated, after.Title, "locked field must survive a sync pass")
	require.NotNil(t, after.Company)
	assert.Equal(t, "Tech Corp", *after.Company, "unlocked fields still sync")
	assert.Equal(t, job.Slug, after.Slug, "slug never changes after creation")
}

func TestRunRejectsConcurrentPass(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	engine, docs, runs := newTestEngine(t, feed.NewMockAdapter(), now)
	ctx := context.Background()

	// Another trigger already holds the running slot.
	_, err := runs.Begin(ctx, "cron")
	require.NoError(t, err)

	result, err := engine.Run(ctx, syncengine.TriggeredByManual)
	assert.ErrorIs(t, err, syncengine.ErrSyncInProgress)
	assert.Nil(t, result)
	assert.Equal(t, 0, docs.JobCount(), "rejected run must not touch the store")
	assert.Len(t, runs.Runs(), 1, "rejected run must not add a log row")
}

func TestRunFetchFailure(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	adapter := feedmocks.NewMockAdapter(ctrl)
	adapter.EXPECT().FetchJobs(gomock.Any()).Return(nil, errors.New("upstream 503"))

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	engine, docs, runs := newTestEngine(t, adapter, now)

	result, err := engine.Run(context.Background(), syncengine.TriggeredByCron)
	require.Error(t, err)
	assert.Nil(t, result)

	var fetchErr *syncengine.FetchError
	require.ErrorAs(t, err, &fetchErr)

	assert.Equal(t, 0, docs.JobCount(), "fetch failure must leave the store untouched")

	logged := runs.Runs()
	require.Len(t, logged, 1)
	assert.Equal(t, runlog.StatusError, logged[0].Status)
	require.NotNil(t, logged[0].ErrorMessage)
	assert.Contains(t, *logged[0].ErrorMessage, "upstream 503")
	require.NotNil(t, logged[0].FinishedAt, "failed run must still be finalized")
}

func TestRunExpiresStaleJobs(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	engine, docs, _ := newTestEngine(t, feed.NewMockAdapter(), now)
	ctx := context.Background()

	// One affiliate job last seen outside the 48h window, one just inside.
	staleSeen := now.Add(-49 * time.Hour)
	freshSeen := now.Add(-47 * time.Hour)

	staleJob, err := docs.CreateJob(ctx, store.Fields{
		store.FieldSlug:        "old-listing-aaaaa",
		store.FieldSource:      store.SourceAffiliate,
		store.FieldStatus:      store.StatusActive,
		store.FieldTitle:       "Old Listing",
		store.FieldAffiliateID: "gone-1",
		store.FieldLastSeenAt:  staleSeen,
	})
	require.NoError(t, err)

	freshJob, err := docs.CreateJob(ctx, store.Fields{
		store.FieldSlug:        "recent-listing-bbbbb",
		store.FieldSource:      store.SourceAffiliate,
		store.FieldStatus:      store.StatusActive,
		store.FieldTitle:       "Recent Listing",
		store.FieldAffiliateID: "gone-2",
		store.FieldLastSeenAt:  freshSeen,
	})
	require.NoError(t, err)

	result, err := engine.Run(ctx, syncengine.TriggeredByCron)
	require.NoError(t, err)
	assert.Equal(t, 1, result.InactiveCount)

	stale, err := docs.FindJobByAffiliateID(ctx, "gone-1")
	require.NoError(t, err)
	assert.Equal(t, store.StatusExpired, stale.Status)
	assert.Equal(t, staleJob.Slug, stale.Slug)

	fresh, err := docs.FindJobByAffiliateID(ctx, "gone-2")
	require.NoError(t, err)
	assert.Equal(t, store.StatusActive, fresh.Status, "job inside the grace window must survive")
	assert.Equal(t, freshJob.Slug, fresh.Slug)
}

func TestRunAbortsOnRecordFailure(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	docs := storemocks.NewMockDocumentStore(ctrl)
	runs := runlog.NewInMemoryStore()

	// First record lands, second one blows up, and nothing after it runs.
	docs.EXPECT().FindCountryBySlug(gomock.Any(), gomock.Any()).Return(nil, store.ErrNotFound).AnyTimes()
	docs.EXPECT().FindCityBySlug(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, store.ErrNotFound).AnyTimes()
	docs.EXPECT().FindJobByAffiliateID(gomock.Any(), "mock-1").Return(nil, store.ErrNotFound)
	docs.EXPECT().CreateJob(gomock.Any(), gomock.Any()).Return(&store.Job{}, nil)
	docs.EXPECT().FindJobByAffiliateID(gomock.Any(), "mock-2").Return(nil, errors.New("connection reset"))

	engine := syncengine.NewEngine(docs, runs, feed.NewMockAdapter(), syncengine.Config{})

	result, err := engine.Run(context.Background(), syncengine.TriggeredByCron)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "mock-2")

	logged := runs.Runs()
	require.Len(t, logged, 1)
	assert.Equal(t, runlog.StatusError, logged[0].Status)
	assert.Equal(t, 1, logged[0].NewCount, "partial progress is recorded on the failed run")
}

func TestRunResolvesUnknownLocationToNil(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	adapter := feedmocks.NewMockAdapter(ctrl)
	adapter.EXPECT().FetchJobs(gomock.Any()).Return([]feed.NormalizedJob{
		{
			Title:       "Ski Instructor",
			CountrySlug: "atlantis",
			CitySlug:    "lost-city",
			AffiliateID: "aff-404",
		},
	}, nil)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	engine, docs, _ := newTestEngine(t, adapter, now)
	ctx := context.Background()

	result, err := engine.Run(ctx, syncengine.TriggeredByCron)
	require.NoError(t, err)
	assert.Equal(t, 1, result.NewCount)

	job, err := docs.FindJobByAffiliateID(ctx, "aff-404")
	require.NoError(t, err)
	assert.Nil(t, job.CountryID, "unknown country slug must not fail the record")
	assert.Nil(t, job.CityID)
}

func TestParseTriggeredBy(t *testing.T) {
	t.Parallel()

	assert.Equal(t, syncengine.TriggeredByManual, syncengine.ParseTriggeredBy("manual"))
	assert.Equal(t, syncengine.TriggeredByCron, syncengine.ParseTriggeredBy("cron"))
	assert.Equal(t, syncengine.TriggeredByCron, syncengine.ParseTriggeredBy(""))
	assert.Equal(t, syncengine.TriggeredByCron, syncengine.ParseTriggeredBy("somebody-else"))
}
