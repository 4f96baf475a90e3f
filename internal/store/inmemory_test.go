package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eskoubar95-tech/findjobabroad/internal/store"
)

func TestInMemoryStoreJobLifecycle(t *testing.T) {
	t.Parallel()

	docs := store.NewInMemoryStore()
	ctx := context.Background()

	created, err := docs.CreateJob(ctx, store.Fields{
		store.FieldSlug:        "barista-coffee-house-denmark-ab1cd",
		store.FieldSource:      store.SourceAffiliate,
		store.FieldStatus:      store.StatusActive,
		store.FieldTitle:       "Barista",
		store.FieldCompany:     "Coffee House",
		store.FieldAffiliateID: "aff-9",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, docs.JobCount())

	found, err := docs.FindJobByAffiliateID(ctx, "aff-9")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = docs.FindJobByAffiliateID(ctx, "aff-missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	updated, err := docs.UpdateJob(ctx, created.ID, store.Fields{
		store.FieldTitle: "Head Barista",
	})
	require.NoError(t, err)
	assert.Equal(t, "Head Barista", updated.Title)
	require.NotNil(t, updated.Company)
	assert.Equal(t, "Coffee House", *updated.Company, "untouched fields survive partial updates")
}

func TestInMemoryStoreRejectsCreationOnlyUpdates(t *testing.T) {
	t.Parallel()

	docs := store.NewInMemoryStore()
	ctx := context.Background()

	created, err := docs.CreateJob(ctx, store.Fields{
		store.FieldSlug:   "fixed-slug-aaaaa",
		store.FieldSource: store.SourceAffiliate,
		store.FieldStatus: store.StatusActive,
		store.FieldTitle:  "Fixed",
	})
	require.NoError(t, err)

	for _, f := range []store.Field{store.FieldSlug, store.FieldSource, store.FieldAffiliateID} {
		_, err := docs.UpdateJob(ctx, created.ID, store.Fields{f: "changed"})
		assert.Error(t, err, "field %q must be immutable", f)
	}
}

func TestInMemoryStoreReadsAreIsolated(t *testing.T) {
	t.Parallel()

	docs := store.NewInMemoryStore()
	ctx := context.Background()

	created, err := docs.CreateJob(ctx, store.Fields{
		store.FieldSlug:              "isolated-aaaaa",
		store.FieldSource:            store.SourceAffiliate,
		store.FieldStatus:            store.StatusActive,
		store.FieldTitle:             "Isolated",
		store.FieldAffiliateID:       "aff-iso",
		store.FieldRequiredLanguages: []string{"en"},
	})
	require.NoError(t, err)

	// Mutating a returned copy must not leak into the store.
	created.Title = "Mutated"
	created.RequiredLanguages[0] = "zz"

	fresh, err := docs.FindJobByAffiliateID(ctx, "aff-iso")
	require.NoError(t, err)
	assert.Equal(t, "Isolated", fresh.Title)
	assert.Equal(t, []string{"en"}, fresh.RequiredLanguages)
}

func TestInMemoryStoreStaleListing(t *testing.T) {
	t.Parallel()

	docs := store.NewInMemoryStore()
	ctx := context.Background()
	cutoff := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	seed := func(slug, affiliateID, source, status string, seen time.Time) {
		t.Helper()
		_, err := docs.CreateJob(ctx, store.Fields{
			store.FieldSlug:        slug,
			store.FieldSource:      source,
			store.FieldStatus:      status,
			store.FieldTitle:       "Job",
			store.FieldAffiliateID: affiliateID,
			store.FieldLastSeenAt:  seen,
		})
		require.NoError(t, err)
	}

	seed("stale-aaaaa", "s-1", store.SourceAffiliate, store.StatusActive, cutoff.Add(-time.Hour))
	seed("fresh-bbbbb", "s-2", store.SourceAffiliate, store.StatusActive, cutoff.Add(time.Hour))
	seed("manual-ccccc", "s-3", store.SourceManual, store.StatusActive, cutoff.Add(-time.Hour))
	seed("expired-ddddd", "s-4", store.SourceAffiliate, store.StatusExpired, cutoff.Add(-time.Hour))

	stale, err := docs.ListStaleAffiliateJobs(ctx, cutoff, 10)
	require.NoError(t, err)
	require.Len(t, stale, 1, "only active affiliate jobs older than cutoff qualify")
	require.NotNil(t, stale[0].AffiliateID)
	assert.Equal(t, "s-1", *stale[0].AffiliateID)
}

func TestJobLocalizedTitle(t *testing.T) {
	t.Parallel()

	danish := "Softwareudvikler"
	job := store.Job{Title: "Software Engineer", TitleDA: &danish}
	assert.Equal(t, "Softwareudvikler", job.LocalizedTitle(store.LocaleDA))
	assert.Equal(t, "Software Engineer", job.LocalizedTitle(store.LocaleEN))

	untranslated := store.Job{Title: "Software Engineer"}
	assert.Equal(t, "Software Engineer", untranslated.LocalizedTitle(store.LocaleDA),
		"missing translation falls back to the canonical title")
}

func TestJobHasOverride(t *testing.T) {
	t.Parallel()

	job := store.Job{ManualOverrides: []store.Field{store.FieldTitle, store.FieldSalary}}
	assert.True(t, job.HasOverride(store.FieldTitle))
	assert.True(t, job.HasOverride(store.FieldSalary))
	assert.False(t, job.HasOverride(store.FieldCompany))
}
