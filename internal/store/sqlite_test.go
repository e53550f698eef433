package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfinch/furniture-watch/internal/store"
	"github.com/mfinch/furniture-watch/pkg/extract"
	domain "github.com/mfinch/furniture-watch/pkg/types"
)

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	ctx := context.Background()
	s, err := store.NewSQLiteStore(ctx, filepath.Join(t.TempDir(), "items.db"), time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Migrate(ctx))
	return s
}

func ptr[T any](v T) *T {
	return &v
}

func sofaListing(path, title string, price *float64, sold bool) domain.Listing {
	return domain.Listing{
		ID:       extract.HashString(path),
		Category: domain.CategorySofa,
		Title:    &title,
		Sold:     sold,
		Price:    price,
		URL:      "https://communityfurniture.org" + path,
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	require.NoError(t, s.Migrate(context.Background()))
}

func TestInsertListings_NewAndDuplicate(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	listings := []domain.Listing{
		sofaListing("/sofa/red-couch", "Red Couch", nil, false),
		sofaListing("/sofa/blue-chair", "Blue Chair", ptr(99.99), true),
	}

	n, err := s.InsertListings(ctx, listings)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Re-scraping the same page inserts nothing.
	n, err = s.InsertListings(ctx, listings)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestInsertListings_IgnoreNeverOverwrites(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	first := sofaListing("/sofa/red-couch", "Red Couch", ptr(45.00), false)
	_, err := s.InsertListings(ctx, []domain.Listing{first})
	require.NoError(t, err)

	// Same id, different field values, as if the item got marked sold
	// and the price node disappeared.
	changed := sofaListing("/sofa/red-couch", "Red Couch SALE", nil, true)
	n, err := s.InsertListings(ctx, []domain.Listing{changed})
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	got, err := s.GetItem(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Title)
	assert.Equal(t, "Red Couch", *got.Title)
	assert.False(t, got.Sold)
	require.NotNil(t, got.Price)
	assert.InDelta(t, 45.00, *got.Price, 0.001)
}

func TestInsertListings_NullFields(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	l := domain.Listing{
		ID:       extract.HashString("/sofa/mystery"),
		Category: domain.CategorySofa,
		URL:      "https://communityfurniture.org/sofa/mystery",
	}
	_, err := s.InsertListings(ctx, []domain.Listing{l})
	require.NoError(t, err)

	got, err := s.GetItem(ctx, l.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Title)
	assert.Nil(t, got.Price)
	assert.Nil(t, got.AlertSentAt)
}

func TestInsertListings_Empty(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	n, err := s.InsertListings(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestListUnalerted_FiltersAndOrdering(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.InsertListings(ctx, []domain.Listing{
		sofaListing("/sofa/red-couch", "Red Couch", nil, false),
		sofaListing("/sofa/blue-chair", "Blue Chair", ptr(99.99), true), // sold, excluded
		{
			ID:       extract.HashString("/chair/oak-rocker"),
			Category: domain.CategoryChair, // other category, excluded
			Title:    ptr("Oak Rocker"),
			URL:      "https://communityfurniture.org/chair/oak-rocker",
		},
	})
	require.NoError(t, err)

	items, err := s.ListUnalerted(ctx, domain.CategorySofa)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, extract.HashString("/sofa/red-couch"), items[0].ID)

	// Deterministic across calls.
	again, err := s.ListUnalerted(ctx, domain.CategorySofa)
	require.NoError(t, err)
	assert.Equal(t, items, again)
}

func TestMarkAlerted_ExcludesFromSweep(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	l := sofaListing("/sofa/red-couch", "Red Couch", nil, false)
	_, err := s.InsertListings(ctx, []domain.Listing{l})
	require.NoError(t, err)

	sentAt := time.Date(2025, 11, 3, 9, 30, 0, 0, time.UTC)
	require.NoError(t, s.MarkAlerted(ctx, l.ID, sentAt))

	items, err := s.ListUnalerted(ctx, domain.CategorySofa)
	require.NoError(t, err)
	assert.Empty(t, items)

	got, err := s.GetItem(ctx, l.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AlertSentAt)
	assert.Equal(t, sentAt, got.AlertSentAt.UTC())

	// A second mark just overwrites the timestamp.
	require.NoError(t, s.MarkAlerted(ctx, l.ID, sentAt.Add(time.Hour)))
}

func TestMarkAlerted_UnknownItem(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	err := s.MarkAlerted(context.Background(), "deadbeef", time.Now())
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetItem_NotFound(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	_, err := s.GetItem(context.Background(), "deadbeef")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestListItems_CategoryFilterAndLimit(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.InsertListings(ctx, []domain.Listing{
		sofaListing("/sofa/a", "A", nil, false),
		sofaListing("/sofa/b", "B", nil, false),
		{
			ID:       extract.HashString("/table/c"),
			Category: domain.CategoryTable,
			Title:    ptr("C"),
			URL:      "https://communityfurniture.org/table/c",
		},
	})
	require.NoError(t, err)

	all, err := s.ListItems(ctx, nil, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	sofa := domain.CategorySofa
	sofas, err := s.ListItems(ctx, &sofa, 10)
	require.NoError(t, err)
	assert.Len(t, sofas, 2)

	limited, err := s.ListItems(ctx, nil, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestCountItems(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	total, unalerted, err := s.CountItems(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Zero(t, unalerted)

	l := sofaListing("/sofa/red-couch", "Red Couch", nil, false)
	_, err = s.InsertListings(ctx, []domain.Listing{
		l,
		sofaListing("/sofa/blue-chair", "Blue Chair", nil, false),
	})
	require.NoError(t, err)
	require.NoError(t, s.MarkAlerted(ctx, l.ID, time.Now()))

	total, unalerted, err = s.CountItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, 1, unalerted)
}

func TestJobRunLifecycle(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.InsertJobRun(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	runs, err := s.ListJobRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, domain.JobRunStatusRunning, runs[0].Status)
	assert.Nil(t, runs[0].CompletedAt)

	require.NoError(t, s.CompleteJobRun(ctx, id, domain.JobRunStatusOK, "", 12, 3, 1))

	runs, err = s.ListJobRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, domain.JobRunStatusOK, runs[0].Status)
	require.NotNil(t, runs[0].CompletedAt)
	assert.Equal(t, 12, runs[0].ListingsSeen)
	assert.Equal(t, 3, runs[0].NewItems)
	assert.Equal(t, 1, runs[0].AlertsSent)
}
