package feedback

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "feedback.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedback.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// reopening an already-migrated database must not fail
	store, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Close())
}

func TestRecordRejectsInvalidPolarity(t *testing.T) {
	store := openTestStore(t)

	err := store.Record(context.Background(), Entry{JobTitle: "x", Polarity: 0})
	require.Error(t, err)
}

func TestRepeatedFeedbackOnSameJobKeepsBothRows(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	entry := Entry{
		JobTitle: "Head of HR",
		Source:   "arbeitnow",
		URL:      "https://example.com/jobs/1",
		EmbScore: 71.3,
	}

	entry.Polarity = Liked
	entry.CreatedAt = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.Record(ctx, entry))

	entry.Polarity = Disliked
	entry.CreatedAt = time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC)
	require.NoError(t, store.Record(ctx, entry))

	liked, err := store.Recent(ctx, Liked, 1)
	require.NoError(t, err)
	disliked, err := store.Recent(ctx, Disliked, 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"Head of HR (arbeitnow)"}, liked)
	assert.Equal(t, []string{"Head of HR (arbeitnow)"}, disliked)
}

func TestRecentOrdersNewestFirstAndHonorsLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	for i, title := range []string{"oldest", "middle", "newest"} {
		require.NoError(t, store.Record(ctx, Entry{
			JobTitle:  title,
			Source:    "rss",
			Polarity:  Liked,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	got, err := store.Recent(ctx, Liked, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"newest (rss)", "middle (rss)"}, got)
}

func TestRecentExamplesSplitsByPolarity(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, Entry{JobTitle: "good", Source: "reed", Polarity: Liked}))
	require.NoError(t, store.Record(ctx, Entry{JobTitle: "bad", Source: "indeed", Polarity: Disliked}))

	liked, disliked, err := store.RecentExamples(ctx, 3)
	require.NoError(t, err)

	assert.Equal(t, []string{"good (reed)"}, liked)
	assert.Equal(t, []string{"bad (indeed)"}, disliked)
}

func TestRecentEmptyStore(t *testing.T) {
	store := openTestStore(t)

	got, err := store.Recent(context.Background(), Liked, 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}
