package drafts

import (
	"context"
	"errors"
	"testing"
	"time"

	"givingbank/internal/db"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) Store {
	t.Helper()
	database, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return NewSQLiteStore(database)
}

func newFileStore(t *testing.T) Store {
	t.Helper()
	return NewFileStore(afero.NewMemMapFs(), "/drafts")
}

func eachStore(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Run("sqlite", func(t *testing.T) { fn(t, newSQLiteStore(t)) })
	t.Run("file", func(t *testing.T) { fn(t, newFileStore(t)) })
}

func TestStore_SaveTwiceKeepsOnlySecond(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		first := Snapshot{"totalHours": "12", "workDescription": "تنظيف الشاطئ"}
		second := Snapshot{"totalHours": "30"}

		require.NoError(t, s.Save(ctx, "visitor-1", HoursKey, first))
		require.NoError(t, s.Save(ctx, "visitor-1", HoursKey, second))

		got, err := s.Load(ctx, "visitor-1", HoursKey)
		require.NoError(t, err)
		assert.Equal(t, second, got.Values, "second save must replace the first wholesale")
		assert.WithinDuration(t, time.Now(), got.SavedAt, time.Minute)
	})
}

func TestStore_OwnersAreIsolated(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		require.NoError(t, s.Save(ctx, "a", HoursKey, Snapshot{"totalHours": "1"}))

		_, err := s.Load(ctx, "b", HoursKey)
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}

func TestStore_Delete(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		require.NoError(t, s.Save(ctx, "a", HoursKey, Snapshot{"totalHours": "1"}))
		require.NoError(t, s.Delete(ctx, "a", HoursKey))
		require.NoError(t, s.Delete(ctx, "a", HoursKey), "deleting twice is not an error")

		_, err := s.Load(ctx, "a", HoursKey)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStore_SaveDoesNotAliasInput(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		values := Snapshot{"totalHours": "5"}
		require.NoError(t, s.Save(ctx, "a", HoursKey, values))
		values["totalHours"] = "500"

		got, err := s.Load(ctx, "a", HoursKey)
		require.NoError(t, err)
		assert.Equal(t, "5", got.Values["totalHours"])
	})
}

func TestFileStore_RejectsPathTraversal(t *testing.T) {
	s := newFileStore(t)
	err := s.Save(context.Background(), "../etc", HoursKey, Snapshot{})
	assert.Error(t, err)
}

func TestSQLiteStore_Prune(t *testing.T) {
	database, err := db.Open(":memory:")
	require.NoError(t, err)
	defer database.Close()

	s := NewSQLiteStore(database)
	ctx := context.Background()

	s.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	require.NoError(t, s.Save(ctx, "old", HoursKey, Snapshot{"totalHours": "1"}))
	s.now = time.Now
	require.NoError(t, s.Save(ctx, "new", HoursKey, Snapshot{"totalHours": "2"}))

	n, err := s.Prune(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = s.Load(ctx, "old", HoursKey)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Load(ctx, "new", HoursKey)
	assert.NoError(t, err)
}
