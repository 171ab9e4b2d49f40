package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/packlist/internal/apperrors"
	"github.com/nhle/packlist/internal/model"
	"github.com/nhle/packlist/internal/store"
	"github.com/nhle/packlist/tests/testutil"
)

func backends(t *testing.T) map[string]store.Store {
	return map[string]store.Store{
		"sqlite": testutil.NewTestStore(t),
		"file":   testutil.NewTestFileStore(t),
	}
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, store.DocSessions)
			assert.ErrorIs(t, err, apperrors.ErrNotFound)

			require.NoError(t, s.Put(ctx, store.DocSessions, []byte(`[1]`)))
			require.NoError(t, s.Put(ctx, store.DocSessions, []byte(`[1,2]`)))
			got, err := s.Get(ctx, store.DocSessions)
			require.NoError(t, err)
			assert.JSONEq(t, `[1,2]`, string(got))

			_, err = s.Get(ctx, store.DocRules)
			assert.ErrorIs(t, err, apperrors.ErrNotFound, "documents are independent")
		})
	}
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			var stats model.Statistics
			found, err := store.LoadJSON(ctx, s, store.DocStatistics, &stats)
			require.NoError(t, err)
			assert.False(t, found)

			want := model.Statistics{SessionsCreated: 3, TotalItemsPacked: 40, PerfectPackStreak: 2, LongestStreak: 5}
			require.NoError(t, store.SaveJSON(ctx, s, store.DocStatistics, want))

			found, err = store.LoadJSON(ctx, s, store.DocStatistics, &stats)
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, want, stats)

			require.NoError(t, s.Put(ctx, store.DocIdentity, []byte("{not json")))
			var id model.Identity
			_, err = store.LoadJSON(ctx, s, store.DocIdentity, &id)
			assert.Error(t, err)
		})
	}
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := store.NewFileStore(dir)
	require.NoError(t, err)

	for range 3 {
		require.NoError(t, s.Put(context.Background(), store.DocOnboarding, []byte(`{"completed":true}`)))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "onboarding.json", entries[0].Name())
}

func TestSQLiteUpdatedAt(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	_, err := s.UpdatedAt(ctx, store.DocRules)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, s.Put(ctx, store.DocRules, []byte(`[]`)))
	at, err := s.UpdatedAt(ctx, store.DocRules)
	require.NoError(t, err)
	assert.False(t, at.IsZero())
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	s, err := store.Open(model.StorageConfig{Backend: model.BackendSQLite, Dir: dir})
	require.NoError(t, err)
	require.NoError(t, s.Close())
	assert.FileExists(t, filepath.Join(dir, "packlist.db"))

	s, err = store.Open(model.StorageConfig{Backend: model.BackendJSON, Dir: filepath.Join(dir, "json")})
	require.NoError(t, err)
	assert.IsType(t, &store.FileStore{}, s)

	_, err = store.Open(model.StorageConfig{Backend: "etcd", Dir: dir})
	assert.Error(t, err)
}
