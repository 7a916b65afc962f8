package job

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeDeleter struct {
	cutoff int64
	err    error
}

func (f *fakeDeleter) DeleteBefore(ctx context.Context, cutoff int64) (int64, error) {
	f.cutoff = cutoff
	return 3, f.err
}

func TestEmbeddingCacheCleanupCutoff(t *testing.T) {
	repo := &fakeDeleter{}
	j := NewEmbeddingCacheCleanupJob(repo, 0)
	now := time.Date(2026, 3, 31, 4, 0, 0, 0, time.UTC)
	j.now = func() time.Time { return now }

	require.Equal(t, "embedding_cache_cleanup", j.Name())
	require.NoError(t, j.Run(context.Background()))
	require.Equal(t, now.AddDate(0, 0, -30).Unix(), repo.cutoff)
}

func TestEmbeddingCacheCleanupError(t *testing.T) {
	boom := errors.New("db down")
	j := NewEmbeddingCacheCleanupJob(&fakeDeleter{err: boom}, 7)
	require.ErrorIs(t, j.Run(context.Background()), boom)
}
