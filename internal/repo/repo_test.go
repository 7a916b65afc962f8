package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/NIKHIL-58/AI-ML/internal/model"
	"github.com/NIKHIL-58/AI-ML/internal/repo"
	"github.com/NIKHIL-58/AI-ML/test/testutil"
)

func TestMessageRepoOrder(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	messages := repo.NewMessageRepo(db)
	ctx := context.Background()
	first, err := messages.Save(ctx, model.RoleUser, "what is ai")
	require.NoError(t, err)
	require.NotZero(t, first.ID)
	require.False(t, first.Timestamp.IsZero())
	_, err = messages.Save(ctx, model.RoleSystem, "ai is ...")
	require.NoError(t, err)
	_, err = messages.Save(ctx, model.RoleUser, "thanks")
	require.NoError(t, err)

	all, err := messages.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "what is ai", all[0].Content)
	require.Equal(t, "thanks", all[2].Content)

	recent, err := messages.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, model.RoleSystem, recent[0].Role)
	require.Equal(t, "thanks", recent[1].Content)
}

func TestPredictionRepoSaveList(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	predictions := repo.NewPredictionRepo(db)
	ctx := context.Background()
	empty, err := predictions.List(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, empty)

	p := &model.Prediction{Text: "great", Sentiment: model.SentimentPositive, Confidence: 0.9, Ctime: time.Now().Unix()}
	require.NoError(t, predictions.Save(ctx, p))
	require.NotZero(t, p.ID)

	list, err := predictions.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "great", list[0].Text)
	require.InDelta(t, 0.9, list[0].Confidence, 1e-9)
}

func TestEmbeddingCacheRepo(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	cache := repo.NewEmbeddingCacheRepo(db)
	ctx := context.Background()
	_, ok, err := cache.Get(ctx, "m", "q", "h")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, cache.Save(ctx, &model.EmbeddingCache{
		ModelName: "m", TaskType: "q", ContentHash: "h", Embedding: []float32{1, 2, 3}, Ctime: 100,
	}))
	vec, ok, err := cache.Get(ctx, "m", "q", "h")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []float32{1, 2, 3}, vec)

	n, err := cache.DeleteBefore(ctx, 200)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}
