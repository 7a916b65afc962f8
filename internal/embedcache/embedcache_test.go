package embedcache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/NIKHIL-58/AI-ML/internal/model"
)

type countingEmbedder struct {
	calls int
}

func (c *countingEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	c.calls++
	return []float32{float32(len(text)), 1}, nil
}

func (c *countingEmbedder) ModelName() string {
	return "local:test"
}

type memoryRepo struct {
	mu      sync.Mutex
	items   map[string]*model.EmbeddingCache
	getErr  error
	saveErr error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: map[string]*model.EmbeddingCache{}}
}

func (m *memoryRepo) Get(ctx context.Context, modelName, taskType, contentHash string) ([]float32, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	item, ok := m.items[modelName+"|"+taskType+"|"+contentHash]
	if !ok {
		return nil, false, nil
	}
	return item.Embedding, true, nil
}

func (m *memoryRepo) Save(ctx context.Context, item *model.EmbeddingCache) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.items[item.ModelName+"|"+item.TaskType+"|"+item.ContentHash] = item
	return nil
}

func TestLRUCacheServesRepeatedText(t *testing.T) {
	inner := &countingEmbedder{}
	e := WrapLruCacheToEmbedder(inner, 16, time.Minute)
	ctx := context.Background()

	first, err := e.Embed(ctx, "hello", "q")
	require.NoError(t, err)
	first[0] = 99
	second, err := e.Embed(ctx, "hello", "q")
	require.NoError(t, err)
	require.Equal(t, []float32{5, 1}, second)
	require.Equal(t, 1, inner.calls)

	_, err = e.Embed(ctx, "hello", "d")
	require.NoError(t, err)
	require.Equal(t, 2, inner.calls)
	require.Equal(t, "local:test", e.ModelName())
}

type gatedEmbedder struct {
	mu      sync.Mutex
	calls   int
	entered chan struct{}
	release chan struct{}
}

func (g *gatedEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	g.mu.Lock()
	g.calls++
	first := g.calls == 1
	g.mu.Unlock()
	if first {
		close(g.entered)
	}
	<-g.release
	return []float32{1, 2}, nil
}

func (g *gatedEmbedder) ModelName() string {
	return "local:gated"
}

func TestLRUCacheSharesConcurrentMisses(t *testing.T) {
	inner := &gatedEmbedder{entered: make(chan struct{}), release: make(chan struct{})}
	e := WrapLruCacheToEmbedder(inner, 16, time.Minute)
	ctx := context.Background()

	const callers = 4
	results := make([][]float32, callers)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _ = e.Embed(ctx, "same text", "d")
	}()
	<-inner.entered
	for i := 1; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = e.Embed(ctx, "same text", "d")
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(inner.release)
	wg.Wait()

	require.Equal(t, 1, inner.calls)
	for _, vec := range results {
		require.Equal(t, []float32{1, 2}, vec)
	}
	results[0][0] = 42
	require.Equal(t, float32(1), results[1][0])
}

func TestLRUCacheDisabled(t *testing.T) {
	inner := &countingEmbedder{}
	require.Same(t, inner, WrapLruCacheToEmbedder(inner, 0, time.Minute))
}

func TestDBCacheStoresAndReuses(t *testing.T) {
	inner := &countingEmbedder{}
	store := newMemoryRepo()
	e := WrapDBCacheToEmbedder(inner, store)
	ctx := context.Background()

	_, err := e.Embed(ctx, "abc", "q")
	require.NoError(t, err)
	require.Len(t, store.items, 1)
	for _, item := range store.items {
		require.Equal(t, "local:test", item.ModelName)
		require.Len(t, item.ContentHash, 64)
	}
	vec, err := e.Embed(ctx, "abc", "q")
	require.NoError(t, err)
	require.Equal(t, []float32{3, 1}, vec)
	require.Equal(t, 1, inner.calls)
}

func TestDBCacheFailuresFallThrough(t *testing.T) {
	inner := &countingEmbedder{}
	store := newMemoryRepo()
	store.getErr = errors.New("db down")
	store.saveErr = errors.New("db down")
	e := WrapDBCacheToEmbedder(inner, store)

	vec, err := e.Embed(context.Background(), "abcd", "q")
	require.NoError(t, err)
	require.Equal(t, []float32{4, 1}, vec)
	require.Equal(t, 1, inner.calls)
}

func TestBuildCacheKeyDefaultsModel(t *testing.T) {
	key, hash, modelName := buildCacheKey(" ", "q", "x")
	require.Equal(t, "unknown", modelName)
	require.Equal(t, "embed:unknown:q:"+hash, key)
}
