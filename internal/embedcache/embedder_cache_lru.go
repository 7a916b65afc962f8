package embedcache

import (
	"context"
	"slices"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/NIKHIL-58/AI-ML/internal/ai"
)

// WrapLruCacheToEmbedder keeps recent embeddings in memory and lets concurrent
// requests for the same text share one upstream call. A non-positive size or
// ttl disables the cache.
func WrapLruCacheToEmbedder(e ai.IEmbedder, size int, ttl time.Duration) ai.IEmbedder {
	if e == nil || size <= 0 || ttl <= 0 {
		return e
	}
	return &memoryEmbedder{
		next:    e,
		vectors: expirable.NewLRU[string, []float32](size, nil, ttl),
	}
}

type memoryEmbedder struct {
	next     ai.IEmbedder
	vectors  *expirable.LRU[string, []float32]
	inflight singleflight.Group
}

func (m *memoryEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	key, _, _ := buildCacheKey(m.next.ModelName(), taskType, text)
	if vec, ok := m.vectors.Get(key); ok {
		logutil.GetLogger(ctx).Debug("embedding served from memory", zap.String("task_type", taskType))
		return slices.Clone(vec), nil
	}
	res, err, shared := m.inflight.Do(key, func() (interface{}, error) {
		vec, err := m.next.Embed(ctx, text, taskType)
		if err != nil {
			return nil, err
		}
		// stored before the flight ends so late callers hit memory
		m.vectors.Add(key, slices.Clone(vec))
		return vec, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logutil.GetLogger(ctx).Debug("embedding shared with concurrent request", zap.String("task_type", taskType))
	}
	// every caller owns its copy
	return slices.Clone(res.([]float32)), nil
}

func (m *memoryEmbedder) ModelName() string {
	return m.next.ModelName()
}
