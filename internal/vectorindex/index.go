// Package vectorindex keeps embeddings in memory with their source text and
// answers exact nearest-neighbour queries by brute force.
package vectorindex

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/hupe1980/vecgo/distance"
)

var ErrDimensionMismatch = errors.New("vector dimension mismatch")

type Result struct {
	Text     string
	Distance float32
}

// Index is an append-only flat index. vectors[i] belongs to texts[i].
type Index struct {
	mu      sync.RWMutex
	dim     int
	vectors [][]float32
	texts   []string
}

func New(dim int) (*Index, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("index dimension must be positive, got %d", dim)
	}
	return &Index{dim: dim}, nil
}

func (idx *Index) Dimension() int {
	return idx.dim
}

func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.vectors)
}

// Add appends texts with their vectors. Input is validated as a whole and
// nothing is stored when any element is rejected.
func (idx *Index) Add(texts []string, vectors [][]float32) error {
	if len(texts) != len(vectors) {
		return fmt.Errorf("%w: %d texts for %d vectors", ErrDimensionMismatch, len(texts), len(vectors))
	}
	for i, vec := range vectors {
		if len(vec) != idx.dim {
			return fmt.Errorf("%w: vector %d has %d dimensions, index has %d", ErrDimensionMismatch, i, len(vec), idx.dim)
		}
	}
	copied := make([][]float32, len(vectors))
	for i, vec := range vectors {
		copied[i] = append([]float32(nil), vec...)
	}
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.vectors = append(idx.vectors, copied...)
	idx.texts = append(idx.texts, texts...)
	return nil
}

// Search returns the k entries closest to query by squared euclidean
// distance, nearest first. Equal distances keep insertion order.
func (idx *Index) Search(query []float32, k int) ([]Result, error) {
	if len(query) != idx.dim {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d", ErrDimensionMismatch, len(query), idx.dim)
	}
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if k <= 0 || len(idx.vectors) == 0 {
		return []Result{}, nil
	}
	type scored struct {
		pos  int
		dist float32
	}
	all := make([]scored, len(idx.vectors))
	for i, vec := range idx.vectors {
		all[i] = scored{pos: i, dist: distance.SquaredL2(query, vec)}
	}
	sort.SliceStable(all, func(a, b int) bool {
		return all[a].dist < all[b].dist
	})
	if k > len(all) {
		k = len(all)
	}
	out := make([]Result, 0, k)
	for _, item := range all[:k] {
		out = append(out, Result{Text: idx.texts[item.pos], Distance: item.dist})
	}
	return out, nil
}
