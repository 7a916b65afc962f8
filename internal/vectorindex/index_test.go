package vectorindex

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRejectsBadDimension(t *testing.T) {
	_, err := New(0)
	require.Error(t, err)
}

func TestSearchEmptyIndex(t *testing.T) {
	idx, err := New(2)
	require.NoError(t, err)
	res, err := idx.Search([]float32{1, 2}, 3)
	require.NoError(t, err)
	require.Empty(t, res)
}

func TestSearchExactMatchFirst(t *testing.T) {
	idx, _ := New(3)
	require.NoError(t, idx.Add(
		[]string{"a", "b", "c"},
		[][]float32{{0, 0, 0}, {1, 1, 1}, {5, 5, 5}},
	))
	res, err := idx.Search([]float32{1, 1, 1}, 1)
	require.NoError(t, err)
	require.Len(t, res, 1)
	require.Equal(t, "b", res[0].Text)
	require.Equal(t, float32(0), res[0].Distance)
}

func TestSearchKLargerThanSize(t *testing.T) {
	idx, _ := New(1)
	require.NoError(t, idx.Add([]string{"far", "near", "mid"}, [][]float32{{10}, {1}, {4}}))
	res, err := idx.Search([]float32{0}, 10)
	require.NoError(t, err)
	require.Len(t, res, 3)
	require.Equal(t, []string{"near", "mid", "far"}, []string{res[0].Text, res[1].Text, res[2].Text})
	require.Equal(t, []float32{1, 16, 100}, []float32{res[0].Distance, res[1].Distance, res[2].Distance})
}

func TestSearchNonPositiveK(t *testing.T) {
	idx, _ := New(1)
	require.NoError(t, idx.Add([]string{"x"}, [][]float32{{1}}))
	res, err := idx.Search([]float32{1}, 0)
	require.NoError(t, err)
	require.Empty(t, res)
}

func TestSearchTiesKeepInsertionOrder(t *testing.T) {
	idx, _ := New(1)
	require.NoError(t, idx.Add([]string{"first", "second", "third"}, [][]float32{{1}, {-1}, {1}}))
	res, err := idx.Search([]float32{0}, 3)
	require.NoError(t, err)
	require.Equal(t, "first", res[0].Text)
	require.Equal(t, "second", res[1].Text)
	require.Equal(t, "third", res[2].Text)
}

func TestAddMismatchAppendsNothing(t *testing.T) {
	idx, _ := New(2)
	err := idx.Add([]string{"ok", "bad"}, [][]float32{{1, 2}, {1, 2, 3}})
	require.ErrorIs(t, err, ErrDimensionMismatch)
	require.Equal(t, 0, idx.Len())

	err = idx.Add([]string{"only-text"}, nil)
	require.ErrorIs(t, err, ErrDimensionMismatch)
	require.Equal(t, 0, idx.Len())
}

func TestSearchQueryMismatch(t *testing.T) {
	idx, _ := New(2)
	require.NoError(t, idx.Add([]string{"a"}, [][]float32{{1, 2}}))
	_, err := idx.Search([]float32{1}, 1)
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestAddCopiesVectors(t *testing.T) {
	idx, _ := New(1)
	vec := []float32{3}
	require.NoError(t, idx.Add([]string{"a"}, [][]float32{vec}))
	vec[0] = 100
	res, err := idx.Search([]float32{3}, 1)
	require.NoError(t, err)
	require.Equal(t, float32(0), res[0].Distance)
}

func TestSearchMatchesLinearScan(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	idx, _ := New(8)
	var vectors [][]float32
	var texts []string
	for i := 0; i < 200; i++ {
		vec := make([]float32, 8)
		for j := range vec {
			vec[j] = rng.Float32()
		}
		vectors = append(vectors, vec)
		texts = append(texts, string(rune('a'+i%26)))
	}
	require.NoError(t, idx.Add(texts, vectors))
	require.Equal(t, 200, idx.Len())

	query := vectors[42]
	res, err := idx.Search(query, 5)
	require.NoError(t, err)
	require.Len(t, res, 5)
	require.Equal(t, float32(0), res[0].Distance)
	for i := 1; i < len(res); i++ {
		require.LessOrEqual(t, res[i-1].Distance, res[i].Distance)
	}
}
