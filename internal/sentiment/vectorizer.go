package sentiment

import (
	"math"
	"sort"
)

// sparseVector holds the non-zero features of one document.
type sparseVector struct {
	Index []int
	Value []float64
}

// Vectorizer turns preprocessed text into l2-normalised tf-idf features.
type Vectorizer struct {
	Terms []string  `json:"terms"`
	IDF   []float64 `json:"idf"`

	index map[string]int
}

// FitVectorizer builds a vocabulary of at most maxFeatures terms, chosen by
// corpus frequency, and computes smoothed idf weights.
func FitVectorizer(docs []string, maxFeatures int) *Vectorizer {
	termFreq := map[string]int{}
	docFreq := map[string]int{}
	for _, doc := range docs {
		seen := map[string]struct{}{}
		for _, tok := range tokenize(doc) {
			termFreq[tok]++
			if _, ok := seen[tok]; !ok {
				seen[tok] = struct{}{}
				docFreq[tok]++
			}
		}
	}
	terms := make([]string, 0, len(termFreq))
	for term := range termFreq {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if termFreq[terms[i]] != termFreq[terms[j]] {
			return termFreq[terms[i]] > termFreq[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if maxFeatures > 0 && len(terms) > maxFeatures {
		terms = terms[:maxFeatures]
	}
	sort.Strings(terms)

	n := float64(len(docs))
	idf := make([]float64, len(terms))
	for i, term := range terms {
		idf[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}
	v := &Vectorizer{Terms: terms, IDF: idf}
	v.buildIndex()
	return v
}

func (v *Vectorizer) buildIndex() {
	v.index = make(map[string]int, len(v.Terms))
	for i, term := range v.Terms {
		v.index[term] = i
	}
}

func (v *Vectorizer) Size() int {
	return len(v.Terms)
}

// Transform vectorises one preprocessed document. Unknown terms are ignored.
func (v *Vectorizer) Transform(doc string) sparseVector {
	counts := map[int]float64{}
	for _, tok := range tokenize(doc) {
		if idx, ok := v.index[tok]; ok {
			counts[idx]++
		}
	}
	out := sparseVector{
		Index: make([]int, 0, len(counts)),
		Value: make([]float64, 0, len(counts)),
	}
	for idx := range counts {
		out.Index = append(out.Index, idx)
	}
	sort.Ints(out.Index)
	var norm float64
	for _, idx := range out.Index {
		val := counts[idx] * v.IDF[idx]
		out.Value = append(out.Value, val)
		norm += val * val
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range out.Value {
			out.Value[i] /= norm
		}
	}
	return out
}
