// Package sentiment classifies review text as positive or negative with a
// tf-idf bag of words and logistic regression.
package sentiment

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/NIKHIL-58/AI-ML/internal/model"
	appErr "github.com/NIKHIL-58/AI-ML/internal/pkg/errors"
)

const (
	DefaultMaxFeatures = 10000
	DefaultEpochs      = 500

	defaultLearningRate = 1.0
	defaultC            = 1.0
)

type TrainConfig struct {
	MaxFeatures int
	Epochs      int
}

// Model is immutable once trained and safe for concurrent Predict calls.
type Model struct {
	Vectorizer *Vectorizer `json:"vectorizer"`
	Weights    []float64   `json:"weights"`
	Bias       float64     `json:"bias"`
	Samples    int         `json:"samples"`
	TrainedAt  int64       `json:"trained_at"`
}

// Train fits a model on raw review texts. labels[i] is true for positive.
func Train(texts []string, labels []bool, cfg TrainConfig) (*Model, error) {
	if len(texts) != len(labels) {
		return nil, appErr.Invalidf("got %d texts for %d labels", len(texts), len(labels))
	}
	var positives int
	for _, l := range labels {
		if l {
			positives++
		}
	}
	if positives == 0 || positives == len(labels) {
		return nil, appErr.Invalidf("training data needs both positive and negative samples")
	}
	if cfg.MaxFeatures <= 0 {
		cfg.MaxFeatures = DefaultMaxFeatures
	}
	if cfg.Epochs <= 0 {
		cfg.Epochs = DefaultEpochs
	}
	docs := make([]string, len(texts))
	for i, text := range texts {
		docs[i] = Preprocess(text)
	}
	vec := FitVectorizer(docs, cfg.MaxFeatures)
	if vec.Size() == 0 {
		return nil, appErr.Invalidf("training data has no usable terms")
	}
	x := make([]sparseVector, len(docs))
	y := make([]float64, len(docs))
	for i, doc := range docs {
		x[i] = vec.Transform(doc)
		if labels[i] {
			y[i] = 1
		}
	}
	w, b := fitLogistic(x, y, vec.Size(), trainOptions{
		Epochs:       cfg.Epochs,
		LearningRate: defaultLearningRate,
		C:            defaultC,
	})
	return &Model{
		Vectorizer: vec,
		Weights:    w,
		Bias:       b,
		Samples:    len(texts),
		TrainedAt:  time.Now().Unix(),
	}, nil
}

// Probability returns P(positive | text).
func (m *Model) Probability(text string) float64 {
	row := m.Vectorizer.Transform(Preprocess(text))
	return sigmoid(dot(m.Weights, row) + m.Bias)
}

// Predict returns the label and the probability of that label, which is
// always within [0.5, 1].
func (m *Model) Predict(text string) (string, float64) {
	p := m.Probability(text)
	if p > 0.5 {
		return model.SentimentPositive, p
	}
	return model.SentimentNegative, 1 - p
}

// Encode writes the model as zstd compressed json.
func (m *Model) Encode(w io.Writer) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("create zstd writer: %w", err)
	}
	if err := json.NewEncoder(zw).Encode(m); err != nil {
		_ = zw.Close()
		return fmt.Errorf("encode model: %w", err)
	}
	return zw.Close()
}

func Decode(r io.Reader) (*Model, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("create zstd reader: %w", err)
	}
	defer zr.Close()
	m := &Model{}
	if err := json.NewDecoder(zr).Decode(m); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if m.Vectorizer == nil || len(m.Vectorizer.Terms) != len(m.Vectorizer.IDF) || len(m.Weights) != len(m.Vectorizer.Terms) {
		return nil, fmt.Errorf("model snapshot is inconsistent")
	}
	m.Vectorizer.buildIndex()
	return m, nil
}
