package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/NIKHIL-58/AI-ML/internal/filestore"
	"github.com/NIKHIL-58/AI-ML/internal/model"
	appErr "github.com/NIKHIL-58/AI-ML/internal/pkg/errors"
	"github.com/NIKHIL-58/AI-ML/internal/sentiment"
)

type SentimentService struct {
	model       *sentiment.Model
	predictions PredictionStore
}

func NewSentimentService(m *sentiment.Model, predictions PredictionStore) *SentimentService {
	return &SentimentService{model: m, predictions: predictions}
}

// Predict classifies text and stores the prediction.
func (s *SentimentService) Predict(ctx context.Context, text string) (*model.Prediction, error) {
	if strings.TrimSpace(text) == "" {
		return nil, appErr.Invalidf("text is required")
	}
	label, confidence := s.model.Predict(text)
	p := &model.Prediction{
		Text:       text,
		Sentiment:  label,
		Confidence: confidence,
		Ctime:      time.Now().Unix(),
	}
	if err := s.predictions.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 100
)

// Recent lists stored predictions newest first, at most maxRecentLimit.
func (s *SentimentService) Recent(ctx context.Context, limit int) ([]model.Prediction, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}
	return s.predictions.List(ctx, limit)
}

func (s *SentimentService) ModelInfo() map[string]interface{} {
	return map[string]interface{}{
		"features":   s.model.Vectorizer.Size(),
		"samples":    s.model.Samples,
		"trained_at": s.model.TrainedAt,
	}
}

type ModelSource struct {
	Store filestore.Store
	Key   string
	// TrainData is a TSV dataset; empty means the bundled seed reviews.
	TrainData string
	Train     sentiment.TrainConfig
}

// LoadOrTrainModel loads the stored model snapshot. When none exists, or it
// cannot be decoded, a model is trained and stored.
func LoadOrTrainModel(ctx context.Context, src ModelSource) (*sentiment.Model, error) {
	logger := logutil.GetLogger(ctx).With(zap.String("model_key", src.Key))
	rc, err := src.Store.Open(ctx, src.Key)
	switch {
	case err == nil:
		m, decodeErr := sentiment.Decode(rc)
		_ = rc.Close()
		if decodeErr == nil {
			logger.Info("sentiment model loaded", zap.Int("features", m.Vectorizer.Size()))
			return m, nil
		}
		logger.Warn("stored sentiment model unreadable, retraining", zap.Error(decodeErr))
	case errors.Is(err, filestore.ErrNotExist):
		logger.Info("no stored sentiment model, training")
	default:
		return nil, appErr.Unavailablef("open model: %v", err)
	}
	return TrainAndStoreModel(ctx, src)
}

// TrainAndStoreModel trains on the configured dataset and saves the snapshot.
func TrainAndStoreModel(ctx context.Context, src ModelSource) (*sentiment.Model, error) {
	ds, err := loadDataset(src.TrainData)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	m, err := sentiment.Train(ds.Texts, ds.Labels, src.Train)
	if err != nil {
		return nil, fmt.Errorf("train sentiment model: %w", err)
	}
	var buf bytes.Buffer
	if err := m.Encode(&buf); err != nil {
		return nil, err
	}
	if err := src.Store.Save(ctx, src.Key, bytes.NewReader(buf.Bytes()), int64(buf.Len())); err != nil {
		return nil, appErr.Unavailablef("save model: %v", err)
	}
	logutil.GetLogger(ctx).Info("sentiment model trained",
		zap.Int("samples", ds.Len()),
		zap.Int("features", m.Vectorizer.Size()),
		zap.Int("snapshot_size", buf.Len()),
		zap.Duration("duration", time.Since(start)),
	)
	return m, nil
}

func loadDataset(path string) (*sentiment.Dataset, error) {
	if path == "" {
		return sentiment.SeedDataset()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open training data: %w", err)
	}
	defer f.Close()
	return sentiment.ParseTSV(f)
}
