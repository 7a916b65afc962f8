package service

import (
	"context"

	"github.com/NIKHIL-58/AI-ML/internal/model"
)

type MessageStore interface {
	Save(ctx context.Context, role, content string) (*model.ChatMessage, error)
	List(ctx context.Context, limit int) ([]model.ChatMessage, error)
}

type PredictionStore interface {
	Save(ctx context.Context, p *model.Prediction) error
	// List returns predictions newest first; limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]model.Prediction, error)
}
