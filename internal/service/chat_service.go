package service

import (
	"context"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/NIKHIL-58/AI-ML/internal/model"
	appErr "github.com/NIKHIL-58/AI-ML/internal/pkg/errors"
)

type ChatService struct {
	retrieval *RetrievalService
	messages  MessageStore
}

func NewChatService(retrieval *RetrievalService, messages MessageStore) *ChatService {
	return &ChatService{retrieval: retrieval, messages: messages}
}

// Chat records the user query, answers it and records the answer.
func (s *ChatService) Chat(ctx context.Context, query string) (*model.ChatAnswer, error) {
	if strings.TrimSpace(query) == "" {
		return nil, appErr.Invalidf("query is required")
	}
	if _, err := s.messages.Save(ctx, model.RoleUser, query); err != nil {
		return nil, err
	}
	answer, err := s.retrieval.Answer(ctx, query)
	if err != nil {
		return nil, err
	}
	if _, err := s.messages.Save(ctx, model.RoleSystem, answer.Answer); err != nil {
		return nil, err
	}
	logutil.GetLogger(ctx).Debug("chat answered",
		zap.Int("retrieved", len(answer.RetrievedChunks)),
		zap.Int("answer_size", len(answer.Answer)),
	)
	return answer, nil
}

// History lists messages oldest first; limit <= 0 returns all of them.
func (s *ChatService) History(ctx context.Context, limit int) ([]model.ChatMessage, error) {
	return s.messages.List(ctx, limit)
}

func (s *ChatService) IndexSize() int {
	return s.retrieval.IndexSize()
}

func (s *ChatService) Generative() bool {
	return s.retrieval.Generative()
}
