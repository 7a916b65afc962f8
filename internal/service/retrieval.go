package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/NIKHIL-58/AI-ML/internal/ai"
	"github.com/NIKHIL-58/AI-ML/internal/model"
	appErr "github.com/NIKHIL-58/AI-ML/internal/pkg/errors"
	"github.com/NIKHIL-58/AI-ML/internal/vectorindex"
)

// NoAnswerText is returned when neither the generator nor the extractive
// fallback can produce an answer.
const NoAnswerText = "I apologize, but I couldn't generate a specific answer based on the available information."

// BuildIndex chunks text, embeds every chunk and loads the result into a new
// index sized to the embedding dimension.
func BuildIndex(ctx context.Context, manager *ai.Manager, text string, chunkSize int) (*vectorindex.Index, error) {
	docs := ai.ChunkDocument(text, chunkSize)
	if len(docs) == 0 {
		return nil, appErr.Invalidf("corpus produced no chunks")
	}
	chunks := make([]string, 0, len(docs))
	for _, doc := range docs {
		chunks = append(chunks, doc.Text)
	}
	vectors, err := manager.EmbedBatch(ctx, chunks, ai.TaskRetrievalDocument)
	if err != nil {
		return nil, fmt.Errorf("embed corpus: %w", err)
	}
	idx, err := vectorindex.New(len(vectors[0]))
	if err != nil {
		return nil, err
	}
	if err := idx.Add(chunks, vectors); err != nil {
		return nil, err
	}
	logutil.GetLogger(ctx).Info("vector index built",
		zap.Int("chunks", len(chunks)),
		zap.Int("dimension", idx.Dimension()),
		zap.String("embedding_model", manager.EmbeddingModelName()),
	)
	return idx, nil
}

type RetrievalService struct {
	manager *ai.Manager
	index   *vectorindex.Index
	topK    int
}

func NewRetrievalService(manager *ai.Manager, index *vectorindex.Index, topK int) *RetrievalService {
	return &RetrievalService{manager: manager, index: index, topK: topK}
}

func (s *RetrievalService) IndexSize() int {
	return s.index.Len()
}

// Generative reports whether answers come from a generator or only from
// extraction.
func (s *RetrievalService) Generative() bool {
	return s.manager.HasGenerator()
}

// Answer retrieves the closest chunks for query and answers from them.
// Generation failures fall back to extraction; embedding and search
// failures are returned.
func (s *RetrievalService) Answer(ctx context.Context, query string) (*model.ChatAnswer, error) {
	logger := logutil.GetLogger(ctx)
	queryVec, err := s.manager.Embed(ctx, query, ai.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	results, err := s.index.Search(queryVec, s.topK)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	retrieved := make([]model.RetrievedChunk, 0, len(results))
	texts := make([]string, 0, len(results))
	for _, r := range results {
		retrieved = append(retrieved, model.RetrievedChunk{Text: r.Text, Score: r.Distance})
		texts = append(texts, r.Text)
	}
	passages := strings.Join(texts, " ")

	answer, err := s.manager.AnswerFromContext(ctx, query, passages)
	if err != nil {
		logger.Warn("generation failed, using extractive answer", zap.Error(err))
		answer = ExtractAnswer(query, passages)
	}
	return &model.ChatAnswer{Answer: answer, RetrievedChunks: retrieved}, nil
}

// ExtractAnswer returns the first '.'-separated fragment of passages that
// contains query, ignoring case. The result is never empty.
func ExtractAnswer(query, passages string) string {
	needle := strings.ToLower(query)
	for _, fragment := range strings.Split(passages, ".") {
		if !strings.Contains(strings.ToLower(fragment), needle) {
			continue
		}
		if trimmed := strings.TrimSpace(fragment); trimmed != "" {
			return trimmed + "."
		}
	}
	return NoAnswerText
}
