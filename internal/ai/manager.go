package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const answerPromptTemplate = "Context: %s\n\nQuestion: %s\n\nAnswer:"

type ManagerConfig struct {
	// Timeout bounds a single generation call, in seconds. Zero disables it.
	Timeout          int
	BatchConcurrency int
}

type Manager struct {
	generator IGenerator
	embedder  IEmbedder
	cfg       ManagerConfig
}

func NewManager(generator IGenerator, embedder IEmbedder, cfg ManagerConfig) *Manager {
	if cfg.BatchConcurrency <= 0 {
		cfg.BatchConcurrency = 1
	}
	return &Manager{
		generator: generator,
		embedder:  embedder,
		cfg:       cfg,
	}
}

func (m *Manager) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	if m.embedder == nil {
		return nil, ErrUnavailable
	}
	return m.embedder.Embed(ctx, text, taskType)
}

// EmbedBatch embeds texts with bounded concurrency. The result is index-aligned
// with texts and every vector has the same dimension.
func (m *Manager) EmbedBatch(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	if m.embedder == nil {
		return nil, ErrUnavailable
	}
	out := make([][]float32, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.cfg.BatchConcurrency)
	for i, text := range texts {
		g.Go(func() error {
			vec, err := m.embedder.Embed(gctx, text, taskType)
			if err != nil {
				return fmt.Errorf("embed text %d: %w", i, err)
			}
			out[i] = vec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for i := 1; i < len(out); i++ {
		if len(out[i]) != len(out[0]) {
			return nil, fmt.Errorf("embedding %d has dimension %d, want %d", i, len(out[i]), len(out[0]))
		}
	}
	return out, nil
}

// AnswerFromContext asks the generator to answer query from the retrieved passages.
func (m *Manager) AnswerFromContext(ctx context.Context, query, passages string) (string, error) {
	if m.generator == nil {
		return "", ErrUnavailable
	}
	prompt := BuildAnswerPrompt(query, passages)
	logutil.GetLogger(ctx).Debug("generating answer", zap.Int("prompt_size", len(prompt)))
	return m.generateText(ctx, prompt)
}

func (m *Manager) generateText(ctx context.Context, prompt string) (string, error) {
	if m.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(m.cfg.Timeout)*time.Second)
		defer cancel()
	}
	resp, err := m.generator.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp)
	if text == "" {
		return "", fmt.Errorf("empty ai response")
	}
	return text, nil
}

func (m *Manager) HasGenerator() bool {
	return m.generator != nil
}

func (m *Manager) EmbeddingModelName() string {
	if m.embedder == nil {
		return ""
	}
	return m.embedder.ModelName()
}

func BuildAnswerPrompt(query, passages string) string {
	return fmt.Sprintf(answerPromptTemplate, passages, query)
}
