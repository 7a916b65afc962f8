// Package corpus loads the documents indexed by the chat service at startup.
package corpus

import (
	"context"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// Source yields plain text. An empty result with a nil error means the
// source had nothing to contribute.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (string, error)
}

// FallbackText is indexed when no configured source yields any text.
const FallbackText = `Artificial Intelligence (AI) is the simulation of human intelligence processes by machines, especially computer systems. These processes include learning (the acquisition of information and rules for using the information), reasoning (using rules to reach approximate or definite conclusions) and self-correction.

Machine Learning is a subset of artificial intelligence that provides systems the ability to automatically learn and improve from experience without being explicitly programmed. Machine learning focuses on the development of computer programs that can access data and use it to learn for themselves.

Deep Learning is part of a broader family of machine learning methods based on artificial neural networks with representation learning. Learning can be supervised, semi-supervised or unsupervised.

Natural Language Processing (NLP) is a branch of artificial intelligence that helps computers understand, interpret and manipulate human language. NLP draws from many disciplines, including computer science and computational linguistics, in its pursuit to fill the gap between human communication and computer understanding.`

// Collect fetches every source in order and joins the non-empty results with
// a blank line. Failing sources are logged and skipped. The result is
// FallbackText when nothing was collected.
func Collect(ctx context.Context, sources []Source) string {
	logger := logutil.GetLogger(ctx)
	parts := make([]string, 0, len(sources))
	for _, src := range sources {
		text, err := src.Fetch(ctx)
		if err != nil {
			logger.Warn("corpus source failed", zap.String("source", src.Name()), zap.Error(err))
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			logger.Info("corpus source is empty", zap.String("source", src.Name()))
			continue
		}
		logger.Info("corpus source loaded", zap.String("source", src.Name()), zap.Int("size", len(text)))
		parts = append(parts, text)
	}
	if len(parts) == 0 {
		logger.Warn("no corpus source produced text, using built-in fallback")
		return FallbackText
	}
	return strings.Join(parts, "\n\n")
}

// truncateRunes keeps the first n characters of s.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
