package ai

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

const defaultLocalDimension = 384

type localConfig struct {
	Dimension int `json:"dimension"`
}

// localEmbedProvider maps text to a signed feature-hashing bag of words.
// It needs no network and gives identical vectors for identical input.
type localEmbedProvider struct {
	dim int
}

func NewLocalEmbedProvider(dim int) IEmbedProvider {
	if dim <= 0 {
		dim = defaultLocalDimension
	}
	return &localEmbedProvider{dim: dim}
}

func (p *localEmbedProvider) Name() string {
	return "local"
}

func (p *localEmbedProvider) Embed(ctx context.Context, model string, texts []string, taskType string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out = append(out, p.embedOne(text))
	}
	return out, nil
}

func (p *localEmbedProvider) embedOne(text string) []float32 {
	vec := make([]float32, p.dim)
	for _, token := range tokenize(text) {
		h := fnv.New64a()
		_, _ = h.Write([]byte(token))
		sum := h.Sum64()
		idx := int(sum % uint64(p.dim))
		if sum>>63 == 1 {
			vec[idx]--
		} else {
			vec[idx]++
		}
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vec
	}
	inv := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= inv
	}
	return vec
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func createLocalEmbedFactory(args interface{}) (IEmbedProvider, error) {
	cfg := &localConfig{}
	if args != nil {
		if err := decodeConfig(args, cfg); err != nil {
			return nil, err
		}
	}
	if cfg.Dimension < 0 {
		return nil, fmt.Errorf("local embedder dimension must be positive")
	}
	return NewLocalEmbedProvider(cfg.Dimension), nil
}

func init() {
	RegisterEmbed("local", createLocalEmbedFactory)
}
