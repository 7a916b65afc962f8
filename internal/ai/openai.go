package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultOpenAIBaseURL     = "https://api.openai.com/v1"
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	defaultOllamaBaseURL     = "http://localhost:11434/v1"
)

type openAIConfig struct {
	APIKey      string `json:"api_key"`
	BaseURL     string `json:"base_url"`
	HTTPReferer string `json:"http_referer"`
	XTitle      string `json:"x_title"`
}

// openAIProvider talks to any OpenAI-compatible endpoint (openai, openrouter, ollama).
type openAIProvider struct {
	name   string
	apiKey string
	client *openai.Client
}

func newOpenAIProvider(name string, cfg *openAIConfig, defaultBaseURL string, requireKey bool) *openAIProvider {
	apiKey := strings.TrimSpace(cfg.APIKey)
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if !requireKey && apiKey == "" {
		apiKey = name
	}
	clientCfg := openai.DefaultConfig(apiKey)
	clientCfg.BaseURL = baseURL
	headers := map[string]string{}
	if v := strings.TrimSpace(cfg.HTTPReferer); v != "" {
		headers["HTTP-Referer"] = v
	}
	if v := strings.TrimSpace(cfg.XTitle); v != "" {
		headers["X-Title"] = v
	}
	if len(headers) > 0 {
		clientCfg.HTTPClient = &http.Client{Transport: &headerTransport{headers: headers, next: http.DefaultTransport}}
	}
	return &openAIProvider{
		name:   name,
		apiKey: apiKey,
		client: openai.NewClientWithConfig(clientCfg),
	}
}

func (p *openAIProvider) Name() string {
	return p.name
}

func (p *openAIProvider) Generate(ctx context.Context, model string, prompt string) (string, error) {
	if p.apiKey == "" {
		return "", ErrUnavailable
	}
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%s chat completion: %w", p.name, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s response has no choices", p.name)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (p *openAIProvider) Embed(ctx context.Context, model string, texts []string, taskType string) ([][]float32, error) {
	if p.apiKey == "" {
		return nil, ErrUnavailable
	}
	if len(texts) == 0 {
		return nil, nil
	}
	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(model),
	})
	if err != nil {
		return nil, fmt.Errorf("%s embeddings: %w", p.name, err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%s returned %d embeddings for %d inputs", p.name, len(resp.Data), len(texts))
	}
	out := make([][]float32, len(texts))
	for _, item := range resp.Data {
		if item.Index < 0 || item.Index >= len(out) {
			return nil, fmt.Errorf("%s returned embedding index %d out of range", p.name, item.Index)
		}
		vec := make([]float32, len(item.Embedding))
		for i, v := range item.Embedding {
			vec[i] = float32(v)
		}
		out[item.Index] = vec
	}
	return out, nil
}

type headerTransport struct {
	headers map[string]string
	next    http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	for k, v := range t.headers {
		clone.Header.Set(k, v)
	}
	return t.next.RoundTrip(clone)
}

func openAIFactory(name, defaultBaseURL string, requireKey bool) func(args interface{}) (*openAIProvider, error) {
	return func(args interface{}) (*openAIProvider, error) {
		cfg := &openAIConfig{}
		if err := decodeConfig(args, cfg); err != nil {
			return nil, err
		}
		return newOpenAIProvider(name, cfg, defaultBaseURL, requireKey), nil
	}
}

func init() {
	for _, item := range []struct {
		name       string
		baseURL    string
		requireKey bool
	}{
		{name: "openai", baseURL: defaultOpenAIBaseURL, requireKey: true},
		{name: "openrouter", baseURL: defaultOpenRouterBaseURL, requireKey: true},
		{name: "ollama", baseURL: defaultOllamaBaseURL, requireKey: false},
	} {
		factory := openAIFactory(item.name, item.baseURL, item.requireKey)
		Register(item.name, func(args interface{}) (IAIProvider, error) {
			p, err := factory(args)
			if err != nil {
				return nil, err
			}
			return p, nil
		})
		RegisterEmbed(item.name, func(args interface{}) (IEmbedProvider, error) {
			p, err := factory(args)
			if err != nil {
				return nil, err
			}
			return p, nil
		})
	}
}
