package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const wikipediaConcurrency = 3

type WikipediaConfig struct {
	Endpoint string
	Topics   []string
	// MaxChars keeps only the leading characters of each article.
	MaxChars int
	Timeout  time.Duration
}

type wikipediaSource struct {
	cfg    WikipediaConfig
	client *http.Client
}

// NewWikipediaSource reads plain-text article extracts from a MediaWiki API.
func NewWikipediaSource(cfg WikipediaConfig) Source {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &wikipediaSource{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}
}

func (w *wikipediaSource) Name() string {
	return "wikipedia"
}

// Fetch downloads all topics concurrently and joins them in topic order.
// Topics that fail or have no article are skipped.
func (w *wikipediaSource) Fetch(ctx context.Context) (string, error) {
	logger := logutil.GetLogger(ctx)
	extracts := make([]string, len(w.cfg.Topics))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(wikipediaConcurrency)
	for i, topic := range w.cfg.Topics {
		g.Go(func() error {
			text, err := w.extract(gctx, topic)
			if err != nil {
				logger.Warn("skip wikipedia topic", zap.String("topic", topic), zap.Error(err))
				return nil
			}
			extracts[i] = truncateRunes(strings.TrimSpace(text), w.cfg.MaxChars)
			return nil
		})
	}
	_ = g.Wait()
	parts := make([]string, 0, len(extracts))
	for _, text := range extracts {
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n\n"), nil
}

type wikipediaResponse struct {
	Query struct {
		Pages map[string]wikipediaPage `json:"pages"`
	} `json:"query"`
}

type wikipediaPage struct {
	Title     string            `json:"title"`
	Extract   string            `json:"extract"`
	Missing   *string           `json:"missing"`
	PageProps map[string]string `json:"pageprops"`
	Links     []struct {
		Title string `json:"title"`
	} `json:"links"`
}

func (p *wikipediaPage) disambiguation() bool {
	_, ok := p.PageProps["disambiguation"]
	return ok
}

// extract returns the article text for topic. A disambiguation page is
// replaced by its first linked article, one hop deep.
func (w *wikipediaSource) extract(ctx context.Context, topic string) (string, error) {
	page, err := w.query(ctx, topic)
	if err != nil {
		return "", err
	}
	if page.disambiguation() {
		if len(page.Links) == 0 {
			return "", fmt.Errorf("%q is a disambiguation page without links", topic)
		}
		target := page.Links[0].Title
		logutil.GetLogger(ctx).Debug("follow wikipedia disambiguation",
			zap.String("topic", topic), zap.String("target", target))
		if page, err = w.query(ctx, target); err != nil {
			return "", err
		}
		if page.disambiguation() {
			return "", fmt.Errorf("%q resolves to another disambiguation page", topic)
		}
	}
	if strings.TrimSpace(page.Extract) == "" {
		return "", fmt.Errorf("no article for %q", topic)
	}
	return page.Extract, nil
}

func (w *wikipediaSource) query(ctx context.Context, title string) (*wikipediaPage, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", "extracts|pageprops|links")
	params.Set("explaintext", "1")
	params.Set("ppprop", "disambiguation")
	params.Set("plnamespace", "0")
	params.Set("pllimit", "1")
	params.Set("redirects", "1")
	params.Set("format", "json")
	params.Set("titles", title)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.cfg.Endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "aiml-chat/1.0")
	resp, err := w.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("wikipedia returned status %d", resp.StatusCode)
	}
	var body wikipediaResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode wikipedia response: %w", err)
	}
	for _, page := range body.Query.Pages {
		if page.Missing != nil {
			continue
		}
		return &page, nil
	}
	return nil, fmt.Errorf("no article for %q", title)
}
