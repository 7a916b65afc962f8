package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/NIKHIL-58/AI-ML/internal/config"
)

func TestListenAddrDefaults(t *testing.T) {
	cfg := config.Default()
	require.Equal(t, "0.0.0.0:8000", listenAddr(cfg, config.DefaultSentimentPort))
	require.Equal(t, "0.0.0.0:5000", listenAddr(cfg, config.DefaultChatPort))
	cfg.Port = 9000
	require.Equal(t, "0.0.0.0:9000", listenAddr(cfg, config.DefaultChatPort))
}

func TestCorpusSources(t *testing.T) {
	cfg := config.Default()
	sources := corpusSources(cfg)
	require.Len(t, sources, 1)
	require.Equal(t, "wikipedia", sources[0].Name())

	cfg.Corpus.DisableWiki = true
	cfg.Corpus.Dir = "/srv/corpus"
	sources = corpusSources(cfg)
	require.Len(t, sources, 1)
	require.Equal(t, "dir:/srv/corpus", sources[0].Name())
}

func TestBuildManagerLocalOnly(t *testing.T) {
	cfg := config.Default()
	manager, err := buildManager(cfg, nil)
	require.NoError(t, err)
	require.False(t, manager.HasGenerator())
	require.Equal(t, "local:hashing-bow", manager.EmbeddingModelName())

	cfg.AI.Provider = "openai, ollama"
	manager, err = buildManager(cfg, nil)
	require.NoError(t, err)
	require.True(t, manager.HasGenerator())

	cfg.AI.Provider = "nope"
	_, err = buildManager(cfg, nil)
	require.Error(t, err)
}
