package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/NIKHIL-58/AI-ML/internal/ai"
	"github.com/NIKHIL-58/AI-ML/internal/config"
	"github.com/NIKHIL-58/AI-ML/internal/corpus"
	"github.com/NIKHIL-58/AI-ML/internal/db"
	"github.com/NIKHIL-58/AI-ML/internal/embedcache"
	"github.com/NIKHIL-58/AI-ML/internal/handler"
	"github.com/NIKHIL-58/AI-ML/internal/job"
	"github.com/NIKHIL-58/AI-ML/internal/repo"
	"github.com/NIKHIL-58/AI-ML/internal/schedule"
	"github.com/NIKHIL-58/AI-ML/internal/service"
)

func newChatCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "build the retrieval index and run the chat server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			return runChat(cfg)
		},
	}
}

func runChat(cfg *config.Config) error {
	ctx, stop := signalContext()
	defer stop()

	conn, err := db.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer conn.Close()
	if err := db.ApplyMigrations(ctx, conn); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	manager, err := buildManager(cfg, conn)
	if err != nil {
		return err
	}

	text := corpus.Collect(ctx, corpusSources(cfg))
	index, err := service.BuildIndex(ctx, manager, text, config.ChunkSize)
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}

	if cfg.EmbedCache.EnableDB {
		scheduler := schedule.NewCronScheduler()
		cleanup := job.NewEmbeddingCacheCleanupJob(repo.NewEmbeddingCacheRepo(conn), cfg.EmbedCache.MaxAgeDays)
		if err := scheduler.AddJob(cleanup, cfg.EmbedCache.CleanupCron); err != nil {
			return fmt.Errorf("schedule cache cleanup: %w", err)
		}
		scheduler.Start(ctx)
		defer scheduler.Stop()
	}

	chat := service.NewChatService(
		service.NewRetrievalService(manager, index, config.TopK),
		repo.NewMessageRepo(conn),
	)
	chatHandler := handler.NewChatHandler(chat)
	engine := handler.NewEngine(engineConfig(cfg), func(group *gin.RouterGroup) {
		handler.RegisterChatRoutes(group, chatHandler)
	})
	return serve(ctx, listenAddr(cfg, config.DefaultChatPort), engine)
}

func providerArgs(cfg *config.Config) map[string]interface{} {
	return map[string]interface{}{
		"api_key":   cfg.AI.APIKey,
		"base_url":  cfg.AI.BaseURL,
		"dimension": cfg.AI.Dimension,
	}
}

// buildManager wires the generator chain and the cached embedder. A
// comma separated ai.provider becomes an ordered fallback chain.
func buildManager(cfg *config.Config, conn *sql.DB) (*ai.Manager, error) {
	logger := logutil.GetLogger(context.Background())
	args := providerArgs(cfg)

	var generators []ai.GeneratorEntry
	for _, name := range strings.Split(cfg.AI.Provider, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		p, err := ai.NewProvider(name, args)
		if err != nil {
			return nil, fmt.Errorf("init ai provider %s: %w", name, err)
		}
		generators = append(generators, ai.GeneratorEntry{Name: name, Generator: ai.NewGenerator(p, cfg.AI.GenerateModel)})
	}
	if len(generators) == 0 {
		logger.Warn("no generation provider configured, answers use extraction only")
	}

	embedProvider, err := ai.NewEmbedProvider(cfg.AI.EmbedProvider, args)
	if err != nil {
		return nil, fmt.Errorf("init embed provider: %w", err)
	}
	embedder := ai.NewEmbedder(embedProvider, cfg.AI.EmbedModel)
	if cfg.EmbedCache.EnableDB {
		embedder = embedcache.WrapDBCacheToEmbedder(embedder, repo.NewEmbeddingCacheRepo(conn))
	}
	embedder = embedcache.WrapLruCacheToEmbedder(embedder, cfg.EmbedCache.LRUSize, time.Duration(cfg.EmbedCache.LRUTTL)*time.Second)
	logger.Info("ai manager ready",
		zap.Int("generators", len(generators)),
		zap.String("embedding_model", embedder.ModelName()),
	)
	return ai.NewManager(ai.NewGroupGenerator(generators), embedder, ai.ManagerConfig{
		Timeout:          cfg.AI.Timeout,
		BatchConcurrency: cfg.AI.BatchConcurrency,
	}), nil
}

func corpusSources(cfg *config.Config) []corpus.Source {
	var sources []corpus.Source
	if !cfg.Corpus.DisableWiki {
		sources = append(sources, corpus.NewWikipediaSource(corpus.WikipediaConfig{
			Endpoint: cfg.Corpus.WikipediaURL,
			Topics:   cfg.Corpus.Topics,
			MaxChars: cfg.Corpus.MaxTopicChars,
			Timeout:  time.Duration(cfg.Corpus.FetchTimeout) * time.Second,
		}))
	}
	if cfg.Corpus.Dir != "" {
		sources = append(sources, corpus.NewDirectorySource(cfg.Corpus.Dir))
	}
	return sources
}
