package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/NIKHIL-58/AI-ML/internal/config"
	"github.com/NIKHIL-58/AI-ML/internal/db"
	"github.com/NIKHIL-58/AI-ML/internal/filestore"
	"github.com/NIKHIL-58/AI-ML/internal/handler"
	"github.com/NIKHIL-58/AI-ML/internal/repo"
	"github.com/NIKHIL-58/AI-ML/internal/sentiment"
	"github.com/NIKHIL-58/AI-ML/internal/service"
)

func newSentimentCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sentiment",
		Short: "run the sentiment prediction server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			return runSentiment(cfg)
		},
	}
}

func modelSource(cfg *config.Config) (service.ModelSource, error) {
	store, err := filestore.New(cfg.FileStore)
	if err != nil {
		return service.ModelSource{}, fmt.Errorf("init file store: %w", err)
	}
	return service.ModelSource{
		Store:     store,
		Key:       cfg.Sentiment.ModelKey,
		TrainData: cfg.Sentiment.TrainData,
		Train: sentiment.TrainConfig{
			MaxFeatures: cfg.Sentiment.MaxFeatures,
			Epochs:      cfg.Sentiment.Epochs,
		},
	}, nil
}

func runSentiment(cfg *config.Config) error {
	ctx, stop := signalContext()
	defer stop()
	logger := logutil.GetLogger(ctx)

	conn, err := db.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer conn.Close()
	if err := db.ApplyMigrations(ctx, conn); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	src, err := modelSource(cfg)
	if err != nil {
		return err
	}
	m, err := service.LoadOrTrainModel(ctx, src)
	if err != nil {
		return fmt.Errorf("load sentiment model: %w", err)
	}
	logger.Info("sentiment model ready",
		zap.String("file_store", src.Store.Type()),
		zap.Int("features", m.Vectorizer.Size()),
	)

	sentimentHandler := handler.NewSentimentHandler(service.NewSentimentService(m, repo.NewPredictionRepo(conn)))
	engine := handler.NewEngine(engineConfig(cfg), func(group *gin.RouterGroup) {
		handler.RegisterSentimentRoutes(group, sentimentHandler)
	})
	return serve(ctx, listenAddr(cfg, config.DefaultSentimentPort), engine)
}

func engineConfig(cfg *config.Config) handler.EngineConfig {
	return handler.EngineConfig{
		CORSOrigins: cfg.CORSOrigins,
		RateRPS:     cfg.RateLimit.RPS,
		RateBurst:   cfg.RateLimit.Burst,
	}
}
