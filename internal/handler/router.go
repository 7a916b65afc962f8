package handler

import (
	"fmt"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/NIKHIL-58/AI-ML/internal/middleware"
	appErr "github.com/NIKHIL-58/AI-ML/internal/pkg/errors"
)

func RegisterChatRoutes(group *gin.RouterGroup, h *ChatHandler) {
	group.POST("/chat", h.Chat)
	group.GET("/history", h.History)
	group.GET("/healthz", h.Health)
}

func RegisterSentimentRoutes(group *gin.RouterGroup, h *SentimentHandler) {
	group.POST("/predict", h.Predict)
	group.GET("/predictions", h.Recent)
	group.GET("/healthz", h.Health)
}

type EngineConfig struct {
	CORSOrigins []string
	RateRPS     float64
	RateBurst   int
}

// NewEngine builds a gin engine with the shared middleware chain and lets
// register attach the service routes.
func NewEngine(cfg EngineConfig, register func(group *gin.RouterGroup)) *gin.Engine {
	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.AccessLog(),
		middleware.CORS(cfg.CORSOrigins),
		middleware.RateLimit(cfg.RateRPS, cfg.RateBurst),
		gzip.Gzip(gzip.DefaultCompression),
	)
	engine.NoRoute(func(c *gin.Context) {
		handleError(c, fmt.Errorf("%w: %s %s", appErr.ErrNotFound, c.Request.Method, c.Request.URL.Path))
	})
	register(engine.Group("/"))
	return engine
}
