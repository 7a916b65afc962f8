package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NIKHIL-58/AI-ML/internal/pkg/response"
	"github.com/NIKHIL-58/AI-ML/internal/service"
)

type SentimentHandler struct {
	sentiment *service.SentimentService
}

func NewSentimentHandler(sentiment *service.SentimentService) *SentimentHandler {
	return &SentimentHandler{sentiment: sentiment}
}

type predictRequest struct {
	Text string `json:"text"`
}

func (h *SentimentHandler) Predict(c *gin.Context) {
	var req predictRequest
	if !bindJSON(c, &req) {
		return
	}
	prediction, err := h.sentiment.Predict(c.Request.Context(), req.Text)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, prediction)
}

func (h *SentimentHandler) Recent(c *gin.Context) {
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		handleError(c, err)
		return
	}
	items, err := h.sentiment.Recent(c.Request.Context(), limit)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, items)
}

func (h *SentimentHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"model":  h.sentiment.ModelInfo(),
	})
}
