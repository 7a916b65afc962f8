package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NIKHIL-58/AI-ML/internal/pkg/response"
	"github.com/NIKHIL-58/AI-ML/internal/service"
)

type ChatHandler struct {
	chat *service.ChatService
}

func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

type chatRequest struct {
	Query string `json:"query"`
}

func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatRequest
	if !bindJSON(c, &req) {
		return
	}
	answer, err := h.chat.Chat(c.Request.Context(), req.Query)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, answer)
}

func (h *ChatHandler) History(c *gin.Context) {
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		handleError(c, err)
		return
	}
	messages, err := h.chat.History(c.Request.Context(), limit)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, messages)
}

func (h *ChatHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"index_size": h.chat.IndexSize(),
		"generative": h.chat.Generative(),
	})
}
