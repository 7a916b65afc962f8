package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/NIKHIL-58/AI-ML/internal/middleware"
	"github.com/NIKHIL-58/AI-ML/internal/pkg/errcode"
	appErr "github.com/NIKHIL-58/AI-ML/internal/pkg/errors"
	"github.com/NIKHIL-58/AI-ML/internal/pkg/response"
)

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	logger := logutil.GetLogger(c.Request.Context()).With(
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
	)
	switch {
	case errors.Is(err, appErr.ErrInvalid):
		logger.Info("invalid request", zap.Error(err))
		response.Error(c, http.StatusBadRequest, errcode.Invalid, err.Error())
	case errors.Is(err, appErr.ErrNotFound):
		response.Error(c, http.StatusNotFound, errcode.NotFound, err.Error())
	case errors.Is(err, appErr.ErrUnavailable):
		logger.Error("dependency unavailable", zap.Error(err))
		response.Error(c, http.StatusServiceUnavailable, errcode.Unavailable, err.Error())
	default:
		logger.Error("request failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, errcode.Internal, err.Error())
	}
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		handleError(c, appErr.Invalidf("malformed json body: %v", err))
		return false
	}
	return true
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, appErr.Invalidf("%s must be a non-negative integer", key)
	}
	return v, nil
}
