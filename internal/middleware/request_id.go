package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderRequestID       = "X-Request-Id"
	ContextRequestIDKey   = "request_id"
	maxIncomingRequestIDs = 128
)

// RequestID keeps a sane incoming X-Request-Id or assigns a new one, and
// echoes it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if id == "" || len(id) > maxIncomingRequestIDs {
			id = uuid.NewString()
		}
		c.Set(ContextRequestIDKey, id)
		c.Writer.Header().Set(HeaderRequestID, id)
		c.Next()
	}
}

func GetRequestID(c *gin.Context) string {
	v, _ := c.Get(ContextRequestIDKey)
	id, _ := v.(string)
	return id
}
