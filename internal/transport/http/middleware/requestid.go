package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"note-anywhere/internal/core/logger"
)

const KeyRequestID = "X-Request-ID"

const maxRequestIDLen = 128

// RequestID echoes a caller's X-Request-ID or mints a UUID. The id is kept on
// the gin context for the access log and on the request context for
// logger.For.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(KeyRequestID)
		if rid == "" || len(rid) > maxRequestIDLen {
			rid = uuid.NewString()
		}
		c.Header(KeyRequestID, rid)
		c.Set(KeyRequestID, rid)
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), rid))
		c.Next()
	}
}
