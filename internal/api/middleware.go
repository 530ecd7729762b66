package api

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ledgercore/accounting-server/internal/utils"
)

// RequestIDMiddleware stamps every request with an id, echoing a
// caller-supplied X-Request-ID when present.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set("requestId", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}

// RequestLoggerMiddleware logs method, path, status and request id after
// the handler completes.
func RequestLoggerMiddleware(logger *utils.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		logger.Info("%s %s -> %d [%s]",
			c.Request.Method, c.Request.URL.Path,
			c.Writer.Status(), c.GetString("requestId"))
	}
}
