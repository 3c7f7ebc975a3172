package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

// Recovery answers a panicking report handler with a 500 in the API error
// envelope. The stack goes to the log only.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				correlationID := GetCorrelationID(c)
				logger.Error("Report handler panicked",
					"panic", r,
					"route", c.FullPath(),
					"method", c.Request.Method,
					"correlation_id", correlationID,
					"stack", string(debug.Stack()),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, internalErrorBody(correlationID))
			}
		}()
		c.Next()
	}
}

func internalErrorBody(correlationID string) gin.H {
	body := gin.H{"error": gin.H{
		"code":    "INTERNAL_SERVER_ERROR",
		"message": "An internal server error occurred",
	}}
	if correlationID != "" {
		body["correlation_id"] = correlationID
	}
	return body
}
