package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// RequestObserver receives one observation per served request
type RequestObserver interface {
	Observe(method, route string, status int, elapsed time.Duration)
}

// Metrics reports every request to the observer, labelled by route template
// so path parameters do not explode label cardinality
func Metrics(observer RequestObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		observer.Observe(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
