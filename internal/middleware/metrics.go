package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vnudocs/hub-api/internal/service"
)

// Metrics records per-route request counts, durations, and the in-flight
// gauge. Unmatched paths are labeled by their raw URL to keep 404 noise
// visible without exploding cardinality on real routes.
func Metrics(metrics *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metrics == nil {
			c.Next()
			return
		}

		done := metrics.RequestStarted()
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		done(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
