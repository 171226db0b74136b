package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/compliance-auditor/backend/logging"
)

// AuditedURLKey is where the evaluate handlers store the page URL they
// audited, so the middleware can attribute the request to a domain.
const AuditedURLKey = "audited_url"

// StatsMiddleware tracks various statistics about requests
func StatsMiddleware(stats *logging.Statistics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// Track unique visitor
		stats.TrackVisitor(c.ClientIP())

		// Call the next handler
		c.Next()

		// Only track evaluation requests
		if c.Request.Method == "POST" &&
			(c.FullPath() == "/api/evaluate" || c.FullPath() == "/api/evaluate/html") {
			duration := float64(time.Since(start).Milliseconds())
			pageURL := c.GetString(AuditedURLKey)
			hasError := len(c.Errors) > 0 || c.Writer.Status() >= 500
			stats.TrackEvaluation(pageURL, duration, hasError)
		}

		// Periodically save statistics (every 100 requests)
		if stats.GetStatistics()["totalRequests"].(int)%100 == 0 {
			go stats.Save() // Save asynchronously to not block the request
		}
	}
}
