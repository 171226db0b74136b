package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/compliance-auditor/backend/logging"
)

// ErrorHandler recovers panics anywhere in the request chain, attributes the
// failure to the page being audited and answers 500 instead of dropping the
// connection. A panicking request never reaches the stats middleware's
// accounting, so the failed evaluation is counted here.
func ErrorHandler(usage *logging.Statistics) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				pageURL := c.GetString(AuditedURLKey)
				log.Printf("Panic recovered while auditing %q: %v\nStack trace:\n%s", pageURL, err, debug.Stack())

				usage.TrackEvaluation(pageURL, 0, true)

				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Ocurrió un error inesperado durante la evaluación",
				})
				c.Abort()
			}
		}()

		c.Next()
	}
}
