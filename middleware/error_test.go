package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/compliance-auditor/backend/logging"
)

func newTestStatistics() *logging.Statistics {
	return &logging.Statistics{
		UniqueVisitors: make(map[string]time.Time),
		PopularDomains: make(map[string]int),
	}
}

func TestErrorHandlerRecoversPanicAndRecordsFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	usage := newTestStatistics()

	r := gin.New()
	r.Use(ErrorHandler(usage))
	r.POST("/api/evaluate", func(c *gin.Context) {
		c.Set(AuditedURLKey, "https://www.alcaldia.gov.co/tramites")
		panic("registro inconsistente")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/api/evaluate", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "error inesperado")
	assert.Equal(t, 1, usage.ErrorCount)
	assert.Equal(t, 1, usage.PopularDomains["alcaldia.gov.co"])
}

func TestErrorHandlerPassesThroughNormalRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	usage := newTestStatistics()

	r := gin.New()
	r.Use(ErrorHandler(usage))
	r.GET("/api/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, usage.ErrorCount)
}
