package main

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/compliance-auditor/backend/evaluator"
	"github.com/compliance-auditor/backend/extraction"
	"github.com/compliance-auditor/backend/logging"
	"github.com/compliance-auditor/backend/middleware"
	"github.com/compliance-auditor/backend/semantic"
	"github.com/compliance-auditor/backend/stats"
)

var (
	extractor   *extraction.Extractor
	engine      *evaluator.Engine
	storage     *stats.Storage
	rateLimiter *middleware.RateLimiter
)

func loadEnv() {
	// Try to load .env.development first (for local development)
	if err := godotenv.Load(".env.development"); err != nil {
		// If .env.development doesn't exist, try regular .env
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found, using environment variables")
		}
	}
}

func setupGinMode() {
	// Set Gin mode based on environment variable
	mode := os.Getenv("GIN_MODE")
	if mode == "" {
		// Default to release mode if not specified
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)
}

// envFloat reads a float configuration value, falling back when unset or
// malformed.
func envFloat(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("Invalid %s=%q, using default %.1f\n", key, raw, fallback)
		return fallback
	}
	return value
}

// setupEncoder picks the sentence encoder: a remote embedding service when
// ENCODER_URL is set, otherwise the in-process lexical fallback.
func setupEncoder() semantic.TextEncoder {
	if encoderURL := os.Getenv("ENCODER_URL"); encoderURL != "" {
		log.Printf("Using remote text encoder at %s\n", encoderURL)
		enc := semantic.NewHTTPEncoder(encoderURL)
		semantic.SetDefaultEncoder(enc)
		return enc
	}

	log.Println("ENCODER_URL not set, using lexical encoder")
	enc := semantic.NewLexicalEncoder()
	semantic.SetDefaultEncoder(enc)
	return enc
}

func main() {
	// Load environment configuration
	loadEnv()

	// Set up Gin mode
	setupGinMode()

	// Initialize services
	extractor = extraction.NewExtractor()

	orchestrator, err := semantic.NewDefaultOrchestrator(setupEncoder())
	if err != nil {
		// The engine still produces heuristic verdicts without semantics
		log.Printf("Semantic pipeline unavailable: %v\n", err)
		orchestrator = nil
	}
	engine = evaluator.New(orchestrator)

	rateLimiter = middleware.NewRateLimiter(
		envFloat("RATE_LIMIT_RPS", 2),
		envFloat("RATE_LIMIT_BURST", 5),
	)

	// Initialize statistics
	usageStats := logging.Initialize()

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "./data"
	}
	storage, err = stats.NewStorage(dataDir)
	if err != nil {
		log.Fatal("Failed to initialize stats storage:", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Add middlewares
	r.Use(middleware.ErrorHandler(usageStats))
	r.Use(rateLimiter.RateLimit())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.Use(middleware.StatsMiddleware(usageStats))

	// API routes
	api := r.Group("/api")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			log.Printf("Health check request received from: %s\n", c.ClientIP())
			c.JSON(http.StatusOK, gin.H{
				"status": "ok",
			})
		})

		// Evaluation endpoints
		api.POST("/evaluate", evaluateRecord)
		api.POST("/evaluate/html", evaluateHTML)

		// Statistics endpoint
		api.GET("/statistics", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"usage":   usageStats.GetStatistics(),
				"monthly": storage.GetCurrentStats(),
			})
		})
	}

	// Get port from environment variable or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8082" // Default port
	}

	log.Printf("Server starting on http://localhost:%s\n", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

// evaluateRecord scores a page from an already extracted record, as produced
// by an external crawler.
func evaluateRecord(c *gin.Context) {
	log.Printf("Evaluate request received from: %s\n", c.ClientIP())
	var record extraction.ExtractionRecord

	if err := c.ShouldBindJSON(&record); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid extraction record: " + err.Error(),
		})
		return
	}

	c.Set(middleware.AuditedURLKey, record.URL)
	report := engine.Evaluate(&record)
	recordRun(report)

	c.JSON(http.StatusOK, report)
}

// evaluateHTML extracts and scores a page from raw markup in one request.
func evaluateHTML(c *gin.Context) {
	log.Printf("Evaluate HTML request received from: %s\n", c.ClientIP())
	var request struct {
		URL  string `json:"url" binding:"required,url"`
		HTML string `json:"html" binding:"required"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Request must include a valid url and the page html",
		})
		return
	}

	c.Set(middleware.AuditedURLKey, request.URL)

	record, err := extractor.Extract(request.HTML, request.URL)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Failed to parse page: " + err.Error(),
		})
		return
	}

	report := engine.Evaluate(record)
	recordRun(report)

	c.JSON(http.StatusOK, report)
}

// recordRun feeds one finished evaluation into the monthly counters.
func recordRun(report *evaluator.FinalReport) {
	semanticRuns, heuristicRuns, failedRuns, encoderFallbacks := 0, 0, 0, 0

	switch {
	case report.Status == evaluator.RunFailed:
		failedRuns = 1
	case report.SemanticAvailable:
		semanticRuns = 1
	default:
		heuristicRuns = 1
	}

	if report.Semantic != nil && report.Semantic.DegradedSections > 0 {
		encoderFallbacks = 1
	}

	storage.IncrementStats(semanticRuns, heuristicRuns, failedRuns, encoderFallbacks)
}
