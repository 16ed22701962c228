// internal/api/router.go
package api

import (
	"fmt"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/shannenjosh/verifyeye/internal/config"
	"github.com/shannenjosh/verifyeye/internal/di"
	"github.com/shannenjosh/verifyeye/internal/oracle"
	"github.com/shannenjosh/verifyeye/internal/services"
)

// SetupRouter wires the HTTP routes. Services must already be
// registered in the container by app.InitServices.
func SetupRouter(cfg *config.Config) (*gin.Engine, error) {
	if !cfg.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	os.MkdirAll("temp", 0755)

	container := di.GetContainer()

	detectionService, ok := container.Get("detection").(*services.DetectionService)
	if !ok {
		return nil, fmt.Errorf("detection service not initialized")
	}

	generationService, ok := container.Get("generation").(*services.GenerationService)
	if !ok {
		return nil, fmt.Errorf("generation service not initialized")
	}

	summaryService, ok := container.Get("summary").(*services.SummaryService)
	if !ok {
		return nil, fmt.Errorf("summary service not initialized")
	}

	resultsService, ok := container.Get("results").(*services.ResultsService)
	if !ok {
		return nil, fmt.Errorf("results service not initialized")
	}

	provider, ok := container.Get("oracle").(oracle.Provider)
	if !ok {
		return nil, fmt.Errorf("oracle provider not initialized")
	}

	handler := NewHandler(
		detectionService,
		generationService,
		summaryService,
		resultsService,
		provider,
		"temp",
	)

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(RecoveryMiddleware())

	// CORS: wildcard origins, preflight handled by the middleware.
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Content-Type", "Accept", "X-Request-ID"},
		MaxAge:          12 * 3600,
	}))

	r.Use(RequestIDMiddleware())
	r.Use(MetricsMiddleware())

	// WebSocket streaming
	r.GET("/ws/generate", handler.GenerateTextWS)

	// ===============================
	// API routes
	// ===============================
	api := r.Group("/api")
	api.Use(DefaultRateLimit())
	{
		detectGroup := api.Group("/detect")
		detectGroup.Use(DetectionRateLimit())
		{
			detectGroup.POST("", handler.DetectText)
			detectGroup.POST("/file", handler.DetectFile)
		}

		generateGroup := api.Group("")
		generateGroup.Use(GenerationRateLimit())
		{
			generateGroup.POST("/generate", handler.GenerateText)
			generateGroup.POST("/summarize", handler.SummarizeText)
		}

		api.GET("/results", handler.GetResults)
		api.GET("/health", handler.GetHealth)
		api.GET("/oracle/status", handler.GetOracleStatus)
		api.GET("/metrics", handler.GetMetrics)
	}

	return r, nil
}
