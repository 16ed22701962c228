// internal/api/handlers.go
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shannenjosh/verifyeye/internal/ingest"
	"github.com/shannenjosh/verifyeye/internal/models"
	"github.com/shannenjosh/verifyeye/internal/oracle"
	"github.com/shannenjosh/verifyeye/internal/services"
	"github.com/shannenjosh/verifyeye/internal/utils"
)

// maxUploadBytes bounds detection file uploads.
const maxUploadBytes = 10 << 20

// Handler owns the HTTP-level concerns and delegates every domain
// decision to the orchestration services.
type Handler struct {
	detectionService  *services.DetectionService
	generationService *services.GenerationService
	summaryService    *services.SummaryService
	resultsService    *services.ResultsService
	provider          oracle.Provider

	response *ResponseHelper
	tempDir  string
}

// NewHandler creates the API handler.
func NewHandler(
	detectionService *services.DetectionService,
	generationService *services.GenerationService,
	summaryService *services.SummaryService,
	resultsService *services.ResultsService,
	provider oracle.Provider,
	tempDir string,
) *Handler {
	return &Handler{
		detectionService:  detectionService,
		generationService: generationService,
		summaryService:    summaryService,
		resultsService:    resultsService,
		provider:          provider,
		response:          NewResponseHelper(),
		tempDir:           tempDir,
	}
}

// DetectText handles POST /api/detect.
func (h *Handler) DetectText(c *gin.Context) {
	var req models.DetectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.response.BadRequest(c, ErrorBadRequest, "no text provided")
		return
	}

	result, err := h.detectionService.Detect(c.Request.Context(), req.Text)
	if err != nil {
		if errors.Is(err, services.ErrTextTooShort) {
			h.response.BadRequest(c, ErrorTextTooShort, err.Error())
			return
		}
		h.response.FromAppError(c, err, ErrorDetectionFailed)
		return
	}

	h.resultsService.Record(models.AnalysisDetection, req.Text, result)
	h.response.Success(c, result)
}

// DetectFile handles POST /api/detect/file: multipart upload of a
// document whose extracted text runs through the same detection path.
func (h *Handler) DetectFile(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		h.response.BadRequest(c, ErrorFileUploadFailed, "no file provided")
		return
	}
	if file.Size > maxUploadBytes {
		h.response.BadRequest(c, ErrorFileInvalid, "file exceeds the 10MB limit")
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".pdf", ".txt", ".md", ".text":
	default:
		h.response.BadRequest(c, ErrorFileInvalid, fmt.Sprintf("unsupported file type: %s", ext))
		return
	}

	tempPath := filepath.Join(h.tempDir, uuid.NewString()+ext)
	if err := c.SaveUploadedFile(file, tempPath); err != nil {
		h.response.InternalError(c, ErrorFileUploadFailed, "failed to store upload")
		return
	}
	defer os.Remove(tempPath)

	text, err := ingest.ExtractText(tempPath)
	if err != nil {
		h.response.BadRequest(c, ErrorFileInvalid, err.Error())
		return
	}

	result, err := h.detectionService.Detect(c.Request.Context(), text)
	if err != nil {
		if errors.Is(err, services.ErrTextTooShort) {
			h.response.BadRequest(c, ErrorTextTooShort, err.Error())
			return
		}
		h.response.FromAppError(c, err, ErrorDetectionFailed)
		return
	}

	h.resultsService.Record(models.AnalysisDetection, text, result)
	h.response.Success(c, result)
}

// SummarizeText handles POST /api/summarize.
func (h *Handler) SummarizeText(c *gin.Context) {
	var req models.SummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.response.BadRequest(c, ErrorBadRequest, "no text provided")
		return
	}

	result, err := h.summaryService.Summarize(c.Request.Context(), req)
	if err != nil {
		h.response.FromAppError(c, err, ErrorSummaryFailed)
		return
	}

	h.resultsService.Record(models.AnalysisSummary, req.Text, result)
	h.response.Success(c, result)
}

// GenerateText handles POST /api/generate.
func (h *Handler) GenerateText(c *gin.Context) {
	var req models.GenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.response.BadRequest(c, ErrorBadRequest, "no prompt provided")
		return
	}

	result, err := h.generationService.Generate(c.Request.Context(), req)
	if err != nil {
		h.response.FromAppError(c, err, ErrorGenerationFailed)
		return
	}

	h.resultsService.Record(models.AnalysisGeneration, req.Prompt, result)
	h.response.Success(c, result)
}

// GetResults handles GET /api/results.
func (h *Handler) GetResults(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			h.response.BadRequest(c, ErrorBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = parsed
	}

	records, err := h.resultsService.Recent(c.Request.Context(), limit)
	if err != nil {
		h.response.InternalError(c, ErrorResultsUnavailable, "failed to load results")
		return
	}

	h.response.Success(c, gin.H{
		"results": records,
		"count":   len(records),
	})
}

// GetHealth handles GET /api/health.
func (h *Handler) GetHealth(c *gin.Context) {
	h.response.Success(c, gin.H{
		"status":   "ok",
		"provider": h.provider.GetName(),
	})
}

// GetOracleStatus handles GET /api/oracle/status.
func (h *Handler) GetOracleStatus(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status := gin.H{
		"provider":  h.provider.GetName(),
		"connected": true,
	}
	if err := h.provider.Ping(ctx); err != nil {
		status["connected"] = false
		status["error"] = err.Error()
		c.JSON(http.StatusServiceUnavailable, &APIResponse{
			Success:   false,
			Data:      status,
			Error:     &APIError{Code: ErrorOracleUnavailable, Message: "oracle backend unreachable"},
			Timestamp: time.Now(),
			RequestID: h.response.getRequestID(c),
		})
		return
	}

	h.response.Success(c, status)
}

// GetMetrics handles GET /api/metrics.
func (h *Handler) GetMetrics(c *gin.Context) {
	counters, histograms := utils.GetMetricsCollector().Snapshot()
	h.response.Success(c, gin.H{
		"counters":   counters,
		"histograms": histograms,
	})
}
