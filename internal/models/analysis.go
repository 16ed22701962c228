// internal/models/analysis.go
package models

import (
	"encoding/json"
	"time"
)

// AnalysisType discriminates the three analysis capabilities.
type AnalysisType string

const (
	AnalysisDetection  AnalysisType = "detection"
	AnalysisSummary    AnalysisType = "summary"
	AnalysisGeneration AnalysisType = "generation"
)

// DetectionRequest is the detection endpoint payload.
type DetectionRequest struct {
	Text string `json:"text" binding:"required"`
}

// DetectionResult is the outcome of one detection run. Confidence is
// the sole decision variable: IsAI holds exactly when it exceeds the
// configured threshold. Perplexity and burstiness are informational and
// never override the verdict.
type DetectionResult struct {
	IsAI       bool    `json:"isAI"`
	Confidence float64 `json:"confidence"`
	Perplexity float64 `json:"perplexity"`
	Burstiness float64 `json:"burstiness"`

	// Error carries the diagnostic annotation of a degraded result
	// without breaking the response shape.
	Error string `json:"error,omitempty"`
}

// SummaryRequest is the summarization endpoint payload.
type SummaryRequest struct {
	Text   string  `json:"text" binding:"required"`
	Ratio  float64 `json:"ratio"`
	Format string  `json:"format"`
}

// SummaryResult is the outcome of one summarization run.
type SummaryResult struct {
	Summary          string  `json:"summary"`
	OriginalWords    int     `json:"originalWords"`
	SummaryWords     int     `json:"summaryWords"`
	CompressionRatio float64 `json:"compressionRatio"`

	Error string `json:"error,omitempty"`
}

// GenerationRequest is the generation endpoint payload.
type GenerationRequest struct {
	Prompt      string  `json:"prompt" binding:"required"`
	Tone        string  `json:"tone"`
	MaxLength   int     `json:"maxLength"`
	Temperature float64 `json:"temperature"`
}

// GenerationResult is the outcome of one generation run. WordCount is
// always the whitespace-token count of GeneratedText, and GeneratedText
// never retains the conditioning prompt as a prefix.
type GenerationResult struct {
	GeneratedText string `json:"generatedText"`
	WordCount     int    `json:"wordCount"`
	TokensUsed    int    `json:"tokensUsed"`

	Error string `json:"error,omitempty"`
}

// AnalysisRecord is one persisted request/response pair. Records are
// append-only and owned entirely by the results store.
type AnalysisRecord struct {
	ID           string          `json:"id"`
	Type         AnalysisType    `json:"type"`
	InputSnippet string          `json:"input"`
	Output       json.RawMessage `json:"output"`
	CreatedAt    time.Time       `json:"created_at"`
}
