// internal/services/summary_service.go
package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/shannenjosh/verifyeye/internal/apperrors"
	"github.com/shannenjosh/verifyeye/internal/config"
	"github.com/shannenjosh/verifyeye/internal/models"
	"github.com/shannenjosh/verifyeye/internal/oracle"
	"github.com/shannenjosh/verifyeye/internal/textproc"
)

// SummaryFallbackText is the fixed degraded output when summarization
// fails at the oracle.
const SummaryFallbackText = "Error summarizing text. Please try again with different input."

const (
	FormatParagraph = "paragraph"
	FormatBullets   = "bullets"

	defaultRatio = 0.5

	// minSummaryWords keeps the target length usable on short inputs.
	minSummaryWords = 30

	// summaryTemperature is fixed low; summaries should stay close to
	// the source rather than explore.
	summaryTemperature = 0.3
)

// SummaryService produces summaries through the generative oracle. The
// call is identical in shape to generation: instruction-conditioned
// prompt, sampling decode, then the same repair pipeline. The
// summarization method itself lives entirely behind the oracle.
type SummaryService struct {
	generator oracle.Generator
	tuning    config.Tuning
}

// NewSummaryService creates the summarization orchestrator.
func NewSummaryService(generator oracle.Generator, tuning config.Tuning) *SummaryService {
	return &SummaryService{
		generator: generator,
		tuning:    tuning,
	}
}

// Validate normalizes the request in place and rejects out-of-range
// parameters.
func (s *SummaryService) Validate(req *models.SummaryRequest) error {
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		return apperrors.NewValidationError("no text provided", nil)
	}

	if req.Ratio == 0 {
		req.Ratio = defaultRatio
	}
	if req.Ratio < 0.1 || req.Ratio > 0.9 {
		return apperrors.NewValidationError("ratio must be between 0.1 and 0.9", nil)
	}

	if req.Format == "" {
		req.Format = FormatParagraph
	}
	if req.Format != FormatParagraph && req.Format != FormatBullets {
		return apperrors.NewValidationError("format must be paragraph or bullets", nil)
	}

	return nil
}

// Summarize condenses text to roughly ratio of its original length.
// Oracle failures degrade to a fixed result; the only returned error is
// a validation error.
func (s *SummaryService) Summarize(ctx context.Context, req models.SummaryRequest) (models.SummaryResult, error) {
	if err := s.Validate(&req); err != nil {
		return models.SummaryResult{}, err
	}

	originalWords := textproc.WordCount(req.Text)
	targetWords := int(float64(originalWords) * req.Ratio)
	if targetWords < minSummaryWords {
		targetWords = minSummaryWords
	}

	fullPrompt := summaryInstruction(targetWords, req.Format) + req.Text

	encoded, err := s.generator.Encode(ctx, fullPrompt, s.tuning.MaxTokenWindow)
	if err != nil {
		return s.fallbackResult(originalWords, err), nil
	}

	maxTokens := int(float64(targetWords) * s.tuning.TokensPerWord)
	policy := oracle.DefaultSamplingPolicy(maxTokens, summaryTemperature)
	seq, err := s.generator.SampleDecode(ctx, encoded, policy)
	if err != nil {
		return s.fallbackResult(originalWords, err), nil
	}

	raw, err := s.generator.Decode(ctx, seq)
	if err != nil {
		return s.fallbackResult(originalWords, err), nil
	}

	summary := textproc.StripEchoedPrompt(raw, fullPrompt)
	summary = textproc.Repair(summary)

	summaryWords := textproc.WordCount(summary)
	compression := 0.0
	if originalWords > 0 {
		compression = round2(float64(summaryWords) / float64(originalWords))
	}

	return models.SummaryResult{
		Summary:          summary,
		OriginalWords:    originalWords,
		SummaryWords:     summaryWords,
		CompressionRatio: compression,
	}, nil
}

func summaryInstruction(targetWords int, format string) string {
	if format == FormatBullets {
		return fmt.Sprintf("Summarize the following text in about %d words as concise bullet points: ", targetWords)
	}
	return fmt.Sprintf("Summarize the following text in about %d words as a single paragraph: ", targetWords)
}

func (s *SummaryService) fallbackResult(originalWords int, err error) models.SummaryResult {
	log.Printf("summary: oracle failure, degrading to fixed result: %v", err)
	return models.SummaryResult{
		Summary:          SummaryFallbackText,
		OriginalWords:    originalWords,
		SummaryWords:     0,
		CompressionRatio: 0,
		Error:            err.Error(),
	}
}
