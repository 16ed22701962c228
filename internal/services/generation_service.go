// internal/services/generation_service.go
package services

import (
	"context"
	"log"
	"math"
	"strings"

	"github.com/shannenjosh/verifyeye/internal/apperrors"
	"github.com/shannenjosh/verifyeye/internal/config"
	"github.com/shannenjosh/verifyeye/internal/models"
	"github.com/shannenjosh/verifyeye/internal/oracle"
	"github.com/shannenjosh/verifyeye/internal/textproc"
)

// GenerationFallbackText is the fixed degraded output when the
// generative oracle fails.
const GenerationFallbackText = "Error generating text. Please try with a different prompt."

const (
	defaultMaxLength   = 500
	defaultTemperature = 0.7
)

// GenerationService runs the prompt-conditioned generation pipeline:
// tone conditioning, sampling decode, and post-generation text repair.
type GenerationService struct {
	generator oracle.Generator
	tuning    config.Tuning
}

// NewGenerationService creates the generation orchestrator.
func NewGenerationService(generator oracle.Generator, tuning config.Tuning) *GenerationService {
	return &GenerationService{
		generator: generator,
		tuning:    tuning,
	}
}

// StageFunc receives pipeline stage names during streamed generation.
type StageFunc func(stage string)

// Validate normalizes the request in place and rejects out-of-range
// parameters. Zero values take the documented defaults.
func (s *GenerationService) Validate(req *models.GenerationRequest) error {
	req.Prompt = strings.TrimSpace(req.Prompt)
	if req.Prompt == "" {
		return apperrors.NewValidationError("no prompt provided", nil)
	}

	if req.MaxLength == 0 {
		req.MaxLength = defaultMaxLength
	}
	if req.MaxLength < 100 || req.MaxLength > 1000 {
		return apperrors.NewValidationError("maxLength must be between 100 and 1000", nil)
	}

	if req.Temperature == 0 {
		req.Temperature = defaultTemperature
	}
	if req.Temperature < 0.1 || req.Temperature > 1.0 {
		return apperrors.NewValidationError("temperature must be between 0.1 and 1.0", nil)
	}

	return nil
}

// Generate produces text from a prompt under the fixed sampling policy.
// Oracle failures degrade to a fixed apology result; the only returned
// error is a validation error.
func (s *GenerationService) Generate(ctx context.Context, req models.GenerationRequest) (models.GenerationResult, error) {
	return s.GenerateStream(ctx, req, nil)
}

// GenerateStream is Generate with per-stage progress notifications,
// used by the websocket endpoint.
func (s *GenerationService) GenerateStream(ctx context.Context, req models.GenerationRequest, onStage StageFunc) (models.GenerationResult, error) {
	if err := s.Validate(&req); err != nil {
		return models.GenerationResult{}, err
	}

	notify := func(stage string) {
		if onStage != nil {
			onStage(stage)
		}
	}

	// Tone conditioning. Unrecognized tones fall through to an empty
	// prefix rather than an error.
	notify("conditioning")
	fullPrompt := models.Tone(req.Tone).Instruction() + req.Prompt

	// The token budget applies a fixed words-to-tokens expansion ratio,
	// a documented heuristic rather than a measured tokenizer average.
	maxTokens := int(math.Round(float64(req.MaxLength) * s.tuning.TokensPerWord))

	encoded, err := s.generator.Encode(ctx, fullPrompt, s.tuning.MaxTokenWindow)
	if err != nil {
		return s.fallbackResult(err), nil
	}

	notify("sampling")
	policy := oracle.DefaultSamplingPolicy(maxTokens, req.Temperature)
	seq, err := s.generator.SampleDecode(ctx, encoded, policy)
	if err != nil {
		return s.fallbackResult(err), nil
	}

	raw, err := s.generator.Decode(ctx, seq)
	if err != nil {
		return s.fallbackResult(err), nil
	}

	notify("repairing")
	text := textproc.StripEchoedPrompt(raw, fullPrompt)
	text = textproc.Repair(text)

	return models.GenerationResult{
		GeneratedText: text,
		WordCount:     textproc.WordCount(text),
		TokensUsed:    seq.TotalTokens,
	}, nil
}

func (s *GenerationService) fallbackResult(err error) models.GenerationResult {
	log.Printf("generation: oracle failure, degrading to fixed result: %v", err)
	return models.GenerationResult{
		GeneratedText: GenerationFallbackText,
		WordCount:     0,
		TokensUsed:    0,
		Error:         err.Error(),
	}
}
