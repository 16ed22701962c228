// internal/services/detection_service.go
package services

import (
	"context"
	"log"
	"math"
	"strings"

	"github.com/shannenjosh/verifyeye/internal/apperrors"
	"github.com/shannenjosh/verifyeye/internal/config"
	"github.com/shannenjosh/verifyeye/internal/heuristics"
	"github.com/shannenjosh/verifyeye/internal/models"
	"github.com/shannenjosh/verifyeye/internal/oracle"
)

// ErrTextTooShort rejects detection inputs under the configured minimum
// length. Exposed so the transport layer can report it with a dedicated
// error code.
var ErrTextTooShort = apperrors.NewValidationError("text too short for detection", nil)

// DetectionService runs the AI-authorship pipeline: one classifier
// forward pass fused with two independent linguistic heuristics.
type DetectionService struct {
	classifier oracle.Classifier
	tuning     config.Tuning
}

// NewDetectionService creates the detection orchestrator.
func NewDetectionService(classifier oracle.Classifier, tuning config.Tuning) *DetectionService {
	return &DetectionService{
		classifier: classifier,
		tuning:     tuning,
	}
}

// Detect classifies text as human- or AI-written.
//
// For well-formed input this is a total function: an oracle failure
// degrades to a neutral verdict with an error annotation instead of
// propagating. The only returned error is a validation error, surfaced
// before any oracle call.
func (s *DetectionService) Detect(ctx context.Context, text string) (models.DetectionResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.DetectionResult{}, apperrors.NewValidationError("no text provided", nil)
	}
	if len(text) < s.tuning.MinDetectionChars {
		return models.DetectionResult{}, ErrTextTooShort
	}

	encoded, err := s.classifier.Encode(ctx, text, s.tuning.MaxTokenWindow)
	if err != nil {
		return s.fallbackResult(err), nil
	}

	logits, err := s.classifier.Classify(ctx, encoded)
	if err != nil {
		return s.fallbackResult(err), nil
	}

	// Probability mass on the AI class is the sole decision variable.
	probs := logits.Softmax()
	confidence := probs[1] * 100

	perplexity := heuristics.PerplexityProxy(ctx, s.classifier, text, s.tuning.MaxTokenWindow)
	burstiness := heuristics.Burstiness(text)

	return models.DetectionResult{
		IsAI:       confidence > s.tuning.DetectionThreshold,
		Confidence: round2(confidence),
		Perplexity: round2(perplexity),
		Burstiness: round2(burstiness),
	}, nil
}

// fallbackResult is the uninformative-but-valid verdict returned when
// the classifier oracle fails.
func (s *DetectionService) fallbackResult(err error) models.DetectionResult {
	log.Printf("detection: oracle failure, degrading to neutral verdict: %v", err)
	return models.DetectionResult{
		IsAI:       false,
		Confidence: 50.0,
		Perplexity: 0.0,
		Burstiness: 0.0,
		Error:      err.Error(),
	}
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
