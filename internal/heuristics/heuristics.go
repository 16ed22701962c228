// internal/heuristics/heuristics.go
package heuristics

import (
	"context"
	"math"
	"strings"

	"github.com/shannenjosh/verifyeye/internal/oracle"
)

// The linguistic heuristics are advisory signals attached to a
// detection verdict. They never influence the verdict itself and never
// fail: any internal problem degrades to 0.0.

// PerplexityProxy scores how predictable the text looks to the already
// loaded classifier. It runs one forward pass and exponentiates the
// cross-entropy of the logits against the human label.
//
// This is deliberately not a true language-model perplexity: reusing
// the classifier avoids keeping a second model loaded, at the cost of
// score magnitudes that only make sense relative to each other.
// The result is clipped to [0, 100].
func PerplexityProxy(ctx context.Context, classifier oracle.Classifier, text string, maxTokens int) float64 {
	if strings.TrimSpace(text) == "" || classifier == nil {
		return 0.0
	}

	encoded, err := classifier.Encode(ctx, text, maxTokens)
	if err != nil {
		return 0.0
	}

	logits, err := classifier.Classify(ctx, encoded)
	if err != nil {
		return 0.0
	}

	probs := logits.Softmax()
	if probs[0] <= 0 {
		return 100.0
	}

	loss := -math.Log(probs[0])
	perplexity := math.Exp(loss)
	if math.IsNaN(perplexity) || perplexity < 0 {
		return 0.0
	}

	return math.Min(perplexity, 100.0)
}

// Burstiness measures variation in sentence length as the coefficient
// of variation (population standard deviation over mean) of per-sentence
// word counts. Uniform sentence lengths read as machine-like.
//
// Texts with fewer than two sentences score exactly 0.0. The result is
// clipped to [0, 1].
func Burstiness(text string) float64 {
	segments := strings.Split(text, ".")
	sentences := make([]string, 0, len(segments))
	for _, s := range segments {
		s = strings.TrimSpace(s)
		if s != "" {
			sentences = append(sentences, s)
		}
	}

	if len(sentences) < 2 {
		return 0.0
	}

	lengths := make([]float64, len(sentences))
	for i, s := range sentences {
		lengths[i] = float64(len(strings.Fields(s)))
	}

	mean, sd := meanStd(lengths)
	if mean == 0 {
		return 0.0
	}

	return math.Min(sd/mean, 1.0)
}

// meanStd returns the mean and population standard deviation.
func meanStd(values []float64) (mean, sd float64) {
	if len(values) == 0 {
		return 0, 0
	}
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}
