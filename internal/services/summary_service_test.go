package services

import (
	"context"
	"strings"
	"testing"

	"github.com/shannenjosh/verifyeye/internal/apperrors"
	"github.com/shannenjosh/verifyeye/internal/models"
)

// summarizableText is exactly 100 words.
func summarizableText() string {
	return strings.TrimSpace(strings.Repeat("word ", 100))
}

func TestSummarizeValidation(t *testing.T) {
	svc := NewSummaryService(&fakeGenerator{}, testTuning())

	tests := []struct {
		name string
		req  models.SummaryRequest
	}{
		{"empty text", models.SummaryRequest{Text: ""}},
		{"whitespace text", models.SummaryRequest{Text: "  \n "}},
		{"ratio too low", models.SummaryRequest{Text: "some text", Ratio: 0.05}},
		{"ratio too high", models.SummaryRequest{Text: "some text", Ratio: 0.95}},
		{"unknown format", models.SummaryRequest{Text: "some text", Format: "haiku"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Summarize(context.Background(), tt.req)
			if err == nil {
				t.Fatal("Summarize() expected a validation error, got nil")
			}
			if !apperrors.IsValidationError(err) {
				t.Errorf("Summarize() error = %v, want validation error", err)
			}
		})
	}
}

func TestSummarizeInstructionPrompt(t *testing.T) {
	tests := []struct {
		name       string
		req        models.SummaryRequest
		wantPrefix string
	}{
		{
			name:       "default ratio and format",
			req:        models.SummaryRequest{Text: summarizableText()},
			wantPrefix: "Summarize the following text in about 50 words as a single paragraph: ",
		},
		{
			name:       "bullet format",
			req:        models.SummaryRequest{Text: summarizableText(), Ratio: 0.3, Format: FormatBullets},
			wantPrefix: "Summarize the following text in about 30 words as concise bullet points: ",
		},
		{
			name:       "target floored at 30 words",
			req:        models.SummaryRequest{Text: summarizableText(), Ratio: 0.1},
			wantPrefix: "Summarize the following text in about 30 words as a single paragraph: ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{continuation: "A brief summary.", totalTokens: 8}
			svc := NewSummaryService(gen, testTuning())

			if _, err := svc.Summarize(context.Background(), tt.req); err != nil {
				t.Fatalf("Summarize() error = %v", err)
			}

			want := tt.wantPrefix + summarizableText()
			if gen.gotPrompt != want {
				t.Errorf("conditioned prompt = %q, want %q", gen.gotPrompt, want)
			}
		})
	}
}

func TestSummarizeSamplingPolicy(t *testing.T) {
	gen := &fakeGenerator{continuation: "A brief summary.", totalTokens: 8}
	svc := NewSummaryService(gen, testTuning())

	_, err := svc.Summarize(context.Background(), models.SummaryRequest{Text: summarizableText()})
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if gen.gotPolicy.Temperature != 0.3 {
		t.Errorf("Temperature = %v, want fixed 0.3", gen.gotPolicy.Temperature)
	}
	if gen.gotPolicy.MaxTokens != 65 { // 50 target words * 1.3
		t.Errorf("MaxTokens = %d, want 65", gen.gotPolicy.MaxTokens)
	}
	if gen.gotPolicy.TopK != 50 || gen.gotPolicy.TopP != 0.95 {
		t.Errorf("sampling = (TopK %d, TopP %v), want (50, 0.95)", gen.gotPolicy.TopK, gen.gotPolicy.TopP)
	}
}

func TestSummarizeCountsAndCompression(t *testing.T) {
	gen := &fakeGenerator{
		continuation: "One two three four five six.",
		totalTokens:  10,
		echoPrompt:   true,
	}
	svc := NewSummaryService(gen, testTuning())

	result, err := svc.Summarize(context.Background(), models.SummaryRequest{Text: summarizableText()})
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if result.Summary != "One two three four five six." {
		t.Errorf("Summary = %q, echoed instruction was not stripped", result.Summary)
	}
	if result.OriginalWords != 100 {
		t.Errorf("OriginalWords = %d, want 100", result.OriginalWords)
	}
	if result.SummaryWords != 6 {
		t.Errorf("SummaryWords = %d, want 6", result.SummaryWords)
	}
	if result.CompressionRatio != 0.06 {
		t.Errorf("CompressionRatio = %v, want 0.06", result.CompressionRatio)
	}
	if result.Error != "" {
		t.Errorf("unexpected error annotation: %q", result.Error)
	}
}

func TestSummarizeDegradesOnOracleFailure(t *testing.T) {
	svc := NewSummaryService(&fakeGenerator{failing: true}, testTuning())

	result, err := svc.Summarize(context.Background(), models.SummaryRequest{Text: summarizableText()})
	if err != nil {
		t.Fatalf("Summarize() must not propagate oracle failures, got %v", err)
	}

	if result.Summary != SummaryFallbackText {
		t.Errorf("Summary = %q, want the fixed fallback", result.Summary)
	}
	if result.OriginalWords != 100 {
		t.Errorf("OriginalWords = %d, want 100 even when degraded", result.OriginalWords)
	}
	if result.SummaryWords != 0 || result.CompressionRatio != 0 {
		t.Errorf("degraded counts = (%d, %v), want (0, 0)", result.SummaryWords, result.CompressionRatio)
	}
	if result.Error == "" {
		t.Error("degraded result missing error annotation")
	}
}
