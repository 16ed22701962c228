package oracle

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestSoftmax(t *testing.T) {
	tests := []struct {
		name   string
		logits Logits
		want1  float64 // expected AI-class probability
	}{
		{"balanced", Logits{0, 0}, 0.5},
		{"ai heavy", Logits{-2, 2}, 1 / (1 + math.Exp(-4))},
		{"human heavy", Logits{2, -2}, 1 / (1 + math.Exp(4))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			probs := tt.logits.Softmax()
			if math.Abs(probs[0]+probs[1]-1) > 1e-12 {
				t.Errorf("probabilities sum to %v, want 1", probs[0]+probs[1])
			}
			if math.Abs(probs[1]-tt.want1) > 1e-12 {
				t.Errorf("Softmax()[1] = %v, want %v", probs[1], tt.want1)
			}
		})
	}
}

func TestSoftmaxExtremeLogits(t *testing.T) {
	// Max-subtraction keeps huge logits from overflowing to NaN.
	probs := Logits{-800, 800}.Softmax()
	if math.IsNaN(probs[0]) || math.IsNaN(probs[1]) {
		t.Fatalf("Softmax() produced NaN: %v", probs)
	}
	if probs[1] != 1.0 {
		t.Errorf("Softmax()[1] = %v, want 1.0 for a dominant logit", probs[1])
	}
}

func TestTruncateWords(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		maxTokens     int
		want          string
		wantTruncated bool
	}{
		{"under limit", "one two three", 5, "one two three", false},
		{"at limit", "one two three", 3, "one two three", false},
		{"over limit", "one two three four", 2, "one two", true},
		{"zero limit disables truncation", "one two three", 0, "one two three", false},
		{"empty", "", 3, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, truncated := TruncateWords(tt.text, tt.maxTokens)
			if got != tt.want || truncated != tt.wantTruncated {
				t.Errorf("TruncateWords(%q, %d) = (%q, %v), want (%q, %v)",
					tt.text, tt.maxTokens, got, truncated, tt.want, tt.wantTruncated)
			}
		})
	}
}

func TestTokenCount(t *testing.T) {
	withIDs := EncodedInput{Text: "one two", TokenIDs: []int{1, 2, 3, 4}}
	if got := withIDs.TokenCount(); got != 4 {
		t.Errorf("TokenCount() = %d, want 4 from token IDs", got)
	}

	textOnly := EncodedInput{Text: "one two three"}
	if got := textOnly.TokenCount(); got != 3 {
		t.Errorf("TokenCount() = %d, want 3 from the whitespace estimate", got)
	}
}

func TestDefaultSamplingPolicy(t *testing.T) {
	policy := DefaultSamplingPolicy(650, 0.7)

	if policy.MaxTokens != 650 || policy.Temperature != 0.7 {
		t.Errorf("caller fields = (%d, %v), want (650, 0.7)", policy.MaxTokens, policy.Temperature)
	}
	if policy.MinLength != 50 {
		t.Errorf("MinLength = %d, want 50", policy.MinLength)
	}
	if policy.TopK != 50 {
		t.Errorf("TopK = %d, want 50", policy.TopK)
	}
	if policy.TopP != 0.95 {
		t.Errorf("TopP = %v, want 0.95", policy.TopP)
	}
	if policy.NumReturnSequences != 1 {
		t.Errorf("NumReturnSequences = %d, want 1", policy.NumReturnSequences)
	}
	if policy.NoRepeatNgramSize != 3 {
		t.Errorf("NoRepeatNgramSize = %d, want 3", policy.NoRepeatNgramSize)
	}
}

type registryProvider struct {
	config map[string]string
}

func (p *registryProvider) Initialize(config map[string]string) error {
	if config["api_key"] == "" {
		return errors.New("api_key is required")
	}
	p.config = config
	return nil
}

func (p *registryProvider) GetName() string            { return "Registry Test" }
func (p *registryProvider) Classifier() Classifier     { return nil }
func (p *registryProvider) Generator() Generator       { return nil }
func (p *registryProvider) Ping(context.Context) error { return nil }

func TestProviderRegistry(t *testing.T) {
	Register("registrytest", func() Provider { return &registryProvider{} })

	provider, err := GetProvider("registrytest", map[string]string{"api_key": "k"})
	if err != nil {
		t.Fatalf("GetProvider() error = %v", err)
	}
	if provider.GetName() != "Registry Test" {
		t.Errorf("GetName() = %q", provider.GetName())
	}

	if _, err := GetProvider("registrytest", map[string]string{}); err == nil {
		t.Error("GetProvider() with bad config should surface the initialize error")
	}

	if _, err := GetProvider("nosuch", nil); !errors.Is(err, ErrUnknownProvider) {
		t.Errorf("GetProvider(nosuch) error = %v, want ErrUnknownProvider", err)
	}

	found := false
	for _, name := range ListProviders() {
		if name == "registrytest" {
			found = true
		}
	}
	if !found {
		t.Error("ListProviders() missing the registered name")
	}
}
