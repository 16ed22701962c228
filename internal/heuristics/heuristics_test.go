package heuristics

import (
	"context"
	"errors"
	"testing"

	"github.com/shannenjosh/verifyeye/internal/oracle"
)

// fakeClassifier returns fixed logits, or an error when failing is set.
type fakeClassifier struct {
	logits  oracle.Logits
	failing bool
}

func (f *fakeClassifier) Encode(ctx context.Context, text string, maxTokens int) (oracle.EncodedInput, error) {
	if f.failing {
		return oracle.EncodedInput{}, errors.New("encode failed")
	}
	return oracle.EncodedInput{Text: text}, nil
}

func (f *fakeClassifier) Classify(ctx context.Context, in oracle.EncodedInput) (oracle.Logits, error) {
	if f.failing {
		return oracle.Logits{}, errors.New("classify failed")
	}
	return f.logits, nil
}

func TestPerplexityProxyRange(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		logits oracle.Logits
	}{
		{"balanced", oracle.Logits{0, 0}},
		{"confident human", oracle.Logits{8, -8}},
		{"confident ai", oracle.Logits{-8, 8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PerplexityProxy(ctx, &fakeClassifier{logits: tt.logits}, "Some reasonable input text.", 512)
			if got < 0 || got > 100 {
				t.Errorf("PerplexityProxy() = %v, want value in [0, 100]", got)
			}
		})
	}
}

func TestPerplexityProxyClipsAt100(t *testing.T) {
	// Near-zero human probability drives exp(loss) far beyond the cap.
	got := PerplexityProxy(context.Background(), &fakeClassifier{logits: oracle.Logits{-20, 20}}, "text under test here", 512)
	if got != 100.0 {
		t.Errorf("PerplexityProxy() = %v, want clipped 100.0", got)
	}
}

func TestPerplexityProxyDegradesToZero(t *testing.T) {
	ctx := context.Background()

	if got := PerplexityProxy(ctx, &fakeClassifier{failing: true}, "valid text", 512); got != 0.0 {
		t.Errorf("failing oracle: PerplexityProxy() = %v, want 0.0", got)
	}
	if got := PerplexityProxy(ctx, &fakeClassifier{}, "   ", 512); got != 0.0 {
		t.Errorf("blank text: PerplexityProxy() = %v, want 0.0", got)
	}
	if got := PerplexityProxy(ctx, nil, "valid text", 512); got != 0.0 {
		t.Errorf("nil classifier: PerplexityProxy() = %v, want 0.0", got)
	}
}

func TestPerplexityProxyIdempotent(t *testing.T) {
	ctx := context.Background()
	classifier := &fakeClassifier{logits: oracle.Logits{1.5, -0.5}}

	first := PerplexityProxy(ctx, classifier, "Repeated input text for the proxy.", 512)
	second := PerplexityProxy(ctx, classifier, "Repeated input text for the proxy.", 512)
	if first != second {
		t.Errorf("PerplexityProxy() not idempotent: %v != %v", first, second)
	}
}

func TestBurstiness(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64 // -1 means "just check the range"
	}{
		{"empty", "", 0.0},
		{"single sentence no period", "Hello world", 0.0},
		{"single sentence with period", "Hello world.", 0.0},
		{"only periods", "...", 0.0},
		{"uniform sentences", "One two three. One two three. One two three.", 0.0},
		{"varied sentences", "Short. This sentence is a fair bit longer than the first. Tiny.", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Burstiness(tt.text)
			if got < 0 || got > 1 {
				t.Fatalf("Burstiness(%q) = %v, want value in [0, 1]", tt.text, got)
			}
			if tt.want >= 0 && got != tt.want {
				t.Errorf("Burstiness(%q) = %v, want %v", tt.text, got, tt.want)
			}
			if tt.want < 0 && got == 0 {
				t.Errorf("Burstiness(%q) = 0, want a positive score for varied lengths", tt.text)
			}
		})
	}
}

func TestBurstinessClipsAtOne(t *testing.T) {
	// One enormous sentence next to single-word sentences pushes the
	// coefficient of variation past 1.
	text := "A. B. C. " +
		"This final sentence is dramatically longer than every other sentence in the sample by a wide margin of many many words."
	if got := Burstiness(text); got != 1.0 {
		t.Errorf("Burstiness() = %v, want clipped 1.0", got)
	}
}

func TestBurstinessIdempotent(t *testing.T) {
	text := "Short. This one is much longer than the first sentence. Tiny."
	if Burstiness(text) != Burstiness(text) {
		t.Error("Burstiness() not idempotent")
	}
}
