// internal/oracle/interface.go
package oracle

import (
	"context"
	"errors"
	"math"
)

var ErrUnknownProvider = errors.New("unknown oracle provider")

// EncodedInput is token-encoded text ready for a model forward pass.
// Providers that tokenize server-side carry the original text and let
// the backend resolve token IDs.
type EncodedInput struct {
	Text      string `json:"text"`
	TokenIDs  []int  `json:"token_ids,omitempty"`
	Truncated bool   `json:"truncated,omitempty"`
}

// TokenCount returns the known token length of the input, falling back
// to a whitespace-token estimate when the provider tokenizes remotely.
func (e EncodedInput) TokenCount() int {
	if len(e.TokenIDs) > 0 {
		return len(e.TokenIDs)
	}
	return estimateTokens(e.Text)
}

// Logits is the raw two-class output of the sequence classifier.
// Index 0 is the human class, index 1 the AI class.
type Logits [2]float64

// Softmax converts the logits into class probabilities. The max logit
// is subtracted first to keep the exponentials stable.
func (l Logits) Softmax() [2]float64 {
	m := l[0]
	if l[1] > m {
		m = l[1]
	}
	e0 := math.Exp(l[0] - m)
	e1 := math.Exp(l[1] - m)
	sum := e0 + e1
	return [2]float64{e0 / sum, e1 / sum}
}

// TokenSequence is a sampled continuation as returned by the generator.
// TotalTokens counts prompt plus continuation tokens.
type TokenSequence struct {
	TokenIDs    []int  `json:"token_ids,omitempty"`
	Text        string `json:"text,omitempty"`
	TotalTokens int    `json:"total_tokens"`
}

// SamplingPolicy is the fixed decode configuration for one generation
// call. It is built once per call and immutable afterwards. Decoding is
// stochastic sampling, so identical prompts may legitimately produce
// different outputs; no seed is fixed here.
type SamplingPolicy struct {
	MaxTokens          int     `json:"max_tokens"`
	MinLength          int     `json:"min_length"`
	Temperature        float64 `json:"temperature"`
	TopK               int     `json:"top_k"`
	TopP               float64 `json:"top_p"`
	NumReturnSequences int     `json:"num_return_sequences"`
	NoRepeatNgramSize  int     `json:"no_repeat_ngram_size"`
}

// DefaultSamplingPolicy returns the fixed hyperparameters with the
// caller-supplied temperature and token budget filled in.
func DefaultSamplingPolicy(maxTokens int, temperature float64) SamplingPolicy {
	return SamplingPolicy{
		MaxTokens:          maxTokens,
		MinLength:          50,
		Temperature:        temperature,
		TopK:               50,
		TopP:               0.95,
		NumReturnSequences: 1,
		NoRepeatNgramSize:  3,
	}
}

// Classifier is the human-vs-AI sequence classification oracle.
type Classifier interface {
	// Encode tokenizes text, truncating to maxTokens.
	Encode(ctx context.Context, text string, maxTokens int) (EncodedInput, error)

	// Classify runs one forward pass and returns the two class logits.
	Classify(ctx context.Context, in EncodedInput) (Logits, error)
}

// Generator is the causal text generation oracle.
type Generator interface {
	// Encode tokenizes text, truncating to maxTokens.
	Encode(ctx context.Context, text string, maxTokens int) (EncodedInput, error)

	// SampleDecode runs a stochastic sampling decode under the policy.
	SampleDecode(ctx context.Context, in EncodedInput, policy SamplingPolicy) (TokenSequence, error)

	// Decode turns a token sequence back into text.
	Decode(ctx context.Context, seq TokenSequence) (string, error)
}

// Provider bundles both oracle instances behind one backend.
type Provider interface {
	// Initialize the provider with its configuration.
	Initialize(config map[string]string) error

	// GetName returns the provider display name.
	GetName() string

	Classifier() Classifier
	Generator() Generator

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error
}

// ProviderFactory creates an uninitialized provider.
type ProviderFactory func() Provider

var providers = make(map[string]ProviderFactory)

// Register adds a provider factory under a name. Called from provider
// package init functions.
func Register(name string, factory ProviderFactory) {
	providers[name] = factory
}

// GetProvider creates and initializes the named provider.
func GetProvider(name string, config map[string]string) (Provider, error) {
	factory, exists := providers[name]
	if !exists {
		return nil, ErrUnknownProvider
	}

	provider := factory()
	if err := provider.Initialize(config); err != nil {
		return nil, err
	}

	return provider, nil
}

// ListProviders returns all registered provider names.
func ListProviders() []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	return names
}
