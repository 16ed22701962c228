package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/shannenjosh/verifyeye/internal/models"
	"github.com/shannenjosh/verifyeye/internal/oracle"
)

// fakeClassifier returns fixed logits and records how it was called.
type fakeClassifier struct {
	logits  oracle.Logits
	failing bool

	encodeCalls int
}

func (f *fakeClassifier) Encode(ctx context.Context, text string, maxTokens int) (oracle.EncodedInput, error) {
	f.encodeCalls++
	if f.failing {
		return oracle.EncodedInput{}, errors.New("inference backend unreachable")
	}
	return oracle.EncodedInput{Text: text}, nil
}

func (f *fakeClassifier) Classify(ctx context.Context, in oracle.EncodedInput) (oracle.Logits, error) {
	if f.failing {
		return oracle.Logits{}, errors.New("inference backend unreachable")
	}
	return f.logits, nil
}

// fakeGenerator echoes the prompt plus a fixed continuation, recording
// the conditioned prompt and sampling policy it received.
type fakeGenerator struct {
	continuation string
	totalTokens  int
	echoPrompt   bool
	failing      bool

	gotPrompt string
	gotPolicy oracle.SamplingPolicy
}

func (f *fakeGenerator) Encode(ctx context.Context, text string, maxTokens int) (oracle.EncodedInput, error) {
	if f.failing {
		return oracle.EncodedInput{}, errors.New("inference backend unreachable")
	}
	f.gotPrompt = text
	return oracle.EncodedInput{Text: text}, nil
}

func (f *fakeGenerator) SampleDecode(ctx context.Context, in oracle.EncodedInput, policy oracle.SamplingPolicy) (oracle.TokenSequence, error) {
	if f.failing {
		return oracle.TokenSequence{}, errors.New("inference backend unreachable")
	}
	f.gotPolicy = policy

	text := f.continuation
	if f.echoPrompt {
		text = in.Text + " " + strings.TrimSpace(f.continuation)
	}
	return oracle.TokenSequence{Text: text, TotalTokens: f.totalTokens}, nil
}

func (f *fakeGenerator) Decode(ctx context.Context, seq oracle.TokenSequence) (string, error) {
	if f.failing {
		return "", errors.New("inference backend unreachable")
	}
	return seq.Text, nil
}

// fakeStore collects appended records in memory.
type fakeStore struct {
	mu       sync.Mutex
	records  []models.AnalysisRecord
	failing  bool
	appended chan struct{}
}

func newFakeStore() *fakeStore {
	return &fakeStore{appended: make(chan struct{}, 16)}
}

func (f *fakeStore) Append(ctx context.Context, record models.AnalysisRecord) error {
	defer func() { f.appended <- struct{}{} }()
	if f.failing {
		return errors.New("store unavailable")
	}
	f.mu.Lock()
	f.records = append(f.records, record)
	f.mu.Unlock()
	return nil
}

func (f *fakeStore) Recent(ctx context.Context, limit int) ([]models.AnalysisRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if limit > len(f.records) {
		limit = len(f.records)
	}
	out := make([]models.AnalysisRecord, 0, limit)
	for i := len(f.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.records[i])
	}
	return out, nil
}

func (f *fakeStore) Close() error {
	return nil
}

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}
