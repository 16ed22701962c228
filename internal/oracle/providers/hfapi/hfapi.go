// internal/oracle/providers/hfapi/hfapi.go
package hfapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/shannenjosh/verifyeye/internal/apperrors"
	"github.com/shannenjosh/verifyeye/internal/oracle"
)

func init() {
	oracle.Register("hfapi", func() oracle.Provider {
		return &Provider{
			baseURL: "https://api-inference.huggingface.co",
		}
	})
}

// Provider runs both oracles through the Hugging Face Inference API.
// The API tokenizes server-side, so Encode only applies the truncation
// window client-side and Decode is a passthrough.
type Provider struct {
	baseURL         string
	apiKey          string
	client          *http.Client
	classifierModel string
	generatorModel  string
}

func (p *Provider) Initialize(config map[string]string) error {
	apiKey, exists := config["api_key"]
	if !exists || apiKey == "" {
		return errors.New("hfapi: api key not provided")
	}
	p.apiKey = apiKey
	p.client = &http.Client{Timeout: 120 * time.Second}

	if baseURL, exists := config["base_url"]; exists && baseURL != "" {
		p.baseURL = baseURL
	}

	p.classifierModel = config["classifier_model"]
	if p.classifierModel == "" {
		p.classifierModel = "Hello-SimpleAI/chatgpt-detector-roberta"
	}
	p.generatorModel = config["generator_model"]
	if p.generatorModel == "" {
		p.generatorModel = "gpt2"
	}

	return nil
}

func (p *Provider) GetName() string {
	return "Hugging Face Inference API"
}

func (p *Provider) Classifier() oracle.Classifier {
	return &classifier{provider: p}
}

func (p *Provider) Generator() oracle.Generator {
	return &generator{provider: p}
}

// Ping issues a minimal classification request to confirm the hosted
// model is loaded.
func (p *Provider) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		p.baseURL+"/status/"+p.classifierModel, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("hfapi status check failed (%d)", resp.StatusCode)
	}
	return nil
}

func (p *Provider) post(ctx context.Context, model string, payload, out interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		p.baseURL+"/models/"+model,
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		return apperrors.NewOracleError("hfapi unreachable", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(httpResp.Body)
		return apperrors.NewOracleError(
			fmt.Sprintf("hfapi error (%d): %s", httpResp.StatusCode, string(body)), nil)
	}

	if err := json.NewDecoder(httpResp.Body).Decode(out); err != nil {
		return apperrors.NewOracleError("hfapi returned malformed response", err)
	}
	return nil
}

func clientEncode(text string, maxTokens int) oracle.EncodedInput {
	truncated, wasTruncated := oracle.TruncateWords(text, maxTokens)
	return oracle.EncodedInput{
		Text:      truncated,
		Truncated: wasTruncated,
	}
}

type classifier struct {
	provider *Provider
}

func (c *classifier) Encode(ctx context.Context, text string, maxTokens int) (oracle.EncodedInput, error) {
	return clientEncode(text, maxTokens), nil
}

// Classify maps the API's label/score pairs back onto two-class logits.
// The API returns softmax probabilities, so the log-probabilities are a
// valid logit representation up to an additive constant, which softmax
// downstream cancels out.
func (c *classifier) Classify(ctx context.Context, in oracle.EncodedInput) (oracle.Logits, error) {
	payload := map[string]interface{}{
		"inputs": in.Text,
		"options": map[string]bool{
			"wait_for_model": true,
		},
	}

	var response [][]struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	}
	if err := c.provider.post(ctx, c.provider.classifierModel, payload, &response); err != nil {
		return oracle.Logits{}, err
	}
	if len(response) == 0 || len(response[0]) < 2 {
		return oracle.Logits{}, apperrors.NewOracleError("hfapi returned malformed classification output", nil)
	}

	var logits oracle.Logits
	for _, entry := range response[0] {
		score := math.Max(entry.Score, 1e-9)
		switch entry.Label {
		case "Human", "human", "LABEL_0":
			logits[0] = math.Log(score)
		case "ChatGPT", "AI", "ai", "LABEL_1":
			logits[1] = math.Log(score)
		}
	}

	return logits, nil
}

type generator struct {
	provider *Provider
}

func (g *generator) Encode(ctx context.Context, text string, maxTokens int) (oracle.EncodedInput, error) {
	return clientEncode(text, maxTokens), nil
}

func (g *generator) SampleDecode(ctx context.Context, in oracle.EncodedInput, policy oracle.SamplingPolicy) (oracle.TokenSequence, error) {
	payload := map[string]interface{}{
		"inputs": in.Text,
		"parameters": map[string]interface{}{
			"do_sample":            true,
			"max_new_tokens":       policy.MaxTokens,
			"min_length":           policy.MinLength,
			"temperature":          policy.Temperature,
			"top_k":                policy.TopK,
			"top_p":                policy.TopP,
			"num_return_sequences": policy.NumReturnSequences,
			"no_repeat_ngram_size": policy.NoRepeatNgramSize,
			"return_full_text":     true,
		},
		"options": map[string]bool{
			"wait_for_model": true,
		},
	}

	var response []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := g.provider.post(ctx, g.provider.generatorModel, payload, &response); err != nil {
		return oracle.TokenSequence{}, err
	}
	if len(response) == 0 {
		return oracle.TokenSequence{}, apperrors.NewOracleError("hfapi returned no generated sequences", nil)
	}

	text := response[0].GeneratedText
	return oracle.TokenSequence{
		Text:        text,
		TotalTokens: oracle.EncodedInput{Text: text}.TokenCount(),
	}, nil
}

func (g *generator) Decode(ctx context.Context, seq oracle.TokenSequence) (string, error) {
	return seq.Text, nil
}
