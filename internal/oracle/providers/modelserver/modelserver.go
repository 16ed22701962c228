// internal/oracle/providers/modelserver/modelserver.go
package modelserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shannenjosh/verifyeye/internal/apperrors"
	"github.com/shannenjosh/verifyeye/internal/oracle"
)

func init() {
	oracle.Register("modelserver", func() oracle.Provider {
		return &Provider{
			baseURL: "http://localhost:9090",
		}
	})
}

// Provider talks to a self-hosted inference sidecar that keeps the
// classifier and generator weights loaded for the process lifetime.
// The sidecar exposes encode/classify/generate/decode as JSON endpoints
// and is safe for concurrent inference requests.
type Provider struct {
	baseURL         string
	apiKey          string
	client          *http.Client
	classifierModel string
	generatorModel  string
}

func (p *Provider) Initialize(config map[string]string) error {
	if baseURL, exists := config["base_url"]; exists && baseURL != "" {
		p.baseURL = baseURL
	}
	p.apiKey = config["api_key"]
	p.client = &http.Client{Timeout: 120 * time.Second}

	p.classifierModel = config["classifier_model"]
	if p.classifierModel == "" {
		p.classifierModel = "roberta-base-ai-detector"
	}
	p.generatorModel = config["generator_model"]
	if p.generatorModel == "" {
		p.generatorModel = "gpt2"
	}

	return nil
}

func (p *Provider) GetName() string {
	return "Model Server"
}

func (p *Provider) Classifier() oracle.Classifier {
	return &modelClient{provider: p, model: p.classifierModel}
}

func (p *Provider) Generator() oracle.Generator {
	return &modelClient{provider: p, model: p.generatorModel}
}

// Ping checks the sidecar health endpoint.
func (p *Provider) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/v1/health", nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("model server unhealthy (%d)", resp.StatusCode)
	}
	return nil
}

// modelClient binds the shared HTTP plumbing to one loaded model.
type modelClient struct {
	provider *Provider
	model    string
}

func (c *modelClient) post(ctx context.Context, path string, payload, out interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.provider.baseURL+path,
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if c.provider.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.provider.apiKey)
	}

	httpResp, err := c.provider.client.Do(httpReq)
	if err != nil {
		return apperrors.NewOracleError("model server unreachable", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(httpResp.Body)
		return apperrors.NewOracleError(
			fmt.Sprintf("model server error (%d): %s", httpResp.StatusCode, string(body)), nil)
	}

	if err := json.NewDecoder(httpResp.Body).Decode(out); err != nil {
		return apperrors.NewOracleError("model server returned malformed response", err)
	}
	return nil
}

func (c *modelClient) Encode(ctx context.Context, text string, maxTokens int) (oracle.EncodedInput, error) {
	payload := map[string]interface{}{
		"model":      c.model,
		"text":       text,
		"max_tokens": maxTokens,
		"truncate":   true,
	}

	var response struct {
		TokenIDs  []int `json:"token_ids"`
		Truncated bool  `json:"truncated"`
	}
	if err := c.post(ctx, "/v1/encode", payload, &response); err != nil {
		return oracle.EncodedInput{}, err
	}

	return oracle.EncodedInput{
		Text:      text,
		TokenIDs:  response.TokenIDs,
		Truncated: response.Truncated,
	}, nil
}

func (c *modelClient) Classify(ctx context.Context, in oracle.EncodedInput) (oracle.Logits, error) {
	payload := map[string]interface{}{
		"model":     c.model,
		"token_ids": in.TokenIDs,
	}

	var response struct {
		Logits []float64 `json:"logits"`
	}
	if err := c.post(ctx, "/v1/classify", payload, &response); err != nil {
		return oracle.Logits{}, err
	}
	if len(response.Logits) != 2 {
		return oracle.Logits{}, apperrors.NewOracleError("model server returned malformed logits", nil)
	}

	return oracle.Logits{response.Logits[0], response.Logits[1]}, nil
}

func (c *modelClient) SampleDecode(ctx context.Context, in oracle.EncodedInput, policy oracle.SamplingPolicy) (oracle.TokenSequence, error) {
	payload := map[string]interface{}{
		"model":                c.model,
		"token_ids":            in.TokenIDs,
		"do_sample":            true,
		"max_tokens":           policy.MaxTokens,
		"min_length":           policy.MinLength,
		"temperature":          policy.Temperature,
		"top_k":                policy.TopK,
		"top_p":                policy.TopP,
		"num_return_sequences": policy.NumReturnSequences,
		"no_repeat_ngram_size": policy.NoRepeatNgramSize,
	}

	var response struct {
		TokenIDs    []int `json:"token_ids"`
		TotalTokens int   `json:"total_tokens"`
	}
	if err := c.post(ctx, "/v1/generate", payload, &response); err != nil {
		return oracle.TokenSequence{}, err
	}

	total := response.TotalTokens
	if total == 0 {
		total = len(response.TokenIDs)
	}

	return oracle.TokenSequence{
		TokenIDs:    response.TokenIDs,
		TotalTokens: total,
	}, nil
}

func (c *modelClient) Decode(ctx context.Context, seq oracle.TokenSequence) (string, error) {
	if seq.Text != "" {
		return seq.Text, nil
	}

	payload := map[string]interface{}{
		"model":               c.model,
		"token_ids":           seq.TokenIDs,
		"skip_special_tokens": true,
	}

	var response struct {
		Text string `json:"text"`
	}
	if err := c.post(ctx, "/v1/decode", payload, &response); err != nil {
		return "", err
	}

	return response.Text, nil
}
