package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/valtrilabs/postforge/internal/config"
)

const (
	defaultClaudeBaseURL   = "https://api.anthropic.com/v1"
	defaultClaudeModel     = "claude-sonnet-4-20250514"
	anthropicVersionHeader = "2023-06-01"
	defaultClaudeMaxTokens = 512
)

type claudeProvider struct {
	apiKey  string
	baseURL string
	model   string
	http    *http.Client
}

type claudeMessageRequest struct {
	Model       string      `json:"model"`
	MaxTokens   int         `json:"max_tokens"`
	Messages    []claudeMsg `json:"messages"`
	Temperature float64     `json:"temperature"`
}

type claudeMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeMessageResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (p *claudeProvider) Name() string {
	return "claude"
}

func (p *claudeProvider) Generate(ctx context.Context, req Request) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultClaudeMaxTokens
	}
	endpoint := strings.TrimRight(p.baseURL, "/") + "/messages"
	reqBody := claudeMessageRequest{
		Model:       p.model,
		MaxTokens:   maxTokens,
		Messages:    []claudeMsg{{Role: "user", Content: req.Prompt}},
		Temperature: req.Temperature,
	}
	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("x-api-key", p.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersionHeader)
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := p.http.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("claude request failed: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	var out claudeMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	for _, block := range out.Content {
		if block.Type == "text" && block.Text != "" {
			return strings.TrimSpace(block.Text), nil
		}
	}
	return "", fmt.Errorf("claude response has no text content")
}

func createClaudeProvider(cfg config.ProviderConfig) (Provider, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("claude: credential api_key not set: %w", ErrConfigMissing)
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultClaudeBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultClaudeModel
	}
	return &claudeProvider{apiKey: apiKey, baseURL: baseURL, model: model, http: newProviderHTTPClient()}, nil
}

func init() {
	Register("claude", createClaudeProvider)
}
