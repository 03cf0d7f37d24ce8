package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/valtrilabs/postforge/internal/config"
)

const defaultGeminiModel = "gemini-2.5-flash"

type geminiProvider struct {
	apiKey string
	model  string
}

func (p *geminiProvider) Name() string {
	return "gemini"
}

func (p *geminiProvider) Generate(ctx context.Context, req Request) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  p.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", err
	}
	temperature := float32(req.Temperature)
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: int32(req.MaxTokens),
	}
	resp, err := client.Models.GenerateContent(
		ctx,
		p.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: req.Prompt}}}},
		cfg,
	)
	if err != nil {
		return "", err
	}
	return extractGeminiText(ctx, resp), nil
}

// geminiExtractor is one ordered strategy for pulling text out of a response.
// The Gemini payload shape has shifted between SDK versions, so extraction
// walks the strategies in order and takes the first non-empty result.
type geminiExtractor struct {
	name string
	fn   func(*genai.GenerateContentResponse) string
}

var geminiExtractors = []geminiExtractor{
	{name: "response_text", fn: func(resp *genai.GenerateContentResponse) string {
		return resp.Text()
	}},
	{name: "candidate_parts", fn: extractGeminiCandidateParts},
}

func extractGeminiText(ctx context.Context, resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, ex := range geminiExtractors {
		if text := strings.TrimSpace(ex.fn(resp)); text != "" {
			return text
		}
	}
	logutil.GetLogger(ctx).Warn("gemini response yielded no text on any extraction path",
		zap.Int("candidates", len(resp.Candidates)))
	return ""
}

func extractGeminiCandidateParts(resp *genai.GenerateContentResponse) string {
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part == nil || part.Text == "" {
				continue
			}
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(part.Text)
		}
	}
	return b.String()
}

func createGeminiProvider(cfg config.ProviderConfig) (Provider, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: credential api_key not set: %w", ErrConfigMissing)
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultGeminiModel
	}
	return &geminiProvider{apiKey: apiKey, model: model}, nil
}

func init() {
	Register("gemini", createGeminiProvider)
}
