package vectorstore

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiEmbedModel = "gemini-embedding-001"

// GeminiEncoder embeds text through the Gemini embedding API, constrained to
// a fixed output dimensionality so stored and query vectors stay comparable.
type GeminiEncoder struct {
	apiKey string
	model  string
	dims   int
}

func NewGeminiEncoder(apiKey, model string, dims int) (*GeminiEncoder, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("gemini encoder: credential api_key not set")
	}
	if dims <= 0 {
		return nil, fmt.Errorf("encoder dimensions must be positive, got %d", dims)
	}
	if strings.TrimSpace(model) == "" {
		model = defaultGeminiEmbedModel
	}
	return &GeminiEncoder{apiKey: apiKey, model: model, dims: dims}, nil
}

func (e *GeminiEncoder) Dimensions() int {
	return e.dims
}

func (e *GeminiEncoder) Encode(ctx context.Context, text string) ([]float32, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  e.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	dims := int32(e.dims)
	resp, err := client.Models.EmbedContent(
		ctx,
		e.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: text}}}},
		&genai.EmbedContentConfig{OutputDimensionality: &dims},
	)
	if err != nil {
		return nil, err
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("no embedding values returned")
	}
	vec := resp.Embeddings[0].Values
	if len(vec) != e.dims {
		return nil, fmt.Errorf("embedding has %d dimensions, want %d", len(vec), e.dims)
	}
	// reduced-dimension embeddings come back unnormalized
	normalizeL2(vec)
	return vec, nil
}
