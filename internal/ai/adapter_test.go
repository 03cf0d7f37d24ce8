package ai

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valtrilabs/postforge/internal/config"
)

type stubProvider struct {
	name string
	text string
	err  error
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Generate(ctx context.Context, req Request) (string, error) {
	return s.text, s.err
}

// countingFactory behaves like a real provider factory: it fails with
// ErrConfigMissing when no api_key is configured, and counts constructions.
func countingFactory(name string, calls *int) Factory {
	return func(cfg config.ProviderConfig) (Provider, error) {
		*calls++
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%s: credential api_key not set: %w", name, ErrConfigMissing)
		}
		return &stubProvider{name: name, text: "generated by " + name}, nil
	}
}

func TestAdapterUsesRequestedProvider(t *testing.T) {
	var calls int
	Register("prim", countingFactory("prim", &calls))

	a := NewAdapter(config.AIConfig{
		Provider: "prim",
		Fallback: "prim",
		Providers: map[string]config.ProviderConfig{
			"prim": {APIKey: "key"},
		},
	})
	resp, err := a.Generate(context.Background(), Request{Prompt: "p", MaxTokens: 100, Temperature: 0.2})
	require.NoError(t, err)
	assert.Equal(t, "prim", resp.Provider)
	assert.Equal(t, "generated by prim", resp.Text)
	assert.Equal(t, 1, calls)
}

func TestAdapterFallsBackOnceOnMissingCredential(t *testing.T) {
	var primCalls, fbCalls int
	Register("prim-missing", countingFactory("prim-missing", &primCalls))
	Register("fb-ok", countingFactory("fb-ok", &fbCalls))

	a := NewAdapter(config.AIConfig{
		Provider: "prim-missing",
		Fallback: "fb-ok",
		Providers: map[string]config.ProviderConfig{
			"fb-ok": {APIKey: "key"},
		},
	})

	resp, err := a.Generate(context.Background(), Request{Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, "fb-ok", resp.Provider)

	// the requested provider must not be tried again within this adapter
	resp, err = a.Generate(context.Background(), Request{Prompt: "q"})
	require.NoError(t, err)
	assert.Equal(t, "fb-ok", resp.Provider)
	assert.Equal(t, 1, primCalls)
	assert.Equal(t, 1, fbCalls)
}

func TestAdapterFatalWhenFallbackAlsoFails(t *testing.T) {
	var primCalls, fbCalls int
	Register("prim-dead", countingFactory("prim-dead", &primCalls))
	Register("fb-dead", countingFactory("fb-dead", &fbCalls))

	a := NewAdapter(config.AIConfig{
		Provider:  "prim-dead",
		Fallback:  "fb-dead",
		Providers: map[string]config.ProviderConfig{},
	})

	_, err := a.Generate(context.Background(), Request{Prompt: "p"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigMissing)
	assert.Contains(t, err.Error(), "prim-dead")
	assert.Contains(t, err.Error(), "fb-dead")

	// failure is memoized, not re-attempted
	_, err = a.Generate(context.Background(), Request{Prompt: "p"})
	require.Error(t, err)
	assert.Equal(t, 1, primCalls)
	assert.Equal(t, 1, fbCalls)
}

func TestAdapterNoSelfFallback(t *testing.T) {
	var calls int
	Register("solo", countingFactory("solo", &calls))

	a := NewAdapter(config.AIConfig{Provider: "solo", Fallback: "solo"})
	_, err := a.Generate(context.Background(), Request{Prompt: "p"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigMissing)
	assert.Equal(t, 1, calls)
}

func TestAdapterPropagatesTransportError(t *testing.T) {
	transportErr := errors.New("connection reset")
	Register("flaky", func(cfg config.ProviderConfig) (Provider, error) {
		return &stubProvider{name: "flaky", err: transportErr}, nil
	})

	a := NewAdapter(config.AIConfig{Provider: "flaky", Fallback: "flaky"})
	_, err := a.Generate(context.Background(), Request{Prompt: "p"})
	require.Error(t, err)
	assert.ErrorIs(t, err, transportErr)
	assert.Contains(t, err.Error(), "flaky")
}

func TestAdapterUnknownProviderIsConfigError(t *testing.T) {
	a := NewAdapter(config.AIConfig{Provider: "no-such", Fallback: ""})
	_, err := a.Generate(context.Background(), Request{Prompt: "p"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigMissing)
}

func TestFactoriesRejectMissingCredential(t *testing.T) {
	for _, name := range []string{"claude", "openai", "gemini"} {
		t.Run(name, func(t *testing.T) {
			_, err := newProvider(name, map[string]config.ProviderConfig{})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfigMissing)
			assert.Contains(t, err.Error(), "api_key")
		})
	}
}
