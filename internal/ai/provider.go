// Package ai abstracts the text-generation providers behind one Generate
// operation with a single configured fallback.
package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/valtrilabs/postforge/internal/config"
)

// ErrConfigMissing marks a provider that cannot initialize because its
// required credential is absent. The adapter falls back on this condition.
var ErrConfigMissing = errors.New("provider configuration missing")

// providerHTTPTimeout bounds raw-HTTP provider calls independently of the
// adapter's per-request context deadline.
const providerHTTPTimeout = 120 * time.Second

func newProviderHTTPClient() *http.Client {
	return &http.Client{Timeout: providerHTTPTimeout}
}

// Request is one generation call.
type Request struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Response is the normalized payload every provider is reduced to.
type Response struct {
	Text     string `json:"text"`
	Provider string `json:"provider"`
}

// Provider is one concrete generation backend.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
}

// Factory builds a provider from its configuration block.
type Factory func(cfg config.ProviderConfig) (Provider, error)

var registry = map[string]Factory{}

func Register(name string, factory Factory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registry[key] = factory
}

func newProvider(name string, cfgs map[string]config.ProviderConfig) (Provider, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, fmt.Errorf("ai provider name is required")
	}
	factory := registry[key]
	if factory == nil {
		return nil, fmt.Errorf("unsupported ai provider %q: %w", name, ErrConfigMissing)
	}
	return factory(cfgs[key])
}
