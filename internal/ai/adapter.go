package ai

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/valtrilabs/postforge/internal/config"
)

// Adapter selects one provider by name and hides it behind Generate. The
// underlying provider is constructed on first use. If that construction fails,
// the adapter falls back once to the configured default provider for the rest
// of its lifetime; if the default fails too, every Generate call returns the
// initialization error.
type Adapter struct {
	requested string
	fallback  string
	cfgs      map[string]config.ProviderConfig
	timeout   time.Duration

	once     sync.Once
	provider Provider
	initErr  error
}

func NewAdapter(cfg config.AIConfig) *Adapter {
	return &Adapter{
		requested: cfg.Provider,
		fallback:  cfg.Fallback,
		cfgs:      cfg.Providers,
		timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
	}
}

func (a *Adapter) ensure(ctx context.Context) (Provider, error) {
	a.once.Do(func() {
		p, err := newProvider(a.requested, a.cfgs)
		if err == nil {
			a.provider = p
			return
		}
		if a.fallback == "" || a.fallback == a.requested {
			a.initErr = fmt.Errorf("init provider %q: %w", a.requested, err)
			return
		}
		logutil.GetLogger(ctx).Warn("provider init failed, falling back to default",
			zap.String("requested", a.requested),
			zap.String("fallback", a.fallback),
			zap.Error(err))
		fb, fberr := newProvider(a.fallback, a.cfgs)
		if fberr != nil {
			a.initErr = fmt.Errorf("init provider %q failed (%v) and fallback %q failed: %w",
				a.requested, err, a.fallback, fberr)
			return
		}
		a.provider = fb
	})
	return a.provider, a.initErr
}

// Generate runs one generation call against the selected provider and
// normalizes the result. Transport errors are logged with full context and
// returned as-is; no retry happens here.
func (a *Adapter) Generate(ctx context.Context, req Request) (*Response, error) {
	provider, err := a.ensure(ctx)
	if err != nil {
		return nil, err
	}
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	text, err := provider.Generate(ctx, req)
	if err != nil {
		logutil.GetLogger(ctx).Error("generation failed",
			zap.String("provider", provider.Name()),
			zap.Int("max_tokens", req.MaxTokens),
			zap.Float64("temperature", req.Temperature),
			zap.Int("prompt_len", len(req.Prompt)),
			zap.Error(err))
		return nil, fmt.Errorf("provider %s: %w", provider.Name(), err)
	}
	return &Response{Text: text, Provider: provider.Name()}, nil
}
