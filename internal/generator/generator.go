// Package generator turns a theme, format, and retrieval query into a
// persisted post record.
package generator

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/valtrilabs/postforge/internal/ai"
	"github.com/valtrilabs/postforge/internal/market"
	"github.com/valtrilabs/postforge/internal/model"
	"github.com/valtrilabs/postforge/internal/profile"
	"github.com/valtrilabs/postforge/internal/vectorstore"
)

// Retriever answers similarity queries over the knowledge base.
type Retriever interface {
	Search(ctx context.Context, query string, k int) ([]vectorstore.Result, error)
}

// Backend runs one normalized generation call.
type Backend interface {
	Generate(ctx context.Context, req ai.Request) (*ai.Response, error)
}

// QuoteFetcher supplies the optional live market snippet.
type QuoteFetcher interface {
	Quotes(ctx context.Context, assets []string) ([]market.Quote, error)
}

// Appender persists finished post records.
type Appender interface {
	Append(ctx context.Context, post *model.PostRecord) error
}

// Options tune one Generator instance.
type Options struct {
	Profile       profile.Profile
	TopK          int
	MaxTokens     int
	Temperature   float64
	MarketEnabled bool
	MarketAssets  []string
}

// Result is the outcome of one generation run. The post is always present on
// success; the flags report the best-effort stages that degraded without
// failing the run.
type Result struct {
	Post *model.PostRecord
	// RetrievalDegraded is set when similarity search failed and the prompt
	// went out without grounding context.
	RetrievalDegraded bool
	// AuditLogErr is set when the post could not be appended to the post log.
	// The returned post then exists only in memory.
	AuditLogErr error
}

// Generator wires retrieval, prompt composition, the generation backend, and
// post persistence into one sequential pipeline.
type Generator struct {
	retriever Retriever
	backend   Backend
	quotes    QuoteFetcher
	log       Appender
	opts      Options
}

func New(retriever Retriever, backend Backend, quotes QuoteFetcher, log Appender, opts Options) *Generator {
	if opts.TopK <= 0 {
		opts.TopK = 4
	}
	return &Generator{
		retriever: retriever,
		backend:   backend,
		quotes:    quotes,
		log:       log,
		opts:      opts,
	}
}

// Generate produces one post for the given theme, format, and retrieval
// query. Stages run strictly in sequence: retrieve, compose, generate,
// post-process, persist. Only a generation-backend failure is fatal.
func (g *Generator) Generate(ctx context.Context, theme, format, query string) (*Result, error) {
	logger := logutil.GetLogger(ctx).With(
		zap.String("request_id", uuid.NewString()),
		zap.String("theme", theme),
		zap.String("format", format),
	)
	res := &Result{}

	docs, err := g.retriever.Search(ctx, query, g.opts.TopK)
	if err != nil {
		logger.Warn("similarity search failed, generating without context", zap.Error(err))
		res.RetrievalDegraded = true
		docs = nil
	}

	snippet := g.marketSnippet(ctx, logger, theme, query)
	prompt := composePrompt(theme, format, docs, g.opts.Profile, snippet)
	logger.Debug("prompt composed", zap.Int("prompt_len", len(prompt)), zap.Int("context_chunks", len(docs)))

	resp, err := g.backend.Generate(ctx, ai.Request{
		Prompt:      prompt,
		MaxTokens:   g.opts.MaxTokens,
		Temperature: g.opts.Temperature,
	})
	if err != nil {
		return nil, err
	}

	content := CleanContent(resp.Text)
	post := &model.PostRecord{
		Theme:     theme,
		Format:    format,
		Query:     query,
		Content:   content,
		Hashtags:  ExtractHashtags(content),
		Provider:  resp.Provider,
		CreatedAt: model.Timestamp(time.Now()),
	}
	res.Post = post

	if err := g.log.Append(ctx, post); err != nil {
		// best-effort audit log: the caller still gets the post
		logger.Error("failed to persist post", zap.Error(err))
		res.AuditLogErr = err
	}
	logger.Info("post generated",
		zap.String("provider", post.Provider),
		zap.Int("content_len", len(post.Content)),
		zap.Int("hashtags", len(post.Hashtags)),
		zap.Bool("retrieval_degraded", res.RetrievalDegraded))
	return res, nil
}

// marketSnippet fetches the live-data block when the keyword gate and feature
// flag allow it. Any fetch failure silently omits the snippet.
func (g *Generator) marketSnippet(ctx context.Context, logger *zap.Logger, theme, query string) string {
	if !g.opts.MarketEnabled || g.quotes == nil {
		return ""
	}
	if !wantsMarketData(theme, query) {
		return ""
	}
	quotes, err := g.quotes.Quotes(ctx, g.opts.MarketAssets)
	if err != nil {
		logger.Warn("market data fetch failed, omitting snippet", zap.Error(err))
		return ""
	}
	return market.Snippet(quotes)
}
