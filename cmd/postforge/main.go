package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/valtrilabs/postforge/internal/ai"
	"github.com/valtrilabs/postforge/internal/config"
	"github.com/valtrilabs/postforge/internal/corpus"
	"github.com/valtrilabs/postforge/internal/embedcache"
	"github.com/valtrilabs/postforge/internal/generator"
	"github.com/valtrilabs/postforge/internal/job"
	"github.com/valtrilabs/postforge/internal/market"
	"github.com/valtrilabs/postforge/internal/postlog"
	"github.com/valtrilabs/postforge/internal/profile"
	"github.com/valtrilabs/postforge/internal/publisher"
	"github.com/valtrilabs/postforge/internal/schedule"
	"github.com/valtrilabs/postforge/internal/vectorstore"
)

func main() {
	var configPath string
	var theme, format, query string

	rootCmd := &cobra.Command{
		Use:   "postforge",
		Short: "postforge post generation pipeline",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.json")

	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "index the document corpus into the vector store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(configPath)
			if err != nil {
				return err
			}
			return runBuild(cmd.Context(), cfg)
		},
	}

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "generate a single post and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(configPath)
			if err != nil {
				return err
			}
			return runGenerate(cmd.Context(), cfg, theme, format, query)
		},
	}
	generateCmd.Flags().StringVar(&theme, "theme", "", "post theme (default: random profile theme)")
	generateCmd.Flags().StringVar(&format, "format", "", "post format (default: random)")
	generateCmd.Flags().StringVar(&query, "query", "", "retrieval query (default: derived from theme)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the daily posting scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(configPath)
			if err != nil {
				return err
			}
			return runScheduler(cfg)
		},
	}

	rootCmd.AddCommand(buildCmd, generateCmd, runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func setup(configPath string) (*config.Config, error) {
	if configPath == "" {
		return nil, fmt.Errorf("--config is required")
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger.Init(
		cfg.LogConfig.File,
		cfg.LogConfig.Level,
		int(cfg.LogConfig.FileCount),
		int(cfg.LogConfig.FileSize),
		int(cfg.LogConfig.KeepDays),
		cfg.LogConfig.Console,
	)
	logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))
	return cfg, nil
}

func newEncoder(cfg *config.Config) (vectorstore.Encoder, error) {
	if cfg.VectorStore.Encoder == "gemini" {
		return vectorstore.NewGeminiEncoder(
			cfg.AI.Providers["gemini"].APIKey,
			cfg.VectorStore.EmbedModel,
			cfg.VectorStore.Dimensions,
		)
	}
	return vectorstore.NewHashingEncoder(cfg.VectorStore.Dimensions)
}

func openStore(cfg *config.Config) (*vectorstore.Store, error) {
	enc, err := newEncoder(cfg)
	if err != nil {
		return nil, err
	}
	cached := embedcache.Wrap(enc, cfg.VectorStore.CacheSize,
		time.Duration(cfg.VectorStore.CacheTTLMinutes)*time.Minute)
	return vectorstore.Open(cfg.VectorStore.Dir, cfg.VectorStore.Collection, cached)
}

func runBuild(ctx context.Context, cfg *config.Config) error {
	logger := logutil.GetLogger(ctx)

	docs, err := corpus.NewLoader(cfg.CorpusDir).Load(ctx)
	if err != nil {
		return fmt.Errorf("load corpus: %w", err)
	}
	chunker, err := corpus.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open vector store: %w", err)
	}
	defer store.Close()

	total := 0
	for _, doc := range docs {
		chunks := chunker.Chunk(doc.Source, doc.Text)
		total += store.BuildFromChunks(ctx, chunks)
	}
	if err := store.Persist(ctx); err != nil {
		return fmt.Errorf("persist vector store: %w", err)
	}
	count, err := store.Count(ctx)
	if err != nil {
		return err
	}
	logger.Info("index built",
		zap.Int("documents", len(docs)),
		zap.Int("chunks_indexed", total),
		zap.Int("store_size", count))
	return nil
}

func newGenerator(cfg *config.Config, store *vectorstore.Store, prof profile.Profile) *generator.Generator {
	backend := ai.NewAdapter(cfg.AI)
	quotes := market.NewClient(cfg.MarketData.BaseURL,
		time.Duration(cfg.MarketData.TimeoutSeconds)*time.Second)
	log := postlog.New(cfg.PostLogPath)
	return generator.New(store, backend, quotes, log, generator.Options{
		Profile:       prof,
		TopK:          cfg.VectorStore.TopK,
		MaxTokens:     cfg.AI.MaxTokens,
		Temperature:   cfg.AI.Temperature,
		MarketEnabled: cfg.MarketData.Enabled,
		MarketAssets:  cfg.MarketData.Assets,
	})
}

func runGenerate(ctx context.Context, cfg *config.Config, theme, format, query string) error {
	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open vector store: %w", err)
	}
	defer store.Close()

	prof := profile.Get(cfg.Profile)
	if theme == "" && len(prof.Themes) > 0 {
		theme = prof.Themes[0]
	}
	if format == "" {
		format = profile.Formats[0]
	}
	if query == "" {
		query = theme
	}

	gen := newGenerator(cfg, store, prof)
	res, err := gen.Generate(ctx, theme, format, query)
	if err != nil {
		return err
	}
	if res.RetrievalDegraded {
		logutil.GetLogger(ctx).Warn("post generated without retrieval context")
	}
	if res.AuditLogErr != nil {
		logutil.GetLogger(ctx).Warn("post log write failed", zap.Error(res.AuditLogErr))
	}
	fmt.Println(res.Post.Content)
	return nil
}

func runScheduler(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open vector store: %w", err)
	}
	defer store.Close()

	prof := profile.Get(cfg.Profile)
	gen := newGenerator(cfg, store, prof)
	pub := publisher.NewLinkedIn(cfg.LinkedIn.AccessToken, cfg.LinkedIn.AuthorURN, cfg.LinkedIn.TestMode)

	sched := schedule.NewScheduler()
	if err := sched.AddJob(job.NewDailyPostJob(gen, pub, prof), cfg.Schedule.Spec); err != nil {
		return err
	}
	sched.Start(ctx)
	logutil.GetLogger(ctx).Info("scheduler running",
		zap.String("spec", cfg.Schedule.Spec),
		zap.Bool("test_mode", cfg.LinkedIn.TestMode))

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("shutting down")
	sched.Stop()
	return nil
}
