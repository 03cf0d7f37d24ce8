package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	LogConfig    logger.LogConfig  `json:"log_config"`
	CorpusDir    string            `json:"corpus_dir"`
	ChunkSize    int               `json:"chunk_size"`
	ChunkOverlap int               `json:"chunk_overlap"`
	VectorStore  VectorStoreConfig `json:"vector_store"`
	AI           AIConfig          `json:"ai"`
	MarketData   MarketDataConfig  `json:"market_data"`
	PostLogPath  string            `json:"post_log_path"`
	Profile      string            `json:"profile"`
	Schedule     ScheduleConfig    `json:"schedule"`
	LinkedIn     LinkedInConfig    `json:"linkedin"`
}

type VectorStoreConfig struct {
	Dir             string `json:"dir"`
	Collection      string `json:"collection"`
	Encoder         string `json:"encoder"`
	EmbedModel      string `json:"embed_model"`
	Dimensions      int    `json:"dimensions"`
	TopK            int    `json:"top_k"`
	CacheSize       int    `json:"cache_size"`
	CacheTTLMinutes int    `json:"cache_ttl_minutes"`
}

type AIConfig struct {
	Provider       string                    `json:"provider"`
	Fallback       string                    `json:"fallback"`
	MaxTokens      int                       `json:"max_tokens"`
	Temperature    float64                   `json:"temperature"`
	TimeoutSeconds int                       `json:"timeout_seconds"`
	Providers      map[string]ProviderConfig `json:"providers"`
}

type ProviderConfig struct {
	APIKey  string `json:"api_key"`
	Model   string `json:"model"`
	BaseURL string `json:"base_url"`
}

type MarketDataConfig struct {
	Enabled        bool     `json:"enabled"`
	BaseURL        string   `json:"base_url"`
	Assets         []string `json:"assets"`
	TimeoutSeconds int      `json:"timeout_seconds"`
}

type ScheduleConfig struct {
	Spec string `json:"spec"`
}

type LinkedInConfig struct {
	AccessToken string `json:"access_token"`
	AuthorURN   string `json:"author_urn"`
	TestMode    bool   `json:"test_mode"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) applyDefaults() error {
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.CorpusDir == "" {
		cfg.CorpusDir = "data/corpus"
	}
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = 1000
	}
	if cfg.ChunkOverlap == 0 {
		cfg.ChunkOverlap = 200
	}
	if cfg.ChunkOverlap >= cfg.ChunkSize {
		return fmt.Errorf("chunk_overlap %d must be smaller than chunk_size %d", cfg.ChunkOverlap, cfg.ChunkSize)
	}
	if cfg.ChunkOverlap < 0 {
		return fmt.Errorf("chunk_overlap must not be negative")
	}
	if cfg.VectorStore.Dir == "" {
		cfg.VectorStore.Dir = "data/vectors"
	}
	if cfg.VectorStore.Collection == "" {
		cfg.VectorStore.Collection = "valtrilabs"
	}
	if cfg.VectorStore.Encoder == "" {
		cfg.VectorStore.Encoder = "hash"
	}
	if cfg.VectorStore.Encoder != "hash" && cfg.VectorStore.Encoder != "gemini" {
		return fmt.Errorf("vector_store.encoder %q must be hash or gemini", cfg.VectorStore.Encoder)
	}
	if cfg.VectorStore.Dimensions == 0 {
		cfg.VectorStore.Dimensions = 384
	}
	if cfg.VectorStore.TopK == 0 {
		cfg.VectorStore.TopK = 4
	}
	if cfg.VectorStore.CacheSize == 0 {
		cfg.VectorStore.CacheSize = 4096
	}
	if cfg.VectorStore.CacheTTLMinutes == 0 {
		cfg.VectorStore.CacheTTLMinutes = 120
	}
	if cfg.AI.Provider == "" {
		cfg.AI.Provider = "gemini"
	}
	if cfg.AI.Fallback == "" {
		cfg.AI.Fallback = "gemini"
	}
	if cfg.AI.MaxTokens == 0 {
		cfg.AI.MaxTokens = 600
	}
	if cfg.AI.Temperature == 0 {
		cfg.AI.Temperature = 0.2
	}
	if cfg.AI.Temperature < 0 || cfg.AI.Temperature > 1 {
		return fmt.Errorf("ai.temperature %v must be within [0,1]", cfg.AI.Temperature)
	}
	if cfg.AI.TimeoutSeconds == 0 {
		cfg.AI.TimeoutSeconds = 120
	}
	if cfg.MarketData.BaseURL == "" {
		cfg.MarketData.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if len(cfg.MarketData.Assets) == 0 {
		cfg.MarketData.Assets = []string{"bitcoin", "ethereum"}
	}
	if cfg.MarketData.TimeoutSeconds == 0 {
		cfg.MarketData.TimeoutSeconds = 10
	}
	if cfg.PostLogPath == "" {
		cfg.PostLogPath = "data/posts.json"
	}
	if cfg.Profile == "" {
		cfg.Profile = "valtrilabs"
	}
	if cfg.Schedule.Spec == "" {
		// daily at 11:00
		cfg.Schedule.Spec = "0 11 * * *"
	}
	return nil
}
