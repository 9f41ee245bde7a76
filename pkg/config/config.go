package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for shopqa.
type Config struct {
	Log         LogConfig         `yaml:"log"`
	Server      ServerConfig      `yaml:"server"`
	Catalog     CatalogConfig     `yaml:"catalog"`
	Embedding   EmbeddingConfig   `yaml:"embedding"`
	Generation  GenerationConfig  `yaml:"generation"`
	VectorIndex VectorIndexConfig `yaml:"vector_index"`
	Retrieval   RetrievalConfig   `yaml:"retrieval"`
	Cache       CacheConfig       `yaml:"cache"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// CatalogConfig selects where products are read from.
type CatalogConfig struct {
	Type     string `yaml:"type"` // file, sqlite, postgres, mysql, mssql, mongo, neo4j
	Path     string `yaml:"path"`
	DSN      string `yaml:"dsn"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// EmbeddingConfig configures the OpenAI-compatible embeddings endpoint.
type EmbeddingConfig struct {
	BaseURL   string `yaml:"base_url"`
	APIKey    string `yaml:"api_key"`
	Model     string `yaml:"model"`
	Dimension int    `yaml:"dimension"`
}

// GenerationConfig configures the OpenAI-compatible chat endpoint.
type GenerationConfig struct {
	BaseURL     string  `yaml:"base_url"`
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// VectorIndexConfig selects and configures the vector index.
type VectorIndexConfig struct {
	Type         string        `yaml:"type"` // qdrant, postgres, inmemory
	Name         string        `yaml:"name"`
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	APIKey       string        `yaml:"api_key"`
	UseTLS       bool          `yaml:"use_tls"`
	DSN          string        `yaml:"dsn"`
	PollInterval time.Duration `yaml:"poll_interval"`
	ReadyTimeout time.Duration `yaml:"ready_timeout"`
}

// RetrievalConfig holds query-time retrieval settings.
type RetrievalConfig struct {
	TopK int `yaml:"top_k"`
}

// CacheConfig configures the optional answer cache.
type CacheConfig struct {
	Type string        `yaml:"type"` // none, inmemory, redis, bolt
	URL  string        `yaml:"url"`
	Path string        `yaml:"path"`
	TTL  time.Duration `yaml:"ttl"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Catalog: CatalogConfig{
			Type: "file",
			Path: "examples/catalog/products.yaml",
		},
		Embedding: EmbeddingConfig{
			BaseURL:   "https://api.deepinfra.com/v1/openai",
			Model:     "sentence-transformers/all-MiniLM-L6-v2",
			Dimension: 384,
		},
		Generation: GenerationConfig{
			BaseURL:     "https://api.deepinfra.com/v1/openai",
			Model:       "Qwen/Qwen2-7B-Instruct",
			Temperature: 0.7,
			MaxTokens:   500,
		},
		VectorIndex: VectorIndexConfig{
			Type:         "qdrant",
			Name:         "products",
			Host:         "localhost",
			Port:         6334,
			PollInterval: 5 * time.Second,
			ReadyTimeout: 2 * time.Minute,
		},
		Retrieval: RetrievalConfig{
			TopK: 3,
		},
		Cache: CacheConfig{
			Type: "none",
			Path: "shopqa-cache.db",
			TTL:  10 * time.Minute,
		},
	}
}

// Load reads a YAML file over the defaults and then applies environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	if c.Embedding.Dimension <= 0 {
		return fmt.Errorf("embedding.dimension must be positive")
	}
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("retrieval.top_k must be positive")
	}
	if c.VectorIndex.Name == "" {
		return fmt.Errorf("vector_index.name is required")
	}
	return nil
}

type lookupFunc func(key string) (string, bool)

func applyEnv(cfg *Config, lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	// DEEPINFRA_API_KEY serves both endpoints unless a specific key is set.
	str("DEEPINFRA_API_KEY", &cfg.Embedding.APIKey)
	str("DEEPINFRA_API_KEY", &cfg.Generation.APIKey)
	str("EMBEDDING_API_KEY", &cfg.Embedding.APIKey)
	str("GENERATION_API_KEY", &cfg.Generation.APIKey)

	str("LOG_LEVEL", &cfg.Log.Level)
	str("SHOPQA_ADDR", &cfg.Server.Addr)

	str("CATALOG_TYPE", &cfg.Catalog.Type)
	str("CATALOG_PATH", &cfg.Catalog.Path)
	str("CATALOG_DSN", &cfg.Catalog.DSN)

	str("VECTOR_STORE", &cfg.VectorIndex.Type)
	str("QDRANT_HOST", &cfg.VectorIndex.Host)
	str("QDRANT_API_KEY", &cfg.VectorIndex.APIKey)
	str("POSTGRES_DSN", &cfg.VectorIndex.DSN)
	if v, ok := lookup("QDRANT_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid QDRANT_PORT %q: %w", v, err)
		}
		cfg.VectorIndex.Port = port
	}

	str("CACHE_TYPE", &cfg.Cache.Type)
	str("REDIS_URL", &cfg.Cache.URL)
	str("CACHE_PATH", &cfg.Cache.Path)
	return nil
}
