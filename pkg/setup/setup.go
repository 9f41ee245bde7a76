package setup

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/barekit/shopqa/pkg/cache"
	cachebolt "github.com/barekit/shopqa/pkg/cache/bolt"
	cacheinmemory "github.com/barekit/shopqa/pkg/cache/inmemory"
	cacheredis "github.com/barekit/shopqa/pkg/cache/redis"
	"github.com/barekit/shopqa/pkg/catalog"
	"github.com/barekit/shopqa/pkg/catalog/consts"
	"github.com/barekit/shopqa/pkg/catalog/file"
	mongocat "github.com/barekit/shopqa/pkg/catalog/mongo"
	"github.com/barekit/shopqa/pkg/catalog/mssql"
	"github.com/barekit/shopqa/pkg/catalog/mysql"
	"github.com/barekit/shopqa/pkg/catalog/neo4j"
	pgcat "github.com/barekit/shopqa/pkg/catalog/postgres"
	"github.com/barekit/shopqa/pkg/catalog/sqlite"
	"github.com/barekit/shopqa/pkg/config"
	"github.com/barekit/shopqa/pkg/knowledge"
	knowledgeinmemory "github.com/barekit/shopqa/pkg/knowledge/inmemory"
	embedopenai "github.com/barekit/shopqa/pkg/knowledge/openai"
	pgvec "github.com/barekit/shopqa/pkg/knowledge/postgres"
	"github.com/barekit/shopqa/pkg/knowledge/qdrant"
	"github.com/barekit/shopqa/pkg/llm"
	llmopenai "github.com/barekit/shopqa/pkg/llm/openai"
	"github.com/openai/openai-go/option"
	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CatalogType string

const (
	CatalogFile     CatalogType = "file"
	CatalogSQLite   CatalogType = "sqlite"
	CatalogPostgres CatalogType = "postgres"
	CatalogMySQL    CatalogType = "mysql"
	CatalogMSSQL    CatalogType = "mssql"
	CatalogMongo    CatalogType = "mongo"
	CatalogNeo4j    CatalogType = "neo4j"
)

type IndexType string

const (
	IndexQdrant   IndexType = "qdrant"
	IndexPostgres IndexType = "postgres"
	IndexInMemory IndexType = "inmemory"
)

type CacheType string

const (
	CacheNone     CacheType = "none"
	CacheInMemory CacheType = "inmemory"
	CacheRedis    CacheType = "redis"
	CacheBolt     CacheType = "bolt"
)

// NewLogger builds the process logger and installs it as the slog default.
func NewLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// NewCatalog creates a catalog source based on the configuration.
func NewCatalog(ctx context.Context, cfg config.CatalogConfig) (catalog.Source, error) {
	switch CatalogType(cfg.Type) {
	case CatalogFile:
		return file.Load(cfg.Path)

	case CatalogSQLite:
		return sqlite.New(cfg.DSN)

	case CatalogPostgres:
		return pgcat.New(cfg.DSN)

	case CatalogMySQL:
		return mysql.New(cfg.DSN)

	case CatalogMSSQL:
		return mssql.New(cfg.DSN)

	case CatalogMongo:
		opts := options.Client().ApplyURI(cfg.DSN)
		client, err := mongo.Connect(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		if err := client.Ping(ctx, nil); err != nil {
			return nil, fmt.Errorf("failed to ping mongo: %w", err)
		}
		dbName := consts.DefaultDBName
		if cfg.Database != "" {
			dbName = cfg.Database
		}
		return mongocat.New(client, dbName, consts.TableNameProducts), nil

	case CatalogNeo4j:
		dbName := "neo4j" // Default Neo4j DB is typically "neo4j"
		if cfg.Database != "" {
			dbName = cfg.Database
		}
		return neo4j.New(cfg.DSN, cfg.Username, cfg.Password, dbName)

	default:
		return nil, fmt.Errorf("unsupported catalog type: %s", cfg.Type)
	}
}

// NewEmbedder creates the embeddings client.
func NewEmbedder(cfg config.EmbeddingConfig) knowledge.Embedder {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	embedder := embedopenai.NewEmbedder(opts...)
	if cfg.Model != "" {
		embedder.SetModel(cfg.Model)
	}
	return embedder
}

// NewProvider creates the chat completion client.
func NewProvider(cfg config.GenerationConfig) llm.Provider {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	provider := llmopenai.New(opts...)
	if cfg.Model != "" {
		provider.SetModel(cfg.Model)
	}
	return provider
}

// NewVectorIndex creates the vector index client.
func NewVectorIndex(cfg config.VectorIndexConfig) (knowledge.VectorIndex, error) {
	switch IndexType(cfg.Type) {
	case IndexQdrant:
		return qdrant.New(qdrant.Config{
			Host:           cfg.Host,
			Port:           cfg.Port,
			APIKey:         cfg.APIKey,
			UseTLS:         cfg.UseTLS,
			CollectionName: cfg.Name,
		})

	case IndexPostgres:
		return pgvec.New(cfg.DSN, cfg.Name, knowledge.MetricCosine)

	case IndexInMemory:
		return knowledgeinmemory.New(), nil

	default:
		return nil, fmt.Errorf("unsupported vector index type: %s", cfg.Type)
	}
}

// NewCache creates the answer cache. It returns nil when caching is disabled.
func NewCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, error) {
	switch CacheType(cfg.Type) {
	case CacheNone, "":
		return nil, nil

	case CacheInMemory:
		return cacheinmemory.New(cfg.TTL), nil

	case CacheRedis:
		opts, err := goredis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse redis url: %w", err)
		}
		client := goredis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		return cacheredis.New(client, cfg.TTL), nil

	case CacheBolt:
		return cachebolt.New(cfg.Path, cfg.TTL)

	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cfg.Type)
	}
}
