package setup

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/barekit/shopqa/pkg/config"
)

func TestNewCache(t *testing.T) {
	ctx := context.Background()

	c, err := NewCache(ctx, config.CacheConfig{Type: "none"})
	if err != nil || c != nil {
		t.Errorf("Expected no cache, got %v (%v)", c, err)
	}

	c, err = NewCache(ctx, config.CacheConfig{Type: "inmemory"})
	if err != nil || c == nil {
		t.Errorf("Expected in-memory cache, got %v (%v)", c, err)
	}

	c, err = NewCache(ctx, config.CacheConfig{Type: "bolt", Path: filepath.Join(t.TempDir(), "answers.db")})
	if err != nil || c == nil {
		t.Fatalf("Expected bolt cache, got %v (%v)", c, err)
	}
	if closer, ok := c.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	if _, err := NewCache(ctx, config.CacheConfig{Type: "memcached"}); err == nil {
		t.Error("Expected error for unsupported cache type")
	}
	if _, err := NewCache(ctx, config.CacheConfig{Type: "redis", URL: "://bad"}); err == nil {
		t.Error("Expected error for invalid redis url")
	}
}

func TestNewVectorIndex(t *testing.T) {
	idx, err := NewVectorIndex(config.VectorIndexConfig{Type: "inmemory", Name: "products"})
	if err != nil || idx == nil {
		t.Fatalf("Expected in-memory index, got %v (%v)", idx, err)
	}

	if _, err := NewVectorIndex(config.VectorIndexConfig{Type: "pinecone"}); err == nil {
		t.Error("Expected error for unsupported index type")
	}
}

func TestNewCatalog(t *testing.T) {
	ctx := context.Background()

	src, err := NewCatalog(ctx, config.CatalogConfig{Type: "file", Path: "../../examples/catalog/products.yaml"})
	if err != nil {
		t.Fatalf("Expected file catalog, got %v", err)
	}
	products, err := src.Products(ctx)
	if err != nil || len(products) == 0 {
		t.Errorf("Expected products, got %d (%v)", len(products), err)
	}

	if _, err := NewCatalog(ctx, config.CatalogConfig{Type: "csv"}); err == nil {
		t.Error("Expected error for unsupported catalog type")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.LogConfig{Level: "warn", Format: "json"}, &buf)

	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("Expected info to be filtered at warn level")
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"key":"value"`) {
		t.Errorf("Expected JSON log line, got %q", out)
	}
}
