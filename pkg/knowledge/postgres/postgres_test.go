package postgres

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/barekit/shopqa/pkg/catalog"
	"github.com/barekit/shopqa/pkg/knowledge"
	"github.com/joho/godotenv"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func TestOperatorsFor(t *testing.T) {
	tests := []struct {
		metric   knowledge.Metric
		distance string
		opclass  string
	}{
		{knowledge.MetricCosine, "<=>", "vector_cosine_ops"},
		{"", "<=>", "vector_cosine_ops"},
		{knowledge.MetricDotProduct, "<#>", "vector_ip_ops"},
		{knowledge.MetricEuclidean, "<->", "vector_l2_ops"},
	}
	for _, tt := range tests {
		ops, err := operatorsFor(tt.metric)
		if err != nil {
			t.Fatalf("operatorsFor(%q) failed: %v", tt.metric, err)
		}
		if ops.distance != tt.distance || ops.opclass != tt.opclass {
			t.Errorf("operatorsFor(%q) = %+v", tt.metric, ops)
		}
	}

	if _, err := operatorsFor("hamming"); err == nil {
		t.Error("Expected error for unsupported metric")
	}
}

func TestExists_ReportsConnectionFailure(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "closed.db")), &gorm.Config{})
	if err != nil {
		if strings.Contains(err.Error(), "cgo") {
			t.Skip("Skipping sqlite-backed test: built without cgo")
		}
		t.Fatalf("Failed to open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get handle: %v", err)
	}
	_ = sqlDB.Close()

	idx := NewWithDB(db, "products", knowledge.MetricCosine)
	exists, err := idx.Exists(context.Background())
	if err == nil {
		t.Fatal("Expected error for closed database")
	}
	if exists {
		t.Error("Expected exists to be false on error")
	}
}

func TestPostgresIndex_Integration(t *testing.T) {
	_ = godotenv.Load("../../../.env")
	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		t.Skip("Skipping pgvector integration test: POSTGRES_DSN not set")
	}

	ctx := context.Background()
	table := fmt.Sprintf("shopqa_test_%d", time.Now().UnixNano())
	idx, err := New(dsn, table, knowledge.MetricCosine)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer func() {
		_ = idx.db.Exec("DROP TABLE IF EXISTS ?", clause.Table{Name: table}).Error
		_ = idx.Close()
	}()

	exists, err := idx.Exists(ctx)
	if err != nil || exists {
		t.Fatalf("Expected fresh table to be missing, got exists=%v err=%v", exists, err)
	}
	if err := idx.Create(ctx, knowledge.Spec{Dimension: 3, Metric: knowledge.MetricCosine}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	ready, err := idx.Ready(ctx)
	if err != nil || !ready {
		t.Fatalf("Expected ready after create, got ready=%v err=%v", ready, err)
	}

	runIndexRoundTrip(t, idx)
}

// runIndexRoundTrip upserts two entries, overwrites one and checks the query
// order, scores and metadata.
func runIndexRoundTrip(t *testing.T, idx knowledge.VectorIndex) {
	t.Helper()
	ctx := context.Background()

	err := idx.Upsert(ctx, []knowledge.Entry{
		{ID: "1", Vector: []float32{1, 0, 0}, Metadata: map[string]string{catalog.KeyName: "T-Shirt", catalog.KeyPrice: "8999", catalog.KeyStock: "5"}},
		{ID: "2", Vector: []float32{0, 1, 0}, Metadata: map[string]string{catalog.KeyName: "Mug", catalog.KeyPrice: "1200", catalog.KeyStock: "0"}},
	})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	err = idx.Upsert(ctx, []knowledge.Entry{
		{ID: "2", Vector: []float32{0.8, 0.6, 0}, Metadata: map[string]string{catalog.KeyName: "Mug", catalog.KeyPrice: "1500", catalog.KeyStock: "3"}},
	})
	if err != nil {
		t.Fatalf("Re-upsert failed: %v", err)
	}

	matches, err := idx.Query(ctx, []float32{1, 0, 0}, 3)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("Expected 2 matches, got %d", len(matches))
	}
	if matches[0].ID != "1" || matches[1].ID != "2" {
		t.Errorf("Expected order [1 2], got [%s %s]", matches[0].ID, matches[1].ID)
	}
	if math.Abs(float64(matches[0].Score)-1) > 1e-3 || math.Abs(float64(matches[1].Score)-0.8) > 1e-3 {
		t.Errorf("Unexpected scores: %v, %v", matches[0].Score, matches[1].Score)
	}
	if matches[1].Metadata[catalog.KeyPrice] != "1500" || matches[1].Metadata[catalog.KeyStock] != "3" {
		t.Errorf("Expected overwritten metadata, got %v", matches[1].Metadata)
	}
	if matches[0].Metadata[catalog.KeyName] != "T-Shirt" {
		t.Errorf("Unexpected metadata: %v", matches[0].Metadata)
	}

	top, err := idx.Query(ctx, []float32{1, 0, 0}, 1)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(top) != 1 || top[0].ID != "1" {
		t.Errorf("Expected only entry 1, got %+v", top)
	}
}
