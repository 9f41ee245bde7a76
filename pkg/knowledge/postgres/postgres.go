package postgres

import (
	"context"
	"fmt"

	"github.com/barekit/shopqa/pkg/catalog"
	"github.com/barekit/shopqa/pkg/knowledge"
	"github.com/pgvector/pgvector-go"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostgresIndex implements knowledge.VectorIndex using pgvector.
type PostgresIndex struct {
	db     *gorm.DB
	table  string
	metric knowledge.Metric
}

// EntryModel represents the database schema for an index entry. Metadata
// columns are text to match the stringified payload of other backends.
type EntryModel struct {
	ID          string `gorm:"primaryKey"`
	Name        string
	Description string
	Category    string
	Price       string
	Stock       string
	Embedding   pgvector.Vector
}

type scoredRow struct {
	ID          string
	Name        string
	Description string
	Category    string
	Price       string
	Stock       string
	Score       float32
}

// New creates a new PostgresIndex backed by table.
func New(dsn, table string, metric knowledge.Metric) (*PostgresIndex, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return NewWithDB(db, table, metric), nil
}

// NewWithDB wraps an existing connection.
func NewWithDB(db *gorm.DB, table string, metric knowledge.Metric) *PostgresIndex {
	if metric == "" {
		metric = knowledge.MetricCosine
	}
	return &PostgresIndex{db: db, table: table, metric: metric}
}

// Exists pings first so an unreachable database is reported as an error
// rather than as a missing table.
func (s *PostgresIndex) Exists(ctx context.Context) (bool, error) {
	sqlDB, err := s.db.DB()
	if err != nil {
		return false, fmt.Errorf("failed to get database handle: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return false, fmt.Errorf("failed to ping database: %w", err)
	}
	return s.db.WithContext(ctx).Migrator().HasTable(s.table), nil
}

func (s *PostgresIndex) Create(ctx context.Context, spec knowledge.Spec) error {
	ops, err := operatorsFor(spec.Metric)
	if err != nil {
		return err
	}
	s.metric = spec.Metric

	db := s.db.WithContext(ctx)

	// Enable pgvector extension
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return fmt.Errorf("failed to enable pgvector extension: %w", err)
	}

	createTable := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS ? (
		id text PRIMARY KEY,
		name text,
		description text,
		category text,
		price text,
		stock text,
		embedding vector(%d)
	)`, spec.Dimension)
	if err := db.Exec(createTable, clause.Table{Name: s.table}).Error; err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	createIndex := fmt.Sprintf("CREATE INDEX IF NOT EXISTS ? ON ? USING hnsw (embedding %s)", ops.opclass)
	if err := db.Exec(createIndex, clause.Table{Name: s.table + "_embedding_idx"}, clause.Table{Name: s.table}).Error; err != nil {
		return fmt.Errorf("failed to create vector index: %w", err)
	}
	return nil
}

// Ready is true as soon as the table exists; Postgres DDL is transactional.
func (s *PostgresIndex) Ready(ctx context.Context) (bool, error) {
	return s.Exists(ctx)
}

func (s *PostgresIndex) Upsert(ctx context.Context, entries []knowledge.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	models := make([]EntryModel, len(entries))
	for i, e := range entries {
		models[i] = EntryModel{
			ID:          e.ID,
			Name:        e.Metadata[catalog.KeyName],
			Description: e.Metadata[catalog.KeyDescription],
			Category:    e.Metadata[catalog.KeyCategory],
			Price:       e.Metadata[catalog.KeyPrice],
			Stock:       e.Metadata[catalog.KeyStock],
			Embedding:   pgvector.NewVector(e.Vector),
		}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Table(s.table).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "description", "category", "price", "stock", "embedding"}),
		}).Create(&models).Error
	})
}

func (s *PostgresIndex) Query(ctx context.Context, vector []float32, topK int) ([]knowledge.Match, error) {
	ops, err := operatorsFor(s.metric)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		"SELECT id, name, description, category, price, stock, %s AS score FROM ? ORDER BY embedding %s ? LIMIT ?",
		ops.score, ops.distance)
	vec := pgvector.NewVector(vector)

	var rows []scoredRow
	if err := s.db.WithContext(ctx).Raw(query, vec, clause.Table{Name: s.table}, vec, topK).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}

	matches := make([]knowledge.Match, len(rows))
	for i, r := range rows {
		matches[i] = knowledge.Match{
			ID:    r.ID,
			Score: r.Score,
			Metadata: map[string]string{
				catalog.KeyName:        r.Name,
				catalog.KeyDescription: r.Description,
				catalog.KeyCategory:    r.Category,
				catalog.KeyPrice:       r.Price,
				catalog.KeyStock:       r.Stock,
			},
		}
	}
	return matches, nil
}

type operators struct {
	distance string // ORDER BY operator, ascending distance
	score    string // similarity expression, higher is closer
	opclass  string
}

func operatorsFor(m knowledge.Metric) (operators, error) {
	switch m {
	case knowledge.MetricCosine, "":
		return operators{distance: "<=>", score: "1 - (embedding <=> ?)", opclass: "vector_cosine_ops"}, nil
	case knowledge.MetricDotProduct:
		// <#> returns the negative inner product
		return operators{distance: "<#>", score: "(embedding <#> ?) * -1", opclass: "vector_ip_ops"}, nil
	case knowledge.MetricEuclidean:
		return operators{distance: "<->", score: "-(embedding <-> ?)", opclass: "vector_l2_ops"}, nil
	default:
		return operators{}, fmt.Errorf("unsupported metric: %s", m)
	}
}

// Close releases the underlying connection pool.
func (s *PostgresIndex) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
