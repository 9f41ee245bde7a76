package knowledge

import (
	"context"
)

// Dimension is the embedding size of the deployed model
// (sentence-transformers/all-MiniLM-L6-v2).
const Dimension = 384

// Metric is the similarity function an index is built with.
type Metric string

const (
	MetricCosine     Metric = "cosine"
	MetricDotProduct Metric = "dotproduct"
	MetricEuclidean  Metric = "euclidean"
)

// Spec describes an index to create.
type Spec struct {
	Dimension int
	Metric    Metric
}

// Entry is a vector stored in the index, keyed by the product id.
type Entry struct {
	ID       string            `json:"id"`
	Vector   []float32         `json:"vector"`
	Metadata map[string]string `json:"metadata"`
}

// Match is a single hit of a similarity query. Higher scores are closer.
type Match struct {
	ID       string            `json:"id"`
	Score    float32           `json:"score"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Embedder is the interface for generating embeddings.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorIndex is the interface for a nearest-neighbour index over entries.
type VectorIndex interface {
	// Exists reports whether the index has been created.
	Exists(ctx context.Context) (bool, error)
	// Create creates the index. Callers check Exists first.
	Create(ctx context.Context, spec Spec) error
	// Ready reports whether a freshly created index accepts writes.
	Ready(ctx context.Context) (bool, error)
	// Upsert inserts or overwrites entries by id.
	Upsert(ctx context.Context, entries []Entry) error
	// Query returns up to topK entries ordered by descending score,
	// metadata included.
	Query(ctx context.Context, vector []float32, topK int) ([]Match, error)
}
