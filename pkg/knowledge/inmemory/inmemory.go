package inmemory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/barekit/shopqa/pkg/knowledge"
)

// ErrNotCreated is returned by writes and queries before Create.
var ErrNotCreated = errors.New("index has not been created")

// InMemory implements knowledge.VectorIndex with brute-force cosine
// similarity. It is meant for tests and local runs.
type InMemory struct {
	mu        sync.RWMutex
	created   bool
	dimension int
	entries   map[string]knowledge.Entry
}

// New creates an empty, not yet created index.
func New() *InMemory {
	return &InMemory{
		entries: make(map[string]knowledge.Entry),
	}
}

func (m *InMemory) Exists(ctx context.Context) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.created, nil
}

func (m *InMemory) Create(ctx context.Context, spec knowledge.Spec) error {
	if spec.Dimension <= 0 {
		return fmt.Errorf("invalid dimension %d", spec.Dimension)
	}
	if spec.Metric != "" && spec.Metric != knowledge.MetricCosine {
		return fmt.Errorf("unsupported metric: %s", spec.Metric)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = true
	m.dimension = spec.Dimension
	return nil
}

func (m *InMemory) Ready(ctx context.Context) (bool, error) {
	return m.Exists(ctx)
}

func (m *InMemory) Upsert(ctx context.Context, entries []knowledge.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.created {
		return ErrNotCreated
	}
	for _, e := range entries {
		if len(e.Vector) != m.dimension {
			return fmt.Errorf("entry %s has dimension %d, want %d", e.ID, len(e.Vector), m.dimension)
		}
	}
	for _, e := range entries {
		m.entries[e.ID] = copyEntry(e)
	}
	return nil
}

// Query ranks every entry by cosine similarity. Ties are broken by id.
func (m *InMemory) Query(ctx context.Context, vector []float32, topK int) ([]knowledge.Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.created {
		return nil, ErrNotCreated
	}
	if len(vector) != m.dimension {
		return nil, fmt.Errorf("query has dimension %d, want %d", len(vector), m.dimension)
	}

	matches := make([]knowledge.Match, 0, len(m.entries))
	for id, e := range m.entries {
		matches = append(matches, knowledge.Match{
			ID:       id,
			Score:    cosine(vector, e.Vector),
			Metadata: copyMetadata(e.Metadata),
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].ID < matches[j].ID
	})

	if topK >= 0 && topK < len(matches) {
		matches = matches[:topK]
	}
	return matches, nil
}

// Entries returns a snapshot of every stored entry keyed by id.
func (m *InMemory) Entries() map[string]knowledge.Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]knowledge.Entry, len(m.entries))
	for id, e := range m.entries {
		out[id] = copyEntry(e)
	}
	return out
}

func cosine(a, b []float32) float32 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}

func copyEntry(e knowledge.Entry) knowledge.Entry {
	vec := make([]float32, len(e.Vector))
	copy(vec, e.Vector)
	return knowledge.Entry{ID: e.ID, Vector: vec, Metadata: copyMetadata(e.Metadata)}
}

func copyMetadata(md map[string]string) map[string]string {
	out := make(map[string]string, len(md))
	for k, v := range md {
		out[k] = v
	}
	return out
}
