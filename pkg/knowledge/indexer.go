package knowledge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/barekit/shopqa/pkg/catalog"
)

// IndexError reports the product whose embedding or upsert aborted a run.
type IndexError struct {
	ProductID int64
	Err       error
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("failed to index product %d: %v", e.ProductID, e.Err)
}

func (e *IndexError) Unwrap() error { return e.Err }

// ErrNotReady is returned when a newly created index does not become ready
// within the configured timeout.
var ErrNotReady = errors.New("index did not become ready")

// Report summarises an indexing run.
type Report struct {
	Indexed int
	Created bool
}

// Indexer turns catalog products into index entries.
type Indexer struct {
	Embedder     Embedder
	Index        VectorIndex
	Dimension    int
	PollInterval time.Duration
	ReadyTimeout time.Duration
	Logger       *slog.Logger
	// Progress, if set, is called after each product is upserted.
	Progress func(done, total int)
}

// IndexerOption is a function that configures an Indexer.
type IndexerOption func(*Indexer)

// NewIndexer creates a new Indexer.
func NewIndexer(embedder Embedder, index VectorIndex, opts ...IndexerOption) *Indexer {
	ix := &Indexer{
		Embedder:     embedder,
		Index:        index,
		Dimension:    Dimension,
		PollInterval: 5 * time.Second,
		ReadyTimeout: 2 * time.Minute,
		Logger:       slog.Default(),
	}

	for _, opt := range opts {
		opt(ix)
	}

	return ix
}

// WithDimension sets the expected vector length.
func WithDimension(d int) IndexerOption {
	return func(ix *Indexer) {
		ix.Dimension = d
	}
}

// WithReadyPolling sets how often and for how long a new index is polled.
func WithReadyPolling(interval, timeout time.Duration) IndexerOption {
	return func(ix *Indexer) {
		ix.PollInterval = interval
		ix.ReadyTimeout = timeout
	}
}

// WithProgress sets a callback that reports indexing progress.
func WithProgress(fn func(done, total int)) IndexerOption {
	return func(ix *Indexer) {
		ix.Progress = fn
	}
}

// WithIndexerLogger sets the logger.
func WithIndexerLogger(l *slog.Logger) IndexerOption {
	return func(ix *Indexer) {
		ix.Logger = l
	}
}

// EnsureIndex creates the index if it is missing and waits until the service
// reports it ready. It returns true when the index was created.
func (ix *Indexer) EnsureIndex(ctx context.Context) (bool, error) {
	exists, err := ix.Index.Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check index existence: %w", err)
	}
	if exists {
		return false, nil
	}

	spec := Spec{Dimension: ix.Dimension, Metric: MetricCosine}
	if err := ix.Index.Create(ctx, spec); err != nil {
		return false, fmt.Errorf("failed to create index: %w", err)
	}
	ix.Logger.Info("index created", "dimension", spec.Dimension, "metric", spec.Metric)

	if err := ix.waitReady(ctx); err != nil {
		return true, err
	}
	return true, nil
}

// The service is eventually consistent after creation.
func (ix *Indexer) waitReady(ctx context.Context) error {
	deadline := time.Now().Add(ix.ReadyTimeout)
	for {
		ready, err := ix.Index.Ready(ctx)
		if err != nil {
			return fmt.Errorf("failed to check index readiness: %w", err)
		}
		if ready {
			return nil
		}
		if time.Now().After(deadline) {
			return ErrNotReady
		}

		ix.Logger.Info("waiting for index to become ready", "poll_interval", ix.PollInterval)
		timer := time.NewTimer(ix.PollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Run indexes every product, one at a time and in order. The first failure
// aborts the batch; entries written before it stay in the index.
func (ix *Indexer) Run(ctx context.Context, products []catalog.Product) (Report, error) {
	var report Report

	created, err := ix.EnsureIndex(ctx)
	report.Created = created
	if err != nil {
		return report, err
	}

	for _, p := range products {
		if err := ix.indexOne(ctx, p); err != nil {
			ix.Logger.Error("indexing aborted", "product_id", p.ID, "indexed", report.Indexed, "error", err)
			return report, &IndexError{ProductID: p.ID, Err: err}
		}
		report.Indexed++
		if ix.Progress != nil {
			ix.Progress(report.Indexed, len(products))
		}
	}

	ix.Logger.Info("indexing completed", "indexed", report.Indexed)
	return report, nil
}

func (ix *Indexer) indexOne(ctx context.Context, p catalog.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}

	vectors, err := ix.Embedder.Embed(ctx, []string{p.Text()})
	if err != nil {
		return fmt.Errorf("failed to embed: %w", err)
	}
	if len(vectors) != 1 {
		return fmt.Errorf("embedder returned %d vectors for 1 text", len(vectors))
	}
	if len(vectors[0]) != ix.Dimension {
		return fmt.Errorf("embedding has dimension %d, want %d", len(vectors[0]), ix.Dimension)
	}

	entry := Entry{
		ID:       p.Key(),
		Vector:   vectors[0],
		Metadata: p.Metadata(),
	}
	if err := ix.Index.Upsert(ctx, []Entry{entry}); err != nil {
		return fmt.Errorf("failed to upsert: %w", err)
	}
	return nil
}
