package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/barekit/shopqa/pkg/cache"
	"github.com/barekit/shopqa/pkg/knowledge"
	"github.com/barekit/shopqa/pkg/llm"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/barekit/shopqa/assistant")

const (
	DefaultTopK        = 3
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 500
)

// Exchange is the outcome of a single question. It is never persisted.
type Exchange struct {
	Question string
	Context  string
	Answer   string
	Matches  []knowledge.Match
	Cached   bool
}

// Assistant answers customer questions from the product index.
// It keeps no per-request state and is safe for concurrent use.
type Assistant struct {
	Embedder     knowledge.Embedder
	Index        knowledge.VectorIndex
	LLM          llm.Provider
	Instructions string
	TopK         int
	Dimension    int
	Options      llm.Options
	Cache        cache.Cache
	Logger       *slog.Logger
}

// Option is a function that configures an Assistant.
type Option func(*Assistant)

// New creates a new Assistant.
func New(embedder knowledge.Embedder, index knowledge.VectorIndex, provider llm.Provider, opts ...Option) *Assistant {
	a := &Assistant{
		Embedder:     embedder,
		Index:        index,
		LLM:          provider,
		Instructions: SystemInstruction,
		TopK:         DefaultTopK,
		Dimension:    knowledge.Dimension,
		Options: llm.Options{
			Temperature: DefaultTemperature,
			MaxTokens:   DefaultMaxTokens,
		},
		Logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// WithTopK sets how many matches are retrieved.
func WithTopK(k int) Option {
	return func(a *Assistant) {
		a.TopK = k
	}
}

// WithDimension sets the expected query vector length.
func WithDimension(d int) Option {
	return func(a *Assistant) {
		a.Dimension = d
	}
}

// WithInstructions overrides the system instruction.
func WithInstructions(instructions string) Option {
	return func(a *Assistant) {
		a.Instructions = instructions
	}
}

// WithGeneration sets the sampling parameters.
func WithGeneration(temperature float64, maxTokens int) Option {
	return func(a *Assistant) {
		a.Options = llm.Options{Temperature: temperature, MaxTokens: maxTokens}
	}
}

// WithCache enables the answer cache.
func WithCache(c cache.Cache) Option {
	return func(a *Assistant) {
		a.Cache = c
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Assistant) {
		a.Logger = l
	}
}

// Ask embeds the question, retrieves the closest products, and asks the model
// to answer from them. Any stage failure aborts the request; nothing is
// retried.
func (a *Assistant) Ask(ctx context.Context, question string) (*Exchange, error) {
	// The question reaches the embedder and the prompt as typed; trimming only
	// decides blankness and the cache key.
	if strings.TrimSpace(question) == "" {
		return nil, &ValidationError{Reason: "message is required"}
	}

	ctx, span := tracer.Start(ctx, "assistant.Ask")
	defer span.End()

	ex := &Exchange{Question: question}

	if answer, ok := a.cached(ctx, question); ok {
		span.SetAttributes(attribute.Bool("shopqa.cached", true))
		ex.Answer = answer
		ex.Cached = true
		return ex, nil
	}

	vector, err := a.embed(ctx, question)
	if err != nil {
		return nil, a.fail(span, "embed", &EmbeddingError{Err: err})
	}
	span.AddEvent("embedded")

	matches, err := a.Index.Query(ctx, vector, a.TopK)
	if err != nil {
		return nil, a.fail(span, "retrieve", &RetrievalError{Err: err})
	}
	ex.Matches = matches
	ex.Context = BuildContext(matches)
	span.AddEvent("retrieved", trace.WithAttributes(attribute.Int("shopqa.matches", len(matches))))

	a.Logger.Debug("context assembled", "matches", len(matches), "context_length", len(ex.Context))

	response, err := a.LLM.Chat(ctx, buildMessages(a.Instructions, ex.Context, question), a.Options)
	if err != nil {
		return nil, a.fail(span, "generate", &GenerationError{Err: err})
	}
	if response == nil {
		return nil, a.fail(span, "generate", &GenerationError{Err: fmt.Errorf("provider returned no message")})
	}
	ex.Answer = response.Content

	a.store(ctx, question, ex.Answer)
	return ex, nil
}

func (a *Assistant) embed(ctx context.Context, question string) ([]float32, error) {
	vectors, err := a.Embedder.Embed(ctx, []string{question})
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("expected 1 vector, got %d", len(vectors))
	}
	if len(vectors[0]) != a.Dimension {
		return nil, fmt.Errorf("vector has dimension %d, want %d", len(vectors[0]), a.Dimension)
	}
	return vectors[0], nil
}

func (a *Assistant) fail(span trace.Span, stage string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, stage+" failed")
	a.Logger.Error("question failed", "stage", stage, "error", err)
	return err
}

func (a *Assistant) cached(ctx context.Context, question string) (string, bool) {
	if a.Cache == nil {
		return "", false
	}
	answer, ok, err := a.Cache.Get(ctx, cache.Key(question))
	if err != nil {
		a.Logger.Error("cache lookup failed", "error", err)
		return "", false
	}
	return answer, ok
}

// Cache write failures never fail the request.
func (a *Assistant) store(ctx context.Context, question, answer string) {
	if a.Cache == nil {
		return
	}
	if err := a.Cache.Set(ctx, cache.Key(question), answer); err != nil {
		a.Logger.Error("cache store failed", "error", err)
	}
}
