package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/barekit/shopqa/pkg/assistant"
	"github.com/barekit/shopqa/pkg/knowledge"
	"github.com/barekit/shopqa/pkg/llm"
)

type mockAsker struct {
	exchange *assistant.Exchange
	err      error
	question string
}

func (m *mockAsker) Ask(ctx context.Context, question string) (*assistant.Exchange, error) {
	m.question = question
	if m.err != nil {
		return nil, m.err
	}
	return m.exchange, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func do(t *testing.T, h http.Handler, method, body string) (*httptest.ResponseRecorder, ChatResponse) {
	t.Helper()
	req := httptest.NewRequest(method, "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp ChatResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return rec, resp
}

func TestChat_OK(t *testing.T) {
	asker := &mockAsker{exchange: &assistant.Exchange{Answer: "Cuesta $8999."}}
	h := NewHandler(asker, quietLogger())

	rec, resp := do(t, h, http.MethodPost, `{"message": "¿Cuánto cuesta la camiseta?"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if resp.Response != "Cuesta $8999." || resp.Error != "" {
		t.Errorf("Unexpected response: %+v", resp)
	}
	if asker.question != "¿Cuánto cuesta la camiseta?" {
		t.Errorf("Unexpected question forwarded: %q", asker.question)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Unexpected content type %q", ct)
	}
}

func TestChat_MethodNotAllowed(t *testing.T) {
	h := NewHandler(&mockAsker{}, quietLogger())

	rec, _ := do(t, h, http.MethodGet, "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("Expected 405, got %d", rec.Code)
	}
	if rec.Header().Get("Allow") != http.MethodPost {
		t.Errorf("Expected Allow: POST, got %q", rec.Header().Get("Allow"))
	}
}

func TestChat_BadRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
	}{
		{"malformed json", `{"message":`, nil},
		{"blank message", `{"message": "  "}`, &assistant.ValidationError{Reason: "message is required"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&mockAsker{err: tt.err}, quietLogger())

			rec, resp := do(t, h, http.MethodPost, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("Expected 400, got %d", rec.Code)
			}
			if resp.Error == "" {
				t.Error("Expected error text")
			}
		})
	}
}

func TestChat_InternalErrorIsUniform(t *testing.T) {
	tests := []error{
		&assistant.EmbeddingError{Err: errors.New("embedding 503")},
		&assistant.RetrievalError{Err: errors.New("qdrant down")},
		&assistant.GenerationError{Err: errors.New("rate limited")},
	}

	for _, stageErr := range tests {
		h := NewHandler(&mockAsker{err: stageErr}, quietLogger())

		rec, resp := do(t, h, http.MethodPost, `{"message": "hola"}`)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("Expected 500, got %d", rec.Code)
		}
		if resp.Error != assistant.ErrorMessage {
			t.Errorf("Expected uniform error message, got %q", resp.Error)
		}
		if resp.Response != "" {
			t.Errorf("Expected no response, got %q", resp.Response)
		}
	}
}

type failingEmbedder struct{}

func (failingEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, errors.New("embedding service unavailable")
}

type countingIndex struct{ queries int }

func (c *countingIndex) Exists(ctx context.Context) (bool, error) { return true, nil }
func (c *countingIndex) Create(ctx context.Context, spec knowledge.Spec) error { return nil }
func (c *countingIndex) Ready(ctx context.Context) (bool, error) { return true, nil }
func (c *countingIndex) Upsert(ctx context.Context, entries []knowledge.Entry) error { return nil }
func (c *countingIndex) Query(ctx context.Context, vector []float32, topK int) ([]knowledge.Match, error) {
	c.queries++
	return nil, nil
}

type countingProvider struct{ calls int }

func (c *countingProvider) Chat(ctx context.Context, messages []llm.Message, opts llm.Options) (*llm.Message, error) {
	c.calls++
	return &llm.Message{Role: llm.RoleAssistant, Content: "unused"}, nil
}

func TestChat_EmbeddingFailureThroughAssistant(t *testing.T) {
	idx := &countingIndex{}
	provider := &countingProvider{}
	a := assistant.New(failingEmbedder{}, idx, provider, assistant.WithLogger(quietLogger()))
	h := NewHandler(a, quietLogger())

	rec, resp := do(t, h, http.MethodPost, `{"message": "¿Hay stock?"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rec.Code)
	}
	if resp.Error != assistant.ErrorMessage {
		t.Errorf("Expected uniform error message, got %q", resp.Error)
	}
	if idx.queries != 0 || provider.calls != 0 {
		t.Errorf("Expected no downstream calls, got index=%d llm=%d", idx.queries, provider.calls)
	}
}

func TestHealth(t *testing.T) {
	h := NewHandler(&mockAsker{}, quietLogger())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
}

func TestMetrics(t *testing.T) {
	h := NewHandler(&mockAsker{exchange: &assistant.Exchange{Answer: "ok"}}, quietLogger())
	do(t, h, http.MethodPost, `{"message": "hola"}`)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `shopqa_chat_requests_total{code="200"}`) {
		t.Error("Expected chat request counter in metrics output")
	}
}
