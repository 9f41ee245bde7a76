package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/barekit/shopqa/pkg/assistant"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Asker is the part of the assistant the HTTP layer needs.
type Asker interface {
	Ask(ctx context.Context, question string) (*assistant.Exchange, error)
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse carries either the answer or the error text.
type ChatResponse struct {
	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
}

// maxBodyBytes bounds the request body.
const maxBodyBytes = 64 << 10

// Handler serves the chat endpoint.
type Handler struct {
	Asker  Asker
	Logger *slog.Logger
}

// NewHandler returns the routed handler for the public API.
func NewHandler(asker Asker, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{Asker: asker, Logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat", h.Chat)
	mux.HandleFunc("/healthz", h.Health)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// Chat answers a single question.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		h.reply(w, http.StatusMethodNotAllowed, ChatResponse{Error: "method not allowed"})
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.reply(w, http.StatusBadRequest, ChatResponse{Error: "invalid JSON body"})
		return
	}

	start := time.Now()
	ex, err := h.Asker.Ask(r.Context(), req.Message)
	if err != nil {
		var verr *assistant.ValidationError
		if errors.As(err, &verr) {
			h.reply(w, http.StatusBadRequest, ChatResponse{Error: verr.Error()})
			return
		}
		h.reply(w, http.StatusInternalServerError, ChatResponse{Error: assistant.ErrorMessage})
		return
	}

	elapsed := time.Since(start)
	chatDuration.Observe(elapsed.Seconds())
	if ex.Cached {
		cachedAnswers.Inc()
	}
	h.Logger.Info("question answered",
		"matches", len(ex.Matches),
		"cached", ex.Cached,
		"duration", elapsed)
	h.reply(w, http.StatusOK, ChatResponse{Response: ex.Answer})
}

func (h *Handler) reply(w http.ResponseWriter, status int, resp ChatResponse) {
	observeStatus(status)
	writeJSON(w, status, resp)
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// Serve runs the HTTP server until ctx is cancelled, then shuts it down.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		logger.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
