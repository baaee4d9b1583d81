// Package server exposes NormalizeAll over HTTP.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"

	"urlcanon/internal/normalizer"
)

// NormalizeRequest is the JSON body accepted by POST /normalize. Input is
// either a single text or a list of texts.
type NormalizeRequest struct {
	Input json.RawMessage `json:"input"`
}

// NormalizeResponse is returned by POST /normalize.
type NormalizeResponse struct {
	URLs  []string `json:"urls"`
	Stats Stats    `json:"stats"`
}

type Stats struct {
	Candidates int `json:"candidates"`
	Normalized int `json:"normalized"`
	Dropped    int `json:"dropped"`
}

type APIError struct {
	Message string `json:"message"`
}

// Config holds the handler dependencies.
type Config struct {
	Batch        *normalizer.Batch
	Logger       *slog.Logger
	Gatherer     prometheus.Gatherer
	MaxBodyBytes int64

	// TracerProvider defaults to the global OpenTelemetry provider.
	TracerProvider trace.TracerProvider
}

// NewHandler returns the HTTP routes.
func NewHandler(cfg Config) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	h := &handler{batch: cfg.Batch, logger: logger, maxBody: cfg.MaxBodyBytes}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("POST /normalize", h.normalize)

	var otelOpts []otelhttp.Option
	if cfg.TracerProvider != nil {
		otelOpts = append(otelOpts, otelhttp.WithTracerProvider(cfg.TracerProvider))
	}
	return otelhttp.NewHandler(mux, "urlcanon", otelOpts...)
}

const shutdownTimeout = 5 * time.Second

type handler struct {
	batch   *normalizer.Batch
	logger  *slog.Logger
	maxBody int64
}

func (h *handler) normalize(w http.ResponseWriter, r *http.Request) {
	reqID := uuid.NewString()
	logger := h.logger.With("request", reqID)
	w.Header().Set("X-Request-Id", reqID)

	body := io.Reader(r.Body)
	if h.maxBody > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBody)
	}
	payload, err := io.ReadAll(body)
	r.Body.Close()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	inputs, err := decodeInputs(r.Header.Get("Content-Type"), payload)
	if err != nil {
		logger.Info("Rejecting normalize request.", "error", err)
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res := h.batch.Run(inputs...)
	logger.Debug("Normalized request.",
		"candidates", res.Stats.Candidates,
		"normalized", res.Stats.Normalized,
		"dropped", res.Stats.Dropped,
		"duration", res.Stats.Duration.Round(time.Microsecond))

	h.writeJSON(w, http.StatusOK, NormalizeResponse{
		URLs: res.URLs,
		Stats: Stats{
			Candidates: res.Stats.Candidates,
			Normalized: res.Stats.Normalized,
			Dropped:    res.Stats.Dropped,
		},
	})
}

// decodeInputs accepts a JSON NormalizeRequest or, for any other content
// type, treats the whole body as one text.
func decodeInputs(contentType string, payload []byte) ([]string, error) {
	mediaType, _, _ := mime.ParseMediaType(contentType)
	if mediaType != "application/json" {
		return []string{string(payload)}, nil
	}

	var req NormalizeRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	raw := bytes.TrimSpace(req.Input)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return []string{text}, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, errors.New("input must be a string or a list of strings")
	}
	return list, nil
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("Failed to write response.", "error", err)
	}
}

func (h *handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, &APIError{Message: msg})
}

// Serve listens on addr and runs handler until ctx is done. See
// ServeListener.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return ServeListener(ctx, ln, handler, logger)
}

// ServeListener runs handler on ln until ctx is done, then shuts down
// gracefully. It returns only after in-flight requests have finished or the
// shutdown timeout has passed.
func ServeListener(ctx context.Context, ln net.Listener, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	shutdownDone := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		if err != nil {
			logger.Error("Graceful shutdown failed.", "error", err)
		}
		shutdownDone <- err
	}()

	logger.Info("HTTP server listening.", "addr", ln.Addr().String())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-shutdownDone
}
