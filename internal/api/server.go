// Package api exposes the relay HTTP surface: parse, persist, query
// and summary endpoints used by external front-ends.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/xiello/tracy/internal/domain"
	"github.com/xiello/tracy/internal/query"
)

// Parser turns free text into a structured transaction.
type Parser interface {
	Parse(ctx context.Context, text string) domain.ParsedTransaction
}

// Querier answers a financial question.
type Querier interface {
	Answer(ctx context.Context, question string) string
}

// Store persists parsed transactions. *sqlite.Store satisfies it.
type Store interface {
	InsertParsed(ctx context.Context, p domain.ParsedTransaction) (domain.Transaction, error)
	ListTransactions(ctx context.Context, from, to time.Time) ([]domain.Transaction, error)
}

// Server is the relay HTTP server.
type Server struct {
	parser         Parser
	querier        Querier
	store          Store
	ledger         query.Ledger
	log            zerolog.Logger
	metricsEnabled bool
}

// NewServer creates a relay server over the given pipelines and store.
func NewServer(parser Parser, querier Querier, store Store, ledger query.Ledger, log zerolog.Logger) *Server {
	return &Server{
		parser:  parser,
		querier: querier,
		store:   store,
		ledger:  ledger,
		log:     log,
	}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(2 * time.Minute))
	r.Use(requestLogger(s.log))
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/parse", s.handleParse)
		r.Post("/transactions", s.handleCreateTransaction)
		r.Get("/transactions", s.handleListTransactions)
		r.Post("/query", s.handleQuery)
		r.Get("/summary", s.handleSummary)
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// requestLogger logs one line per request with status and latency.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("elapsed", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("request")
		})
	}
}

// corsMiddleware adds CORS headers for browser front-ends.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"message": msg,
		},
	})
}
