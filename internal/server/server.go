// Package server is a reference implementation of the CircuiTech backend:
// the chat and pin-map endpoints the client gateway talks to.
package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Rorical/CircuiTech/internal/logging"
	"github.com/Rorical/CircuiTech/internal/metrics"
	"github.com/Rorical/CircuiTech/internal/models"
	"github.com/Rorical/CircuiTech/internal/sessions"
)

// BomRunner is satisfied by *agent.BomAgent.
type BomRunner interface {
	Run(ctx context.Context, prompt string, history []models.ChatMessage, user string) (*models.BomPayload, error)
}

// PinMapRunner is satisfied by *agent.PinMapAgent.
type PinMapRunner interface {
	Run(ctx context.Context, items []models.BomItem, user string) ([]models.Connection, error)
}

type Server struct {
	bom      BomRunner
	pinMap   PinMapRunner
	store    sessions.Store
	logger   *zap.Logger
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
}

type Option func(*Server)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics records request counts on m and serves gatherer on /metrics.
func WithMetrics(m *metrics.Metrics, gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = gatherer
	}
}

func New(bom BomRunner, pinMap PinMapRunner, store sessions.Store, opts ...Option) *Server {
	s := &Server{
		bom:    bom,
		pinMap: pinMap,
		store:  store,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.recoverer, s.withLogging, withCORS)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(requireSessionID)
		r.Post("/chat", s.handleChat)
		r.Post("/chat/", s.handleChat)
		r.Post("/pinmap", s.handlePinMap)
		r.Post("/pinmap/", s.handlePinMap)
	})
	return r
}

type errorBody struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorBody{Detail: detail})
}
