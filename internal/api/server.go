// Package api exposes the recommendation surface over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/julianarmendano-prog/transfermatch/internal/engine"
	"github.com/julianarmendano-prog/transfermatch/internal/metrics"
)

// Recommender is the engine surface the handlers depend on. Keeping it an
// interface here decouples the HTTP layer from the engine implementation.
type Recommender interface {
	Recommend(ctx context.Context, seekerID string, opts engine.Options) (*engine.RecommendationResult, error)
}

// Server wires HTTP routes for the recommendation API.
type Server struct {
	recommender Recommender
	logger      *zap.Logger
}

func NewServer(recommender Recommender, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{recommender: recommender, logger: logger}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", metricsMiddleware(s.handleHealth, "healthz"))
	mux.HandleFunc("/recommendations", metricsMiddleware(s.handleRecommendations, "recommendations"))
	mux.Handle("/metrics", metrics.Handler())
}

// recommendationRequest mirrors the request schema for POST /recommendations.
type recommendationRequest struct {
	SeekerID           string `json:"seeker_id"`
	Limit              int    `json:"limit"`
	UseExternalScoring bool   `json:"use_external_scoring"`
}

func (r recommendationRequest) validate() error {
	if strings.TrimSpace(r.SeekerID) == "" {
		return errors.New("missing seeker_id")
	}
	if r.Limit <= 0 {
		return errors.New("limit must be a positive integer")
	}
	return nil
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	var req recommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	result, err := s.recommender.Recommend(r.Context(), req.SeekerID, engine.Options{
		Limit:              req.Limit,
		UseExternalScoring: req.UseExternalScoring,
	})
	if err != nil {
		switch {
		case engine.IsConfigError(err):
			writeError(w, http.StatusBadRequest, "bad_request", err)
		case errors.Is(err, engine.ErrProfileNotFound):
			writeError(w, http.StatusNotFound, "not_found", err)
		default:
			s.logger.Error("recommendation failed",
				zap.String("seeker_id", req.SeekerID),
				zap.Error(err),
			)
			writeError(w, http.StatusInternalServerError, "internal_error", nil)
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// metricsMiddleware records request counts and latency per endpoint.
func metricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		metrics.RecordHTTPRequest(endpoint, r.Method, strconv.Itoa(wrapped.statusCode))
		metrics.ObserveHTTPDuration(endpoint, time.Since(start).Seconds())
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
