package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/imasharanasinghe/phishing-detection-AI/internal/application"
	"github.com/imasharanasinghe/phishing-detection-AI/internal/domain"
	"github.com/imasharanasinghe/phishing-detection-AI/internal/ports"
)

// Server exposes the analysis pipeline over HTTP
type Server struct {
	service   *application.AnalysisService
	generator ports.TextGenerator // nil when no backend is configured
	log       zerolog.Logger
}

// NewServer creates the HTTP adapter
func NewServer(service *application.AnalysisService, generator ports.TextGenerator, log zerolog.Logger) *Server {
	return &Server{
		service:   service,
		generator: generator,
		log:       log,
	}
}

// Router builds the chi router with all API routes
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/analyze/batch", s.handleAnalyzeBatch)
		r.Get("/emails", s.handleListEmails)
		r.Get("/stats", s.handleStats)
	})

	return r
}

type analyzeRequest struct {
	EmailText string `json:"email_text"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.EmailText == "" {
		writeError(w, http.StatusBadRequest, "email_text is required")
		return
	}

	result := s.service.Analyze(r.Context(), req.EmailText)
	writeJSON(w, http.StatusOK, result)
}

// maxBatchSize bounds a single batch request
const maxBatchSize = 100

type analyzeBatchRequest struct {
	EmailTexts []string `json:"email_texts"`
}

func (s *Server) handleAnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	var req analyzeBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.EmailTexts) == 0 {
		writeError(w, http.StatusBadRequest, "email_texts is required")
		return
	}
	if len(req.EmailTexts) > maxBatchSize {
		writeError(w, http.StatusBadRequest, "too many emails in one batch")
		return
	}

	results := s.service.AnalyzeBatch(r.Context(), req.EmailTexts)
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleListEmails(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)
	level := domain.RiskLevel(r.URL.Query().Get("risk_level"))

	results, err := s.service.RecentAnalyses(r.Context(), limit, offset, level)
	if err != nil {
		if errors.Is(err, application.ErrStorageDisabled) {
			writeError(w, http.StatusServiceUnavailable, "persistence is not configured")
			return
		}
		s.log.Error().Err(err).Msg("failed to list analyses")
		writeError(w, http.StatusInternalServerError, "failed to list analyses")
		return
	}

	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.Stats(r.Context())
	if err != nil {
		if errors.Is(err, application.ErrStorageDisabled) {
			writeError(w, http.StatusServiceUnavailable, "persistence is not configured")
			return
		}
		s.log.Error().Err(err).Msg("failed to aggregate stats")
		writeError(w, http.StatusInternalServerError, "failed to aggregate stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	generatorAvailable := false
	if s.generator != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		generatorAvailable = s.generator.Available(ctx)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":              "ok",
		"generator_available": generatorAvailable,
	})
}

// requestLogger logs one line per request with status and duration
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request handled")
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
