package application

import (
	"context"
	"errors"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/imasharanasinghe/phishing-detection-AI/internal/domain"
	"github.com/imasharanasinghe/phishing-detection-AI/internal/domain/alert"
	"github.com/imasharanasinghe/phishing-detection-AI/internal/domain/parser"
	"github.com/imasharanasinghe/phishing-detection-AI/internal/domain/scoring"
	"github.com/imasharanasinghe/phishing-detection-AI/internal/ports"
)

// ErrStorageDisabled is returned by query operations when the service
// runs without a configured store
var ErrStorageDisabled = errors.New("storage is not configured")

// AnalysisService orchestrates the parse -> score -> alert pipeline and
// persists each result.
//
// Persistence is best-effort: a storage failure is logged and the
// analysis is still returned, because the pipeline contract guarantees
// a complete result for any input.
type AnalysisService struct {
	storage     ports.Storage // nil: run without persistence
	synthesizer *alert.Synthesizer
	workers     int
	log         zerolog.Logger
}

// NewAnalysisService creates the service with dependency injection
func NewAnalysisService(storage ports.Storage, synthesizer *alert.Synthesizer, workers int, log zerolog.Logger) *AnalysisService {
	if workers < 1 {
		workers = 1
	}
	return &AnalysisService{
		storage:     storage,
		synthesizer: synthesizer,
		workers:     workers,
		log:         log,
	}
}

// Analyze runs the full pipeline on one raw email. It always returns a
// complete result; no error surfaces to the caller.
func (s *AnalysisService) Analyze(ctx context.Context, rawEmail string) *domain.AnalysisResult {
	parsed := parser.Parse(rawEmail)
	assessment := scoring.Score(parsed)
	summary := s.synthesizer.Synthesize(ctx, assessment.Score, assessment.Level, assessment.Reason, parsed)

	result := &domain.AnalysisResult{
		ID:           uuid.New(),
		Score:        assessment.Score,
		Level:        assessment.Level,
		Reason:       assessment.Reason,
		AlertSummary: summary,
		Parsed:       parsed,
		AnalyzedAt:   time.Now().UTC(),
	}

	if s.storage != nil {
		if err := s.storage.SaveAnalysis(ctx, result); err != nil {
			s.log.Error().Err(err).
				Str("analysis_id", result.ID.String()).
				Msg("failed to persist analysis")
		}
	}

	s.log.Info().
		Str("analysis_id", result.ID.String()).
		Float64("risk_score", result.Score).
		Str("risk_level", string(result.Level)).
		Int("url_count", len(parsed.URLs)).
		Msg("email analyzed")

	return result
}

// AnalyzeBatch runs many raw emails through the pipeline on a bounded
// worker pool. Results preserve input order. Analyses share no mutable
// state, so they run concurrently without locking.
func (s *AnalysisService) AnalyzeBatch(ctx context.Context, rawEmails []string) []*domain.AnalysisResult {
	results := make([]*domain.AnalysisResult, len(rawEmails))

	pool := workerpool.New(s.workers)
	for i, raw := range rawEmails {
		i, raw := i, raw
		pool.Submit(func() {
			results[i] = s.Analyze(ctx, raw)
		})
	}
	pool.StopWait()

	return results
}

// RecentAnalyses returns persisted analyses, newest first, optionally
// filtered by level
func (s *AnalysisService) RecentAnalyses(ctx context.Context, limit, offset int, level domain.RiskLevel) ([]domain.AnalysisResult, error) {
	if s.storage == nil {
		return nil, ErrStorageDisabled
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.storage.ListAnalyses(ctx, limit, offset, level)
}

// Stats aggregates all persisted analyses
func (s *AnalysisService) Stats(ctx context.Context) (*domain.AnalysisStats, error) {
	if s.storage == nil {
		return nil, ErrStorageDisabled
	}
	return s.storage.Stats(ctx)
}
