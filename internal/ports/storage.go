package ports

import (
	"context"

	"github.com/imasharanasinghe/phishing-detection-AI/internal/domain"
)

// Storage defines the contract for persisting and querying analysis results
type Storage interface {
	// SaveAnalysis persists one pipeline result
	SaveAnalysis(ctx context.Context, result *domain.AnalysisResult) error

	// ListAnalyses returns recent analyses, newest first, optionally
	// filtered by risk level (empty level means no filter)
	ListAnalyses(ctx context.Context, limit, offset int, level domain.RiskLevel) ([]domain.AnalysisResult, error)

	// Stats aggregates all persisted analyses
	Stats(ctx context.Context) (*domain.AnalysisStats, error)

	// Lifecycle
	Close() error
}
