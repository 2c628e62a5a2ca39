package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/imasharanasinghe/phishing-detection-AI/internal/domain"
)

// PostgresStore implements ports.Storage for PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL storage instance
func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &PostgresStore{db: db}, nil
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// InitSchema creates database tables if they don't exist.
// In production, use proper migration tools.
func (s *PostgresStore) InitSchema() error {
	schema := `
	-- One row per pipeline run. The full parsed record is kept as JSONB
	-- alongside the scalar verdict columns: analyses are always read
	-- whole, and subject/sender are denormalized for listing without
	-- unpacking the JSON.
	CREATE TABLE IF NOT EXISTS analyses (
		id UUID PRIMARY KEY,
		subject TEXT,
		sender VARCHAR(254),
		risk_score DECIMAL(5,4) NOT NULL,
		risk_level VARCHAR(10) NOT NULL,
		reason TEXT,
		alert_summary TEXT,
		parsed JSONB,
		analyzed_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	-- Backs ListAnalyses with a level filter, newest first
	CREATE INDEX IF NOT EXISTS idx_analyses_level ON analyses(risk_level, analyzed_at DESC);
	-- Backs unfiltered listing
	CREATE INDEX IF NOT EXISTS idx_analyses_time ON analyses(analyzed_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveAnalysis inserts one analysis result
func (s *PostgresStore) SaveAnalysis(ctx context.Context, result *domain.AnalysisResult) error {
	parsedJSON, err := json.Marshal(result.Parsed)
	if err != nil {
		return fmt.Errorf("failed to marshal parsed email: %w", err)
	}

	var subject, sender string
	if result.Parsed != nil {
		subject = result.Parsed.Headers["subject"]
		sender = result.Parsed.Headers["from"]
	}

	query := `
		INSERT INTO analyses (id, subject, sender, risk_score, risk_level, reason, alert_summary, parsed, analyzed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = s.db.ExecContext(ctx, query,
		result.ID, subject, sender, result.Score, result.Level,
		result.Reason, result.AlertSummary, parsedJSON, result.AnalyzedAt,
	)
	return err
}

// ListAnalyses returns recent analyses, newest first. An empty level
// returns all levels.
func (s *PostgresStore) ListAnalyses(ctx context.Context, limit, offset int, level domain.RiskLevel) ([]domain.AnalysisResult, error) {
	query := `
		SELECT id, risk_score, risk_level, reason, alert_summary, parsed, analyzed_at
		FROM analyses
		WHERE ($3 = '' OR risk_level = $3)
		ORDER BY analyzed_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := s.db.QueryContext(ctx, query, limit, offset, string(level))
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer rows.Close()

	results := make([]domain.AnalysisResult, 0)
	for rows.Next() {
		var r domain.AnalysisResult
		var parsedJSON []byte
		if err := rows.Scan(&r.ID, &r.Score, &r.Level, &r.Reason, &r.AlertSummary, &parsedJSON, &r.AnalyzedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		if len(parsedJSON) > 0 {
			if err := json.Unmarshal(parsedJSON, &r.Parsed); err != nil {
				return nil, fmt.Errorf("failed to unmarshal parsed email: %w", err)
			}
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// Stats aggregates all persisted analyses
func (s *PostgresStore) Stats(ctx context.Context) (*domain.AnalysisStats, error) {
	stats := &domain.AnalysisStats{
		CountsByLevel: make(map[domain.RiskLevel]int),
	}

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(AVG(risk_score), 0) FROM analyses`,
	).Scan(&stats.TotalAnalyses, &stats.AverageRiskScore)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate analyses: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT risk_level, COUNT(*) FROM analyses GROUP BY risk_level`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count by level: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var level domain.RiskLevel
		var count int
		if err := rows.Scan(&level, &count); err != nil {
			return nil, fmt.Errorf("failed to scan level count: %w", err)
		}
		stats.CountsByLevel[level] = count
	}
	return stats, rows.Err()
}
