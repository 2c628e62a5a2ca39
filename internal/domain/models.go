package domain

import (
	"time"

	"github.com/google/uuid"
)

// RiskLevel is the categorical risk band derived from a risk score
type RiskLevel string

const (
	LevelLow    RiskLevel = "Low"
	LevelMedium RiskLevel = "Medium"
	LevelHigh   RiskLevel = "High"
)

// RiskLevelForScore converts a risk score to a categorical level
func RiskLevelForScore(score float64) RiskLevel {
	switch {
	case score >= 0.7:
		return LevelHigh
	case score >= 0.4:
		return LevelMedium
	default:
		return LevelLow
	}
}

// SuspiciousTLDs are top-level domains with a high abuse rate.
// The parser flags them per URL and the scorer recomputes membership
// from the domain string, so both share the same set.
var SuspiciousTLDs = []string{".tk", ".ml", ".ga", ".cf"}

// URLInfo represents a URL found in an email body, with per-URL heuristics
type URLInfo struct {
	URL              string `json:"url"`
	Domain           string `json:"domain"`
	Path             string `json:"path"`
	Scheme           string `json:"scheme"`
	IsShortened      bool   `json:"is_shortened"`
	HasSuspiciousTLD bool   `json:"has_suspicious_tld"`
}

// Attachment represents an attachment reference found in a raw message.
// Type is the lower-cased filename extension, or "unknown" when the
// filename has no dot.
type Attachment struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// EntityType classifies a lightweight named entity
type EntityType string

const (
	EntityEmail EntityType = "EMAIL"
	EntityPhone EntityType = "PHONE"
	EntityMoney EntityType = "MONEY"
)

// Entity is a named entity extracted from the body text by regex
type Entity struct {
	Type       EntityType `json:"type"`
	Text       string     `json:"text"`
	Confidence float64    `json:"confidence"`
}

// Metadata holds derived counts about a parsed email.
// Purely descriptive: the scorer recomputes everything it needs from the
// underlying sequences, so malformed input can never skew these numbers
// into the risk score.
type Metadata struct {
	HasHTML         bool `json:"has_html"`
	IsMultipart     bool `json:"is_multipart"`
	URLCount        int  `json:"url_count"`
	AttachmentCount int  `json:"attachment_count"`
	EntityCount     int  `json:"entity_count"`
}

// ParsedEmail is the structured representation of a raw email message.
// Immutable after creation. Construction never fails: any extraction
// error degrades to an empty value for that field only.
type ParsedEmail struct {
	Headers     map[string]string `json:"headers"`
	BodyText    string            `json:"body_text"`
	URLs        []URLInfo         `json:"urls"`
	Attachments []Attachment      `json:"attachments"`
	Entities    []Entity          `json:"entities"`
	Metadata    Metadata          `json:"metadata"`
}

// SubjectOr returns the subject header, or fallback when absent or empty
func (p *ParsedEmail) SubjectOr(fallback string) string {
	if p == nil {
		return fallback
	}
	if s := p.Headers["subject"]; s != "" {
		return s
	}
	return fallback
}

// RiskAssessment is the scorer's verdict on a parsed email.
// Computed fresh per request and never mutated.
type RiskAssessment struct {
	Score  float64   `json:"score"`
	Level  RiskLevel `json:"level"`
	Reason string    `json:"reason"`
}

// AnalysisResult is the full pipeline output returned to callers.
// The caller owns the record; persistence is best-effort and never
// alters it.
type AnalysisResult struct {
	ID           uuid.UUID    `json:"id"`
	Score        float64      `json:"risk_score"`
	Level        RiskLevel    `json:"risk_level"`
	Reason       string       `json:"reason"`
	AlertSummary string       `json:"alert_summary"`
	Parsed       *ParsedEmail `json:"parsed"`
	AnalyzedAt   time.Time    `json:"analyzed_at"`
}

// AnalysisStats aggregates persisted analyses for reporting
type AnalysisStats struct {
	TotalAnalyses    int               `json:"total_analyses"`
	CountsByLevel    map[RiskLevel]int `json:"risk_level_distribution"`
	AverageRiskScore float64           `json:"average_risk_score"`
}
