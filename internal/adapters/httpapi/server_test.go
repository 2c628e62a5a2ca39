package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imasharanasinghe/phishing-detection-AI/internal/application"
	"github.com/imasharanasinghe/phishing-detection-AI/internal/domain"
	"github.com/imasharanasinghe/phishing-detection-AI/internal/domain/alert"
)

func newTestRouter() http.Handler {
	svc := application.NewAnalysisService(nil, alert.NewSynthesizer(nil), 2, zerolog.Nop())
	return NewServer(svc, nil, zerolog.Nop()).Router()
}

func TestHandleAnalyze(t *testing.T) {
	router := newTestRouter()

	body := `{"email_text": "Subject: Test\nFrom: a@b.com\n\nVisit https://example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var result domain.AnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))

	assert.Equal(t, domain.LevelLow, result.Level)
	assert.NotEmpty(t, result.AlertSummary)
	require.NotNil(t, result.Parsed)
	require.Len(t, result.Parsed.URLs, 1)
	assert.Equal(t, "example.com", result.Parsed.URLs[0].Domain)
}

func TestHandleAnalyze_BadRequests(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{not json`},
		{"missing email_text", `{}`},
		{"empty email_text", `{"email_text": ""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandleAnalyzeBatch(t *testing.T) {
	router := newTestRouter()

	body := `{"email_texts": [
		"Subject: First\n\nVisit https://example.com",
		"Subject: Second\n\nNothing suspicious here."
	]}`
	req := httptest.NewRequest(http.MethodPost, "/api/analyze/batch", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var results []domain.AnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	require.Len(t, results, 2)

	assert.Equal(t, "First", results[0].Parsed.Headers["subject"])
	assert.Equal(t, "Second", results[1].Parsed.Headers["subject"])
	for _, r := range results {
		assert.NotEmpty(t, r.AlertSummary)
	}
}

func TestHandleAnalyzeBatch_BadRequests(t *testing.T) {
	router := newTestRouter()

	oversized, err := json.Marshal(analyzeBatchRequest{EmailTexts: make([]string, maxBatchSize+1)})
	require.NoError(t, err)

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{not json`},
		{"missing email_texts", `{}`},
		{"empty email_texts", `{"email_texts": []}`},
		{"oversized batch", string(oversized)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/analyze/batch", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandleListEmails_StorageDisabled(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/emails?limit=10", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleStats_StorageDisabled(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var health map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, false, health["generator_available"])
}
