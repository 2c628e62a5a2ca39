package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imasharanasinghe/phishing-detection-AI/internal/domain"
	"github.com/imasharanasinghe/phishing-detection-AI/internal/domain/parser"
)

func TestScore_CleanEmail(t *testing.T) {
	parsed := parser.Parse("Subject: Test\nFrom: a@b.com\n\nVisit https://example.com")

	assessment := Score(parsed)

	// The only triggered rule is the shortened-URL heuristic
	assert.InDelta(t, 0.1, assessment.Score, 1e-9)
	assert.Equal(t, domain.LevelLow, assessment.Level)
	assert.Equal(t, "Shortened URLs detected (1)", assessment.Reason)
}

func TestScore_KeywordsAndTyposquatDomain(t *testing.T) {
	raw := "Subject: Action required\n" +
		"From: support@paypa1.com\n" +
		"\n" +
		"It is urgent that you verify your details. This is urgent.\n" +
		"https://paypa1.com/signin/session/renew"

	parsed := parser.Parse(raw)
	assessment := Score(parsed)

	// "urgent" twice + "verify" once -> 0.2*3, plus 0.3 for paypa1.com
	assert.InDelta(t, 0.9, assessment.Score, 1e-9)
	assert.Equal(t, domain.LevelHigh, assessment.Level)
	assert.Equal(t, "Suspicious keywords detected (3); Suspicious domains detected (1)", assessment.Reason)
}

func TestScore_ClampedAtOne(t *testing.T) {
	parsed := &domain.ParsedEmail{
		Headers:  map[string]string{"subject": "urgent urgent urgent verify password suspended"},
		BodyText: "act now to claim your tax refund",
		URLs: []domain.URLInfo{
			{URL: "https://paypa1.com/a", Domain: "paypa1.com"},
			{URL: "https://goog1e.com/b", Domain: "goog1e.com"},
		},
	}

	assessment := Score(parsed)

	assert.Equal(t, 1.0, assessment.Score)
	assert.Equal(t, domain.LevelHigh, assessment.Level)
}

func TestScore_NoPatterns(t *testing.T) {
	for _, parsed := range []*domain.ParsedEmail{nil, {}} {
		assessment := Score(parsed)

		assert.Equal(t, 0.0, assessment.Score)
		assert.Equal(t, domain.LevelLow, assessment.Level)
		assert.Equal(t, "No suspicious patterns detected", assessment.Reason)
	}
}

func TestScore_MoneyEntities(t *testing.T) {
	parsed := &domain.ParsedEmail{
		BodyText: "transfer pending",
		Entities: []domain.Entity{
			{Type: domain.EntityMoney, Text: "$500", Confidence: 0.8},
			{Type: domain.EntityMoney, Text: "$1,000.00", Confidence: 0.8},
			{Type: domain.EntityEmail, Text: "a@b.com", Confidence: 0.9},
		},
	}

	assessment := Score(parsed)

	assert.InDelta(t, 0.3, assessment.Score, 1e-9)
	assert.Contains(t, assessment.Reason, "Money amounts mentioned (2)")
}

func TestScore_TextStatistics(t *testing.T) {
	t.Run("excessive exclamation marks", func(t *testing.T) {
		assessment := Score(&domain.ParsedEmail{BodyText: "Win a prize today!!!!"})
		assert.InDelta(t, 0.1, assessment.Score, 1e-9)
		assert.Contains(t, assessment.Reason, "Excessive exclamation marks")
	})

	t.Run("excessive capitalization", func(t *testing.T) {
		assessment := Score(&domain.ParsedEmail{
			Headers: map[string]string{"subject": "WIRE TRANSFER REQUIRED NOW"},
		})
		assert.InDelta(t, 0.1, assessment.Score, 1e-9)
		assert.Contains(t, assessment.Reason, "Excessive capitalization")
	})

	t.Run("three exclamation marks stay below the threshold", func(t *testing.T) {
		assessment := Score(&domain.ParsedEmail{BodyText: "hello!!! there"})
		assert.Equal(t, 0.0, assessment.Score)
	})
}

func TestScore_LevelThresholds(t *testing.T) {
	tests := []struct {
		score float64
		want  domain.RiskLevel
	}{
		{0.75, domain.LevelHigh},
		{0.7, domain.LevelHigh},
		{0.69, domain.LevelMedium},
		{0.45, domain.LevelMedium},
		{0.4, domain.LevelMedium},
		{0.39, domain.LevelLow},
		{0.1, domain.LevelLow},
		{0.0, domain.LevelLow},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, domain.RiskLevelForScore(tt.score), "score %.2f", tt.score)
	}
}

func TestScore_Idempotent(t *testing.T) {
	raw := "Subject: URGENT: verify your account!!!!\n\nSend $99 via https://paypa1.com/x"

	first := Score(parser.Parse(raw))
	second := Score(parser.Parse(raw))

	assert.Equal(t, first, second)
}

func TestExtractFeatures_KeywordOccurrencesCounted(t *testing.T) {
	parsed := &domain.ParsedEmail{
		BodyText: "urgent! so urgent. please verify.",
	}

	f := ExtractFeatures(parsed)

	// Every occurrence counts, not just every distinct keyword
	assert.Equal(t, 3, f.KeywordCount)
}

func TestExtractFeatures_URLFeatures(t *testing.T) {
	parsed := &domain.ParsedEmail{
		URLs: []domain.URLInfo{
			{URL: "https://bit.ly/a", Domain: "bit.ly", IsShortened: true},
			{URL: "http://prize.tk/win", Domain: "prize.tk", IsShortened: true},
			{URL: "https://paypa1.com/secure/session/login-page", Domain: "paypa1.com"},
		},
	}

	f := ExtractFeatures(parsed)

	assert.Equal(t, 3, f.URLCount)
	assert.Equal(t, 1, f.SuspiciousDomainCount)
	assert.Equal(t, 1, f.SuspiciousTLDCount)
	assert.Equal(t, 2, f.ShortenedURLCount)
}

func TestExtractFeatures_LookalikeScore(t *testing.T) {
	tests := []struct {
		domainName string
		want       int
	}{
		{"example.com", 0},
		{"a1b2c.com", 2},  // digits-letters-digits and letters-digits-letters
		{"g00gle.com", 1}, // letters-digits-letters only
		{"lll-corp.com", 1},
		{"paypa111.com", 1}, // repeated run only
	}

	for _, tt := range tests {
		t.Run(tt.domainName, func(t *testing.T) {
			f := ExtractFeatures(&domain.ParsedEmail{
				URLs: []domain.URLInfo{{Domain: tt.domainName}},
			})
			assert.Equal(t, tt.want, f.LookalikeScore)
		})
	}
}

func TestHasRepeatedRun(t *testing.T) {
	assert.True(t, hasRepeatedRun("aaa", 3))
	assert.True(t, hasRepeatedRun("xyzzzz.com", 3))
	assert.False(t, hasRepeatedRun("aabbaabb", 3))
	assert.False(t, hasRepeatedRun("", 3))
}

func TestScore_ReasonOrderFollowsRuleOrder(t *testing.T) {
	parsed := &domain.ParsedEmail{
		Headers:  map[string]string{"subject": "verify account"},
		BodyText: "you won $100!!!!",
		URLs:     []domain.URLInfo{{URL: "https://bit.ly/a", Domain: "bit.ly", IsShortened: true}},
		Entities: []domain.Entity{{Type: domain.EntityMoney, Text: "$100", Confidence: 0.8}},
	}

	assessment := Score(parsed)

	require.Equal(t,
		"Suspicious keywords detected (2); Shortened URLs detected (1); Money amounts mentioned (1); Excessive exclamation marks",
		assessment.Reason)
}
