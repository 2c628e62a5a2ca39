package scoring

import (
	"strings"
	"unicode"

	"github.com/imasharanasinghe/phishing-detection-AI/internal/domain"
)

// Features holds the rule inputs extracted from a parsed email.
// All counts are recomputed here from the parsed sequences rather than
// trusted from ParsedEmail.Metadata.
type Features struct {
	KeywordCount          int
	URLCount              int
	SuspiciousDomainCount int
	SuspiciousTLDCount    int
	ShortenedURLCount     int
	LookalikeScore        int
	EmailCount            int
	PhoneCount            int
	MoneyCount            int
	ExclamationCount      int
	QuestionCount         int
	CapsRatio             float64
}

// ExtractFeatures computes the rule features for a parsed email.
// Keyword matching runs over the lower-cased subject+body; the text
// statistics run over the original-case text so the capitalization
// signal survives.
func ExtractFeatures(parsed *domain.ParsedEmail) Features {
	if parsed == nil {
		parsed = &domain.ParsedEmail{}
	}

	fullText := parsed.Headers["subject"] + " " + parsed.BodyText
	lowerText := strings.ToLower(fullText)

	f := Features{URLCount: len(parsed.URLs)}

	for _, kw := range suspiciousKeywords {
		f.KeywordCount += strings.Count(lowerText, kw)
	}

	for _, u := range parsed.URLs {
		host := strings.ToLower(u.Domain)
		if containsAny(host, suspiciousDomains) {
			f.SuspiciousDomainCount++
		}
		if containsAny(host, domain.SuspiciousTLDs) {
			f.SuspiciousTLDCount++
		}
		if u.IsShortened {
			f.ShortenedURLCount++
		}
		// A single URL can contribute up to 3 lookalike points
		for _, p := range lookalikePatterns {
			if p.MatchString(u.Domain) {
				f.LookalikeScore++
			}
		}
		if hasRepeatedRun(u.Domain, 3) {
			f.LookalikeScore++
		}
	}

	for _, e := range parsed.Entities {
		switch e.Type {
		case domain.EntityEmail:
			f.EmailCount++
		case domain.EntityPhone:
			f.PhoneCount++
		case domain.EntityMoney:
			f.MoneyCount++
		}
	}

	f.ExclamationCount = strings.Count(fullText, "!")
	f.QuestionCount = strings.Count(fullText, "?")
	f.CapsRatio = capsRatio(fullText)

	return f
}

// capsRatio is the share of uppercase characters among all characters,
// 0 for empty text
func capsRatio(text string) float64 {
	if text == "" {
		return 0
	}
	upper, total := 0, 0
	for _, r := range text {
		total++
		if unicode.IsUpper(r) {
			upper++
		}
	}
	return float64(upper) / float64(total)
}

// containsAny checks if text contains any of the needles
func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}
