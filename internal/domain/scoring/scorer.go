package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/imasharanasinghe/phishing-detection-AI/internal/domain"
)

// Score computes a risk assessment from a parsed email. It is a pure
// function of its input: deterministic, stateless, and it never fails.
// The rule tables above are read-only process-wide constants, so
// concurrent calls need no locking.
//
// Rules are evaluated in a fixed order. Each triggered rule adds its
// weighted contribution and appends a human-readable reason fragment;
// fragments are joined with "; ". The final score is capped at 1.0.
func Score(parsed *domain.ParsedEmail) domain.RiskAssessment {
	f := ExtractFeatures(parsed)

	total := 0.0
	reasons := make([]string, 0, 8)

	if f.KeywordCount > 0 {
		// Capped contribution so a single keyword-dense email cannot
		// saturate the score from this term alone
		capped := f.KeywordCount
		if capped > 5 {
			capped = 5
		}
		total += 0.2 * float64(capped)
		reasons = append(reasons, fmt.Sprintf("Suspicious keywords detected (%d)", f.KeywordCount))
	}

	if f.SuspiciousDomainCount > 0 {
		total += 0.3 * float64(f.SuspiciousDomainCount)
		reasons = append(reasons, fmt.Sprintf("Suspicious domains detected (%d)", f.SuspiciousDomainCount))
	}

	if f.SuspiciousTLDCount > 0 {
		total += 0.2 * float64(f.SuspiciousTLDCount)
		reasons = append(reasons, fmt.Sprintf("Suspicious TLDs detected (%d)", f.SuspiciousTLDCount))
	}

	if f.ShortenedURLCount > 0 {
		total += 0.1 * float64(f.ShortenedURLCount)
		reasons = append(reasons, fmt.Sprintf("Shortened URLs detected (%d)", f.ShortenedURLCount))
	}

	if f.LookalikeScore > 0 {
		total += 0.2 * float64(f.LookalikeScore)
		reasons = append(reasons, fmt.Sprintf("Lookalike domains detected (%d)", f.LookalikeScore))
	}

	if f.MoneyCount > 0 {
		total += 0.15 * float64(f.MoneyCount)
		reasons = append(reasons, fmt.Sprintf("Money amounts mentioned (%d)", f.MoneyCount))
	}

	if f.ExclamationCount > 3 {
		total += 0.1
		reasons = append(reasons, "Excessive exclamation marks")
	}

	if f.CapsRatio > 0.3 {
		total += 0.1
		reasons = append(reasons, "Excessive capitalization")
	}

	// All terms are non-negative, so 0.0 is the natural floor; only the
	// top needs clamping
	score := math.Min(total, 1.0)

	reason := "No suspicious patterns detected"
	if len(reasons) > 0 {
		reason = strings.Join(reasons, "; ")
	}

	return domain.RiskAssessment{
		Score:  score,
		Level:  domain.RiskLevelForScore(score),
		Reason: reason,
	}
}
