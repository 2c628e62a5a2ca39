package scoring

import "regexp"

// suspiciousKeywords are phrases characteristic of phishing lures.
// Matching is substring-based over the lower-cased subject+body, with
// no word-boundary requirement, and every occurrence counts.
var suspiciousKeywords = []string{
	"urgent", "verify", "password", "suspended", "invoice", "payment",
	"account", "security", "update", "confirm", "immediately", "expired",
	"click here", "verify now", "unusual activity", "suspicious login",
	"reset password", "account locked", "verify identity", "tax refund",
	"lottery winner", "congratulations", "free money", "act now",
}

// suspiciousDomains are known typosquats of major brands
var suspiciousDomains = []string{
	"paypa1.com", "apple-id.support", "microsofft.com", "amazom.com",
	"goog1e.com", "faceb00k.com", "twitt3r.com", "instagr4m.com",
}

// lookalikePatterns flag domains that imitate brand names through
// character substitution. Intentionally crude: any domain interleaving
// digits and letters matches, so legitimate domains trip it too. Kept
// as-is because the false-positive rate is an accepted trade-off for
// this rule's weight.
var lookalikePatterns = []*regexp.Regexp{
	regexp.MustCompile(`[0-9]+[a-z]+[0-9]+`),
	regexp.MustCompile(`[a-z]+[0-9]+[a-z]+`),
}

// hasRepeatedRun reports whether any character repeats at least n times
// consecutively. This is the third lookalike pattern; RE2 has no
// backreferences, so the classic (.)\1{2,} is expressed as a scan.
func hasRepeatedRun(s string, n int) bool {
	run := 0
	var prev rune
	for i, r := range s {
		if i > 0 && r == prev {
			run++
		} else {
			run = 1
		}
		if run >= n {
			return true
		}
		prev = r
	}
	return false
}
