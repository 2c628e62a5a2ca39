package alert

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/imasharanasinghe/phishing-detection-AI/internal/domain"
	"github.com/imasharanasinghe/phishing-detection-AI/internal/ports"
)

// maxAlertLength is the hard cap on any synthesized alert
const maxAlertLength = 400

const (
	defaultProbeTimeout    = 2 * time.Second
	defaultGenerateTimeout = 10 * time.Second
)

// boilerplatePhrases are known prompt echoes stripped from generative output
var boilerplatePhrases = []string{
	"Generate a brief phishing alert:",
	"Brief phishing alert:",
}

// strategy is the alert-generation path chosen for a request
type strategy int

const (
	strategyTemplate strategy = iota
	strategyGenerative
)

// Synthesizer turns a risk assessment into a short human-facing alert.
//
// Two-path design: a capability probe picks the generative or the
// template strategy up front, then the chosen strategy executes. Every
// failure inside the generative path (timeout, transport error, empty
// output) degrades to the deterministic template, so callers always
// receive a non-empty string and never an error. No retries: template
// output is an acceptable terminal result.
type Synthesizer struct {
	generator       ports.TextGenerator
	probeTimeout    time.Duration
	generateTimeout time.Duration
}

// NewSynthesizer creates a synthesizer backed by the given generator.
// A nil generator means the template path is used unconditionally.
func NewSynthesizer(generator ports.TextGenerator) *Synthesizer {
	return &Synthesizer{
		generator:       generator,
		probeTimeout:    defaultProbeTimeout,
		generateTimeout: defaultGenerateTimeout,
	}
}

// WithTimeouts overrides the probe and generation deadlines.
// Non-positive values keep the defaults.
func (s *Synthesizer) WithTimeouts(probe, generate time.Duration) *Synthesizer {
	if probe > 0 {
		s.probeTimeout = probe
	}
	if generate > 0 {
		s.generateTimeout = generate
	}
	return s
}

// Synthesize produces an alert of at most 400 characters for the given
// assessment. It never fails.
func (s *Synthesizer) Synthesize(ctx context.Context, score float64, level domain.RiskLevel, reason string, parsed *domain.ParsedEmail) string {
	if parsed == nil {
		parsed = &domain.ParsedEmail{}
	}

	if s.chooseStrategy(ctx) == strategyGenerative {
		if alert, ok := s.generate(ctx, score, level, reason, parsed); ok {
			return alert
		}
	}
	return s.template(level, reason, parsed)
}

// chooseStrategy probes the backend once under a short timeout.
// Unreachable, unconfigured, or no compatible model all resolve to the
// template strategy.
func (s *Synthesizer) chooseStrategy(ctx context.Context) strategy {
	if s.generator == nil {
		return strategyTemplate
	}

	probeCtx, cancel := context.WithTimeout(ctx, s.probeTimeout)
	defer cancel()

	if !s.generator.Available(probeCtx) {
		return strategyTemplate
	}
	return strategyGenerative
}

// generate runs the generative path. The second return value is false
// whenever the template fallback should be used instead.
func (s *Synthesizer) generate(ctx context.Context, score float64, level domain.RiskLevel, reason string, parsed *domain.ParsedEmail) (string, bool) {
	subject := parsed.SubjectOr("No subject")

	prompt := fmt.Sprintf("Email: %q\nRisk: %s (%.2f)\nIssues: %s\n\nGenerate a brief phishing alert (max 200 chars):",
		head(subject, 50)+"...", level, score, head(reason, 100))

	genCtx, cancel := context.WithTimeout(ctx, s.generateTimeout)
	defer cancel()

	out, err := s.generator.Generate(genCtx, prompt, ports.GenerateOptions{
		Temperature: 0.7,
		MaxTokens:   100,
		Stop:        []string{"\n\n", "Email:", "Risk:"},
	})
	if err != nil {
		return "", false
	}

	out = strings.TrimSpace(out)
	for _, phrase := range boilerplatePhrases {
		out = strings.TrimSpace(strings.ReplaceAll(out, phrase, ""))
	}
	if out == "" {
		return "", false
	}

	return truncate(fmt.Sprintf("[%s] %s", strings.ToUpper(string(level)), out)), true
}

// template builds the deterministic per-level alert
func (s *Synthesizer) template(level domain.RiskLevel, reason string, parsed *domain.ParsedEmail) string {
	subject := head(parsed.SubjectOr("No subject"), 30)

	var b strings.Builder
	switch level {
	case domain.LevelHigh:
		fmt.Fprintf(&b, "🚨 HIGH RISK: Email '%s...' shows strong phishing indicators. ", subject)
		if len(parsed.URLs) > 0 {
			fmt.Fprintf(&b, "Contains %d suspicious link(s). ", len(parsed.URLs))
		}
		if len(parsed.Attachments) > 0 {
			fmt.Fprintf(&b, "Has %d attachment(s). ", len(parsed.Attachments))
		}
		b.WriteString("DO NOT click links or download files. Delete immediately.")

	case domain.LevelMedium:
		fmt.Fprintf(&b, "⚠️ MEDIUM RISK: Email '%s...' has some suspicious elements. ", subject)
		if len(parsed.URLs) > 0 {
			fmt.Fprintf(&b, "Contains %d link(s). ", len(parsed.URLs))
		}
		b.WriteString("Be cautious and verify sender before taking action.")

	default:
		fmt.Fprintf(&b, "✅ LOW RISK: Email '%s...' appears legitimate. ", subject)
		if len(parsed.URLs) > 0 {
			fmt.Fprintf(&b, "Contains %d link(s). ", len(parsed.URLs))
		}
		b.WriteString("Standard precautions recommended.")
	}

	if reason != "" && len(reason) < 100 {
		fmt.Fprintf(&b, " Details: %s", reason)
	}

	return truncate(b.String())
}

// head returns at most n runes of s
func head(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// truncate enforces the alert length cap, keeping the first 397
// characters and appending an ellipsis marker
func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= maxAlertLength {
		return s
	}
	return string(runes[:maxAlertLength-3]) + "..."
}
