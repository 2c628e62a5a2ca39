package parser

import (
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/emersion/go-message"
	"github.com/emersion/go-message/charset"
	"golang.org/x/text/encoding/charmap"

	"github.com/imasharanasinghe/phishing-detection-AI/internal/domain"
)

func init() {
	// Register additional charsets that are commonly used in emails
	charset.RegisterEncoding("windows-1252", charmap.Windows1252)
	charset.RegisterEncoding("iso-8859-1", charmap.ISO8859_1)
	charset.RegisterEncoding("iso-8859-15", charmap.ISO8859_15)
}

// recognizedHeaders are the only headers surfaced in ParsedEmail.Headers
var recognizedHeaders = []string{"subject", "from", "to", "date", "message-id", "reply-to"}

var (
	// subjectFallbackPattern recovers the subject line when structural
	// header parsing fails on malformed input
	subjectFallbackPattern = regexp.MustCompile(`(?im)^Subject:\s*(.*)$`)

	urlPattern = regexp.MustCompile("https?://[^\\s<>\"{}|\\\\^`\\[\\]]+")

	attachmentPattern = regexp.MustCompile(`(?i)content-disposition:\s*attachment[^\n]*?filename[=:]\s*["']?([^"'\s;]+)`)

	emailEntityPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phoneEntityPattern = regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`)
	moneyEntityPattern = regexp.MustCompile(`\$\d+(?:,\d{3})*(?:\.\d{2})?`)
)

// Parse turns a raw email message into a ParsedEmail. It never fails:
// any internal extraction error degrades to an empty value for that
// field only, so the scorer always receives a usable record even for
// binary garbage or an empty string.
func Parse(raw string) *domain.ParsedEmail {
	headers := extractHeaders(raw)
	bodyText := extractBody(raw)
	urls := extractURLs(bodyText)
	attachments := extractAttachments(raw)
	entities := extractEntities(bodyText)

	lower := strings.ToLower(raw)

	return &domain.ParsedEmail{
		Headers:     headers,
		BodyText:    bodyText,
		URLs:        urls,
		Attachments: attachments,
		Entities:    entities,
		Metadata: domain.Metadata{
			HasHTML:         strings.Contains(lower, "text/html"),
			IsMultipart:     strings.Contains(lower, "multipart"),
			URLCount:        len(urls),
			AttachmentCount: len(attachments),
			EntityCount:     len(entities),
		},
	}
}

// extractHeaders parses the raw text as an RFC-822-style message and
// collects the recognized headers under lower-cased keys. Values are
// kept as provided (no MIME-word decoding). When structural parsing
// fails it falls back to a regex match for the subject line alone.
func extractHeaders(raw string) map[string]string {
	headers := make(map[string]string)

	ent, err := message.Read(strings.NewReader(raw))
	if err != nil && !message.IsUnknownCharset(err) {
		if m := subjectFallbackPattern.FindStringSubmatch(raw); m != nil {
			headers["subject"] = strings.TrimSpace(m[1])
		}
		return headers
	}

	for _, name := range recognizedHeaders {
		if v := ent.Header.Get(name); v != "" {
			headers[name] = v
		}
	}
	return headers
}

// extractBody renders the message body to plain text. Multipart messages
// are walked in document order; text/plain parts are decoded best-effort
// and text/html parts are stripped to visible text, all joined with
// newlines. Any decode failure returns the original raw input unchanged.
func extractBody(raw string) string {
	ent, err := message.Read(strings.NewReader(raw))
	if err != nil && !message.IsUnknownCharset(err) {
		return raw
	}

	if mr := ent.MultipartReader(); mr != nil {
		var parts []string
		collectTextParts(mr, &parts)
		return strings.Join(parts, "\n")
	}

	body, err := io.ReadAll(ent.Body)
	if err != nil {
		return raw
	}
	if t, _, _ := ent.Header.ContentType(); t == "text/html" {
		return htmlToText(string(body))
	}
	return string(body)
}

// collectTextParts appends the text rendering of every text/plain and
// text/html part, recursing into nested multiparts
func collectTextParts(mr message.MultipartReader, parts *[]string) {
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			return
		}
		if err != nil && !message.IsUnknownCharset(err) {
			return
		}
		if p == nil {
			return
		}

		if sub := p.MultipartReader(); sub != nil {
			collectTextParts(sub, parts)
			continue
		}

		t, _, _ := p.Header.ContentType()
		switch t {
		case "text/plain":
			if b, err := io.ReadAll(p.Body); err == nil {
				*parts = append(*parts, string(b))
			}
		case "text/html":
			if b, err := io.ReadAll(p.Body); err == nil {
				*parts = append(*parts, htmlToText(string(b)))
			}
		}
	}
}

// extractURLs scans the body text in a single pass. A URL whose
// components cannot be decomposed still appears in the output with
// empty fields and both heuristic flags false; URLs are never dropped.
func extractURLs(text string) []domain.URLInfo {
	matches := urlPattern.FindAllString(text, -1)

	urls := make([]domain.URLInfo, 0, len(matches))
	for _, m := range matches {
		info := domain.URLInfo{URL: m}
		if u, err := url.Parse(m); err == nil {
			info.Domain = u.Host
			info.Path = u.Path
			info.Scheme = u.Scheme
			info.IsShortened = len(m) < 30
			info.HasSuspiciousTLD = hasSuspiciousTLD(u.Host)
		}
		urls = append(urls, info)
	}
	return urls
}

func hasSuspiciousTLD(host string) bool {
	host = strings.ToLower(host)
	for _, tld := range domain.SuspiciousTLDs {
		if strings.Contains(host, tld) {
			return true
		}
	}
	return false
}

// extractAttachments scans the raw text for Content-Disposition
// attachment blocks carrying a filename token (quoted or bare)
func extractAttachments(raw string) []domain.Attachment {
	matches := attachmentPattern.FindAllStringSubmatch(raw, -1)

	attachments := make([]domain.Attachment, 0, len(matches))
	for _, m := range matches {
		name := m[1]
		typ := "unknown"
		if i := strings.LastIndex(name, "."); i >= 0 {
			typ = strings.ToLower(name[i+1:])
		}
		attachments = append(attachments, domain.Attachment{Name: name, Type: typ})
	}
	return attachments
}

// extractEntities runs three independent regex passes over the body
// text. Matches are kept in scan order with no cross-pass deduplication.
func extractEntities(text string) []domain.Entity {
	entities := make([]domain.Entity, 0)

	for _, m := range emailEntityPattern.FindAllString(text, -1) {
		entities = append(entities, domain.Entity{Type: domain.EntityEmail, Text: m, Confidence: 0.9})
	}
	for _, m := range phoneEntityPattern.FindAllString(text, -1) {
		entities = append(entities, domain.Entity{Type: domain.EntityPhone, Text: m, Confidence: 0.8})
	}
	for _, m := range moneyEntityPattern.FindAllString(text, -1) {
		entities = append(entities, domain.Entity{Type: domain.EntityMoney, Text: m, Confidence: 0.8})
	}
	return entities
}
