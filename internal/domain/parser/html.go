package parser

import (
	stdhtml "html"

	"github.com/microcosm-cc/bluemonday"
)

// htmlPolicy strips all markup, leaving only visible text
var htmlPolicy = bluemonday.StrictPolicy()

// htmlToText renders an HTML fragment to its visible text. Sanitizing
// with the strict policy removes every tag; the surviving text is
// entity-escaped, so it is unescaped afterwards.
func htmlToText(s string) string {
	return stdhtml.UnescapeString(htmlPolicy.Sanitize(s))
}
