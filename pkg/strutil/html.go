package strutil

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy = sync.OnceValue(bluemonday.StrictPolicy)
	safePolicy   = sync.OnceValue(func() *bluemonday.Policy {
		p := bluemonday.NewPolicy()
		p.AllowStandardURLs()
		p.AllowElements(
			"p", "br",
			"strong", "b", "em", "i",
			"ul", "ol", "li",
			"code", "pre", "blockquote",
		)
		p.AllowAttrs("href").OnElements("a")
		p.RequireNoFollowOnLinks(true)
		return p
	})
)

// StripHTML removes every tag from s and returns plain text with entities
// decoded and surrounding whitespace trimmed.
func StripHTML(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy().Sanitize(s)))
}

// SanitizeHTML keeps safe formatting tags (paragraphs, emphasis, lists,
// code, links) and drops scripts, event handlers and javascript: URLs.
func SanitizeHTML(s string) string {
	return safePolicy().Sanitize(s)
}

// SanitizeHTMLWith applies a custom policy. A nil policy returns s unchanged.
func SanitizeHTMLWith(s string, p *bluemonday.Policy) string {
	if p == nil {
		return s
	}
	return p.Sanitize(s)
}
