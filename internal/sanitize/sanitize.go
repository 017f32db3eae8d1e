// Package sanitize turns feed HTML into the plain-text excerpts and image
// URLs the pipeline stores.
package sanitize

import (
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// StripHTML removes all markup and collapses whitespace, returning readable
// plain text.
func StripHTML(raw string) string {
	if raw == "" {
		return ""
	}
	text := strict.Sanitize(raw)
	// bluemonday entity-escapes the surviving text.
	text = html.UnescapeString(text)
	return strings.Join(strings.Fields(text), " ")
}

// Excerpt strips markup and truncates to at most n runes.
func Excerpt(raw string, n int) string {
	return Truncate(StripHTML(raw), n)
}

// Truncate shortens s to at most n runes, appending an ellipsis when
// anything was cut.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// FirstImage returns the src of the first <img> in the fragment, or "".
func FirstImage(raw string) string {
	if raw == "" || !strings.Contains(raw, "<") {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return ""
	}
	src, _ := doc.Find("img[src]").First().Attr("src")
	return src
}
