// Package ingestion reduces pasted or forwarded request text to the plain
// form the parser expects, including flattening HTML email bodies.
package ingestion

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// quoteSelectors remove quoted-reply and forwarding chrome that email
// clients wrap around the actual request text.
const quoteSelectors = ".gmail_quote, .gmail_signature, blockquote, .moz-cite-prefix, .OutlookMessageHeader, #divRplyFwdMsg"

// ExtractEmailText flattens an HTML email body into plain text, preserving
// line structure: <br> and the usual block elements become newlines, table
// cells become tab separators so spreadsheet pastes stay tabular.
func ExtractEmailText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse email HTML: %w", err)
	}

	doc.Find("script, style, head, noscript").Remove()
	doc.Find(quoteSelectors).Remove()

	// Table cells separate with tabs: a pasted spreadsheet arriving as an
	// HTML table must still trigger the tabular detector downstream.
	doc.Find("td, th").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\t")
	})
	doc.Find("br").Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithHtml("\n")
	})
	doc.Find("p, div, tr, li, h1, h2, h3, h4").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	text := doc.Text()
	return CleanText(text), nil
}

// IsHTML makes a cheap guess at whether the input is an HTML body rather
// than plain text.
func IsHTML(input string) bool {
	trimmed := strings.TrimSpace(strings.ToLower(input))
	return strings.HasPrefix(trimmed, "<!doctype") ||
		strings.HasPrefix(trimmed, "<html") ||
		strings.Contains(trimmed, "<body") ||
		strings.Contains(trimmed, "<div") ||
		strings.Contains(trimmed, "<br")
}
