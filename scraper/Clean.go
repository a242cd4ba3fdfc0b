package scraper

import (
	"html"
	"regexp"
	"strings"
)

var (
	tags             = regexp.MustCompile(`<[^>]+>`)
	whitespace       = regexp.MustCompile(`[\s\p{Zs}]+`)
	spaceBeforePunct = regexp.MustCompile(`[\s\p{Zs}]+([.,;?!])`)
)

// CleanText cleans and formats extracted text. HTML entities are
// decoded, remaining HTML tags are removed, runs of whitespace
// (including non-breaking spaces) are collapsed to a single space,
// whitespace before punctuation is removed, and leading and trailing
// whitespace is trimmed.
func CleanText(text string) string {
	text = html.UnescapeString(text)
	text = tags.ReplaceAllString(text, "")
	text = whitespace.ReplaceAllString(text, " ")
	text = spaceBeforePunct.ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}
