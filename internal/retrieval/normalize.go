// Package retrieval implements the content retrieval core: text
// normalization, semantic chunking, an exact in-memory vector index, and
// distance-thresholded result filtering.
package retrieval

import (
	"regexp"
	"strings"
)

var (
	// A whitespace run containing two or more newlines is a paragraph break.
	blankLineRun = regexp.MustCompile(`[ \t\r\f\v]*\n\s*\n\s*`)
	// Whitespace padding around a surviving single newline.
	newlinePad = regexp.MustCompile(`[ \t\r\f\v]*\n[ \t\r\f\v]*`)
	// Any other whitespace run.
	spaceRun = regexp.MustCompile(`[ \t\r\f\v]+`)

	dashVariants = strings.NewReplacer("–", "-", "—", "-")
)

// Normalize collapses whitespace and punctuation variants in extracted text.
// Blank-line runs become a single newline, which acts as the paragraph marker
// for downstream chunking. Blank-line collapsing must run before general
// whitespace collapsing; reversing the order erases paragraph boundaries.
// Normalize is idempotent and maps empty input to empty output.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	text = blankLineRun.ReplaceAllString(text, "\n")
	text = newlinePad.ReplaceAllString(text, "\n")
	text = spaceRun.ReplaceAllString(text, " ")
	text = dashVariants.Replace(text)
	return strings.TrimSpace(text)
}
