package parse

import (
	"regexp"
	"strings"
)

var (
	cidRE        = regexp.MustCompile(`\(cid:\d+\)`)
	multispaceRE = regexp.MustCompile(`[ \t]+`)
)

// bulletGlyphs are rewritten to a canonical "- " prefix so downstream
// extractors see a single bullet style regardless of the source document.
var bulletGlyphs = []string{"•", "◦", "▪", "■", "–", "—", "-", "●", "∙", "·", "►", "♦"}

// Normalize cleans raw extracted text while preserving line structure: glyph
// code remnants are removed, bullet variants become "- ", and intra-line runs
// of spaces/tabs collapse to one. Lines are never merged. Deterministic.
func Normalize(text string) string {
	text = cidRE.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	for _, glyph := range bulletGlyphs {
		text = strings.ReplaceAll(text, glyph, "- ")
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(multispaceRE.ReplaceAllString(line, " "))
	}
	return strings.Join(lines, "\n")
}
