package parse

import (
	"regexp"
	"strings"

	"careermatch-backend/resume/model"
)

// headerSplitRE breaks a heading line like "Senior Engineer | Acme | Remote"
// into title, company and location. Pipe, dash and comma all occur in the
// wild.
var headerSplitRE = regexp.MustCompile(`\s*[|\-–—,]\s*`)

// extractExperience parses the experience section into entries. Blank lines
// separate entries; the date span may appear anywhere in a block. When the
// first line is only a date span, the second line carries the header instead.
func extractExperience(lines []string) []model.ExperienceEntry {
	entries := []model.ExperienceEntry{}
	for _, block := range splitBlocks(lines) {
		entries = append(entries, parseExperienceBlock(block))
	}
	return entries
}

func parseExperienceBlock(block []string) model.ExperienceEntry {
	var e model.ExperienceEntry
	e.StartDate, e.EndDate = findDateSpan(strings.Join(block, " "))

	// A first line that is only the date span means the real header sits on
	// the next line.
	headerIdx := 0
	if first := strings.TrimSpace(block[0]); dateSpanRE.FindString(first) == first && len(block) > 1 {
		headerIdx = 1
	}

	header := headerParts(block[headerIdx])
	if len(header) > 0 {
		e.Title = header[0]
	}
	if len(header) > 1 {
		e.Company = header[1]
	}
	if len(header) > 2 {
		e.Location = header[2]
	}

	e.Description = parseBullets(block[headerIdx+1:])
	return e
}

func headerParts(line string) []string {
	var parts []string
	for _, p := range headerSplitRE.Split(line, -1) {
		if s := strings.TrimSpace(p); s != "" {
			parts = append(parts, s)
		}
	}
	return parts
}

// parseBullets strips the canonical "- " prefix and drops bare dash lines and
// lines that carry only the entry's date span.
func parseBullets(lines []string) []string {
	out := []string{}
	for _, line := range lines {
		s := strings.TrimSpace(line)
		if s == "" || s == "-" || s == "–" || s == "—" {
			continue
		}
		if dateSpanRE.FindString(s) == s {
			continue
		}
		s = strings.TrimSpace(strings.TrimPrefix(s, "- "))
		out = append(out, s)
	}
	return out
}

// splitBlocks groups lines into runs separated by blank lines.
func splitBlocks(lines []string) [][]string {
	var blocks [][]string
	var cur []string
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			if len(cur) > 0 {
				blocks = append(blocks, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, line)
	}
	if len(cur) > 0 {
		blocks = append(blocks, cur)
	}
	return blocks
}
