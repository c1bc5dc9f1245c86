package parse

import (
	"regexp"
	"strings"

	"careermatch-backend/resume/model"
)

var (
	emailRE    = regexp.MustCompile(`\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`)
	phoneRE    = regexp.MustCompile(`(?:\+?1[\s\-.]?)?(?:\(?\d{3}\)?[\s\-.]?)\d{3}[\s\-.]?\d{4}`)
	urlRE      = regexp.MustCompile(`(?i)\b(?:https?://|www\.)[^\s)]+`)
	linkedinRE = regexp.MustCompile(`(?i)(?:https?://|www\.)?linkedin\.com/[^\s|]+`)
	githubRE   = regexp.MustCompile(`(?i)(?:https?://|www\.)?github\.com/[^\s|]+`)
	digitRE    = regexp.MustCompile(`\d`)
	innerWSRE  = regexp.MustCompile(`\s+`)
)

// extractPersonalInfo pulls contact details from the whole document, not just
// the header: contact links are frequently placed elsewhere or carried as
// hyperlink annotations appended to the text. Location is left for the
// location resolver.
func extractPersonalInfo(sections SectionMap) model.PersonalInfo {
	header := sections.Lines(SectionHeader)
	var all []string
	for _, lines := range sections {
		all = append(all, lines...)
	}
	allText := strings.Join(all, "\n")

	info := model.PersonalInfo{
		Name:  guessNameFromHeader(header),
		Email: emailRE.FindString(allText),
		Phone: phoneRE.FindString(allText),
	}

	if m := linkedinRE.FindString(allText); m != "" {
		info.LinkedIn = cleanURL(m)
	}
	if m := githubRE.FindString(allText); m != "" {
		info.GitHub = cleanURL(m)
	}
	for _, raw := range urlRE.FindAllString(allText, -1) {
		u := cleanURL(raw)
		lower := strings.ToLower(u)
		switch {
		case strings.Contains(lower, "linkedin.com"):
			if info.LinkedIn == "" {
				info.LinkedIn = u
			}
		case strings.Contains(lower, "github.com"):
			if info.GitHub == "" {
				info.GitHub = u
			}
		case strings.Contains(lower, "mailto:"):
			// skip
		default:
			if info.Website == "" {
				info.Website = u
			}
		}
	}
	return info
}

// guessNameFromHeader scans header lines top-down, skipping lines containing
// digits, and accepts the first 2-8 token line of at most 80 characters.
func guessNameFromHeader(header []string) string {
	for _, line := range header {
		s := strings.TrimSpace(line)
		if s == "" || digitRE.MatchString(s) {
			continue
		}
		tokens := len(strings.Fields(s))
		if tokens >= 2 && tokens <= 8 && len(s) >= 2 && len(s) <= 80 {
			return s
		}
	}
	return ""
}

// cleanURL repairs URLs mangled by text extraction: embedded whitespace and
// zero-width characters are removed, a scheme is ensured, and trailing
// punctuation is trimmed.
func cleanURL(u string) string {
	if u == "" {
		return u
	}
	u = innerWSRE.ReplaceAllString(u, "")
	for _, zw := range []string{"​", "‌", "‍"} {
		u = strings.ReplaceAll(u, zw, "")
	}
	lower := strings.ToLower(u)
	switch {
	case strings.HasPrefix(lower, "www."):
		u = "https://" + u
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"), strings.HasPrefix(lower, "mailto:"):
	default:
		u = "https://" + u
	}
	return strings.TrimRight(u, ").,;")
}
