package parse

import (
	"strings"

	"careermatch-backend/resume/model"
)

// extractProjects treats each blank-line-separated block as one project: the
// first line is the name, remaining bullets join into the description, and a
// URL or a "Tech:"-style line anywhere in the block fills the rest.
func extractProjects(lines []string) []model.ProjectEntry {
	projects := []model.ProjectEntry{}
	for _, block := range splitBlocks(lines) {
		p := model.ProjectEntry{
			Name:         strings.TrimSpace(block[0]),
			Technologies: []string{},
		}
		if len(block) > 1 {
			p.Description = strings.Join(parseBullets(block[1:]), " ")
		}
		joined := strings.Join(block, " ")
		if m := urlRE.FindString(joined); m != "" {
			p.URL = cleanURL(m)
		}
		if m := projectTechRE.FindStringSubmatch(joined); m != nil {
			p.Technologies = splitList(m[1])
		}
		projects = append(projects, p)
	}
	return projects
}

// extractCertifications reads one certification per line, split into name,
// issuer and date on pipe or dash.
func extractCertifications(lines []string) []model.CertificationEntry {
	certs := []model.CertificationEntry{}
	for _, line := range lines {
		s := strings.TrimSpace(line)
		if s == "" {
			continue
		}
		parts := certSplitRE.Split(s, -1)
		c := model.CertificationEntry{Name: strings.TrimSpace(parts[0])}
		if len(parts) > 1 {
			c.Issuer = strings.TrimSpace(parts[1])
		}
		if len(parts) > 2 {
			c.Date = strings.TrimSpace(parts[2])
		}
		certs = append(certs, c)
	}
	return certs
}

func extractLanguages(lines []string) []string {
	out := []string{}
	for _, line := range lines {
		out = append(out, splitList(line)...)
	}
	return out
}

func extractAwards(lines []string) []string {
	out := []string{}
	for _, line := range lines {
		if s := strings.TrimSpace(line); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// extractSummary joins up to six non-blank summary lines into one paragraph.
func extractSummary(lines []string) string {
	var chunk []string
	for _, line := range lines {
		if s := strings.TrimSpace(line); s != "" {
			chunk = append(chunk, s)
		}
		if len(chunk) >= 6 {
			break
		}
	}
	return strings.Join(chunk, " ")
}

// splitList splits a comma, slash, pipe or semicolon separated list, dropping
// empty items.
func splitList(s string) []string {
	var out []string
	for _, p := range listSplitRE.Split(s, -1) {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
