package parse

import (
	"regexp"
	"strings"

	"careermatch-backend/resume/model"
)

var (
	// eduHeadRE matches the two-line layout's first line: institution followed
	// by a date span, e.g. "State University Sep 2016 - Jun 2020".
	eduHeadRE     = regexp.MustCompile(`^(.+?)\s+(` + dateStartPart + `)\s*(?:[-–—]|to)\s*(` + dateEndPart + `)$`)
	eduLocLineRE  = regexp.MustCompile(`(.+?)\s+([A-Za-z][A-Za-z .'\-]+,\s*[A-Za-z .'\-]+)$`)
	degreeWordRE  = regexp.MustCompile(`(?i)(Bachelor|Master|B\.|M\.|PhD|Diploma|Certificate|Postgraduate)`)
	schoolWordRE  = regexp.MustCompile(`(?i)(University|College|Institute|School)`)
	anyYearRE     = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	certSplitRE   = regexp.MustCompile(`\s*[|\-–—]\s*`)
	listSplitRE   = regexp.MustCompile(`[,/|;]`)
	projectTechRE = regexp.MustCompile(`(?i)(?:Developed with|Tech|Technolog(?:y|ies)|Stack)\s*[:\-]\s*(.+)`)
)

// extractEducation parses education blocks. The preferred layout is two
// lines, institution plus date span then degree plus location; a single
// header line split on delimiters is the fallback. The graduation year is
// the last 19xx/20xx token anywhere in the block.
func extractEducation(lines []string) []model.EducationEntry {
	entries := []model.EducationEntry{}
	for _, block := range splitBlocks(lines) {
		entries = append(entries, parseEducationBlock(block))
	}
	return entries
}

func parseEducationBlock(block []string) model.EducationEntry {
	var e model.EducationEntry

	head := strings.TrimSpace(block[0])
	if m := eduHeadRE.FindStringSubmatch(head); m != nil {
		e.Institution = strings.TrimSpace(m[1])
		e.StartDate = strings.TrimSpace(m[2])
		e.EndDate = strings.TrimSpace(m[3])
		if len(block) > 1 {
			line2 := strings.TrimSpace(block[1])
			if lm := eduLocLineRE.FindStringSubmatch(line2); lm != nil {
				e.Degree = strings.TrimSpace(lm[1])
				e.Location = strings.TrimSpace(lm[2])
			} else {
				e.Degree = line2
			}
		}
	}

	if e.Institution == "" {
		parts := headerParts(block[0])
		if len(parts) > 0 {
			if degreeWordRE.MatchString(parts[0]) {
				e.Degree = parts[0]
			} else {
				e.Institution = parts[0]
			}
		}
		if len(parts) > 1 {
			if e.Institution == "" && schoolWordRE.MatchString(parts[1]) {
				e.Institution = parts[1]
			} else {
				e.Location = parts[1]
			}
		}
		if len(parts) > 2 && e.Location == "" {
			e.Location = parts[2]
		}
	}

	if years := anyYearRE.FindAllString(strings.Join(block, " "), -1); len(years) > 0 {
		e.GraduationYear = years[len(years)-1]
	}
	return e
}
