package parse

import (
	"fmt"
	"strings"
)

// Canonical section keys.
const (
	SectionHeader         = "header"
	SectionSummary        = "summary"
	SectionSkills         = "skills"
	SectionExperience     = "experience"
	SectionEducation      = "education"
	SectionProjects       = "projects"
	SectionCertifications = "certifications"
	SectionLanguages      = "languages"
	SectionAwards         = "awards"
	SectionLeadership     = "leadership"
	SectionReferences     = "references"
)

// SectionMap maps a canonical section key to the ordered lines under that
// heading. The "header" key is always present and holds the lines preceding
// the first recognized heading.
type SectionMap map[string][]string

// defaultSectionAliases is the heading table: a line becomes a section switch
// only when, after trim/lower-case/colon-strip, it exactly equals one of these
// aliases. Exact equality keeps running sentences that merely contain an alias
// from triggering a spurious switch.
var defaultSectionAliases = map[string][]string{
	SectionSummary: {
		"summary", "objective", "profile", "professional profile", "about",
		"highlights", "career summary", "professional summary",
	},
	SectionSkills: {
		"skills", "technical skills", "core skills", "competencies", "strengths",
		"technical competencies", "areas of expertise", "expertise",
		"capabilities", "key skills", "core competencies",
	},
	SectionExperience: {
		"experience", "work experience", "professional experience",
		"employment history", "work history", "relevant experience",
		"professional history", "career history", "industry experience",
		"volunteer experience", "volunteering",
	},
	SectionEducation: {
		"education", "academic background", "academics", "education & training",
		"training", "coursework", "courses",
	},
	SectionProjects: {
		"projects", "personal projects", "selected projects", "notable projects",
		"portfolio", "case studies", "engagements",
	},
	SectionCertifications: {
		"certifications", "licenses", "licenses & certifications",
		"licences & certifications", "licences", "licenses and certifications",
	},
	SectionLanguages: {
		"languages", "language proficiency",
	},
	SectionAwards: {
		"awards", "honors", "honours", "achievements", "recognition",
		"publications", "press", "media",
	},
	SectionLeadership: {
		"leadership", "leadership experience", "activities", "affiliations",
		"memberships",
	},
	SectionReferences: {
		"references",
	},
}

// Segmenter splits normalized text into named sections using a heading alias
// table. Construct once via NewSegmenter; the alias table is validated there
// so a malformed table fails at engine construction, never per call.
type Segmenter struct {
	aliasToKey map[string]string
}

// NewSegmenter builds a Segmenter from the default alias table.
func NewSegmenter() *Segmenter {
	seg, err := NewSegmenterWithAliases(defaultSectionAliases)
	if err != nil {
		// The default table is static; a failure here is a programming error.
		panic(err)
	}
	return seg
}

// NewSegmenterWithAliases builds a Segmenter from a custom alias table. An
// alias bound to two keys, or an empty alias, is a configuration error.
func NewSegmenterWithAliases(aliases map[string][]string) (*Segmenter, error) {
	index := make(map[string]string)
	for key, names := range aliases {
		if strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("section aliases: empty section key")
		}
		for _, name := range names {
			norm := normalizeHeading(name)
			if norm == "" {
				return nil, fmt.Errorf("section aliases: empty alias under %q", key)
			}
			if existing, ok := index[norm]; ok && existing != key {
				return nil, fmt.Errorf("section aliases: alias %q bound to both %q and %q", norm, existing, key)
			}
			index[norm] = key
		}
	}
	return &Segmenter{aliasToKey: index}, nil
}

// Split scans line by line and groups lines under the most recent recognized
// heading. Lines before the first heading form the implicit "header" section.
func (s *Segmenter) Split(text string) SectionMap {
	sections := SectionMap{SectionHeader: {}}
	current := SectionHeader
	for _, line := range strings.Split(text, "\n") {
		if key, ok := s.headingKey(line); ok {
			current = key
			if _, exists := sections[current]; !exists {
				sections[current] = []string{}
			}
			continue
		}
		sections[current] = append(sections[current], line)
	}
	return sections
}

func (s *Segmenter) headingKey(line string) (string, bool) {
	key, ok := s.aliasToKey[normalizeHeading(line)]
	return key, ok
}

func normalizeHeading(line string) string {
	return strings.TrimSpace(strings.TrimSuffix(strings.ToLower(strings.TrimSpace(line)), ":"))
}

// Lines returns the section's lines, or nil when absent.
func (m SectionMap) Lines(key string) []string {
	return m[key]
}

// Has reports whether the section was recognized in the document.
func (m SectionMap) Has(key string) bool {
	_, ok := m[key]
	return ok
}
