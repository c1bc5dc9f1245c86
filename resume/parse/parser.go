// Package parse turns raw resume text into the structured model using
// layout-preserving normalization, heading-based section splitting and
// per-section rule extractors. The parser is deterministic: the same text
// always yields the same result.
package parse

import (
	"strings"
	"time"

	"careermatch-backend/resume/model"
	"careermatch-backend/resume/skills"
)

// skillHintWords flag summary lines that embed skills inline, used when no
// skills section exists.
var skillHintWords = []string{
	"skilled in", "proficient in", "experienced in", "expertise in", "knowledge of",
}

// Parser extracts a structured resume from normalized text. Construct once
// with NewParser and reuse; it is safe for concurrent use.
type Parser struct {
	seg *Segmenter
	now func() time.Time
}

type Option func(*Parser)

// WithAliases replaces the default section heading table.
func WithAliases(aliases map[string][]string) (Option, error) {
	seg, err := NewSegmenterWithAliases(aliases)
	if err != nil {
		return nil, err
	}
	return func(p *Parser) { p.seg = seg }, nil
}

// WithClock fixes the reference time used for ongoing date spans. Tests use
// it; production keeps the default.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) { p.now = now }
}

func NewParser(opts ...Option) *Parser {
	p := &Parser{seg: NewSegmenter(), now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse extracts everything the rules can find. Empty or whitespace-only
// input returns the canonical empty resume rather than an error; fields the
// heuristics cannot find stay empty and are listed in MissingFields.
func (p *Parser) Parse(text string) model.ParsedResume {
	text = Normalize(text)
	if strings.TrimSpace(text) == "" {
		return model.EmptyResume()
	}

	sections := p.seg.Split(text)

	r := model.EmptyResume()
	r.RawText = text
	r.PersonalInfo = extractPersonalInfo(sections)
	r.Summary = extractSummary(sections.Lines(SectionSummary))
	r.Skills = skills.Extract(p.skillLines(sections))
	r.Experience = extractExperience(sections.Lines(SectionExperience))
	r.Education = extractEducation(sections.Lines(SectionEducation))
	r.Projects = extractProjects(sections.Lines(SectionProjects))
	r.Certifications = extractCertifications(sections.Lines(SectionCertifications))
	r.Languages = extractLanguages(sections.Lines(SectionLanguages))
	r.Awards = extractAwards(sections.Lines(SectionAwards))

	if r.PersonalInfo.Location == "" {
		r.PersonalInfo.Location = majorityVoteLocation(
			sections.Lines(SectionHeader), text, r.Experience, r.Education)
	}
	r.TotalExperienceYears = TotalExperienceYears(experienceSpans(r.Experience), p.now())
	r.MissingFields = missingFields(&r)
	return r
}

// skillLines returns the skills section, or summary lines that hint at
// inline skills when no skills section exists.
func (p *Parser) skillLines(sections SectionMap) []string {
	if lines := sections.Lines(SectionSkills); len(lines) > 0 {
		return lines
	}
	var hinted []string
	for _, line := range sections.Lines(SectionSummary) {
		lower := strings.ToLower(line)
		for _, hint := range skillHintWords {
			if strings.Contains(lower, hint) {
				hinted = append(hinted, line)
				break
			}
		}
	}
	return hinted
}

// Merge overlays an externally produced resume (an AI extraction) onto the
// rule-based one. The external value wins wherever it is non-empty; rules
// only backfill what it left blank. Metadata fields stay rule-based.
func Merge(external, rules model.ParsedResume) model.ParsedResume {
	out := external

	mergeStr(&out.PersonalInfo.Name, rules.PersonalInfo.Name)
	mergeStr(&out.PersonalInfo.Email, rules.PersonalInfo.Email)
	mergeStr(&out.PersonalInfo.Phone, rules.PersonalInfo.Phone)
	mergeStr(&out.PersonalInfo.Location, rules.PersonalInfo.Location)
	mergeStr(&out.PersonalInfo.LinkedIn, rules.PersonalInfo.LinkedIn)
	mergeStr(&out.PersonalInfo.GitHub, rules.PersonalInfo.GitHub)
	mergeStr(&out.PersonalInfo.Website, rules.PersonalInfo.Website)
	mergeStr(&out.Summary, rules.Summary)

	if out.Skills.Empty() {
		out.Skills = rules.Skills
	}
	if len(out.Experience) == 0 {
		out.Experience = rules.Experience
	}
	if len(out.Education) == 0 {
		out.Education = rules.Education
	}
	if len(out.Projects) == 0 {
		out.Projects = rules.Projects
	}
	if len(out.Certifications) == 0 {
		out.Certifications = rules.Certifications
	}
	if len(out.Languages) == 0 {
		out.Languages = rules.Languages
	}
	if len(out.Awards) == 0 {
		out.Awards = rules.Awards
	}

	out.RawText = rules.RawText
	out.TotalExperienceYears = TotalExperienceYears(experienceSpans(out.Experience), time.Now())
	out.MissingFields = missingFields(&out)
	return out
}

func mergeStr(dst *string, fallback string) {
	if strings.TrimSpace(*dst) == "" {
		*dst = fallback
	}
}

func experienceSpans(entries []model.ExperienceEntry) []EntrySpan {
	spans := make([]EntrySpan, 0, len(entries))
	for _, e := range entries {
		spans = append(spans, EntrySpan{Start: e.StartDate, End: e.EndDate})
	}
	return spans
}

// missingFields lists fields the extraction could not find, as a diagnostic
// rather than an error.
func missingFields(r *model.ParsedResume) []string {
	var missing []string
	if r.PersonalInfo.Name == "" {
		missing = append(missing, "name")
	}
	if r.PersonalInfo.Email == "" {
		missing = append(missing, "email")
	}
	if r.PersonalInfo.Phone == "" {
		missing = append(missing, "phone")
	}
	if r.PersonalInfo.Location == "" {
		missing = append(missing, "location")
	}
	if r.Skills.Empty() {
		missing = append(missing, "skills")
	}
	if len(r.Experience) == 0 {
		missing = append(missing, "experience")
	}
	if len(r.Education) == 0 {
		missing = append(missing, "education")
	}
	if r.Summary == "" {
		missing = append(missing, "summary")
	}
	return missing
}
