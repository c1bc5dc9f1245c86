package parse

import (
	"reflect"
	"testing"
	"time"

	"careermatch-backend/resume/model"
)

func fixedClock() time.Time {
	return time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
}

func newTestParser(t *testing.T) *Parser {
	t.Helper()
	return NewParser(WithClock(fixedClock))
}

const sampleResume = `Jane Doe
jane@example.com | +1 555 123 4567 | San Francisco, CA
linkedin.com/in/janedoe | github.com/janedoe

Summary
Backend engineer with eight years of experience building services.

Skills
Technical:
Go, Postgres, AWS
Soft Skills:
leadership

Experience
Software Engineer - Acme Inc - Remote
Jan 2022 - Present
- Built APIs

Staff Engineer - Globex - San Francisco, CA
Jan 2020 - Dec 2021
- Led the platform team

Education
Bachelor of Science - State University - 2020
`

func TestParseFullResume(t *testing.T) {
	r := newTestParser(t).Parse(sampleResume)

	if r.PersonalInfo.Name != "Jane Doe" {
		t.Errorf("name = %q", r.PersonalInfo.Name)
	}
	if r.PersonalInfo.Email != "jane@example.com" {
		t.Errorf("email = %q", r.PersonalInfo.Email)
	}
	if r.PersonalInfo.Phone == "" {
		t.Errorf("expected phone")
	}
	if r.PersonalInfo.LinkedIn != "https://linkedin.com/in/janedoe" {
		t.Errorf("linkedin = %q", r.PersonalInfo.LinkedIn)
	}
	if r.PersonalInfo.GitHub != "https://github.com/janedoe" {
		t.Errorf("github = %q", r.PersonalInfo.GitHub)
	}
	if r.Summary == "" {
		t.Errorf("expected summary")
	}
	if !reflect.DeepEqual(r.Skills.Technical, []string{"Go", "Postgres", "AWS"}) {
		t.Errorf("technical skills = %v", r.Skills.Technical)
	}
	if !reflect.DeepEqual(r.Skills.Soft, []string{"leadership"}) {
		t.Errorf("soft skills = %v", r.Skills.Soft)
	}
	if len(r.Experience) != 2 {
		t.Fatalf("experience entries = %d", len(r.Experience))
	}
	if len(r.Education) != 1 {
		t.Fatalf("education entries = %d", len(r.Education))
	}
}

func TestParseExperienceBlock(t *testing.T) {
	text := "Experience\nSoftware Engineer - Acme Inc - Remote\nJan 2022 - Present\n- Built APIs"
	r := newTestParser(t).Parse(text)

	if len(r.Experience) != 1 {
		t.Fatalf("experience entries = %d", len(r.Experience))
	}
	got := r.Experience[0]
	want := model.ExperienceEntry{
		Title:       "Software Engineer",
		Company:     "Acme Inc",
		Location:    "Remote",
		StartDate:   "Jan 2022",
		EndDate:     "Present",
		Description: []string{"Built APIs"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("entry = %+v, want %+v", got, want)
	}
}

func TestParseExperienceDateFirstLayout(t *testing.T) {
	text := "Experience\nJan 2022 - Present\nSoftware Engineer - Acme Inc\n- Built APIs"
	r := newTestParser(t).Parse(text)

	if len(r.Experience) != 1 {
		t.Fatalf("experience entries = %d", len(r.Experience))
	}
	got := r.Experience[0]
	if got.Title != "Software Engineer" || got.Company != "Acme Inc" {
		t.Fatalf("header = %q / %q", got.Title, got.Company)
	}
	if !reflect.DeepEqual(got.Description, []string{"Built APIs"}) {
		t.Fatalf("description = %v", got.Description)
	}
}

func TestParseEmptyInput(t *testing.T) {
	p := newTestParser(t)
	for _, text := range []string{"", "   ", "\n\t\n", "\x00\x01"} {
		r := p.Parse(text)
		if r.PersonalInfo != (model.PersonalInfo{}) {
			t.Errorf("Parse(%q) personal info = %+v", text, r.PersonalInfo)
		}
		if !r.Skills.Empty() {
			t.Errorf("Parse(%q) skills = %+v", text, r.Skills)
		}
		if r.Experience == nil || r.Education == nil || r.Projects == nil ||
			r.Certifications == nil || r.Languages == nil || r.Awards == nil {
			t.Errorf("Parse(%q) returned nil list field", text)
		}
		if len(r.Experience) != 0 || len(r.Education) != 0 {
			t.Errorf("Parse(%q) found entries in empty input", text)
		}
	}
}

func TestParseIdempotent(t *testing.T) {
	p := newTestParser(t)
	first := p.Parse(sampleResume)
	second := p.Parse(sampleResume)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("parse is not deterministic")
	}
}

func TestParseTotalExperienceYears(t *testing.T) {
	// Jan 2022 to the fixed clock (Jan 2024) is 24 months, plus Jan 2020 to
	// Dec 2021 is 23 months.
	r := newTestParser(t).Parse(sampleResume)
	if r.TotalExperienceYears != 3.9 {
		t.Fatalf("total experience years = %.1f", r.TotalExperienceYears)
	}
}

func TestParseLocationMajorityVote(t *testing.T) {
	r := newTestParser(t).Parse(sampleResume)
	if r.PersonalInfo.Location != "San Francisco, CA" {
		t.Fatalf("location = %q", r.PersonalInfo.Location)
	}
}

func TestParseEducationFallbackLayout(t *testing.T) {
	text := "Education\nBachelor of Science - State University - 2020"
	r := newTestParser(t).Parse(text)

	if len(r.Education) != 1 {
		t.Fatalf("education entries = %d", len(r.Education))
	}
	got := r.Education[0]
	if got.Degree != "Bachelor of Science" {
		t.Errorf("degree = %q", got.Degree)
	}
	if got.Institution != "State University" {
		t.Errorf("institution = %q", got.Institution)
	}
	if got.GraduationYear != "2020" {
		t.Errorf("graduation year = %q", got.GraduationYear)
	}
}

func TestParseEducationTwoLineLayout(t *testing.T) {
	text := "Education\nState University Sep 2016 - Jun 2020\nBachelor of Science"
	r := newTestParser(t).Parse(text)

	if len(r.Education) != 1 {
		t.Fatalf("education entries = %d", len(r.Education))
	}
	got := r.Education[0]
	if got.Institution != "State University" {
		t.Errorf("institution = %q", got.Institution)
	}
	if got.StartDate != "Sep 2016" || got.EndDate != "Jun 2020" {
		t.Errorf("dates = %q / %q", got.StartDate, got.EndDate)
	}
	if got.Degree != "Bachelor of Science" {
		t.Errorf("degree = %q", got.Degree)
	}
}

func TestParseMissingFieldsDiagnostic(t *testing.T) {
	r := newTestParser(t).Parse("just a single line of text here")
	want := map[string]bool{
		"email": true, "phone": true, "location": true,
		"skills": true, "experience": true, "education": true, "summary": true,
	}
	for _, f := range r.MissingFields {
		delete(want, f)
	}
	if len(want) != 0 {
		t.Fatalf("missing fields lack %v (got %v)", want, r.MissingFields)
	}
}

func TestParseSkillsFromSummaryHints(t *testing.T) {
	text := "Summary\nSkilled in Go, Postgres and Docker"
	r := newTestParser(t).Parse(text)
	if r.Skills.Empty() {
		t.Fatalf("expected hinted skills, got none")
	}
}

func TestMergePrefersExternalBackfillsRules(t *testing.T) {
	rules := newTestParser(t).Parse(sampleResume)
	external := model.EmptyResume()
	external.PersonalInfo.Name = "Jane A. Doe"
	external.Summary = "AI-extracted summary."

	merged := Merge(external, rules)

	if merged.PersonalInfo.Name != "Jane A. Doe" {
		t.Errorf("name = %q", merged.PersonalInfo.Name)
	}
	if merged.Summary != "AI-extracted summary." {
		t.Errorf("summary = %q", merged.Summary)
	}
	// Fields the external parse left blank fall back to the rule-based result.
	if merged.PersonalInfo.Email != rules.PersonalInfo.Email {
		t.Errorf("email = %q", merged.PersonalInfo.Email)
	}
	if !reflect.DeepEqual(merged.Skills, rules.Skills) {
		t.Errorf("skills = %+v", merged.Skills)
	}
	if len(merged.Experience) != len(rules.Experience) {
		t.Errorf("experience = %v", merged.Experience)
	}
	if merged.RawText != rules.RawText {
		t.Errorf("raw text should stay rule-based")
	}
}

func TestNormalizeBulletsAndWhitespace(t *testing.T) {
	got := Normalize("• item one\r\nitem\t\ttwo   spaced\n(cid:12)three")
	want := "- item one\nitem two spaced\nthree"
	if got != want {
		t.Fatalf("normalize = %q, want %q", got, want)
	}
}

func TestSegmenterRejectsAmbiguousAliases(t *testing.T) {
	_, err := NewSegmenterWithAliases(map[string][]string{
		"skills":     {"skills"},
		"experience": {"skills"},
	})
	if err == nil {
		t.Fatalf("expected error for alias bound to two sections")
	}
}

func TestSegmenterHeaderBeforeFirstHeading(t *testing.T) {
	seg := NewSegmenter()
	sections := seg.Split("Jane Doe\njane@example.com\nExperience\nAcme")

	if !reflect.DeepEqual(sections.Lines(SectionHeader), []string{"Jane Doe", "jane@example.com"}) {
		t.Fatalf("header = %v", sections.Lines(SectionHeader))
	}
	if !reflect.DeepEqual(sections.Lines(SectionExperience), []string{"Acme"}) {
		t.Fatalf("experience = %v", sections.Lines(SectionExperience))
	}
	if sections.Has(SectionSkills) {
		t.Fatalf("unexpected skills section")
	}
}

func TestHeadingRequiresExactMatch(t *testing.T) {
	seg := NewSegmenter()
	sections := seg.Split("header line\nMy experience at Acme was great")

	// A sentence containing the word "experience" must not switch sections.
	if sections.Has(SectionExperience) {
		t.Fatalf("sentence treated as heading")
	}
}
