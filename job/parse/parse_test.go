package parse

import (
	"reflect"
	"strings"
	"testing"
)

const samplePosting = `Senior Backend Engineer at Initech
Remote (US) with hybrid option in Austin, TX

We need a senior engineer with 5+ years of experience building services
in Python and Go against PostgreSQL, deployed on AWS with Docker.
Bachelor's degree in computer science or equivalent.

Responsibilities:
- Design and ship backend services
- Own production reliability

Requirements:
- Strong Python and Go
- PostgreSQL at scale

Kubernetes experience is preferred.

Benefits: health insurance, 401k and unlimited vacation. Salary $140,000 - $180,000 per year.
`

func TestParsePostingHeadFields(t *testing.T) {
	p := NewParser()
	j := p.Parse(samplePosting)

	if j.Title != "Senior Backend Engineer" {
		t.Errorf("title = %q", j.Title)
	}
	if j.Company.Name != "Initech" {
		t.Errorf("company = %q", j.Company.Name)
	}
	if !j.Location.IsRemote || !j.Location.IsHybrid {
		t.Errorf("location flags = %+v", j.Location)
	}
}

func TestParsePostingSkills(t *testing.T) {
	j := NewParser().Parse(samplePosting)

	for _, want := range []string{"python", "go", "postgresql", "aws", "docker"} {
		if !containsSkill(j.Requirements.RequiredSkills, want) {
			t.Errorf("required skills missing %q: %v", want, j.Requirements.RequiredSkills)
		}
	}
	if !containsSkill(j.Requirements.PreferredSkills, "kubernetes") {
		t.Errorf("preferred skills missing kubernetes: %v", j.Requirements.PreferredSkills)
	}
	if containsSkill(j.Requirements.RequiredSkills, "kubernetes") {
		t.Errorf("kubernetes should be preferred only: %v", j.Requirements.RequiredSkills)
	}
}

func TestParsePostingRequirements(t *testing.T) {
	j := NewParser().Parse(samplePosting)

	if j.Requirements.ExperienceLevel != "Senior" {
		t.Errorf("experience level = %q", j.Requirements.ExperienceLevel)
	}
	if j.Requirements.YearsOfExperience == "" || !strings.Contains(j.Requirements.YearsOfExperience, "5") {
		t.Errorf("years of experience = %q", j.Requirements.YearsOfExperience)
	}
	if !strings.Contains(strings.ToLower(j.Requirements.Education), "bachelor") {
		t.Errorf("education = %q", j.Requirements.Education)
	}
}

func TestParsePostingSalaryAndBenefits(t *testing.T) {
	j := NewParser().Parse(samplePosting)

	if j.Salary.Min != "140,000" || j.Salary.Max != "180,000" {
		t.Errorf("salary = %+v", j.Salary)
	}
	if j.Salary.Currency != "USD" || j.Salary.Period != "yearly" {
		t.Errorf("salary currency/period = %+v", j.Salary)
	}
	if !j.Benefits.HealthInsurance || !j.Benefits.Retirement401k || !j.Benefits.PaidTimeOff {
		t.Errorf("benefits = %+v", j.Benefits)
	}
}

func TestParsePostingSections(t *testing.T) {
	j := NewParser().Parse(samplePosting)

	if len(j.Responsibilities) != 2 {
		t.Fatalf("responsibilities = %v", j.Responsibilities)
	}
	if j.Responsibilities[0] != "Design and ship backend services" {
		t.Errorf("first responsibility = %q", j.Responsibilities[0])
	}
	if len(j.Qualifications) == 0 {
		t.Errorf("expected qualifications")
	}
}

func TestParseEmptyPosting(t *testing.T) {
	j := NewParser().Parse("   \n ")

	if j.Title != "" || j.Company.Name != "" {
		t.Errorf("head fields = %q / %q", j.Title, j.Company.Name)
	}
	if j.Requirements.RequiredSkills == nil || j.Requirements.PreferredSkills == nil ||
		j.Responsibilities == nil || j.Qualifications == nil {
		t.Fatalf("list fields must be non-nil")
	}
	if len(j.AllSkills()) != 0 {
		t.Errorf("skills = %v", j.AllSkills())
	}
}

func TestShortSkillNamesNeedWordBoundaries(t *testing.T) {
	j := NewParser().Parse("We are hiring a programmer. Good communication required.")

	// "r" and "go" must not match inside "programmer" or "good".
	if containsSkill(j.Requirements.RequiredSkills, "r") {
		t.Errorf("matched r inside another word: %v", j.Requirements.RequiredSkills)
	}
	if containsSkill(j.Requirements.RequiredSkills, "go") {
		t.Errorf("matched go inside another word: %v", j.Requirements.RequiredSkills)
	}
	if !containsSkill(j.Requirements.RequiredSkills, "communication") {
		t.Errorf("expected communication: %v", j.Requirements.RequiredSkills)
	}
}

func TestDictionaryValidation(t *testing.T) {
	cases := []struct {
		name string
		dict map[string][]string
	}{
		{"empty dictionary", map[string][]string{}},
		{"empty category", map[string][]string{"langs": {}}},
		{"empty entry", map[string][]string{"langs": {"go", " "}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewParserWithDictionary(tc.dict); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestParseDeterministic(t *testing.T) {
	p := NewParser()
	first := p.Parse(samplePosting)
	second := p.Parse(samplePosting)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("parse is not deterministic")
	}
}

func containsSkill(skills []string, want string) bool {
	for _, s := range skills {
		if strings.EqualFold(s, want) {
			return true
		}
	}
	return false
}
