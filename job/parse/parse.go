// Package parse extracts a structured job posting from free text using a
// static multi-domain skill dictionary and dedicated patterns for
// years-of-experience phrasing, experience level, salary and benefits.
package parse

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"careermatch-backend/job/model"
)

// defaultSkillDictionary is matched by lower-cased substring containment
// against the posting text. Categories exist only for maintainability; the
// extraction flattens them.
var defaultSkillDictionary = map[string][]string{
	"programming_languages": {
		"python", "javascript", "java", "c++", "c#", "php", "ruby", "go", "rust", "swift",
		"kotlin", "scala", "r", "matlab", "perl", "typescript", "dart", "elixir", "clojure",
	},
	"web_technologies": {
		"react", "angular", "vue", "node.js", "express", "django", "flask", "spring",
		"laravel", "rails", "asp.net", "html", "css", "sass", "less", "webpack", "babel",
	},
	"databases": {
		"mysql", "postgresql", "mongodb", "redis", "elasticsearch", "cassandra",
		"oracle", "sql server", "sqlite", "dynamodb", "neo4j", "influxdb",
	},
	"cloud_platforms": {
		"aws", "azure", "gcp", "google cloud", "heroku", "digitalocean", "linode",
		"cloudflare", "vercel", "netlify",
	},
	"devops_tools": {
		"docker", "kubernetes", "jenkins", "gitlab ci", "github actions", "terraform",
		"ansible", "chef", "puppet", "vagrant", "helm", "prometheus", "grafana",
	},
	"soft_skills": {
		"communication", "leadership", "teamwork", "problem solving", "analytical thinking",
		"project management", "time management", "adaptability", "creativity", "mentoring",
	},
}

// experienceLevels are checked in order; the first containment wins.
var experienceLevels = []string{
	"entry level", "junior", "mid level", "senior", "lead", "principal", "architect",
}

var yearsPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)\s*-\s*(\d+)\s*years?\s*(?:of\s*)?experience`),
	regexp.MustCompile(`(?i)(\d+)\+?\s*years?\s*(?:of\s*)?experience`),
	regexp.MustCompile(`(?i)minimum\s*(\d+)\s*years?`),
	regexp.MustCompile(`(?i)at least\s*(\d+)\s*years?`),
}

var (
	salaryRE = regexp.MustCompile(`(?i)([$£€])\s*(\d[\d,]*(?:\.\d+)?[kK]?)\s*(?:-|to)\s*(?:[$£€]\s*)?(\d[\d,]*(?:\.\d+)?[kK]?)\s*(per\s+(?:year|month|hour)|/\s*(?:yr|mo|hr)|annually|hourly)?`)
	degreeRE = regexp.MustCompile(`(?i)\b(bachelor(?:'s)?|master(?:'s)?|phd|doctorate|associate(?:'s)?)\b[^.\n]*`)

	companyDescPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)about\s+(?:the\s+)?company[:\s]+(.*?)(?:\n\n|\n[A-Z])`),
		regexp.MustCompile(`(?is)company\s+description[:\s]+(.*?)(?:\n\n|\n[A-Z])`),
		regexp.MustCompile(`(?is)who\s+we\s+are[:\s]+(.*?)(?:\n\n|\n[A-Z])`),
	}
	responsibilityPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)responsibilities[:\s]+(.*?)(?:\n\n|\nqualifications|\nrequirements)`),
		regexp.MustCompile(`(?is)what\s+you['’]?ll\s+do[:\s]+(.*?)(?:\n\n|\nqualifications|\nrequirements)`),
		regexp.MustCompile(`(?is)key\s+responsibilities[:\s]+(.*?)(?:\n\n|\nqualifications|\nrequirements)`),
	}
	qualificationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)qualifications[:\s]+(.*?)(?:\n\n|\nbenefits|\nwhat\s+we\s+offer)`),
		regexp.MustCompile(`(?is)requirements[:\s]+(.*?)(?:\n\n|\nbenefits|\nwhat\s+we\s+offer)`),
		regexp.MustCompile(`(?is)what\s+we['’]?re\s+looking\s+for[:\s]+(.*?)(?:\n\n|\nbenefits|\nwhat\s+we\s+offer)`),
	}
	listItemSplitRE = regexp.MustCompile(`[•\-*]\s*|\n\s*`)
	preferredLineRE = regexp.MustCompile(`(?im)^.*\b(?:preferred|nice[ -]to[ -]have|bonus)\b.*$`)
)

// benefitKeywords flag common perks by substring containment.
var benefitKeywords = []struct {
	words []string
	set   func(*model.Benefits)
}{
	{[]string{"health insurance", "medical insurance", "medical, dental", "health, dental"}, func(b *model.Benefits) { b.HealthInsurance = true }},
	{[]string{"401k", "401(k)", "retirement plan", "pension"}, func(b *model.Benefits) { b.Retirement401k = true }},
	{[]string{"paid time off", "pto", "paid vacation", "unlimited vacation"}, func(b *model.Benefits) { b.PaidTimeOff = true }},
	{[]string{"remote work", "work from home", "fully remote"}, func(b *model.Benefits) { b.RemoteWork = true }},
	{[]string{"gym membership", "wellness stipend", "fitness"}, func(b *model.Benefits) { b.GymMembership = true }},
	{[]string{"commuter benefits", "transit", "transportation stipend"}, func(b *model.Benefits) { b.CommuterBenefits = true }},
}

// Parser extracts ParsedJob values from free text. Construct once with
// NewParser and reuse; it is safe for concurrent use.
type Parser struct {
	skills []skillMatcher
}

// skillMatcher matches one dictionary skill. Short alphabetic names ("r",
// "go") require word boundaries so they do not match inside unrelated words;
// everything else matches by substring containment.
type skillMatcher struct {
	name     string
	key      string
	boundary *regexp.Regexp
}

func (m skillMatcher) matches(lowerText string) bool {
	if m.boundary != nil {
		return m.boundary.MatchString(lowerText)
	}
	return strings.Contains(lowerText, m.key)
}

// NewParser validates and flattens the default skill dictionary.
func NewParser() *Parser {
	p, err := NewParserWithDictionary(defaultSkillDictionary)
	if err != nil {
		// The default dictionary is static; a failure here is a programming
		// error.
		panic(err)
	}
	return p
}

// NewParserWithDictionary builds a Parser over a custom skill dictionary. An
// empty dictionary, category or entry is a configuration error.
func NewParserWithDictionary(dict map[string][]string) (*Parser, error) {
	if len(dict) == 0 {
		return nil, fmt.Errorf("skill dictionary: no categories")
	}
	categories := make([]string, 0, len(dict))
	for category := range dict {
		categories = append(categories, category)
	}
	// Stable order keeps extraction deterministic across runs.
	sort.Strings(categories)

	var flat []skillMatcher
	seen := make(map[string]bool)
	for _, category := range categories {
		entries := dict[category]
		if strings.TrimSpace(category) == "" {
			return nil, fmt.Errorf("skill dictionary: empty category name")
		}
		if len(entries) == 0 {
			return nil, fmt.Errorf("skill dictionary: category %q is empty", category)
		}
		for _, skill := range entries {
			s := strings.TrimSpace(skill)
			if s == "" {
				return nil, fmt.Errorf("skill dictionary: empty entry under %q", category)
			}
			key := strings.ToLower(s)
			if seen[key] {
				continue
			}
			seen[key] = true
			m := skillMatcher{name: s, key: key}
			if len(key) <= 2 && !strings.ContainsAny(key, "+#.") {
				m.boundary = regexp.MustCompile(`\b` + regexp.QuoteMeta(key) + `\b`)
			}
			flat = append(flat, m)
		}
	}
	return &Parser{skills: flat}, nil
}

// Parse extracts everything the patterns can find from the posting text.
// Empty input returns the canonical empty job.
func (p *Parser) Parse(text string) model.ParsedJob {
	if strings.TrimSpace(text) == "" {
		return model.EmptyJob()
	}

	j := model.EmptyJob()
	j.Description = text
	lower := strings.ToLower(text)

	j.Title, j.Company.Name = headFields(text)
	j.Company.Description = firstMatch(companyDescPatterns, text, 500)
	j.Location.IsRemote = strings.Contains(lower, "remote")
	j.Location.IsHybrid = strings.Contains(lower, "hybrid")

	required, preferred := p.extractSkills(text)
	j.Requirements.RequiredSkills = required
	j.Requirements.PreferredSkills = preferred
	j.Requirements.ExperienceLevel = extractExperienceLevel(lower)
	j.Requirements.YearsOfExperience = extractYearsExperience(text)
	if m := degreeRE.FindString(text); m != "" {
		j.Requirements.Education = strings.TrimSpace(m)
	}

	j.Salary = extractSalary(text)
	j.Benefits = extractBenefits(lower)
	j.Responsibilities = extractListSection(responsibilityPatterns, text)
	j.Qualifications = extractListSection(qualificationPatterns, text)
	return j
}

// headFields guesses title and company from the first lines of a posting.
// "Title at Company" and "Title - Company" forms are recognized; otherwise
// the first non-blank line is the title.
func headFields(text string) (title, company string) {
	for _, line := range strings.Split(text, "\n") {
		s := strings.TrimSpace(line)
		if s == "" {
			continue
		}
		if i := strings.Index(s, " at "); i > 0 {
			return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+4:])
		}
		if parts := strings.SplitN(s, " - ", 2); len(parts) == 2 {
			return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		}
		return s, ""
	}
	return "", ""
}

// extractSkills matches the dictionary by substring containment. A skill
// whose every occurrence sits on a preferred/nice-to-have line is preferred;
// everything else is required.
func (p *Parser) extractSkills(text string) (required, preferred []string) {
	lower := strings.ToLower(text)
	prefText := strings.ToLower(strings.Join(preferredLineRE.FindAllString(text, -1), "\n"))
	reqText := strings.ToLower(preferredLineRE.ReplaceAllString(text, ""))

	required = []string{}
	preferred = []string{}
	for _, m := range p.skills {
		if !m.matches(lower) {
			continue
		}
		if m.matches(prefText) && !m.matches(reqText) {
			preferred = append(preferred, m.name)
		} else {
			required = append(required, m.name)
		}
	}
	return required, preferred
}

func extractExperienceLevel(lower string) string {
	for _, level := range experienceLevels {
		if strings.Contains(lower, level) {
			return titleCase(level)
		}
	}
	return ""
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func extractYearsExperience(text string) string {
	for _, re := range yearsPatterns {
		if m := re.FindString(text); m != "" {
			return m
		}
	}
	return ""
}

func extractSalary(text string) model.Salary {
	m := salaryRE.FindStringSubmatch(text)
	if m == nil {
		return model.Salary{}
	}
	s := model.Salary{
		Min:      m[2],
		Max:      m[3],
		Currency: currencyName(m[1]),
	}
	period := strings.ToLower(m[4])
	switch {
	case strings.Contains(period, "year"), strings.Contains(period, "yr"), strings.Contains(period, "annual"):
		s.Period = "yearly"
	case strings.Contains(period, "month"), strings.Contains(period, "mo"):
		s.Period = "monthly"
	case strings.Contains(period, "hour"), strings.Contains(period, "hr"):
		s.Period = "hourly"
	}
	return s
}

func currencyName(symbol string) string {
	switch symbol {
	case "$":
		return "USD"
	case "£":
		return "GBP"
	case "€":
		return "EUR"
	}
	return symbol
}

func extractBenefits(lower string) model.Benefits {
	b := model.Benefits{Other: []string{}}
	for _, kw := range benefitKeywords {
		for _, w := range kw.words {
			if strings.Contains(lower, w) {
				kw.set(&b)
				break
			}
		}
	}
	return b
}

// extractListSection finds the first matching section and splits its body on
// bullets or line breaks, keeping at most ten items.
func extractListSection(patterns []*regexp.Regexp, text string) []string {
	out := []string{}
	for _, re := range patterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		for _, item := range listItemSplitRE.Split(m[1], -1) {
			if s := strings.TrimSpace(item); s != "" {
				out = append(out, s)
			}
		}
		break
	}
	if len(out) > 10 {
		out = out[:10]
	}
	return out
}

func firstMatch(patterns []*regexp.Regexp, text string, limit int) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			s := strings.TrimSpace(m[1])
			if len(s) > limit {
				s = s[:limit]
			}
			return s
		}
	}
	return ""
}
