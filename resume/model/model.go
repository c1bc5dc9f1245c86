package model

// ParsedResume is the structured result of parsing one résumé. It is a
// transient value object: produced once per parse call, owned by the caller,
// never persisted by the parsing packages themselves.
type ParsedResume struct {
	PersonalInfo   PersonalInfo         `json:"personal_info"`
	Summary        string               `json:"summary,omitempty"`
	Skills         SkillSet             `json:"skills"`
	Experience     []ExperienceEntry    `json:"experience"`
	Education      []EducationEntry     `json:"education"`
	Projects       []ProjectEntry       `json:"projects"`
	Certifications []CertificationEntry `json:"certifications"`
	Languages      []string             `json:"languages"`
	Awards         []string             `json:"awards"`
	RawText        string               `json:"raw_text,omitempty"`

	// TotalExperienceYears sums parsed employment date spans, rounded to one
	// decimal. Ongoing roles count up to the parse time.
	TotalExperienceYears float64 `json:"total_experience_years"`

	// MissingFields lists fields the extractors could not recover. Diagnostic
	// only; a pattern miss is never an error.
	MissingFields []string `json:"-"`
}

// PersonalInfo holds contact and identity details. Empty string means the
// field was not found; extractors never guess.
type PersonalInfo struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
	Website  string `json:"website,omitempty"`
}

// ExperienceEntry is one employment record.
type ExperienceEntry struct {
	Title       string   `json:"title,omitempty"`
	Company     string   `json:"company,omitempty"`
	Location    string   `json:"location,omitempty"`
	StartDate   string   `json:"start_date,omitempty"`
	EndDate     string   `json:"end_date,omitempty"` // may be the "Present" sentinel
	Description []string `json:"description"`
}

// EducationEntry is one education record.
type EducationEntry struct {
	Degree         string `json:"degree,omitempty"`
	Institution    string `json:"institution,omitempty"`
	GraduationYear string `json:"graduation_year,omitempty"`
	FieldOfStudy   string `json:"field_of_study,omitempty"`
	Location       string `json:"location,omitempty"`
	StartDate      string `json:"start_date,omitempty"`
	EndDate        string `json:"end_date,omitempty"`
}

// ProjectEntry is one project record.
type ProjectEntry struct {
	Name         string   `json:"name,omitempty"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies"`
	URL          string   `json:"url,omitempty"`
}

// CertificationEntry is one certification or license record.
type CertificationEntry struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer,omitempty"`
	Date   string `json:"date,omitempty"`
	Expiry string `json:"expiry,omitempty"`
}

// SkillSet groups extracted skills into three disjoint buckets. Each bucket is
// de-duplicated case-insensitively while preserving first-seen order. A term
// matching multiple buckets is assigned by fixed priority
// technical > soft > domain.
type SkillSet struct {
	Technical []string `json:"technical"`
	Soft      []string `json:"soft"`
	Domain    []string `json:"domain"`
}

// Empty reports whether no bucket holds any skill.
func (s SkillSet) Empty() bool {
	return len(s.Technical) == 0 && len(s.Soft) == 0 && len(s.Domain) == 0
}

// All returns every skill across buckets in bucket-priority order.
func (s SkillSet) All() []string {
	out := make([]string, 0, len(s.Technical)+len(s.Soft)+len(s.Domain))
	out = append(out, s.Technical...)
	out = append(out, s.Soft...)
	out = append(out, s.Domain...)
	return out
}

// Count returns the total number of skills across buckets.
func (s SkillSet) Count() int {
	return len(s.Technical) + len(s.Soft) + len(s.Domain)
}

// EmptyResume returns a well-formed ParsedResume with every list field empty
// and every scalar blank. Unreadable input degrades to this value so scoring
// still runs and yields zero scores.
func EmptyResume() ParsedResume {
	return ParsedResume{
		Skills:         SkillSet{Technical: []string{}, Soft: []string{}, Domain: []string{}},
		Experience:     []ExperienceEntry{},
		Education:      []EducationEntry{},
		Projects:       []ProjectEntry{},
		Certifications: []CertificationEntry{},
		Languages:      []string{},
		Awards:         []string{},
	}
}
