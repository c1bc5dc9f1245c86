// Package model defines the structured job-posting aggregate.
package model

// ParsedJob is the structured result of parsing one job posting. Like the
// resume aggregate it is a transient value object owned by the caller.
type ParsedJob struct {
	Title            string       `json:"title,omitempty"`
	Company          Company      `json:"company"`
	Location         Location     `json:"location"`
	Salary           Salary       `json:"salary"`
	Requirements     Requirements `json:"requirements"`
	Benefits         Benefits     `json:"benefits"`
	Description      string       `json:"description,omitempty"`
	Responsibilities []string     `json:"responsibilities"`
	Qualifications   []string     `json:"qualifications"`
	SourceURL        string       `json:"source_url,omitempty"`
}

type Company struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

type Location struct {
	FullLocation string `json:"full_location,omitempty"`
	IsRemote     bool   `json:"is_remote"`
	IsHybrid     bool   `json:"is_hybrid"`
}

type Salary struct {
	Min      string `json:"min_salary,omitempty"`
	Max      string `json:"max_salary,omitempty"`
	Currency string `json:"currency,omitempty"`
	Period   string `json:"period,omitempty"`
}

type Requirements struct {
	RequiredSkills    []string `json:"required_skills"`
	PreferredSkills   []string `json:"preferred_skills"`
	ExperienceLevel   string   `json:"experience_level,omitempty"`
	YearsOfExperience string   `json:"years_of_experience,omitempty"`
	Education         string   `json:"education,omitempty"`
}

// Benefits are boolean flags for the perks most postings call out, plus a
// free-form overflow list.
type Benefits struct {
	HealthInsurance  bool     `json:"health_insurance"`
	Retirement401k   bool     `json:"retirement_401k"`
	PaidTimeOff      bool     `json:"paid_time_off"`
	RemoteWork       bool     `json:"remote_work"`
	GymMembership    bool     `json:"gym_membership"`
	CommuterBenefits bool     `json:"commuter_benefits"`
	Other            []string `json:"other_benefits"`
}

// AllSkills returns required then preferred skills in order.
func (j ParsedJob) AllSkills() []string {
	out := make([]string, 0, len(j.Requirements.RequiredSkills)+len(j.Requirements.PreferredSkills))
	out = append(out, j.Requirements.RequiredSkills...)
	out = append(out, j.Requirements.PreferredSkills...)
	return out
}

// EmptyJob returns a well-formed ParsedJob with every list empty. Empty input
// degrades to this value so scoring still runs and yields zero scores.
func EmptyJob() ParsedJob {
	return ParsedJob{
		Requirements: Requirements{
			RequiredSkills:  []string{},
			PreferredSkills: []string{},
		},
		Benefits:         Benefits{Other: []string{}},
		Responsibilities: []string{},
		Qualifications:   []string{},
	}
}
