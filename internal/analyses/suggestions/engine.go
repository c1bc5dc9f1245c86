// Package suggestions derives human-readable guidance from a match outcome.
// Every rule is a fixed-threshold constant so identical inputs always yield
// identical output.
package suggestions

import "strings"

const (
	tailoringThreshold      = 60
	retargetThreshold       = 40
	quantifyThreshold       = 70
	maxSkillsInSuggestion   = 5
	maxSkillsInImprovements = 3
)

// Input carries the signals the generators consume.
type Input struct {
	MissingSkills []string
	MatchScore    float64
}

// Suggestions builds resume-level advice from missing skills and the score
// band. Rules append in fixed order.
func Suggestions(in Input) []string {
	out := []string{}
	if len(in.MissingSkills) > 0 {
		top := in.MissingSkills
		if len(top) > maxSkillsInSuggestion {
			top = top[:maxSkillsInSuggestion]
		}
		out = append(out, "Add these skills to your resume: "+strings.Join(top, ", "))
	}
	if in.MatchScore < tailoringThreshold {
		out = append(out,
			"Consider tailoring your resume to better match the job requirements",
			"Highlight relevant experience and achievements")
	}
	if in.MatchScore < retargetThreshold {
		out = append(out,
			"This position may not be the best fit for your current skillset",
			"Consider applying to roles that better match your experience")
	}
	return out
}

// Improvements builds per-skill growth advice for the top missing skills,
// plus generic quantification guidance below the quantify threshold.
func Improvements(in Input) []string {
	out := []string{}
	top := in.MissingSkills
	if len(top) > maxSkillsInImprovements {
		top = top[:maxSkillsInImprovements]
	}
	for _, skill := range top {
		out = append(out, "Gain experience with "+skill+" through online courses or projects")
	}
	if in.MatchScore < quantifyThreshold {
		out = append(out,
			"Quantify your achievements with specific metrics",
			"Use industry-specific keywords from the job description")
	}
	return out
}
