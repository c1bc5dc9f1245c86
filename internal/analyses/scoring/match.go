// Package scoring computes the match, ATS and fit outputs for one
// resume/job pair. Every function is pure; the hosting service owns all I/O.
package scoring

import (
	"math"
	"strings"
)

// Fit bands.
const (
	FitGreat    = "Great Fit"
	FitPossible = "Possible Fit"
	FitNot      = "Not Fit"
)

const (
	skillWeight = 70.0
	textWeight  = 30.0
)

// MatchInput carries the already-parsed signals the scorer consumes.
type MatchInput struct {
	ResumeSkills []string
	JobSkills    []string
	ResumeText   string
	JobText      string
}

// MatchOutcome is the skill/text overlap result.
type MatchOutcome struct {
	MatchScore           float64
	MatchingSkills       []string
	MissingSkills        []string
	TotalSkillsMatched   int
	TotalSkillsMissing   int
	SkillMatchPercentage float64
}

// Match computes the weighted overlap score. Skill overlap carries 70% and
// lexical overlap 30%; an empty job-skill set scores zero outright. Matching
// and missing skills partition the job skills in their original order, with
// case-insensitive comparison keeping the job posting's spelling.
func Match(in MatchInput) MatchOutcome {
	out := MatchOutcome{
		MatchingSkills: []string{},
		MissingSkills:  []string{},
	}

	resumeSet := lowerSet(in.ResumeSkills)
	for _, skill := range dedupeLower(in.JobSkills) {
		if resumeSet[strings.ToLower(skill)] {
			out.MatchingSkills = append(out.MatchingSkills, skill)
		} else {
			out.MissingSkills = append(out.MissingSkills, skill)
		}
	}
	out.TotalSkillsMatched = len(out.MatchingSkills)
	out.TotalSkillsMissing = len(out.MissingSkills)

	totalJob := out.TotalSkillsMatched + out.TotalSkillsMissing
	if totalJob == 0 {
		return out
	}

	skillComponent := float64(out.TotalSkillsMatched) / float64(totalJob) * skillWeight

	textComponent := 0.0
	jobWords := wordSet(in.JobText)
	if len(jobWords) > 0 {
		resumeWords := wordSet(in.ResumeText)
		shared := 0
		for w := range jobWords {
			if resumeWords[w] {
				shared++
			}
		}
		textComponent = float64(shared) / float64(len(jobWords)) * textWeight
	}

	out.MatchScore = round1(math.Min(skillComponent+textComponent, 100))
	out.SkillMatchPercentage = round1(float64(out.TotalSkillsMatched) / float64(totalJob) * 100)
	return out
}

// ClassifyFit maps a match score to its ordinal band. Non-decreasing in the
// score.
func ClassifyFit(matchScore float64) string {
	switch {
	case matchScore >= 80:
		return FitGreat
	case matchScore >= 60:
		return FitPossible
	}
	return FitNot
}

func lowerSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, s := range items {
		set[strings.ToLower(s)] = true
	}
	return set
}

// dedupeLower removes case-insensitive duplicates preserving order.
func dedupeLower(items []string) []string {
	seen := make(map[string]bool, len(items))
	var out []string
	for _, s := range items {
		key := strings.ToLower(s)
		if !seen[key] {
			seen[key] = true
			out = append(out, s)
		}
	}
	return out
}

func wordSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		set[w] = true
	}
	return set
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
