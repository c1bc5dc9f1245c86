package analyses

import (
	"fmt"

	"careermatch-backend/internal/analyses/scoring"
)

// ScoreExplanation explains how the ATS score was assembled from its weighted
// components.
type ScoreExplanation struct {
	Components []ScoreComponent `json:"components"`
}

// ScoreComponent is one weighted piece of the ATS score.
type ScoreComponent struct {
	Key         string  `json:"key"`
	Label       string  `json:"label"`
	Score       float64 `json:"score"`
	Weight      float64 `json:"weight"`
	Explanation string  `json:"explanation"`
}

func buildScoreExplanation(ats scoring.AtsOutcome) *ScoreExplanation {
	return &ScoreExplanation{
		Components: []ScoreComponent{
			{
				Key:         "keywordDensity",
				Label:       "Keyword Density",
				Score:       ats.Density,
				Weight:      35,
				Explanation: densityExplanation(ats.Density),
			},
			{
				Key:         "formatting",
				Label:       "Formatting",
				Score:       ats.Formatting,
				Weight:      30,
				Explanation: componentExplanation(ats.Formatting, "No formatting problems detected.", "Special characters or irregular spacing may confuse applicant tracking systems."),
			},
			{
				Key:         "structure",
				Label:       "Structure",
				Score:       ats.Structure,
				Weight:      20,
				Explanation: componentExplanation(ats.Structure, "All expected resume sections are present.", "One or more expected sections (experience, education, skills) were not found."),
			},
			{
				Key:         "clarity",
				Label:       "Clarity",
				Score:       ats.Clarity,
				Weight:      15,
				Explanation: componentExplanation(ats.Clarity, "Bullet points and action verbs make the resume easy to scan.", "Few bullet points or action verbs were found."),
			},
		},
	}
}

func densityExplanation(score float64) string {
	if score >= 100 {
		return "Job keywords appear at a healthy rate in the resume."
	}
	return fmt.Sprintf("Keyword density scored %.0f out of 100; aim for job keywords to make up roughly 1.5%% to 3.5%% of the resume text.", score)
}

func componentExplanation(score float64, good, bad string) string {
	if score >= 100 {
		return good
	}
	return bad
}
