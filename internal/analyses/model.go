package analyses

import (
	"time"

	jobmodel "careermatch-backend/job/model"
	resumemodel "careermatch-backend/resume/model"
)

// Analysis represents one résumé/job match job.
type Analysis struct {
	ID              string                    `json:"id"`
	DocumentID      string                    `json:"documentId"`
	PostingID       string                    `json:"postingId,omitempty"`
	UserID          string                    `json:"userId"`
	Mode            AnalysisMode              `json:"mode"`
	PromptVersion   string                    `json:"promptVersion"`
	AnalysisVersion string                    `json:"analysisVersion"`
	PromptHash      string                    `json:"promptHash,omitempty"`
	Provider        string                    `json:"provider"`
	Model           string                    `json:"model"`
	Status          string                    `json:"status"`
	Result          *MatchResult              `json:"result,omitempty"`
	ParsedResume    *resumemodel.ParsedResume `json:"parsedResume,omitempty"`
	ParsedJob       *jobmodel.ParsedJob       `json:"parsedJob,omitempty"`
	ErrorCode       string                    `json:"errorCode,omitempty"`
	ErrorMessage    *string                   `json:"errorMessage,omitempty"`
	ErrorRetryable  bool                      `json:"errorRetryable"`
	StartedAt       *time.Time                `json:"startedAt,omitempty"`
	CompletedAt     *time.Time                `json:"completedAt,omitempty"`
	CreatedAt       time.Time                 `json:"createdAt"`
	UpdatedAt       time.Time                 `json:"updatedAt"`
}

// MatchResult is the completed outcome of an analysis. Match fields are zero
// for ATS-only runs; Prediction is present only when the external predictor
// answered.
type MatchResult struct {
	MatchScore           float64           `json:"match_score"`
	AtsScore             float64           `json:"ats_score"`
	FitLevel             string            `json:"fit_level,omitempty"`
	MatchingSkills       []string          `json:"matching_skills"`
	MissingSkills        []string          `json:"missing_skills"`
	TotalSkillsMatched   int               `json:"total_skills_matched"`
	TotalSkillsMissing   int               `json:"total_skills_missing"`
	SkillMatchPercentage float64           `json:"skill_match_percentage"`
	Suggestions          []string          `json:"suggestions"`
	Improvements         []string          `json:"improvements"`
	Ats                  AtsDetail         `json:"ats_detail"`
	ScoreExplanation     *ScoreExplanation `json:"score_explanation,omitempty"`
	Prediction           *FitPrediction    `json:"prediction,omitempty"`
}

// AtsDetail breaks the ATS score into its weighted components.
type AtsDetail struct {
	KeywordDensity  float64  `json:"keyword_density"`
	FormattingScore float64  `json:"formatting_score"`
	StructureScore  float64  `json:"structure_score"`
	ClarityScore    float64  `json:"clarity_score"`
	Feedback        []string `json:"feedback"`
}

// FitPrediction mirrors the external predictor's verdict.
type FitPrediction struct {
	FitLevel             string  `json:"fit_level"`
	ConfidencePercentage float64 `json:"confidence_percentage"`
}

func normalizeResult(r *MatchResult) *MatchResult {
	if r == nil {
		return nil
	}
	if r.MatchingSkills == nil {
		r.MatchingSkills = []string{}
	}
	if r.MissingSkills == nil {
		r.MissingSkills = []string{}
	}
	if r.Suggestions == nil {
		r.Suggestions = []string{}
	}
	if r.Improvements == nil {
		r.Improvements = []string{}
	}
	if r.Ats.Feedback == nil {
		r.Ats.Feedback = []string{}
	}
	return r
}
