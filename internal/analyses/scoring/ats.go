package scoring

import (
	"regexp"
	"strings"
)

// ATS sub-score weights.
const (
	densityWeight    = 0.35
	formattingWeight = 0.30
	structureWeight  = 0.20
	clarityWeight    = 0.15
)

const (
	densityBandLow  = 1.5
	densityBandHigh = 3.5
	densityDecay    = 20.0

	minBullets     = 5
	minActionVerbs = 3
)

var (
	nonASCIIRE    = regexp.MustCompile(`[^\x00-\x7F]`)
	whitespaceRun = regexp.MustCompile(`\s{3,}`)
	specialCharRE = regexp.MustCompile(`[^\w\s]`)
	sectionMarkRE = regexp.MustCompile(`\b(?:experience|education|skills|projects|certifications)\b`)
	requiredMarks = []string{"experience", "education", "skills"}
	actionVerbs   = []string{"developed", "implemented", "managed", "created", "designed", "led", "improved", "achieved"}
	bulletRunes   = []string{"•", "-", "*"}
)

// AtsOutcome is the scanner-compatibility result with per-factor sub-scores
// and itemized feedback.
type AtsOutcome struct {
	Score      float64
	Density    float64
	Formatting float64
	Structure  float64
	Clarity    float64
	Feedback   []string
}

// Ats evaluates the resume text in isolation against the job's keywords.
// Each sub-score is clamped to [0,100] before weighting; an empty keyword
// set zeroes only the density factor, not the whole score.
func Ats(resumeText string, jobKeywords []string) AtsOutcome {
	out := AtsOutcome{
		Density:    evalKeywordDensity(resumeText, jobKeywords),
		Formatting: evalFormatting(resumeText),
		Structure:  evalStructure(resumeText),
		Clarity:    evalClarity(resumeText),
		Feedback:   []string{},
	}
	out.Score = round1(clamp(
		out.Density*densityWeight +
			out.Formatting*formattingWeight +
			out.Structure*structureWeight +
			out.Clarity*clarityWeight))
	out.Feedback = atsFeedback(resumeText, out)
	return out
}

// evalKeywordDensity scores 100 inside the optimal 1.5-3.5% band and decays
// linearly with distance from the band edge outside it.
func evalKeywordDensity(resumeText string, jobKeywords []string) float64 {
	if len(jobKeywords) == 0 {
		return 0
	}
	words := strings.Fields(resumeText)
	if len(words) == 0 {
		return 0
	}
	lower := strings.ToLower(resumeText)
	found := 0
	for _, kw := range dedupeLower(jobKeywords) {
		if strings.Contains(lower, strings.ToLower(kw)) {
			found++
		}
	}
	if found == 0 {
		return 0
	}
	density := float64(found) / float64(len(words)) * 100
	switch {
	case density >= densityBandLow && density <= densityBandHigh:
		return 100
	case density < densityBandLow:
		return clamp(100 - (densityBandLow-density)*densityDecay)
	}
	return clamp(100 - (density-densityBandHigh)*densityDecay)
}

func evalFormatting(text string) float64 {
	score := 100.0
	score -= float64(len(nonASCIIRE.FindAllString(text, -1))) * 5
	score -= float64(len(whitespaceRun.FindAllString(text, -1))) * 3
	if specials := len(specialCharRE.FindAllString(text, -1)); len(text) > 0 && float64(specials) > float64(len(text))*0.1 {
		score -= 20
	}
	return clamp(score)
}

func evalStructure(text string) float64 {
	score := 100.0
	lower := strings.ToLower(text)
	for _, section := range requiredMarks {
		if !strings.Contains(lower, section) {
			score -= 20
		}
	}
	if len(sectionMarkRE.FindAllString(lower, -1)) < 3 {
		score -= 15
	}
	return clamp(score)
}

func evalClarity(text string) float64 {
	score := 100.0
	bullets := 0
	for _, r := range bulletRunes {
		bullets += strings.Count(text, r)
	}
	if bullets < minBullets {
		score -= 20
	}
	lower := strings.ToLower(text)
	verbs := 0
	for _, v := range actionVerbs {
		if strings.Contains(lower, v) {
			verbs++
		}
	}
	if verbs < minActionVerbs {
		score -= 15
	}
	return clamp(score)
}

func atsFeedback(text string, out AtsOutcome) []string {
	feedback := []string{}
	if len(strings.Fields(text)) < 200 {
		feedback = append(feedback, "Increase resume length to improve keyword density and ATS scoring")
	}
	if nonASCIIRE.MatchString(text) {
		feedback = append(feedback, "Remove non-ASCII characters that can confuse ATS systems")
	}
	if out.Structure < 100 {
		feedback = append(feedback, "Add clearly labeled Experience, Education and Skills sections")
	}
	if out.Clarity < 100 {
		feedback = append(feedback, "Use bullet points and action verbs to describe accomplishments")
	}
	return feedback
}

func clamp(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 100 {
		return 100
	}
	return f
}
