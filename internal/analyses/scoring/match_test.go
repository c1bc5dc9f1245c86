package scoring

import (
	"math"
	"reflect"
	"testing"
)

func TestMatchPartialSkillOverlap(t *testing.T) {
	out := Match(MatchInput{
		ResumeSkills: []string{"python", "sql"},
		JobSkills:    []string{"python", "sql", "aws"},
	})

	if !reflect.DeepEqual(out.MatchingSkills, []string{"python", "sql"}) {
		t.Fatalf("matching skills = %v", out.MatchingSkills)
	}
	if !reflect.DeepEqual(out.MissingSkills, []string{"aws"}) {
		t.Fatalf("missing skills = %v", out.MissingSkills)
	}
	if out.TotalSkillsMatched != 2 || out.TotalSkillsMissing != 1 {
		t.Fatalf("counts = %d/%d", out.TotalSkillsMatched, out.TotalSkillsMissing)
	}

	// 2/3 of the 70-point skill component, no text overlap.
	want := math.Round(2.0/3.0*70.0*10) / 10
	if out.MatchScore != want {
		t.Fatalf("match score = %.2f, want %.2f", out.MatchScore, want)
	}
	if out.SkillMatchPercentage != 66.7 {
		t.Fatalf("skill match percentage = %.2f", out.SkillMatchPercentage)
	}
}

func TestMatchNoJobSkillsScoresZero(t *testing.T) {
	out := Match(MatchInput{
		ResumeSkills: []string{"python", "sql", "aws"},
		JobSkills:    nil,
		ResumeText:   "python sql aws",
		JobText:      "python sql aws",
	})

	if out.MatchScore != 0 {
		t.Fatalf("match score = %.2f, want 0", out.MatchScore)
	}
	if ClassifyFit(out.MatchScore) != FitNot {
		t.Fatalf("fit level = %s, want %s", ClassifyFit(out.MatchScore), FitNot)
	}
	if out.MatchingSkills == nil || out.MissingSkills == nil {
		t.Fatalf("skill slices must be non-nil")
	}
}

func TestMatchFullOverlapWithTextComponent(t *testing.T) {
	out := Match(MatchInput{
		ResumeSkills: []string{"Go", "Postgres"},
		JobSkills:    []string{"go", "postgres"},
		ResumeText:   "go postgres kubernetes",
		JobText:      "go postgres",
	})

	// Full skill component plus full lexical overlap.
	if out.MatchScore != 100 {
		t.Fatalf("match score = %.2f, want 100", out.MatchScore)
	}
	if out.TotalSkillsMissing != 0 {
		t.Fatalf("missing skills = %v", out.MissingSkills)
	}
}

func TestMatchCaseInsensitiveKeepsJobSpelling(t *testing.T) {
	out := Match(MatchInput{
		ResumeSkills: []string{"PYTHON"},
		JobSkills:    []string{"Python", "python", "AWS"},
	})

	if !reflect.DeepEqual(out.MatchingSkills, []string{"Python"}) {
		t.Fatalf("matching skills = %v", out.MatchingSkills)
	}
	if !reflect.DeepEqual(out.MissingSkills, []string{"AWS"}) {
		t.Fatalf("missing skills = %v", out.MissingSkills)
	}
}

func TestClassifyFitBands(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{0, FitNot},
		{59.9, FitNot},
		{60, FitPossible},
		{79.9, FitPossible},
		{80, FitGreat},
		{100, FitGreat},
	}
	for _, tc := range cases {
		if got := ClassifyFit(tc.score); got != tc.want {
			t.Errorf("ClassifyFit(%.1f) = %s, want %s", tc.score, got, tc.want)
		}
	}
}
