package suggestions

import (
	"strings"
	"testing"
)

func TestSuggestionsHighScoreWithMissingSkills(t *testing.T) {
	out := Suggestions(Input{
		MissingSkills: []string{"aws", "terraform"},
		MatchScore:    85,
	})

	if len(out) != 1 {
		t.Fatalf("expected 1 suggestion, got %d: %v", len(out), out)
	}
	if !strings.Contains(out[0], "aws, terraform") {
		t.Fatalf("suggestion missing skills: %s", out[0])
	}
}

func TestSuggestionsCapsListedSkills(t *testing.T) {
	out := Suggestions(Input{
		MissingSkills: []string{"a", "b", "c", "d", "e", "f", "g"},
		MatchScore:    90,
	})

	if len(out) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(out))
	}
	if strings.Contains(out[0], "f") || strings.Contains(out[0], "g") {
		t.Fatalf("suggestion lists more than five skills: %s", out[0])
	}
}

func TestSuggestionsLowScoreAddsRetargetAdvice(t *testing.T) {
	out := Suggestions(Input{MatchScore: 35})

	if len(out) != 4 {
		t.Fatalf("expected 4 suggestions, got %d: %v", len(out), out)
	}
	joined := strings.Join(out, "\n")
	if !strings.Contains(joined, "tailoring") {
		t.Errorf("missing tailoring advice: %v", out)
	}
	if !strings.Contains(joined, "not be the best fit") {
		t.Errorf("missing retarget advice: %v", out)
	}
}

func TestSuggestionsMidScoreOmitsRetarget(t *testing.T) {
	out := Suggestions(Input{MatchScore: 50})

	joined := strings.Join(out, "\n")
	if !strings.Contains(joined, "tailoring") {
		t.Errorf("missing tailoring advice: %v", out)
	}
	if strings.Contains(joined, "not be the best fit") {
		t.Errorf("unexpected retarget advice at score 50: %v", out)
	}
}

func TestImprovementsPerSkillAndQuantify(t *testing.T) {
	out := Improvements(Input{
		MissingSkills: []string{"kafka", "redis", "grpc", "spark"},
		MatchScore:    65,
	})

	// Three per-skill lines plus two quantification lines.
	if len(out) != 5 {
		t.Fatalf("expected 5 improvements, got %d: %v", len(out), out)
	}
	if !strings.Contains(out[0], "kafka") {
		t.Fatalf("first improvement should cover kafka: %s", out[0])
	}
	joined := strings.Join(out, "\n")
	if strings.Contains(joined, "spark") {
		t.Errorf("improvements list more than three skills: %v", out)
	}
	if !strings.Contains(joined, "Quantify") {
		t.Errorf("missing quantification advice: %v", out)
	}
}

func TestImprovementsHighScoreEmpty(t *testing.T) {
	out := Improvements(Input{MatchScore: 90})
	if len(out) != 0 {
		t.Fatalf("expected no improvements, got %v", out)
	}
	if out == nil {
		t.Fatalf("improvements must be non-nil")
	}
}

func TestDeterministicOutput(t *testing.T) {
	in := Input{MissingSkills: []string{"go", "sql"}, MatchScore: 55}
	first := strings.Join(Suggestions(in), "|")
	second := strings.Join(Suggestions(in), "|")
	if first != second {
		t.Fatalf("suggestions not deterministic: %q vs %q", first, second)
	}
}
