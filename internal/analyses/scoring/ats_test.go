package scoring

import (
	"strings"
	"testing"
)

const cleanResume = `Experience
• Developed a billing service in Go
• Implemented event pipelines
• Managed a team of three engineers
• Created internal tooling
• Designed the storage layer
Education
BSc Computer Science
Skills
Go Postgres AWS`

func TestAtsEmptyKeywordsZeroesDensityOnly(t *testing.T) {
	out := Ats(cleanResume, nil)

	if out.Density != 0 {
		t.Fatalf("density = %.1f, want 0", out.Density)
	}
	if out.Structure != 100 {
		t.Fatalf("structure = %.1f, want 100", out.Structure)
	}
	if out.Clarity != 100 {
		t.Fatalf("clarity = %.1f, want 100", out.Clarity)
	}
	want := round1(out.Formatting*formattingWeight + 100*structureWeight + 100*clarityWeight)
	if out.Score != want {
		t.Fatalf("score = %.1f, want %.1f", out.Score, want)
	}
}

func TestKeywordDensityBands(t *testing.T) {
	filler := strings.Repeat("filler ", 98)

	cases := []struct {
		name     string
		text     string
		keywords []string
		want     float64
	}{
		{
			name:     "inside optimal band",
			text:     filler + "python sql",
			keywords: []string{"python", "sql"},
			want:     100,
		},
		{
			name:     "below band decays",
			text:     strings.Repeat("filler ", 99) + "python",
			keywords: []string{"python", "terraform"},
			want:     90,
		},
		{
			name:     "above band decays",
			text:     strings.Repeat("filler ", 95) + "python sql aws go java",
			keywords: []string{"python", "sql", "aws", "go", "java"},
			want:     70,
		},
		{
			name:     "no keywords found",
			text:     filler + "python sql",
			keywords: []string{"terraform"},
			want:     0,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := evalKeywordDensity(tc.text, tc.keywords); got != tc.want {
				t.Fatalf("density score = %.1f, want %.1f", got, tc.want)
			}
		})
	}
}

func TestStructurePenalizesMissingSections(t *testing.T) {
	// Experience and skills only: one missing section and fewer than
	// three section headings.
	got := evalStructure("Experience at Acme. Skills: Go.")
	if got != 65 {
		t.Fatalf("structure = %.1f, want 65", got)
	}
}

func TestClarityPenalizesProse(t *testing.T) {
	got := evalClarity("I worked at a company for several years doing various things.")
	if got != 65 {
		t.Fatalf("clarity = %.1f, want 65", got)
	}
}

func TestFormattingPenalizesNonASCII(t *testing.T) {
	clean := evalFormatting("plain ascii resume text")
	accented := evalFormatting("worked at the café then the other café for two years") // two non-ASCII runes
	if clean != 100 {
		t.Fatalf("clean formatting = %.1f, want 100", clean)
	}
	if accented != 90 {
		t.Fatalf("accented formatting = %.1f, want 90", accented)
	}
}

func TestAtsFeedbackFlagsWeakResume(t *testing.T) {
	out := Ats("short text with no structure", nil)
	if len(out.Feedback) == 0 {
		t.Fatalf("expected feedback for weak resume")
	}
	joined := strings.Join(out.Feedback, "\n")
	for _, want := range []string{"resume length", "sections", "bullet points"} {
		if !strings.Contains(joined, want) {
			t.Errorf("feedback missing %q: %v", want, out.Feedback)
		}
	}
}

func TestAtsScoreClamped(t *testing.T) {
	out := Ats("", nil)
	if out.Score < 0 || out.Score > 100 {
		t.Fatalf("score out of range: %.1f", out.Score)
	}
}
