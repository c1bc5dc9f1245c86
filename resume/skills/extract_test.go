package skills

import (
	"reflect"
	"testing"

	"careermatch-backend/resume/model"
)

func TestExtractLabeledBuckets(t *testing.T) {
	set := Extract([]string{
		"Technical:",
		"python, sql",
		"Soft Skills:",
		"leadership",
	})

	if !reflect.DeepEqual(set.Technical, []string{"python", "sql"}) {
		t.Fatalf("technical = %v", set.Technical)
	}
	if !reflect.DeepEqual(set.Soft, []string{"leadership"}) {
		t.Fatalf("soft = %v", set.Soft)
	}
	if len(set.Domain) != 0 {
		t.Fatalf("domain = %v", set.Domain)
	}
}

func TestExtractDefaultsToTechnical(t *testing.T) {
	set := Extract([]string{"Go, Postgres, Docker"})

	if !reflect.DeepEqual(set.Technical, []string{"Go", "Postgres", "Docker"}) {
		t.Fatalf("technical = %v", set.Technical)
	}
}

func TestExtractSkipsGenericHeadings(t *testing.T) {
	set := Extract([]string{
		"Core Competencies:",
		"Kubernetes; Terraform",
	})

	if !reflect.DeepEqual(set.Technical, []string{"Kubernetes", "Terraform"}) {
		t.Fatalf("technical = %v", set.Technical)
	}
}

func TestExtractUnknownLabelGoesToDomain(t *testing.T) {
	set := Extract([]string{
		"Compliance:",
		"SOX, GDPR",
	})

	if !reflect.DeepEqual(set.Domain, []string{"SOX", "GDPR"}) {
		t.Fatalf("domain = %v", set.Domain)
	}
}

func TestExtractDedupesCaseInsensitive(t *testing.T) {
	set := Extract([]string{"Python, PYTHON, python, SQL"})

	if !reflect.DeepEqual(set.Technical, []string{"Python", "SQL"}) {
		t.Fatalf("technical = %v", set.Technical)
	}
}

func TestExtractStripsBulletPrefixes(t *testing.T) {
	set := Extract([]string{
		"- Go",
		"- Postgres",
	})

	if !reflect.DeepEqual(set.Technical, []string{"Go", "Postgres"}) {
		t.Fatalf("technical = %v", set.Technical)
	}
}

func TestClassifyFreeTextByKeyword(t *testing.T) {
	set := model.SkillSet{Technical: []string{}, Soft: []string{}, Domain: []string{}}
	classifyFreeText([]string{
		"cloud architecture",
		"customer communication",
		"wine tasting",
	}, &set)

	if !reflect.DeepEqual(set.Technical, []string{"cloud architecture"}) {
		t.Fatalf("technical = %v", set.Technical)
	}
	if !reflect.DeepEqual(set.Soft, []string{"customer communication"}) {
		t.Fatalf("soft = %v", set.Soft)
	}
	if !reflect.DeepEqual(set.Domain, []string{"wine tasting"}) {
		t.Fatalf("domain = %v", set.Domain)
	}
}

func TestExtractEmptyInput(t *testing.T) {
	set := Extract(nil)
	if !set.Empty() {
		t.Fatalf("expected empty set, got %+v", set)
	}
	if set.Technical == nil || set.Soft == nil || set.Domain == nil {
		t.Fatalf("buckets must be non-nil")
	}
}
