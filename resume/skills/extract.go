// Package skills classifies resume skill lines into technical, soft and
// domain buckets.
package skills

import (
	"regexp"
	"strings"

	"careermatch-backend/resume/model"
)

// Label tables map a "Frontend:"-style label line to a bucket. They cover
// far more than software roles so resumes from healthcare, finance, legal and
// creative fields classify sensibly.
var techLabels = newSet(
	"technical", "technical skills", "programming", "frontend", "back-end", "backend", "full-stack",
	"cloud", "cloud/devops", "devops", "tools", "other tools", "frameworks", "libraries",
	"databases", "database", "data", "ai/ml & data", "ai/ml", "ai", "ml", "analytics",
	"blockchain", "security", "testing", "qa", "platforms", "infrastructure", "systems",
	"etl", "bi", "visualization", "mobile", "ios", "android", "automation",
	"engineering", "cad", "design software", "modeling", "simulation", "autocad", "solidworks",
	"matlab", "plc", "scada", "cnc", "lean manufacturing", "six sigma", "quality control",
	"medical software", "emr", "ehr", "epic", "cerner", "medical devices", "laboratory equipment",
	"diagnostic tools", "imaging", "radiology", "pathology", "clinical research",
	"financial software", "excel", "quickbooks", "sap", "oracle", "bloomberg", "financial modeling",
	"risk management", "trading platforms", "accounting software", "erp", "crm",
	"adobe", "photoshop", "illustrator", "indesign", "figma", "sketch", "3d modeling",
	"video editing", "audio editing", "graphic design", "web design", "ux/ui",
	"laboratory techniques", "research methods", "statistical analysis", "spss", "r", "python",
	"microscopy", "spectroscopy", "chromatography", "pcr", "cell culture",
)

var softLabels = newSet(
	"soft", "soft skills", "communication", "leadership", "interpersonal", "collaboration",
	"teamwork", "problem solving", "time management", "organization", "stakeholder management",
	"customer service", "sales", "negotiation", "presentation", "public speaking",
	"conflict resolution", "mentoring", "coaching", "training", "facilitation",
	"critical thinking", "analytical thinking", "creativity", "innovation", "adaptability",
	"flexibility", "resilience", "emotional intelligence", "cultural awareness",
	"project management", "team building", "decision making", "strategic thinking",
)

var domainLabels = newSet(
	"domain", "business", "industry", "methodologies", "practices", "certifications",
	"compliance", "regulatory", "finance", "marketing", "sales", "operations", "supply chain",
	"hr", "human resources", "healthcare", "education", "real estate", "banking", "hospitality", "retail",
	"cardiology", "oncology", "pediatrics", "surgery", "nursing", "pharmacy", "physical therapy",
	"occupational therapy", "radiology", "pathology", "anesthesiology", "emergency medicine",
	"litigation", "corporate law", "family law", "criminal law", "intellectual property",
	"contract law", "real estate law", "tax law", "employment law", "immigration law",
	"curriculum development", "lesson planning", "classroom management", "assessment",
	"special education", "esl", "stem", "early childhood", "higher education",
	"strategic planning", "business development", "market research", "brand management",
	"digital marketing", "content marketing", "social media", "seo", "sem", "ppc",
	"supply chain management", "logistics", "procurement", "vendor management",
	"process improvement", "quality assurance", "regulatory compliance", "safety management",
	"environmental compliance", "iso standards", "fda regulations", "gmp", "haccp",
	"brand identity", "visual communication", "user experience", "user interface",
	"motion graphics", "typography", "color theory", "composition", "storytelling",
)

var genericHeadings = newSet(
	"skills", "technical skills", "soft skills", "core skills", "competencies", "strengths",
	"technical competencies", "areas of expertise", "key skills", "core competencies",
)

var (
	techLabelRE  = regexp.MustCompile(`(?i)(programming|frontend|backend|cloud|devops|tools|framework|library|database|data|ai|ml|blockchain|security|testing|qa|platform|infra|etl|bi|viz|mobile|automation)`)
	softLabelRE  = regexp.MustCompile(`(?i)(communication|leadership|team|stakeholder|management|problem|time|organization|customer|sales|negotiation|presentation)`)
	itemSplitRE  = regexp.MustCompile(`[,/|;]`)
	bulletLeadRE = regexp.MustCompile(`^[-–—]\s*`)
)

// Fallback keyword lists classify free-text skills when no labeled lines
// exist.
var techWords = []string{
	"software", "programming", "coding", "development", "database", "system",
	"technology", "technical", "computer", "digital", "web", "mobile", "app",
	"cloud", "server", "network", "security", "automation", "analytics",
	"microsoft", "adobe", "google", "amazon", "oracle", "sap", "salesforce",
}

var softWords = []string{
	"communication", "leadership", "team", "management", "organization",
	"problem", "critical", "analytical", "creative", "interpersonal",
	"presentation", "negotiation", "customer", "client", "service",
}

// Extract walks the skills section lines as a small state machine. The bucket
// starts as technical; a label line ending with ':' switches it, generic
// headings are skipped, and every other line splits into items on commas,
// slashes, pipes or semicolons. Items dedupe case-insensitively keeping the
// first spelling. When no line yields anything, the free-text fallback splits
// every line and classifies each item by keyword containment.
func Extract(lines []string) model.SkillSet {
	set := model.SkillSet{
		Technical: []string{},
		Soft:      []string{},
		Domain:    []string{},
	}
	current := &set.Technical

	for _, raw := range lines {
		ln := bulletLeadRE.ReplaceAllString(strings.TrimSpace(raw), "")
		if ln == "" {
			continue
		}
		lab := strings.TrimSuffix(strings.ToLower(ln), ":")
		if strings.HasSuffix(ln, ":") {
			// Labeled lines switch the bucket; generic headings that name no
			// bucket are skipped instead.
			if genericHeadings[lab] && !labeledBucket(lab) {
				continue
			}
			switch labelToBucket(ln) {
			case "soft":
				current = &set.Soft
			case "domain":
				current = &set.Domain
			default:
				current = &set.Technical
			}
			continue
		}
		if genericHeadings[lab] {
			continue
		}
		*current = append(*current, splitItems(ln)...)
	}

	set.Technical = dedupe(set.Technical)
	set.Soft = dedupe(set.Soft)
	set.Domain = dedupe(set.Domain)

	if set.Empty() {
		classifyFreeText(lines, &set)
	}
	return set
}

// labeledBucket reports whether the normalized label names an explicit bucket.
func labeledBucket(lab string) bool {
	return techLabels[lab] || softLabels[lab] || domainLabels[lab]
}

func labelToBucket(label string) string {
	lab := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(label)), ":")
	switch {
	case techLabels[lab]:
		return "technical"
	case softLabels[lab]:
		return "soft"
	case domainLabels[lab]:
		return "domain"
	case techLabelRE.MatchString(lab):
		return "technical"
	case softLabelRE.MatchString(lab):
		return "soft"
	}
	return "domain"
}

// classifyFreeText is the fallback when the section had no recognizable
// structure: strip bullets, split on separators, then route each item by
// keyword containment, technical first, soft second, domain otherwise.
func classifyFreeText(lines []string, set *model.SkillSet) {
	var flat []string
	for _, raw := range lines {
		ln := bulletLeadRE.ReplaceAllString(strings.TrimSpace(raw), "")
		if ln == "" {
			continue
		}
		parts := splitItems(ln)
		if len(parts) == 0 {
			parts = []string{ln}
		}
		flat = append(flat, parts...)
	}

	seen := make(map[string]bool)
	for _, skill := range flat {
		skill = strings.TrimSpace(skill)
		lower := strings.ToLower(skill)
		if genericHeadings[lower] || len(skill) < 2 || seen[lower] {
			continue
		}
		seen[lower] = true
		switch {
		case containsAny(lower, techWords):
			set.Technical = append(set.Technical, skill)
		case containsAny(lower, softWords):
			set.Soft = append(set.Soft, skill)
		default:
			set.Domain = append(set.Domain, skill)
		}
	}
}

func splitItems(line string) []string {
	var out []string
	for _, p := range itemSplitRE.Split(line, -1) {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// dedupe removes case-insensitive duplicates preserving order and the first
// spelling seen.
func dedupe(items []string) []string {
	seen := make(map[string]bool)
	out := items[:0]
	for _, item := range items {
		key := strings.ToLower(item)
		if !seen[key] {
			seen[key] = true
			out = append(out, item)
		}
	}
	return out
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func newSet(items ...string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
