package llm

import _ "embed"

// Kind selects which document type a prompt parses.
type Kind string

const (
	KindResume Kind = "resume"
	KindJob    Kind = "job"
)

var (
	//go:embed prompts/resume_v1.txt
	resumePromptV1 string
	//go:embed prompts/job_v1.txt
	jobPromptV1 string
)

// PromptTemplate returns the prompt template text for the given document kind
// and whether the version was recognized.
func PromptTemplate(kind Kind, version string) (string, bool) {
	switch kind {
	case KindJob:
		switch version {
		case "v1":
			return jobPromptV1, true
		default:
			return jobPromptV1, false
		}
	default:
		switch version {
		case "v1":
			return resumePromptV1, true
		default:
			return resumePromptV1, false
		}
	}
}
