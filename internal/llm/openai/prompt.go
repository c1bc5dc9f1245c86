package openai

import (
	"fmt"
	"log"
	"strings"

	"careermatch-backend/internal/llm"
)

// Message represents an OpenAI chat message.
type Message struct {
	Role    string
	Content string
}

const (
	systemPromptResume  = "You are a resume parsing engine. Respond with JSON only. No markdown. Never omit keys. Output must match the schema exactly."
	systemPromptJob     = "You are a job posting parsing engine. Respond with JSON only. No markdown. Never omit keys. Output must match the schema exactly."
	systemPromptFixJSON = "You are a JSON repair tool. Return only valid JSON that matches the schema exactly."
)

// BuildParsePrompt creates the chat messages for a parse request of the given
// document kind.
func BuildParsePrompt(kind llm.Kind, promptVersion string, text string, model string) []Message {
	developer := resolvePromptTemplate(kind, promptVersion, model)
	system := systemPromptResume
	if kind == llm.KindJob {
		system = systemPromptJob
	}

	return []Message{
		{Role: "system", Content: system},
		{Role: "developer", Content: developer},
		{Role: "user", Content: buildUserPrompt(kind, text)},
	}
}

func buildFixPrompt(kind llm.Kind, promptVersion string, model string, raw []byte) []Message {
	developer := resolvePromptTemplate(kind, promptVersion, model)
	return []Message{
		{Role: "system", Content: systemPromptFixJSON},
		{Role: "developer", Content: developer},
		{Role: "user", Content: fixUserPrompt(raw)},
	}
}

func resolvePromptTemplate(kind llm.Kind, promptVersion string, model string) string {
	version := strings.TrimSpace(promptVersion)
	template, ok := llm.PromptTemplate(kind, version)
	usedVersion := version
	if !ok {
		log.Printf("unknown prompt version %q for kind %s, defaulting to v1", version, kind)
		usedVersion = "v1"
		template, _ = llm.PromptTemplate(kind, usedVersion)
	}

	replacer := strings.NewReplacer(
		"{{PROMPT_VERSION}}", usedVersion,
		"{{MODEL}}", model,
	)
	return replacer.Replace(template)
}

func buildUserPrompt(kind llm.Kind, text string) string {
	label := "Resume Text"
	if kind == llm.KindJob {
		label = "Job Posting Text"
	}
	return fmt.Sprintf("%s:\n%s", label, text)
}

func fixUserPrompt(raw []byte) string {
	return fmt.Sprintf("Fix this JSON to match the schema exactly. Output JSON only:\n%s", string(raw))
}

func prependSystemMessage(messages []Message, content string) []Message {
	if strings.TrimSpace(content) == "" {
		return messages
	}
	out := make([]Message, 0, len(messages)+1)
	out = append(out, Message{Role: "system", Content: content})
	out = append(out, messages...)
	return out
}
