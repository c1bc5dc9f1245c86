package llm

import (
	"context"
	"encoding/json"
)

// Client abstracts LLM providers for structured document parsing. Both
// methods return raw JSON shaped like the corresponding model type; callers
// validate and merge the result with the rule-based extraction.
type Client interface {
	ParseResume(ctx context.Context, input ParseInput) (json.RawMessage, error)
	ParseJob(ctx context.Context, input ParseInput) (json.RawMessage, error)
}

// ParseInput captures the inputs for one parse request.
type ParseInput struct {
	Text          string
	PromptVersion string
}

type fixJSONKey struct{}

// WithFixJSON returns a context signaling a fix-JSON retry with the given raw output.
func WithFixJSON(ctx context.Context, raw string) context.Context {
	return context.WithValue(ctx, fixJSONKey{}, raw)
}

// FixJSONFromContext returns the raw JSON to repair, if any.
func FixJSONFromContext(ctx context.Context) (string, bool) {
	val := ctx.Value(fixJSONKey{})
	raw, ok := val.(string)
	return raw, ok
}

type extraSystemKey struct{}

// WithExtraSystemMessage returns a context carrying an additional system
// message prepended to the prompt, used for content-repair retries.
func WithExtraSystemMessage(ctx context.Context, content string) context.Context {
	return context.WithValue(ctx, extraSystemKey{}, content)
}

// ExtraSystemMessageFromContext returns the extra system message, if any.
func ExtraSystemMessageFromContext(ctx context.Context) (string, bool) {
	val := ctx.Value(extraSystemKey{})
	content, ok := val.(string)
	return content, ok
}

type promptHashKey struct{}

// WithPromptHashCapture returns a context that asks the provider to record
// the hash of the final rendered prompt into sink.
func WithPromptHashCapture(ctx context.Context, sink *string) context.Context {
	return context.WithValue(ctx, promptHashKey{}, sink)
}

// PromptHashSinkFromContext returns the prompt hash sink, if any.
func PromptHashSinkFromContext(ctx context.Context) (*string, bool) {
	val := ctx.Value(promptHashKey{})
	sink, ok := val.(*string)
	return sink, ok
}
