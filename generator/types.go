package generator

import (
	"context"

	"google.golang.org/genai"
)

// GeneratedItem is one structured item produced by the model. During
// streaming any field may still be missing or half-written; the final
// object carries every field the model chose to fill.
type GeneratedItem struct {
	Title      string   `json:"title"`
	Prompt     string   `json:"prompt"`
	Activities []string `json:"activities"`
	Interests  []string `json:"interests"`
}

// GeneratedSet is the target output object: a list of items.
type GeneratedSet struct {
	Items []GeneratedItem `json:"items"`
}

// Usage carries token accounting for one model call.
type Usage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
	TotalTokens  int64 `json:"total_tokens"`
}

// Schema names a response schema. The name keys the response cache;
// the definition constrains the model output.
type Schema struct {
	Name string
	Def  *genai.Schema
}

// StructuredGenerator is the structured-generation capability the
// orchestrator consumes. StreamStructured invokes onPartial once per
// progressively-complete snapshot, in receipt order, then returns the
// final object; the return is the exactly-once finish event.
// Neither mode retries: transport/model errors surface to the caller.
type StructuredGenerator interface {
	GenerateStructured(ctx context.Context, systemPrompt, userPrompt string, schema Schema) (*GeneratedSet, Usage, error)
	StreamStructured(ctx context.Context, systemPrompt, userPrompt string, schema Schema, onPartial func(GeneratedSet)) (*GeneratedSet, Usage, error)
}
