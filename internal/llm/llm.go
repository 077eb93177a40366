// Package llm defines the provider interface and implementations for LLM
// interaction.
package llm

import (
	"context"
	"encoding/json"
)

// Settings configures the LLM request.
type Settings struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// Request is a chat-completion-style call: a system instruction fixing the
// domain vocabulary, a user message carrying the narrative, and an optional
// JSON Schema the reply must validate against (providers that cannot
// enforce a schema natively rely on the schema text embedded in the system
// instruction).
type Request struct {
	System string
	User   string
	Schema json.RawMessage
}

// Provider generates a structured reply from a request using an LLM. The
// reply content is opaque JSON text; parsing it is the caller's concern.
type Provider interface {
	Generate(ctx context.Context, req Request, settings Settings) (string, error)
	Name() string
}
