// Package generate turns a clinical narrative into a sanitized plan, via
// the AI provider when one is configured and a deterministic heuristic
// extractor otherwise.
package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/wak1616/sightflow/internal/llm"
	"github.com/wak1616/sightflow/internal/plan"
	"github.com/wak1616/sightflow/internal/prompt"
	"github.com/wak1616/sightflow/internal/redact"
	"github.com/wak1616/sightflow/internal/sanitize"
	"github.com/wak1616/sightflow/internal/section"
)

// Generator produces plans from narratives. A nil Provider means "not
// configured" and routes every request to the heuristic extractor.
type Generator struct {
	Provider        llm.Provider
	Registry        *section.Registry
	Settings        llm.Settings
	Conditions      []string
	RedactNarrative bool

	now func() time.Time
}

// New returns a Generator with the default registry-wide condition list
// and redaction enabled.
func New(reg *section.Registry, provider llm.Provider) *Generator {
	return &Generator{
		Provider:        provider,
		Registry:        reg,
		Conditions:      KnownConditions(),
		RedactNarrative: true,
		now:             time.Now,
	}
}

const heuristicProvider = "heuristic"

// Generate analyzes a narrative and always returns a sanitized plan; it
// never returns an error. Provider failures of any kind (no credentials,
// network, non-2xx, malformed JSON) degrade to the heuristic extractor,
// with a warning when the provider actually failed.
func (g *Generator) Generate(ctx context.Context, narrative, patientAlias string) *plan.Plan {
	meta := plan.Meta{
		Provider:     heuristicProvider,
		PatientAlias: patientAlias,
		GeneratedAt:  g.now().UTC(),
	}

	trimmed := strings.TrimSpace(narrative)
	if trimmed == "" {
		out := sanitize.Plan(&plan.Raw{Summary: "No content provided"}, g.Registry)
		out.Warnings = append(out.Warnings, "narrative was empty; nothing to analyze")
		out.Meta = meta
		return out
	}

	text := trimmed
	if g.RedactNarrative {
		text = redact.Redact(trimmed)
	}

	var warnings []string
	raw, err := g.attemptProvider(ctx, text, patientAlias)
	switch {
	case err == nil && raw != nil:
		meta.Provider = g.Provider.Name()
		meta.Model = g.Settings.Model
	case err != nil:
		// Provider was configured but failed; fall back and say so.
		warnings = append(warnings, fmt.Sprintf("AI provider unavailable, used heuristic extraction: %v", err))
		fallthrough
	default:
		raw = g.heuristic(text)
	}

	out := sanitize.Plan(raw, g.Registry)
	out.Warnings = append(out.Warnings, warnings...)
	out.Meta = meta
	return out
}

// attemptProvider returns (nil, nil) when no provider is configured, a
// raw plan on success, and an error on any provider failure.
func (g *Generator) attemptProvider(ctx context.Context, narrative, patientAlias string) (*plan.Raw, error) {
	if g.Provider == nil {
		return nil, nil
	}

	sections := g.Registry.IDs()
	req := llm.Request{
		System: prompt.System(),
		User:   prompt.User(narrative, patientAlias, sections),
		Schema: prompt.Schema(sections),
	}

	content, err := g.Provider.Generate(ctx, req, g.Settings)
	if err != nil {
		return nil, err
	}

	var raw plan.Raw
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("parse provider reply: %w", err)
	}
	return &raw, nil
}
