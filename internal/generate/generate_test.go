package generate

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/wak1616/sightflow/internal/llm"
	"github.com/wak1616/sightflow/internal/plan"
	"github.com/wak1616/sightflow/internal/section"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestGenerator(provider llm.Provider) *Generator {
	g := New(section.Default(), provider)
	g.now = func() time.Time { return fixedNow }
	return g
}

func TestEmptyNarrative(t *testing.T) {
	g := newTestGenerator(&llm.MockProvider{Response: "should not be called"})

	got := g.Generate(context.Background(), "   \n\t  ", "SF-X")
	if got.Summary != "No content provided" {
		t.Errorf("summary = %q", got.Summary)
	}
	if len(got.Items) != 0 {
		t.Errorf("items = %+v, want none", got.Items)
	}
	if len(got.Warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one", got.Warnings)
	}
	if got.Meta.Provider != "heuristic" {
		t.Errorf("provider = %q, want heuristic", got.Meta.Provider)
	}
	if !got.Meta.GeneratedAt.Equal(fixedNow) {
		t.Errorf("generated_at = %v", got.Meta.GeneratedAt)
	}
}

func TestProviderSuccess(t *testing.T) {
	mock := &llm.MockProvider{Response: `{
		"summary": "Add floaters complaint",
		"sections": [
			{"id": "history", "reasoning": "new complaint", "commands": [
				{"messageType": "SET_CHIEF_COMPLAINT", "description": "set complaint",
				 "payload": {"finding": "Floaters", "location": "OD"}}
			]}
		]
	}`}
	g := newTestGenerator(mock)
	g.Settings.Model = "gpt-4o-mini"

	got := g.Generate(context.Background(), "Patient reports floaters OD.", "SF-A")
	if got.Meta.Provider != "mock" || got.Meta.Model != "gpt-4o-mini" {
		t.Errorf("meta = %+v", got.Meta)
	}
	if len(got.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", got.Warnings)
	}
	if len(got.Items) != 1 || got.Items[0].Section != section.History {
		t.Fatalf("items = %+v", got.Items)
	}
	cc := got.Items[0].Commands[0].Payload.(*plan.ChiefComplaint)
	if cc.Finding != "Floaters" || cc.Location != "OD" {
		t.Errorf("payload = %+v", cc)
	}
	if !strings.Contains(mock.LastRequest.User, "Patient alias: SF-A") {
		t.Error("provider request missing patient alias")
	}
	if len(mock.LastRequest.Schema) == 0 {
		t.Error("provider request missing response schema")
	}
}

func TestProviderResultSanitized(t *testing.T) {
	mock := &llm.MockProvider{Response: `{
		"sections": [
			{"id": "exam", "commands": [
				{"messageType": "INSERT_NARRATIVE", "description": "lens notes",
				 "payload": {"text": "2+ NS OU"}}
			]},
			{"id": "made-up", "commands": [{"messageType": "INSERT_NARRATIVE"}]}
		]
	}`}
	g := newTestGenerator(mock)

	got := g.Generate(context.Background(), "Lens shows 2+ NS OU.", "")
	if len(got.Items) != 1 {
		t.Fatalf("items = %+v, want hallucinated section dropped", got.Items)
	}
	item := got.Items[0]
	if item.Section != section.Exam || len(item.Commands) != 0 || len(item.ManualNotes) != 1 {
		t.Errorf("exam item should carry only a manual note: %+v", item)
	}
}

func TestProviderFailureFallsBack(t *testing.T) {
	mock := &llm.MockProvider{Err: errors.New("429 rate limited")}
	g := newTestGenerator(mock)

	got := g.Generate(context.Background(), "History of diverticulosis.", "SF-B")
	if got.Meta.Provider != "heuristic" {
		t.Errorf("provider = %q, want heuristic after failure", got.Meta.Provider)
	}
	if len(got.Warnings) != 1 || !strings.Contains(got.Warnings[0], "429 rate limited") {
		t.Errorf("warnings = %v, want one carrying the provider error", got.Warnings)
	}

	var sawHistory, sawPast bool
	for _, item := range got.Items {
		switch item.Section {
		case section.History:
			sawHistory = true
		case section.PastHistory:
			sawPast = true
			cs := item.Commands[0].Payload.(*plan.ConditionSet)
			if len(cs.Select) != 1 || cs.Select[0] != "Diverticulosis" {
				t.Errorf("conditions = %+v", cs)
			}
		}
	}
	if !sawHistory || !sawPast {
		t.Errorf("fallback items = %+v, want history and psfhros", got.Items)
	}
}

func TestMalformedProviderReplyFallsBack(t *testing.T) {
	mock := &llm.MockProvider{Response: "Here is your plan: {oops"}
	g := newTestGenerator(mock)

	got := g.Generate(context.Background(), "Vision stable.", "")
	if got.Meta.Provider != "heuristic" {
		t.Errorf("provider = %q, want heuristic after parse failure", got.Meta.Provider)
	}
	if len(got.Warnings) != 1 {
		t.Errorf("warnings = %v", got.Warnings)
	}
}

func TestNoProviderConfigured(t *testing.T) {
	g := newTestGenerator(nil)

	got := g.Generate(context.Background(), "Vision stable.", "")
	if got.Meta.Provider != "heuristic" {
		t.Errorf("provider = %q", got.Meta.Provider)
	}
	if len(got.Warnings) != 0 {
		t.Errorf("missing configuration is not a warning condition, got %v", got.Warnings)
	}
}

func TestNarrativeRedactedBeforeProvider(t *testing.T) {
	mock := &llm.MockProvider{Response: `{"sections": []}`}
	g := newTestGenerator(mock)

	g.Generate(context.Background(), "Call patient at 555-867-5309 re floaters.", "SF-C")
	if strings.Contains(mock.LastRequest.User, "555-867-5309") {
		t.Error("phone number leaked to provider")
	}
	if !strings.Contains(mock.LastRequest.User, "[REDACTED]") {
		t.Error("redaction marker missing from provider request")
	}
}

func TestRedactionDisabled(t *testing.T) {
	mock := &llm.MockProvider{Response: `{"sections": []}`}
	g := newTestGenerator(mock)
	g.RedactNarrative = false

	g.Generate(context.Background(), "Call patient at 555-867-5309.", "")
	if !strings.Contains(mock.LastRequest.User, "555-867-5309") {
		t.Error("narrative should pass through unredacted when disabled")
	}
}
