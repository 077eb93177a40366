package generate

import (
	"reflect"
	"testing"

	"github.com/wak1616/sightflow/internal/plan"
	"github.com/wak1616/sightflow/internal/section"
)

func TestKnownConditionsEmbedded(t *testing.T) {
	known := KnownConditions()
	if len(known) == 0 {
		t.Fatal("embedded condition list is empty")
	}
	found := false
	for _, c := range known {
		if c == "Diverticulosis" {
			found = true
		}
	}
	if !found {
		t.Error("picklist missing Diverticulosis")
	}
}

func TestHeuristicNarrativeItem(t *testing.T) {
	g := New(section.Default(), nil)
	narrative := "Patient reports floaters OD for two weeks."

	raw := g.heuristic(narrative)
	if len(raw.Sections) != 1 {
		t.Fatalf("got %d sections, want 1 (no condition phrases)", len(raw.Sections))
	}
	sec := raw.Sections[0]
	if sec.ID != string(section.History) {
		t.Errorf("section = %q, want history", sec.ID)
	}
	if sec.Reasoning != "free-text encounter narrative supplied by clinician" {
		t.Errorf("reasoning = %q", sec.Reasoning)
	}
	if len(sec.Commands) != 1 || sec.Commands[0].Type != string(section.CmdInsertNarrative) {
		t.Fatalf("commands = %+v", sec.Commands)
	}
	payload, err := plan.DecodePayload(section.CmdInsertNarrative, sec.Commands[0].Payload)
	if err != nil {
		t.Fatal(err)
	}
	if payload.(*plan.NarrativeText).Text != narrative {
		t.Errorf("narrative payload = %q", payload.(*plan.NarrativeText).Text)
	}
}

func TestExtractConditions(t *testing.T) {
	g := New(section.Default(), nil)

	tests := []struct {
		name      string
		narrative string
		selected  []string
		freeText  []string
	}{
		{
			name:      "picklist match with canonical casing",
			narrative: "Patient has a history of diverticulosis.",
			selected:  []string{"Diverticulosis"},
		},
		{
			name:      "plural tolerated",
			narrative: "Hx of cataracts.",
			selected:  []string{"Cataract"},
		},
		{
			name:      "conjunction split",
			narrative: "Past medical history includes hypertension and hyperlipidemia.",
			selected:  []string{"Hypertension", "Hyperlipidemia"},
		},
		{
			name:      "roman numeral casing",
			narrative: "Diagnosed with diabetes mellitus type ii.",
			selected:  []string{"Diabetes Mellitus Type II"},
		},
		{
			name:      "unknown condition free-typed",
			narrative: "h/o trigeminal neuralgia.",
			freeText:  []string{"Trigeminal Neuralgia"},
		},
		{
			name:      "mixed and deduped",
			narrative: "History of glaucoma, glaucoma and ocular rosacea.",
			selected:  []string{"Glaucoma"},
			freeText:  []string{"Ocular Rosacea"},
		},
		{
			name:      "narrative order across patterns",
			narrative: "Diagnosed with asthma. History of glaucoma.",
			selected:  []string{"Asthma", "Glaucoma"},
		},
		{
			name:      "no condition phrases",
			narrative: "Vision stable. Continue current drops.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			selected, freeText := g.extractConditions(tt.narrative)
			if !reflect.DeepEqual(selected, tt.selected) {
				t.Errorf("selected = %v, want %v", selected, tt.selected)
			}
			if !reflect.DeepEqual(freeText, tt.freeText) {
				t.Errorf("freeText = %v, want %v", freeText, tt.freeText)
			}
		})
	}
}

func TestHeuristicDeterministic(t *testing.T) {
	g := New(section.Default(), nil)
	narrative := "History of diverticulosis, GERD and migraine. Follow up 2 weeks."

	first := g.heuristic(narrative)
	for i := 0; i < 5; i++ {
		if got := g.heuristic(narrative); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs:\nfirst: %+v\ngot:   %+v", i, first, got)
		}
	}
}

func TestCanonicalCase(t *testing.T) {
	tests := []struct{ in, want string }{
		{"diverticulosis", "Diverticulosis"},
		{"diabetes mellitus type ii", "Diabetes Mellitus Type II"},
		{"dry eye od", "Dry Eye OD"},
		{"chronic kidney disease", "Chronic Kidney Disease"},
	}
	for _, tt := range tests {
		if got := canonicalCase(tt.in); got != tt.want {
			t.Errorf("canonicalCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
