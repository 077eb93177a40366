package execute

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/wak1616/sightflow/internal/match"
	"github.com/wak1616/sightflow/internal/plan"
	"github.com/wak1616/sightflow/internal/section"
)

// Transcript is a Surface that performs no real edits. It writes one
// human-readable line per action to Out, which makes --execute usable as a
// dry run and gives tests a scriptable surface.
type Transcript struct {
	Out      io.Writer
	Registry *section.Registry

	// Picklist mirrors the chart's condition picklist. Selections that do
	// not match it degrade to free-typed entries, same as the live chart.
	Picklist []string
}

func NewTranscript(out io.Writer, reg *section.Registry, picklist []string) *Transcript {
	return &Transcript{Out: out, Registry: reg, Picklist: picklist}
}

func (t *Transcript) OpenSection(_ context.Context, id section.ID) error {
	sec, ok := t.Registry.Get(id)
	if !ok {
		return fmt.Errorf("section %q: %w", id, ErrTargetNotFound)
	}
	fmt.Fprintf(t.Out, "== open %s\n", sec.Label)
	return nil
}

func (t *Transcript) CloseSection(_ context.Context, id section.ID) error {
	sec, ok := t.Registry.Get(id)
	if !ok {
		return fmt.Errorf("section %q: %w", id, ErrTargetNotFound)
	}
	fmt.Fprintf(t.Out, "== close %s\n", sec.Label)
	return nil
}

func (t *Transcript) Apply(_ context.Context, id section.ID, cmd plan.Command) error {
	switch p := cmd.Payload.(type) {
	case *plan.NarrativeText:
		fmt.Fprintf(t.Out, "   insert narrative (%d chars)\n", len(p.Text))
	case *plan.ChiefComplaint:
		fmt.Fprintf(t.Out, "   set chief complaint: %s%s\n", p.Finding, eye(p.Location))
	case *plan.ConditionSet:
		t.applyConditions(p)
	case *plan.Measurement:
		fmt.Fprintf(t.Out, "   set %s: OD %s / OS %s\n", p.Measure, orDash(p.OD), orDash(p.OS))
	case *plan.TestOrder:
		fmt.Fprintf(t.Out, "   order test: %s%s\n", p.Test, eye(p.Location))
	case *plan.Diagnosis:
		fmt.Fprintf(t.Out, "   add diagnosis: %s%s\n", p.Name, eye(p.Location))
		if p.Discussion != "" {
			fmt.Fprintf(t.Out, "   discussion: %s\n", p.Discussion)
		}
	case *plan.FollowUpTimeframe:
		fmt.Fprintf(t.Out, "   set follow-up: %s\n", p.Timeframe)
	default:
		return fmt.Errorf("%s in %s: %w", cmd.Type, id, ErrUnsupportedCommand)
	}
	return nil
}

func (t *Transcript) applyConditions(p *plan.ConditionSet) {
	for _, name := range p.Select {
		if r := match.Match(name, t.Picklist); r.Matched {
			fmt.Fprintf(t.Out, "   select condition: %s\n", r.Canonical)
		} else {
			fmt.Fprintf(t.Out, "   free-type condition: %s\n", name)
		}
	}
	for _, name := range p.FreeText {
		fmt.Fprintf(t.Out, "   free-type condition: %s\n", name)
	}
}

func eye(loc string) string {
	if loc == "" {
		return ""
	}
	return " " + strings.ToUpper(loc)
}

func orDash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}
