// Package render produces Markdown output from plans and execution reports.
package render

import (
	"fmt"
	"strings"

	"github.com/wak1616/sightflow/internal/plan"
	"github.com/wak1616/sightflow/internal/section"
)

// Markdown renders a plan as a Markdown report for clinician review.
func Markdown(p *plan.Plan, reg *section.Registry) string {
	var b strings.Builder

	b.WriteString("# SightFlow Plan\n\n")
	if p.Summary != "" {
		fmt.Fprintf(&b, "%s\n\n", p.Summary)
	}
	fmt.Fprintf(&b, "**Provider:** %s", p.Meta.Provider)
	if p.Meta.Model != "" {
		fmt.Fprintf(&b, " (%s)", p.Meta.Model)
	}
	b.WriteString("\n")
	if p.Meta.PatientAlias != "" {
		fmt.Fprintf(&b, "**Patient:** %s\n", p.Meta.PatientAlias)
	}
	if !p.Meta.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "**Generated:** %s\n", p.Meta.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	}
	b.WriteString("\n")

	if len(p.Warnings) > 0 {
		b.WriteString("## Warnings\n\n")
		for _, w := range p.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
		b.WriteString("\n")
	}

	if len(p.Items) == 0 {
		b.WriteString("No chart changes proposed.\n")
		return b.String()
	}

	b.WriteString("## Sections\n\n")
	for _, item := range p.Items {
		renderItem(&b, item, reg)
	}

	return b.String()
}

func renderItem(b *strings.Builder, item plan.Item, reg *section.Registry) {
	fmt.Fprintf(b, "### %s [%s]\n\n", sectionLabel(item.Section, reg), item.Status)
	if item.Subsection != "" {
		fmt.Fprintf(b, "**Subsection:** %s\n\n", item.Subsection)
	}
	if item.Reasoning != "" {
		fmt.Fprintf(b, "%s\n\n", item.Reasoning)
	}
	if item.Confidence != nil {
		fmt.Fprintf(b, "**Confidence:** %.0f%%\n\n", *item.Confidence*100)
	}

	for _, cmd := range item.Commands {
		fmt.Fprintf(b, "- `%s` %s\n", cmd.Type, describeCommand(cmd))
	}
	for _, note := range item.ManualNotes {
		fmt.Fprintf(b, "- **Manual:** %s (%s)\n", describeNote(note), note.Reason)
	}
	if len(item.Commands)+len(item.ManualNotes) > 0 {
		b.WriteString("\n")
	}
}

// Report renders an execution report as Markdown.
func Report(r *plan.ExecutionReport, reg *section.Registry) string {
	var b strings.Builder

	b.WriteString("# Execution Report\n\n")
	fmt.Fprintf(&b, "**Applied:** %d commands, **skipped:** %d\n\n",
		len(r.Executed), len(r.Skipped))

	if len(r.Executed) > 0 {
		b.WriteString("## Applied\n\n")
		for _, ex := range r.Executed {
			fmt.Fprintf(&b, "- %s: `%s`\n", sectionLabel(ex.Section, reg), ex.Command)
		}
		b.WriteString("\n")
	}

	if len(r.Skipped) > 0 {
		b.WriteString("## Skipped\n\n")
		for _, sk := range r.Skipped {
			fmt.Fprintf(&b, "- %s: %s\n", sectionLabel(sk.Section, reg), sk.Reason)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func sectionLabel(id section.ID, reg *section.Registry) string {
	if reg != nil {
		if sec, ok := reg.Get(id); ok {
			return sec.Label
		}
	}
	return string(id)
}

func describeCommand(cmd plan.Command) string {
	if cmd.Description != "" {
		return cmd.Description
	}
	switch p := cmd.Payload.(type) {
	case *plan.NarrativeText:
		return fmt.Sprintf("insert %d chars of narrative", len(p.Text))
	case *plan.ChiefComplaint:
		return "set chief complaint: " + p.Finding
	case *plan.ConditionSet:
		return fmt.Sprintf("record %d condition(s)", len(p.Select)+len(p.FreeText))
	case *plan.Measurement:
		return "set " + p.Measure
	case *plan.TestOrder:
		return "order " + p.Test
	case *plan.Diagnosis:
		return "add diagnosis: " + p.Name
	case *plan.FollowUpTimeframe:
		return "follow up in " + p.Timeframe
	}
	return ""
}

func describeNote(note plan.ManualNote) string {
	if note.Description != "" {
		return note.Description
	}
	return string(note.Type)
}
