// Package sanitize normalizes raw candidate plans against the section
// registry so that only commands legal for their target section are ever
// scheduled.
package sanitize

import (
	"fmt"

	"github.com/wak1616/sightflow/internal/plan"
	"github.com/wak1616/sightflow/internal/section"
)

// Plan validates and normalizes a raw candidate plan. The pass is pure and
// total: it never fails, and malformed input degrades to empty lists.
//
// Items targeting unknown section ids are dropped outright (an unknown id
// is almost always a hallucinated section name, and surfacing it would only
// confuse the reviewer). Within surviving items, commands that are not
// legal for the section, or that are explicitly manual, are moved to the
// item's manual notes with a reason — a non-automatable intent still
// carries clinical value for the human reviewer.
func Plan(raw *plan.Raw, reg *section.Registry) *plan.Plan {
	out := &plan.Plan{}
	if raw == nil || reg == nil {
		return out
	}
	out.Summary = raw.Summary

	for _, rs := range raw.Sections {
		id := section.ID(rs.ID)
		sec, ok := reg.Get(id)
		if !ok {
			continue
		}

		item := plan.Item{
			Section:    sec.ID,
			Subsection: rs.Subsection,
			Reasoning:  rs.Reasoning,
			Confidence: clampConfidence(rs.Confidence),
		}

		for _, rc := range rs.Commands {
			if rc.Type == "" {
				continue
			}
			cmdType := section.CommandType(rc.Type)

			if cmdType == section.CmdManualAction {
				item.ManualNotes = append(item.ManualNotes, plan.ManualNote{
					Type:        cmdType,
					Description: defaultDescription(rc.Description, "Manual follow-up required"),
					Payload:     rc.Payload,
					Reason:      "manual action requested",
				})
				continue
			}

			if !reg.IsAllowed(sec.ID, cmdType) {
				item.ManualNotes = append(item.ManualNotes, plan.ManualNote{
					Type:        cmdType,
					Description: defaultDescription(rc.Description, "Unsupported command"),
					Payload:     rc.Payload,
					Reason:      fmt.Sprintf("%s not allowed for section %s", rc.Type, sec.ID),
				})
				continue
			}

			payload, err := plan.DecodePayload(cmdType, rc.Payload)
			if err != nil {
				// Malformed params cannot be trusted for automation or
				// review; degrade by dropping the command.
				continue
			}

			item.Commands = append(item.Commands, plan.Command{
				Type:        cmdType,
				Description: rc.Description,
				Payload:     payload,
			})
		}

		if len(item.Commands)+len(item.ManualNotes) > 0 {
			item.Status = plan.StatusPending
		} else {
			item.Status = plan.StatusInactive
		}
		out.Items = append(out.Items, item)
	}

	return out
}

func clampConfidence(c *float64) *float64 {
	if c == nil {
		return nil
	}
	v := *c
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return &v
}

func defaultDescription(desc, fallback string) string {
	if desc == "" {
		return fallback
	}
	return desc
}
