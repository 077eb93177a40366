// Package execute applies sanitized plans to a chart surface, one section
// at a time, and reports exactly what was applied and what was skipped.
package execute

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wak1616/sightflow/internal/plan"
	"github.com/wak1616/sightflow/internal/section"
)

// Sentinel errors a Surface returns to describe why a command could not be
// applied. Anything else is treated as an opaque apply failure; either way
// the command is skipped and the run continues.
var (
	ErrTargetNotFound     = errors.New("target element not found")
	ErrUnsupportedCommand = errors.New("unsupported command")
)

// Surface is the chart being edited. Implementations navigate to a section,
// apply individual commands inside it, and settle back out.
type Surface interface {
	OpenSection(ctx context.Context, id section.ID) error
	Apply(ctx context.Context, id section.ID, cmd plan.Command) error
	CloseSection(ctx context.Context, id section.ID) error
}

// Executor runs a plan against a Surface. The zero Settle falls back to a
// fixed delay between commands so the surface can settle after each edit.
type Executor struct {
	Surface Surface
	Settle  func(ctx context.Context)
}

const defaultSettle = 400 * time.Millisecond

// New returns an Executor with the default settle delay.
func New(surface Surface) *Executor {
	return &Executor{
		Surface: surface,
		Settle: func(ctx context.Context) {
			t := time.NewTimer(defaultSettle)
			defer t.Stop()
			select {
			case <-ctx.Done():
			case <-t.C:
			}
		},
	}
}

// batch is one section's worth of commands, merged across plan items.
type batch struct {
	section  section.ID
	commands []plan.Command
}

// groupBySection merges commands from all items targeting the same section
// into one batch per section. Batches keep the order sections first appear
// in; within a batch, commands keep item order.
func groupBySection(items []plan.Item) []batch {
	var batches []batch
	index := make(map[section.ID]int)
	for _, item := range items {
		if len(item.Commands) == 0 {
			continue
		}
		i, ok := index[item.Section]
		if !ok {
			i = len(batches)
			index[item.Section] = i
			batches = append(batches, batch{section: item.Section})
		}
		batches[i].commands = append(batches[i].commands, item.Commands...)
	}
	return batches
}

// Execute applies every command in the plan. Commands are grouped by target
// section first, so each section is opened and closed exactly once even
// when several items address it. A command that fails is recorded as
// skipped with its reason; the run keeps going. Only context cancellation
// aborts early, and the report returned then still covers everything
// attempted so far.
func (e *Executor) Execute(ctx context.Context, p *plan.Plan) (*plan.ExecutionReport, error) {
	report := &plan.ExecutionReport{}
	if p == nil {
		return report, nil
	}

	for _, b := range groupBySection(p.Items) {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if err := e.Surface.OpenSection(ctx, b.section); err != nil {
			for range b.commands {
				report.Skipped = append(report.Skipped, plan.Skipped{
					Section: b.section,
					Reason:  fmt.Sprintf("open section: %v", err),
				})
			}
			continue
		}

		for _, cmd := range b.commands {
			if err := ctx.Err(); err != nil {
				e.Surface.CloseSection(ctx, b.section)
				return report, err
			}

			if err := e.Surface.Apply(ctx, b.section, cmd); err != nil {
				report.Skipped = append(report.Skipped, plan.Skipped{
					Section: b.section,
					Reason:  skipReason(cmd, err),
				})
			} else {
				report.Executed = append(report.Executed, plan.Executed{
					Section: b.section,
					Command: cmd.Type,
				})
			}
			if e.Settle != nil {
				e.Settle(ctx)
			}
		}

		if err := e.Surface.CloseSection(ctx, b.section); err != nil {
			report.Skipped = append(report.Skipped, plan.Skipped{
				Section: b.section,
				Reason:  fmt.Sprintf("close section: %v", err),
			})
		}
	}

	return report, nil
}

func skipReason(cmd plan.Command, err error) string {
	switch {
	case errors.Is(err, ErrTargetNotFound):
		return fmt.Sprintf("%s: %v", cmd.Type, ErrTargetNotFound)
	case errors.Is(err, ErrUnsupportedCommand):
		return fmt.Sprintf("%s: %v", cmd.Type, ErrUnsupportedCommand)
	default:
		return fmt.Sprintf("%s: apply failed: %v", cmd.Type, err)
	}
}
