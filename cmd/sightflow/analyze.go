package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wak1616/sightflow/internal/alias"
	"github.com/wak1616/sightflow/internal/config"
	"github.com/wak1616/sightflow/internal/execute"
	"github.com/wak1616/sightflow/internal/generate"
	"github.com/wak1616/sightflow/internal/llm"
	"github.com/wak1616/sightflow/internal/plan"
	"github.com/wak1616/sightflow/internal/render"
	"github.com/wak1616/sightflow/internal/section"
	"github.com/wak1616/sightflow/internal/store"
)

type analyzeFlags struct {
	format      string
	out         string
	configPath  string
	provider    string
	model       string
	maxTokens   int
	temperature float64
	patient         string
	execute         bool
	requireProvider bool
	verbose         bool
}

func newAnalyzeCmd() *cobra.Command {
	f := &analyzeFlags{}

	cmd := &cobra.Command{
		Use:   "analyze <narrative-file>",
		Short: "Analyze a clinical narrative and produce a chart-edit plan",
		Long: `Analyze reads a free-text clinical narrative (use "-" for stdin),
generates a section-scoped chart-edit plan, and prints it for review.
With --execute the plan is also applied to the transcript surface and
the run is journaled.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(args[0], f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.format, "format", "md", "Output format: json or md")
	flags.StringVar(&f.out, "out", "", "Output file path (default: stdout)")
	flags.StringVar(&f.configPath, "config", "", "Config file path")
	flags.StringVar(&f.provider, "provider", "", "AI provider: openai or anthropic")
	flags.StringVar(&f.model, "model", "", "Model ID (e.g., gpt-4o-mini)")
	flags.IntVar(&f.maxTokens, "max-tokens", 4096, "Max response tokens")
	flags.Float64Var(&f.temperature, "temperature", 0.2, "Model temperature")
	flags.StringVar(&f.patient, "patient", "", "Patient context string for alias lookup")
	flags.BoolVar(&f.execute, "execute", false, "Apply the plan and journal the run")
	flags.BoolVar(&f.requireProvider, "require-provider", false, "Fail instead of falling back to heuristic extraction when no AI provider is configured")
	flags.BoolVar(&f.verbose, "verbose", false, "Print processing steps to stderr")

	return cmd
}

func runAnalyze(narrativePath string, f *analyzeFlags) error {
	logger := log.New(os.Stderr, "", 0)
	verbose := func(msg string, args ...any) {
		if f.verbose {
			logger.Printf(msg, args...)
		}
	}

	cfg, err := config.Load(f.configPath)
	if err != nil {
		return exitError(3, "failed to load config: %v", err)
	}
	if f.provider != "" {
		cfg.Provider = f.provider
	}
	if f.model != "" {
		cfg.Model = f.model
	}

	verbose("Reading narrative: %s", narrativePath)
	narrative, err := readNarrative(narrativePath)
	if err != nil {
		return exitError(3, "failed to read narrative: %v", err)
	}

	verbose("Opening store: %s", cfg.StorePath)
	st, err := store.Open(cfg.StorePath)
	if err != nil {
		return exitError(3, "failed to open store: %v", err)
	}
	defer st.Close()

	patientAlias, err := alias.New(st).GetOrCreate(f.patient)
	if err != nil {
		return exitError(3, "failed to resolve patient alias: %v", err)
	}
	verbose("Patient alias: %s", patientAlias)

	provider, err := llm.Resolve(cfg.Provider, cfg.APIKey)
	if err != nil {
		if f.requireProvider {
			return exitError(4, "no AI provider configured (--require-provider): %v", err)
		}
		verbose("No AI provider (%v), using heuristic extraction", err)
		provider = nil
	} else {
		verbose("Using provider: %s", provider.Name())
	}

	reg := section.Default()
	gen := generate.New(reg, provider)
	gen.Settings = llm.Settings{
		Model:       cfg.Model,
		Temperature: f.temperature,
		MaxTokens:   f.maxTokens,
	}
	gen.RedactNarrative = *cfg.Redact
	if len(cfg.Conditions) > 0 {
		gen.Conditions = cfg.Conditions
	}

	verbose("Generating plan...")
	p := gen.Generate(context.Background(), narrative, patientAlias)
	verbose("Plan has %d section(s), %d warning(s)", len(p.Items), len(p.Warnings))

	output, err := formatPlan(p, f.format, reg)
	if err != nil {
		return err
	}
	if err := writeOutput(output, f.out); err != nil {
		return err
	}

	if !f.execute {
		return nil
	}

	verbose("Executing plan")
	exec := execute.New(execute.NewTranscript(os.Stdout, reg, gen.Conditions))
	exec.Settle = settleFunc(time.Duration(cfg.SettleMS) * time.Millisecond)

	report, err := exec.Execute(context.Background(), p)
	if err != nil {
		return exitError(4, "execution aborted: %v", err)
	}
	fmt.Print(render.Report(report, reg))

	if err := st.LogExecution(p.Summary, report); err != nil {
		return fmt.Errorf("failed to journal execution: %w", err)
	}
	return nil
}

func readNarrative(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

// planDoc is the JSON output shape: the wire-form plan plus warnings and
// generation metadata.
type planDoc struct {
	Summary  string            `json:"summary,omitempty"`
	Sections []plan.RawSection `json:"sections"`
	Warnings []string          `json:"warnings,omitempty"`
	Meta     plan.Meta         `json:"meta"`
}

func formatPlan(p *plan.Plan, format string, reg *section.Registry) (string, error) {
	switch format {
	case "json":
		doc := planDoc{
			Summary:  p.Summary,
			Sections: plan.ToRaw(p).Sections,
			Warnings: p.Warnings,
			Meta:     p.Meta,
		}
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal output: %w", err)
		}
		return string(data) + "\n", nil
	case "md":
		return render.Markdown(p, reg), nil
	}
	return "", exitError(3, "unknown format: %s", format)
}

func writeOutput(output, path string) error {
	if path == "" {
		fmt.Print(output)
		return nil
	}
	if err := os.WriteFile(path, []byte(output), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func settleFunc(d time.Duration) func(context.Context) {
	return func(ctx context.Context) {
		if d <= 0 {
			return
		}
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
		case <-t.C:
		}
	}
}

type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

func exitError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}
