package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wak1616/sightflow/internal/config"
	"github.com/wak1616/sightflow/internal/store"
)

func newRunsCmd() *cobra.Command {
	var (
		configPath string
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List journaled plan executions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return exitError(3, "failed to load config: %v", err)
			}
			st, err := store.Open(cfg.StorePath)
			if err != nil {
				return exitError(3, "failed to open store: %v", err)
			}
			defer st.Close()

			records, err := st.ListExecutions(limit)
			if err != nil {
				return exitError(3, "failed to list executions: %v", err)
			}
			if len(records) == 0 {
				fmt.Println("No journaled executions.")
				return nil
			}
			for _, rec := range records {
				summary := rec.Summary
				if summary == "" {
					summary = "(no summary)"
				}
				fmt.Printf("#%d  %s  applied %d, skipped %d  %s\n",
					rec.ID, rec.Time.Format("2006-01-02 15:04"),
					len(rec.Report.Executed), len(rec.Report.Skipped), summary)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Config file path")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list")
	return cmd
}
