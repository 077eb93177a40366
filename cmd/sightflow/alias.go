package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wak1616/sightflow/internal/alias"
	"github.com/wak1616/sightflow/internal/config"
	"github.com/wak1616/sightflow/internal/store"
)

func newAliasCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "alias <patient-context>",
		Short: "Print the stable pseudonymous alias for a patient context string",
		Long: `Alias maps a patient context string (name, MRN, whatever identifies
the chart locally) to a stable pseudonymous identifier. The mapping is
stored only on this machine; the context string itself is never persisted
in plaintext.`,
		Args: cobra.ExactArgs(1),
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

			a, err := alias.New(st).GetOrCreate(args[0])
			if err != nil {
				return exitError(3, "failed to resolve alias: %v", err)
			}
			fmt.Println(a)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Config file path")
	return cmd
}
