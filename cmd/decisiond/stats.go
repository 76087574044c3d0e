package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print datagraph statistics",
	Long: `Build a datagraph from recent sessions and print its size:
trace totals, decision type distribution, and index counts.`,
	RunE: runStats,
}

func runStats(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup(true)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	dg, _, err := buildDatagraph(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(dg.GetStats(), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding stats: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
