package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract <transcript.jsonl>",
	Short: "Extract decision traces from one session transcript",
	Long: `Extract decision traces from a Claude Code JSONL session transcript
and print them as JSON.

Examples:
  decisiond extract ~/.claude/projects/myproject/abc123.jsonl`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(true)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	traces, err := newExtractor(cfg, logger).Extract(args[0])
	if err != nil {
		return fmt.Errorf("extracting traces: %w", err)
	}

	out, err := json.MarshalIndent(traces, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding traces: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
