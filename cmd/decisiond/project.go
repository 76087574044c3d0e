package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/decisiond/internal/projection"
)

var (
	projectTools []string
	projectError string
	projectJSON  bool
)

var projectCmd = &cobra.Command{
	Use:   "project <task>",
	Short: "Project relevant decision history for a task",
	Long: `Build a datagraph from recent sessions and project the context
relevant to the given task: similar past decisions, applicable patterns,
warnings, and suggested tools.

Examples:
  decisiond project "fix the failing integration tests"
  decisiond project "deploy to staging" --tool Bash --error "missing secret"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProject,
}

func init() {
	projectCmd.Flags().StringArrayVar(&projectTools, "tool", nil, "tool being considered (repeatable)")
	projectCmd.Flags().StringVar(&projectError, "error", "", "error text currently being handled")
	projectCmd.Flags().BoolVar(&projectJSON, "json", false, "output structured JSON instead of rendered context")
}

func runProject(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(true)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	dg, _, err := buildDatagraph(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	task := strings.Join(args, " ")
	graph := projection.NewProjector(dg, logger).Project(task, projectTools, projectError)

	if projectJSON {
		out, err := json.MarshalIndent(graph, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding context graph: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), graph.RenderPromptContext())
	return nil
}
