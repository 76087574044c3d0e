package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/decisiond/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the datagraph over MCP on stdio",
	Long: `Build a datagraph from recent sessions and serve it to MCP clients
over stdio. Logs go to stderr; stdout carries the protocol stream.

Register with Claude Code:
  claude mcp add decisiond -- decisiond mcp`,
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup(true)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dg, paths, err := buildDatagraph(ctx, cfg, logger)
	if err != nil {
		return err
	}
	logger.Info("datagraph ready",
		zap.Int("sessions", len(paths)),
		zap.Int("traces", dg.GetStats().TotalTraces))

	server, err := mcp.NewServer(nil, dg, newExtractor(cfg, logger), logger)
	if err != nil {
		return err
	}

	return server.Run(ctx)
}
