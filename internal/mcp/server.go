// Package mcp exposes the datagraph over the Model Context Protocol so
// coding agents can pull relevant decision history into their context.
package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/decisiond/internal/datagraph"
	"github.com/fyrsmithlabs/decisiond/internal/decision"
	"github.com/fyrsmithlabs/decisiond/internal/projection"
)

// Config configures the MCP server identity.
type Config struct {
	Name    string
	Version string
	Logger  *zap.Logger
}

// DefaultConfig returns the standard server identity.
func DefaultConfig() *Config {
	return &Config{
		Name:    "decisiond",
		Version: "0.1.0",
	}
}

// Server serves datagraph tools over MCP. The datagraph is read-only for
// the server's lifetime; session_extract returns traces without folding
// them in.
type Server struct {
	mcp       *mcp.Server
	dg        *datagraph.Datagraph
	extractor *decision.Extractor
	projector *projection.Projector
	logger    *zap.Logger
}

// NewServer creates an MCP server over the given datagraph.
func NewServer(cfg *Config, dg *datagraph.Datagraph, extractor *decision.Extractor, logger *zap.Logger) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if dg == nil {
		return nil, fmt.Errorf("datagraph is required")
	}
	if extractor == nil {
		return nil, fmt.Errorf("extractor is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    cfg.Name,
			Version: cfg.Version,
		},
		nil,
	)

	s := &Server{
		mcp:       mcpServer,
		dg:        dg,
		extractor: extractor,
		projector: projection.NewProjector(dg, logger),
		logger:    logger,
	}
	s.registerTools()

	return s, nil
}

// Run starts the MCP server on the stdio transport.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting MCP server on stdio transport")
	transport := &mcp.StdioTransport{}
	if err := s.mcp.Run(ctx, transport); err != nil {
		return fmt.Errorf("server run failed: %w", err)
	}
	return nil
}
