// Package main implements the decisiond CLI: extracting decision traces
// from Claude Code session transcripts, analyzing patterns across
// sessions, and projecting relevant context for new tasks.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/decisiond/internal/config"
	"github.com/fyrsmithlabs/decisiond/internal/datagraph"
	"github.com/fyrsmithlabs/decisiond/internal/decision"
	"github.com/fyrsmithlabs/decisiond/internal/logging"
	"github.com/fyrsmithlabs/decisiond/internal/sessions"
)

var (
	configPath string
	version    = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "decisiond",
	Short: "Decision trace extraction and context projection for coding agents",
	Long: `decisiond mines Claude Code session transcripts for decision traces,
accumulates them into an in-memory datagraph, and projects the relevant
subset as context for new tasks.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.config/decisiond/config.yaml)")
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(mcpCmd)
}

// setup loads config and builds the logger. stderrLogs forces log output
// to stderr for modes whose stdout is a data stream.
func setup(stderrLogs bool) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	logCfg := cfg.Logging
	if stderrLogs {
		logCfg.Stderr = true
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, nil, err
	}

	return cfg, logger, nil
}

func newExtractor(cfg *config.Config, logger *zap.Logger) *decision.Extractor {
	return decision.NewExtractor(decision.ExtractorConfig{
		MinThinkingChars:  cfg.Extraction.MinThinkingChars,
		AssociationWindow: cfg.Extraction.AssociationWindow,
	}, logger)
}

// discoverSessions returns the sessions to ingest. With discovery enabled
// the aichat lister is used (sampled when no query is given); otherwise
// the transcripts directory is scanned.
func discoverSessions(ctx context.Context, cfg *config.Config, logger *zap.Logger, query string, limit int) ([]sessions.SessionRef, error) {
	if cfg.Discovery.Enabled {
		lister := sessions.NewAichatLister(cfg.Discovery.Command, cfg.Discovery.Timeout, logger)
		if query != "" {
			return lister.ListSessions(ctx, query, limit)
		}
		return sessions.SampleSessions(ctx, lister, limit)
	}

	lister := sessions.NewDirectoryLister(cfg.Transcripts.Dir, logger)
	return lister.ListSessions(ctx, query, limit)
}

// buildDatagraph discovers sessions and folds them into a fresh
// datagraph, returning the transcript paths that contributed.
func buildDatagraph(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*datagraph.Datagraph, []string, error) {
	refs, err := discoverSessions(ctx, cfg, logger, "", cfg.Transcripts.SessionLimit)
	if err != nil {
		return nil, nil, fmt.Errorf("discovering sessions: %w", err)
	}

	paths := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref.FilePath != "" {
			paths = append(paths, ref.FilePath)
		}
	}

	dg := datagraph.Build(newExtractor(cfg, logger), paths, logger)
	return dg, paths, nil
}
