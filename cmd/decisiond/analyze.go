package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/decisiond/internal/analysis"
)

var (
	analyzeSample      int
	analyzeQuery       string
	analyzeTranscripts string
	analyzeJSON        bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze decision patterns across sessions",
	Long: `Sample sessions, extract their decision traces, and report
cross-session patterns: decision type distribution, tool usage, tool
sequences, and recovery patterns.

Examples:
  decisiond analyze
  decisiond analyze --sample 20 --query error
  decisiond analyze --json`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().IntVarP(&analyzeSample, "sample", "n", 10, "number of sessions to sample")
	analyzeCmd.Flags().StringVarP(&analyzeQuery, "query", "q", "", "search query to filter sessions")
	analyzeCmd.Flags().StringVarP(&analyzeTranscripts, "transcripts", "t", "", "transcripts directory to scan instead of discovery")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "output as JSON instead of a report")
}

// analyzeOutput is the JSON shape of one analyze run.
type analyzeOutput struct {
	Aggregate     *analysis.AggregatePatterns `json:"aggregate"`
	ToolSequences []analysis.SequenceCount    `json:"tool_sequences"`
	Sessions      []*analysis.SessionSummary  `json:"sessions"`
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup(true)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if analyzeTranscripts != "" {
		// Explicit directory wins over configured discovery.
		cfg.Transcripts.Dir = analyzeTranscripts
		cfg.Discovery.Enabled = false
	}

	refs, err := discoverSessions(cmd.Context(), cfg, logger, analyzeQuery, analyzeSample)
	if err != nil {
		return fmt.Errorf("discovering sessions: %w", err)
	}
	logger.Info("analyzing sessions", zap.Int("count", len(refs)))

	extractor := newExtractor(cfg, logger)
	aggregate := analysis.NewAggregatePatterns()
	var summaries []*analysis.SessionSummary

	for _, ref := range refs {
		summary, err := analysis.AnalyzeSession(ref, extractor)
		if err != nil {
			logger.Warn("skipping session",
				zap.String("path", ref.FilePath), zap.Error(err))
			continue
		}
		if summary == nil {
			continue
		}
		aggregate.AddSession(summary)
		summaries = append(summaries, summary)
	}

	if analyzeJSON {
		out, err := json.MarshalIndent(analyzeOutput{
			Aggregate:     aggregate,
			ToolSequences: analysis.ToolSequences(summaries),
			Sessions:      summaries,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding analysis: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), aggregate.GenerateReport())
	return nil
}
