package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/decisiond/internal/datagraph"
	"github.com/fyrsmithlabs/decisiond/internal/sessions"
	"github.com/fyrsmithlabs/decisiond/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the transcripts directory and ingest new traces",
	Long: `Build a datagraph from the transcripts directory, then watch it for
new or growing session transcripts and ingest their decision traces
incrementally. Runs until interrupted.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup(true)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lister := sessions.NewDirectoryLister(cfg.Transcripts.Dir, logger)
	refs, err := lister.ListSessions(ctx, "", cfg.Transcripts.SessionLimit)
	if err != nil {
		return fmt.Errorf("scanning transcripts dir: %w", err)
	}

	extractor := newExtractor(cfg, logger)
	dg := datagraph.New(logger)

	watcher, err := watch.NewWatcher(cfg.Transcripts.Dir, dg, extractor, logger)
	if err != nil {
		return err
	}
	defer watcher.Stop()

	// Fold in the existing transcripts and seed the high-water marks so
	// only genuinely new traces are ingested from here on.
	for _, ref := range refs {
		traces, err := extractor.Extract(ref.FilePath)
		if err != nil {
			logger.Warn("skipping unreadable session",
				zap.String("path", ref.FilePath), zap.Error(err))
			continue
		}
		for _, tr := range traces {
			dg.AddTrace(tr)
		}
		watcher.Seed(ref.FilePath, len(traces))
	}
	logger.Info("initial datagraph built",
		zap.Int("sessions", len(refs)),
		zap.Int("traces", dg.GetStats().TotalTraces))

	if err := watcher.Start(ctx); err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down watcher")
			return nil
		case ev := <-watcher.Events():
			logger.Info("datagraph updated",
				zap.String("path", ev.Path),
				zap.Int("new_traces", ev.NewTraces),
				zap.Int("session_traces", ev.TotalTraces))
		}
	}
}
