// Package watch tails a transcripts directory and feeds new decision
// traces into a datagraph as sessions grow.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/decisiond/internal/datagraph"
	"github.com/fyrsmithlabs/decisiond/internal/decision"
)

// ErrWatcherFailed indicates the filesystem watcher failed to initialize.
var ErrWatcherFailed = errors.New("failed to initialize filesystem watcher")

// IngestEvent reports one incremental ingestion from a changed transcript.
type IngestEvent struct {
	// Path is the transcript that changed.
	Path string

	// NewTraces is how many traces this ingestion added.
	NewTraces int

	// TotalTraces is the trace count for this transcript after ingestion.
	TotalTraces int

	// Timestamp is when the ingestion happened.
	Timestamp time.Time
}

// Watcher watches a transcripts directory for new or growing .jsonl
// session files and ingests their traces incrementally. Transcripts are
// append-only, so re-extraction plus a per-file high-water mark is enough
// to add each trace exactly once. After Start, the datagraph is written
// only from the watcher goroutine.
type Watcher struct {
	dir       string
	dg        *datagraph.Datagraph
	extractor *decision.Extractor
	watcher   *fsnotify.Watcher
	events    chan IngestEvent
	stop      chan struct{}
	ingested  map[string]int
	logger    *zap.Logger
}

// NewWatcher creates a watcher over the given transcripts directory.
func NewWatcher(dir string, dg *datagraph.Datagraph, extractor *decision.Extractor, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWatcherFailed, err)
	}

	return &Watcher{
		dir:       dir,
		dg:        dg,
		extractor: extractor,
		watcher:   fsw,
		events:    make(chan IngestEvent, 10),
		stop:      make(chan struct{}),
		ingested:  make(map[string]int),
		logger:    logger,
	}, nil
}

// Seed records that path already contributed n traces to the datagraph,
// so a later change ingests only traces beyond that mark. Call before
// Start for every transcript already folded in.
func (w *Watcher) Seed(path string, n int) {
	w.ingested[path] = n
}

// Start begins watching. The directory itself and its existing project
// subdirectories are registered; subdirectories created later are added
// as they appear. Call Stop to clean up resources.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watching transcripts dir: %w", err)
	}

	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("listing transcripts dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			// Best effort; a vanished subdir is not fatal.
			_ = w.watcher.Add(filepath.Join(w.dir, entry.Name()))
		}
	}

	go w.processEvents(ctx)

	return nil
}

// Stop stops the watcher and cleans up resources.
func (w *Watcher) Stop() {
	select {
	case <-w.stop:
		// Already stopped
		return
	default:
		close(w.stop)
		_ = w.watcher.Close()
	}
}

// Events returns the channel of ingestion notifications.
func (w *Watcher) Events() <-chan IngestEvent {
	return w.events
}

func (w *Watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-w.stop:
			return
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				w.handleChange(event.Name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

// handleChange routes one filesystem change: new project directories get
// watched, changed transcripts get ingested, everything else is ignored.
func (w *Watcher) handleChange(path string) {
	base := filepath.Base(path)

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		_ = w.watcher.Add(path)
		return
	}

	if !strings.HasSuffix(base, ".jsonl") {
		return
	}
	// Subagent transcripts mirror the parent session's reasoning.
	if strings.HasPrefix(base, "agent-") {
		return
	}

	w.ingest(path)
}

// ingest re-extracts the transcript and adds traces beyond the high-water
// mark. Extraction failures are logged and leave the mark untouched.
func (w *Watcher) ingest(path string) {
	traces, err := w.extractor.Extract(path)
	if err != nil {
		w.logger.Warn("skipping unreadable transcript",
			zap.String("path", path), zap.Error(err))
		return
	}

	known := w.ingested[path]
	if len(traces) <= known {
		return
	}

	for _, tr := range traces[known:] {
		w.dg.AddTrace(tr)
	}
	added := len(traces) - known
	w.ingested[path] = len(traces)

	w.logger.Info("ingested transcript changes",
		zap.String("path", path),
		zap.Int("new_traces", added),
		zap.Int("total_traces", len(traces)))

	// Send event (non-blocking)
	select {
	case w.events <- IngestEvent{
		Path:        path,
		NewTraces:   added,
		TotalTraces: len(traces),
		Timestamp:   time.Now(),
	}:
	default:
		// Channel full, skip event
	}
}
