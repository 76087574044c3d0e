package datagraph

import (
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/decisiond/internal/decision"
)

// Build folds the given session transcripts through the extractor into a
// fresh datagraph. Sessions that cannot be read are logged and skipped;
// no failure aborts the batch.
func Build(extractor *decision.Extractor, paths []string, logger *zap.Logger) *Datagraph {
	if logger == nil {
		logger = zap.NewNop()
	}

	d := New(logger)
	for _, path := range paths {
		traces, err := extractor.Extract(path)
		if err != nil {
			logger.Warn("skipping unreadable session",
				zap.String("path", path), zap.Error(err))
			continue
		}
		for _, tr := range traces {
			d.AddTrace(tr)
		}
	}

	logger.Info("datagraph built",
		zap.Int("sessions", len(paths)),
		zap.Int("traces", len(d.traces)))

	return d
}
