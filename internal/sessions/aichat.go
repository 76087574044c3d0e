package sessions

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os/exec"
	"time"

	"go.uber.org/zap"
)

// DefaultDiscoveryTimeout bounds one aichat search invocation.
const DefaultDiscoveryTimeout = 60 * time.Second

// AichatLister discovers sessions via the aichat search command, which
// emits one JSON session record per stdout line. A missing binary or a
// timed-out search degrades to an empty list with a warning; discovery
// must never take the pipeline down.
type AichatLister struct {
	command string
	timeout time.Duration
	byTime  bool
	logger  *zap.Logger
}

// NewAichatLister creates a lister that shells out to the given command.
// An empty command defaults to "aichat"; a zero timeout defaults to
// DefaultDiscoveryTimeout.
func NewAichatLister(command string, timeout time.Duration, logger *zap.Logger) *AichatLister {
	if command == "" {
		command = "aichat"
	}
	if timeout <= 0 {
		timeout = DefaultDiscoveryTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AichatLister{command: command, timeout: timeout, byTime: true, logger: logger}
}

// ListSessions runs `<command> search --json [--by-time] [query]` and
// parses the JSONL output. Malformed lines are skipped. At most limit
// refs are returned, in output order.
func (l *AichatLister) ListSessions(ctx context.Context, query string, limit int) ([]SessionRef, error) {
	args := []string{"search", "--json"}
	if l.byTime {
		args = append(args, "--by-time")
	}
	if query != "" {
		args = append(args, query)
	}

	runCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, l.command, args...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		var execErr *exec.Error
		switch {
		case errors.Is(runCtx.Err(), context.DeadlineExceeded):
			l.logger.Warn("session search timed out",
				zap.String("command", l.command), zap.Duration("timeout", l.timeout))
			return []SessionRef{}, nil
		case errors.As(err, &execErr):
			l.logger.Warn("session search command not found, skipping discovery",
				zap.String("command", l.command), zap.Error(err))
			return []SessionRef{}, nil
		}
		// Non-zero exit still leaves usable output on stdout.
		l.logger.Debug("session search exited nonzero",
			zap.String("command", l.command), zap.Error(err))
	}

	refs := make([]SessionRef, 0, limit)
	scanner := bufio.NewScanner(&stdout)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var ref SessionRef
		if err := json.Unmarshal(line, &ref); err != nil {
			continue
		}
		refs = append(refs, ref)
		if limit > 0 && len(refs) == limit {
			break
		}
	}
	return refs, nil
}
