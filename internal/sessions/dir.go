package sessions

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DirectoryLister discovers sessions from a local transcripts directory.
// It handles both a flat layout (dir/*.jsonl) and the nested
// ~/.claude/projects layout (dir/<project>/*.jsonl).
type DirectoryLister struct {
	dir    string
	logger *zap.Logger
}

// NewDirectoryLister creates a lister over the given directory. A nil
// logger defaults to a nop logger.
func NewDirectoryLister(dir string, logger *zap.Logger) *DirectoryLister {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectoryLister{dir: dir, logger: logger}
}

// ListSessions returns up to limit sessions, newest modification first.
// The query is ignored; directory scans have no search index. Files named
// agent-* are subagent transcripts and are skipped.
func (l *DirectoryLister) ListSessions(_ context.Context, _ string, limit int) ([]SessionRef, error) {
	paths, err := filepath.Glob(filepath.Join(l.dir, "*.jsonl"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		paths, err = filepath.Glob(filepath.Join(l.dir, "*", "*.jsonl"))
		if err != nil {
			return nil, err
		}
	}

	type entry struct {
		path  string
		mtime time.Time
	}
	entries := make([]entry, 0, len(paths))
	for _, path := range paths {
		if strings.HasPrefix(filepath.Base(path), "agent-") {
			continue
		}
		info, err := os.Stat(path)
		if err != nil {
			l.logger.Warn("skipping unstattable transcript",
				zap.String("path", path), zap.Error(err))
			continue
		}
		entries = append(entries, entry{path: path, mtime: info.ModTime()})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].mtime.After(entries[j].mtime)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	refs := make([]SessionRef, 0, len(entries))
	for _, e := range entries {
		refs = append(refs, SessionRef{
			SessionID: stem(e.path),
			Project:   projectName(e.path),
			FilePath:  e.path,
		})
	}
	return refs, nil
}

// stem is the file name without its .jsonl extension.
func stem(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".jsonl")
}

// projectName derives the project from the parent directory name. Claude
// Code encodes project paths as dash-joined directory names, so the last
// segment is the project itself. A flat layout falls back to the stem.
func projectName(path string) string {
	parent := filepath.Base(filepath.Dir(path))
	if i := strings.LastIndex(parent, "-"); i >= 0 {
		return parent[i+1:]
	}
	return stem(path)
}
