// Package sessions discovers Claude Code session transcripts, either by
// scanning a transcripts directory or by shelling out to aichat search.
package sessions

import "context"

// SessionRef identifies one discovered session transcript.
type SessionRef struct {
	SessionID string `json:"session_id"`
	Project   string `json:"project"`
	FilePath  string `json:"file_path"`
	Created   string `json:"created,omitempty"`
}

// Lister lists candidate sessions for analysis. Implementations degrade:
// discovery failures produce an empty list, not an error that would abort
// a batch.
type Lister interface {
	ListSessions(ctx context.Context, query string, limit int) ([]SessionRef, error)
}

// sampleQueries spreads sampling across distinct kinds of work so the
// sample is not dominated by whatever happened most recently.
var sampleQueries = []string{"", "error", "git", "build", "test"}

// SampleSessions gathers a diverse sample of sessions by running several
// fixed queries through the lister and deduplicating by session ID, with
// the file path as fallback identity. At most sampleSize refs are
// returned, in discovery order.
func SampleSessions(ctx context.Context, lister Lister, sampleSize int) ([]SessionRef, error) {
	perQuery := sampleSize / len(sampleQueries)
	if perQuery < 2 {
		perQuery = 2
	}

	var all []SessionRef
	for _, query := range sampleQueries {
		refs, err := lister.ListSessions(ctx, query, perQuery)
		if err != nil {
			return nil, err
		}
		all = append(all, refs...)
	}

	seen := make(map[string]struct{})
	unique := make([]SessionRef, 0, len(all))
	for _, ref := range all {
		id := ref.SessionID
		if id == "" {
			id = ref.FilePath
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, ref)
		if len(unique) == sampleSize {
			break
		}
	}
	return unique, nil
}
