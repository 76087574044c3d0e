// Package analysis summarizes decision patterns across many sessions:
// per-session trace profiles, cross-session aggregates, and common tool
// sequences.
package analysis

import (
	"os"
	"sort"

	"github.com/fyrsmithlabs/decisiond/internal/decision"
	"github.com/fyrsmithlabs/decisiond/internal/sessions"
)

// SessionSummary profiles the decision traces of a single session.
type SessionSummary struct {
	SessionID     string                 `json:"session_id"`
	Project       string                 `json:"project"`
	FilePath      string                 `json:"file_path"`
	Created       string                 `json:"created,omitempty"`
	TraceCount    int                    `json:"trace_count"`
	DecisionTypes map[decision.Label]int `json:"decision_types"`
	ToolsUsed     map[string]int         `json:"tools_used"`
	RecoveryCount int                    `json:"recovery_count"`

	// ToolOrder lists tools by first use. Sequence analysis depends on
	// this ordering; the ToolsUsed map alone loses it.
	ToolOrder []string `json:"tool_order"`

	// SampleTraces holds the first few traces for qualitative review.
	SampleTraces []decision.Trace `json:"sample_traces"`
}

// AggregatePatterns accumulates patterns across analyzed sessions.
type AggregatePatterns struct {
	TotalSessions      int                    `json:"total_sessions"`
	TotalTraces        int                    `json:"total_traces"`
	DecisionTypeCounts map[decision.Label]int `json:"decision_type_counts"`
	ToolCounts         map[string]int         `json:"tool_counts"`
	RecoveryPatterns   []string               `json:"recovery_patterns"`
	Projects           []string               `json:"projects"`

	projectSet map[string]struct{}
}

// NewAggregatePatterns creates an empty aggregate.
func NewAggregatePatterns() *AggregatePatterns {
	return &AggregatePatterns{
		DecisionTypeCounts: make(map[decision.Label]int),
		ToolCounts:         make(map[string]int),
		RecoveryPatterns:   make([]string, 0),
		Projects:           make([]string, 0),
		projectSet:         make(map[string]struct{}),
	}
}

// AddSession folds one session summary into the aggregate.
func (a *AggregatePatterns) AddSession(s *SessionSummary) {
	a.TotalSessions++
	a.TotalTraces += s.TraceCount

	if _, ok := a.projectSet[s.Project]; !ok {
		a.projectSet[s.Project] = struct{}{}
		a.Projects = append(a.Projects, s.Project)
		sort.Strings(a.Projects)
	}

	for label, n := range s.DecisionTypes {
		a.DecisionTypeCounts[label] += n
	}
	for tool, n := range s.ToolsUsed {
		a.ToolCounts[tool] += n
	}

	for _, tr := range s.SampleTraces {
		if tr.DecisionType == decision.LabelRecovery {
			a.RecoveryPatterns = append(a.RecoveryPatterns, tr.Summary)
		}
	}
}

// AnalyzeSession extracts and profiles one session. A missing file or a
// session with no extractable traces yields (nil, nil); only extraction
// itself failing is an error.
func AnalyzeSession(ref sessions.SessionRef, extractor *decision.Extractor) (*SessionSummary, error) {
	if ref.FilePath == "" {
		return nil, nil
	}
	if _, err := os.Stat(ref.FilePath); err != nil {
		return nil, nil
	}

	traces, err := extractor.Extract(ref.FilePath)
	if err != nil {
		return nil, err
	}
	if len(traces) == 0 {
		return nil, nil
	}

	summary := &SessionSummary{
		SessionID:     ref.SessionID,
		Project:       ref.Project,
		FilePath:      ref.FilePath,
		Created:       ref.Created,
		DecisionTypes: make(map[decision.Label]int),
		ToolsUsed:     make(map[string]int),
		TraceCount:    len(traces),
	}
	if summary.SessionID == "" {
		summary.SessionID = "unknown"
	}
	if summary.Project == "" {
		summary.Project = "unknown"
	}

	for _, tr := range traces {
		summary.DecisionTypes[tr.DecisionType]++
		for _, tool := range tr.ToolsUsed {
			if summary.ToolsUsed[tool] == 0 {
				summary.ToolOrder = append(summary.ToolOrder, tool)
			}
			summary.ToolsUsed[tool]++
		}
	}
	summary.RecoveryCount = summary.DecisionTypes[decision.LabelRecovery]

	sampleLen := len(traces)
	if sampleLen > 5 {
		sampleLen = 5
	}
	summary.SampleTraces = traces[:sampleLen]

	return summary, nil
}

// SequenceCount is one tool pair and how often it occurred.
type SequenceCount struct {
	Pair  string `json:"pair"`
	Count int    `json:"count"`
}

// ToolSequences counts adjacent tool pairs over each session's first-use
// tool order and returns the 20 most common, ties broken by first
// encounter.
func ToolSequences(summaries []*SessionSummary) []SequenceCount {
	var seqs []SequenceCount
	index := make(map[string]int)

	for _, s := range summaries {
		for i := 0; i+1 < len(s.ToolOrder); i++ {
			pair := s.ToolOrder[i] + " → " + s.ToolOrder[i+1]
			if at, ok := index[pair]; ok {
				seqs[at].Count++
			} else {
				index[pair] = len(seqs)
				seqs = append(seqs, SequenceCount{Pair: pair, Count: 1})
			}
		}
	}

	sort.SliceStable(seqs, func(i, j int) bool { return seqs[i].Count > seqs[j].Count })
	if len(seqs) > 20 {
		seqs = seqs[:20]
	}
	return seqs
}
