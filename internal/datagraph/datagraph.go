// Package datagraph accumulates decision traces across sessions into an
// append-only, multiply-indexed in-memory store. The store is rebuilt per
// run; there is no persistence layer.
package datagraph

import (
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/decisiond/internal/decision"
)

// RecoveryPattern is a learned (trigger, response) pair derived from a
// recovery-typed trace.
type RecoveryPattern struct {
	// Trigger is the first 100 chars of the trace context.
	Trigger string `json:"trigger"`

	// Response is the first 100 chars of the action taken, or of the
	// summary when no action was extracted.
	Response string `json:"response"`
}

// Datagraph is the accumulated store of decision traces. It grows only
// through AddTrace; traces are never removed or re-indexed, and the
// indices are derived purely from insertion. Not safe for concurrent
// writers; the pipeline mutates it from a single goroutine.
type Datagraph struct {
	traces []*decision.Trace

	byType    map[decision.Label][]*decision.Trace
	byTool    map[string][]*decision.Trace
	byKeyword map[string][]*decision.Trace

	recoveryPatterns []RecoveryPattern

	logger *zap.Logger
}

// Stats is a read-only snapshot of datagraph counts.
type Stats struct {
	TotalTraces      int                    `json:"total_traces"`
	DecisionTypes    map[decision.Label]int `json:"decision_types"`
	ToolsIndexed     int                    `json:"tools_indexed"`
	KeywordsIndexed  int                    `json:"keywords_indexed"`
	RecoveryPatterns int                    `json:"recovery_patterns"`
}

// New creates an empty datagraph. A nil logger defaults to a nop logger.
func New(logger *zap.Logger) *Datagraph {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Datagraph{
		traces:    make([]*decision.Trace, 0),
		byType:    make(map[decision.Label][]*decision.Trace),
		byTool:    make(map[string][]*decision.Trace),
		byKeyword: make(map[string][]*decision.Trace),
		logger:    logger,
	}
}

// AddTrace appends the trace and updates the three indices: by decision
// type, by each tool used, and by keyword derived from summary+context.
// Recovery traces additionally contribute a recovery pattern. This is the
// sole mutation entry point; the trace is copied and never mutated after
// insertion.
func (d *Datagraph) AddTrace(trace decision.Trace) {
	stored := &trace
	d.traces = append(d.traces, stored)

	d.byType[trace.DecisionType] = append(d.byType[trace.DecisionType], stored)

	for _, tool := range trace.ToolsUsed {
		d.byTool[tool] = append(d.byTool[tool], stored)
	}

	for _, kw := range IndexKeywords(trace.Summary + " " + trace.Context) {
		d.byKeyword[kw] = append(d.byKeyword[kw], stored)
	}

	if trace.DecisionType == decision.LabelRecovery {
		response := trace.ActionTaken
		if response == "" {
			response = trace.Summary
		}
		d.recoveryPatterns = append(d.recoveryPatterns, RecoveryPattern{
			Trigger:  prefix(trace.Context, 100),
			Response: prefix(response, 100),
		})
	}
}

// Traces returns the append-ordered trace sequence. Callers must not
// mutate the returned slice or the traces it points to.
func (d *Datagraph) Traces() []*decision.Trace {
	return d.traces
}

// ByType returns traces of the given primary decision type, in insertion
// order.
func (d *Datagraph) ByType(label decision.Label) []*decision.Trace {
	return d.byType[label]
}

// ByTool returns traces that used the named tool, in insertion order. A
// trace that used a tool more than once appears once per use.
func (d *Datagraph) ByTool(tool string) []*decision.Trace {
	return d.byTool[tool]
}

// ByKeyword returns traces indexed under the keyword, in insertion order.
func (d *Datagraph) ByKeyword(kw string) []*decision.Trace {
	return d.byKeyword[kw]
}

// RecoveryPatterns returns the learned (trigger, response) pairs in the
// order their traces were added.
func (d *Datagraph) RecoveryPatterns() []RecoveryPattern {
	return d.recoveryPatterns
}

// GetStats returns counts only; no side effects.
func (d *Datagraph) GetStats() Stats {
	types := make(map[decision.Label]int, len(d.byType))
	for label, traces := range d.byType {
		types[label] = len(traces)
	}
	return Stats{
		TotalTraces:      len(d.traces),
		DecisionTypes:    types,
		ToolsIndexed:     len(d.byTool),
		KeywordsIndexed:  len(d.byKeyword),
		RecoveryPatterns: len(d.recoveryPatterns),
	}
}

// prefix returns the first n bytes of s.
func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
