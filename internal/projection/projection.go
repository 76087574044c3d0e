// Package projection maps (datagraph, current situation) to a context
// graph: the relevant precedents, patterns, warnings, and tool
// suggestions for this moment.
package projection

import (
	"sort"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/decisiond/internal/datagraph"
	"github.com/fyrsmithlabs/decisiond/internal/decision"
)

// Similarity thresholds for error recall and warnings.
const (
	errorRecallThreshold = 0.3
	warningThreshold     = 0.2
)

// Projector selects the relevant subset of a datagraph for a query.
// It only reads the datagraph; for a fixed datagraph and fixed inputs
// the output is fully deterministic.
type Projector struct {
	dg     *datagraph.Datagraph
	logger *zap.Logger
}

// NewProjector creates a projector over the given datagraph. A nil
// logger defaults to a nop logger.
func NewProjector(dg *datagraph.Datagraph, logger *zap.Logger) *Projector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Projector{dg: dg, logger: logger}
}

// Project assembles the context graph for the current moment.
//
// task describes what the caller is trying to do; toolHints are tools
// being considered (may be nil); errorText is set when handling an error
// (empty otherwise). Stages run in a fixed order and each appends to the
// result without re-ranking earlier stages:
//
//  1. error-driven recall of recovery precedents
//  2. keyword-driven recall ranked by matched-keyword tally
//  3. tool-driven recall plus co-occurring tool suggestions
//  4. warnings from past failures similar to the task
//  5. pattern strings from the leading precedents
func (p *Projector) Project(task string, toolHints []string, errorText string) *ContextGraph {
	precedents := make([]*decision.Trace, 0)
	patterns := make([]string, 0)
	warnings := make([]string, 0)
	suggested := make([]string, 0)

	seen := make(map[string]struct{})
	addPrecedent := func(tr *decision.Trace) {
		precedents = append(precedents, tr)
		seen[tr.ID] = struct{}{}
	}

	// Stage 1: if handling an error, recall recovery precedents whose
	// context resembles the error text.
	if errorText != "" {
		for _, tr := range p.dg.ByType(decision.LabelRecovery) {
			if datagraph.Similarity(errorText, tr.Context) > errorRecallThreshold {
				addPrecedent(tr)
				if tr.ActionTaken != "" {
					patterns = append(patterns, "Past recovery: "+prefix(tr.ActionTaken, 80))
				}
			}
		}
	}

	// Stage 2: tally how many task keywords each trace matches, rank by
	// tally descending with insertion order breaking ties, take top 5.
	counts := make(map[string]int)
	for _, kw := range datagraph.QueryKeywords(task) {
		for _, tr := range p.dg.ByKeyword(kw) {
			counts[tr.ID]++
		}
	}

	type scoredTrace struct {
		trace *decision.Trace
		tally int
	}
	matched := make([]scoredTrace, 0, len(counts))
	for _, tr := range p.dg.Traces() {
		if n := counts[tr.ID]; n > 0 {
			matched = append(matched, scoredTrace{trace: tr, tally: n})
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].tally > matched[j].tally
	})
	for i := 0; i < len(matched) && i < 5; i++ {
		if _, dup := seen[matched[i].trace.ID]; !dup {
			addPrecedent(matched[i].trace)
		}
	}

	// Stage 3: recall traces for each hinted tool and suggest tools that
	// historically co-occur with it.
	for _, tool := range toolHints {
		toolTraces := p.dg.ByTool(tool)

		limit := len(toolTraces)
		if limit > 3 {
			limit = 3
		}
		for _, tr := range toolTraces[:limit] {
			if _, dup := seen[tr.ID]; !dup {
				addPrecedent(tr)
			}
		}

		suggested = appendCoTools(suggested, toolTraces, tool)
	}

	// Stage 4: warn when the current task resembles a past failure.
	for _, tr := range p.dg.ByType(decision.LabelRecovery) {
		if datagraph.Similarity(task, tr.Context) > warningThreshold {
			warnings = append(warnings, "Similar task failed before: "+prefix(tr.Summary, 60))
		}
	}

	// Stage 5: emit pattern strings for sequencing/planning among the
	// first five precedents.
	limit := len(precedents)
	if limit > 5 {
		limit = 5
	}
	for _, tr := range precedents[:limit] {
		switch tr.DecisionType {
		case decision.LabelSequencing:
			patterns = append(patterns, "Sequencing: "+prefix(tr.Summary, 60))
		case decision.LabelPlanning:
			patterns = append(patterns, "Planning approach: "+prefix(tr.Summary, 60))
		}
	}

	// Relevance reflects the full precedent count before capping.
	relevance := float64(len(precedents)) / 5.0
	if relevance > 1.0 {
		relevance = 1.0
	}

	graph := &ContextGraph{
		Precedents:         capTraces(precedents, maxPrecedents),
		ApplicablePatterns: capStrings(patterns, maxPatterns),
		Warnings:           capStrings(warnings, maxWarnings),
		SuggestedTools:     capStrings(suggested, maxSuggestedTools),
		RelevanceScore:     relevance,
	}

	p.logger.Debug("projected context graph",
		zap.Int("precedents", len(graph.Precedents)),
		zap.Int("warnings", len(graph.Warnings)),
		zap.Float64("relevance", graph.RelevanceScore))

	return graph
}

// appendCoTools tallies tools co-occurring with the hinted tool across
// its full trace history and appends up to 3 of the most frequent, ties
// broken by first-encountered order, skipping names already suggested.
func appendCoTools(suggested []string, toolTraces []*decision.Trace, tool string) []string {
	type coTool struct {
		name string
		n    int
	}
	var co []coTool
	index := make(map[string]int)

	for _, tr := range toolTraces {
		for _, other := range tr.ToolsUsed {
			if other == tool {
				continue
			}
			if i, ok := index[other]; ok {
				co[i].n++
			} else {
				index[other] = len(co)
				co = append(co, coTool{name: other, n: 1})
			}
		}
	}

	sort.SliceStable(co, func(i, j int) bool { return co[i].n > co[j].n })

	added := 0
	for _, c := range co {
		if added == 3 {
			break
		}
		added++
		if !contains(suggested, c.name) {
			suggested = append(suggested, c.name)
		}
	}
	return suggested
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func capTraces(traces []*decision.Trace, n int) []*decision.Trace {
	if len(traces) <= n {
		return traces
	}
	return traces[:n]
}

func capStrings(values []string, n int) []string {
	if len(values) <= n {
		return values
	}
	return values[:n]
}
