package projection

import (
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/decisiond/internal/decision"
)

// Result caps. Truncation keeps the earliest-accumulated entries per
// stage; there is no global re-rank.
const (
	maxPrecedents     = 10
	maxPatterns       = 5
	maxWarnings       = 3
	maxSuggestedTools = 5
)

// ContextGraph is the projected context for one moment: the ranked,
// capped subset of the datagraph judged relevant to the current task.
// It is created fresh per Project call and never mutated afterwards.
type ContextGraph struct {
	// Precedents are the relevant prior traces, most relevant first.
	Precedents []*decision.Trace `json:"precedents"`

	// ApplicablePatterns are short pattern strings derived from the
	// precedents and past recoveries.
	ApplicablePatterns []string `json:"applicable_patterns"`

	// Warnings reference past failures similar to the current task.
	Warnings []string `json:"warnings"`

	// SuggestedTools are likely next tools, no duplicates.
	SuggestedTools []string `json:"suggested_tools"`

	// RelevanceScore is min(1, precedent_count/5), in [0,1].
	RelevanceScore float64 `json:"relevance_score"`
}

// RenderPromptContext formats the context graph as a short section
// suitable for injection into a prompt.
func (g *ContextGraph) RenderPromptContext() string {
	lines := []string{"## Relevant Context from History", ""}

	if len(g.Precedents) > 0 {
		lines = append(lines, "### Similar Past Decisions")
		limit := len(g.Precedents)
		if limit > 3 {
			limit = 3
		}
		for i, p := range g.Precedents[:limit] {
			lines = append(lines, fmt.Sprintf("%d. [%s] %s", i+1, p.DecisionType, p.Summary))
			if p.Reasoning != "" {
				lines = append(lines, fmt.Sprintf("   Reasoning: %s...", prefix(p.Reasoning, 100)))
			}
		}
		lines = append(lines, "")
	}

	if len(g.ApplicablePatterns) > 0 {
		lines = append(lines, "### Patterns That Apply")
		for _, pattern := range g.ApplicablePatterns {
			lines = append(lines, "- "+pattern)
		}
		lines = append(lines, "")
	}

	if len(g.Warnings) > 0 {
		lines = append(lines, "### Warnings from History")
		for _, warning := range g.Warnings {
			lines = append(lines, "- "+warning)
		}
		lines = append(lines, "")
	}

	if len(g.SuggestedTools) > 0 {
		lines = append(lines, "### Suggested Tools: "+strings.Join(g.SuggestedTools, ", "))
	}

	return strings.Join(lines, "\n")
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
