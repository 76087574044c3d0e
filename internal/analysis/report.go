package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fyrsmithlabs/decisiond/internal/decision"
)

type labelCount struct {
	label decision.Label
	count int
}

type toolCount struct {
	tool  string
	count int
}

func sortedLabelCounts(counts map[decision.Label]int) []labelCount {
	out := make([]labelCount, 0, len(counts))
	for label, n := range counts {
		out = append(out, labelCount{label: label, count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].label < out[j].label
	})
	return out
}

func sortedToolCounts(counts map[string]int) []toolCount {
	out := make([]toolCount, 0, len(counts))
	for tool, n := range counts {
		out = append(out, toolCount{tool: tool, count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].tool < out[j].tool
	})
	return out
}

// GenerateReport renders the aggregate as a plain-text report: decision
// type distribution with percentage bars, top tools, sample recovery
// patterns, and a few headline insights.
func (a *AggregatePatterns) GenerateReport() string {
	rule := strings.Repeat("=", 70)
	thinRule := strings.Repeat("-", 70)

	lines := []string{
		rule,
		"CROSS-SESSION DECISION PATTERN ANALYSIS",
		rule,
		"",
		fmt.Sprintf("Sessions analyzed: %d", a.TotalSessions),
		fmt.Sprintf("Total decision traces: %d", a.TotalTraces),
		fmt.Sprintf("Projects covered: %d", len(a.Projects)),
		fmt.Sprintf("  (%s)", strings.Join(a.Projects, ", ")),
		"",
		thinRule,
		"DECISION TYPE DISTRIBUTION",
		thinRule,
	}

	total := 0
	for _, n := range a.DecisionTypeCounts {
		total += n
	}
	labelCounts := sortedLabelCounts(a.DecisionTypeCounts)
	for _, lc := range labelCounts {
		pct := 0.0
		if total > 0 {
			pct = float64(lc.count) / float64(total) * 100
		}
		bar := strings.Repeat("█", int(pct/2))
		lines = append(lines, fmt.Sprintf("  %-20s %4d (%5.1f%%) %s", lc.label, lc.count, pct, bar))
	}

	lines = append(lines, "", thinRule, "TOOL USAGE", thinRule)
	toolCounts := sortedToolCounts(a.ToolCounts)
	if len(toolCounts) > 15 {
		toolCounts = toolCounts[:15]
	}
	for _, tc := range toolCounts {
		lines = append(lines, fmt.Sprintf("  %-20s %4d", tc.tool, tc.count))
	}

	if len(a.RecoveryPatterns) > 0 {
		lines = append(lines, "", thinRule, "SAMPLE RECOVERY PATTERNS (Error Handling)", thinRule)
		samples := a.RecoveryPatterns
		if len(samples) > 10 {
			samples = samples[:10]
		}
		for i, pattern := range samples {
			if len(pattern) > 70 {
				pattern = pattern[:67] + "..."
			}
			lines = append(lines, fmt.Sprintf("  %d. %s", i+1, pattern))
		}
	}

	lines = append(lines, "", rule, "INSIGHTS", rule, "")

	if len(labelCounts) > 0 {
		top := labelCounts[0]
		lines = append(lines,
			fmt.Sprintf("• Most common decision type: %s (%d instances)", top.label, top.count),
			"  → This is the primary decision mode across these sessions")
	}

	recoveryPct := 0.0
	if total > 0 {
		recoveryPct = float64(a.DecisionTypeCounts[decision.LabelRecovery]) / float64(total) * 100
	}
	lines = append(lines, "", fmt.Sprintf("• Recovery rate: %.1f%% of decisions are error recovery", recoveryPct))
	if recoveryPct > 20 {
		lines = append(lines, "  → High recovery rate suggests opportunity for proactive error prevention")
	} else {
		lines = append(lines, "  → Low recovery rate indicates smooth workflows")
	}

	if len(toolCounts) > 0 {
		topTools := toolCounts
		if len(topTools) > 3 {
			topTools = topTools[:3]
		}
		names := make([]string, 0, len(topTools))
		for _, tc := range topTools {
			names = append(names, tc.tool)
		}
		lines = append(lines, "",
			fmt.Sprintf("• Top tool trio: %s", strings.Join(names, ", ")),
			"  → These form the core action vocabulary")
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}
