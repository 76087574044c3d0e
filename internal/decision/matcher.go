package decision

import (
	"regexp"
	"strings"
)

// labelRule pairs a label with its ordered pattern list. Rules are
// evaluated in declaration order; within a rule the first matching
// pattern short-circuits the rest of that rule's list.
type labelRule struct {
	label    Label
	patterns []*regexp.Regexp
}

// PatternMatcher classifies reasoning text using an ordered regex table.
// Thread-safe: all patterns are compiled at construction time.
type PatternMatcher struct {
	rules []labelRule
}

// NewPatternMatcher creates a matcher with the built-in rule table.
func NewPatternMatcher() *PatternMatcher {
	return &PatternMatcher{rules: buildLabelRules()}
}

// buildLabelRules returns the ordered label table. Input is lowercased
// before matching, so the patterns themselves are lowercase.
func buildLabelRules() []labelRule {
	return []labelRule{
		{
			label: LabelPlanning,
			patterns: compile(
				`let me (break down|plan|start|set up|create)`,
				`(first|before|to begin),? (i should|let me|i need to)`,
				`this (requires|needs|involves) (multiple|several)`,
			),
		},
		{
			label: LabelRecovery,
			patterns: compile(
				`(failed|error|didn't work|issue)`,
				`let me try (a different|another|instead)`,
				`workaround`,
			),
		},
		{
			label: LabelDiagnosis,
			patterns: compile(
				`looking at the (error|issue|problem)`,
				`the (reason|cause|issue) (is|was|seems)`,
				`this (happens|failed|broke) because`,
			),
		},
		{
			label: LabelSequencing,
			patterns: compile(
				`(first|then|next|after that|before)`,
				`i need to .+ (before|first)`,
				`(already|now|done).+ (move on|proceed|continue)`,
			),
		},
		{
			label: LabelClarification,
			patterns: compile(
				`the user (wants|is asking|means)`,
				`(should i|do they want)`,
				`(unclear|ambiguous|not sure)`,
			),
		},
		{
			label: LabelContextAwareness,
			patterns: compile(
				`(we're|i'm) (already|currently|now)`,
				`(the current|existing) (state|branch|file)`,
				`(remember|note) that`,
			),
		},
	}
}

func compile(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, regexp.MustCompile(e))
	}
	return out
}

// Classify returns every label whose rule matches the text, in table
// order. The result is never empty: when nothing matches it is exactly
// [LabelGeneral]. Consumers that need a single label take the first
// element.
func (m *PatternMatcher) Classify(text string) []Label {
	lower := strings.ToLower(text)

	var matches []Label
	for _, rule := range m.rules {
		for _, re := range rule.patterns {
			if re.MatchString(lower) {
				matches = append(matches, rule.label)
				break
			}
		}
	}

	if len(matches) == 0 {
		return []Label{LabelGeneral}
	}
	return matches
}
