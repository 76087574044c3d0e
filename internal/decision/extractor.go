package decision

import (
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/decisiond/internal/transcript"
)

const (
	summaryMaxLen   = 100
	extractedMaxLen = 200
	prefixMaxLen    = 100
)

// contextPhrases are the situation-setting markers scanned for in the
// first lines of a thinking block.
var contextPhrases = []string{
	"the user", "we have", "currently", "the error", "looking at",
}

// reasoningPatterns extract the justification clause, tried in order.
var reasoningPatterns = compile(
	`because\s+(.+?)(?:\.|$)`,
	`since\s+(.+?)(?:\.|$)`,
	`this (means|indicates|suggests)\s+(.+?)(?:\.|$)`,
)

// actionPatterns extract the decided action, tried in order.
var actionPatterns = compile(
	`let me\s+(.+?)(?:\.|$)`,
	`i (should|will|need to)\s+(.+?)(?:\.|$)`,
)

// ExtractorConfig configures trace extraction.
type ExtractorConfig struct {
	// MinThinkingChars is the floor below which a thinking block is
	// discarded as trivial. Default: 50.
	MinThinkingChars int

	// AssociationWindow is the symmetric time window for associating
	// tool invocations with a thinking block. Default: 60s.
	AssociationWindow time.Duration
}

// DefaultExtractorConfig returns the standard thresholds.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		MinThinkingChars:  50,
		AssociationWindow: 60 * time.Second,
	}
}

// Extractor converts one session transcript into an ordered sequence of
// decision traces.
type Extractor struct {
	parser  *transcript.Parser
	matcher *PatternMatcher
	cfg     ExtractorConfig
	logger  *zap.Logger
}

// NewExtractor creates an extractor. A nil logger defaults to a nop logger.
func NewExtractor(cfg ExtractorConfig, logger *zap.Logger) *Extractor {
	if cfg.MinThinkingChars == 0 {
		cfg.MinThinkingChars = 50
	}
	if cfg.AssociationWindow == 0 {
		cfg.AssociationWindow = 60 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		parser:  transcript.NewParser(),
		matcher: NewPatternMatcher(),
		cfg:     cfg,
		logger:  logger,
	}
}

// Extract parses the transcript at path and returns its decision traces
// in source order. A transcript with no qualifying thinking blocks yields
// an empty slice. The returned error is advisory (unreadable file);
// multi-session callers log it and continue.
func (e *Extractor) Extract(path string) ([]Trace, error) {
	tr, err := e.parser.Parse(path)
	if err != nil {
		return nil, err
	}

	traces := make([]Trace, 0, len(tr.ThinkingBlocks))
	for _, block := range tr.ThinkingBlocks {
		if len(block.Text) < e.cfg.MinThinkingChars {
			continue
		}

		labels := e.matcher.Classify(block.Text)

		traces = append(traces, Trace{
			ID:           newTraceID(),
			Timestamp:    block.Timestamp,
			DecisionType: labels[0],
			Labels:       labels,
			Summary:      summarize(block.Text),
			Context:      extractContext(block.Text),
			Reasoning:    extractFirst(reasoningPatterns, block.Text),
			ActionTaken:  extractFirst(actionPatterns, block.Text),
			ToolsUsed:    e.associatedTools(block.Timestamp, tr.ToolUses),
		})
	}

	e.logger.Debug("extracted decision traces",
		zap.String("path", path),
		zap.Int("thinking_blocks", len(tr.ThinkingBlocks)),
		zap.Int("traces", len(traces)))

	return traces, nil
}

// summarize returns the first line, truncated with an ellipsis marker.
func summarize(text string) string {
	firstLine, _, _ := strings.Cut(text, "\n")
	if len(firstLine) <= summaryMaxLen {
		return firstLine
	}
	return firstLine[:summaryMaxLen-3] + "..."
}

// extractContext scans the first three lines for a context-setting phrase
// and returns the first such line, falling back to the first line.
func extractContext(text string) string {
	lines := strings.Split(text, "\n")
	limit := len(lines)
	if limit > 3 {
		limit = 3
	}
	for _, line := range lines[:limit] {
		lower := strings.ToLower(line)
		for _, phrase := range contextPhrases {
			if strings.Contains(lower, phrase) {
				return strings.TrimSpace(line)
			}
		}
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[0])
}

// extractFirst returns the first pattern match against the lowercased
// text, capped at 200 chars. Empty string when nothing matches.
func extractFirst(patterns []*regexp.Regexp, text string) string {
	lower := strings.ToLower(text)
	for _, re := range patterns {
		if m := re.FindString(lower); m != "" {
			if len(m) > extractedMaxLen {
				return m[:extractedMaxLen]
			}
			return m
		}
	}
	return ""
}

// associatedTools returns names of tool uses within the symmetric window
// of the block timestamp. An unparseable block timestamp yields no
// associations; an unparseable event timestamp excludes that event.
func (e *Extractor) associatedTools(timestamp string, uses []transcript.ToolUse) []string {
	blockTime, ok := parseTimestamp(timestamp)
	if !ok {
		return []string{}
	}

	tools := make([]string, 0)
	for _, use := range uses {
		useTime, ok := parseTimestamp(use.Timestamp)
		if !ok {
			continue
		}
		diff := useTime.Sub(blockTime)
		if diff < 0 {
			diff = -diff
		}
		if diff <= e.cfg.AssociationWindow {
			tools = append(tools, use.Name)
		}
	}
	return tools
}

// parseTimestamp parses an ISO-8601 timestamp, normalizing a literal "Z"
// suffix to an explicit +00:00 offset first. Returns false when the value
// still fails to parse.
func parseTimestamp(ts string) (time.Time, bool) {
	if ts == "" {
		return time.Time{}, false
	}
	norm := strings.Replace(ts, "Z", "+00:00", 1)
	t, err := time.Parse(time.RFC3339Nano, norm)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}
