package decision

import (
	"github.com/google/uuid"
)

// Label is a decision category assigned to a reasoning block.
type Label string

const (
	// LabelPlanning marks reasoning that breaks work into steps up front.
	LabelPlanning Label = "planning"

	// LabelRecovery marks reasoning triggered by a failure or error.
	LabelRecovery Label = "recovery"

	// LabelDiagnosis marks reasoning that investigates a cause.
	LabelDiagnosis Label = "diagnosis"

	// LabelSequencing marks reasoning about ordering of actions.
	LabelSequencing Label = "sequencing"

	// LabelClarification marks reasoning about user intent.
	LabelClarification Label = "clarification"

	// LabelContextAwareness marks reasoning about the current state.
	LabelContextAwareness Label = "context_awareness"

	// LabelGeneral is the catch-all when no rule matches.
	LabelGeneral Label = "general"
)

// Trace is an immutable record of one classified reasoning event and its
// temporally-associated tool invocations.
//
// The JSON shape is the flat interchange mapping used by reports and
// external aggregators: timestamp, decision_type, summary, context,
// reasoning, action_taken, tools_used, outcome. ID and Labels are local
// bookkeeping and stay out of the serialized form.
type Trace struct {
	// ID is a stable identifier assigned at creation, used for
	// deduplication across indices instead of pointer identity.
	ID string `json:"-"`

	// Timestamp is the raw ISO-8601 timestamp of the source block.
	Timestamp string `json:"timestamp"`

	// DecisionType is the primary label (first match in table order).
	DecisionType Label `json:"decision_type"`

	// Labels is the full ordered label set the block matched.
	Labels []Label `json:"-"`

	// Summary is the first line of the block, truncated to 100 chars.
	Summary string `json:"summary"`

	// Context describes the situation that triggered the decision.
	Context string `json:"context"`

	// Reasoning is the extracted justification, possibly empty.
	Reasoning string `json:"reasoning"`

	// ActionTaken is the extracted decided action, possibly empty.
	ActionTaken string `json:"action_taken"`

	// ToolsUsed holds tool names invoked within the association window,
	// in event order. Duplicates are allowed.
	ToolsUsed []string `json:"tools_used"`

	// Outcome is reserved for future enrichment and is always nil here.
	Outcome *string `json:"outcome"`
}

// newTrace assigns a fresh trace identity.
func newTraceID() string {
	return uuid.New().String()
}

// ToMap returns the flat key/value interchange form with exactly the
// serialized field set.
func (t *Trace) ToMap() map[string]any {
	var outcome any
	if t.Outcome != nil {
		outcome = *t.Outcome
	}
	return map[string]any{
		"timestamp":     t.Timestamp,
		"decision_type": string(t.DecisionType),
		"summary":       t.Summary,
		"context":       t.Context,
		"reasoning":     t.Reasoning,
		"action_taken":  t.ActionTaken,
		"tools_used":    t.ToolsUsed,
		"outcome":       outcome,
	}
}
