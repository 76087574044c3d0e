package datagraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/decisiond/internal/decision"
)

func trace(id string, label decision.Label, summary, context, action string, tools ...string) decision.Trace {
	return decision.Trace{
		ID:           id,
		Timestamp:    "2025-06-01T10:00:00Z",
		DecisionType: label,
		Labels:       []decision.Label{label},
		Summary:      summary,
		Context:      context,
		ActionTaken:  action,
		ToolsUsed:    tools,
	}
}

func TestDatagraph_AddTraceOrderPreserving(t *testing.T) {
	d := New(nil)

	t1 := trace("t1", decision.LabelPlanning, "plan the schema migration", "we have a legacy schema", "")
	t2 := trace("t2", decision.LabelGeneral, "write docs", "", "")
	d.AddTrace(t1)

	// Index lookups from t1's insertion are unaffected by t2's insertion.
	before := len(d.ByType(decision.LabelPlanning))
	d.AddTrace(t2)

	traces := d.Traces()
	require.Len(t, traces, 2)
	assert.Equal(t, "t1", traces[0].ID)
	assert.Equal(t, "t2", traces[1].ID)
	assert.Len(t, d.ByType(decision.LabelPlanning), before)
}

func TestDatagraph_Indices(t *testing.T) {
	d := New(nil)
	d.AddTrace(trace("t1", decision.LabelPlanning, "plan the schema migration", "we have a legacy schema", "", "Bash", "Read"))
	d.AddTrace(trace("t2", decision.LabelPlanning, "plan another migration step", "", "", "Bash"))

	assert.Len(t, d.ByType(decision.LabelPlanning), 2)
	assert.Len(t, d.ByTool("Bash"), 2)
	assert.Len(t, d.ByTool("Read"), 1)
	assert.Empty(t, d.ByTool("Write"))

	// "migration" appears in both summaries.
	byKw := d.ByKeyword("migration")
	require.Len(t, byKw, 2)
	assert.Equal(t, "t1", byKw[0].ID)
	assert.Equal(t, "t2", byKw[1].ID)
}

func TestDatagraph_RecoveryPatterns(t *testing.T) {
	d := New(nil)

	d.AddTrace(trace("t1", decision.LabelRecovery,
		"the deploy failed on the staging cluster",
		"the error came from a missing secret",
		"let me rotate the secret and retry"))
	d.AddTrace(trace("t2", decision.LabelRecovery,
		"fallback summary used when no action extracted",
		"the error was a timeout", ""))
	d.AddTrace(trace("t3", decision.LabelPlanning, "planning is not a recovery", "", ""))

	patterns := d.RecoveryPatterns()
	require.Len(t, patterns, 2)
	assert.Equal(t, "the error came from a missing secret", patterns[0].Trigger)
	assert.Equal(t, "let me rotate the secret and retry", patterns[0].Response)
	// Falls back to summary when the action is empty.
	assert.Equal(t, "fallback summary used when no action extracted", patterns[1].Response)
}

func TestDatagraph_GetStats(t *testing.T) {
	d := New(nil)

	stats := d.GetStats()
	assert.Equal(t, 0, stats.TotalTraces)
	assert.Empty(t, stats.DecisionTypes)

	d.AddTrace(trace("t1", decision.LabelRecovery, "the deploy failed hard", "the error was a timeout", "", "Bash"))
	d.AddTrace(trace("t2", decision.LabelPlanning, "plan the schema migration", "", "", "Bash", "Read"))

	stats = d.GetStats()
	assert.Equal(t, 2, stats.TotalTraces)
	assert.Equal(t, 1, stats.DecisionTypes[decision.LabelRecovery])
	assert.Equal(t, 1, stats.DecisionTypes[decision.LabelPlanning])
	assert.Equal(t, 2, stats.ToolsIndexed)
	assert.Equal(t, 1, stats.RecoveryPatterns)
	assert.Greater(t, stats.KeywordsIndexed, 0)
}
