package projection

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fyrsmithlabs/decisiond/internal/decision"
)

func TestRenderPromptContext_Empty(t *testing.T) {
	g := &ContextGraph{}

	out := g.RenderPromptContext()

	assert.True(t, strings.HasPrefix(out, "## Relevant Context from History"))
	assert.NotContains(t, out, "### Similar Past Decisions")
	assert.NotContains(t, out, "### Patterns That Apply")
	assert.NotContains(t, out, "### Warnings from History")
	assert.NotContains(t, out, "### Suggested Tools")
}

func TestRenderPromptContext_AllSections(t *testing.T) {
	g := &ContextGraph{
		Precedents: []*decision.Trace{
			{DecisionType: decision.LabelRecovery, Summary: "recovered from the deploy failure", Reasoning: "the secret had expired"},
			{DecisionType: decision.LabelPlanning, Summary: "planned the rollout"},
		},
		ApplicablePatterns: []string{"Past recovery: rotate the secret"},
		Warnings:           []string{"Similar task failed before: deploy to staging"},
		SuggestedTools:     []string{"Bash", "Read"},
		RelevanceScore:     0.4,
	}

	out := g.RenderPromptContext()

	assert.Contains(t, out, "### Similar Past Decisions")
	assert.Contains(t, out, "1. [recovery] recovered from the deploy failure")
	assert.Contains(t, out, "   Reasoning: the secret had expired...")
	assert.Contains(t, out, "2. [planning] planned the rollout")
	assert.Contains(t, out, "### Patterns That Apply\n- Past recovery: rotate the secret")
	assert.Contains(t, out, "### Warnings from History\n- Similar task failed before: deploy to staging")
	assert.Contains(t, out, "### Suggested Tools: Bash, Read")
}

func TestRenderPromptContext_PrecedentLimit(t *testing.T) {
	g := &ContextGraph{
		Precedents: []*decision.Trace{
			{DecisionType: decision.LabelGeneral, Summary: "first"},
			{DecisionType: decision.LabelGeneral, Summary: "second"},
			{DecisionType: decision.LabelGeneral, Summary: "third"},
			{DecisionType: decision.LabelGeneral, Summary: "fourth"},
		},
	}

	out := g.RenderPromptContext()

	// Only the top three precedents render.
	assert.Contains(t, out, "3. [general] third")
	assert.NotContains(t, out, "fourth")
}
