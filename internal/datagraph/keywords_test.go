package datagraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexKeywords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "basic extraction",
			text: "Fix the build pipeline for the deploy job",
			want: []string{"build", "pipeline", "deploy"},
		},
		{
			name: "short tokens dropped",
			text: "go run the big job now",
			want: []string{},
		},
		{
			name: "stopwords dropped",
			text: "this should have been there with which",
			want: []string{},
		},
		{
			name: "lowercased",
			text: "TypeScript Compilation FAILED",
			want: []string{"typescript", "compilation", "failed"},
		},
		{
			name: "digits break tokens",
			text: "utf8 encoding err0r handling",
			want: []string{"encoding", "handling"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IndexKeywords(tt.text))
		})
	}
}

func TestIndexKeywords_PositionalCap(t *testing.T) {
	text := "alpha beta gamma delta epsilon alpha beta gamma delta epsilon omega"
	got := IndexKeywords(text)
	// Cap is positional: the repeated tokens consume slots, so "omega"
	// never makes it in.
	assert.Len(t, got, 10)
	assert.NotContains(t, got, "omega")
}

func TestIndexKeywords_Idempotent(t *testing.T) {
	text := "The TypeScript build failed during the release pipeline"
	assert.Equal(t, IndexKeywords(text), IndexKeywords(text))
}

func TestQueryKeywords_Cap(t *testing.T) {
	text := "alpha beta gamma delta epsilon zeta theta iota kappa lambda " +
		"omicron sigma upsilon omega grammar syntax parser"
	got := QueryKeywords(text)
	assert.Len(t, got, 15)
}

func TestSimilarity(t *testing.T) {
	t.Run("symmetric", func(t *testing.T) {
		a := "the build failed with a missing dependency"
		b := "missing dependency broke the build again"
		assert.Equal(t, Similarity(a, b), Similarity(b, a))
	})

	t.Run("self similarity is one", func(t *testing.T) {
		text := "typescript compilation failed in the release pipeline"
		assert.Equal(t, 1.0, Similarity(text, text))
	})

	t.Run("empty keyword set is zero", func(t *testing.T) {
		assert.Equal(t, 0.0, Similarity("", "build failed"))
		assert.Equal(t, 0.0, Similarity("a an of", "build failed"))
	})

	t.Run("disjoint is zero", func(t *testing.T) {
		assert.Equal(t, 0.0, Similarity("database migration", "frontend styling"))
	})

	t.Run("partial overlap", func(t *testing.T) {
		// keywords: {build, failed, badly} vs {build, failed, nicely}
		// intersection 2, union 4.
		got := Similarity("build failed badly", "build failed nicely")
		assert.InDelta(t, 0.5, got, 1e-9)
	})
}
