package datagraph

import (
	"regexp"
	"strings"
)

// wordToken matches alphabetic tokens of at least 4 characters on
// lowercased input.
var wordToken = regexp.MustCompile(`\b[a-z]{4,}\b`)

// indexStopwords is the stopword set used when indexing traces.
var indexStopwords = map[string]struct{}{
	"this": {}, "that": {}, "with": {}, "from": {}, "have": {}, "been": {},
	"were": {}, "will": {}, "would": {}, "could": {}, "should": {},
	"there": {}, "their": {}, "about": {}, "which": {},
}

// queryStopwords is the smaller stopword set used for query keyword
// extraction and similarity scoring. Kept separate from indexStopwords
// on purpose: similarity thresholds are calibrated against this set.
var queryStopwords = map[string]struct{}{
	"this": {}, "that": {}, "with": {}, "from": {}, "have": {}, "been": {},
	"were": {}, "will": {},
}

// extractTokens lowercases text, pulls alphabetic tokens of >=4 chars,
// drops stopwords, and keeps at most limit tokens. The cap is positional:
// duplicates count against it in occurrence order.
func extractTokens(text string, stopwords map[string]struct{}, limit int) []string {
	tokens := wordToken.FindAllString(strings.ToLower(text), -1)
	out := make([]string, 0, limit)
	for _, tok := range tokens {
		if _, stop := stopwords[tok]; stop {
			continue
		}
		out = append(out, tok)
		if len(out) == limit {
			break
		}
	}
	return out
}

// IndexKeywords extracts up to 10 index keywords from text.
func IndexKeywords(text string) []string {
	return extractTokens(text, indexStopwords, 10)
}

// QueryKeywords extracts up to 15 query keywords from text.
func QueryKeywords(text string) []string {
	return extractTokens(text, queryStopwords, 15)
}

// Similarity is the Jaccard similarity between the query keyword sets of
// two texts: |intersection| / |union|. Symmetric; 0 when either side has
// no keywords.
func Similarity(a, b string) float64 {
	setA := toSet(QueryKeywords(a))
	setB := toSet(QueryKeywords(b))
	if len(setA) == 0 || len(setB) == 0 {
		return 0.0
	}

	intersection := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

func toSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
	return set
}
