/*
Package search implements the lexical relevance engine that ranks a tool
catalog against a natural-language query.

The engine is pure and per-call: each Search invocation tokenizes the
catalog, derives corpus statistics from that snapshot, scores every entry
with weighted BM25, and orders the survivors with a deterministic multi-level
tie-break. Nothing is cached between calls and no goroutines run inside the
engine, so concurrent Search calls over unshared inputs are independent.

Query expansion is delegated to an Expander (see the synonyms package for
the built-in dictionary); the engine only distinguishes exact tokens from
expansion terms when weighting contributions.
*/
package search

import (
	"fmt"

	"github.com/toolscout/toolscout-mcp/internal/catalog"
)

// Default search options, used when the corresponding Options field is
// left at its zero value by Defaults().
const (
	DefaultThreshold = 0.3
	DefaultLimit     = 10
)

// Expander expands normalized query tokens with related terms.
//
// expanded must contain every input token and may repeat terms; repeats are
// meaningful and are scored additively. original is the set of tokens
// present in the unexpanded query, used to weight exact matches above
// synonym matches.
type Expander interface {
	Expand(tokens []string) (expanded []string, original map[string]bool)
}

// Options control a single search call.
type Options struct {
	// Threshold is the minimum (inclusive) score for a result to appear.
	// Negative values are clamped to zero.
	Threshold float64

	// Limit caps the number of results. Negative values are clamped to
	// zero, which always yields an empty result list.
	Limit int

	// UseSynonyms enables query expansion through Expander. When false, or
	// when Expander is nil, the expander is bypassed entirely and only
	// literal query tokens can match.
	UseSynonyms bool

	// Expander performs the expansion. The engine consumes it as-is; an
	// expander that returns its input unchanged is valid.
	Expander Expander
}

// Defaults returns the standard options: threshold 0.3, limit 10, synonym
// expansion enabled. The caller still has to supply an Expander.
func Defaults() Options {
	return Options{
		Threshold:   DefaultThreshold,
		Limit:       DefaultLimit,
		UseSynonyms: true,
	}
}

// Result is one ranked search hit.
type Result struct {
	Server string       `json:"server"`
	Tool   catalog.Tool `json:"tool"`

	// Score is the unnormalized BM25 score. It is comparable only to other
	// scores from the same call.
	Score float64 `json:"score"`

	// MatchedTokens are the distinct terms (exact or synonym-derived) that
	// occurred in this entry, in first-seen order.
	MatchedTokens []string `json:"matchedTokens"`
}

// Search ranks the catalog entries against the query and returns at most
// opts.Limit results sorted by relevance.
//
// Degenerate input is not an error: an empty query, an empty catalog, or a
// query whose tokens are all shorter than three characters yields an empty
// result list. The only error condition is a malformed catalog entry, which
// is rejected before any scoring happens.
func Search(query string, entries []catalog.Entry, opts Options) ([]Result, error) {
	for i, e := range entries {
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("invalid catalog entry at index %d: %w", i, err)
		}
	}

	if opts.Threshold < 0 {
		opts.Threshold = 0
	}
	if opts.Limit < 0 {
		opts.Limit = 0
	}

	queryTokens := Tokenize(query)
	if len(queryTokens) == 0 || len(entries) == 0 || opts.Limit == 0 {
		return nil, nil
	}

	expanded, original := expandQuery(queryTokens, opts)

	docs := make([]document, len(entries))
	for i, e := range entries {
		docs[i] = newDocument(e)
	}
	stats := buildCorpusStats(docs)

	scored := make([]scoredDoc, 0, len(docs))
	for _, doc := range docs {
		score, matched := scoreDocument(expanded, original, doc, stats)
		if len(matched) == 0 {
			continue
		}
		scored = append(scored, scoredDoc{doc: doc, score: score, matched: matched})
	}

	return rank(scored, opts.Threshold, opts.Limit), nil
}

// expandQuery runs the expander when enabled, and otherwise returns the
// query tokens with every token marked original.
func expandQuery(queryTokens []string, opts Options) (expanded []string, original map[string]bool) {
	if opts.UseSynonyms && opts.Expander != nil {
		return opts.Expander.Expand(queryTokens)
	}

	original = make(map[string]bool, len(queryTokens))
	for _, tok := range queryTokens {
		original[tok] = true
	}
	return queryTokens, original
}
