package search

import "github.com/toolscout/toolscout-mcp/internal/catalog"

// document is one catalog entry prepared for scoring. The token sequence is
// the tokenized name followed by the tokenized description; name tokens are
// retained separately for tie-breaking.
type document struct {
	entry      catalog.Entry
	tokens     []string
	termFreq   map[string]int
	nameTokens map[string]bool
}

// newDocument tokenizes a catalog entry. A missing description simply
// contributes no tokens.
func newDocument(e catalog.Entry) document {
	nameTokens := Tokenize(e.Tool.Name)
	descTokens := Tokenize(e.Tool.Description)

	tokens := make([]string, 0, len(nameTokens)+len(descTokens))
	tokens = append(tokens, nameTokens...)
	tokens = append(tokens, descTokens...)

	termFreq := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		termFreq[tok]++
	}

	nameSet := make(map[string]bool, len(nameTokens))
	for _, tok := range nameTokens {
		nameSet[tok] = true
	}

	return document{
		entry:      e,
		tokens:     tokens,
		termFreq:   termFreq,
		nameTokens: nameSet,
	}
}

// corpusStats holds per-call statistics over the full document set. It is
// built once at the start of a search and never mutated afterwards, so later
// scoring work cannot skew the statistics.
type corpusStats struct {
	numDocs      int
	avgDocLength float64
	docFreq      map[string]int
}

// buildCorpusStats derives the document-frequency table and mean document
// length from the corpus snapshot. Document frequency counts presence, not
// occurrences: a term appearing five times in one document contributes one.
// The average length of an empty corpus is defined as zero.
func buildCorpusStats(docs []document) corpusStats {
	stats := corpusStats{
		numDocs: len(docs),
		docFreq: make(map[string]int),
	}
	if len(docs) == 0 {
		return stats
	}

	totalLen := 0
	for _, doc := range docs {
		totalLen += len(doc.tokens)
		for term := range doc.termFreq {
			stats.docFreq[term]++
		}
	}
	stats.avgDocLength = float64(totalLen) / float64(len(docs))

	return stats
}
