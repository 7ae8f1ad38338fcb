package search

import "math"

// BM25 tuning constants. k1 controls term-frequency saturation, b the
// strength of document-length normalization.
const (
	k1 = 1.5
	b  = 0.75
)

// synonymWeight discounts contributions from expansion terms that were not
// present in the literal query. An exact query token scores at full weight.
const synonymWeight = 0.7

// scoreDocument computes the weighted BM25 score of one document for an
// expanded query.
//
// Terms are processed in expansion order. A term that appears more than once
// in the expanded list contributes once per occurrence; this additive
// weighting lets the expander emphasize a term by repeating it. original
// marks which expanded terms were literal query tokens and therefore carry
// full weight.
//
// The IDF uses the smoothed form ln((N-df+0.5)/(df+0.5) + 1), which is
// strictly positive even for terms present in every document. Scores are
// therefore non-negative and unbounded; they are comparable only within one
// call.
//
// matched holds each term that occurred in the document, once, in
// first-seen order.
func scoreDocument(expanded []string, original map[string]bool, doc document, stats corpusStats) (score float64, matched []string) {
	docLen := float64(len(doc.tokens))
	seen := make(map[string]bool)

	for _, term := range expanded {
		tf := doc.termFreq[term]
		if tf == 0 {
			continue
		}

		// tf > 0 implies a non-empty document, so the corpus is non-empty
		// and avgDocLength > 0. The guard keeps the function total anyway.
		if stats.avgDocLength <= 0 {
			continue
		}

		df := float64(stats.docFreq[term])
		idf := math.Log((float64(stats.numDocs)-df+0.5)/(df+0.5) + 1)

		norm := 1 - b + b*docLen/stats.avgDocLength
		saturated := float64(tf) * (k1 + 1) / (float64(tf) + k1*norm)

		weight := 1.0
		if !original[term] {
			weight = synonymWeight
		}
		score += weight * idf * saturated

		if !seen[term] {
			seen[term] = true
			matched = append(matched, term)
		}
	}

	return score, matched
}
