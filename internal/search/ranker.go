package search

import "sort"

// scoreEpsilon treats near-equal BM25 scores as tied so that floating-point
// jitter cannot reorder results between runs. Ties fall through to the
// structural comparisons below.
const scoreEpsilon = 0.001

// scoredDoc is an internal candidate: a document, its score, and the
// distinct terms that matched it.
type scoredDoc struct {
	doc     document
	score   float64
	matched []string
}

// nameMatchCount returns how many distinct matched terms occur in the
// tool's own name.
func (s scoredDoc) nameMatchCount() int {
	count := 0
	for _, term := range s.matched {
		if s.doc.nameTokens[term] {
			count++
		}
	}
	return count
}

// rank filters scored candidates by threshold, orders them, and truncates
// to limit. The comparator cascades in strict priority:
//
//  1. higher score, when the gap exceeds scoreEpsilon
//  2. a match in the tool name beats description-only matches
//  3. more distinct matched terms in the name
//  4. shorter tool name (read as a more focused tool)
//  5. "server/name" ascending, which makes the order total
//
// The threshold boundary is inclusive. Callers pass non-negative threshold
// and limit; Search clamps them.
func rank(scored []scoredDoc, threshold float64, limit int) []Result {
	if limit <= 0 {
		return nil
	}

	kept := make([]scoredDoc, 0, len(scored))
	for _, s := range scored {
		if s.score >= threshold {
			kept = append(kept, s)
		}
	}

	sort.Slice(kept, func(i, j int) bool {
		a, b := kept[i], kept[j]

		if diff := a.score - b.score; diff > scoreEpsilon || diff < -scoreEpsilon {
			return a.score > b.score
		}

		aName, bName := a.nameMatchCount(), b.nameMatchCount()
		if (aName > 0) != (bName > 0) {
			return aName > 0
		}
		if aName != bName {
			return aName > bName
		}

		aLen, bLen := len(a.doc.entry.Tool.Name), len(b.doc.entry.Tool.Name)
		if aLen != bLen {
			return aLen < bLen
		}

		return a.doc.entry.ID() < b.doc.entry.ID()
	})

	if len(kept) > limit {
		kept = kept[:limit]
	}

	results := make([]Result, len(kept))
	for i, s := range kept {
		results[i] = Result{
			Server:        s.doc.entry.Server,
			Tool:          s.doc.entry.Tool,
			Score:         s.score,
			MatchedTokens: s.matched,
		}
	}
	return results
}
