/*
Package benchmark compares the built-in ranker against a Bleve reference
index over the same catalog.

Bleve builds its own BM25-family scoring on a full inverted index; running
both engines over identical documents and queries gives a sanity check that
the lightweight per-call ranker stays in the same neighborhood. The report
covers top-k overlap and per-query latency for each engine.
*/
package benchmark

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/toolscout/toolscout-mcp/internal/catalog"
	"github.com/toolscout/toolscout-mcp/internal/search"
	"github.com/toolscout/toolscout-mcp/internal/synonyms"
)

// QueryResult holds the comparison for one query.
type QueryResult struct {
	Query          string        `json:"query"`
	RankerTop      []string      `json:"rankerTop"`
	BleveTop       []string      `json:"bleveTop"`
	OverlapAtK     float64       `json:"overlapAtK"`
	RankerDuration time.Duration `json:"rankerDurationNs"`
	BleveDuration  time.Duration `json:"bleveDurationNs"`
}

// Report is the aggregate outcome of a benchmark run.
type Report struct {
	CatalogSize    int           `json:"catalogSize"`
	K              int           `json:"k"`
	Queries        []QueryResult `json:"queries"`
	MeanOverlap    float64       `json:"meanOverlap"`
	MeanRankerTime time.Duration `json:"meanRankerTimeNs"`
	MeanBleveTime  time.Duration `json:"meanBleveTimeNs"`
}

// DefaultQueries exercise common tool-search phrasings.
var DefaultQueries = []string{
	"read file contents",
	"write data to disk",
	"search documents",
	"create issue ticket",
	"take browser screenshot",
	"fetch url http request",
	"list database tables",
	"delete remove resource",
}

// Run executes the comparison over the given catalog.
func Run(entries []catalog.Entry, queries []string, k int) (*Report, error) {
	if k <= 0 {
		k = search.DefaultLimit
	}
	if len(queries) == 0 {
		queries = DefaultQueries
	}

	idx, err := buildReferenceIndex(entries)
	if err != nil {
		return nil, err
	}
	defer idx.Close()

	opts := search.Defaults()
	opts.Expander = synonyms.New()
	opts.Limit = k
	// The reference index has no threshold concept, so compare unfiltered.
	opts.Threshold = 0

	report := &Report{
		CatalogSize: len(entries),
		K:           k,
	}

	for _, q := range queries {
		qr := QueryResult{Query: q}

		start := time.Now()
		results, err := search.Search(q, entries, opts)
		qr.RankerDuration = time.Since(start)
		if err != nil {
			return nil, fmt.Errorf("ranker failed on %q: %w", q, err)
		}
		for _, r := range results {
			qr.RankerTop = append(qr.RankerTop, r.Server+"/"+r.Tool.Name)
		}

		start = time.Now()
		qr.BleveTop, err = bleveTopK(idx, q, k)
		qr.BleveDuration = time.Since(start)
		if err != nil {
			return nil, fmt.Errorf("bleve failed on %q: %w", q, err)
		}

		qr.OverlapAtK = overlap(qr.RankerTop, qr.BleveTop)
		report.Queries = append(report.Queries, qr)
	}

	report.finalize()
	return report, nil
}

func (r *Report) finalize() {
	if len(r.Queries) == 0 {
		return
	}

	var overlapSum float64
	var rankerSum, bleveSum time.Duration
	for _, q := range r.Queries {
		overlapSum += q.OverlapAtK
		rankerSum += q.RankerDuration
		bleveSum += q.BleveDuration
	}

	n := len(r.Queries)
	r.MeanOverlap = overlapSum / float64(n)
	r.MeanRankerTime = rankerSum / time.Duration(n)
	r.MeanBleveTime = bleveSum / time.Duration(n)
}

// buildReferenceIndex creates an in-memory Bleve index over the catalog.
func buildReferenceIndex(entries []catalog.Entry) (bleve.Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create bleve index: %w", err)
	}

	batch := idx.NewBatch()
	for _, e := range entries {
		doc := map[string]interface{}{
			"name":        e.Tool.Name,
			"description": e.Tool.Description,
			"server":      e.Server,
		}
		if err := batch.Index(e.ID(), doc); err != nil {
			idx.Close()
			return nil, fmt.Errorf("failed to index %s: %w", e.ID(), err)
		}
	}

	if err := idx.Batch(batch); err != nil {
		idx.Close()
		return nil, fmt.Errorf("failed to batch index catalog: %w", err)
	}

	return idx, nil
}

func buildIndexMapping() mapping.IndexMapping {
	toolMapping := bleve.NewDocumentMapping()
	toolMapping.AddFieldMappingsAt("name", bleve.NewTextFieldMapping())
	toolMapping.AddFieldMappingsAt("description", bleve.NewTextFieldMapping())
	toolMapping.AddFieldMappingsAt("server", bleve.NewTextFieldMapping())

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("_default", toolMapping)
	return indexMapping
}

// bleveTopK returns the top-k document IDs for a query.
func bleveTopK(idx bleve.Index, queryText string, k int) ([]string, error) {
	req := bleve.NewSearchRequestOptions(bleve.NewMatchQuery(queryText), k, 0, false)

	res, err := idx.Search(req)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

// overlap computes |A ∩ B| / max(|A|, |B|). Both empty counts as full
// agreement: neither engine found anything.
func overlap(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	setA := make(map[string]bool, len(a))
	for _, id := range a {
		setA[id] = true
	}

	shared := 0
	for _, id := range b {
		if setA[id] {
			shared++
		}
	}

	denom := len(a)
	if len(b) > denom {
		denom = len(b)
	}
	return float64(shared) / float64(denom)
}

// FormatReport renders the report for terminal display.
func FormatReport(r *Report) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Ranker vs Bleve reference (catalog: %d tools, k=%d)\n\n", r.CatalogSize, r.K)

	queries := make([]QueryResult, len(r.Queries))
	copy(queries, r.Queries)
	sort.Slice(queries, func(i, j int) bool { return queries[i].OverlapAtK < queries[j].OverlapAtK })

	for _, q := range queries {
		fmt.Fprintf(&sb, "  %-32q overlap %.2f  ranker %-10v bleve %v\n",
			q.Query, q.OverlapAtK, q.RankerDuration.Round(time.Microsecond), q.BleveDuration.Round(time.Microsecond))
	}

	fmt.Fprintf(&sb, "\nMean overlap@%d: %.2f\n", r.K, r.MeanOverlap)
	fmt.Fprintf(&sb, "Mean latency: ranker %v, bleve %v\n",
		r.MeanRankerTime.Round(time.Microsecond), r.MeanBleveTime.Round(time.Microsecond))

	return sb.String()
}
