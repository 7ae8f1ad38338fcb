package search

import (
	"testing"
)

func scoredFor(server, name, desc string, score float64, matched ...string) scoredDoc {
	return scoredDoc{
		doc:     makeDoc(server, name, desc),
		score:   score,
		matched: matched,
	}
}

func ids(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Server + "/" + r.Tool.Name
	}
	return out
}

func assertOrder(t *testing.T, results []Result, want ...string) {
	t.Helper()
	got := ids(results)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestRankFilterInclusiveThreshold(t *testing.T) {
	scored := []scoredDoc{
		scoredFor("a", "above", "", 0.31, "term"),
		scoredFor("a", "exact", "", 0.30, "term"),
		scoredFor("a", "below", "", 0.29, "term"),
	}

	results := rank(scored, 0.3, 10)
	assertOrder(t, results, "a/above", "a/exact")
}

func TestRankScoreOrder(t *testing.T) {
	scored := []scoredDoc{
		scoredFor("a", "low", "", 1.0, "term"),
		scoredFor("a", "high", "", 3.0, "term"),
		scoredFor("a", "mid", "", 2.0, "term"),
	}

	results := rank(scored, 0, 10)
	assertOrder(t, results, "a/high", "a/mid", "a/low")
}

func TestRankEpsilonTieFallsThrough(t *testing.T) {
	// Scores differ by less than the epsilon, so the name-match rule
	// decides: "search_web" matched a name token, "crawler" did not.
	withNameMatch := scoredFor("a", "search_web", "search the web", 2.0005, "search")
	descOnly := scoredFor("a", "crawler", "search the web", 2.0010, "search")

	results := rank([]scoredDoc{descOnly, withNameMatch}, 0, 10)
	assertOrder(t, results, "a/search_web", "a/crawler")
}

func TestRankClearScoreGapBeatsNameMatch(t *testing.T) {
	withNameMatch := scoredFor("a", "search_web", "search the web", 2.0, "search")
	descOnly := scoredFor("a", "crawler", "search the web", 2.5, "search")

	results := rank([]scoredDoc{withNameMatch, descOnly}, 0, 10)
	assertOrder(t, results, "a/crawler", "a/search_web")
}

func TestRankMoreNameMatchesWinTies(t *testing.T) {
	two := scoredFor("a", "read_file", "reads", 1.0, "read", "file")
	one := scoredFor("a", "read_page", "file contents", 1.0, "read", "file")

	results := rank([]scoredDoc{one, two}, 0, 10)
	assertOrder(t, results, "a/read_file", "a/read_page")
}

func TestRankShorterNameWinsTies(t *testing.T) {
	long := scoredFor("a", "read_file_from_disk", "", 1.0, "read")
	short := scoredFor("a", "read_file", "", 1.0, "read")

	results := rank([]scoredDoc{long, short}, 0, 10)
	assertOrder(t, results, "a/read_file", "a/read_file_from_disk")
}

func TestRankLexicographicFinalTieBreak(t *testing.T) {
	// Same score, same name-match status, same name length: the canonical
	// server/name identifier decides, ascending.
	b := scoredFor("beta", "read_file", "", 1.0, "read")
	a := scoredFor("alpha", "read_file", "", 1.0, "read")

	results := rank([]scoredDoc{b, a}, 0, 10)
	assertOrder(t, results, "alpha/read_file", "beta/read_file")
}

func TestRankTruncatesToLimit(t *testing.T) {
	scored := []scoredDoc{
		scoredFor("a", "one", "", 3.0, "term"),
		scoredFor("a", "two", "", 2.0, "term"),
		scoredFor("a", "three", "", 1.0, "term"),
	}

	results := rank(scored, 0, 2)
	assertOrder(t, results, "a/one", "a/two")
}

func TestRankZeroLimit(t *testing.T) {
	scored := []scoredDoc{scoredFor("a", "one", "", 3.0, "term")}
	if results := rank(scored, 0, 0); len(results) != 0 {
		t.Errorf("limit 0 must yield no results, got %v", ids(results))
	}
}

func TestRankDeterministic(t *testing.T) {
	// Fully tied inputs in varying submission order always come out the
	// same way.
	build := func() []scoredDoc {
		return []scoredDoc{
			scoredFor("srv2", "tool_b", "", 1.0, "tool"),
			scoredFor("srv1", "tool_c", "", 1.0, "tool"),
			scoredFor("srv1", "tool_a", "", 1.0, "tool"),
		}
	}

	first := ids(rank(build(), 0, 10))
	for i := 0; i < 10; i++ {
		scored := build()
		// Rotate submission order.
		scored = append(scored[i%3:], scored[:i%3]...)
		again := ids(rank(scored, 0, 10))
		for j := range first {
			if first[j] != again[j] {
				t.Fatalf("ordering not deterministic: %v vs %v", first, again)
			}
		}
	}
}
