package benchmark

import (
	"testing"

	"github.com/toolscout/toolscout-mcp/internal/catalog"
)

func benchmarkCatalog() []catalog.Entry {
	return []catalog.Entry{
		{Server: "fs", Tool: catalog.Tool{Name: "read_file", Description: "Read the contents of a file from disk"}},
		{Server: "fs", Tool: catalog.Tool{Name: "write_file", Description: "Write contents to a file on disk"}},
		{Server: "fs", Tool: catalog.Tool{Name: "list_directory", Description: "List files in a directory"}},
		{Server: "net", Tool: catalog.Tool{Name: "fetch_url", Description: "Fetch a URL over HTTP and return the response body"}},
		{Server: "jira", Tool: catalog.Tool{Name: "create_issue", Description: "Create a new issue in a Jira project"}},
		{Server: "browser", Tool: catalog.Tool{Name: "take_screenshot", Description: "Take a screenshot of the current browser page"}},
	}
}

func TestOverlap(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want float64
	}{
		{"identical", []string{"x", "y"}, []string{"x", "y"}, 1},
		{"disjoint", []string{"x"}, []string{"y"}, 0},
		{"partial", []string{"x", "y"}, []string{"y", "z"}, 0.5},
		{"both empty", nil, nil, 1},
		{"one empty", []string{"x"}, nil, 0},
		{"uneven lengths", []string{"x"}, []string{"x", "y"}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := overlap(tt.a, tt.b); got != tt.want {
				t.Errorf("overlap(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestRunProducesReport(t *testing.T) {
	report, err := Run(benchmarkCatalog(), []string{"read file contents", "take screenshot"}, 3)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if report.CatalogSize != 6 {
		t.Errorf("CatalogSize = %d, want 6", report.CatalogSize)
	}
	if len(report.Queries) != 2 {
		t.Fatalf("expected 2 query results, got %d", len(report.Queries))
	}

	readQuery := report.Queries[0]
	if len(readQuery.RankerTop) == 0 {
		t.Fatal("ranker returned nothing for 'read file contents'")
	}
	if readQuery.RankerTop[0] != "fs/read_file" {
		t.Errorf("ranker top = %s, want fs/read_file", readQuery.RankerTop[0])
	}
	if len(readQuery.BleveTop) == 0 {
		t.Fatal("bleve returned nothing for 'read file contents'")
	}
	if readQuery.OverlapAtK <= 0 {
		t.Error("expected some overlap between ranker and bleve on an obvious query")
	}

	if report.MeanOverlap <= 0 || report.MeanOverlap > 1 {
		t.Errorf("MeanOverlap = %v, want within (0, 1]", report.MeanOverlap)
	}
}

func TestRunDefaults(t *testing.T) {
	report, err := Run(benchmarkCatalog(), nil, 0)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if report.K <= 0 {
		t.Errorf("K = %d, want positive default", report.K)
	}
	if len(report.Queries) != len(DefaultQueries) {
		t.Errorf("expected %d default queries, got %d", len(DefaultQueries), len(report.Queries))
	}
}

func TestFormatReport(t *testing.T) {
	report, err := Run(benchmarkCatalog(), []string{"read file contents"}, 3)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	out := FormatReport(report)
	if out == "" {
		t.Fatal("FormatReport returned empty string")
	}
}
