package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/toolscout/toolscout-mcp/internal/benchmark"
	"github.com/toolscout/toolscout-mcp/internal/catalog"
)

// NewBenchmarkCmd creates the 'benchmark' command.
func NewBenchmarkCmd() *cobra.Command {
	var (
		k          int
		queries    []string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "benchmark",
		Short: "Compare the ranker against a Bleve reference index",
		Long: `Run the built-in ranker and an in-memory Bleve index over the same
catalog and report top-k overlap plus per-query latency. Useful for
checking ranking quality after changing the synonym dictionary or
scoring parameters.`,
		Example: `  toolscout-mcp benchmark
  toolscout-mcp benchmark --k 5 --query "read file" --query "create issue"
  toolscout-mcp benchmark --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBenchmark(k, queries, jsonOutput)
		},
	}

	cmd.Flags().IntVarP(&k, "k", "k", 0, "Top-k cutoff for the comparison (default: search limit)")
	cmd.Flags().StringArrayVarP(&queries, "query", "q", nil, "Query to benchmark (repeatable; default: built-in set)")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

func runBenchmark(k int, queries []string, jsonOutput bool) error {
	store := catalog.NewStore()
	if err := store.Init(); err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer store.Close()

	entries, err := store.Entries()
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println("Catalog is empty. Run 'toolscout-mcp discover' to index your servers.")
		return nil
	}

	report, err := benchmark.Run(entries, queries, k)
	if err != nil {
		return err
	}

	if jsonOutput {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Print(benchmark.FormatReport(report))
	return nil
}
