package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/toolscout/toolscout-mcp/internal/catalog"
	"github.com/toolscout/toolscout-mcp/internal/config"
	"github.com/toolscout/toolscout-mcp/internal/search"
	"github.com/toolscout/toolscout-mcp/internal/synonyms"
)

// NewSearchCmd creates the 'search' command for one-shot catalog queries.
func NewSearchCmd() *cobra.Command {
	var (
		limit      int
		threshold  float64
		noSynonyms bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Rank cataloged tools against a query",
		Long: `Search the tool catalog with a natural-language query and print the
ranked results. Run 'toolscout-mcp discover' first to populate the catalog.`,
		Example: `  toolscout-mcp search "read file contents"
  toolscout-mcp search "create jira issue" --limit 5
  toolscout-mcp search "fetch url" --threshold 0.5 --json
  toolscout-mcp search "download data" --no-synonyms`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(strings.Join(args, " "), limit, threshold, noSynonyms, jsonOutput)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Maximum number of results (default from config)")
	cmd.Flags().Float64VarP(&threshold, "threshold", "t", -1, "Minimum relevance score (default from config)")
	cmd.Flags().BoolVar(&noSynonyms, "no-synonyms", false, "Disable query expansion")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

func runSearch(query string, limit int, threshold float64, noSynonyms, jsonOutput bool) error {
	cfg, err := config.LoadOrCreate()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

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

	opts := search.Options{
		Threshold:   cfg.Threshold(),
		Limit:       cfg.Limit(),
		UseSynonyms: cfg.SynonymsEnabled() && !noSynonyms,
		Expander:    synonyms.New(),
	}
	if limit > 0 {
		opts.Limit = limit
	}
	if threshold >= 0 {
		opts.Threshold = threshold
	}

	results, err := search.Search(query, entries, opts)
	if err != nil {
		return err
	}

	if jsonOutput {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	if len(results) == 0 {
		fmt.Printf("No tools matched '%s'.\n", query)
		return nil
	}

	fmt.Printf("Top %d of %d cataloged tools for '%s':\n\n", len(results), len(entries), query)
	for i, r := range results {
		fmt.Printf("  %2d. %s/%s (score %.3f)\n", i+1, r.Server, r.Tool.Name, r.Score)
		if r.Tool.Description != "" {
			fmt.Printf("      %s\n", r.Tool.Description)
		}
		if len(r.MatchedTokens) > 0 {
			fmt.Printf("      matched: %s\n", strings.Join(r.MatchedTokens, ", "))
		}
	}

	return nil
}
