/*
Package main is the entry point for the toolscout-mcp CLI.

toolscout-mcp catalogs the tools of your registered MCP servers and ranks
them against natural-language queries, so AI clients load 4 meta-tools
instead of every tool definition from every server.

Usage:
  toolscout-mcp [command]

Available Commands:
  serve       Run the MCP server (stdio transport)
  search      Rank cataloged tools against a query
  add         Add MCP server(s) manually
  remove      Remove an MCP server
  list        List all registered MCP servers
  discover    Spawn registered servers and index their tools
  benchmark   Compare the ranker against a Bleve reference index
  version     Show version information
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/toolscout/toolscout-mcp/internal/cli"
	"github.com/toolscout/toolscout-mcp/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "toolscout-mcp",
		Short: "Lexical tool search across your MCP servers",
		Long: `toolscout-mcp is an MCP (Model Context Protocol) aggregator that keeps a
catalog of every tool your registered servers expose and ranks that
catalog against natural-language queries.

Instead of loading dozens of tool definitions into context, AI clients
get 4 meta-tools:
  scout_search   - Rank cataloged tools against a query
  scout_list     - List registered servers
  scout_discover - Refresh the catalog from a server
  scout_describe - Show a tool's full schema`,
		Version: version.GetVersion(),
	}

	rootCmd.AddCommand(cli.NewServeCmd())
	rootCmd.AddCommand(cli.NewSearchCmd())
	rootCmd.AddCommand(cli.NewAddCmd())
	rootCmd.AddCommand(cli.NewRemoveCmd())
	rootCmd.AddCommand(cli.NewListCmd())
	rootCmd.AddCommand(cli.NewDiscoverCmd())
	rootCmd.AddCommand(cli.NewBenchmarkCmd())
	rootCmd.AddCommand(cli.NewVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
