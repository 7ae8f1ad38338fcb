package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/toolscout/toolscout-mcp/internal/catalog"
	"github.com/toolscout/toolscout-mcp/internal/config"
	"github.com/toolscout/toolscout-mcp/internal/spawner"
)

// NewListCmd creates the 'list' command.
func NewListCmd() *cobra.Command {
	var jsonOutput bool
	var showStatus bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all registered MCP servers",
		Long:    `Display all MCP servers registered in ~/.toolscout-mcp.json.`,
		Example: `  toolscout-mcp list
  toolscout-mcp ls
  toolscout-mcp list --status  # spawn servers and show live tool counts
  toolscout-mcp list --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(jsonOutput, showStatus)
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
	cmd.Flags().BoolVarP(&showStatus, "status", "s", false, "Spawn servers and show live tool counts")

	return cmd
}

type listEntry struct {
	Name           string   `json:"name"`
	Command        string   `json:"command"`
	Args           []string `json:"args,omitempty"`
	Source         string   `json:"source"`
	CatalogedTools int      `json:"catalogedTools"`
}

func runList(jsonOutput, showStatus bool) error {
	cfg, err := config.LoadOrCreate()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if len(cfg.Servers) == 0 {
		fmt.Println("No servers configured.")
		fmt.Println("Run 'toolscout-mcp add' to register an MCP server.")
		return nil
	}

	counts := catalogCounts()

	names := make([]string, 0, len(cfg.Servers))
	for name := range cfg.Servers {
		names = append(names, name)
	}
	sort.Strings(names)

	if jsonOutput {
		entries := make([]listEntry, 0, len(names))
		for _, name := range names {
			srv := cfg.Servers[name]
			entries = append(entries, listEntry{
				Name:           name,
				Command:        srv.Command,
				Args:           srv.Args,
				Source:         srv.Source,
				CatalogedTools: counts[name],
			})
		}
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("Registered MCP Servers (%d):\n\n", len(names))

	var pool *spawner.Pool
	if showStatus {
		timeout := time.Duration(config.DefaultTimeoutSeconds) * time.Second
		if cfg.Settings != nil && cfg.Settings.TimeoutSeconds > 0 {
			timeout = time.Duration(cfg.Settings.TimeoutSeconds) * time.Second
		}
		pool = spawner.NewPool(timeout)
		defer pool.Close()
	}

	for _, name := range names {
		server := cfg.Servers[name]
		source := server.Source
		if source == "" {
			source = "unknown"
		}
		fmt.Printf("  %s\n", name)
		fmt.Printf("    Command:  %s %v\n", server.Command, server.Args)
		fmt.Printf("    Source:   %s\n", source)
		fmt.Printf("    Cataloged: %d tools\n", counts[name])
		if len(server.Env) > 0 {
			fmt.Printf("    Env:      %d variables\n", len(server.Env))
		}

		if showStatus {
			tools, err := pool.GetTools(name, server)
			if err != nil {
				fmt.Printf("    Status:   unreachable (%s)\n", err.Error())
			} else {
				fmt.Printf("    Status:   ok, %d tools\n", len(tools))
			}
		}

		fmt.Println()
	}

	return nil
}

// catalogCounts returns per-server tool counts from the catalog store.
func catalogCounts() map[string]int {
	counts := make(map[string]int)

	store := catalog.NewStore()
	if err := store.Init(); err != nil {
		return counts
	}
	defer store.Close()

	entries, err := store.Entries()
	if err != nil {
		return counts
	}
	for _, e := range entries {
		counts[e.Server]++
	}
	return counts
}
