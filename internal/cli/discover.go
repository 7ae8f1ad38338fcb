package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/toolscout/toolscout-mcp/internal/catalog"
	"github.com/toolscout/toolscout-mcp/internal/config"
	"github.com/toolscout/toolscout-mcp/internal/spawner"
)

// NewDiscoverCmd creates the 'discover' command for building the catalog.
func NewDiscoverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discover [server...]",
		Short: "Spawn registered servers and index their tools",
		Long: `Spawn each registered MCP server, fetch its tool list, and store the
results in the catalog. With no arguments all servers are discovered;
pass server names to refresh only those.`,
		Example: `  toolscout-mcp discover
  toolscout-mcp discover jira fileSystem`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiscover(args)
		},
	}

	return cmd
}

func runDiscover(only []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if len(cfg.Servers) == 0 {
		fmt.Println("No servers configured. Run 'toolscout-mcp add' first.")
		return nil
	}

	targets := make(map[string]*config.ServerConfig)
	if len(only) == 0 {
		for name, srv := range cfg.Servers {
			targets[name] = srv
		}
	} else {
		for _, name := range only {
			camelName := config.ToCamelCase(name)
			if srv, ok := cfg.Servers[name]; ok {
				targets[name] = srv
			} else if srv, ok := cfg.Servers[camelName]; ok {
				targets[camelName] = srv
			} else {
				return fmt.Errorf("server '%s' not found", name)
			}
		}
	}

	store := catalog.NewStore()
	if err := store.Init(); err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer store.Close()

	timeout := time.Duration(config.DefaultTimeoutSeconds) * time.Second
	if cfg.Settings != nil && cfg.Settings.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.Settings.TimeoutSeconds) * time.Second
	}
	pool := spawner.NewPool(timeout)
	defer pool.Close()

	total := 0
	failures := 0
	for name, srv := range targets {
		fmt.Printf("Discovering %s... ", name)

		tools, err := pool.GetTools(name, srv)
		if err != nil {
			failures++
			fmt.Printf("failed: %v\n", err)
			continue
		}

		if err := store.ReplaceServerTools(name, tools); err != nil {
			failures++
			fmt.Printf("failed to store: %v\n", err)
			continue
		}

		total += len(tools)
		fmt.Printf("%d tools\n", len(tools))
	}

	fmt.Printf("\nCataloged %d tools from %d server(s)", total, len(targets)-failures)
	if failures > 0 {
		fmt.Printf(" (%d failed)", failures)
	}
	fmt.Println()

	if failures == len(targets) {
		return fmt.Errorf("discovery failed for all servers")
	}
	return nil
}
