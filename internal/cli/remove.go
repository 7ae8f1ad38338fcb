package cli

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/toolscout/toolscout-mcp/internal/catalog"
	"github.com/toolscout/toolscout-mcp/internal/config"
)

// NewRemoveCmd creates the 'remove' command.
func NewRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   "Remove an MCP server",
		Long:    `Remove an MCP server from the configuration and drop its tools from the catalog.`,
		Example: `  toolscout-mcp remove jira
  toolscout-mcp rm jira`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(args[0])
		},
	}

	return cmd
}

func runRemove(name string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Try both the given name and its camelCase form.
	camelName := config.ToCamelCase(name)
	removed := name

	if _, exists := cfg.Servers[name]; exists {
		delete(cfg.Servers, name)
	} else if _, exists := cfg.Servers[camelName]; exists {
		delete(cfg.Servers, camelName)
		removed = camelName
	} else {
		return fmt.Errorf("server '%s' not found", name)
	}

	configPath, err := config.GetDefaultConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	store := catalog.NewStore()
	if err := store.Init(); err == nil {
		if err := store.RemoveServer(removed); err != nil {
			log.Printf("Warning: failed to remove cataloged tools for %s: %v", removed, err)
		}
		store.Close()
	}

	fmt.Printf("Removed server '%s'\n", removed)
	return nil
}
