package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/toolscout/toolscout-mcp/internal/catalog"
	"github.com/toolscout/toolscout-mcp/internal/config"
	"github.com/toolscout/toolscout-mcp/internal/mcp"
	"github.com/toolscout/toolscout-mcp/internal/version"
)

// NewServeCmd creates the 'serve' command for running the MCP server.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server (stdio transport)",
		Long: `Start the toolscout-mcp server using stdio transport.

The server exposes 4 meta-tools to AI clients:
  scout_search   - Rank cataloged tools against a natural-language query
  scout_list     - List all registered MCP servers
  scout_discover - Refresh the catalog from a specific server
  scout_describe - Show the full schema for a cataloged tool`,
		Example: `  # Run directly
  toolscout-mcp serve

  # Add to Claude Code
  claude mcp add toolscout -- toolscout-mcp serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	return cmd
}

// runServe starts the MCP server with signal handling for graceful shutdown.
func runServe() error {
	cfg, err := config.LoadOrCreate()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store := catalog.NewStore()
	if err := store.Init(); err != nil {
		log.Printf("Warning: catalog store unavailable: %v", err)
	}
	defer store.Close()

	server := mcp.NewServer(cfg, store)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	go checkForUpdates()

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Run()
	}()

	select {
	case sig := <-sigChan:
		log.Printf("Received signal: %v, shutting down gracefully...", sig)
		if err := server.Close(); err != nil {
			log.Printf("Error during shutdown: %v", err)
			return err
		}
		log.Println("Shutdown complete")
		return nil

	case err := <-errChan:
		// stdin closed or server error, clean up either way.
		if closeErr := server.Close(); closeErr != nil {
			log.Printf("Error during cleanup: %v", closeErr)
		}
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}
}

// checkForUpdates logs when a newer release is available.
func checkForUpdates() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	latest, err := version.CheckUpdate(ctx)
	if err != nil {
		log.Printf("Update check failed: %v", err)
		return
	}

	if latest != "" && latest != version.Version {
		log.Printf("Update available: %s (current: %s)", latest, version.Version)
	}
}
