/*
Package cli implements the toolscout-mcp commands.

Each command lives in its own file and is constructed by a NewXxxCmd
function returning a *cobra.Command.
*/
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/toolscout/toolscout-mcp/internal/version"
)

// NewVersionCmd creates the 'version' command.
func NewVersionCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display the current version, commit hash, and build date.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion(check)
		},
	}

	cmd.Flags().BoolVarP(&check, "check", "c", false, "Check for a newer release")

	return cmd
}

func runVersion(check bool) error {
	fmt.Printf("Version:  %s\n", version.Version)
	fmt.Printf("Commit:   %s\n", version.Commit)
	fmt.Printf("Built:    %s\n", version.Date)

	if check {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		latest, err := version.CheckUpdate(ctx)
		if err != nil {
			return fmt.Errorf("update check failed: %w", err)
		}
		if latest == "" {
			fmt.Println("Up to date.")
		} else {
			fmt.Printf("Update available: %s\n", latest)
		}
	}

	return nil
}
