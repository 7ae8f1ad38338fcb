package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// IsSelfReference reports whether a server config points back at
// toolscout-mcp itself. Spawning ourselves during discovery would recurse.
func IsSelfReference(server *ServerConfig) bool {
	binaryName := filepath.Base(os.Args[0])
	if server.Command == binaryName || server.Command == "toolscout-mcp" {
		return true
	}

	if server.Command == "npx" {
		for _, arg := range server.Args {
			if arg == "@toolscout/toolscout-mcp" || arg == "toolscout-mcp" {
				return true
			}
		}
	}

	return false
}

// ValidateServer checks whether a server config can be registered.
func ValidateServer(name string, server *ServerConfig) error {
	if server.Command == "" {
		return fmt.Errorf("server '%s': empty command", name)
	}

	if IsSelfReference(server) {
		return fmt.Errorf("server '%s': self-reference detected (toolscout-mcp cannot register itself)", name)
	}

	return nil
}
