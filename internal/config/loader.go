package config

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
)

// LoadFrom reads the configuration from a specific path with descriptive
// error values for the common failure cases.
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, &ConfigNotFoundError{
				Path: path,
				Hint: "Run 'toolscout-mcp add' to register an MCP server",
			}
		}
		return nil, fmt.Errorf("failed to access config: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, &PermissionError{
				Path:    path,
				Op:      "read",
				Fix:     readPermissionFix(path),
				Details: permissionDetails(path),
			}
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &InvalidConfigError{
			Path:    path,
			Message: fmt.Sprintf("JSON parse error: %v", err),
			Hint:    "Restore from the .bak file if available",
		}
	}

	if cfg.Servers == nil {
		cfg.Servers = make(map[string]*ServerConfig)
	}

	return &cfg, nil
}

// readPermissionFix returns a platform-specific fix command.
func readPermissionFix(path string) string {
	if runtime.GOOS == "windows" {
		return fmt.Sprintf("Right-click %s and grant read permission under Properties > Security", path)
	}
	return fmt.Sprintf("Run: chmod 644 %s", path)
}

// permissionDetails reports current file permissions where applicable.
func permissionDetails(path string) string {
	if runtime.GOOS == "windows" {
		return ""
	}

	info, err := os.Stat(path)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("Current permissions: %04o", info.Mode().Perm())
}
