package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/toolscout/toolscout-mcp/internal/config"
)

// NewAddCmd creates the 'add' command for registering MCP servers.
//
// Supports two modes:
// 1. Interactive: paste MCP config JSON, auto-detect format, preview, confirm
// 2. Flags: specify --command, --arg, --env directly
func NewAddCmd() *cobra.Command {
	var (
		command   string
		args      []string
		envVars   []string
		jsonInput string
		noConfirm bool
	)

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add MCP server(s) - paste config JSON or use flags",
		Long: `Add MCP server configuration(s) to toolscout-mcp.

INTERACTIVE MODE:
  Paste any valid MCP configuration JSON. Supports formats from:
  Claude Code (mcpServers), OpenCode (mcp), or a single server object.

  The tool auto-detects the format, shows what will be added, and asks
  for confirmation before saving.

FLAG MODE:
  Specify server details directly with flags.`,
		Example: `  # Interactive mode - paste JSON when prompted
  toolscout-mcp add

  # Paste JSON directly
  toolscout-mcp add --json '{"jira": {"command": "npx", "args": ["-y", "@acme/jira-mcp"]}}'

  # Flag mode
  toolscout-mcp add jira --command "npx" --arg "-y" --arg "@acme/jira-mcp"`,
		RunE: func(cmd *cobra.Command, positionalArgs []string) error {
			if jsonInput != "" || (len(positionalArgs) == 0 && command == "") {
				return runAddInteractive(jsonInput, noConfirm)
			}

			if len(positionalArgs) == 0 {
				return fmt.Errorf("server name required when using flag mode")
			}
			return runAddWithFlags(positionalArgs[0], command, args, envVars)
		},
	}

	cmd.Flags().StringVarP(&command, "command", "c", "", "Command to run the MCP server")
	cmd.Flags().StringArrayVarP(&args, "arg", "a", nil, "Arguments for the command")
	cmd.Flags().StringArrayVarP(&envVars, "env", "e", nil, "Environment variables (KEY=VALUE)")
	cmd.Flags().StringVarP(&jsonInput, "json", "j", "", "MCP config JSON (auto-detect format)")
	cmd.Flags().BoolVarP(&noConfirm, "yes", "y", false, "Skip confirmation prompt")

	return cmd
}

// runAddInteractive handles JSON input mode with preview and confirmation.
func runAddInteractive(jsonInput string, noConfirm bool) error {
	var input string

	if jsonInput != "" {
		input = jsonInput
	} else {
		fmt.Println("Paste your MCP configuration JSON (press Enter twice when done):")
		fmt.Println()

		input = readMultilineInput()
		if strings.TrimSpace(input) == "" {
			return fmt.Errorf("no input provided")
		}
	}

	servers, format, err := parseAnyMCPConfig(input)
	if err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if len(servers) == 0 {
		return fmt.Errorf("no valid MCP servers found in input")
	}

	fmt.Println()
	fmt.Printf("Detected format: %s\n", format)
	fmt.Printf("Found %d server(s):\n\n", len(servers))

	for name, server := range servers {
		camelName := config.ToCamelCase(name)
		fmt.Printf("  %s", camelName)
		if camelName != name {
			fmt.Printf(" (from '%s')", name)
		}
		fmt.Println()
		fmt.Printf("    Command: %s %v\n", server.Command, server.Args)
		if len(server.Env) > 0 {
			fmt.Printf("    Env:     %d variable(s)\n", len(server.Env))
		}
		fmt.Println()
	}

	if !noConfirm {
		fmt.Print("Add these servers? [Y/n] ")
		reader := bufio.NewReader(os.Stdin)
		response, _ := reader.ReadString('\n')
		response = strings.TrimSpace(strings.ToLower(response))

		if response != "" && response != "y" && response != "yes" {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	cfg, err := config.Load()
	if err != nil {
		cfg = config.NewConfig()
	}

	for name, server := range servers {
		camelName := config.ToCamelCase(name)
		server.Source = "manual"
		if err := config.ValidateServer(camelName, server); err != nil {
			fmt.Printf("Skipping %s: %v\n", camelName, err)
			continue
		}
		cfg.Servers[camelName] = server
	}

	configPath, err := config.GetDefaultConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("\nAdded %d server(s) to %s\n", len(servers), configPath)
	fmt.Println("Run 'toolscout-mcp discover' to index their tools.")
	return nil
}

// parseAnyMCPConfig parses various MCP config formats.
// Returns the servers map, detected format name, and error.
func parseAnyMCPConfig(input string) (map[string]*config.ServerConfig, string, error) {
	input = strings.TrimSpace(input)

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(input), &raw); err != nil {
		return nil, "", fmt.Errorf("invalid JSON: %w", err)
	}

	wrapperKeys := []string{
		"mcpServers", "mcp_servers", "MCPServers",
		"mcp", "MCP",
		"servers", "Servers",
		"context_servers", // Zed format
	}

	for _, key := range wrapperKeys {
		if wrapped, ok := raw[key]; ok {
			if serversMap, ok := wrapped.(map[string]interface{}); ok {
				servers := parseServersMap(serversMap)
				if len(servers) > 0 {
					return servers, fmt.Sprintf("Wrapped (%s)", key), nil
				}
			}
		}
	}

	servers := parseServersMap(raw)
	if len(servers) > 0 {
		return servers, "Direct server map", nil
	}

	if server := parseSingleServer(raw); server != nil {
		return map[string]*config.ServerConfig{"server": server}, "Single server object", nil
	}

	return nil, "", fmt.Errorf("could not find valid MCP server configuration")
}

// parseServersMap parses a map of server name to server config.
func parseServersMap(raw map[string]interface{}) map[string]*config.ServerConfig {
	result := make(map[string]*config.ServerConfig)

	for name, val := range raw {
		if serverMap, ok := val.(map[string]interface{}); ok {
			if server := parseSingleServer(serverMap); server != nil {
				result[name] = server
			}
		}
	}

	return result
}

// parseSingleServer parses one server config, tolerating common key
// variations across client config formats.
func parseSingleServer(raw map[string]interface{}) *config.ServerConfig {
	command := findStringKey(raw,
		"command", "cmd", "exec", "executable", "run", "bin", "binary",
		"Command", "Cmd")
	if command == "" {
		return nil
	}

	args := findStringArrayKey(raw,
		"args", "arguments", "argv", "params", "parameters",
		"Args", "Arguments")

	env := findStringMapKey(raw,
		"env", "environment", "envVars", "env_vars",
		"Env", "Environment")

	return &config.ServerConfig{
		Command: command,
		Args:    args,
		Env:     config.NormalizeEnvVars(env),
	}
}

func findStringKey(m map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if val, ok := m[key]; ok {
			if s, ok := val.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

func findStringArrayKey(m map[string]interface{}, keys ...string) []string {
	for _, key := range keys {
		if val, ok := m[key]; ok {
			if arr, ok := val.([]interface{}); ok {
				result := make([]string, 0, len(arr))
				for _, item := range arr {
					if s, ok := item.(string); ok {
						result = append(result, s)
					}
				}
				if len(result) > 0 {
					return result
				}
			}
		}
	}
	return nil
}

func findStringMapKey(m map[string]interface{}, keys ...string) map[string]string {
	for _, key := range keys {
		if val, ok := m[key]; ok {
			if obj, ok := val.(map[string]interface{}); ok {
				result := make(map[string]string)
				for k, v := range obj {
					if s, ok := v.(string); ok {
						result[k] = s
					}
				}
				if len(result) > 0 {
					return result
				}
			}
		}
	}
	return nil
}

// readMultilineInput reads stdin until a blank line.
func readMultilineInput() string {
	reader := bufio.NewReader(os.Stdin)
	var lines []string

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			break
		}

		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

// runAddWithFlags handles the flag-based mode.
func runAddWithFlags(name, command string, args, envVars []string) error {
	if command == "" {
		return fmt.Errorf("--command is required")
	}

	cfg, err := config.Load()
	if err != nil {
		cfg = config.NewConfig()
	}

	env := make(map[string]string)
	for _, e := range envVars {
		key, value := parseEnvVar(e)
		if key != "" {
			env[key] = value
		}
	}

	server := &config.ServerConfig{
		Command: command,
		Args:    args,
		Env:     env,
		Source:  "manual",
	}

	camelName := config.ToCamelCase(name)
	if err := config.ValidateServer(camelName, server); err != nil {
		return err
	}
	cfg.Servers[camelName] = server

	configPath, err := config.GetDefaultConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("Added server '%s' to %s\n", camelName, configPath)
	return nil
}

// parseEnvVar splits "KEY=VALUE" into key and value.
func parseEnvVar(s string) (string, string) {
	for i, c := range s {
		if c == '=' {
			return s[:i], s[i+1:]
		}
	}
	return s, ""
}
