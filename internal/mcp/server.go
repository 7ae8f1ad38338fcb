/*
Package mcp implements the MCP server that exposes the scout meta-tools.

The server uses stdio transport and exposes 4 meta-tools:
  - scout_search: Rank cataloged tools against a natural-language query
  - scout_list: List all registered MCP servers
  - scout_discover: Refresh the catalog from a specific server
  - scout_describe: Show the full schema for a cataloged tool
*/
package mcp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/toolscout/toolscout-mcp/internal/catalog"
	"github.com/toolscout/toolscout-mcp/internal/config"
	"github.com/toolscout/toolscout-mcp/internal/search"
	"github.com/toolscout/toolscout-mcp/internal/spawner"
	"github.com/toolscout/toolscout-mcp/internal/synonyms"
)

// Server is the toolscout-mcp MCP server.
type Server struct {
	config   *config.Config
	store    catalog.Store
	pool     *spawner.Pool
	expander search.Expander
}

// NewServer creates an MCP server over the given config and catalog store.
func NewServer(cfg *config.Config, store catalog.Store) *Server {
	timeout := time.Duration(config.DefaultTimeoutSeconds) * time.Second
	if cfg.Settings != nil && cfg.Settings.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.Settings.TimeoutSeconds) * time.Second
	}

	return &Server{
		config:   cfg,
		store:    store,
		pool:     spawner.NewPool(timeout),
		expander: synonyms.New(),
	}
}

// Close terminates spawned child processes. Safe to call more than once.
func (s *Server) Close() error {
	return s.pool.Close()
}

// Run starts the server on stdio and blocks until stdin closes.
func (s *Server) Run() error {
	scanner := bufio.NewScanner(os.Stdin)
	// Some clients send large tools/call payloads on one line.
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()

		response, err := s.handleRequest(line)
		if err != nil {
			s.sendError(err)
			continue
		}

		if response != nil {
			s.sendResponse(response)
		}
	}

	return scanner.Err()
}

// MCPRequest is an incoming JSON-RPC request.
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse is an outgoing JSON-RPC response.
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError is a JSON-RPC error object.
type MCPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// handleRequest dispatches one incoming request.
func (s *Server) handleRequest(data []byte) (*MCPResponse, error) {
	var req MCPRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("invalid JSON-RPC request: %w", err)
	}

	switch req.Method {
	case "initialize":
		return s.handleInitialize(&req)
	case "notifications/initialized":
		// Notification, no response.
		return nil, nil
	case "tools/list":
		return s.handleToolsList(&req)
	case "tools/call":
		return s.handleToolsCall(&req)
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &MCPError{Code: -32601, Message: "Method not found"},
		}, nil
	}
}

func (s *Server) handleInitialize(req *MCPRequest) (*MCPResponse, error) {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "toolscout-mcp",
				"version": "0.1.0",
			},
		},
	}, nil
}

// handleToolsList advertises the scout meta-tools.
func (s *Server) handleToolsList(req *MCPRequest) (*MCPResponse, error) {
	tools := []map[string]interface{}{
		{
			"name": "scout_search",
			"description": `Find the most relevant tools across ALL registered MCP servers using a natural-language query.

WHEN TO USE: When you need a capability but don't know which server or tool provides it.

Results are ranked by lexical relevance against each tool's name and description. Related vocabulary is matched automatically ("fetch" also finds "download" tools).

Example queries: "read file contents", "create jira issue", "take browser screenshot"`,
			"inputSchema": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"query": map[string]interface{}{
						"type":        "string",
						"description": "Natural language description of what you want to do",
					},
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": fmt.Sprintf("Maximum number of results (default %d)", search.DefaultLimit),
					},
					"threshold": map[string]interface{}{
						"type":        "number",
						"description": fmt.Sprintf("Minimum relevance score (default %g)", search.DefaultThreshold),
					},
					"synonyms": map[string]interface{}{
						"type":        "boolean",
						"description": "Expand the query with related vocabulary (default true)",
					},
				},
				"required": []string{"query"},
			},
		},
		{
			"name": "scout_list",
			"description": `List all registered MCP servers and how many tools each contributes to the catalog.

WHEN TO USE: Call this first to see what integrations are available.`,
			"inputSchema": map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			"name": "scout_discover",
			"description": fmt.Sprintf(`Spawn a registered MCP server, fetch its tool list, and refresh the catalog with it.

WHEN TO USE: When scout_search returns stale or missing results for a server you know is registered.

AVAILABLE SERVERS: %s`, s.serverNames()),
			"inputSchema": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"server": map[string]interface{}{
						"type":        "string",
						"description": "Server name from the registered servers list",
						"enum":        s.serverNamesList(),
					},
				},
				"required": []string{"server"},
			},
		},
		{
			"name": "scout_describe",
			"description": `Get the full input schema for a cataloged tool.

WHEN TO USE: After scout_search identifies a tool, use this to see its parameters before calling it on its own server.`,
			"inputSchema": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"server": map[string]interface{}{
						"type":        "string",
						"description": "Server name",
						"enum":        s.serverNamesList(),
					},
					"tool": map[string]interface{}{
						"type":        "string",
						"description": "Tool name",
					},
				},
				"required": []string{"server", "tool"},
			},
		},
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": tools,
		},
	}, nil
}

// handleToolsCall dispatches a meta-tool invocation.
func (s *Server) handleToolsCall(req *MCPRequest) (*MCPResponse, error) {
	var params struct {
		Name      string                 `json:"name"`
		Arguments map[string]interface{} `json:"arguments"`
	}

	if err := json.Unmarshal(req.Params, &params); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	var result string
	var err error

	switch params.Name {
	case "scout_search":
		result, err = s.execSearch(params.Arguments)
	case "scout_list":
		result, err = s.execList()
	case "scout_discover":
		serverName, _ := params.Arguments["server"].(string)
		result, err = s.execDiscover(serverName)
	case "scout_describe":
		serverName, _ := params.Arguments["server"].(string)
		toolName, _ := params.Arguments["tool"].(string)
		result, err = s.execDescribe(serverName, toolName)
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &MCPError{Code: -32602, Message: fmt.Sprintf("Unknown tool: %s", params.Name)},
		}, nil
	}

	if err != nil {
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &MCPError{Code: -32000, Message: err.Error()},
		}, nil
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": result,
				},
			},
		},
	}, nil
}

// searchOptions builds engine options from config defaults and per-call args.
func (s *Server) searchOptions(args map[string]interface{}) search.Options {
	opts := search.Options{
		Threshold:   s.config.Threshold(),
		Limit:       s.config.Limit(),
		UseSynonyms: s.config.SynonymsEnabled(),
		Expander:    s.expander,
	}

	if v, ok := args["threshold"].(float64); ok {
		opts.Threshold = v
	}
	if v, ok := args["limit"].(float64); ok {
		opts.Limit = int(v)
	}
	if v, ok := args["synonyms"].(bool); ok {
		opts.UseSynonyms = v
	}

	return opts
}

// execSearch ranks the catalog against the query and records the search.
func (s *Server) execSearch(args map[string]interface{}) (string, error) {
	query, _ := args["query"].(string)
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("missing required argument: query")
	}

	entries, err := s.store.Entries()
	if err != nil {
		return "", fmt.Errorf("failed to load catalog: %w", err)
	}
	if len(entries) == 0 {
		return "Catalog is empty. Run 'toolscout-mcp discover' or call scout_discover to index your servers.", nil
	}

	results, err := search.Search(query, entries, s.searchOptions(args))
	if err != nil {
		return "", err
	}

	// History is best-effort; only the query hash is stored.
	rec := catalog.SearchRecord{
		SearchID:     uuid.NewString(),
		QueryHash:    catalog.HashQuery(query),
		Timestamp:    time.Now().UTC(),
		ResultsCount: len(results),
	}
	if err := s.store.RecordSearch(rec); err != nil {
		log.Printf("Warning: failed to record search: %v", err)
	}

	if len(results) == 0 {
		return fmt.Sprintf("No tools matched '%s'. Try broader wording or scout_list to browse servers.", query), nil
	}

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// execList summarizes registered servers and their catalog contributions.
func (s *Server) execList() (string, error) {
	if len(s.config.Servers) == 0 {
		return "No servers registered. Run 'toolscout-mcp add' to register an MCP server.", nil
	}

	counts := make(map[string]int)
	if entries, err := s.store.Entries(); err == nil {
		for _, e := range entries {
			counts[e.Server]++
		}
	}

	names := make([]string, 0, len(s.config.Servers))
	for name := range s.config.Servers {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintf(&b, "Registered MCP Servers (%d):\n", len(names))
	for _, name := range names {
		srv := s.config.Servers[name]
		fmt.Fprintf(&b, "  - %s (source: %s, cataloged tools: %d)\n", name, srv.Source, counts[name])
	}
	return b.String(), nil
}

// execDiscover spawns a server and refreshes its catalog entries.
func (s *Server) execDiscover(serverName string) (string, error) {
	server, exists := s.config.Servers[serverName]
	if !exists {
		return "", fmt.Errorf("server '%s' not found", serverName)
	}

	tools, err := s.pool.GetTools(serverName, server)
	if err != nil {
		return "", fmt.Errorf("failed to discover tools: %w", err)
	}

	if err := s.store.ReplaceServerTools(serverName, tools); err != nil {
		log.Printf("Warning: failed to persist tools for %s: %v", serverName, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Discovered %d tools from '%s':\n", len(tools), serverName)
	for _, tool := range tools {
		fmt.Fprintf(&b, "  - %s: %s\n", tool.Name, tool.Description)
	}
	return b.String(), nil
}

// execDescribe returns the cataloged schema for one tool.
func (s *Server) execDescribe(serverName, toolName string) (string, error) {
	tools, err := s.store.ServerTools(serverName)
	if err != nil {
		return "", fmt.Errorf("failed to load catalog: %w", err)
	}

	for _, tool := range tools {
		if tool.Name == toolName {
			data, err := json.MarshalIndent(tool, "", "  ")
			if err != nil {
				return "", err
			}
			return string(data), nil
		}
	}

	return "", fmt.Errorf("tool '%s' not found on server '%s' (try scout_discover first)", toolName, serverName)
}

// serverNames returns a comma-separated sorted list of server names.
func (s *Server) serverNames() string {
	return strings.Join(s.serverNamesList(), ", ")
}

// serverNamesList returns sorted server names for schema enums.
func (s *Server) serverNamesList() []string {
	names := make([]string, 0, len(s.config.Servers))
	for name := range s.config.Servers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// sendResponse writes a JSON-RPC response to stdout.
func (s *Server) sendResponse(resp *MCPResponse) {
	data, _ := json.Marshal(resp)
	fmt.Println(string(data))
}

// sendError writes a parse-error response to stdout.
func (s *Server) sendError(err error) {
	s.sendResponse(&MCPResponse{
		JSONRPC: "2.0",
		ID:      nil,
		Error:   &MCPError{Code: -32700, Message: err.Error()},
	})
}
