/*
Package catalog defines the tool catalog data model and its persistence.

A catalog is the set of tools known across all registered MCP servers. Each
tool belongs to exactly one server and is addressed by the canonical
"server/name" identifier. The catalog is persisted in SQLite
(~/.toolscout-mcp/catalog.db) and refreshed via the discover command.
*/
package catalog

import (
	"fmt"
	"strings"
)

// Tool is a tool descriptor as reported by an MCP server.
type Tool struct {
	// Name is the tool name as exposed by its server.
	Name string `json:"name"`

	// Description is free-text documentation of what the tool does.
	// May be empty.
	Description string `json:"description,omitempty"`

	// InputSchema is the tool's JSON schema, stored for display but never
	// consulted by the ranking engine.
	InputSchema interface{} `json:"inputSchema,omitempty"`
}

// Entry pairs a tool with the server it belongs to. This is the unit the
// search engine ranks.
type Entry struct {
	Server string `json:"server"`
	Tool   Tool   `json:"tool"`
}

// ID returns the canonical "server/name" identifier for this entry.
func (e Entry) ID() string {
	return e.Server + "/" + e.Tool.Name
}

// Validate rejects malformed entries at the boundary, before any of the
// entry's text reaches the tokenizer.
func (e Entry) Validate() error {
	if strings.TrimSpace(e.Server) == "" {
		return fmt.Errorf("catalog entry %q: empty server identifier", e.Tool.Name)
	}
	if strings.TrimSpace(e.Tool.Name) == "" {
		return fmt.Errorf("catalog entry for server %q: empty tool name", e.Server)
	}
	return nil
}
