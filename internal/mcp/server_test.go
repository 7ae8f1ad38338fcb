package mcp

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/toolscout/toolscout-mcp/internal/catalog"
	"github.com/toolscout/toolscout-mcp/internal/config"
)

func newTestServer(t *testing.T) (*Server, *catalog.SQLiteStore) {
	t.Helper()

	store := catalog.NewStoreAt(filepath.Join(t.TempDir(), "catalog.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("store init failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := store.ReplaceServerTools("fs", []catalog.Tool{
		{Name: "read_file", Description: "Read the contents of a file from disk", InputSchema: map[string]interface{}{"type": "object"}},
		{Name: "write_file", Description: "Write contents to a file on disk"},
	}); err != nil {
		t.Fatalf("seeding fs tools failed: %v", err)
	}
	if err := store.ReplaceServerTools("net", []catalog.Tool{
		{Name: "fetch_url", Description: "Fetch a URL over HTTP and return the response body"},
	}); err != nil {
		t.Fatalf("seeding net tools failed: %v", err)
	}

	cfg := config.NewConfig()
	cfg.Servers["fs"] = &config.ServerConfig{Command: "fs-server", Source: "manual"}
	cfg.Servers["net"] = &config.ServerConfig{Command: "net-server", Source: "manual"}

	return NewServer(cfg, store), store
}

func call(t *testing.T, s *Server, raw string) *MCPResponse {
	t.Helper()

	resp, err := s.handleRequest([]byte(raw))
	if err != nil {
		t.Fatalf("handleRequest failed: %v", err)
	}
	return resp
}

// callText invokes a meta-tool and returns its text content.
func callText(t *testing.T, s *Server, name string, args map[string]interface{}) string {
	t.Helper()

	params, _ := json.Marshal(map[string]interface{}{
		"name":      name,
		"arguments": args,
	})
	raw := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":` + string(params) + `}`

	resp := call(t, s, raw)
	if resp.Error != nil {
		t.Fatalf("%s returned error: %s", name, resp.Error.Message)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected result type %T", resp.Result)
	}
	content := result["content"].([]map[string]interface{})
	return content[0]["text"].(string)
}

func TestHandleInitialize(t *testing.T) {
	s, _ := newTestServer(t)

	resp := call(t, s, `{"jsonrpc":"2.0","id":1,"method":"initialize"}`)
	if resp.Error != nil {
		t.Fatalf("initialize returned error: %v", resp.Error)
	}

	result := resp.Result.(map[string]interface{})
	info := result["serverInfo"].(map[string]interface{})
	if info["name"] != "toolscout-mcp" {
		t.Errorf("serverInfo name = %v", info["name"])
	}
}

func TestInitializedNotificationHasNoResponse(t *testing.T) {
	s, _ := newTestServer(t)

	resp := call(t, s, `{"jsonrpc":"2.0","method":"notifications/initialized"}`)
	if resp != nil {
		t.Errorf("notification should not produce a response, got %+v", resp)
	}
}

func TestToolsListAdvertisesMetaTools(t *testing.T) {
	s, _ := newTestServer(t)

	resp := call(t, s, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)
	if resp.Error != nil {
		t.Fatalf("tools/list returned error: %v", resp.Error)
	}

	result := resp.Result.(map[string]interface{})
	tools := result["tools"].([]map[string]interface{})

	names := make(map[string]bool)
	for _, tool := range tools {
		names[tool["name"].(string)] = true
	}

	for _, want := range []string{"scout_search", "scout_list", "scout_discover", "scout_describe"} {
		if !names[want] {
			t.Errorf("meta-tool %s not advertised", want)
		}
	}
	if len(tools) != 4 {
		t.Errorf("expected 4 meta-tools, got %d", len(tools))
	}
}

func TestUnknownMethod(t *testing.T) {
	s, _ := newTestServer(t)

	resp := call(t, s, `{"jsonrpc":"2.0","id":3,"method":"resources/list"}`)
	if resp.Error == nil || resp.Error.Code != -32601 {
		t.Errorf("expected -32601 for unknown method, got %+v", resp.Error)
	}
}

func TestUnknownToolCall(t *testing.T) {
	s, _ := newTestServer(t)

	resp := call(t, s, `{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"scout_execute","arguments":{}}}`)
	if resp.Error == nil || resp.Error.Code != -32602 {
		t.Errorf("expected -32602 for unknown tool, got %+v", resp.Error)
	}
}

func TestScoutSearchRanksCatalog(t *testing.T) {
	s, _ := newTestServer(t)

	text := callText(t, s, "scout_search", map[string]interface{}{"query": "read file"})

	var results []map[string]interface{}
	if err := json.Unmarshal([]byte(text), &results); err != nil {
		t.Fatalf("search output is not JSON: %v\n%s", err, text)
	}
	if len(results) == 0 {
		t.Fatal("expected results for 'read file'")
	}

	top := results[0]
	if top["server"] != "fs" || top["tool"].(map[string]interface{})["name"] != "read_file" {
		t.Errorf("expected fs/read_file first, got %v", top)
	}
}

func TestScoutSearchRecordsHistory(t *testing.T) {
	s, store := newTestServer(t)

	callText(t, s, "scout_search", map[string]interface{}{"query": "read file"})

	count, err := store.SearchCount()
	if err != nil {
		t.Fatalf("SearchCount failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 recorded search, got %d", count)
	}
}

func TestScoutSearchMissingQuery(t *testing.T) {
	s, _ := newTestServer(t)

	resp := call(t, s, `{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"scout_search","arguments":{}}}`)
	if resp.Error == nil || resp.Error.Code != -32000 {
		t.Errorf("expected -32000 for missing query, got %+v", resp.Error)
	}
}

func TestScoutSearchNoMatches(t *testing.T) {
	s, _ := newTestServer(t)

	text := callText(t, s, "scout_search", map[string]interface{}{"query": "quantum teleportation"})
	if !strings.Contains(text, "No tools matched") {
		t.Errorf("expected no-match message, got %s", text)
	}
}

func TestScoutSearchLimitArgument(t *testing.T) {
	s, _ := newTestServer(t)

	text := callText(t, s, "scout_search", map[string]interface{}{
		"query": "file",
		"limit": float64(1),
	})

	var results []map[string]interface{}
	if err := json.Unmarshal([]byte(text), &results); err != nil {
		t.Fatalf("search output is not JSON: %v", err)
	}
	if len(results) > 1 {
		t.Errorf("limit=1 returned %d results", len(results))
	}
}

func TestScoutList(t *testing.T) {
	s, _ := newTestServer(t)

	text := callText(t, s, "scout_list", nil)
	if !strings.Contains(text, "fs") || !strings.Contains(text, "net") {
		t.Errorf("scout_list missing servers: %s", text)
	}
	if !strings.Contains(text, "cataloged tools: 2") {
		t.Errorf("scout_list missing tool counts: %s", text)
	}
}

func TestScoutDescribe(t *testing.T) {
	s, _ := newTestServer(t)

	text := callText(t, s, "scout_describe", map[string]interface{}{
		"server": "fs",
		"tool":   "read_file",
	})

	var tool map[string]interface{}
	if err := json.Unmarshal([]byte(text), &tool); err != nil {
		t.Fatalf("describe output is not JSON: %v", err)
	}
	if tool["name"] != "read_file" {
		t.Errorf("described wrong tool: %v", tool)
	}
	if tool["inputSchema"] == nil {
		t.Error("describe should include the input schema")
	}
}

func TestScoutDescribeUnknownTool(t *testing.T) {
	s, _ := newTestServer(t)

	resp := call(t, s, `{"jsonrpc":"2.0","id":6,"method":"tools/call","params":{"name":"scout_describe","arguments":{"server":"fs","tool":"nope"}}}`)
	if resp.Error == nil || resp.Error.Code != -32000 {
		t.Errorf("expected error for unknown tool, got %+v", resp.Error)
	}
}

func TestScoutDiscoverUnknownServer(t *testing.T) {
	s, _ := newTestServer(t)

	resp := call(t, s, `{"jsonrpc":"2.0","id":7,"method":"tools/call","params":{"name":"scout_discover","arguments":{"server":"ghost"}}}`)
	if resp.Error == nil || !strings.Contains(resp.Error.Message, "not found") {
		t.Errorf("expected not-found error, got %+v", resp.Error)
	}
}

func TestMalformedRequest(t *testing.T) {
	s, _ := newTestServer(t)

	_, err := s.handleRequest([]byte("{not json"))
	if err == nil {
		t.Error("expected error for malformed request")
	}
}
