/*
Package synonyms provides the built-in query expander for the search engine.

Tool names rarely share vocabulary with the queries that look for them: a
user asking to "download a page" should still find fetch_url. The dictionary
maps common query vocabulary to the terms tool authors actually use, in both
directions where that makes sense.

Expansion is pure and deterministic. The engine discounts expansion terms
relative to literal query tokens, so a generous dictionary broadens recall
without letting synonyms outrank exact matches.
*/
package synonyms

// dictionary maps a query term to related tool-vocabulary terms. Entries are
// lowercase alphanumeric, at least three characters, matching the
// tokenizer's output domain; anything else could never match a document
// term.
var dictionary = map[string][]string{
	// Reading and fetching
	"read":     {"load", "open", "cat", "view"},
	"get":      {"read", "fetch", "retrieve", "load"},
	"fetch":    {"get", "download", "retrieve", "request"},
	"load":     {"read", "open", "import"},
	"download": {"fetch", "get", "pull"},
	"view":     {"show", "read", "display"},

	// Writing and storing
	"write":  {"save", "store", "put", "create"},
	"save":   {"write", "store", "persist"},
	"store":  {"save", "write", "put"},
	"upload": {"put", "push", "send"},
	"edit":   {"update", "modify", "change", "patch"},
	"update": {"edit", "modify", "change", "set"},

	// Creation and deletion
	"create": {"new", "add", "make", "generate"},
	"make":   {"create", "new", "build"},
	"add":    {"create", "insert", "new"},
	"delete": {"remove", "drop", "destroy", "clear"},
	"remove": {"delete", "drop", "clear"},

	// Search and listing
	"search": {"find", "query", "lookup", "grep"},
	"find":   {"search", "lookup", "locate", "query"},
	"query":  {"search", "find", "select"},
	"list":   {"show", "enumerate", "all"},
	"show":   {"list", "view", "display", "get"},

	// Files and paths
	"file":      {"path", "document", "disk"},
	"directory": {"dir", "folder", "path"},
	"folder":    {"directory", "dir", "path"},
	"path":      {"file", "directory", "location"},

	// Network and web
	"url":     {"link", "http", "web", "address"},
	"web":     {"http", "url", "page", "site"},
	"page":    {"web", "url", "site"},
	"http":    {"web", "url", "request"},
	"request": {"http", "call", "fetch"},
	"send":    {"post", "push", "publish", "mail"},
	"email":   {"mail", "message", "send"},

	// Execution
	"run":     {"execute", "start", "launch", "invoke"},
	"execute": {"run", "invoke", "call"},
	"start":   {"run", "launch", "begin"},
	"stop":    {"halt", "kill", "terminate", "end"},

	// Code and repositories
	"repo":       {"repository", "git", "project"},
	"repository": {"repo", "git", "project"},
	"commit":     {"git", "change", "revision"},
	"branch":     {"git", "ref"},
	"issue":      {"ticket", "bug", "task"},
	"ticket":     {"issue", "bug", "task"},
	"pull":       {"merge", "fetch"},

	// Data
	"database": {"sql", "table", "query"},
	"table":    {"database", "sql", "rows"},
	"record":   {"row", "entry", "item"},
	"convert":  {"transform", "translate", "format"},
	"parse":    {"read", "extract", "decode"},
	"format":   {"convert", "render", "pretty"},

	// Browser and UI
	"browser":    {"web", "chrome", "page"},
	"screenshot": {"capture", "image", "snapshot"},
	"click":      {"tap", "press", "select"},

	// Messaging
	"message": {"chat", "post", "send", "notify"},
	"notify":  {"alert", "message", "send"},
}

// Dictionary is the built-in expander. It satisfies search.Expander.
type Dictionary struct{}

// New returns the built-in dictionary expander.
func New() *Dictionary {
	return &Dictionary{}
}

// Expand returns the query tokens followed by their dictionary expansions,
// plus the set of original tokens. Duplicates in the output are intentional:
// a term reachable from two query tokens is emphasized, and the scorer
// treats each occurrence additively.
func (d *Dictionary) Expand(tokens []string) (expanded []string, original map[string]bool) {
	original = make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		original[tok] = true
	}

	expanded = make([]string, 0, len(tokens)*2)
	expanded = append(expanded, tokens...)
	for _, tok := range tokens {
		expanded = append(expanded, dictionary[tok]...)
	}

	return expanded, original
}

// Lookup returns the dictionary expansions for a single term, or nil when
// the term has none. Exposed for the CLI's explain output.
func Lookup(term string) []string {
	return dictionary[term]
}
