package catalog

import "time"

// Store is the persistence interface for the tool catalog.
//
// Implementations degrade gracefully: when the backing database is
// unavailable the analytics operations become no-ops and the read
// operations return empty data, so search over an in-memory catalog keeps
// working.
type Store interface {
	// Init opens the database and runs migrations.
	Init() error

	// ReplaceServerTools replaces all persisted tools for a server with
	// the given list, in one transaction.
	ReplaceServerTools(server string, tools []Tool) error

	// Entries returns the full catalog, ordered by server then tool name.
	Entries() ([]Entry, error)

	// ServerTools returns the persisted tools of one server.
	ServerTools(server string) ([]Tool, error)

	// RemoveServer deletes a server's tools from the catalog.
	RemoveServer(server string) error

	// RecordSearch stores a search analytics record. Queries are hashed
	// before they reach the store; the raw text is never persisted.
	RecordSearch(rec SearchRecord) error

	// Cleanup removes analytics records older than the retention window.
	Cleanup(retention time.Duration) error

	// Close closes the database connection.
	Close() error
}

// SearchRecord is one search invocation, kept for analytics only. There is
// no feedback loop from history into ranking.
type SearchRecord struct {
	// SearchID is a unique identifier for this search (UUID).
	SearchID string `json:"search_id"`

	// QueryHash is the SHA256 hash of the query text.
	QueryHash string `json:"query_hash"`

	// Timestamp is when the search ran.
	Timestamp time.Time `json:"timestamp"`

	// ResultsCount is the number of results returned.
	ResultsCount int `json:"results_count"`
}
