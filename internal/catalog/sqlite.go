package catalog

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite (pure Go, no CGo).
type SQLiteStore struct {
	db       *sql.DB
	dbPath   string
	enabled  bool
	mu       sync.Mutex
	initOnce sync.Once
}

// NewStore creates a store backed by ~/.toolscout-mcp/catalog.db. If the
// home directory cannot be resolved the store is created disabled and every
// operation becomes a no-op.
func NewStore() *SQLiteStore {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Printf("Warning: failed to get home directory: %v", err)
		return &SQLiteStore{enabled: false}
	}

	return NewStoreAt(filepath.Join(home, ".toolscout-mcp", "catalog.db"))
}

// NewStoreAt creates a store backed by the given database path.
func NewStoreAt(dbPath string) *SQLiteStore {
	return &SQLiteStore{
		dbPath:  dbPath,
		enabled: true,
	}
}

// Init opens the database and runs migrations. On failure the store is
// disabled and subsequent operations become no-ops rather than errors.
func (s *SQLiteStore) Init() error {
	if !s.enabled {
		return nil
	}

	var initErr error
	s.initOnce.Do(func() {
		dbDir := filepath.Dir(s.dbPath)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			initErr = fmt.Errorf("failed to create db directory: %w", err)
			s.enabled = false
			return
		}

		db, err := sql.Open("sqlite", s.dbPath)
		if err != nil {
			initErr = fmt.Errorf("failed to open database: %w", err)
			s.enabled = false
			log.Printf("Warning: %v", initErr)
			return
		}
		s.db = db

		if err := db.Ping(); err != nil {
			initErr = fmt.Errorf("failed to ping database: %w", err)
			s.enabled = false
			log.Printf("Warning: %v", initErr)
			return
		}

		if err := s.runMigrations(); err != nil {
			initErr = fmt.Errorf("failed to run migrations: %w", err)
			s.enabled = false
			log.Printf("Warning: %v", initErr)
			return
		}
	})

	return initErr
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	s.db = nil
	return nil
}

// ReplaceServerTools replaces all persisted tools for a server.
func (s *SQLiteStore) ReplaceServerTools(server string, tools []Tool) error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM tools WHERE server = ?", server); err != nil {
		return fmt.Errorf("failed to clear tools for %s: %w", server, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO tools (server, name, description, input_schema, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, tool := range tools {
		schema, err := marshalSchema(tool.InputSchema)
		if err != nil {
			log.Printf("Warning: dropping schema for %s/%s: %v", server, tool.Name, err)
			schema = ""
		}
		if _, err := stmt.Exec(server, tool.Name, tool.Description, schema, now); err != nil {
			return fmt.Errorf("failed to insert tool %s/%s: %w", server, tool.Name, err)
		}
	}

	return tx.Commit()
}

// Entries returns the full catalog, ordered by server then tool name.
func (s *SQLiteStore) Entries() ([]Entry, error) {
	if !s.enabled || s.db == nil {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT server, name, description, input_schema
		FROM tools
		ORDER BY server, name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var server string
		var tool Tool
		var schema string
		if err := rows.Scan(&server, &tool.Name, &tool.Description, &schema); err != nil {
			return nil, fmt.Errorf("failed to scan catalog row: %w", err)
		}
		tool.InputSchema = unmarshalSchema(schema)
		entries = append(entries, Entry{Server: server, Tool: tool})
	}

	return entries, rows.Err()
}

// ServerTools returns the persisted tools of one server.
func (s *SQLiteStore) ServerTools(server string) ([]Tool, error) {
	if !s.enabled || s.db == nil {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT name, description, input_schema
		FROM tools
		WHERE server = ?
		ORDER BY name
	`, server)
	if err != nil {
		return nil, fmt.Errorf("failed to query tools for %s: %w", server, err)
	}
	defer rows.Close()

	var tools []Tool
	for rows.Next() {
		var tool Tool
		var schema string
		if err := rows.Scan(&tool.Name, &tool.Description, &schema); err != nil {
			return nil, fmt.Errorf("failed to scan tool row: %w", err)
		}
		tool.InputSchema = unmarshalSchema(schema)
		tools = append(tools, tool)
	}

	return tools, rows.Err()
}

// RemoveServer deletes a server's tools from the catalog.
func (s *SQLiteStore) RemoveServer(server string) error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM tools WHERE server = ?", server); err != nil {
		return fmt.Errorf("failed to remove tools for %s: %w", server, err)
	}
	return nil
}

// RecordSearch stores a search analytics record. Failures are logged, not
// returned, so analytics can never break a search.
func (s *SQLiteStore) RecordSearch(rec SearchRecord) error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO search_history (search_id, query_hash, timestamp, results_count)
		VALUES (?, ?, ?, ?)
	`,
		rec.SearchID,
		rec.QueryHash,
		rec.Timestamp.Format(time.RFC3339),
		rec.ResultsCount,
	)
	if err != nil {
		log.Printf("Warning: failed to record search: %v", err)
	}
	return nil
}

// SearchCount returns the number of recorded searches.
func (s *SQLiteStore) SearchCount() (int, error) {
	if !s.enabled || s.db == nil {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var count int
	row := s.db.QueryRow("SELECT COUNT(*) FROM search_history")
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count search history: %w", err)
	}
	return count, nil
}

// Cleanup removes analytics records older than the retention window.
func (s *SQLiteStore) Cleanup(retention time.Duration) error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-retention).Format(time.RFC3339)

	if _, err := s.db.Exec("DELETE FROM search_history WHERE timestamp < ?", cutoff); err != nil {
		log.Printf("Warning: failed to cleanup search_history: %v", err)
	}
	if _, err := s.db.Exec("VACUUM"); err != nil {
		log.Printf("Warning: failed to vacuum database: %v", err)
	}
	return nil
}

// HashQuery returns the SHA256 hash of a query string. Only the hash is
// persisted in search_history.
func HashQuery(query string) string {
	hash := sha256.Sum256([]byte(query))
	return hex.EncodeToString(hash[:])
}

func marshalSchema(schema interface{}) (string, error) {
	if schema == nil {
		return "", nil
	}
	data, err := json.Marshal(schema)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func unmarshalSchema(data string) interface{} {
	if data == "" {
		return nil
	}
	var schema interface{}
	if err := json.Unmarshal([]byte(data), &schema); err != nil {
		return nil
	}
	return schema
}
