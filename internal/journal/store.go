// Package journal records tab lifecycle changes in SQLite.
//
// The journal is a diagnostic log: what was created, updated, switched to
// and deleted, and when. It is never read back to restore tabs. DBService is
// the storage layer; Writer batches entries off the UI goroutine.
package journal

import (
	"database/sql"
	"embed"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Mr-Dark-debug/tabkeep/pkg/jsonutil"
)

//go:embed schema.sql
var schemaFS embed.FS

// Store defines journal persistence.
type Store interface {
	// Append persists one entry and sets its ID.
	Append(e *Entry) error
	// BatchAppend persists entries in a single transaction.
	BatchAppend(entries []*Entry) error
	// Query returns entries matching filter, newest first.
	Query(filter Filter) ([]*Entry, error)
	// Stats aggregates the whole journal.
	Stats() (*Stats, error)
	// Close shuts down the database connection.
	Close() error
}

// Entry is one recorded lifecycle change.
type Entry struct {
	ID        int64  `json:"id" yaml:"id"`
	Timestamp int64  `json:"timestamp" yaml:"timestamp"` // Unix nanoseconds
	Op        string `json:"op" yaml:"op"`
	TabKey    string `json:"tab_key" yaml:"tab_key"`
	ActiveKey string `json:"active_key" yaml:"active_key"`
	Detail    string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// Fields decodes Detail. Empty or malformed details yield an empty map.
func (e *Entry) Fields() map[string]any {
	return jsonutil.SafeUnmarshal(e.Detail)
}

// Filter defines query parameters for entry listing. Zero fields match all.
type Filter struct {
	TabKey string `json:"tab_key,omitempty"`
	Op     string `json:"op,omitempty"`
	Since  int64  `json:"since,omitempty"` // Unix nanoseconds
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

// Stats holds aggregate counts over the journal.
type Stats struct {
	Entries int            `json:"entries" yaml:"entries"`
	Tabs    int            `json:"tabs" yaml:"tabs"`
	ByOp    map[string]int `json:"by_op" yaml:"by_op"`
	First   int64          `json:"first,omitempty" yaml:"first,omitempty"`
	Last    int64          `json:"last,omitempty" yaml:"last,omitempty"`
}

// DBService implements Store using SQLite.
type DBService struct {
	db   *sql.DB
	mu   sync.RWMutex
	path string

	stmtAppend *sql.Stmt
}

// NewDBService opens the journal at path, creating the schema if needed.
// Use ":memory:" for an in-memory journal.
func NewDBService(path string) (*DBService, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", path)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening journal at %s: %w", path, err)
	}

	// One connection: SQLite has a single writer, and ":memory:" databases
	// are per-connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	svc := &DBService{db: db, path: path}

	if err := svc.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	svc.stmtAppend, err = db.Prepare(`
		INSERT INTO entries (timestamp, op, tab_key, active_key, detail)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("preparing Append: %w", err)
	}

	return svc, nil
}

// Path returns the database location.
func (s *DBService) Path() string { return s.path }

func (s *DBService) initSchema() error {
	schema, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("reading embedded schema: %w", err)
	}
	if _, err := s.db.Exec(string(schema)); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}
	return nil
}

// Append persists one entry.
func (s *DBService) Append(e *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.stmtAppend.Exec(e.Timestamp, e.Op, e.TabKey, e.ActiveKey, nullable(e.Detail))
	if err != nil {
		return fmt.Errorf("appending %s entry for %s: %w", e.Op, e.TabKey, err)
	}
	e.ID, _ = res.LastInsertId()
	return nil
}

// BatchAppend persists entries within a single transaction.
func (s *DBService) BatchAppend(entries []*Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning batch transaction: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	stmt := tx.Stmt(s.stmtAppend)
	for _, e := range entries {
		res, err := stmt.Exec(e.Timestamp, e.Op, e.TabKey, e.ActiveKey, nullable(e.Detail))
		if err != nil {
			return fmt.Errorf("batch appending %s entry for %s: %w", e.Op, e.TabKey, err)
		}
		e.ID, _ = res.LastInsertId()
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing batch transaction: %w", err)
	}
	return nil
}

// Query returns entries matching filter, ordered by timestamp descending.
func (s *DBService) Query(filter Filter) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT entry_id, timestamp, op, tab_key, active_key, COALESCE(detail, '') FROM entries WHERE 1=1`
	args := make([]any, 0, 5)

	if filter.TabKey != "" {
		query += " AND tab_key = ?"
		args = append(args, filter.TabKey)
	}
	if filter.Op != "" {
		query += " AND op = ?"
		args = append(args, filter.Op)
	}
	if filter.Since > 0 {
		query += " AND timestamp >= ?"
		args = append(args, filter.Since)
	}

	query += " ORDER BY timestamp DESC, entry_id DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e := &Entry{}
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Op, &e.TabKey, &e.ActiveKey, &e.Detail); err != nil {
			return nil, fmt.Errorf("scanning entry row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Stats aggregates the whole journal.
func (s *DBService) Stats() (*Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &Stats{ByOp: make(map[string]int)}

	err := s.db.QueryRow(`
		SELECT
			COUNT(*),
			COUNT(DISTINCT tab_key),
			COALESCE(MIN(timestamp), 0),
			COALESCE(MAX(timestamp), 0)
		FROM entries
	`).Scan(&stats.Entries, &stats.Tabs, &stats.First, &stats.Last)
	if err != nil {
		return nil, fmt.Errorf("querying journal stats: %w", err)
	}

	rows, err := s.db.Query(`SELECT op, COUNT(*) FROM entries GROUP BY op`)
	if err != nil {
		return nil, fmt.Errorf("counting entries by op: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var op string
		var n int
		if err := rows.Scan(&op, &n); err != nil {
			return nil, fmt.Errorf("scanning op count: %w", err)
		}
		stats.ByOp[op] = n
	}
	return stats, rows.Err()
}

// Close closes the prepared statement and the connection.
func (s *DBService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stmtAppend != nil {
		s.stmtAppend.Close()
	}
	return s.db.Close()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
