package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/pinboard/pkg/types"
)

// SQLiteFileName is the database file written by the SQLite driver.
const SQLiteFileName = "pinboard.db"

const snapshotSchema = `CREATE TABLE IF NOT EXISTS snapshot (
	key     TEXT PRIMARY KEY,
	payload TEXT NOT NULL
)`

// Snapshot row keys, one per persisted collection.
const (
	keyClients    = "clients"
	keyCards      = "cards"
	keyDailyNotes = "dailyNotes"
)

// SQLite persists each snapshot collection as one JSON payload row.
type SQLite struct {
	mu sync.Mutex
	db *sql.DB
}

var _ Cache = (*SQLite)(nil)

// OpenSQLite opens (or creates) the database in dataDir and ensures the
// snapshot table exists.
func OpenSQLite(dataDir string) (*SQLite, error) {
	db, err := sql.Open("sqlite", filepath.Join(dataDir, SQLiteFileName))
	if err != nil {
		return nil, fmt.Errorf("opening sqlite cache: %w", err)
	}
	if _, err := db.Exec(snapshotSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating snapshot table: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Load reads every collection row. Missing rows leave that collection nil.
func (s *SQLite) Load() (types.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var snap types.Snapshot
	if s.db == nil {
		return snap, sql.ErrConnDone
	}

	rows, err := s.db.Query("SELECT key, payload FROM snapshot")
	if err != nil {
		return snap, fmt.Errorf("selecting snapshot: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, payload string
		if err := rows.Scan(&key, &payload); err != nil {
			return types.Snapshot{}, fmt.Errorf("scanning snapshot row: %w", err)
		}
		var target any
		switch key {
		case keyClients:
			target = &snap.Clients
		case keyCards:
			target = &snap.Cards
		case keyDailyNotes:
			target = &snap.DailyNotes
		default:
			continue
		}
		if err := json.Unmarshal([]byte(payload), target); err != nil {
			return types.Snapshot{}, fmt.Errorf("parsing snapshot %s: %w", key, err)
		}
	}
	if err := rows.Err(); err != nil {
		return types.Snapshot{}, fmt.Errorf("iterating snapshot: %w", err)
	}
	return snap, nil
}

// Save writes all collections in one transaction.
func (s *SQLite) Save(snap types.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return sql.ErrConnDone
	}

	payloads := []struct {
		key   string
		value any
	}{
		{keyClients, snap.Clients},
		{keyCards, snap.Cards},
		{keyDailyNotes, snap.DailyNotes},
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning snapshot transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT INTO snapshot (key, payload) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET payload = excluded.payload")
	if err != nil {
		return fmt.Errorf("preparing snapshot upsert: %w", err)
	}
	defer stmt.Close()

	for _, p := range payloads {
		data, err := json.Marshal(p.value)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", p.key, err)
		}
		if _, err := stmt.Exec(p.key, string(data)); err != nil {
			return fmt.Errorf("writing %s: %w", p.key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}
	return nil
}

// Close closes the database. Idempotent.
func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
