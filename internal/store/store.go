// Package store provides SQLite-backed persistence for the last editing
// session and the history of tried patterns.
package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite" // register sqlite driver
)

// HistoryTTL is how long a remembered pattern survives without being reused.
const HistoryTTL = 30 * 24 * time.Hour

const schema = `
CREATE TABLE IF NOT EXISTS session (
	id       INTEGER PRIMARY KEY CHECK (id = 1),
	pattern  TEXT NOT NULL,
	text     TEXT NOT NULL,
	engine   TEXT NOT NULL DEFAULT '',
	updated  INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS history (
	pattern  TEXT PRIMARY KEY,
	used     INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_history_used ON history(used);
`

// Store is the SQLite database behind session restore and pattern history.
// All methods are safe on a nil receiver, which behaves as an empty store
// that discards writes.
type Store struct {
	mu  sync.Mutex
	db  *sql.DB
	ttl time.Duration
}

// Open creates or opens a store at the given path. History entries older
// than ttl are purged on open.
func Open(dbPath string, ttl time.Duration) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store db: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %q: %w", pragma, err)
		}
	}

	// Older databases lack the engine column; the session row is
	// disposable, so recreate the table.
	if tableExists(db, "session") && !hasColumn(db, "session", "engine") {
		db.Exec("DROP TABLE session") //nolint:errcheck // best-effort migration
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	s := &Store{db: db, ttl: ttl}
	s.purgeStale()
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}

// Remember records pattern as used now. Empty patterns are ignored.
func (s *Store) Remember(pattern string) {
	if s == nil || pattern == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO history (pattern, used) VALUES (?, ?)",
		pattern, time.Now().UnixNano(),
	)
	if err != nil {
		log.Warn().Err(err).Str("pattern", pattern).Msg("failed to remember pattern")
	}
}

// Recent returns up to limit remembered patterns, most recently used first.
func (s *Store) Recent(limit int) []string {
	if s == nil || limit <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		"SELECT pattern FROM history ORDER BY used DESC, rowid DESC LIMIT ?", limit,
	)
	if err != nil {
		log.Warn().Err(err).Msg("failed to read pattern history")
		return nil
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			continue
		}
		out = append(out, p)
	}
	return out
}

// purgeStale removes history entries older than the TTL.
func (s *Store) purgeStale() {
	cutoff := time.Now().Add(-s.ttl).UnixNano()
	res, err := s.db.Exec("DELETE FROM history WHERE used <= ?", cutoff)
	if err != nil {
		log.Warn().Err(err).Msg("failed to purge stale history")
		return
	}
	if n, _ := res.RowsAffected(); n > 0 {
		log.Info().Int64("deleted", n).Msg("purged stale history entries")
	}
}

func tableExists(db *sql.DB, table string) bool {
	var name string
	err := db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table,
	).Scan(&name)
	return err == nil
}

// hasColumn checks if a table has a specific column.
func hasColumn(db *sql.DB, table, column string) bool {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table)) //nolint:gosec // table name is hardcoded by caller
	if err != nil {
		return false
	}
	defer rows.Close()
	for rows.Next() {
		var cid int
		var name, typ string
		var notNull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			continue
		}
		if name == column {
			return true
		}
	}
	return false
}
