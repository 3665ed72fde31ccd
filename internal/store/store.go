// Package store provides a SQLite-backed history of produced invocations.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite" // register sqlite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS history (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	file     TEXT NOT NULL,
	class    TEXT NOT NULL,
	method   TEXT NOT NULL,
	command  TEXT NOT NULL,
	created  INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_history_created ON history(created);
`

// DefaultKeep is the number of entries retained when Open is given keep <= 0.
const DefaultKeep = 500

// ErrEmpty is returned by Last when nothing has been recorded.
var ErrEmpty = errors.New("history is empty")

// Entry is one recorded invocation.
type Entry struct {
	ID      int64
	File    string
	Class   string
	Method  string
	Command string
	Created time.Time
}

// History is a SQLite-backed invocation log.
type History struct {
	mu   sync.Mutex
	db   *sql.DB
	keep int
}

// Open creates or opens a history database at the given path. Only the
// newest keep entries survive a Record.
func Open(dbPath string, keep int) (*History, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	// SQLite pragmas for performance.
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

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	if keep <= 0 {
		keep = DefaultKeep
	}
	return &History{db: db, keep: keep}, nil
}

// Close closes the database.
func (h *History) Close() error {
	if h == nil {
		return nil
	}
	return h.db.Close()
}

// Record appends an entry and trims the log. No-op on nil receiver.
func (h *History) Record(e Entry) error {
	if h == nil {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if e.Created.IsZero() {
		e.Created = time.Now()
	}
	_, err := h.db.Exec(
		"INSERT INTO history (file, class, method, command, created) VALUES (?, ?, ?, ?, ?)",
		e.File, e.Class, e.Method, e.Command, e.Created.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("record history: %w", err)
	}
	h.trim()
	return nil
}

// Last returns the most recent entry.
func (h *History) Last() (Entry, error) {
	entries, err := h.Recent(1)
	if err != nil {
		return Entry{}, err
	}
	if len(entries) == 0 {
		return Entry{}, ErrEmpty
	}
	return entries[0], nil
}

// Recent returns up to limit entries, newest first. Safe to call on a nil
// receiver (returns none).
func (h *History) Recent(limit int) ([]Entry, error) {
	if h == nil {
		return nil, nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	rows, err := h.db.Query(
		"SELECT id, file, class, method, command, created FROM history ORDER BY created DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var created int64
		if err := rows.Scan(&e.ID, &e.File, &e.Class, &e.Method, &e.Command, &created); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		e.Created = time.Unix(0, created)
		out = append(out, e)
	}
	return out, rows.Err()
}

// trim removes entries beyond the retention limit.
func (h *History) trim() {
	res, err := h.db.Exec(
		"DELETE FROM history WHERE id NOT IN (SELECT id FROM history ORDER BY created DESC, id DESC LIMIT ?)",
		h.keep,
	)
	if err != nil {
		log.Warn().Err(err).Msg("failed to trim history")
		return
	}
	if n, _ := res.RowsAffected(); n > 0 {
		log.Debug().Int64("deleted", n).Msg("trimmed history")
	}
}
