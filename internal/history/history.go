// Package history keeps a journal of switch attempts in a SQLite database
// (~/.orchester/history.db).
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/orchester-labs/orchester/internal/tools"
)

// Entry is one recorded switch attempt. From and To are empty for vanilla.
type Entry struct {
	ID           string     `json:"id"`
	From         string     `json:"from"`
	To           string     `json:"to"`
	Tools        []tools.ID `json:"tools"`
	Success      bool       `json:"success"`
	LinksCreated int        `json:"linksCreated"`
	LinksRemoved int        `json:"linksRemoved"`
	Error        string     `json:"error,omitempty"`
	SwitchedAt   time.Time  `json:"switchedAt"`
}

// Store is an open journal.
type Store struct {
	db *sql.DB
}

const schema = `CREATE TABLE IF NOT EXISTS switches (
	id            TEXT PRIMARY KEY,
	from_profile  TEXT NOT NULL DEFAULT '',
	to_profile    TEXT NOT NULL DEFAULT '',
	tools         TEXT NOT NULL DEFAULT '',
	success       INTEGER NOT NULL,
	links_created INTEGER NOT NULL DEFAULT 0,
	links_removed INTEGER NOT NULL DEFAULT 0,
	error         TEXT NOT NULL DEFAULT '',
	switched_at   TEXT NOT NULL
)`

// timeLayout is fixed width so switched_at sorts correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const indexSwitchedAt = `CREATE INDEX IF NOT EXISTS idx_switches_switched_at ON switches(switched_at)`

// Open creates or opens the journal at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("history: create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{"PRAGMA busy_timeout = 5000", schema, indexSwitchedAt} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("history: apply schema: %w", err)
		}
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Record appends e, assigning an ID and timestamp when missing.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.SwitchedAt.IsZero() {
		e.SwitchedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO switches (id, from_profile, to_profile, tools, success, links_created, links_removed, error, switched_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.From, e.To, strings.Join(tools.Strings(e.Tools), ","), boolToInt(e.Success),
		e.LinksCreated, e.LinksRemoved, e.Error, e.SwitchedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("history: insert: %w", err)
	}
	return nil
}

// List returns up to limit entries, newest first. A limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, from_profile, to_profile, tools, success, links_created, links_removed, error, switched_at
		FROM switches ORDER BY switched_at DESC, rowid DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("history: query: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e          Entry
			toolList   string
			success    int
			switchedAt string
		)
		if err := rows.Scan(&e.ID, &e.From, &e.To, &toolList, &success,
			&e.LinksCreated, &e.LinksRemoved, &e.Error, &switchedAt); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		e.Success = success != 0
		if toolList != "" {
			e.Tools = tools.NormalizeAll(strings.Split(toolList, ","))
		}
		if t, err := time.Parse(time.RFC3339Nano, switchedAt); err == nil {
			e.SwitchedAt = t
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterate: %w", err)
	}
	return entries, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
