package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS history (
	login TEXT PRIMARY KEY,
	entries TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
`

// SQLiteStore persists each login's sequence as one JSON document.
//
// One row per login matches the Save contract exactly: a whole-sequence
// replace is a single upsert, so readers never observe a partial write.
// The *sql.DB is owned by the caller.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates the schema if needed and returns the store.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("history: nil db")
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		return nil, fmt.Errorf("history: create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Load returns the persisted sequence for login, empty if none.
func (s *SQLiteStore) Load(ctx context.Context, login string) ([][]int, error) {
	const op = "history.Load"

	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT entries FROM history WHERE login = ?`, login,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var entries [][]int
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}
	return entries, nil
}

// Save replaces the full persisted sequence for login.
func (s *SQLiteStore) Save(ctx context.Context, login string, entries [][]int) error {
	const op = "history.Save"

	if entries == nil {
		entries = [][]int{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("%s: encode: %w", op, err)
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO history (login, entries, updated_at)
VALUES (?, ?, ?)
ON CONFLICT(login) DO UPDATE SET entries = excluded.entries, updated_at = excluded.updated_at`,
		login, string(raw), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteAll removes the persisted sequence for login.
func (s *SQLiteStore) DeleteAll(ctx context.Context, login string) error {
	const op = "history.DeleteAll"

	res, err := s.db.ExecContext(ctx, `DELETE FROM history WHERE login = ?`, login)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
