package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS history (
	login TEXT PRIMARY KEY,
	entries JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
`

// PostgresStore persists each login's sequence as one JSONB document.
// The pgx pool is owned by the caller; this store must NOT close it.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates the schema if needed and returns the store.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("history: nil pool")
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("history: create schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Load returns the persisted sequence for login, empty if none.
func (s *PostgresStore) Load(ctx context.Context, login string) ([][]int, error) {
	const op = "history.Load"

	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT entries FROM history WHERE login = $1`, login,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var entries [][]int
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}
	return entries, nil
}

// Save replaces the full persisted sequence for login.
func (s *PostgresStore) Save(ctx context.Context, login string, entries [][]int) error {
	const op = "history.Save"

	if entries == nil {
		entries = [][]int{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("%s: encode: %w", op, err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO history (login, entries, updated_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (login) DO UPDATE SET entries = EXCLUDED.entries, updated_at = EXCLUDED.updated_at`,
		login, raw, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteAll removes the persisted sequence for login.
func (s *PostgresStore) DeleteAll(ctx context.Context, login string) error {
	const op = "history.DeleteAll"

	tag, err := s.pool.Exec(ctx, `DELETE FROM history WHERE login = $1`, login)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
