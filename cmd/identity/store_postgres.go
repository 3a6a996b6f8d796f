package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sorthub/cmd/security/token"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS users (
	id BIGINT PRIMARY KEY,
	login TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL,
	token TEXT,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_users_login ON users(login);
`

// PostgresStore implements user persistence over PostgreSQL.
//
// The pgx pool is owned by the caller; this store must NOT close it.
// Login uniqueness is an application-level check, so Create runs its
// check-then-insert inside a transaction.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates the schema if needed and returns the store.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("identity: nil pool")
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("identity: create schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Create stores a new user record, assigning id and initial token.
func (s *PostgresStore) Create(ctx context.Context, in CreateUserInput) (User, error) {
	const op = "identity.Create"

	login := strings.TrimSpace(in.Login)
	if login == "" {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "empty login"}
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return User{}, fmt.Errorf("%s: begin: %w", op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var n int
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(1) FROM users WHERE login = $1`, login,
	).Scan(&n); err != nil {
		return User{}, fmt.Errorf("%s: %w", op, err)
	}
	if n > 0 {
		return User{}, ConflictError{Op: op, Login: login}
	}

	now := normalizeNow(in.Now)
	id := now.Unix()
	for {
		var taken int
		if err := tx.QueryRow(ctx,
			`SELECT COUNT(1) FROM users WHERE id = $1`, id,
		).Scan(&taken); err != nil {
			return User{}, fmt.Errorf("%s: %w", op, err)
		}
		if taken == 0 {
			break
		}
		id++
	}

	tok := token.Issue(id, now)
	if _, err := tx.Exec(ctx,
		`INSERT INTO users (id, login, password_hash, role, token, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		id, login, in.PasswordHash, in.Role, tok, now,
	); err != nil {
		return User{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return User{}, fmt.Errorf("%s: commit: %w", op, err)
	}

	return User{
		ID:           id,
		Login:        login,
		PasswordHash: in.PasswordHash,
		Role:         in.Role,
		Token:        &tok,
		CreatedAt:    now,
	}, nil
}

// FindByLogin returns the record for login or a NotFoundError.
func (s *PostgresStore) FindByLogin(ctx context.Context, login string) (User, error) {
	const op = "identity.FindByLogin"

	login = strings.TrimSpace(login)

	var (
		u   User
		tok *string
		ts  time.Time
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, login, password_hash, role, token, created_at
		 FROM users WHERE login = $1`, login,
	).Scan(&u.ID, &u.Login, &u.PasswordHash, &u.Role, &tok, &ts)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, NotFoundError{Op: op, Login: login}
		}
		return User{}, fmt.Errorf("%s: %w", op, err)
	}
	u.Token = tok
	u.CreatedAt = ts.UTC()
	return u, nil
}

// Update replaces the stored record for u.Login.
func (s *PostgresStore) Update(ctx context.Context, u User) error {
	const op = "identity.Update"

	tag, err := s.pool.Exec(ctx,
		`UPDATE users
		 SET id = $1, password_hash = $2, role = $3, token = $4, created_at = $5
		 WHERE login = $6`,
		u.ID, u.PasswordHash, u.Role, u.Token, u.CreatedAt.UTC(), u.Login,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return NotFoundError{Op: op, Login: u.Login}
	}
	return nil
}
