package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"sorthub/cmd/security/token"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY,
	login TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL,
	token TEXT,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_users_login ON users(login);
`

// SQLiteStore persists user records in SQLite.
//
// Login uniqueness is enforced here, not by a UNIQUE constraint, so the
// check-then-insert runs inside one transaction. The *sql.DB is owned by
// the caller; this store must not close it.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates the schema if needed and returns the store.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("identity: nil db")
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		return nil, fmt.Errorf("identity: create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Create stores a new user record, assigning id and initial token.
func (s *SQLiteStore) Create(ctx context.Context, in CreateUserInput) (User, error) {
	const op = "identity.Create"

	login := strings.TrimSpace(in.Login)
	if login == "" {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "empty login"}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return User{}, fmt.Errorf("%s: begin: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	var n int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM users WHERE login = ?`, login,
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
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(1) FROM users WHERE id = ?`, id,
		).Scan(&taken); err != nil {
			return User{}, fmt.Errorf("%s: %w", op, err)
		}
		if taken == 0 {
			break
		}
		id++
	}

	tok := token.Issue(id, now)
	if _, err := tx.ExecContext(ctx, `
INSERT INTO users (id, login, password_hash, role, token, created_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		id, login, in.PasswordHash, in.Role, tok, now.Format(time.RFC3339Nano),
	); err != nil {
		return User{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
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
func (s *SQLiteStore) FindByLogin(ctx context.Context, login string) (User, error) {
	const op = "identity.FindByLogin"

	login = strings.TrimSpace(login)
	row := s.db.QueryRowContext(ctx, `
SELECT id, login, password_hash, role, token, created_at
FROM users
WHERE login = ?`, login)

	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, NotFoundError{Op: op, Login: login}
		}
		return User{}, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// Update replaces the stored record for u.Login.
func (s *SQLiteStore) Update(ctx context.Context, u User) error {
	const op = "identity.Update"

	var tok any
	if u.Token != nil {
		tok = *u.Token
	}

	res, err := s.db.ExecContext(ctx, `
UPDATE users
SET id = ?, password_hash = ?, role = ?, token = ?, created_at = ?
WHERE login = ?`,
		u.ID, u.PasswordHash, u.Role, tok, u.CreatedAt.UTC().Format(time.RFC3339Nano), u.Login,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return NotFoundError{Op: op, Login: u.Login}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (User, error) {
	var (
		u         User
		tok       sql.NullString
		createdAt string
	)
	if err := row.Scan(&u.ID, &u.Login, &u.PasswordHash, &u.Role, &tok, &createdAt); err != nil {
		return User{}, err
	}
	if tok.Valid {
		v := tok.String
		u.Token = &v
	}
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return User{}, fmt.Errorf("parse created_at: %w", err)
	}
	u.CreatedAt = ts
	return u, nil
}
