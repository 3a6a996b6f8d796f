package identity

import (
	"context"
	"strings"
	"sync"

	"sorthub/cmd/security/token"
)

// MemoryStore keeps user records in a map. It backs tests and the
// no-database dev mode; the mutex makes it safe for concurrent handlers.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]User
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]User)}
}

// Create stores a new user record. The store is authoritative for login
// uniqueness: every record is checked, no external cache.
func (s *MemoryStore) Create(ctx context.Context, in CreateUserInput) (User, error) {
	const op = "identity.Create"

	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	login := strings.TrimSpace(in.Login)
	if login == "" {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "empty login"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for existing := range s.users {
		if existing == login {
			return User{}, ConflictError{Op: op, Login: login}
		}
	}

	now := normalizeNow(in.Now)
	id := now.Unix()
	for s.idTakenLocked(id) {
		id++
	}

	tok := token.Issue(id, now)
	u := User{
		ID:           id,
		Login:        login,
		PasswordHash: in.PasswordHash,
		Role:         in.Role,
		Token:        &tok,
		CreatedAt:    now,
	}
	s.users[login] = u
	return u, nil
}

// FindByLogin returns the record for login or a NotFoundError.
func (s *MemoryStore) FindByLogin(ctx context.Context, login string) (User, error) {
	const op = "identity.FindByLogin"

	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[strings.TrimSpace(login)]
	if !ok {
		return User{}, NotFoundError{Op: op, Login: login}
	}
	return u, nil
}

// Update replaces the stored record for u.Login.
func (s *MemoryStore) Update(ctx context.Context, u User) error {
	const op = "identity.Update"

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.Login]; !ok {
		return NotFoundError{Op: op, Login: u.Login}
	}
	s.users[u.Login] = u
	return nil
}

func (s *MemoryStore) idTakenLocked(id int64) bool {
	for _, u := range s.users {
		if u.ID == id {
			return true
		}
	}
	return false
}
