// Package auth orchestrates registration, login, logout, and password
// change over the credential store.
//
// Per-login state machine: Anonymous -> Registered -> LoggedIn ->
// LoggedOut -> LoggedIn -> ... A registered user always exists afterwards;
// only the password hash and the token field ever change.
package auth

import (
	"context"
	"strings"
	"time"

	"sorthub/cmd/identity"
	"sorthub/cmd/internal/locks"
	"sorthub/cmd/security/password"
	"sorthub/cmd/security/token"
)

// Service implements the authentication flows.
type Service struct {
	users identity.Store
	pw    password.Config
	locks *locks.Keyed

	// Dummy hash for timing-resistant login checks against unknown logins.
	dummyHash string
}

// NewService constructs a Service over the given credential store.
func NewService(users identity.Store, pw password.Config) *Service {
	s := &Service{
		users: users,
		pw:    pw,
		locks: locks.NewKeyed(),
	}
	if hash, err := pw.Hash("dummy-password-for-timing-only"); err == nil {
		s.dummyHash = hash
	}
	return s
}

// Register creates a new user and returns the stored record, token
// included. Checks run in a fixed order: login presence, password policy,
// login uniqueness.
func (s *Service) Register(ctx context.Context, login, pwd, role string) (identity.User, error) {
	const op = "auth.Register"

	login = strings.TrimSpace(login)
	if login == "" {
		return identity.User{}, identity.OpError{Op: op, Kind: identity.ErrInvalidInput, Msg: "empty login"}
	}
	if err := s.pw.Validate(pwd); err != nil {
		return identity.User{}, err
	}

	hash, err := s.pw.Hash(pwd)
	if err != nil {
		return identity.User{}, err
	}

	unlock := s.locks.Lock(login)
	defer unlock()

	return s.users.Create(ctx, identity.CreateUserInput{
		Login:        login,
		PasswordHash: hash,
		Role:         role,
		Now:          time.Now().UTC(),
	})
}

// Login verifies credentials and returns the user's current token.
//
// An active token is returned as-is, never reissued. A token cleared by
// logout is replaced with a fresh one, restoring the token-while-logged-in
// invariant.
func (s *Service) Login(ctx context.Context, login, pwd string) (string, error) {
	unlock := s.locks.Lock(login)
	defer unlock()

	u, err := s.users.FindByLogin(ctx, login)
	if err != nil {
		if identity.IsNotFound(err) {
			// Timing resistance: verify against a dummy hash so unknown
			// logins cost the same as bad passwords.
			if s.dummyHash != "" {
				_, _ = s.pw.Verify(s.dummyHash, pwd)
			}
			return "", ErrUnauthorized
		}
		return "", err
	}

	ok, err := s.pw.Verify(u.PasswordHash, pwd)
	if err != nil || !ok {
		return "", ErrUnauthorized
	}

	if u.Token == nil {
		tok := token.Issue(u.ID, time.Now().UTC())
		u.Token = &tok
		if err := s.users.Update(ctx, u); err != nil {
			return "", err
		}
	}
	return *u.Token, nil
}

// Logout clears the user's token.
func (s *Service) Logout(ctx context.Context, login string) error {
	unlock := s.locks.Lock(login)
	defer unlock()

	u, err := s.users.FindByLogin(ctx, login)
	if err != nil {
		return err
	}

	u.Token = nil
	return s.users.Update(ctx, u)
}

// ChangePassword verifies the old password, applies policy to the new one,
// stores the new hash, and reissues the token.
func (s *Service) ChangePassword(ctx context.Context, login, oldPwd, newPwd string) (string, error) {
	unlock := s.locks.Lock(login)
	defer unlock()

	u, err := s.users.FindByLogin(ctx, login)
	if err != nil {
		if identity.IsNotFound(err) {
			if s.dummyHash != "" {
				_, _ = s.pw.Verify(s.dummyHash, oldPwd)
			}
			return "", ErrUnauthorized
		}
		return "", err
	}

	ok, err := s.pw.Verify(u.PasswordHash, oldPwd)
	if err != nil || !ok {
		return "", ErrUnauthorized
	}

	if err := s.pw.Validate(newPwd); err != nil {
		return "", err
	}

	hash, err := s.pw.Hash(newPwd)
	if err != nil {
		return "", err
	}

	tok := token.Issue(u.ID, time.Now().UTC())
	u.PasswordHash = hash
	u.Token = &tok
	if err := s.users.Update(ctx, u); err != nil {
		return "", err
	}
	return tok, nil
}
