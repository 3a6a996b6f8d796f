package auth

import (
	"context"
	"errors"
	"testing"

	"sorthub/cmd/identity"
	"sorthub/cmd/security/password"
)

// Cheap Argon2id settings so the suite stays fast; the policy is the
// production one.
func testConfig() password.Config {
	cfg := password.DefaultConfig()
	cfg.Params.MemoryKiB = 64
	cfg.Params.Iterations = 1
	cfg.Params.Parallelism = 1
	return cfg
}

func newTestService() (*Service, *identity.MemoryStore) {
	store := identity.NewMemoryStore()
	return NewService(store, testConfig()), store
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	u, err := svc.Register(ctx, "alice", "Abcdefghi1", "user")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Login != "alice" || u.ID == 0 {
		t.Fatalf("unexpected user record: %+v", u)
	}
	if u.Token == nil || *u.Token == "" {
		t.Fatal("registration must issue a token")
	}
	if u.PasswordHash == "Abcdefghi1" {
		t.Fatal("password stored in plaintext")
	}

	if _, err := svc.Register(ctx, "alice", "Abcdefghi1", "user"); !identity.IsConflict(err) {
		t.Fatalf("duplicate login: expected conflict, got %v", err)
	}
}

func TestRegister_EmptyLogin(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.Register(context.Background(), "   ", "Abcdefghi1", "user"); !identity.IsInvalidInput(err) {
		t.Fatalf("expected invalid-input, got %v", err)
	}
}

func TestRegister_PasswordPolicy(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	cases := []struct {
		pwd  string
		want error
	}{
		{pwd: "Ab1", want: password.ErrPasswordTooShort},
		{pwd: "ABCDEFGHI1", want: password.ErrNoLowercase},
		{pwd: "abcdefghi1", want: password.ErrNoUppercase},
		{pwd: "Abcdefghij", want: password.ErrNoDigit},
	}
	for _, tc := range cases {
		if _, err := svc.Register(ctx, "alice", tc.pwd, "user"); !errors.Is(err, tc.want) {
			t.Fatalf("Register(%q): expected %v, got %v", tc.pwd, tc.want, err)
		}
	}
}

func TestLogin_ReturnsStoredToken(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	u, err := svc.Register(ctx, "alice", "Abcdefghi1", "user")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	tok, err := svc.Login(ctx, "alice", "Abcdefghi1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if tok != *u.Token {
		t.Fatalf("login reissued an active token: %q != %q", tok, *u.Token)
	}
}

func TestLogin_Unauthorized(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	if _, err := svc.Register(ctx, "alice", "Abcdefghi1", "user"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := svc.Login(ctx, "alice", "wrong-Passw0rd"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("bad password: expected ErrUnauthorized, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody", "Abcdefghi1"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("unknown login: expected ErrUnauthorized, got %v", err)
	}
}

func TestLogoutThenLogin_IssuesFreshToken(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService()

	u, err := svc.Register(ctx, "alice", "Abcdefghi1", "user")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	first := *u.Token

	if err := svc.Logout(ctx, "alice"); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	got, err := store.FindByLogin(ctx, "alice")
	if err != nil {
		t.Fatalf("FindByLogin: %v", err)
	}
	if got.Token != nil {
		t.Fatalf("logout left token %q", *got.Token)
	}

	second, err := svc.Login(ctx, "alice", "Abcdefghi1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if second == "" || second == first {
		t.Fatalf("login after logout must issue a fresh token, got %q", second)
	}
}

func TestLogout_UnknownLogin(t *testing.T) {
	svc, _ := newTestService()

	if err := svc.Logout(context.Background(), "nobody"); !identity.IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	u, err := svc.Register(ctx, "alice", "Abcdefghi1", "user")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	newTok, err := svc.ChangePassword(ctx, "alice", "Abcdefghi1", "Zyxwvutsr9")
	if err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if newTok == "" || newTok == *u.Token {
		t.Fatalf("password change must reissue the token, got %q", newTok)
	}

	// Old credentials are dead, new ones work.
	if _, err := svc.Login(ctx, "alice", "Abcdefghi1"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("old password still accepted: %v", err)
	}
	tok, err := svc.Login(ctx, "alice", "Zyxwvutsr9")
	if err != nil {
		t.Fatalf("Login with new password: %v", err)
	}
	if tok != newTok {
		t.Fatalf("login returned %q, want the reissued token %q", tok, newTok)
	}
}

func TestChangePassword_Unauthorized(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	if _, err := svc.Register(ctx, "alice", "Abcdefghi1", "user"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := svc.ChangePassword(ctx, "alice", "wrong-Passw0rd", "Zyxwvutsr9"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("bad old password: expected ErrUnauthorized, got %v", err)
	}
	if _, err := svc.ChangePassword(ctx, "nobody", "Abcdefghi1", "Zyxwvutsr9"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("unknown login: expected ErrUnauthorized, got %v", err)
	}
}

func TestChangePassword_PolicyAppliesToNewPassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	if _, err := svc.Register(ctx, "alice", "Abcdefghi1", "user"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := svc.ChangePassword(ctx, "alice", "Abcdefghi1", "weak"); !errors.Is(err, password.ErrPasswordTooShort) {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}

	// A rejected change leaves the old credentials intact.
	if _, err := svc.Login(ctx, "alice", "Abcdefghi1"); err != nil {
		t.Fatalf("old credentials broken after rejected change: %v", err)
	}
}
