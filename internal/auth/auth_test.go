package auth

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/careerbot-labs/careerbot/internal/domain"
	"github.com/careerbot-labs/careerbot/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	repo, err := store.NewSQLite(filepath.Join(t.TempDir(), "careerbot.db"))
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return NewService(repo)
}

func TestRegisterThenAuthenticate(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, "alice", "pw123")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	got, err := svc.Authenticate(ctx, "alice", "pw123")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("expected account %q, got %q", created.ID, got.ID)
	}
}

func TestRegisterNeverStoresRawPassword(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	account, err := svc.Register(ctx, "alice", "pw123")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if strings.Contains(account.PasswordDigest, "pw123") {
		t.Error("password digest contains the raw password")
	}
	if !strings.HasPrefix(account.PasswordDigest, "$2") {
		t.Errorf("expected a bcrypt digest, got %q", account.PasswordDigest)
	}
}

func TestAuthenticateWrongPassword(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "pw123"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, err := svc.Authenticate(ctx, "alice", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticateUnknownUserIsIndistinguishable(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "pw123"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, unknownErr := svc.Authenticate(ctx, "bob", "whatever")
	_, wrongErr := svc.Authenticate(ctx, "alice", "wrong")

	if !errors.Is(unknownErr, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", unknownErr)
	}
	if unknownErr.Error() != wrongErr.Error() {
		t.Errorf("unknown-user error %q differs from wrong-password error %q", unknownErr, wrongErr)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "pw123"); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}

	_, err := svc.Register(ctx, "alice", "other")
	if !errors.Is(err, domain.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"empty username", "", "pw123"},
		{"whitespace username", "   ", "pw123"},
		{"empty password", "alice", ""},
		{"oversized password", "alice", strings.Repeat("x", 73)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.username, tc.password)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}
