// Package auth manages account identity and credential verification.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/careerbot-labs/careerbot/internal/domain"
	"github.com/careerbot-labs/careerbot/internal/store"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxUsernameLen = 64
	// bcrypt operates on at most 72 bytes of input.
	maxPasswordLen = 72
)

// dummyDigest is compared against when the username is unknown, so the
// unknown-user and wrong-password paths take comparable time and neither
// leaks which one happened.
var dummyDigest = func() []byte {
	d, err := bcrypt.GenerateFromPassword([]byte("careerbot-dummy"), bcrypt.DefaultCost)
	if err != nil {
		panic("auth: generate dummy digest: " + err.Error())
	}
	return d
}()

// Service implements account creation and authentication on top of the
// persistence layer. Usernames are matched exactly: no case folding or
// trimming is applied.
type Service struct {
	repo store.Repository
	cost int
}

// NewService creates an auth service using the default bcrypt cost.
func NewService(repo store.Repository) *Service {
	return &Service{repo: repo, cost: bcrypt.DefaultCost}
}

// Register creates a new account. The raw password is digested with
// bcrypt and discarded; only the digest is handed to the store.
func (s *Service) Register(ctx context.Context, username, password string) (*domain.Account, error) {
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("digest password: %w", err)
	}

	account, err := s.repo.CreateAccount(ctx, username, string(digest))
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			return nil, domain.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return account, nil
}

// Authenticate verifies a username/password pair. Both an unknown
// username and a wrong password yield domain.ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*domain.Account, error) {
	account, err := s.repo.GetAccountByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Burn a comparison anyway to keep timing uniform.
			_ = bcrypt.CompareHashAndPassword(dummyDigest, []byte(password))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordDigest), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return account, nil
}

func validateCredentials(username, password string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("%w: username is required", domain.ErrValidation)
	}
	if utf8.RuneCountInString(username) > maxUsernameLen {
		return fmt.Errorf("%w: username too long", domain.ErrValidation)
	}
	if password == "" {
		return fmt.Errorf("%w: password is required", domain.ErrValidation)
	}
	if len(password) > maxPasswordLen {
		return fmt.Errorf("%w: password too long", domain.ErrValidation)
	}
	return nil
}
