// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"github.com/careerbot-labs/careerbot/internal/domain"
)

// Repository defines the interface for persisting accounts and
// conversation history.
type Repository interface {
	// CreateAccount stores a new account with a pre-computed password
	// digest. Returns domain.ErrDuplicateUsername if the username is
	// already registered.
	CreateAccount(ctx context.Context, username, passwordDigest string) (*domain.Account, error)

	// GetAccountByUsername retrieves an account by exact username match.
	// Returns domain.ErrNotFound if no such account exists.
	GetAccountByUsername(ctx context.Context, username string) (*domain.Account, error)

	// CountAccounts returns the total number of registered accounts.
	CountAccounts(ctx context.Context) (int64, error)

	// AppendExchange appends one user message and its assistant reply
	// for the account in a single transaction. A concurrent reader
	// never observes a partial pair.
	AppendExchange(ctx context.Context, accountID, userText, assistantText string) error

	// LoadHistory returns all message records for the account in
	// creation order (by row id). A never-chatted account yields an
	// empty slice.
	LoadHistory(ctx context.Context, accountID string) ([]domain.Message, error)

	// Ping verifies database connectivity and returns an error if the
	// database is unreachable.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
