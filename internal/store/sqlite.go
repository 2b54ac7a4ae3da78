package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/careerbot-labs/careerbot/internal/domain"
	"github.com/careerbot-labs/careerbot/internal/shared"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_digest TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		account_id TEXT NOT NULL REFERENCES accounts(id),
		role TEXT NOT NULL CHECK (role IN ('user', 'assistant')),
		text TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_messages_account ON messages(account_id, id);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// CreateAccount stores a new account record with a fresh UUID.
func (s *SQLiteStore) CreateAccount(ctx context.Context, username, passwordDigest string) (*domain.Account, error) {
	account := &domain.Account{
		ID:             uuid.NewString(),
		Username:       username,
		PasswordDigest: passwordDigest,
		CreatedAt:      time.Now(),
	}

	query := `INSERT INTO accounts (id, username, password_digest, created_at) VALUES (?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		account.ID, account.Username, account.PasswordDigest, account.CreatedAt.Unix(),
	)
	if err != nil {
		if shared.IsSQLiteUniqueViolation(err) {
			return nil, domain.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}
	return account, nil
}

// GetAccountByUsername retrieves an account by exact username match.
func (s *SQLiteStore) GetAccountByUsername(ctx context.Context, username string) (*domain.Account, error) {
	query := `SELECT id, username, password_digest, created_at FROM accounts WHERE username = ?`
	row := s.db.QueryRowContext(ctx, query, username)

	var account domain.Account
	var createdAt int64
	err := row.Scan(&account.ID, &account.Username, &account.PasswordDigest, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan account row: %w", err)
	}

	account.CreatedAt = time.Unix(createdAt, 0)
	return &account, nil
}

// CountAccounts returns the total number of registered accounts.
func (s *SQLiteStore) CountAccounts(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return n, nil
}

// AppendExchange inserts the user message and the assistant reply in one
// transaction so readers never observe a partial pair. Retries on
// transient SQLite lock contention with exponential backoff.
func (s *SQLiteStore) AppendExchange(ctx context.Context, accountID, userText, assistantText string) error {
	maxRetries := 3
	baseDelay := 100 * time.Millisecond

	var err error
	for i := 0; i < maxRetries; i++ {
		err = s.appendExchangeOnce(ctx, accountID, userText, assistantText)
		if err == nil {
			return nil
		}
		if !shared.IsSQLiteConflictError(err) {
			return err
		}
		if i < maxRetries-1 {
			delay := baseDelay * time.Duration(1<<i)
			slog.Debug("AppendExchange hit lock contention, retrying",
				"account_id", accountID,
				"attempt", i+1,
				"delay", delay)
			time.Sleep(delay)
		}
	}
	return fmt.Errorf("append exchange after %d attempts: %w", maxRetries, err)
}

func (s *SQLiteStore) appendExchangeOnce(ctx context.Context, accountID, userText, assistantText string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			slog.Warn("failed to roll back exchange transaction", "error", rbErr)
		}
	}()

	now := time.Now().Unix()
	query := `INSERT INTO messages (account_id, role, text, created_at) VALUES (?, ?, ?, ?)`

	if _, err := tx.ExecContext(ctx, query, accountID, domain.RoleUser, userText, now); err != nil {
		return fmt.Errorf("insert user message: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, accountID, domain.RoleAssistant, assistantText, now); err != nil {
		return fmt.Errorf("insert assistant message: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit exchange: %w", err)
	}
	return nil
}

// LoadHistory returns all messages for the account ordered by row id.
// Ordering by id, not timestamp, avoids clock-skew ties between the two
// halves of a pair.
func (s *SQLiteStore) LoadHistory(ctx context.Context, accountID string) ([]domain.Message, error) {
	query := `
		SELECT id, account_id, role, text, created_at
		FROM messages WHERE account_id = ? ORDER BY id ASC`

	rows, err := s.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close history rows", "error", closeErr)
		}
	}()

	history := []domain.Message{}
	for rows.Next() {
		var msg domain.Message
		var createdAt int64
		if err := rows.Scan(&msg.ID, &msg.AccountID, &msg.Role, &msg.Text, &createdAt); err != nil {
			return nil, fmt.Errorf("scan message row: %w", err)
		}
		msg.CreatedAt = time.Unix(createdAt, 0)
		history = append(history, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}

	return history, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
