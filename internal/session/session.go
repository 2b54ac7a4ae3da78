// Package session provides per-connection session contexts for
// authenticated browser sessions.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/careerbot-labs/careerbot/internal/domain"
)

// Session is the transient per-connection context created at login and
// destroyed at logout or expiry. It carries the authenticated account,
// an in-memory mirror of that account's history, and the chat-panel
// visibility toggle. Nothing here is persisted; the mirror is rebuilt
// from the store on the next login.
type Session struct {
	Token     string
	AccountID string
	Username  string

	mu         sync.Mutex
	history    []domain.Message
	chatOpen   bool
	lastSeenAt time.Time
}

// History returns a copy of the in-memory history mirror.
func (s *Session) History() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Message, len(s.history))
	copy(out, s.history)
	return out
}

// SetHistory replaces the history mirror (used once, at login).
func (s *Session) SetHistory(history []domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append([]domain.Message(nil), history...)
}

// AppendExchange mirrors a freshly persisted pair into the session.
func (s *Session) AppendExchange(userMsg, assistantMsg domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, userMsg, assistantMsg)
}

// ToggleChat flips chat-panel visibility and returns the new state.
func (s *Session) ToggleChat() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chatOpen = !s.chatOpen
	return s.chatOpen
}

// ChatOpen reports whether the chat panel is currently open.
func (s *Session) ChatOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chatOpen
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeenAt = now
}

func (s *Session) lastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeenAt
}

// Manager owns the set of live sessions, keyed by opaque token.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
}

// NewManager creates a session manager. Sessions idle longer than ttl
// are removed by the janitor.
func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

// Create opens a new session for an authenticated account and returns
// it with a fresh random token.
func (m *Manager) Create(account *domain.Account) (*Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	sess := &Session{
		Token:      token,
		AccountID:  account.ID,
		Username:   account.Username,
		lastSeenAt: time.Now(),
	}

	m.mu.Lock()
	m.sessions[token] = sess
	m.mu.Unlock()
	return sess, nil
}

// Get resolves a token to a live session, refreshing its idle timer.
// Returns nil for unknown or expired tokens.
func (m *Manager) Get(token string) *Session {
	m.mu.RLock()
	sess := m.sessions[token]
	m.mu.RUnlock()

	if sess == nil {
		return nil
	}
	sess.touch(time.Now())
	return sess
}

// Destroy removes a session. Safe to call with an unknown token.
func (m *Manager) Destroy(token string) {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// ExpireIdle removes sessions idle longer than the configured TTL and
// returns how many were dropped.
func (m *Manager) ExpireIdle(now time.Time) int {
	cutoff := now.Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()
	dropped := 0
	for token, sess := range m.sessions {
		if sess.lastSeen().Before(cutoff) {
			delete(m.sessions, token)
			dropped++
		}
	}
	return dropped
}

// StartJanitor launches a background loop that expires idle sessions
// until ctx is cancelled.
func (m *Manager) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if n := m.ExpireIdle(now); n > 0 {
					slog.Info("Expired idle sessions", "count", n)
				}
			}
		}
	}()
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
