// Package chat orchestrates the send pipeline: prompt assembly, the
// model round trip, and durable persistence of the exchange.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/careerbot-labs/careerbot/internal/domain"
	"github.com/careerbot-labs/careerbot/internal/model"
	"github.com/careerbot-labs/careerbot/internal/prompt"
	"github.com/careerbot-labs/careerbot/internal/session"
	"github.com/careerbot-labs/careerbot/internal/store"
)

// Service wires the conversation store, the context builder, and the
// model collaborator together for one authenticated session at a time.
type Service struct {
	repo      store.Repository
	builder   *prompt.Builder
	generator model.Generator
	preamble  string
}

// NewService creates a chat service.
func NewService(repo store.Repository, builder *prompt.Builder, generator model.Generator, preamble string) *Service {
	return &Service{
		repo:      repo,
		builder:   builder,
		generator: generator,
		preamble:  preamble,
	}
}

// LoadHistory fills the session's history mirror from the store. Called
// once at login; afterwards the mirror is maintained by Send.
func (s *Service) LoadHistory(ctx context.Context, sess *session.Session) error {
	history, err := s.repo.LoadHistory(ctx, sess.AccountID)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	sess.SetHistory(history)
	return nil
}

// Send runs one chat turn for the session's account. The model call is
// the only suspension point; all store access happens before or after
// it. The exchange is persisted only once both halves exist, so a
// failed model call leaves history untouched and the user's message is
// surfaced back to the client rather than silently dropped.
func (s *Service) Send(ctx context.Context, sess *session.Session, message string) (string, error) {
	text, err := s.builder.Build(s.preamble, sess.History(), message)
	if err != nil {
		return "", err
	}

	started := time.Now()
	reply, err := s.generator.Generate(ctx, text)
	if err != nil {
		if errors.Is(err, domain.ErrModelUnavailable) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", domain.ErrModelUnavailable, err)
	}
	slog.Info("Model reply received",
		"account_id", sess.AccountID,
		"latency", time.Since(started))

	if err := s.repo.AppendExchange(ctx, sess.AccountID, message, reply); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	now := time.Now()
	sess.AppendExchange(
		domain.Message{AccountID: sess.AccountID, Role: domain.RoleUser, Text: message, CreatedAt: now},
		domain.Message{AccountID: sess.AccountID, Role: domain.RoleAssistant, Text: reply, CreatedAt: now},
	)

	return reply, nil
}
