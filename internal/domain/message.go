package domain

import (
	"time"
)

// Role identifies who authored a message record.
type Role string

const (
	// RoleUser marks a message written by the account owner.
	RoleUser Role = "user"
	// RoleAssistant marks a reply generated by the model.
	RoleAssistant Role = "assistant"
)

// Valid reports whether the role is one of the two known values.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message is one persisted record of a conversation. Records are created
// in user/assistant pairs and ordered by ID (server-assigned, monotonic
// per account), never by wall clock.
type Message struct {
	ID        int64     `json:"id"`
	AccountID string    `json:"-"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Exchange is one user message with its assistant reply.
type Exchange struct {
	UserText      string
	AssistantText string
}

// PairExchanges folds an ordered record slice into exchanges. The store
// only ever persists complete pairs, so a trailing unpaired record means
// corrupted history and is dropped rather than misattributed.
func PairExchanges(history []Message) []Exchange {
	pairs := make([]Exchange, 0, len(history)/2)
	for i := 0; i+1 < len(history); i += 2 {
		if history[i].Role != RoleUser || history[i+1].Role != RoleAssistant {
			continue
		}
		pairs = append(pairs, Exchange{
			UserText:      history[i].Text,
			AssistantText: history[i+1].Text,
		})
	}
	return pairs
}
