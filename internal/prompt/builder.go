// Package prompt assembles bounded model prompts from conversation history.
package prompt

import (
	"strings"

	"github.com/careerbot-labs/careerbot/internal/domain"
)

// DefaultWindowPairs is how many recent exchanges are kept in a prompt.
// Windowing is pair-counted rather than token-counted: a fixed small
// window bounds request cost and stays under the provider context
// ceiling without summarization logic.
const DefaultWindowPairs = 3

// Builder turns a preamble, prior history, and a new message into the
// text sent to the model.
type Builder struct {
	windowPairs int
}

// NewBuilder creates a builder keeping the given number of recent
// exchanges; values < 1 fall back to DefaultWindowPairs.
func NewBuilder(windowPairs int) *Builder {
	if windowPairs < 1 {
		windowPairs = DefaultWindowPairs
	}
	return &Builder{windowPairs: windowPairs}
}

// Build concatenates the preamble, the most recent exchanges as
// "User:"/"Assistant:" lines, and the new message followed by an open
// "Assistant:" marker for the model to complete. Older history is
// silently truncated. An empty or whitespace-only message is rejected
// with domain.ErrEmptyMessage.
func (b *Builder) Build(preamble string, history []domain.Message, newMessage string) (string, error) {
	if strings.TrimSpace(newMessage) == "" {
		return "", domain.ErrEmptyMessage
	}

	pairs := domain.PairExchanges(history)
	if len(pairs) > b.windowPairs {
		pairs = pairs[len(pairs)-b.windowPairs:]
	}

	var sb strings.Builder
	if preamble != "" {
		sb.WriteString(preamble)
		sb.WriteString("\n")
	}
	for _, p := range pairs {
		sb.WriteString("User: ")
		sb.WriteString(p.UserText)
		sb.WriteString("\nAssistant: ")
		sb.WriteString(p.AssistantText)
		sb.WriteString("\n")
	}
	sb.WriteString("User: ")
	sb.WriteString(newMessage)
	sb.WriteString("\nAssistant:")

	return sb.String(), nil
}
