// Package model wraps the hosted language-model collaborator.
package model

import "context"

// Generator is the single operation the chat pipeline needs from the
// model collaborator: turn prompt text into reply text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
