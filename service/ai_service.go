package service

import (
	"context"

	"github.com/sinantan/document-chat-assistant/types"
)

// AIService is the language-model backend. Complete either returns a full
// response with usage accounting or fails; there is no partial result.
type AIService interface {
	Complete(ctx context.Context, prompt string) (*types.CompletionResult, error)
}
