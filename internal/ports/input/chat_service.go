package input

import (
	"context"

	"ai-chat-backend/internal/domain"
)

// ChatService interface - Input port (use case)
type ChatService interface {
	// Chat runs one streaming completion turn. It returns a channel of
	// AG-UI protocol events; the channel is closed when the run finishes
	// or fails. Errors surface as a ChatEventError event, never as a
	// returned error, so the SSE stream can always be started.
	Chat(ctx context.Context, userID uint, request domain.ChatRequest) <-chan domain.ChatEvent

	// ListModels returns the identifiers of the upstream models
	ListModels(ctx context.Context) ([]string, error)
}
