package output

import (
	"context"

	"ai-chat-backend/internal/domain"
)

// LLMClient interface - Output port
// Defines what the application needs from an OpenAI-compatible
// completion API for sending prompts and receiving generated replies.
type LLMClient interface {
	// ChatCompletion sends a non-streaming chat completion request.
	// Returns the generated content together with usage statistics.
	ChatCompletion(ctx context.Context, request domain.ChatCompletionRequest) (*domain.ChatCompletionResponse, error)

	// ChatCompletionStream sends a streaming chat completion request.
	// It returns a read-only channel that emits ChatCompletionChunk
	// objects as the response is generated. The channel is closed when
	// the stream completes or an error occurs; a failing stream sends a
	// final chunk with Error set and Done=true before closing.
	// Returns an error only if the request fails before streaming begins.
	ChatCompletionStream(ctx context.Context, request domain.ChatCompletionRequest) (<-chan domain.ChatCompletionChunk, error)

	// ListModels queries the upstream /v1/models endpoint
	ListModels(ctx context.Context) ([]domain.ModelInfo, error)
}
