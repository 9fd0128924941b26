package domain

import "time"

// ChatRole represents the author of a chat turn
type ChatRole string

const (
	// ChatRoleUser - end-user turn
	ChatRoleUser ChatRole = "user"
	// ChatRoleAssistant - model turn
	ChatRoleAssistant ChatRole = "assistant"
	// ChatRoleSystem - system instruction
	ChatRoleSystem ChatRole = "system"
)

// ContentPart is one element of a multimodal message payload
type ContentPart struct {
	Type     string // "text" or "image_url"
	Text     string
	ImageURL string
}

// ChatMessage is one message sent to the upstream completion API.
// Parts, when non-empty, takes precedence over Content and is serialized
// as structured multimodal content.
type ChatMessage struct {
	Role    ChatRole
	Content string
	Parts   []ContentPart
}

// ChatCompletionRequest struct - Domain request for the upstream API
type ChatCompletionRequest struct {
	Model       *string
	Messages    []ChatMessage
	Temperature *float64
}

// ChatCompletionResponse struct - Domain response from a non-streaming call
type ChatCompletionResponse struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// ChatCompletionChunk is one streamed delta from the upstream API.
// Reasoning carries thinking-mode deltas when the model emits them.
type ChatCompletionChunk struct {
	Content   string
	Reasoning string
	Done      bool
	Error     error
}

// ModelInfo struct - metadata of an upstream model
type ModelInfo struct {
	ID      string
	Object  string
	OwnedBy string
}

// Turn is one role-tagged message in a conversation's cached history.
// Immutable once appended.
type Turn struct {
	Role      ChatRole  `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// CacheStats struct - point-in-time counters of the context cache.
// TotalConversations includes expired-but-unpurged records; the message
// and character totals cover active records only.
type CacheStats struct {
	TotalConversations  int `json:"total_conversations"`
	ActiveConversations int `json:"active_conversations"`
	TotalMessages       int `json:"total_messages"`
	TotalChars          int `json:"total_chars"`
}

// Chat stream event types (AG-UI protocol)
const (
	ChatEventUserMessage      = "user_message"
	ChatEventRunStart         = "run_start"
	ChatEventThinkingStart    = "thinking_start"
	ChatEventThinkingProcess  = "thinking_process"
	ChatEventThinkingEnd      = "thinking_end"
	ChatEventTextMessageStart = "text_message_start"
	ChatEventTextMessageDelta = "text_message_delta"
	ChatEventTextMessageEnd   = "text_message_end"
	ChatEventRunEnd           = "run_end"
	ChatEventError            = "error"
)

// ChatEvent is one server-sent event emitted while streaming a reply
type ChatEvent struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}
