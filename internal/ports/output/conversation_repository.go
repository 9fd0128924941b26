package output

import "ai-chat-backend/internal/domain"

// ConversationRepository interface - Output port
// Defines what the application needs from conversation persistence
type ConversationRepository interface {
	GetConversations(userID uint) ([]domain.Conversation, error)
	GetConversation(id uint) (*domain.Conversation, error)
	CreateConversation(userID uint, title string) (*domain.Conversation, error)
	UpdateConversationTitle(id uint, title string) (*domain.Conversation, error)
	// DeleteConversation removes the conversation and its messages.
	// Returns false when no such conversation exists.
	DeleteConversation(id uint) (bool, error)
	AddMessage(message *domain.Message) error
	// GetMessages returns the conversation's messages ordered by creation time
	GetMessages(conversationID uint) ([]domain.Message, error)
}
