package input

import "ai-chat-backend/internal/domain"

// ConversationService interface - Input port (use case)
// All operations are scoped to the requesting user; touching a
// conversation owned by someone else yields ErrConversationNotFound.
type ConversationService interface {
	ListConversations(userID uint) ([]domain.ConversationResponse, error)
	CreateConversation(userID uint, request domain.ConversationRequest) (*domain.ConversationResponse, error)
	RenameConversation(userID, conversationID uint, request domain.ConversationRequest) (*domain.ConversationResponse, error)
	DeleteConversation(userID, conversationID uint) error
	GetMessages(userID, conversationID uint) ([]domain.MessageResponse, error)
}
