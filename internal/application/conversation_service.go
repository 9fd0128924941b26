package application

import (
	"errors"
	"strconv"

	"ai-chat-backend/internal/domain"
	"ai-chat-backend/internal/ports/output"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ConversationService struct - Application service implementing use cases
type ConversationService struct {
	repo  output.ConversationRepository
	cache output.ContextCache
}

// NewConversationService func - Creates new conversation service
func NewConversationService(repo output.ConversationRepository, cache output.ContextCache) *ConversationService {
	return &ConversationService{
		repo:  repo,
		cache: cache,
	}
}

// ListConversations func - Use case: List the user's conversations
func (s *ConversationService) ListConversations(userID uint) ([]domain.ConversationResponse, error) {
	conversations, err := s.repo.GetConversations(userID)
	if err != nil {
		logrus.Errorln(err)
		return nil, err
	}

	result := make([]domain.ConversationResponse, 0, len(conversations))
	for _, c := range conversations {
		result = append(result, conversationResponse(&c))
	}
	return result, nil
}

// CreateConversation func - Use case: Start a new conversation
func (s *ConversationService) CreateConversation(userID uint, request domain.ConversationRequest) (*domain.ConversationResponse, error) {
	title := request.Title
	if title == "" {
		title = "New Conversation"
	}

	conversation, err := s.repo.CreateConversation(userID, title)
	if err != nil {
		logrus.Errorln(err)
		return nil, err
	}

	response := conversationResponse(conversation)
	return &response, nil
}

// RenameConversation func - Use case: Rename a conversation the user owns
func (s *ConversationService) RenameConversation(userID, conversationID uint, request domain.ConversationRequest) (*domain.ConversationResponse, error) {
	if _, err := s.ownedConversation(userID, conversationID); err != nil {
		return nil, err
	}

	conversation, err := s.repo.UpdateConversationTitle(conversationID, request.Title)
	if err != nil {
		logrus.Errorln(err)
		return nil, err
	}
	conversation.Title = request.Title

	response := conversationResponse(conversation)
	return &response, nil
}

// DeleteConversation func - Use case: Delete a conversation, its messages
// and its cached context
func (s *ConversationService) DeleteConversation(userID, conversationID uint) error {
	if _, err := s.ownedConversation(userID, conversationID); err != nil {
		return err
	}

	removed, err := s.repo.DeleteConversation(conversationID)
	if err != nil {
		logrus.Errorln(err)
		return err
	}
	if !removed {
		return domain.ErrConversationNotFound
	}

	s.cache.ClearConversation(CacheUserKey(userID), CacheConversationKey(conversationID))

	logrus.Infof("Deleted conversation %d for user %d", conversationID, userID)

	return nil
}

// GetMessages func - Use case: Fetch a conversation's message history
func (s *ConversationService) GetMessages(userID, conversationID uint) ([]domain.MessageResponse, error) {
	if _, err := s.ownedConversation(userID, conversationID); err != nil {
		return nil, err
	}

	messages, err := s.repo.GetMessages(conversationID)
	if err != nil {
		logrus.Errorln(err)
		return nil, err
	}

	result := make([]domain.MessageResponse, 0, len(messages))
	for _, m := range messages {
		result = append(result, domain.MessageResponse{
			ID:             m.ID,
			ConversationID: m.ConversationID,
			Content:        m.Content,
			Role:           m.Role,
			MessageType:    m.MessageType,
			FileURL:        m.FileURL,
			CreatedAt:      m.CreatedAt,
		})
	}
	return result, nil
}

// ownedConversation loads the conversation and enforces ownership.
// Foreign conversations are indistinguishable from missing ones.
func (s *ConversationService) ownedConversation(userID, conversationID uint) (*domain.Conversation, error) {
	conversation, err := s.repo.GetConversation(conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrConversationNotFound
		}
		logrus.Errorln(err)
		return nil, err
	}
	if conversation.UserID != userID {
		return nil, domain.ErrConversationNotFound
	}
	return conversation, nil
}

func conversationResponse(c *domain.Conversation) domain.ConversationResponse {
	return domain.ConversationResponse{
		ID:        c.ID,
		UserID:    c.UserID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// CacheUserKey func - Cache identifier for a user
func CacheUserKey(userID uint) string {
	return strconv.FormatUint(uint64(userID), 10)
}

// CacheConversationKey func - Cache identifier for a conversation
func CacheConversationKey(conversationID uint) string {
	return strconv.FormatUint(uint64(conversationID), 10)
}
