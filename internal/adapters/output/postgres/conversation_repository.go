package postgres

import (
	"errors"

	"ai-chat-backend/internal/domain"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ConversationRepository struct - Secondary/Driven adapter for PostgreSQL
type ConversationRepository struct {
	dbGorm *gorm.DB
}

// NewConversationRepository func - Creates new PostgreSQL conversation repository
func NewConversationRepository(dbGorm *gorm.DB) *ConversationRepository {
	logrus.Info("Migrate database ...")
	domain.MigrateDatabase(dbGorm)
	return &ConversationRepository{
		dbGorm: dbGorm,
	}
}

// GetConversations func - Retrieves all conversations of a user, most recent first
func (p *ConversationRepository) GetConversations(userID uint) ([]domain.Conversation, error) {
	var conversations []domain.Conversation
	if err := p.dbGorm.Where("user_id = ?", userID).Order("updated_at DESC").Find(&conversations).Error; err != nil {
		logrus.Errorln(err)
		return nil, err
	}
	return conversations, nil
}

// GetConversation func - Retrieves a single conversation by primary key
func (p *ConversationRepository) GetConversation(id uint) (*domain.Conversation, error) {
	var conversation domain.Conversation
	if err := p.dbGorm.First(&conversation, id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.Errorln(err)
		}
		return nil, err
	}
	return &conversation, nil
}

// CreateConversation func - Creates a new conversation for a user
func (p *ConversationRepository) CreateConversation(userID uint, title string) (*domain.Conversation, error) {
	conversation := domain.Conversation{
		UserID: userID,
		Title:  title,
	}
	if err := p.dbGorm.Create(&conversation).Error; err != nil {
		logrus.Errorln(err)
		return nil, err
	}
	return &conversation, nil
}

// UpdateConversationTitle func - Renames an existing conversation
func (p *ConversationRepository) UpdateConversationTitle(id uint, title string) (*domain.Conversation, error) {
	var conversation domain.Conversation
	if err := p.dbGorm.First(&conversation, id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.Errorln(err)
		}
		return nil, err
	}
	if err := p.dbGorm.Model(&conversation).Update("title", title).Error; err != nil {
		logrus.Errorln(err)
		return nil, err
	}
	return &conversation, nil
}

// DeleteConversation func - Removes a conversation and its messages in one transaction
func (p *ConversationRepository) DeleteConversation(id uint) (bool, error) {
	var conversation domain.Conversation
	if err := p.dbGorm.First(&conversation, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		logrus.Errorln(err)
		return false, err
	}

	tx := p.dbGorm.Begin()
	defer func() {
		tx.Rollback()
	}()
	if err := tx.Where("conversation_id = ?", id).Delete(&domain.Message{}).Error; err != nil {
		logrus.Errorln(err)
		return false, err
	}
	if err := tx.Delete(&conversation).Error; err != nil {
		logrus.Errorln(err)
		return false, err
	}
	tx.Commit()
	return true, nil
}

// AddMessage func - Appends a message to a conversation
func (p *ConversationRepository) AddMessage(message *domain.Message) error {
	if err := p.dbGorm.Create(message).Error; err != nil {
		logrus.Errorln(err)
		return err
	}
	// Bump the conversation so listing order reflects recent activity
	if err := p.dbGorm.Model(&domain.Conversation{}).Where("id = ?", message.ConversationID).
		Update("updated_at", gorm.Expr("NOW()")).Error; err != nil {
		logrus.Errorln(err)
	}
	return nil
}

// GetMessages func - Retrieves a conversation's messages ordered by creation time
func (p *ConversationRepository) GetMessages(conversationID uint) ([]domain.Message, error) {
	var messages []domain.Message
	if err := p.dbGorm.Where("conversation_id = ?", conversationID).Order("created_at ASC, id ASC").Find(&messages).Error; err != nil {
		logrus.Errorln(err)
		return nil, err
	}
	return messages, nil
}
