package domain

import (
	"time"
)

// Conversation struct - Core domain entity
type Conversation struct {
	ID        uint       `gorm:"primaryKey;autoIncrement"`
	UserID    uint       `gorm:"index;not null"`
	Title     string     `gorm:"type:varchar(255)"`
	CreatedAt *time.Time `gorm:"type:timestamp"`
	UpdatedAt *time.Time `gorm:"type:timestamp"`
}

// TableName func
func (c *Conversation) TableName() string {
	return "conversations"
}

// MessageType type - kind of content a chat message carries
type MessageType string

const (
	// MessageTypeText const
	MessageTypeText MessageType = "text"
	// MessageTypeImage const
	MessageTypeImage MessageType = "image"
	// MessageTypeDocument const
	MessageTypeDocument MessageType = "document"
	// MessageTypeAudio const
	MessageTypeAudio MessageType = "audio"
)

// Message struct - Core domain entity, one stored chat message
type Message struct {
	ID             uint        `gorm:"primaryKey;autoIncrement"`
	ConversationID uint        `gorm:"index;not null"`
	Content        string      `gorm:"type:TEXT"`
	Role           ChatRole    `gorm:"type:varchar(16)"`
	MessageType    MessageType `gorm:"type:varchar(16)"`
	FileURL        *string     `gorm:"type:varchar(512)"`
	CreatedAt      *time.Time  `gorm:"type:timestamp"`
}

// TableName func
func (m *Message) TableName() string {
	return "messages"
}
