package domain

import "time"

// DTOs (Data Transfer Objects) - Domain layer request/response structures

type (
	// RegisterRequest struct - Domain request DTO
	RegisterRequest struct {
		Username string
		Email    *string
		Phone    *string
		Password string
	}

	// LoginRequest struct - Domain request DTO.
	// EmailOrPhone containing "@" is treated as an email address.
	LoginRequest struct {
		EmailOrPhone string
		Password     string
	}

	// UserResponse struct - Domain response DTO
	UserResponse struct {
		ID        uint       `json:"id"`
		Username  string     `json:"username"`
		Email     *string    `json:"email,omitempty"`
		Phone     *string    `json:"phone,omitempty"`
		CreatedAt *time.Time `json:"created_at,omitempty"`
		UpdatedAt *time.Time `json:"updated_at,omitempty"`
	}

	// LoginResponse struct - Domain response DTO
	LoginResponse struct {
		AccessToken string       `json:"access_token"`
		TokenType   string       `json:"token_type"`
		User        UserResponse `json:"user"`
	}

	// ConversationRequest struct - Domain request DTO
	ConversationRequest struct {
		Title string
	}

	// ConversationResponse struct - Domain response DTO
	ConversationResponse struct {
		ID        uint       `json:"id"`
		UserID    uint       `json:"user_id"`
		Title     string     `json:"title"`
		CreatedAt *time.Time `json:"created_at,omitempty"`
		UpdatedAt *time.Time `json:"updated_at,omitempty"`
	}

	// MessageResponse struct - Domain response DTO
	MessageResponse struct {
		ID             uint        `json:"id"`
		ConversationID uint        `json:"conversation_id"`
		Content        string      `json:"content"`
		Role           ChatRole    `json:"role"`
		MessageType    MessageType `json:"message_type"`
		FileURL        *string     `json:"file_url,omitempty"`
		CreatedAt      *time.Time  `json:"created_at,omitempty"`
	}

	// ChatRequest struct - Domain request DTO for the streaming chat use case
	ChatRequest struct {
		ConversationID uint
		Model          string
		Message        string
		MessageType    MessageType
		FileURL        string
	}

	// UploadResponse struct - Domain response DTO
	UploadResponse struct {
		Filename      string `json:"filename"`
		SavedFilename string `json:"saved_filename"`
		URL           string `json:"url"`
		ContentType   string `json:"content_type"`
		Size          int64  `json:"size"`
	}
)
