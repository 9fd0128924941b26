package http

type (
	// RegisterRequest struct - HTTP request DTO
	RegisterRequest struct {
		Username string  `json:"username" validate:"required,max=100" form:"username"`
		Email    *string `json:"email" validate:"omitempty,email" form:"email"`
		Phone    *string `json:"phone" validate:"omitempty,min=6,max=32" form:"phone"`
		Password string  `json:"password" validate:"required,min=6,max=128" form:"password"`
	}

	// LoginRequest struct - HTTP request DTO
	LoginRequest struct {
		EmailOrPhone string `json:"email_or_phone" validate:"required" form:"email_or_phone"`
		Password     string `json:"password" validate:"required" form:"password"`
	}

	// ConversationRequest struct - HTTP request DTO
	ConversationRequest struct {
		Title string `json:"title" validate:"omitempty,max=255" form:"title"`
	}

	// ChatRequest struct - HTTP request DTO for a streaming chat turn
	ChatRequest struct {
		ConversationID uint   `json:"conversation_id" validate:"required" form:"conversation_id"`
		Model          string `json:"model" validate:"omitempty,max=255" form:"model"`
		Message        string `json:"message" validate:"required" form:"message"`
		MessageType    string `json:"message_type" validate:"omitempty,oneof=text image document audio" form:"message_type"`
		FileURL        string `json:"file_url" validate:"omitempty,max=512" form:"file_url"`
	}
)
