package input

import "ai-chat-backend/internal/domain"

// UserService interface - Input port (use case)
// Defines registration, login and profile lookup
type UserService interface {
	Register(request domain.RegisterRequest) (*domain.UserResponse, error)
	Login(request domain.LoginRequest) (*domain.LoginResponse, error)
	GetProfile(userID uint) (*domain.UserResponse, error)
}
