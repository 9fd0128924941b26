package output

import "ai-chat-backend/internal/domain"

// UserRepository interface - Output port
// Defines what the application needs from user persistence
type UserRepository interface {
	CreateUser(user *domain.User) error
	GetUserByID(id uint) (*domain.User, error)
	GetUserByEmail(email string) (*domain.User, error)
	GetUserByPhone(phone string) (*domain.User, error)
	// ExistsByEmailOrPhone reports whether any user already holds either
	// identifier. Nil identifiers are skipped.
	ExistsByEmailOrPhone(email, phone *string) (bool, error)
}
