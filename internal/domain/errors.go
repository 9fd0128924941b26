package domain

import "errors"

var (
	// ErrLLMUnavailable indicates the upstream completion service is unavailable
	ErrLLMUnavailable = errors.New("llm service unavailable")

	// ErrInvalidRequest indicates an invalid request was made (4xx client errors)
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUserExists indicates a registration conflict on email or phone
	ErrUserExists = errors.New("user with this email or phone already exists")

	// ErrInvalidCredentials indicates a failed login attempt
	ErrInvalidCredentials = errors.New("incorrect email/phone or password")

	// ErrConversationNotFound indicates a missing or foreign conversation
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrFileNotFound indicates a missing uploaded file
	ErrFileNotFound = errors.New("file not found")
)
