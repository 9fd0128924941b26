package application

import (
	"errors"
	"strings"

	"ai-chat-backend/internal/domain"
	"ai-chat-backend/internal/ports/output"
	"ai-chat-backend/pkg/auth"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService struct - Application service implementing use cases
type UserService struct {
	repo   output.UserRepository
	tokens *auth.TokenManager
}

// NewUserService func - Creates new user service
func NewUserService(repo output.UserRepository, tokens *auth.TokenManager) *UserService {
	return &UserService{
		repo:   repo,
		tokens: tokens,
	}
}

// Register func - Use case: Register a new user account
func (s *UserService) Register(request domain.RegisterRequest) (*domain.UserResponse, error) {
	exists, err := s.repo.ExistsByEmailOrPhone(request.Email, request.Phone)
	if err != nil {
		logrus.Errorln(err)
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		logrus.Errorln(err)
		return nil, err
	}

	user := domain.User{
		Username:     request.Username,
		Email:        request.Email,
		Phone:        request.Phone,
		PasswordHash: string(hash),
	}
	if err := s.repo.CreateUser(&user); err != nil {
		logrus.Errorln(err)
		return nil, err
	}

	logrus.Infof("Registered user %d (%s)", user.ID, user.Username)

	response := userResponse(&user)
	return &response, nil
}

// Login func - Use case: Authenticate and issue an access token.
// An identifier containing "@" is looked up as an email address,
// anything else as a phone number.
func (s *UserService) Login(request domain.LoginRequest) (*domain.LoginResponse, error) {
	var (
		user *domain.User
		err  error
	)
	if strings.Contains(request.EmailOrPhone, "@") {
		user, err = s.repo.GetUserByEmail(request.EmailOrPhone)
	} else {
		user, err = s.repo.GetUserByPhone(request.EmailOrPhone)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		logrus.Errorln(err)
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(request.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.IssueToken(user.ID)
	if err != nil {
		logrus.Errorln(err)
		return nil, err
	}

	return &domain.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        userResponse(user),
	}, nil
}

// GetProfile func - Use case: Fetch the authenticated user's profile
func (s *UserService) GetProfile(userID uint) (*domain.UserResponse, error) {
	user, err := s.repo.GetUserByID(userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.Errorln(err)
		}
		return nil, err
	}
	response := userResponse(user)
	return &response, nil
}

func userResponse(user *domain.User) domain.UserResponse {
	return domain.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Phone:     user.Phone,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
