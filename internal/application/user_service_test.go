package application

import (
	"errors"
	"testing"

	"ai-chat-backend/internal/domain"
	"ai-chat-backend/pkg/auth"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MockUserRepository implements output.UserRepository for testing
type MockUserRepository struct {
	CreateUserFunc           func(user *domain.User) error
	GetUserByIDFunc          func(id uint) (*domain.User, error)
	GetUserByEmailFunc       func(email string) (*domain.User, error)
	GetUserByPhoneFunc       func(phone string) (*domain.User, error)
	ExistsByEmailOrPhoneFunc func(email, phone *string) (bool, error)

	// Captured values for assertions
	CreatedUser *domain.User
}

func (m *MockUserRepository) CreateUser(user *domain.User) error {
	m.CreatedUser = user
	if m.CreateUserFunc != nil {
		return m.CreateUserFunc(user)
	}
	user.ID = 1
	return nil
}

func (m *MockUserRepository) GetUserByID(id uint) (*domain.User, error) {
	if m.GetUserByIDFunc != nil {
		return m.GetUserByIDFunc(id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockUserRepository) GetUserByEmail(email string) (*domain.User, error) {
	if m.GetUserByEmailFunc != nil {
		return m.GetUserByEmailFunc(email)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockUserRepository) GetUserByPhone(phone string) (*domain.User, error) {
	if m.GetUserByPhoneFunc != nil {
		return m.GetUserByPhoneFunc(phone)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockUserRepository) ExistsByEmailOrPhone(email, phone *string) (bool, error) {
	if m.ExistsByEmailOrPhoneFunc != nil {
		return m.ExistsByEmailOrPhoneFunc(email, phone)
	}
	return false, nil
}

func newTestUserService(repo *MockUserRepository) *UserService {
	return NewUserService(repo, auth.NewTokenManager("test-secret", 3600))
}

func hashedPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return string(hash)
}

// TestRegisterStoresBcryptHashNotPassword tests that registration never
// persists the plaintext password
func TestRegisterStoresBcryptHashNotPassword(t *testing.T) {
	repo := &MockUserRepository{}
	service := newTestUserService(repo)

	email := "alice@example.com"
	response, err := service.Register(domain.RegisterRequest{
		Username: "alice",
		Email:    &email,
		Password: "s3cret",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if response.ID != 1 || response.Username != "alice" {
		t.Errorf("unexpected response: %+v", response)
	}

	if repo.CreatedUser == nil {
		t.Fatal("expected a persisted user")
	}
	if repo.CreatedUser.PasswordHash == "s3cret" {
		t.Error("expected password to be hashed, found plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(repo.CreatedUser.PasswordHash), []byte("s3cret")); err != nil {
		t.Errorf("stored hash does not verify against the password: %v", err)
	}
}

// TestRegisterRejectsDuplicateEmailOrPhone tests the uniqueness check
func TestRegisterRejectsDuplicateEmailOrPhone(t *testing.T) {
	repo := &MockUserRepository{
		ExistsByEmailOrPhoneFunc: func(email, phone *string) (bool, error) {
			return true, nil
		},
	}
	service := newTestUserService(repo)

	email := "alice@example.com"
	if _, err := service.Register(domain.RegisterRequest{Username: "alice", Email: &email, Password: "x"}); !errors.Is(err, domain.ErrUserExists) {
		t.Errorf("expected ErrUserExists, got: %v", err)
	}
}

// TestLoginLooksUpByEmailWhenIdentifierContainsAtSign tests identifier
// routing and successful token issuance
func TestLoginLooksUpByEmailWhenIdentifierContainsAtSign(t *testing.T) {
	email := "alice@example.com"
	repo := &MockUserRepository{
		GetUserByEmailFunc: func(got string) (*domain.User, error) {
			if got != email {
				t.Errorf("expected email lookup for %s, got: %s", email, got)
			}
			return &domain.User{ID: 5, Username: "alice", Email: &email, PasswordHash: hashedPassword(t, "s3cret")}, nil
		},
		GetUserByPhoneFunc: func(phone string) (*domain.User, error) {
			t.Error("expected no phone lookup for an email identifier")
			return nil, gorm.ErrRecordNotFound
		},
	}
	service := newTestUserService(repo)

	response, err := service.Login(domain.LoginRequest{EmailOrPhone: email, Password: "s3cret"})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if response.AccessToken == "" {
		t.Error("expected an access token")
	}
	if response.TokenType != "bearer" {
		t.Errorf("expected token type 'bearer', got: %s", response.TokenType)
	}
	if response.User.ID != 5 {
		t.Errorf("expected user id 5, got: %d", response.User.ID)
	}
}

// TestLoginLooksUpByPhoneOtherwise tests phone identifier routing
func TestLoginLooksUpByPhoneOtherwise(t *testing.T) {
	phone := "0812345678"
	repo := &MockUserRepository{
		GetUserByPhoneFunc: func(got string) (*domain.User, error) {
			if got != phone {
				t.Errorf("expected phone lookup for %s, got: %s", phone, got)
			}
			return &domain.User{ID: 6, Username: "bob", Phone: &phone, PasswordHash: hashedPassword(t, "s3cret")}, nil
		},
	}
	service := newTestUserService(repo)

	response, err := service.Login(domain.LoginRequest{EmailOrPhone: phone, Password: "s3cret"})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if response.User.ID != 6 {
		t.Errorf("expected user id 6, got: %d", response.User.ID)
	}
}

// TestLoginWrongPasswordAndUnknownUserAreIndistinguishable tests that
// both failure modes yield ErrInvalidCredentials
func TestLoginWrongPasswordAndUnknownUserAreIndistinguishable(t *testing.T) {
	email := "alice@example.com"
	repo := &MockUserRepository{
		GetUserByEmailFunc: func(got string) (*domain.User, error) {
			if got == email {
				return &domain.User{ID: 5, Email: &email, PasswordHash: hashedPassword(t, "s3cret")}, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
	}
	service := newTestUserService(repo)

	if _, err := service.Login(domain.LoginRequest{EmailOrPhone: email, Password: "wrong"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for wrong password, got: %v", err)
	}
	if _, err := service.Login(domain.LoginRequest{EmailOrPhone: "nobody@example.com", Password: "s3cret"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown user, got: %v", err)
	}
}

// TestGetProfileReturnsUserWithoutSecrets tests the profile lookup
func TestGetProfileReturnsUserWithoutSecrets(t *testing.T) {
	email := "alice@example.com"
	repo := &MockUserRepository{
		GetUserByIDFunc: func(id uint) (*domain.User, error) {
			return &domain.User{ID: id, Username: "alice", Email: &email, PasswordHash: "hash"}, nil
		},
	}
	service := newTestUserService(repo)

	profile, err := service.GetProfile(5)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if profile.ID != 5 || profile.Username != "alice" {
		t.Errorf("unexpected profile: %+v", profile)
	}
}
