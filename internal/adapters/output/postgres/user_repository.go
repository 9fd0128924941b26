package postgres

import (
	"errors"

	"ai-chat-backend/internal/domain"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// UserRepository struct - Secondary/Driven adapter for PostgreSQL
type UserRepository struct {
	dbGorm *gorm.DB
}

// NewUserRepository func - Creates new PostgreSQL user repository
func NewUserRepository(dbGorm *gorm.DB) *UserRepository {
	return &UserRepository{
		dbGorm: dbGorm,
	}
}

// CreateUser func - Persists a new user
func (p *UserRepository) CreateUser(user *domain.User) error {
	if err := p.dbGorm.Create(user).Error; err != nil {
		logrus.Errorln(err)
		return err
	}
	return nil
}

// GetUserByID func - Retrieves a user by primary key
func (p *UserRepository) GetUserByID(id uint) (*domain.User, error) {
	var user domain.User
	if err := p.dbGorm.First(&user, id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.Errorln(err)
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail func - Retrieves a user by email address
func (p *UserRepository) GetUserByEmail(email string) (*domain.User, error) {
	var user domain.User
	if err := p.dbGorm.Where("email = ?", email).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.Errorln(err)
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByPhone func - Retrieves a user by phone number
func (p *UserRepository) GetUserByPhone(phone string) (*domain.User, error) {
	var user domain.User
	if err := p.dbGorm.Where("phone = ?", phone).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.Errorln(err)
		}
		return nil, err
	}
	return &user, nil
}

// ExistsByEmailOrPhone func - Checks whether any user already holds either identifier
func (p *UserRepository) ExistsByEmailOrPhone(email, phone *string) (bool, error) {
	if email == nil && phone == nil {
		return false, nil
	}

	tx := p.dbGorm.Model(&domain.User{})
	switch {
	case email != nil && phone != nil:
		tx = tx.Where("email = ? OR phone = ?", *email, *phone)
	case email != nil:
		tx = tx.Where("email = ?", *email)
	default:
		tx = tx.Where("phone = ?", *phone)
	}

	var count int64
	if err := tx.Count(&count).Error; err != nil {
		logrus.Errorln(err)
		return false, err
	}
	return count > 0, nil
}
