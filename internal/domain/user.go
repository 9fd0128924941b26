package domain

import (
	"time"

	"gorm.io/gorm"
)

// User struct - Core domain entity
type User struct {
	ID           uint       `gorm:"primaryKey;autoIncrement"`
	Username     string     `gorm:"type:varchar(100);not null;"`
	Email        *string    `gorm:"type:varchar(255);uniqueIndex"`
	Phone        *string    `gorm:"type:varchar(32);uniqueIndex"`
	PasswordHash string     `gorm:"type:varchar(255);not null;"`
	CreatedAt    *time.Time `gorm:"type:timestamp"`
	UpdatedAt    *time.Time `gorm:"type:timestamp"`
}

// TableName func
func (u *User) TableName() string {
	return "users"
}

// MigrateDatabase func - Auto-migrate database schema.
// Tables are created in dependency order to satisfy foreign keys.
func MigrateDatabase(db *gorm.DB) {
	if db == nil {
		panic("An error when connect database")
	}

	err := db.AutoMigrate(&User{}, &Conversation{}, &Message{})
	if err != nil {
		panic(err)
	}
}
