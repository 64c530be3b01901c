package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account holder. IDs are generated in Go so the same model
// migrates on postgres, mysql and sqlite.
type User struct {
	ID          string  `gorm:"primaryKey;size:36" json:"id"`
	Name        string  `gorm:"size:255;not null" json:"name"`
	Email       string  `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password    string  `gorm:"size:255;not null" json:"-"`
	Gender      *string `gorm:"size:50" json:"gender"`
	PhoneNumber *string `gorm:"size:20" json:"phone_number"`
	// Base64 data URL or remote URL.
	ProfilePic *string `gorm:"type:text" json:"profile_pic"`

	ResetToken        *string    `gorm:"size:255;uniqueIndex" json:"-"`
	ResetTokenExpires *time.Time `json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if strings.TrimSpace(u.ID) == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// NormalizeEmail lowercases and trims an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
