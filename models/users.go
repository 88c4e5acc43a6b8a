package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Google OAuth fields
	GoogleID      string `gorm:"uniqueIndex;not null" json:"google_id"`
	Email         string `gorm:"uniqueIndex;not null" json:"email"`
	EmailVerified bool   `gorm:"default:false" json:"email_verified"`

	// Profile from Google
	FullName   string `json:"full_name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
	Locale     string `json:"locale"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	// Timestamps
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (User) TableName() string {
	return "users"
}

// GoogleUserInfo is the profile payload returned by Google's userinfo
// endpoint after a successful OAuth exchange.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
	Locale        string `json:"locale"`
}

// CreateUserFromGoogle creates a new user from Google OAuth data
func CreateUserFromGoogle(info GoogleUserInfo) *User {
	now := time.Now()
	return &User{
		GoogleID:      info.ID,
		Email:         info.Email,
		EmailVerified: info.VerifiedEmail,
		FullName:      info.Name,
		GivenName:     info.GivenName,
		FamilyName:    info.FamilyName,
		Picture:       info.Picture,
		Locale:        info.Locale,
		LastLoginAt:   &now,
	}
}
