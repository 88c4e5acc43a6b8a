package models

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"gorm.io/gorm"
)

// SessionLifetime is how long a browser login stays valid. The cookie
// max-age and the row expiry are both derived from it so they cannot
// drift apart.
const SessionLifetime = 7 * 24 * time.Hour

// Session is one browser login. A row is created on the Google OAuth
// callback, matched against the session_token cookie on every request,
// and removed on logout or by the scheduler's daily expiry purge.
type Session struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	SessionToken string `gorm:"uniqueIndex;not null" json:"session_token"`
	UserID       uint   `gorm:"not null;index" json:"user_id"`
	User         User   `gorm:"foreignKey:UserID" json:"-"`

	// Captured once at login.
	UserAgent string `json:"user_agent,omitempty"`
	IPAddress string `json:"ip_address,omitempty"`

	ExpiresAt      time.Time `gorm:"not null;index" json:"expires_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Session) TableName() string {
	return "sessions"
}

// NewSession builds a session row with a fresh 256-bit random token
// and the standard lifetime. The token is the only credential, so it
// comes from crypto/rand, never math/rand.
func NewSession(userID uint, userAgent, ip string) (*Session, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, err
	}
	now := time.Now()
	return &Session{
		SessionToken:   base64.URLEncoding.EncodeToString(raw),
		UserID:         userID,
		UserAgent:      userAgent,
		IPAddress:      ip,
		ExpiresAt:      now.Add(SessionLifetime),
		LastAccessedAt: now,
	}, nil
}

func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Touch records activity so idle logins can be told apart from active
// ones when inspecting the sessions table.
func (s *Session) Touch(db *gorm.DB) error {
	s.LastAccessedAt = time.Now()
	return db.Model(s).Update("last_accessed_at", s.LastAccessedAt).Error
}
