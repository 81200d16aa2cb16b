package models

import "time"

// Session is a login session row; the token is the JWT handed to the client.
type Session struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	User      User      `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE" json:"-"`
	Token     string    `gorm:"size:250;not null;index" json:"token"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
}

func (Session) TableName() string { return "uno_session" }

// Expired reports whether the session is past its expiry.
func (s *Session) Expired(now time.Time) bool { return now.After(s.ExpiresAt) }
