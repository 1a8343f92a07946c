package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is a server-side login record referenced by the session cookie.
type Session struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey"`
	UserID    uuid.UUID `gorm:"type:varchar(36);index;not null"`
	ExpiresAt time.Time `gorm:"index"`
	CreatedAt time.Time
}

// SessionUser is what handlers and templates know about the signed-in user.
type SessionUser struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Role  Role      `json:"role"`
	Score int       `json:"score"`
}

// NewSessionUser projects a stored user onto the session payload.
func NewSessionUser(u *User) *SessionUser {
	return &SessionUser{ID: u.ID, Email: u.Email, Role: u.Role, Score: u.Score}
}
