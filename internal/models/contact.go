package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Contact is a message left through the public contact form.
type Contact struct {
	ID      uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	Name    string    `gorm:"size:255;not null" json:"name"`
	Email   string    `gorm:"size:255;not null" json:"email"`
	Message string    `gorm:"type:text;not null" json:"message"`
	SentAt  time.Time `gorm:"index" json:"sentAt"`
}

func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.SentAt.IsZero() {
		c.SentAt = tx.NowFunc()
	}
	return nil
}
