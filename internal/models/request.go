package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TimeWindow is a collection or delivery slot; both ends fall on the same day.
type TimeWindow struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// IsSet reports whether both ends of the window are present.
func (w TimeWindow) IsSet() bool {
	return w.Start != nil && w.End != nil
}

// Request is a claim by a user on a donation item. A user may hold at most one
// request per item, which the composite unique index enforces.
type Request struct {
	ID              uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID          uuid.UUID      `gorm:"type:varchar(36);not null;uniqueIndex:idx_request_user_item" json:"userId"`
	DonationItemID  uuid.UUID      `gorm:"type:varchar(36);not null;uniqueIndex:idx_request_user_item;index" json:"donationItemId"`
	DeliveryMethod  DeliveryMethod `gorm:"type:varchar(16)" json:"deliveryMethod"`
	Address         Address        `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	AdditionalNotes string         `gorm:"type:text;not null;default:''" json:"additionalNotes"`
	Window          TimeWindow     `gorm:"embedded;embeddedPrefix:window_" json:"dateTimeRange"`
	DateRequested   time.Time      `gorm:"index" json:"dateRequested"`
	Status          RequestStatus  `gorm:"type:varchar(16);index;not null" json:"status"`
	UpdatedAt       time.Time      `json:"updated_at"`

	User         *User         `gorm:"foreignKey:UserID" json:"-"`
	DonationItem *DonationItem `gorm:"foreignKey:DonationItemID" json:"-"`
}

func (r *Request) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Status == "" {
		r.Status = RequestPending
	}
	if r.DateRequested.IsZero() {
		r.DateRequested = tx.NowFunc()
	}
	return nil
}

// IsOpen reports whether the requester may still withdraw the request.
func (r *Request) IsOpen() bool {
	return r.Status == RequestPending || r.Status == RequestRejected
}
