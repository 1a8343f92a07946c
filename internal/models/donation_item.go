package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Measurement struct {
	Type  MeasurementType `gorm:"type:varchar(8)" json:"type"`
	Value int             `json:"value"`
}

// DateInfo is the freshness date printed on the item. Date is always stored
// as midnight UTC of the printed calendar day.
type DateInfo struct {
	Type DateType  `gorm:"type:varchar(16);index" json:"dateType"`
	Date time.Time `gorm:"index" json:"date"`
}

type DonationItem struct {
	ID                 uuid.UUID          `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt          time.Time          `gorm:"index" json:"dateCreated"`
	UpdatedAt          time.Time          `json:"updated_at"`
	UserID             uuid.UUID          `gorm:"type:varchar(36);index;not null" json:"userId"`
	Name               string             `gorm:"size:255;not null" json:"name"`
	Description        string             `gorm:"type:text" json:"description"`
	Category           Category           `gorm:"type:varchar(16);index" json:"category"`
	StorageRequirement StorageRequirement `gorm:"type:varchar(16)" json:"storageRequirement"`
	Measurement        Measurement        `gorm:"embedded;embeddedPrefix:measurement_" json:"measurement"`
	DateInfo           DateInfo           `gorm:"embedded;embeddedPrefix:date_" json:"dateInfo"`
	Address            Address            `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	ImageFilename      string             `gorm:"size:255" json:"imageFilename"`
	Status             DonationStatus     `gorm:"type:varchar(16);index;not null" json:"status"`

	Owner *User `gorm:"foreignKey:UserID" json:"-"`
}

func (d *DonationItem) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.Status == "" {
		d.Status = DonationAvailable
	}
	return nil
}

// DonationItemSummary is an owner's item with the number of requests made for it.
type DonationItemSummary struct {
	DonationItem
	RequestCount int64
}
