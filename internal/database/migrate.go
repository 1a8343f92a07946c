package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/foodshare/foodshare/internal/models"
)

// Models lists every persisted collection.
func Models() []any {
	return []any{
		&models.User{},
		&models.DonationItem{},
		&models.Request{},
		&models.Contact{},
		&models.Session{},
	}
}

// RunMigrations brings the schema up to date with the models.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
