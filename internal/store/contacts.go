package store

import (
	"context"

	"github.com/foodshare/foodshare/internal/models"
)

type ContactStore struct {
	Repository[models.Contact]
}

// FindRecent lists messages newest first.
func (s *ContactStore) FindRecent(ctx context.Context) ([]models.Contact, error) {
	var contacts []models.Contact
	if err := s.DB(ctx).Order("sent_at DESC").Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}
