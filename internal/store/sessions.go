package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/foodshare/foodshare/internal/models"
)

type SessionStore struct {
	Repository[models.Session]
}

// FindActive returns the session if it exists and has not expired at now.
func (s *SessionStore) FindActive(ctx context.Context, id uuid.UUID, now time.Time) (*models.Session, error) {
	var sess models.Session
	if err := s.DB(ctx).Where("id = ? AND expires_at > ?", id, now).First(&sess).Error; err != nil {
		return nil, translate(err)
	}
	return &sess, nil
}

// DeleteByUser drops every session of the user, e.g. when the user is deleted.
func (s *SessionStore) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return s.DB(ctx).Where("user_id = ?", userID).Delete(&models.Session{}).Error
}

// DeleteExpired removes sessions that expired before now.
func (s *SessionStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := s.DB(ctx).Where("expires_at <= ?", now).Delete(&models.Session{})
	return res.RowsAffected, res.Error
}
