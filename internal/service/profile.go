package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/foodshare/foodshare/internal/models"
)

// ProfileInput is what users may change about themselves.
type ProfileInput struct {
	FirstName string
	LastName  string
	Email     string
	Mobile    string
	Address   models.Address
}

// UpdateProfile saves the signed-in user's own details and re-geocodes their
// address. Editing anyone else is forbidden; role and score are untouched.
func (s *UserService) UpdateProfile(ctx context.Context, actor *models.SessionUser, id uuid.UUID, in ProfileInput) (*models.User, error) {
	if actor == nil || actor.ID != id {
		return nil, newError(ErrForbidden, "You can only edit your own profile")
	}
	fields, err := s.userFields(ctx, in.FirstName, in.LastName, in.Email, in.Mobile, in.Address)
	if err != nil {
		return nil, err
	}
	user, err := s.update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	s.logger.WithField("user_id", id).Info("profile updated")
	return user, nil
}
