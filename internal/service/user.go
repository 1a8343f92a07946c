package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/foodshare/foodshare/internal/geo"
	"github.com/foodshare/foodshare/internal/models"
	"github.com/foodshare/foodshare/internal/store"
)

// UserInput is the admin user form. Password is only read on create.
type UserInput struct {
	FirstName string
	LastName  string
	Role      models.Role
	Address   models.Address
	Email     string
	Mobile    string
	Password  string
}

// UserService handles user administration and profile editing
type UserService struct {
	store      *store.Context
	geocoder   geo.Geocoder
	bcryptCost int
	logger     *logrus.Logger
}

var _ IUserService = (*UserService)(nil)

// NewUserService creates a new UserService instance
func NewUserService(s *store.Context, geocoder geo.Geocoder, bcryptCost int, logger *logrus.Logger) *UserService {
	return &UserService{store: s, geocoder: geocoder, bcryptCost: bcryptCost, logger: logger}
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.store.Users.FindAllSorted(ctx)
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := s.store.Users.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "User")
	}
	return u, nil
}

func (s *UserService) Create(ctx context.Context, in UserInput) (*models.User, error) {
	hash, err := HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	coords, err := locate(ctx, s.geocoder, in.Address)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        normaliseEmail(in.Email),
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Mobile:       strings.TrimSpace(in.Mobile),
		Role:         in.Role,
		Address:      in.Address,
	}
	user.Address.SetCoordinates(coords)

	if err := s.store.Users.Insert(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, newError(ErrConflict, "A user with this email already exists")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	s.logger.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("user created")
	return user, nil
}

// Update lets an admin change any user's details, role included.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, in UserInput) (*models.User, error) {
	fields, err := s.userFields(ctx, in.FirstName, in.LastName, in.Email, in.Mobile, in.Address)
	if err != nil {
		return nil, err
	}
	fields["role"] = in.Role
	return s.update(ctx, id, fields)
}

// Delete removes a user and their sessions. Admins cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID, actor *models.SessionUser) error {
	if actor != nil && actor.ID == id {
		return newError(ErrForbidden, "You cannot delete your own account")
	}
	err := s.store.Transaction(ctx, func(tx *store.Context) error {
		if _, err := tx.Users.Remove(ctx, id); err != nil {
			return notFound(err, "User")
		}
		return tx.Sessions.DeleteByUser(ctx, id)
	})
	if err != nil {
		return err
	}
	s.logger.WithField("user_id", id).Info("user deleted")
	return nil
}

func (s *UserService) userFields(ctx context.Context, first, last, email, mobile string, addr models.Address) (map[string]any, error) {
	coords, err := locate(ctx, s.geocoder, addr)
	if err != nil {
		return nil, err
	}
	addr.SetCoordinates(coords)

	return map[string]any{
		"first_name":        strings.TrimSpace(first),
		"last_name":         strings.TrimSpace(last),
		"email":             normaliseEmail(email),
		"mobile":            strings.TrimSpace(mobile),
		"address_street":    addr.Street,
		"address_city":      addr.City,
		"address_postcode":  addr.Postcode,
		"address_latitude":  addr.Latitude,
		"address_longitude": addr.Longitude,
	}, nil
}

func (s *UserService) update(ctx context.Context, id uuid.UUID, fields map[string]any) (*models.User, error) {
	user, err := s.store.Users.Update(ctx, id, fields)
	switch {
	case errors.Is(err, store.ErrDuplicate):
		return nil, newError(ErrConflict, "A user with this email already exists")
	case err != nil:
		return nil, notFound(err, "User")
	}
	return user, nil
}
