package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/foodshare/foodshare/internal/models"
	"github.com/foodshare/foodshare/internal/store"
)

// RegisterInput is the self-service sign-up form.
type RegisterInput struct {
	FirstName string
	LastName  string
	Mobile    string
	Email     string
	Password  string
}

// GoogleProfile is the part of a Google account used to sign in.
type GoogleProfile struct {
	Subject   string
	Email     string
	FirstName string
	LastName  string
}

type AuthService struct {
	store      *store.Context
	bcryptCost int
	logger     *logrus.Logger
}

var _ IAuthService = (*AuthService)(nil)

func NewAuthService(s *store.Context, bcryptCost int, logger *logrus.Logger) *AuthService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{store: s, bcryptCost: bcryptCost, logger: logger}
}

// Register creates a DONATOR account with a zero score.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	hash, err := HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        normaliseEmail(in.Email),
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Mobile:       strings.TrimSpace(in.Mobile),
		Role:         models.RoleDonator,
	}
	if err := s.store.Users.Insert(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, newError(ErrConflict, "A user with this email already exists")
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.logger.WithField("user_id", user.ID).Info("user registered")
	return user, nil
}

// Authenticate checks an email and password. Unknown emails and wrong
// passwords both return ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.store.Users.FindByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	// Accounts created through Google have no password.
	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// LoginWithGoogle returns the user with the profile's email, creating a
// DONATOR on first sign-in.
func (s *AuthService) LoginWithGoogle(ctx context.Context, p GoogleProfile) (*models.User, error) {
	if p.Email == "" {
		return nil, newError(ErrUnauthorized, "Google account has no email address")
	}

	user, err := s.store.Users.FindByEmail(ctx, p.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	user = &models.User{
		Email:     normaliseEmail(p.Email),
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Role:      models.RoleDonator,
	}
	if err := s.store.Users.Insert(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"user_id": user.ID, "google_sub": p.Subject}).Info("user created from google sign-in")
	return user, nil
}

// HashPassword bcrypt-hashes a password at cost.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
