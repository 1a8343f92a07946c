package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/foodshare/foodshare/internal/models"
	"github.com/foodshare/foodshare/internal/store"
)

// ContactInput is a message from the contact form.
type ContactInput struct {
	Name    string
	Email   string
	Message string
}

type ContactService struct {
	store *store.Context
}

var _ IContactService = (*ContactService)(nil)

func NewContactService(s *store.Context) *ContactService {
	return &ContactService{store: s}
}

func (s *ContactService) Create(ctx context.Context, in ContactInput) (*models.Contact, error) {
	contact := &models.Contact{
		Name:    strings.TrimSpace(in.Name),
		Email:   normaliseEmail(in.Email),
		Message: strings.TrimSpace(in.Message),
	}
	if err := s.store.Contacts.Insert(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to save contact message: %w", err)
	}
	return contact, nil
}

func (s *ContactService) List(ctx context.Context) ([]models.Contact, error) {
	return s.store.Contacts.FindRecent(ctx)
}

func (s *ContactService) Get(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	c, err := s.store.Contacts.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Contact")
	}
	return c, nil
}
