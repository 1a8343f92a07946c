package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/foodshare/foodshare/internal/models"
	"github.com/foodshare/foodshare/internal/store"
)

// Clock returns the current time. Services take one so tests can pin "today".
type Clock func() time.Time

// UTCClock is the production clock.
func UTCClock() time.Time { return time.Now().UTC() }

// ImageStore persists uploaded images under a key.
type ImageStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// SessionBackend keeps server-side session records.
type SessionBackend interface {
	Create(ctx context.Context, userID uuid.UUID, ttl time.Duration) (uuid.UUID, error)
	// Lookup returns the user of a live session or ErrUnauthorized.
	Lookup(ctx context.Context, sessionID uuid.UUID) (uuid.UUID, error)
	Delete(ctx context.Context, sessionID uuid.UUID) error
}

// IDonationItemService is the donation item lifecycle and catalogue.
type IDonationItemService interface {
	Accept(ctx context.Context, id uuid.UUID) error
	Complete(ctx context.Context, id uuid.UUID) error
	FindEligibleForShop(ctx context.Context, f store.ShopFilter) ([]models.DonationItem, error)
	Create(ctx context.Context, ownerID uuid.UUID, in DonationItemInput, image *Upload) (*models.DonationItem, error)
	Update(ctx context.Context, id uuid.UUID, in DonationItemInput, image *Upload) (*models.DonationItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*models.DonationItem, error)
	GetManaged(ctx context.Context, id uuid.UUID, actor *models.SessionUser) (*models.DonationItem, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.DonationItemSummary, error)
	ListAll(ctx context.Context) ([]models.DonationItemSummary, error)
	ImageURL(filename string) string
}

// IRequestService is the request lifecycle.
type IRequestService interface {
	Create(ctx context.Context, userID uuid.UUID, in NewRequestInput) (*models.Request, error)
	Accept(ctx context.Context, id uuid.UUID) error
	AcceptForItem(ctx context.Context, itemID, requestID uuid.UUID) error
	Complete(ctx context.Context, id uuid.UUID) error
	RejectOthers(ctx context.Context, itemID, keepID uuid.UUID) error
	Cancel(ctx context.Context, id, userID uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID, viewer *models.SessionUser) (*RequestDetail, error)
	GetForItem(ctx context.Context, itemID, requestID uuid.UUID) (*models.Request, error)
	FindByDonationItem(ctx context.Context, itemID uuid.UUID) ([]models.Request, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]models.Request, error)
	CountByDonationItem(ctx context.Context, itemID uuid.UUID) (int64, error)
}

// IAuthService covers local and Google sign-in.
type IAuthService interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	LoginWithGoogle(ctx context.Context, p GoogleProfile) (*models.User, error)
}

// IUserService covers profile editing and user administration.
type IUserService interface {
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	Create(ctx context.Context, in UserInput) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, in UserInput) (*models.User, error)
	Delete(ctx context.Context, id uuid.UUID, actor *models.SessionUser) error
	UpdateProfile(ctx context.Context, actor *models.SessionUser, id uuid.UUID, in ProfileInput) (*models.User, error)
}

// IContactService stores contact form messages.
type IContactService interface {
	Create(ctx context.Context, in ContactInput) (*models.Contact, error)
	List(ctx context.Context) ([]models.Contact, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Contact, error)
}

// ISessionService issues and resolves session cookies.
type ISessionService interface {
	Issue(ctx context.Context, user *models.User) (string, error)
	Resolve(ctx context.Context, token string) (*models.SessionUser, error)
	Revoke(ctx context.Context, token string) error
	TTL() time.Duration
}
