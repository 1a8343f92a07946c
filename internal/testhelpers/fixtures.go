package testhelpers

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/foodshare/foodshare/internal/models"
)

// TestPassword is the plain-text password of every user made by CreateUser.
const TestPassword = "password123"

// Today returns midnight UTC of the current day, matching how item dates are stored.
func Today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}

func ptr[T any](v T) *T { return &v }

// CreateUser inserts a user with the given role and a geocoded Glasgow address.
func CreateUser(t *testing.T, db *gorm.DB, role models.Role) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	id := uuid.New()
	user := &models.User{
		ID:           id,
		Email:        id.String()[:8] + "@example.com",
		PasswordHash: string(hash),
		FirstName:    "Test",
		LastName:     string(role),
		Mobile:       "0123456789",
		Role:         role,
		Address: models.Address{
			Street:    "210 Garscube Rd",
			City:      "Glasgow",
			Postcode:  "G4 9RR",
			Latitude:  ptr(55.871611),
			Longitude: ptr(-4.260784),
		},
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

// CreateItem inserts an AVAILABLE donation item owned by owner. Options mutate
// the item before it is stored.
func CreateItem(t *testing.T, db *gorm.DB, owner *models.User, opts ...func(*models.DonationItem)) *models.DonationItem {
	t.Helper()

	item := &models.DonationItem{
		UserID:             owner.ID,
		Name:               "Broccoli",
		Description:        "Fresh green broccoli",
		Category:           models.CategoryVegetable,
		StorageRequirement: models.StorageAmbient,
		Measurement:        models.Measurement{Type: models.MeasurementKG, Value: 1},
		DateInfo:           models.DateInfo{Type: models.DateBestBefore, Date: Today().AddDate(0, 0, 3)},
		Address:            owner.Address,
		ImageFilename:      "broccoli.jpg",
		Status:             models.DonationAvailable,
	}
	for _, opt := range opts {
		opt(item)
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("failed to create donation item: %v", err)
	}
	return item
}

// CreateRequest inserts a request by requester for item with the given status.
func CreateRequest(t *testing.T, db *gorm.DB, requester *models.User, item *models.DonationItem, status models.RequestStatus) *models.Request {
	t.Helper()

	req := &models.Request{
		UserID:         requester.ID,
		DonationItemID: item.ID,
		DeliveryMethod: models.DeliveryCollect,
		Address:        requester.Address,
		Status:         status,
	}
	if err := db.Create(req).Error; err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	return req
}
