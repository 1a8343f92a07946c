package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/foodshare/foodshare/internal/geo"
	"github.com/foodshare/foodshare/internal/metrics"
	"github.com/foodshare/foodshare/internal/models"
	"github.com/foodshare/foodshare/internal/store"
)

// BestBeforeGraceDays is how old a best-before date may be when an item is listed.
const BestBeforeGraceDays = 7

// DonationItemInput is the editable part of a donation item.
type DonationItemInput struct {
	Name               string
	Description        string
	Category           models.Category
	StorageRequirement models.StorageRequirement
	Measurement        models.Measurement
	DateInfo           models.DateInfo
	// Address is only used on create; an item keeps its pickup address.
	Address models.Address
}

// ValidateDateInfo applies the listing rules for item dates relative to today
// (midnight UTC): use-by dates cannot be past, best-before dates may be at
// most a week old and production dates cannot be in the future.
func ValidateDateInfo(d models.DateInfo, today time.Time) error {
	date := d.Date.UTC().Truncate(24 * time.Hour)
	switch d.Type {
	case models.DateUseBy:
		if date.Before(today) {
			return &ValidationError{Field: "date", Message: "'Use by' dates cannot be in the past."}
		}
	case models.DateBestBefore:
		if date.Before(today.AddDate(0, 0, -BestBeforeGraceDays)) {
			return &ValidationError{Field: "date", Message: "'Best before' dates cannot be more than 7 days old."}
		}
	case models.DateProductionDate:
		if date.After(today) {
			return &ValidationError{Field: "date", Message: "'Production date' cannot be in the future."}
		}
	default:
		return &ValidationError{Field: "dateType", Message: fmt.Sprintf("unknown date type %q", d.Type)}
	}
	return nil
}

// Today returns midnight UTC of the clock's current day.
func Today(clock Clock) time.Time {
	return clock().UTC().Truncate(24 * time.Hour)
}

// DonationItemService owns the donation item lifecycle.
type DonationItemService struct {
	store    *store.Context
	images   *ImageService
	geocoder geo.Geocoder
	clock    Clock
	logger   *logrus.Logger
}

var _ IDonationItemService = (*DonationItemService)(nil)

// NewDonationItemService creates a new DonationItemService instance
func NewDonationItemService(s *store.Context, images *ImageService, geocoder geo.Geocoder, clock Clock, logger *logrus.Logger) *DonationItemService {
	return &DonationItemService{
		store:    s,
		images:   images,
		geocoder: geocoder,
		clock:    clock,
		logger:   logger,
	}
}

// Accept claims an AVAILABLE item. Nothing but the status changes.
func (s *DonationItemService) Accept(ctx context.Context, id uuid.UUID) error {
	return acceptItem(ctx, s.store, id)
}

func acceptItem(ctx context.Context, s *store.Context, id uuid.UUID) error {
	item, err := s.DonationItems.FindByID(ctx, id)
	if err != nil {
		return notFound(err, "donation item")
	}
	if item.Status == models.DonationClaimed || item.Status == models.DonationCompleted {
		return newError(ErrInvalidState, "donation item already claimed or completed")
	}

	ok, err := s.DonationItems.SetStatusIf(ctx, id, models.DonationClaimed, models.DonationAvailable)
	if err != nil {
		return fmt.Errorf("failed to claim donation item: %w", err)
	}
	if !ok {
		return newError(ErrInvalidState, "donation item already claimed or completed")
	}
	metrics.Transition("donation_item", models.DonationClaimed)
	return nil
}

// Complete moves a CLAIMED item to COMPLETED.
func (s *DonationItemService) Complete(ctx context.Context, id uuid.UUID) error {
	return completeItem(ctx, s.store, id)
}

func completeItem(ctx context.Context, s *store.Context, id uuid.UUID) error {
	item, err := s.DonationItems.FindByID(ctx, id)
	if err != nil {
		return notFound(err, "donation item")
	}
	if item.Status != models.DonationClaimed {
		return newError(ErrInvalidState, "donation item is not claimed")
	}

	ok, err := s.DonationItems.SetStatusIf(ctx, id, models.DonationCompleted, models.DonationClaimed)
	if err != nil {
		return fmt.Errorf("failed to complete donation item: %w", err)
	}
	if !ok {
		return newError(ErrInvalidState, "donation item is not claimed")
	}
	metrics.Transition("donation_item", models.DonationCompleted)
	return nil
}

// FindEligibleForShop lists AVAILABLE items that are fresh enough for pantries.
func (s *DonationItemService) FindEligibleForShop(ctx context.Context, f store.ShopFilter) ([]models.DonationItem, error) {
	if f.DaysAfterBestBefore < 0 || f.DaysAfterProduction < 0 {
		return nil, &ValidationError{Field: "days", Message: "day offsets cannot be negative"}
	}
	items, err := s.store.DonationItems.FindNotOutOfDate(ctx, f, Today(s.clock))
	if err != nil {
		return nil, fmt.Errorf("failed to list shop items: %w", err)
	}
	return items, nil
}

// Create lists a new item for ownerID. An image is required.
func (s *DonationItemService) Create(ctx context.Context, ownerID uuid.UUID, in DonationItemInput, image *Upload) (*models.DonationItem, error) {
	if err := ValidateDateInfo(in.DateInfo, Today(s.clock)); err != nil {
		return nil, err
	}
	if image == nil {
		return nil, &ValidationError{Field: "image", Message: "Image file is required"}
	}

	coords, err := locate(ctx, s.geocoder, in.Address)
	if err != nil {
		return nil, err
	}

	filename, err := s.images.Save(ctx, image)
	if err != nil {
		return nil, err
	}

	item := &models.DonationItem{
		UserID:             ownerID,
		Name:               in.Name,
		Description:        in.Description,
		Category:           in.Category,
		StorageRequirement: in.StorageRequirement,
		Measurement:        in.Measurement,
		DateInfo:           normaliseDate(in.DateInfo),
		Address:            in.Address,
		ImageFilename:      filename,
		Status:             models.DonationAvailable,
	}
	item.Address.SetCoordinates(coords)

	if err := s.store.DonationItems.Insert(ctx, item); err != nil {
		s.images.Remove(ctx, filename)
		return nil, fmt.Errorf("failed to create donation item: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"item_id": item.ID, "user_id": ownerID}).Info("donation item created")
	return item, nil
}

// Update replaces the editable fields, and the image when a new one is given.
func (s *DonationItemService) Update(ctx context.Context, id uuid.UUID, in DonationItemInput, image *Upload) (*models.DonationItem, error) {
	current, err := s.store.DonationItems.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "donation item")
	}
	if err := ValidateDateInfo(in.DateInfo, Today(s.clock)); err != nil {
		return nil, err
	}

	di := normaliseDate(in.DateInfo)
	fields := map[string]any{
		"name":                in.Name,
		"description":         in.Description,
		"category":            in.Category,
		"storage_requirement": in.StorageRequirement,
		"measurement_type":    in.Measurement.Type,
		"measurement_value":   in.Measurement.Value,
		"date_type":           di.Type,
		"date_date":           di.Date,
	}

	var newImage, oldImage string
	if image != nil {
		filename, err := s.images.Save(ctx, image)
		if err != nil {
			return nil, err
		}
		fields["image_filename"] = filename
		newImage, oldImage = filename, current.ImageFilename
	}

	updated, err := s.store.DonationItems.Update(ctx, id, fields)
	if err != nil {
		s.images.Remove(ctx, newImage)
		return nil, notFound(err, "donation item")
	}
	if oldImage != "" {
		s.images.Remove(ctx, oldImage)
	}
	return updated, nil
}

// Delete removes an item and its image. Items that still have requests are
// kept so no request is left pointing at nothing.
func (s *DonationItemService) Delete(ctx context.Context, id uuid.UUID) error {
	var removed *models.DonationItem
	err := s.store.Transaction(ctx, func(tx *store.Context) error {
		n, err := tx.Requests.CountByDonationItem(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return newError(ErrConflict, "donation item has %d request(s) and cannot be deleted", n)
		}
		removed, err = tx.DonationItems.Remove(ctx, id)
		return notFound(err, "donation item")
	})
	if err != nil {
		return err
	}

	s.images.Remove(ctx, removed.ImageFilename)
	s.logger.WithField("item_id", id).Info("donation item deleted")
	return nil
}

func (s *DonationItemService) Get(ctx context.Context, id uuid.UUID) (*models.DonationItem, error) {
	item, err := s.store.DonationItems.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "donation item")
	}
	return item, nil
}

// GetManaged returns the item if actor owns it or is an admin.
func (s *DonationItemService) GetManaged(ctx context.Context, id uuid.UUID, actor *models.SessionUser) (*models.DonationItem, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor == nil || (item.UserID != actor.ID && actor.Role != models.RoleAdmin) {
		return nil, newError(ErrForbidden, "you do not manage this donation item")
	}
	return item, nil
}

// ListByOwner returns the owner's items with their request counts.
func (s *DonationItemService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.DonationItemSummary, error) {
	items, err := s.store.DonationItems.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list donation items: %w", err)
	}
	return s.summarise(ctx, items)
}

// ListAll returns every item with its request count, newest first.
func (s *DonationItemService) ListAll(ctx context.Context) ([]models.DonationItemSummary, error) {
	items, err := s.store.DonationItems.FindNewest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list donation items: %w", err)
	}
	return s.summarise(ctx, items)
}

func (s *DonationItemService) summarise(ctx context.Context, items []models.DonationItem) ([]models.DonationItemSummary, error) {
	ids := make([]uuid.UUID, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	counts, err := s.store.Requests.CountByDonationItems(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count requests: %w", err)
	}

	out := make([]models.DonationItemSummary, len(items))
	for i := range items {
		out[i] = models.DonationItemSummary{DonationItem: items[i], RequestCount: counts[items[i].ID]}
	}
	return out, nil
}

func (s *DonationItemService) ImageURL(filename string) string {
	return s.images.URL(filename)
}

func normaliseDate(d models.DateInfo) models.DateInfo {
	y, m, day := d.Date.Date()
	d.Date = time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	return d
}
