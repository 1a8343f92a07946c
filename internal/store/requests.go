package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodshare/foodshare/internal/models"
)

type RequestStore struct {
	Repository[models.Request]
}

// Exists reports whether userID already has a request for the item.
func (s *RequestStore) Exists(ctx context.Context, donationItemID, userID uuid.UUID) (bool, error) {
	var req models.Request
	err := s.DB(ctx).Select("id").
		Where("donation_item_id = ? AND user_id = ?", donationItemID, userID).
		First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// FindByDonationItem returns the item's requests with the requester attached, newest first.
func (s *RequestStore) FindByDonationItem(ctx context.Context, donationItemID uuid.UUID) ([]models.Request, error) {
	var reqs []models.Request
	err := s.DB(ctx).Preload("User").
		Where("donation_item_id = ?", donationItemID).
		Order("date_requested DESC").
		Find(&reqs).Error
	if err != nil {
		return nil, err
	}
	return reqs, nil
}

// FindByUser returns the user's requests with their donation item attached, newest first.
func (s *RequestStore) FindByUser(ctx context.Context, userID uuid.UUID) ([]models.Request, error) {
	var reqs []models.Request
	err := s.DB(ctx).Preload("DonationItem").
		Where("user_id = ?", userID).
		Order("date_requested DESC").
		Find(&reqs).Error
	if err != nil {
		return nil, err
	}
	return reqs, nil
}

func (s *RequestStore) CountByDonationItem(ctx context.Context, donationItemID uuid.UUID) (int64, error) {
	return s.Count(ctx, "donation_item_id = ?", donationItemID)
}

// CountByDonationItems returns request counts keyed by item id. Items with
// no requests are absent from the map.
func (s *RequestStore) CountByDonationItems(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []struct {
		DonationItemID uuid.UUID
		N              int64
	}
	err := s.DB(ctx).Model(&models.Request{}).
		Select("donation_item_id, COUNT(*) AS n").
		Where("donation_item_id IN ?", ids).
		Group("donation_item_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.DonationItemID] = r.N
	}
	return out, nil
}

// RejectOthers marks every request for the item except keepID as REJECTED
// and returns how many changed.
func (s *RequestStore) RejectOthers(ctx context.Context, donationItemID, keepID uuid.UUID) (int64, error) {
	res := s.DB(ctx).Model(&models.Request{}).
		Where("donation_item_id = ? AND id <> ?", donationItemID, keepID).
		Update("status", models.RequestRejected)
	return res.RowsAffected, res.Error
}

// SetStatusIf moves the request to status only if it is currently in one of from.
func (s *RequestStore) SetStatusIf(ctx context.Context, id uuid.UUID, status models.RequestStatus, from ...models.RequestStatus) (bool, error) {
	res := s.DB(ctx).Model(&models.Request{}).
		Where("id = ? AND status IN ?", id, from).
		Update("status", status)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
