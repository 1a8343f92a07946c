package store

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/foodshare/foodshare/internal/models"
)

// ShopFilter narrows the shop listing. The day counts say how far past a
// best-before or production date an item may be and still be listed.
type ShopFilter struct {
	DaysAfterBestBefore int
	DaysAfterProduction int
	Category            models.Category
	SearchTerm          string
}

type DonationItemStore struct {
	Repository[models.DonationItem]
}

// FindByOwner returns the user's items, newest first.
func (s *DonationItemStore) FindByOwner(ctx context.Context, userID uuid.UUID) ([]models.DonationItem, error) {
	var items []models.DonationItem
	if err := s.DB(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindNewest returns every item with its owner attached, newest first.
func (s *DonationItemStore) FindNewest(ctx context.Context) ([]models.DonationItem, error) {
	var items []models.DonationItem
	if err := s.DB(ctx).Preload("Owner").Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindNotOutOfDate returns AVAILABLE items that are still fresh enough to be
// offered relative to today (midnight UTC), newest first.
func (s *DonationItemStore) FindNotOutOfDate(ctx context.Context, f ShopFilter, today time.Time) ([]models.DonationItem, error) {
	bestBefore := today.AddDate(0, 0, -f.DaysAfterBestBefore)
	produced := today.AddDate(0, 0, -f.DaysAfterProduction)

	fresh := s.db.
		Where("date_type = ? AND date_date >= ?", models.DateUseBy, today).
		Or("date_type = ? AND date_date >= ?", models.DateBestBefore, bestBefore).
		Or("date_type = ? AND date_date >= ?", models.DateProductionDate, produced)

	q := s.DB(ctx).Where("status = ?", models.DonationAvailable).Where(fresh)
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if term := strings.TrimSpace(f.SearchTerm); term != "" {
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(term))+"%")
	}

	var items []models.DonationItem
	if err := q.Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// SetStatusIf moves the item to status only if it is currently in one of
// from. It reports whether a row changed.
func (s *DonationItemStore) SetStatusIf(ctx context.Context, id uuid.UUID, status models.DonationStatus, from ...models.DonationStatus) (bool, error) {
	res := s.DB(ctx).Model(&models.DonationItem{}).
		Where("id = ? AND status IN ?", id, from).
		Update("status", status)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
