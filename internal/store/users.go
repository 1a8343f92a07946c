package store

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodshare/foodshare/internal/models"
)

type UserStore struct {
	Repository[models.User]
}

// FindByEmail looks the user up case-insensitively; emails are stored lower-cased.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.DB(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *UserStore) FindByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	var users []models.User
	if err := s.DB(ctx).Where("role = ?", role).Order("last_name, first_name").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// FindAllSorted lists users by surname for the admin screens.
func (s *UserStore) FindAllSorted(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.DB(ctx).Order("last_name, first_name, email").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// FindByIDs returns the users keyed by id; unknown ids are skipped.
func (s *UserStore) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.User, error) {
	out := make(map[uuid.UUID]*models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []models.User
	if err := s.DB(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for i := range users {
		out[users[i].ID] = &users[i]
	}
	return out, nil
}

// IncrementScore adds delta to the user's score in a single statement.
func (s *UserStore) IncrementScore(ctx context.Context, id uuid.UUID, delta int) error {
	res := s.DB(ctx).Model(&models.User{}).Where("id = ?", id).
		UpdateColumn("score", gorm.Expr("score + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
