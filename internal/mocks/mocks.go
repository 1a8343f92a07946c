package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/foodshare/foodshare/internal/models"
)

// MockGeocoder is a mock implementation of geo.Geocoder
type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Geocode(ctx context.Context, addr models.Address) (*models.Coordinates, error) {
	args := m.Called(ctx, addr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Coordinates), args.Error(1)
}

// MockImageStore is a mock implementation of service.ImageStore
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Put(ctx context.Context, key, contentType string, data []byte) error {
	args := m.Called(ctx, key, contentType, data)
	return args.Error(0)
}

func (m *MockImageStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockImageStore) URL(key string) string {
	args := m.Called(key)
	return args.String(0)
}
