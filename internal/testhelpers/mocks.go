package testhelpers

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/model"
)

// MockFetcher is a mock implementation of the upstream fetcher
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Fetch(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	args := m.Called(ctx, endpoint, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

// MockFavouriteStore is a mock implementation of the favourite store
type MockFavouriteStore struct {
	mock.Mock
}

func (m *MockFavouriteStore) Create(ctx context.Context, userID uuid.UUID, recipeID int) (*model.Favourite, error) {
	args := m.Called(ctx, userID, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Favourite), args.Error(1)
}

func (m *MockFavouriteStore) List(ctx context.Context, userID uuid.UUID) ([]int, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func (m *MockFavouriteStore) Delete(ctx context.Context, userID uuid.UUID, recipeID int) error {
	args := m.Called(ctx, userID, recipeID)
	return args.Error(0)
}
