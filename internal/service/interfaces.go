package service

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/google/uuid"

	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/model"
)

// RecipeFetcher is the part of the upstream client the services depend on.
type RecipeFetcher interface {
	Fetch(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error)
}

// FavouriteStore persists which recipes each user has favourited.
type FavouriteStore interface {
	Create(ctx context.Context, userID uuid.UUID, recipeID int) (*model.Favourite, error)
	// List returns recipe ids in the order they were favourited.
	List(ctx context.Context, userID uuid.UUID) ([]int, error)
	Delete(ctx context.Context, userID uuid.UUID, recipeID int) error
}
