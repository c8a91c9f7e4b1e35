package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/model"
	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/upstream"
)

// QuotaNotice is shown alongside degraded favourites.
const QuotaNotice = "Your favourites are saved, but recipe details are unavailable until the recipe API quota resets."

var ErrInvalidRecipeID = errors.New("recipe id must be a positive integer")

// DegradedRecord stands in for a favourite whose details could not be fetched.
type DegradedRecord struct {
	ID             int    `json:"id"`
	Title          string `json:"title"`
	APIUnavailable bool   `json:"apiUnavailable"`
}

func newDegradedRecord(id int) *DegradedRecord {
	return &DegradedRecord{
		ID:             id,
		Title:          fmt.Sprintf("Recipe #%d", id),
		APIUnavailable: true,
	}
}

// ResolvedFavourite is either the full upstream record or a DegradedRecord.
// It is built per request and never written back to the store.
type ResolvedFavourite struct {
	ID       int
	Detail   json.RawMessage
	Degraded *DegradedRecord
}

// IsDegraded reports whether f carries placeholder data.
func (f ResolvedFavourite) IsDegraded() bool {
	return f.Degraded != nil
}

func (f ResolvedFavourite) MarshalJSON() ([]byte, error) {
	if f.Degraded != nil {
		return json.Marshal(f.Degraded)
	}
	if len(f.Detail) == 0 {
		return []byte("null"), nil
	}
	return f.Detail, nil
}

// ResolvedFavourites is the response for a favourites listing.
type ResolvedFavourites struct {
	Results        []ResolvedFavourite `json:"results"`
	APIUnavailable bool                `json:"apiUnavailable,omitempty"`
	Message        string              `json:"message,omitempty"`
}

// FavouritesResolver turns stored favourite ids into displayable records.
type FavouritesResolver struct {
	fetcher RecipeFetcher
	logger  *zap.Logger
}

// NewFavouritesResolver creates a new FavouritesResolver instance
func NewFavouritesResolver(fetcher RecipeFetcher, logger *zap.Logger) *FavouritesResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FavouritesResolver{fetcher: fetcher, logger: logger}
}

// Resolve returns exactly one record per id, in the order given. When the
// upstream quota is exhausted every record is degraded instead of failing, so
// favourites never appear to vanish. Any other upstream error is returned.
func (r *FavouritesResolver) Resolve(ctx context.Context, ids []int) (*ResolvedFavourites, error) {
	if len(ids) == 0 {
		return &ResolvedFavourites{Results: []ResolvedFavourite{}}, nil
	}

	body, err := r.fetcher.Fetch(ctx, upstream.EndpointInformationBulk, upstream.BulkParams(ids))
	if err != nil {
		if errors.Is(err, upstream.ErrQuotaExceeded) {
			r.logger.Warn("serving degraded favourites", zap.Int("count", len(ids)), zap.Error(err))
			return degraded(ids), nil
		}
		return nil, fmt.Errorf("failed to resolve favourites: %w", err)
	}

	var records []json.RawMessage
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("failed to decode bulk recipe details: %w", err)
	}

	byID := make(map[int]json.RawMessage, len(records))
	for _, raw := range records {
		var head struct {
			ID int `json:"id"`
		}
		if err := json.Unmarshal(raw, &head); err != nil || head.ID == 0 {
			continue
		}
		byID[head.ID] = raw
	}

	results := make([]ResolvedFavourite, 0, len(ids))
	for _, id := range ids {
		if raw, ok := byID[id]; ok {
			results = append(results, ResolvedFavourite{ID: id, Detail: raw})
			continue
		}
		r.logger.Debug("favourite missing from bulk response", zap.Int("recipe_id", id))
		results = append(results, ResolvedFavourite{ID: id, Degraded: newDegradedRecord(id)})
	}
	return &ResolvedFavourites{Results: results}, nil
}

func degraded(ids []int) *ResolvedFavourites {
	results := make([]ResolvedFavourite, len(ids))
	for i, id := range ids {
		results[i] = ResolvedFavourite{ID: id, Degraded: newDegradedRecord(id)}
	}
	return &ResolvedFavourites{
		Results:        results,
		APIUnavailable: true,
		Message:        QuotaNotice,
	}
}

// FavouritesService manages a user's favourites.
type FavouritesService struct {
	store    FavouriteStore
	resolver *FavouritesResolver
}

// NewFavouritesService creates a new FavouritesService instance
func NewFavouritesService(store FavouriteStore, resolver *FavouritesResolver) *FavouritesService {
	return &FavouritesService{store: store, resolver: resolver}
}

// List returns the user's favourites with recipe details.
func (s *FavouritesService) List(ctx context.Context, userID uuid.UUID) (*ResolvedFavourites, error) {
	ids, err := s.store.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.resolver.Resolve(ctx, ids)
}

// Add favourites recipeID for the user.
func (s *FavouritesService) Add(ctx context.Context, userID uuid.UUID, recipeID int) (*model.Favourite, error) {
	if recipeID <= 0 {
		return nil, ErrInvalidRecipeID
	}
	return s.store.Create(ctx, userID, recipeID)
}

// Remove drops recipeID from the user's favourites.
func (s *FavouritesService) Remove(ctx context.Context, userID uuid.UUID, recipeID int) error {
	if recipeID <= 0 {
		return ErrInvalidRecipeID
	}
	return s.store.Delete(ctx, userID, recipeID)
}
