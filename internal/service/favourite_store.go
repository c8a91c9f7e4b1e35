package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/model"
)

// ErrUniqueConstraint is returned when a record already exists.
var ErrUniqueConstraint = errors.New("unique constraint violation")

// GormFavouriteStore is the database-backed FavouriteStore.
type GormFavouriteStore struct {
	db *gorm.DB
}

// NewFavouriteStore creates a new GormFavouriteStore instance
func NewFavouriteStore(db *gorm.DB) *GormFavouriteStore {
	return &GormFavouriteStore{db: db}
}

// Create saves a favourite, returning ErrUniqueConstraint if it already exists.
func (s *GormFavouriteStore) Create(ctx context.Context, userID uuid.UUID, recipeID int) (*model.Favourite, error) {
	fav := &model.Favourite{UserID: userID, RecipeID: recipeID}
	if err := s.db.WithContext(ctx).Create(fav).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("favourite %d: %w", recipeID, ErrUniqueConstraint)
		}
		return nil, fmt.Errorf("failed to create favourite: %w", err)
	}
	return fav, nil
}

// List returns the user's favourite recipe ids, oldest first.
func (s *GormFavouriteStore) List(ctx context.Context, userID uuid.UUID) ([]int, error) {
	ids := []int{}
	err := s.db.WithContext(ctx).
		Model(&model.Favourite{}).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list favourites: %w", err)
	}
	return ids, nil
}

// Delete removes a favourite. Removing one that does not exist is not an error.
func (s *GormFavouriteStore) Delete(ctx context.Context, userID uuid.UUID, recipeID int) error {
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&model.Favourite{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete favourite: %w", err)
	}
	return nil
}

// isUniqueViolation recognises duplicate-key errors from either driver,
// whether or not gorm's error translation is enabled.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
