package model

import (
	"time"

	"github.com/google/uuid"
)

// Favourite records that a user saved an upstream recipe. It is the source of
// truth for what is favourited; recipe details are always fetched upstream.
type Favourite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_favourites_user_recipe" json:"userId"`
	RecipeID  int       `gorm:"not null;uniqueIndex:idx_favourites_user_recipe" json:"recipeId"`
}

func (Favourite) TableName() string {
	return "favourites"
}
