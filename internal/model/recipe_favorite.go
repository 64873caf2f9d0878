package model

import (
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// RecipeFavorite is a recipe a user saved. The recipe itself lives in
// Payload; Name, Description and Tags are copied out for lookups.
type RecipeFavorite struct {
	ID          uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	UserID      uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_name" json:"user_id"`
	Name        string           `gorm:"size:255;not null;uniqueIndex:idx_favorite_user_name" json:"name"`
	Description string           `gorm:"type:text" json:"description"`
	Tags        JSONBStringArray `gorm:"type:text" json:"tags"`
	Payload     RecipePayload    `gorm:"type:text;not null" json:"-"`
	Embedding   pgvector.Vector  `gorm:"type:vector(3)" json:"-"`
}

func (RecipeFavorite) TableName() string {
	return "recipe_favorites"
}

// BeforeCreate assigns an ID when none was set.
func (f *RecipeFavorite) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// Recipe returns a copy of the stored recipe.
func (f RecipeFavorite) Recipe() Recipe {
	return Recipe(f.Payload).Clone()
}
