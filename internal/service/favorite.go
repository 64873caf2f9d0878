package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pageza/fridgechef/backend/internal/logger"
	"github.com/pageza/fridgechef/backend/internal/model"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrFavoriteNotFound is returned when a favorite does not exist for the user.
	ErrFavoriteNotFound = errors.New("favorite not found")
	// ErrInvalidFavorite is returned for recipes that cannot be stored.
	ErrInvalidFavorite = errors.New("invalid favorite")
)

// FavoriteService stores users' favorite recipes. Favorites are keyed by
// user and recipe name.
type FavoriteService struct {
	db  *gorm.DB
	log *logrus.Entry
}

// NewFavoriteService creates a new FavoriteService instance
func NewFavoriteService(db *gorm.DB) *FavoriteService {
	return &FavoriteService{
		db:  db,
		log: logger.Component("favorites"),
	}
}

// Save stores recipe as a favorite, replacing any favorite with the same name.
func (s *FavoriteService) Save(ctx context.Context, userID uuid.UUID, recipe model.Recipe) (*model.RecipeFavorite, error) {
	name := strings.TrimSpace(recipe.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: recipe name is required", ErrInvalidFavorite)
	}
	recipe.Name = name

	var fav model.RecipeFavorite
	err := s.db.WithContext(ctx).Where("user_id = ? AND name = ?", userID, name).First(&fav).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		fav = model.RecipeFavorite{UserID: userID, Name: name}
	case err != nil:
		return nil, fmt.Errorf("failed to look up favorite: %w", err)
	}

	fillFavorite(&fav, recipe)

	if err := s.db.WithContext(ctx).Save(&fav).Error; err != nil {
		return nil, fmt.Errorf("failed to save favorite: %w", err)
	}
	s.log.WithFields(logrus.Fields{"user_id": userID, "favorite_id": fav.ID}).Debug("saved favorite")
	return &fav, nil
}

// Get retrieves one favorite.
func (s *FavoriteService) Get(ctx context.Context, userID, id uuid.UUID) (*model.RecipeFavorite, error) {
	var fav model.RecipeFavorite
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&fav).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFavoriteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get favorite: %w", err)
	}
	return &fav, nil
}

// Delete removes one favorite.
func (s *FavoriteService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&model.RecipeFavorite{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete favorite: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrFavoriteNotFound
	}
	return nil
}

// List returns the user's favorites, newest first.
func (s *FavoriteService) List(ctx context.Context, userID uuid.UUID) ([]model.RecipeFavorite, error) {
	var favs []model.RecipeFavorite
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favs).Error; err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return favs, nil
}

// IsFavorite reports whether the user has a favorite with this name.
func (s *FavoriteService) IsFavorite(ctx context.Context, userID uuid.UUID, name string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&model.RecipeFavorite{}).
		Where("user_id = ? AND name = ?", userID, strings.TrimSpace(name)).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return count > 0, nil
}

// Toggle saves the recipe if it is not a favorite and removes it if it is.
// It reports whether the recipe is a favorite afterwards.
func (s *FavoriteService) Toggle(ctx context.Context, userID uuid.UUID, recipe model.Recipe) (bool, *model.RecipeFavorite, error) {
	name := strings.TrimSpace(recipe.Name)
	if name == "" {
		return false, nil, fmt.Errorf("%w: recipe name is required", ErrInvalidFavorite)
	}
	recipe.Name = name

	var fav *model.RecipeFavorite
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND name = ?", userID, name).Delete(&model.RecipeFavorite{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			return nil
		}
		created, err := insertFavorite(tx, userID, recipe)
		if err != nil {
			return err
		}
		fav = created
		return nil
	})
	if err != nil {
		return false, nil, fmt.Errorf("failed to toggle favorite: %w", err)
	}
	return fav != nil, fav, nil
}

// insertFavorite adds recipe for the user. If a row with the same name
// already exists, for example from a concurrent toggle, that row is
// returned instead.
func insertFavorite(tx *gorm.DB, userID uuid.UUID, recipe model.Recipe) (*model.RecipeFavorite, error) {
	for attempt := 0; attempt < 3; attempt++ {
		fav := model.RecipeFavorite{UserID: userID, Name: recipe.Name}
		fillFavorite(&fav, recipe)

		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "name"}},
			DoNothing: true,
		}).Create(&fav)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected > 0 {
			return &fav, nil
		}

		var existing model.RecipeFavorite
		err := tx.Where("user_id = ? AND name = ?", userID, recipe.Name).First(&existing).Error
		if err == nil {
			return &existing, nil
		}
		// The conflicting row was removed before it could be read.
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("favorite %q changed concurrently", recipe.Name)
}

func fillFavorite(fav *model.RecipeFavorite, recipe model.Recipe) {
	fav.Description = recipe.Description
	fav.Tags = model.JSONBStringArray(recipe.Tags)
	fav.Payload = model.RecipePayload(recipe.Clone())
	fav.Embedding = RecipeEmbedding(recipe)
}

// Search filters the user's favorites by text query and tag. On Postgres a
// non-empty query orders results by embedding distance; otherwise newest
// first.
func (s *FavoriteService) Search(ctx context.Context, userID uuid.UUID, query, tag string) ([]model.RecipeFavorite, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if strings.TrimSpace(query) != "" && s.db.Dialector.Name() == "postgres" {
		vec := GenerateEmbedding(query)
		q = q.Clauses(clause.OrderBy{
			Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{vec}},
		})
	} else {
		q = q.Order("created_at DESC")
	}

	var favs []model.RecipeFavorite
	if err := q.Find(&favs).Error; err != nil {
		return nil, fmt.Errorf("failed to search favorites: %w", err)
	}

	out := make([]model.RecipeFavorite, 0, len(favs))
	for _, f := range favs {
		if len(model.FilterRecipes([]model.Recipe{f.Recipe()}, query, tag)) == 1 {
			out = append(out, f)
		}
	}
	return out, nil
}
