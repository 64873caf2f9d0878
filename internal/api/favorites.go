package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pageza/fridgechef/backend/internal/middleware"
	"github.com/pageza/fridgechef/backend/internal/model"
	"github.com/pageza/fridgechef/backend/internal/service"
)

// FavoritesHandler serves the caller's saved recipes.
type FavoritesHandler struct {
	favorites *service.FavoriteService
}

// NewFavoritesHandler creates a new favorites handler
func NewFavoritesHandler(favorites *service.FavoriteService) *FavoritesHandler {
	return &FavoritesHandler{favorites: favorites}
}

// RegisterRoutes registers the favorites routes
func (h *FavoritesHandler) RegisterRoutes(router *gin.RouterGroup) {
	favorites := router.Group("/favorites")
	{
		favorites.GET("", h.ListFavorites)
		favorites.POST("", h.SaveFavorite)
		favorites.POST("/toggle", h.ToggleFavorite)
		favorites.GET("/status", h.FavoriteStatus)
		favorites.GET("/:id", h.GetFavorite)
		favorites.DELETE("/:id", h.DeleteFavorite)
	}
}

// ListFavorites lists favorites, filtered by ?q= and ?tag= when present.
func (h *FavoritesHandler) ListFavorites(c *gin.Context) {
	userID := middleware.UserID(c)
	query, tag := c.Query("q"), c.Query("tag")

	var (
		favs []model.RecipeFavorite
		err  error
	)
	if query != "" || (tag != "" && tag != model.AllTags) {
		favs, err = h.favorites.Search(c.Request.Context(), userID, query, tag)
	} else {
		favs, err = h.favorites.List(c.Request.Context(), userID)
	}
	if err != nil {
		_ = c.Error(err)
		return
	}

	out := make([]FavoriteResponse, len(favs))
	for i := range favs {
		out[i] = newFavoriteResponse(&favs[i])
	}
	c.JSON(http.StatusOK, gin.H{"favorites": out})
}

// SaveFavorite stores the posted recipe.
func (h *FavoritesHandler) SaveFavorite(c *gin.Context) {
	var recipe model.Recipe
	if err := c.ShouldBindJSON(&recipe); err != nil {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: "invalid recipe"})
		return
	}

	fav, err := h.favorites.Save(c.Request.Context(), middleware.UserID(c), recipe)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, newFavoriteResponse(fav))
}

// ToggleFavorite adds or removes the posted recipe.
func (h *FavoritesHandler) ToggleFavorite(c *gin.Context) {
	var recipe model.Recipe
	if err := c.ShouldBindJSON(&recipe); err != nil {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: "invalid recipe"})
		return
	}

	isFavorite, fav, err := h.favorites.Toggle(c.Request.Context(), middleware.UserID(c), recipe)
	if err != nil {
		_ = c.Error(err)
		return
	}

	resp := ToggleFavoriteResponse{IsFavorite: isFavorite}
	if fav != nil {
		f := newFavoriteResponse(fav)
		resp.Favorite = &f
	}
	c.JSON(http.StatusOK, resp)
}

// FavoriteStatus reports whether ?name= is one of the caller's favorites.
func (h *FavoritesHandler) FavoriteStatus(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: "name is required"})
		return
	}

	isFavorite, err := h.favorites.IsFavorite(c.Request.Context(), middleware.UserID(c), name)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, FavoriteStatusResponse{Name: name, IsFavorite: isFavorite})
}

// GetFavorite returns one favorite.
func (h *FavoritesHandler) GetFavorite(c *gin.Context) {
	id, ok := favoriteID(c)
	if !ok {
		return
	}

	fav, err := h.favorites.Get(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, newFavoriteResponse(fav))
}

// DeleteFavorite removes one favorite.
func (h *FavoritesHandler) DeleteFavorite(c *gin.Context) {
	id, ok := favoriteID(c)
	if !ok {
		return
	}

	if err := h.favorites.Delete(c.Request.Context(), middleware.UserID(c), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func favoriteID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: "invalid favorite ID"})
		return uuid.Nil, false
	}
	return id, true
}
