package api

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pageza/fridgechef/backend/internal/middleware"
	"github.com/pageza/fridgechef/backend/internal/model"
	"github.com/pageza/fridgechef/backend/internal/service"
)

// maxImageUpload caps photo uploads at 20 MiB.
const maxImageUpload = 20 << 20

// ChefHandler exposes image analysis and recipe generation.
type ChefHandler struct {
	chef        service.Chef
	rateLimiter *middleware.RateLimiter
}

// NewChefHandler creates a new chef handler. rateLimiter may be nil.
func NewChefHandler(chef service.Chef, rateLimiter *middleware.RateLimiter) *ChefHandler {
	return &ChefHandler{chef: chef, rateLimiter: rateLimiter}
}

// RegisterRoutes registers the model-backed routes. Both count against the
// caller's rate limit.
func (h *ChefHandler) RegisterRoutes(router *gin.RouterGroup) {
	limit := h.rateLimiter.RateLimitMiddleware()
	router.POST("/ingredients/analyze", limit, h.AnalyzeImage)
	router.POST("/recipes/generate", limit, h.GenerateRecipes)
}

// AnalyzeImage accepts a multipart "image" field or a raw image body.
func (h *ChefHandler) AnalyzeImage(c *gin.Context) {
	data, err := readImage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{
			Error: err.Error(),
			Kind:  string(service.KindInvalidImage),
		})
		return
	}

	ingredients, err := h.chef.AnalyzeImage(c.Request.Context(), data)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, AnalyzeImageResponse{
		Ingredients: newIngredientResponses(ingredients),
		Names:       model.IngredientNames(ingredients),
	})
}

// GenerateRecipes suggests recipes for the posted ingredient names.
func (h *ChefHandler) GenerateRecipes(c *gin.Context) {
	var req GenerateRecipesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: "ingredients list is required"})
		return
	}

	recipes, err := h.chef.GenerateRecipes(c.Request.Context(), req.Ingredients)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, GenerateRecipesResponse{Recipes: newRecipeResponses(recipes)})
}

func readImage(c *gin.Context) ([]byte, error) {
	var r io.Reader
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("image")
		if err != nil {
			return nil, errors.New("image field is required")
		}
		if fh.Size > maxImageUpload {
			return nil, errors.New("image is too large")
		}
		f, err := fh.Open()
		if err != nil {
			return nil, errors.New("could not read image")
		}
		defer f.Close()
		r = f
	} else {
		r = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageUpload)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.New("could not read image")
	}
	if len(data) == 0 {
		return nil, errors.New("image is required")
	}
	return data, nil
}
