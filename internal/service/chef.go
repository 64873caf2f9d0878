package service

import (
	"context"
	"time"

	"github.com/pageza/fridgechef/backend/config"
	"github.com/pageza/fridgechef/backend/internal/logger"
	"github.com/pageza/fridgechef/backend/internal/model"
	"github.com/sirupsen/logrus"
)

const archiveTimeout = 30 * time.Second

// Chef turns fridge photos into ingredients and ingredients into recipes.
type Chef interface {
	AnalyzeImage(ctx context.Context, image []byte) ([]model.Ingredient, error)
	GenerateRecipes(ctx context.Context, names []string) ([]model.Recipe, error)
}

// ChefService calls the model endpoint: build, send, extract. Calls share
// nothing but the read-only config.
type ChefService struct {
	builder    *RequestBuilder
	transport  ChatTransport
	extractor  *ResponseExtractor
	normalizer *ImageNormalizer
	archive    PhotoArchiver
	log        *logrus.Entry
}

// NewChefService creates a ChefService. archive may be nil.
func NewChefService(cfg config.ModelConfig, transport ChatTransport, archive PhotoArchiver) *ChefService {
	return &ChefService{
		builder:    NewRequestBuilder(cfg),
		transport:  transport,
		extractor:  NewResponseExtractor(),
		normalizer: NewImageNormalizer(cfg.MaxImageDimension),
		archive:    archive,
		log:        logger.Component("chef"),
	}
}

// NewChef returns the FallbackChef when fallback data is enabled, otherwise
// a ChefService talking to the configured endpoint.
func NewChef(cfg config.ModelConfig, archive PhotoArchiver) Chef {
	if cfg.UseFallbackData {
		logger.Component("chef").Info("using fallback data, model calls disabled")
		return NewFallbackChef(cfg.FallbackDelay)
	}
	logger.Component("chef").WithFields(logrus.Fields{
		"base_url": cfg.BaseURL,
		"api_key":  cfg.MaskedKey(),
	}).Info("using model endpoint")
	return NewChefService(cfg, NewHTTPTransport(cfg, nil), archive)
}

// AnalyzeImage detects the food items in a photo.
func (s *ChefService) AnalyzeImage(ctx context.Context, image []byte) ([]model.Ingredient, error) {
	if err := s.builder.CheckCredential(); err != nil {
		return nil, err
	}

	jpeg, err := s.normalizer.Normalize(image)
	if err != nil {
		return nil, err
	}

	req, err := s.builder.ImageAnalysis(jpeg)
	if err != nil {
		return nil, err
	}

	raw, err := s.transport.Send(ctx, req)
	if err != nil {
		return nil, err
	}

	s.archivePhoto(ctx, jpeg)

	ingredients, err := s.extractor.Ingredients(raw)
	if err != nil {
		s.log.WithError(err).Warn("could not extract ingredients")
		return nil, err
	}
	s.log.WithField("count", len(ingredients)).Info("analyzed image")
	return ingredients, nil
}

// GenerateRecipes suggests recipes for the given ingredient names.
func (s *ChefService) GenerateRecipes(ctx context.Context, names []string) ([]model.Recipe, error) {
	req, err := s.builder.RecipeGeneration(names)
	if err != nil {
		return nil, err
	}

	raw, err := s.transport.Send(ctx, req)
	if err != nil {
		return nil, err
	}

	recipes, err := s.extractor.Recipes(raw)
	if err != nil {
		s.log.WithError(err).Warn("could not extract recipes")
		return nil, err
	}
	s.log.WithField("count", len(recipes)).Info("generated recipes")
	return recipes, nil
}

// archivePhoto uploads in the background; failures are only logged.
func (s *ChefService) archivePhoto(ctx context.Context, jpeg []byte) {
	if s.archive == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), archiveTimeout)
	go func() {
		defer cancel()
		url, err := s.archive.Archive(ctx, jpeg)
		if err != nil {
			s.log.WithError(err).Warn("failed to archive photo")
			return
		}
		s.log.WithField("url", url).Debug("archived photo")
	}()
}
