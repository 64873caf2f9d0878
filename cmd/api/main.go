package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/pageza/fridgechef/backend/config"
	"github.com/pageza/fridgechef/backend/internal/database"
	"github.com/pageza/fridgechef/backend/internal/logger"
	"github.com/pageza/fridgechef/backend/internal/middleware"
	"github.com/pageza/fridgechef/backend/internal/router"
	"github.com/pageza/fridgechef/backend/internal/server"
	"github.com/pageza/fridgechef/backend/internal/service"
	"github.com/redis/go-redis/v9"
)

func main() {
	log := logger.Component("main")

	env := config.GetEnvironment()
	if env == config.Development {
		// A missing .env is fine; the environment may already be set.
		if err := godotenv.Load(); err != nil {
			log.Debug("no .env file loaded")
		}
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	logger.Configure(cfg.LogLevel, nil)
	gin.SetMode(env.GinMode())

	db, err := database.Open(cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	if err := database.RunMigrations(db); err != nil {
		log.WithError(err).Fatal("Failed to run migrations")
	}

	var redisClient *redis.Client
	if cfg.RateLimitPerHour > 0 {
		redisClient, err = database.NewRedisClient(cfg)
		if err != nil {
			log.WithError(err).Warn("Redis unavailable, rate limiting disabled")
		} else {
			defer redisClient.Close()
		}
	}

	var archive service.PhotoArchiver
	s3Config, err := config.NewS3Config(context.Background(), cfg)
	if err != nil {
		log.WithError(err).Warn("S3 unavailable, photo archive disabled")
	} else if s3Config != nil {
		archive = service.NewS3PhotoArchive(s3Config)
	}

	var validator middleware.TokenValidator
	if cfg.JWTSecret != "" {
		validator = middleware.NewJWTValidator(cfg.JWTSecret)
	}

	r := router.SetupRouter(router.Dependencies{
		DB:             db,
		Chef:           service.NewChef(cfg.Model(), archive),
		Favorites:      service.NewFavoriteService(db),
		Validator:      validator,
		RateLimiter:    middleware.NewModelCallRateLimiter(redisClient, cfg.RateLimitPerHour),
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})
	srv := server.New(cfg, r)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		log.Infof("Starting server on %s", cfg.ServerAddress())
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.WithError(err).Fatal("Server error")
		}
		return
	case sig := <-quit:
		log.Infof("Received signal: %v", sig)
	}

	log.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("Server shutdown error")
	}
	log.Info("Server stopped")
}
