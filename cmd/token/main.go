// Command token prints a bearer token for calling the API when JWT_SECRET is set.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/pageza/fridgechef/backend/config"
	"github.com/pageza/fridgechef/backend/internal/logger"
	"github.com/pageza/fridgechef/backend/internal/middleware"
)

func main() {
	userFlag := flag.String("user", "", "User ID to issue the token for (default: a new random ID)")
	ttl := flag.Duration("ttl", 24*time.Hour, "Token lifetime")
	flag.Parse()

	_ = godotenv.Load()
	// stdout carries only the token.
	logger.Logger.SetOutput(os.Stderr)
	log := logger.Component("token")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	logger.Configure(cfg.LogLevel, nil)
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set; the API accepts anonymous requests")
	}

	userID := uuid.New()
	if *userFlag != "" {
		userID, err = uuid.Parse(*userFlag)
		if err != nil {
			log.WithError(err).Fatal("Invalid user ID")
		}
	}

	token, err := middleware.NewJWTValidator(cfg.JWTSecret).GenerateToken(userID, *ttl)
	if err != nil {
		log.WithError(err).Fatal("Failed to issue token")
	}
	log.WithField("user_id", userID).Infof("Issued token valid for %s", *ttl)
	fmt.Println(token)
}
