package main

import (
	"flag"

	"github.com/pageza/fridgechef/backend/config"
	"github.com/pageza/fridgechef/backend/internal/database"
	"github.com/pageza/fridgechef/backend/internal/logger"
)

func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	flag.Parse()

	log := logger.Component("migrate")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	logger.Configure(cfg.LogLevel, nil)

	db, err := database.Open(cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	if *rollback {
		name, err := database.RollbackLast(db)
		if err != nil {
			log.WithError(err).Fatal("Rollback failed")
		}
		log.Infof("Successfully rolled back migration: %s", name)
		return
	}

	if err := database.RunMigrations(db); err != nil {
		log.WithError(err).Fatal("Migration failed")
	}
	log.Info("All migrations applied successfully.")
}
