package database

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/pageza/fridgechef/backend/internal/logger"
	"github.com/pageza/fridgechef/backend/internal/model"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// RunMigrations brings the schema up to date. Postgres applies the embedded
// SQL files once each, in name order; sqlite uses GORM auto-migration.
func RunMigrations(db *gorm.DB) error {
	log := logger.Component("migrate")

	if db.Dialector.Name() == "sqlite" {
		log.Info("Using GORM auto-migration for SQLite")
		return db.AutoMigrate(&model.RecipeFavorite{})
	}

	names, err := migrationNames()
	if err != nil {
		return err
	}
	if err := ensureMigrationsTable(db); err != nil {
		return err
	}

	for _, name := range names {
		// Check if migration has already been applied
		var count int64
		if err := db.Table("migrations").Where("name = ?", name).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if count > 0 {
			log.Debugf("Skipping migration %s (already applied)", name)
			continue
		}

		content, err := migrationFiles.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", name, err)
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(string(content)).Error; err != nil {
				return fmt.Errorf("failed to execute migration %s: %w", name, err)
			}
			if err := tx.Exec("INSERT INTO migrations (name) VALUES (?)", name).Error; err != nil {
				return fmt.Errorf("failed to record migration %s: %w", name, err)
			}
			return nil
		})
		if err != nil {
			return err
		}

		log.Infof("Applied migration %s", name)
	}

	return nil
}

// RollbackLast reverts the most recently applied migration using its
// _rollback.sql counterpart. It returns the name of the reverted migration.
func RollbackLast(db *gorm.DB) (string, error) {
	if db.Dialector.Name() == "sqlite" {
		return "", fmt.Errorf("rollback is not supported for sqlite")
	}
	if err := ensureMigrationsTable(db); err != nil {
		return "", err
	}

	var last struct{ Name string }
	result := db.Table("migrations").Select("name").Order("applied_at DESC, id DESC").Limit(1).Scan(&last)
	if result.Error != nil {
		return "", fmt.Errorf("failed to get last migration: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return "", fmt.Errorf("no migrations to rollback")
	}

	rollbackFile := strings.TrimSuffix(last.Name, ".sql") + rollbackSuffix
	content, err := migrationFiles.ReadFile("migrations/" + rollbackFile)
	if err != nil {
		return "", fmt.Errorf("rollback file not found: %s", rollbackFile)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(string(content)).Error; err != nil {
			return fmt.Errorf("failed to execute rollback: %w", err)
		}
		if err := tx.Exec("DELETE FROM migrations WHERE name = ?", last.Name).Error; err != nil {
			return fmt.Errorf("failed to remove migration record: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	logger.Component("migrate").Infof("Rolled back migration %s", last.Name)
	return last.Name, nil
}

const rollbackSuffix = "_rollback.sql"

// migrationNames lists the forward migrations in apply order.
func migrationNames() ([]string, error) {
	paths, err := fs.Glob(migrationFiles, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}
	var names []string
	for _, p := range paths {
		name := strings.TrimPrefix(p, "migrations/")
		if strings.HasSuffix(name, rollbackSuffix) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func ensureMigrationsTable(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`).Error; err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}
