package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pageza/fridgechef/backend/config"
	"github.com/pageza/fridgechef/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLiteAndMigrate(t *testing.T) {
	cfg := config.Defaults()
	cfg.SQLitePath = filepath.Join(t.TempDir(), "fridgechef.db")

	db, err := Open(cfg)
	require.NoError(t, err)
	require.NoError(t, RunMigrations(db))
	require.NoError(t, RunMigrations(db))

	assert.True(t, db.Migrator().HasTable(&model.RecipeFavorite{}))
	assert.NoError(t, HealthCheck(context.Background(), db))
}

func TestOpenUnknownDriver(t *testing.T) {
	cfg := config.Defaults()
	cfg.DBDriver = "oracle"
	_, err := Open(cfg)
	assert.Error(t, err)
}

func TestPostgresDSN(t *testing.T) {
	cfg := config.Defaults()
	cfg.DBUser = "chef"
	cfg.DBPassword = "secret"
	assert.Equal(t,
		"host=localhost port=5432 user=chef password=secret dbname=fridgechef sslmode=disable",
		PostgresDSN(cfg))
}

func TestRedisOptions(t *testing.T) {
	cfg := config.Defaults()
	cfg.RedisPassword = "pw"
	cfg.RedisDB = 2

	opts, err := RedisOptions(cfg)
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 2, opts.DB)

	cfg.RedisURL = "redis://:urlpw@cache:6380/3"
	opts, err = RedisOptions(cfg)
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, 3, opts.DB)

	cfg.RedisURL = "http://nope"
	_, err = RedisOptions(cfg)
	assert.Error(t, err)
}

func TestMigrationNames(t *testing.T) {
	names, err := migrationNames()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"001_create_recipe_favorites.sql",
		"002_index_favorites_created_at.sql",
	}, names)

	for _, name := range names {
		_, err := migrationFiles.ReadFile("migrations/" + name[:len(name)-len(".sql")] + rollbackSuffix)
		assert.NoError(t, err, "missing rollback for %s", name)
	}
}

func TestRollbackSQLite(t *testing.T) {
	cfg := config.Defaults()
	cfg.SQLitePath = filepath.Join(t.TempDir(), "fridgechef.db")
	db, err := Open(cfg)
	require.NoError(t, err)

	_, err = RollbackLast(db)
	assert.Error(t, err)
}
