package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points secrets lookups at an empty directory and clears variables
// that a developer shell might carry.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("SECRETS_DIR", t.TempDir())
	for _, key := range []string{
		"OPENAI_API_KEY", "OPENAI_API_KEY_FILE", "CONFIG_FILE", "ENV", "CI",
		"USE_FALLBACK_DATA", "OPENAI_TIMEOUT", "DB_DRIVER",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig(t *testing.T) {
	isolate(t)
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_USER", "postgres")
	t.Setenv("DB_PASSWORD", "postgres")
	t.Setenv("DB_NAME", "fridgechef_test")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("OPENAI_API_KEY", "sk-test-1234567890")
	t.Setenv("OPENAI_TIMEOUT", "15s")
	t.Setenv("RECIPE_MAX_TOKENS", "1500")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "db", cfg.DBHost)
	assert.Equal(t, "5433", cfg.DBPort)
	assert.Equal(t, "postgres", cfg.DBUser)
	assert.Equal(t, "postgres", cfg.DBPassword)
	assert.Equal(t, "fridgechef_test", cfg.DBName)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)

	model := cfg.Model()
	assert.Equal(t, "sk-test-1234567890", model.APIKey)
	assert.Equal(t, 15*time.Second, model.Timeout)
	assert.Equal(t, 1500, model.RecipeMaxTokens)
	assert.Equal(t, DefaultImageAnalysisMaxTokens, model.ImageAnalysisMaxTokens)
	assert.True(t, model.HasCredential())
}

func TestLoadConfigWithDefaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	model := cfg.Model()
	assert.Equal(t, DefaultOpenAIBaseURL, model.BaseURL)
	assert.Equal(t, "gpt-4-vision-preview", model.ImageModel)
	assert.Equal(t, "gpt-4", model.TextModel)
	assert.Equal(t, 1000, model.ImageAnalysisMaxTokens)
	assert.Equal(t, 2000, model.RecipeMaxTokens)
	assert.False(t, model.UseFallbackData)
	assert.False(t, model.HasCredential())
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "0.0.0.0:8080", cfg.ServerAddress())
}

func TestLoadConfigLayering(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(
		"server_port: \"9000\"\ntext_model: gpt-4o\nrequest_timeout: 30s\nuse_fallback_data: true\n",
	), 0o600))
	t.Setenv("CONFIG_FILE", file)

	t.Run("file overrides defaults", func(t *testing.T) {
		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "9000", cfg.ServerPort)
		assert.Equal(t, "gpt-4o", cfg.TextModel)
		assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
		assert.True(t, cfg.UseFallbackData)
	})

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("OPENAI_TEXT_MODEL", "gpt-4-turbo")
		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "gpt-4-turbo", cfg.TextModel)
	})

	t.Run("secret overrides env", func(t *testing.T) {
		secrets := t.TempDir()
		t.Setenv("SECRETS_DIR", secrets)
		t.Setenv("OPENAI_API_KEY", "sk-from-env-000")
		require.NoError(t, os.WriteFile(filepath.Join(secrets, "openai_api_key"), []byte("sk-from-secret-111\n"), 0o600))

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "sk-from-secret-111", cfg.OpenAIAPIKey)
	})
}

func TestAPIKeyFile(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	t.Run("reads key from file", func(t *testing.T) {
		path := filepath.Join(dir, "key")
		require.NoError(t, os.WriteFile(path, []byte("  sk-file-abcdef  \n"), 0o600))
		t.Setenv("OPENAI_API_KEY_FILE", path)

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "sk-file-abcdef", cfg.OpenAIAPIKey)
	})

	t.Run("empty file is an error", func(t *testing.T) {
		path := filepath.Join(dir, "empty")
		require.NoError(t, os.WriteFile(path, []byte("\n"), 0o600))
		t.Setenv("OPENAI_API_KEY_FILE", path)

		_, err := LoadConfig()
		assert.Error(t, err)
	})
}

func TestValidateConfig(t *testing.T) {
	isolate(t)

	t.Run("bad values are all reported", func(t *testing.T) {
		cfg := Defaults()
		cfg.ServerPort = "http"
		cfg.OpenAIBaseURL = "not a url"
		cfg.RecipeMaxTokens = 0
		cfg.DBDriver = "mysql"

		err := ValidateConfig(cfg)
		require.Error(t, err)

		var errs ValidationErrors
		require.ErrorAs(t, err, &errs)
		fields := make([]string, 0, len(errs))
		for _, e := range errs {
			fields = append(fields, e.Field)
		}
		assert.ElementsMatch(t, []string{"SERVER_PORT", "OPENAI_BASE_URL", "RECIPE_MAX_TOKENS", "DB_DRIVER"}, fields)
	})

	t.Run("production requires credentials", func(t *testing.T) {
		t.Setenv("ENV", "production")
		cfg := Defaults()
		assert.Error(t, ValidateConfig(cfg))

		cfg.OpenAIAPIKey = "sk-prod-000000"
		cfg.JWTSecret = "s3cret"
		assert.NoError(t, ValidateConfig(cfg))
	})

	t.Run("production fallback mode needs no key", func(t *testing.T) {
		t.Setenv("ENV", "production")
		cfg := Defaults()
		cfg.UseFallbackData = true
		cfg.JWTSecret = "s3cret"
		assert.NoError(t, ValidateConfig(cfg))
	})
}

func TestModelConfigCredential(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		want   bool
		masked string
	}{
		{"empty", "", false, "<unset>"},
		{"whitespace", "   ", false, "<unset>"},
		{"placeholder", "your-openai-api-key-here", false, "<unset>"},
		{"short", "sk-1", true, "****"},
		{"real", "sk-abcdefghijklmnop", true, "sk-...mnop"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ModelConfig{APIKey: tt.key}
			assert.Equal(t, tt.want, m.HasCredential())
			assert.Equal(t, tt.masked, m.MaskedKey())
		})
	}
}

func TestModelTrimsAPIKey(t *testing.T) {
	cfg := Defaults()
	cfg.OpenAIAPIKey = "  sk-abcdefghijklmnop\n"

	m := cfg.Model()
	assert.Equal(t, "sk-abcdefghijklmnop", m.APIKey)
	assert.True(t, m.HasCredential())
}

func TestEnvironmentGinMode(t *testing.T) {
	assert.Equal(t, "release", Production.GinMode())
	assert.Equal(t, "test", CI.GinMode())
	assert.Equal(t, "debug", Development.GinMode())
}
