package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in one pass.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "\n")
}

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	if p, err := strconv.Atoi(strings.TrimSpace(cfg.ServerPort)); err != nil || p < 1 || p > 65535 {
		add("SERVER_PORT", fmt.Sprintf("invalid port %q", cfg.ServerPort))
	}

	if u, err := url.Parse(cfg.OpenAIBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		add("OPENAI_BASE_URL", fmt.Sprintf("invalid URL %q", cfg.OpenAIBaseURL))
	}
	if cfg.ImageModel == "" {
		add("OPENAI_IMAGE_MODEL", "must not be empty")
	}
	if cfg.TextModel == "" {
		add("OPENAI_TEXT_MODEL", "must not be empty")
	}
	if cfg.ImageAnalysisMaxTokens <= 0 {
		add("IMAGE_ANALYSIS_MAX_TOKENS", "must be > 0")
	}
	if cfg.RecipeMaxTokens <= 0 {
		add("RECIPE_MAX_TOKENS", "must be > 0")
	}
	if cfg.RequestTimeout <= 0 {
		add("OPENAI_TIMEOUT", "must be > 0")
	}
	if cfg.MaxImageDimension <= 0 {
		add("MAX_IMAGE_DIMENSION", "must be > 0")
	}
	if cfg.FallbackDelay < 0 {
		add("FALLBACK_DELAY", "must not be negative")
	}

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DBHost == "" || cfg.DBName == "" {
			add("DB_HOST", "postgres driver requires DB_HOST and DB_NAME")
		}
	case "sqlite":
		if cfg.SQLitePath == "" {
			add("SQLITE_PATH", "sqlite driver requires a path")
		}
	default:
		add("DB_DRIVER", fmt.Sprintf("unknown driver %q", cfg.DBDriver))
	}

	if cfg.RateLimitPerHour < 0 {
		add("RATE_LIMIT_PER_HOUR", "must not be negative")
	}

	// A missing API key is not fatal in development: every model call fails
	// fast with a missing-credential error instead.
	if GetEnvironment() == Production {
		if !cfg.UseFallbackData && !cfg.Model().HasCredential() {
			add("OPENAI_API_KEY", "openai_api_key secret is required in production")
		}
		if cfg.JWTSecret == "" {
			add("JWT_SECRET", "jwt_secret secret is required in production")
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
