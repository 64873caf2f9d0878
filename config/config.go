package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultOpenAIBaseURL          = "https://api.openai.com/v1"
	DefaultImageModel             = "gpt-4-vision-preview"
	DefaultTextModel              = "gpt-4"
	DefaultImageAnalysisMaxTokens = 1000
	DefaultRecipeMaxTokens        = 2000

	// placeholderAPIKey is the value shipped in sample configs.
	placeholderAPIKey = "your-openai-api-key-here"
)

// ModelConfig is the read-only view of the model endpoint settings. It is
// passed by value to the request builder and transport so nothing downstream
// can change it after startup.
type ModelConfig struct {
	APIKey                 string
	BaseURL                string
	ImageModel             string
	TextModel              string
	ImageAnalysisMaxTokens int
	RecipeMaxTokens        int
	Timeout                time.Duration
	MaxImageDimension      int
	UseFallbackData        bool
	FallbackDelay          time.Duration
}

// HasCredential reports whether a usable API key is configured.
func (m ModelConfig) HasCredential() bool {
	key := strings.TrimSpace(m.APIKey)
	return key != "" && key != placeholderAPIKey
}

// MaskedKey returns the key in a form that is safe to log.
func (m ModelConfig) MaskedKey() string {
	if !m.HasCredential() {
		return "<unset>"
	}
	if len(m.APIKey) <= 8 {
		return "****"
	}
	return m.APIKey[:3] + "..." + m.APIKey[len(m.APIKey)-4:]
}

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string `yaml:"server_port"`
	ServerHost string `yaml:"server_host"`

	// Model endpoint configuration
	OpenAIAPIKey           string        `yaml:"-"`
	OpenAIBaseURL          string        `yaml:"openai_base_url"`
	ImageModel             string        `yaml:"image_model"`
	TextModel              string        `yaml:"text_model"`
	ImageAnalysisMaxTokens int           `yaml:"image_analysis_max_tokens"`
	RecipeMaxTokens        int           `yaml:"recipe_max_tokens"`
	RequestTimeout         time.Duration `yaml:"request_timeout"`
	MaxImageDimension      int           `yaml:"max_image_dimension"`

	// Feature flags
	UseFallbackData bool          `yaml:"use_fallback_data"`
	FallbackDelay   time.Duration `yaml:"fallback_delay"`

	// Database configuration
	DBDriver   string `yaml:"db_driver"`
	DBHost     string `yaml:"db_host"`
	DBPort     string `yaml:"db_port"`
	DBUser     string `yaml:"db_user"`
	DBPassword string `yaml:"-"`
	DBName     string `yaml:"db_name"`
	DBSSLMode  string `yaml:"db_ssl_mode"`
	SQLitePath string `yaml:"sqlite_path"`

	// Redis configuration
	RedisHost        string `yaml:"redis_host"`
	RedisPort        string `yaml:"redis_port"`
	RedisPassword    string `yaml:"-"`
	RedisDB          int    `yaml:"redis_db"`
	RedisURL         string `yaml:"redis_url"`
	RateLimitPerHour int    `yaml:"rate_limit_per_hour"`

	// JWT configuration
	JWTSecret string `yaml:"-"`

	// Photo archive
	S3BucketName string `yaml:"s3_bucket_name"`
	AWSRegion    string `yaml:"aws_region"`

	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	LogLevel           string   `yaml:"log_level"`
}

// Model returns the immutable model endpoint settings.
func (c *Config) Model() ModelConfig {
	return ModelConfig{
		APIKey:                 strings.TrimSpace(c.OpenAIAPIKey),
		BaseURL:                strings.TrimRight(c.OpenAIBaseURL, "/"),
		ImageModel:             c.ImageModel,
		TextModel:              c.TextModel,
		ImageAnalysisMaxTokens: c.ImageAnalysisMaxTokens,
		RecipeMaxTokens:        c.RecipeMaxTokens,
		Timeout:                c.RequestTimeout,
		MaxImageDimension:      c.MaxImageDimension,
		UseFallbackData:        c.UseFallbackData,
		FallbackDelay:          c.FallbackDelay,
	}
}

// ServerAddress returns host:port for the HTTP listener.
func (c *Config) ServerAddress() string {
	return strings.TrimSpace(c.ServerHost) + ":" + strings.TrimSpace(c.ServerPort)
}

// Defaults returns a Config populated with development defaults.
func Defaults() *Config {
	return &Config{
		ServerPort:             "8080",
		ServerHost:             "0.0.0.0",
		OpenAIBaseURL:          DefaultOpenAIBaseURL,
		ImageModel:             DefaultImageModel,
		TextModel:              DefaultTextModel,
		ImageAnalysisMaxTokens: DefaultImageAnalysisMaxTokens,
		RecipeMaxTokens:        DefaultRecipeMaxTokens,
		RequestTimeout:         60 * time.Second,
		MaxImageDimension:      2048,
		FallbackDelay:          2 * time.Second,
		DBDriver:               "sqlite",
		DBHost:                 "localhost",
		DBPort:                 "5432",
		DBName:                 "fridgechef",
		DBSSLMode:              "disable",
		SQLitePath:             "fridgechef.db",
		RedisHost:              "localhost",
		RedisPort:              "6379",
		RateLimitPerHour:       30,
		AWSRegion:              "us-east-1",
		CORSAllowedOrigins:     []string{"http://localhost:5173"},
		LogLevel:               "info",
	}
}

// LoadConfig builds the configuration from defaults, an optional YAML file
// named by CONFIG_FILE, environment variables and Docker secrets, in that
// order of precedence (later wins).
func LoadConfig() (*Config, error) {
	cfg := Defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := loadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load environment configuration: %w", err)
	}

	if err := loadSecrets(cfg); err != nil {
		return nil, fmt.Errorf("failed to load secrets: %w", err)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func loadEnv(cfg *Config) error {
	setString(&cfg.ServerPort, "SERVER_PORT")
	setString(&cfg.ServerHost, "SERVER_HOST")
	setString(&cfg.OpenAIBaseURL, "OPENAI_BASE_URL")
	setString(&cfg.ImageModel, "OPENAI_IMAGE_MODEL")
	setString(&cfg.TextModel, "OPENAI_TEXT_MODEL")
	setString(&cfg.DBDriver, "DB_DRIVER")
	setString(&cfg.DBHost, "DB_HOST")
	setString(&cfg.DBPort, "DB_PORT")
	setString(&cfg.DBUser, "DB_USER")
	setString(&cfg.DBPassword, "DB_PASSWORD")
	setString(&cfg.DBName, "DB_NAME")
	setString(&cfg.DBSSLMode, "DB_SSL_MODE")
	setString(&cfg.SQLitePath, "SQLITE_PATH")
	setString(&cfg.RedisHost, "REDIS_HOST")
	setString(&cfg.RedisPort, "REDIS_PORT")
	setString(&cfg.RedisPassword, "REDIS_PASSWORD")
	setString(&cfg.RedisURL, "REDIS_URL")
	setString(&cfg.JWTSecret, "JWT_SECRET")
	setString(&cfg.S3BucketName, "S3_BUCKET_NAME")
	setString(&cfg.AWSRegion, "AWS_REGION")
	setString(&cfg.LogLevel, "LOG_LEVEL")

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.CORSAllowedOrigins = splitList(origins)
	}

	key, err := readAPIKey()
	if err != nil {
		return err
	}
	if key != "" {
		cfg.OpenAIAPIKey = key
	}

	ints := []struct {
		dst *int
		key string
	}{
		{&cfg.ImageAnalysisMaxTokens, "IMAGE_ANALYSIS_MAX_TOKENS"},
		{&cfg.RecipeMaxTokens, "RECIPE_MAX_TOKENS"},
		{&cfg.MaxImageDimension, "MAX_IMAGE_DIMENSION"},
		{&cfg.RedisDB, "REDIS_DB"},
		{&cfg.RateLimitPerHour, "RATE_LIMIT_PER_HOUR"},
	}
	for _, i := range ints {
		if err := setInt(i.dst, i.key); err != nil {
			return err
		}
	}

	if err := setDuration(&cfg.RequestTimeout, "OPENAI_TIMEOUT"); err != nil {
		return err
	}
	if err := setDuration(&cfg.FallbackDelay, "FALLBACK_DELAY"); err != nil {
		return err
	}
	if raw := os.Getenv("USE_FALLBACK_DATA"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("USE_FALLBACK_DATA: %w", err)
		}
		cfg.UseFallbackData = v
	}

	return nil
}

// readAPIKey reads OPENAI_API_KEY, falling back to the file named by
// OPENAI_API_KEY_FILE.
func readAPIKey() (string, error) {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return strings.TrimSpace(key), nil
	}
	keyFile := os.Getenv("OPENAI_API_KEY_FILE")
	if keyFile == "" {
		return "", nil
	}
	keyBytes, err := os.ReadFile(keyFile)
	if err != nil {
		return "", fmt.Errorf("failed to read API key file: %w", err)
	}
	key := strings.TrimSpace(string(keyBytes))
	if key == "" {
		return "", fmt.Errorf("API key file is empty")
	}
	return key, nil
}

// loadSecrets overlays sensitive values from Docker secrets. Outside CI a
// mounted secret wins over the environment.
func loadSecrets(cfg *Config) error {
	if GetEnvironment() == CI {
		return nil
	}
	overlay := map[string]*string{
		"openai_api_key": &cfg.OpenAIAPIKey,
		"db_user":        &cfg.DBUser,
		"db_password":    &cfg.DBPassword,
		"redis_password": &cfg.RedisPassword,
		"jwt_secret":     &cfg.JWTSecret,
	}
	for name, dst := range overlay {
		if value := readSecret(name); value != "" {
			*dst = value
		}
	}
	return nil
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func setString(dst *string, key string) {
	if value := os.Getenv(key); value != "" {
		*dst = value
	}
}

func setInt(dst *int, key string) error {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = v
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
