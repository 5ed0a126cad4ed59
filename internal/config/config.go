package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environments.
const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

// Document store backends.
const (
	StoreJSONBin  = "jsonbin"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Image backends.
const (
	ImageImgbb = "imgbb"
	ImageS3    = "s3"
)

// Config holds all application configuration.
type Config struct {
	Env      string
	Server   ServerConfig
	Logger   LoggerConfig
	Store    StoreConfig
	Database DatabaseConfig
	Image    ImageConfig
	Auth     AuthConfig
	CORS     CORSConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// StoreConfig selects and configures the document store.
type StoreConfig struct {
	Backend   string
	BaseURL   string
	AccessKey string
	MasterKey string

	MenuDocID       string
	CategoriesDocID string
	UsersDocID      string

	RetryAttempts int
	RetryDelay    time.Duration
	HTTPTimeout   time.Duration
}

// DatabaseConfig holds database-related configuration for the postgres
// document store.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
}

// ImageConfig selects and configures image hosting.
type ImageConfig struct {
	Backend string
	// FallbackEnabled tries the other backend when the primary one fails.
	FallbackEnabled bool
	Imgbb           ImgbbConfig
	S3              S3Config
}

// ImgbbConfig holds imgbb API configuration.
type ImgbbConfig struct {
	APIKey    string
	UploadURL string
}

// S3Config holds AWS S3 configuration for uploaded images.
type S3Config struct {
	Bucket        string
	Region        string
	Prefix        string // Path prefix within bucket (e.g., "gallery/")
	PublicBaseURL string
	Endpoint      string
}

// Configured reports whether enough is set to build an S3 uploader.
func (c S3Config) Configured() bool {
	return c.Bucket != "" && c.Region != ""
}

// AuthConfig holds admin session configuration.
type AuthConfig struct {
	Secret        string
	SessionTTL    time.Duration
	CookieSecure  bool
	HashPasswords bool
}

// CORSConfig holds cross-origin configuration.
type CORSConfig struct {
	AllowedOrigin string
}

// Load loads configuration from environment variables. A .env file in the
// working directory is read first when present; real environment variables
// take precedence over it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	menuDocID := getEnv("MENU_BIN_ID", "")

	cfg := &Config{
		Env: getEnv("APP_ENV", EnvProduction),
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Store: StoreConfig{
			Backend:         getEnv("STORE_BACKEND", StoreJSONBin),
			BaseURL:         getEnv("JSONBIN_BASE_URL", "https://api.jsonbin.io/v3"),
			AccessKey:       getEnv("JSONBIN_ACCESS_KEY", ""),
			MasterKey:       getEnv("JSONBIN_MASTER_KEY", ""),
			MenuDocID:       menuDocID,
			CategoriesDocID: getEnv("CATEGORIES_BIN_ID", ""),
			UsersDocID:      getEnv("USERS_BIN_ID", menuDocID),
			RetryAttempts:   getEnvAsInt("STORE_RETRY_ATTEMPTS", 3),
			RetryDelay:      getEnvAsDuration("STORE_RETRY_DELAY", time.Second),
			HTTPTimeout:     getEnvAsDuration("STORE_HTTP_TIMEOUT", 0),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "resto"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 10),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 1),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
		},
		Image: ImageConfig{
			Backend:         getEnv("IMAGE_BACKEND", ImageImgbb),
			FallbackEnabled: getEnvAsBool("IMAGE_FALLBACK_ENABLED", false),
			Imgbb: ImgbbConfig{
				APIKey:    getEnv("IMGBB_API_KEY", ""),
				UploadURL: getEnv("IMGBB_UPLOAD_URL", ""),
			},
			S3: S3Config{
				Bucket:        getEnv("S3_BUCKET", ""),
				Region:        getEnv("S3_REGION", ""),
				Prefix:        getEnv("S3_PREFIX", "gallery/"),
				PublicBaseURL: getEnv("S3_PUBLIC_BASE_URL", ""),
				Endpoint:      getEnv("S3_ENDPOINT", ""),
			},
		},
		Auth: AuthConfig{
			Secret:        getEnv("AUTH_SECRET", ""),
			SessionTTL:    getEnvAsDuration("AUTH_SESSION_TTL", 12*time.Hour),
			CookieSecure:  getEnvAsBool("AUTH_COOKIE_SECURE", true),
			HashPasswords: getEnvAsBool("AUTH_HASH_PASSWORDS", false),
		},
		CORS: CORSConfig{
			AllowedOrigin: getEnv("CORS_ALLOWED_ORIGIN", "*"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether development fallbacks are enabled.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// Validate validates the configuration. Missing document ids and API keys
// are allowed: reads degrade to empty results and uploads report failure.
func (c *Config) Validate() error {
	if c.Env != EnvProduction && c.Env != EnvDevelopment {
		return fmt.Errorf("invalid environment: %s (must be production or development)", c.Env)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	switch c.Store.Backend {
	case StoreJSONBin, StoreMemory:
	case StorePostgres:
		if err := c.Database.validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid store backend: %s (must be jsonbin, postgres, or memory)", c.Store.Backend)
	}

	if c.Store.RetryAttempts < 1 {
		return fmt.Errorf("store retry attempts must be at least 1")
	}

	if c.Store.RetryDelay < 0 {
		return fmt.Errorf("store retry delay cannot be negative")
	}

	switch c.Image.Backend {
	case ImageImgbb:
	case ImageS3:
		if !c.Image.S3.Configured() {
			return fmt.Errorf("S3 bucket and region are required when the image backend is s3")
		}
	default:
		return fmt.Errorf("invalid image backend: %s (must be imgbb or s3)", c.Image.Backend)
	}

	if c.Auth.Secret == "" {
		return fmt.Errorf("auth secret is required")
	}

	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("auth session TTL must be positive")
	}

	return nil
}

func (c *DatabaseConfig) validate() error {
	if c.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Port)
	}

	if c.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.MinConnections > c.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration retrieves an environment variable as a duration ("1s",
// "12h") or returns a default value.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
