package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the api and stallctl binaries read from the environment.
type Config struct {
	Env      string
	Port     string
	LogLevel string

	JWTSecret   string
	CORSOrigins []string

	Media    MediaConfig
	Store    StoreConfig
	Telegram TelegramConfig
}

type MediaConfig struct {
	Backend string // cloudinary | r2

	CloudName     string
	UploadPreset  string
	BaseURL       string
	UploadTimeout time.Duration

	R2Endpoint      string
	R2AccessKey     string
	R2SecretKey     string
	R2Bucket        string
	R2PublicBaseURL string
}

type StoreConfig struct {
	Backend string // memory | postgres | mongo | sqlite

	DatabaseURL   string
	MongoURI      string
	MongoDatabase string
	SQLitePath    string
}

type TelegramConfig struct {
	Token  string
	ChatID int64
}

// Load reads the .env file (outside production) and then the process environment.
func Load() (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	cfg := &Config{
		Env:         getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8000"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		CORSOrigins: getEnvAsSlice("CORS_ORIGINS", []string{"http://localhost:3000", "http://localhost:8081"}),
		Media: MediaConfig{
			Backend:         strings.ToLower(getEnv("MEDIA_BACKEND", "cloudinary")),
			CloudName:       os.Getenv("CLOUDINARY_CLOUD_NAME"),
			UploadPreset:    os.Getenv("CLOUDINARY_UPLOAD_PRESET"),
			BaseURL:         getEnv("CLOUDINARY_BASE_URL", "https://api.cloudinary.com/v1_1"),
			UploadTimeout:   time.Duration(getEnvAsInt("UPLOAD_TIMEOUT_SECONDS", 60)) * time.Second,
			R2Endpoint:      os.Getenv("R2_ENDPOINT"),
			R2AccessKey:     os.Getenv("R2_ACCESS_KEY"),
			R2SecretKey:     os.Getenv("R2_SECRET_KEY"),
			R2Bucket:        os.Getenv("R2_BUCKET_NAME"),
			R2PublicBaseURL: os.Getenv("R2_PUBLIC_BASE_URL"),
		},
		Store: StoreConfig{
			Backend:       strings.ToLower(getEnv("STORE_BACKEND", "postgres")),
			DatabaseURL:   os.Getenv("DATABASE_URL"),
			MongoURI:      os.Getenv("MONGO_URI"),
			MongoDatabase: getEnv("MONGO_DATABASE", "hygieat"),
			SQLitePath:    getEnv("SQLITE_PATH", "hygieat.db"),
		},
		Telegram: TelegramConfig{
			Token:  os.Getenv("TELEGRAM_TOKEN"),
			ChatID: int64(getEnvAsInt("TELEGRAM_CHAT_ID", 0)),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the selected backends have what they need.
func (c *Config) Validate() error {
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	switch c.Media.Backend {
	case "cloudinary":
		if c.Media.CloudName == "" || c.Media.UploadPreset == "" {
			return fmt.Errorf("CLOUDINARY_CLOUD_NAME and CLOUDINARY_UPLOAD_PRESET are required")
		}
	case "r2":
		for k, v := range map[string]string{
			"R2_ENDPOINT":        c.Media.R2Endpoint,
			"R2_ACCESS_KEY":      c.Media.R2AccessKey,
			"R2_SECRET_KEY":      c.Media.R2SecretKey,
			"R2_BUCKET_NAME":     c.Media.R2Bucket,
			"R2_PUBLIC_BASE_URL": c.Media.R2PublicBaseURL,
		} {
			if v == "" {
				return fmt.Errorf("%s is required when MEDIA_BACKEND=r2", k)
			}
		}
	default:
		return fmt.Errorf("unknown MEDIA_BACKEND: %s", c.Media.Backend)
	}

	switch c.Store.Backend {
	case "memory", "sqlite":
	case "postgres":
		if c.Store.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_BACKEND=postgres")
		}
	case "mongo":
		if c.Store.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required when STORE_BACKEND=mongo")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND: %s", c.Store.Backend)
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
