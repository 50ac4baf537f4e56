package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	JWTSecret string

	// RateLimit uses ulule/limiter's formatted notation, e.g. "100-H".
	RateLimit string

	CloudinaryCloudName    string
	CloudinaryUploadPreset string

	PosthogAPIKey string
}

// LoadConfig loads configuration from environment variables and a .env file
// if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("RATE_LIMIT", "300-H")
	viper.SetDefault("CLOUDINARY_CLOUD_NAME", "")
	viper.SetDefault("CLOUDINARY_UPLOAD_PRESET", "")
	viper.SetDefault("POSTHOG_API_KEY", "")

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:            viper.GetString("PGSQL_URL"),
		Port:                   viper.GetString("PORT"),
		IsProduction:           viper.GetBool("IS_PRODUCTION"),
		EnableDBCheck:          viper.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:              viper.GetString("JWT_SECRET"),
		RateLimit:              viper.GetString("RATE_LIMIT"),
		CloudinaryCloudName:    viper.GetString("CLOUDINARY_CLOUD_NAME"),
		CloudinaryUploadPreset: viper.GetString("CLOUDINARY_UPLOAD_PRESET"),
		PosthogAPIKey:          viper.GetString("POSTHOG_API_KEY"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}
	if cfg.CloudinaryCloudName == "" || cfg.CloudinaryUploadPreset == "" {
		log.Println("Warning: Cloudinary configuration incomplete. Image uploads will not function.")
	}

	return cfg, nil
}
