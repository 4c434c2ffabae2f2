package config

import (
	"time"

	"github.com/spf13/viper"
)

// AppSettings holds application-level settings that are not tied to a backing service.
type AppSettings struct {
	Host     string
	Port     string
	Timezone string
	// EmailDomain is appended to a NIN to build the login e-mail (e.g. "@azimute.cne").
	EmailDomain string
	// ResetPassword is the password applied by a leader-initiated password reset.
	ResetPassword string
	// ImportPassword is the initial password given to users created by the spreadsheet import.
	ImportPassword string
	// PostValidity is the default lifetime of a bulletin board post.
	PostValidity time.Duration
}

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
	ConnectAttempts    int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// AuthConfig holds bearer token settings.
//
// WARNING: Secret must never be logged.
type AuthConfig struct {
	Secret   string
	Issuer   string
	TokenTTL time.Duration
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level string
	JSON  bool
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	App      AppSettings
	Database DatabaseConfig
	MinIO    MinIOConfig
	Auth     AuthConfig
	Log      LogConfig
}

// Location resolves the configured timezone, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	if c.App.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	v := newViper()
	return &AppConfig{
		App: AppSettings{
			Host:           v.GetString("APP_HOST"),
			Port:           v.GetString("PORT"),
			Timezone:       v.GetString("APP_TIMEZONE"),
			EmailDomain:    v.GetString("APP_EMAIL_DOMAIN"),
			ResetPassword:  v.GetString("APP_RESET_PASSWORD"),
			ImportPassword: v.GetString("APP_IMPORT_PASSWORD"),
			PostValidity:   v.GetDuration("APP_POST_VALIDITY"),
		},
		Database: DatabaseConfig{
			Host:               v.GetString("DB_HOST"),
			Port:               v.GetString("DB_PORT"),
			User:               v.GetString("DB_USER"),
			Password:           v.GetString("DB_PASSWORD"),
			Name:               v.GetString("DB_NAME"),
			SSLMode:            v.GetString("DB_SSLMODE"),
			MaxOpenConns:       v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:       v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetimeSec: v.GetInt("DB_CONN_MAX_LIFETIME_SEC"),
			ConnectAttempts:    v.GetInt("DB_CONNECT_ATTEMPTS"),
		},
		MinIO: MinIOConfig{
			Endpoint:  v.GetString("MINIO_ENDPOINT"),
			AccessKey: v.GetString("MINIO_ACCESS_KEY"),
			SecretKey: v.GetString("MINIO_SECRET_KEY"),
			Bucket:    v.GetString("MINIO_BUCKET"),
			UseSSL:    v.GetBool("MINIO_USE_SSL"),
		},
		Auth: AuthConfig{
			Secret:   v.GetString("AUTH_SECRET"),
			Issuer:   v.GetString("AUTH_ISSUER"),
			TokenTTL: v.GetDuration("AUTH_TOKEN_TTL"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
			JSON:  v.GetBool("LOG_JSON"),
		},
	}
}

// newViper returns a viper instance bound to the process environment with
// defaults for every non-sensitive key.
func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_HOST", "localhost:8080")
	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_TIMEZONE", "Europe/Lisbon")
	v.SetDefault("APP_EMAIL_DOMAIN", "@azimute.cne")
	v.SetDefault("APP_RESET_PASSWORD", "Azimute2026")
	v.SetDefault("APP_IMPORT_PASSWORD", "Azimute#1104!")
	v.SetDefault("APP_POST_VALIDITY", 60*24*time.Hour)

	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME_SEC", 300)
	v.SetDefault("DB_CONNECT_ATTEMPTS", 5)

	v.SetDefault("MINIO_USE_SSL", false)

	v.SetDefault("AUTH_ISSUER", "azimute")
	v.SetDefault("AUTH_TOKEN_TTL", 12*time.Hour)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_JSON", true)
	return v
}
