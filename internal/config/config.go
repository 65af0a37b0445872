package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds environment-based settings
type Config struct {
	Environment    string
	DatabaseURL    string
	MigrationsPath string
	JWTSecret      string
	ServerAddress  string

	RedisAddress  string
	RedisUsername string
	RedisPassword string

	StorageBackend  string // local, spaces or gcs
	UploadDir       string
	SpacesEndpoint  string
	SpacesRegion    string
	SpacesBucket    string
	SpacesCDNURL    string
	SpacesAccessKey string
	SpacesSecretKey string
	GCSBucket       string

	SendgridAPIKey   string
	MailFrom         string
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFrom       string
	MQTTBrokerURL    string

	FirestoreProject    string
	FirestoreCollection string

	IngestURL string

	ReminderLead  time.Duration
	ReminderGrace time.Duration
}

// Development reports whether the service runs with developer defaults.
func (c *Config) Development() bool {
	return c.Environment == "development"
}

// Load reads configuration from environment variables. A .env file in the
// working directory (or the file named by ENV_FILE) is applied first when present.
func Load() (*Config, error) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("stat %s: %w", envFile, err)
	}

	v := viper.New()
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("SERVER_ADDRESS", ":8080")
	v.SetDefault("MIGRATIONS_PATH", "./migrations")
	v.SetDefault("STORAGE_BACKEND", "local")
	v.SetDefault("UPLOAD_DIR", "./uploads")
	v.SetDefault("MAIL_FROM", "noreply@localhost")
	v.SetDefault("FIRESTORE_COLLECTION", "events")
	v.SetDefault("REMINDER_LEAD", 24*time.Hour)
	v.SetDefault("REMINDER_GRACE", time.Hour)
	v.AutomaticEnv()

	cfg := &Config{
		Environment:    v.GetString("APP_ENV"),
		DatabaseURL:    v.GetString("DATABASE_URL"),
		MigrationsPath: v.GetString("MIGRATIONS_PATH"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		ServerAddress:  v.GetString("SERVER_ADDRESS"),

		RedisAddress:  v.GetString("REDIS_ADDRESS"),
		RedisUsername: v.GetString("REDIS_USERNAME"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),

		StorageBackend:  v.GetString("STORAGE_BACKEND"),
		UploadDir:       v.GetString("UPLOAD_DIR"),
		SpacesEndpoint:  v.GetString("SPACES_ENDPOINT"),
		SpacesRegion:    v.GetString("SPACES_REGION"),
		SpacesBucket:    v.GetString("SPACES_BUCKET"),
		SpacesCDNURL:    v.GetString("SPACES_CDN_URL"),
		SpacesAccessKey: v.GetString("SPACES_ACCESS_KEY"),
		SpacesSecretKey: v.GetString("SPACES_SECRET_KEY"),
		GCSBucket:       v.GetString("GCS_BUCKET"),

		SendgridAPIKey:   v.GetString("SENDGRID_API_KEY"),
		MailFrom:         v.GetString("MAIL_FROM"),
		TwilioAccountSID: v.GetString("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:  v.GetString("TWILIO_AUTH_TOKEN"),
		TwilioFrom:       v.GetString("TWILIO_FROM"),
		MQTTBrokerURL:    v.GetString("MQTT_BROKER_URL"),

		FirestoreProject:    v.GetString("FIRESTORE_PROJECT"),
		FirestoreCollection: v.GetString("FIRESTORE_COLLECTION"),

		IngestURL: v.GetString("INGEST_URL"),

		ReminderLead:  v.GetDuration("REMINDER_LEAD"),
		ReminderGrace: v.GetDuration("REMINDER_GRACE"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	switch cfg.StorageBackend {
	case "local":
	case "spaces":
		if cfg.SpacesBucket == "" || cfg.SpacesEndpoint == "" {
			return nil, fmt.Errorf("SPACES_BUCKET and SPACES_ENDPOINT are required for spaces storage")
		}
	case "gcs":
		if cfg.GCSBucket == "" {
			return nil, fmt.Errorf("GCS_BUCKET is required for gcs storage")
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}
	if cfg.ReminderLead <= 0 {
		return nil, fmt.Errorf("REMINDER_LEAD must be positive")
	}
	return cfg, nil
}
