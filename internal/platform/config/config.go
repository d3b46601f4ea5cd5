package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Image store kinds.
const (
	ImageStoreNone = "none"
	ImageStoreFile = "file"
	ImageStoreGCS  = "gcs"
)

// Config holds application configuration.
type Config struct {
	DBPath            string
	Port              string
	IsProduction      bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	DefaultCurrency string
	AppVersion      string
	Timezone        string

	// Backup pipeline
	BackupMaxBytes      int64
	BackupRetryAttempts int
	BackupRetryDelay    time.Duration

	// Durable database image
	ImageStore         string `mapstructure:"IMAGE_STORE"`
	ImageStoreDir      string `mapstructure:"IMAGE_STORE_DIR"`
	ImageKey           string `mapstructure:"IMAGE_KEY"`
	GCSBucket          string `mapstructure:"GCS_BUCKET"`
	GCSCredentialsFile string `mapstructure:"GCS_CREDENTIALS_FILE"`

	RateLimit           string
	CORSAllowedOrigins  []string
	ApplyPendingRestore bool
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("DB_PATH", "data/ledgerbook.db")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "12h")
	viper.SetDefault("JWT_ISSUER", "ledgerbook")
	viper.SetDefault("DEFAULT_CURRENCY", "USD")
	viper.SetDefault("APP_VERSION", "dev")
	viper.SetDefault("TIMEZONE", "UTC")
	viper.SetDefault("BACKUP_MAX_BYTES", 10*1024*1024)
	viper.SetDefault("BACKUP_RETRY_ATTEMPTS", 3)
	viper.SetDefault("BACKUP_RETRY_DELAY", "1s")
	viper.SetDefault("IMAGE_STORE", ImageStoreNone)
	viper.SetDefault("IMAGE_STORE_DIR", "data/images")
	viper.SetDefault("IMAGE_KEY", "ledgerbook.db")
	viper.SetDefault("GCS_BUCKET", "")
	viper.SetDefault("GCS_CREDENTIALS_FILE", "")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("APPLY_PENDING_RESTORE", true)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DBPath = viper.GetString("DB_PATH")
	if cfg.DBPath == "" {
		cfg.DBPath = "data/ledgerbook.db"
		log.Printf("Warning: DB_PATH not set. Defaulting to %s\n", cfg.DBPath)
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil || jwtExpiryDuration <= 0 {
		jwtExpiryDuration = 12 * time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "ledgerbook"
		log.Printf("Warning: JWT_ISSUER not set. Defaulting to %s.\n", cfg.JWTIssuer)
	}

	cfg.DefaultCurrency = strings.ToUpper(strings.TrimSpace(viper.GetString("DEFAULT_CURRENCY")))
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = "USD"
	}
	cfg.AppVersion = viper.GetString("APP_VERSION")
	cfg.Timezone = viper.GetString("TIMEZONE")
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		log.Printf("Warning: Unknown TIMEZONE ('%s'). Defaulting to UTC.\n", cfg.Timezone)
		cfg.Timezone = "UTC"
	}

	cfg.BackupMaxBytes = viper.GetInt64("BACKUP_MAX_BYTES")
	if cfg.BackupMaxBytes <= 0 {
		cfg.BackupMaxBytes = 10 * 1024 * 1024
		log.Printf("Warning: Invalid BACKUP_MAX_BYTES. Defaulting to %d.\n", cfg.BackupMaxBytes)
	}
	cfg.BackupRetryAttempts = viper.GetInt("BACKUP_RETRY_ATTEMPTS")
	if cfg.BackupRetryAttempts < 1 {
		cfg.BackupRetryAttempts = 1
	}
	retryDelayStr := viper.GetString("BACKUP_RETRY_DELAY")
	cfg.BackupRetryDelay, err = time.ParseDuration(retryDelayStr)
	if err != nil || cfg.BackupRetryDelay < 0 {
		cfg.BackupRetryDelay = time.Second
		log.Printf("Warning: Invalid value for BACKUP_RETRY_DELAY ('%s'). Defaulting to %s.\n", retryDelayStr, cfg.BackupRetryDelay.String())
	}

	cfg.ImageStore = strings.ToLower(viper.GetString("IMAGE_STORE"))
	switch cfg.ImageStore {
	case ImageStoreNone, ImageStoreFile, ImageStoreGCS:
	default:
		log.Printf("Warning: Unknown IMAGE_STORE ('%s'). Durable images are disabled.\n", cfg.ImageStore)
		cfg.ImageStore = ImageStoreNone
	}
	cfg.ImageStoreDir = viper.GetString("IMAGE_STORE_DIR")
	cfg.ImageKey = viper.GetString("IMAGE_KEY")
	cfg.GCSBucket = viper.GetString("GCS_BUCKET")
	cfg.GCSCredentialsFile = viper.GetString("GCS_CREDENTIALS_FILE")
	if cfg.ImageStore == ImageStoreGCS && cfg.GCSBucket == "" {
		log.Println("Warning: IMAGE_STORE is gcs but GCS_BUCKET is not set. Durable images are disabled.")
		cfg.ImageStore = ImageStoreNone
	}

	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	for _, origin := range strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}
	cfg.ApplyPendingRestore = viper.GetBool("APPLY_PENDING_RESTORE")

	return cfg, nil
}
