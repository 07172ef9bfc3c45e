package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port               string
	AppURL             string
	Environment        string
	JWTSecret          string
	SessionExpiry      time.Duration
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string
	DBDriver           string
	DatabaseURL        string
	TokenEncryptionKey string
	LogLevel           string

	GmailSyncLimit     int64
	GmailRateLimit     float64
	CalendarHorizon    time.Duration
	CalendarMaxResults int64
	SyncStaleAfter     time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:               getEnv("PORT", "8080"),
		AppURL:             getEnv("APP_URL", "http://localhost:3000"),
		Environment:        getEnv("APP_ENV", "development"),
		JWTSecret:          getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		SessionExpiry:      getDuration("SESSION_EXPIRY", 168*time.Hour), // 7 days
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURI:  getEnv("GOOGLE_REDIRECT_URI", "http://localhost:8080/api/auth/callback/google"),
		DBDriver:           getEnv("DB_DRIVER", "postgres"),
		DatabaseURL:        getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=inboxcal port=5432 sslmode=disable"),
		TokenEncryptionKey: getEnv("TOKEN_ENCRYPTION_KEY", ""),
		LogLevel:           getEnv("LOG_LEVEL", "info"),

		GmailSyncLimit:     getInt("GMAIL_SYNC_LIMIT", 500),
		GmailRateLimit:     getFloat("GMAIL_RATE_LIMIT", 10),
		CalendarHorizon:    getDuration("CALENDAR_HORIZON", 90*24*time.Hour),
		CalendarMaxResults: getInt("CALENDAR_MAX_RESULTS", 250),
		SyncStaleAfter:     getDuration("SYNC_STALE_AFTER", 15*time.Minute),
	}
}

// IsProduction reports whether cookies should be marked Secure.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getInt(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}
