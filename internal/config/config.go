package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port         string
	AppEnv       string
	CORSOrigins  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Database
	DBDriver   string // sqlite or postgres
	DBPath     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret string
	JWTExpiry time.Duration

	// Rate limiting (per client IP)
	RateLimitMax        int
	RateLimitWindow     time.Duration
	AuthRateLimitMax    int
	AuthRateLimitWindow time.Duration

	// Analytics
	AnalyticsFile          string
	AnalyticsRetentionDays int

	// Suggestions
	SuggestionsCatalogPath string

	// Observability
	SentryDSN        string
	LogRetentionDays int
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	return &Config{
		Port:         getEnv("PORT", "8080"),
		AppEnv:       getEnv("APP_ENV", "production"),
		CORSOrigins:  getEnv("CORS_ORIGINS", "*"),
		ReadTimeout:  parseDuration(getEnv("READ_TIMEOUT", "10s"), 10*time.Second),
		WriteTimeout: parseDuration(getEnv("WRITE_TIMEOUT", "10s"), 10*time.Second),

		DBDriver:   getEnv("DB_DRIVER", "sqlite"),
		DBPath:     getEnv("DB_PATH", "data/healthwise.db"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "healthwise"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTExpiry: parseDuration(getEnv("JWT_EXPIRY", "168h"), 7*24*time.Hour),

		RateLimitMax:        parseInt(getEnv("RATE_LIMIT_MAX", "100"), 100),
		RateLimitWindow:     parseDuration(getEnv("RATE_LIMIT_WINDOW", "15m"), 15*time.Minute),
		AuthRateLimitMax:    parseInt(getEnv("AUTH_RATE_LIMIT_MAX", "5"), 5),
		AuthRateLimitWindow: parseDuration(getEnv("AUTH_RATE_LIMIT_WINDOW", "15m"), 15*time.Minute),

		AnalyticsFile:          getEnv("ANALYTICS_FILE", "data/analytics.json"),
		AnalyticsRetentionDays: parseInt(getEnv("ANALYTICS_RETENTION_DAYS", "90"), 90),

		SuggestionsCatalogPath: getEnv("SUGGESTIONS_CATALOG_PATH", ""),

		SentryDSN:        getEnv("SENTRY_DSN", ""),
		LogRetentionDays: parseInt(getEnv("LOG_RETENTION_DAYS", "30"), 30),
	}
}

// IsDevelopment reports whether internal error details may be exposed to clients.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) PostgresDSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
