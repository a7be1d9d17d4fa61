package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/lib/pq"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds environment driven settings for the API server.
type Config struct {
	Env            string
	Host           string
	Port           string
	AllowedOrigins []string
	LogLevel       string
	LogDir         string

	JWTSecret string
	JWTExpiry time.Duration

	// RateLimit is the number of requests allowed per client IP per minute; 0 disables it.
	RateLimit int

	Database DatabaseConfig
	Redis    RedisConfig
	Admin    AdminConfig
	Tracing  TracingConfig
}

// RedisConfig contains the optional Redis connection used for rate-limit counters.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// AdminConfig describes the default administrator ensured at startup.
type AdminConfig struct {
	Username string
	Password string
}

// Enabled reports whether a default administrator should be ensured.
func (a AdminConfig) Enabled() bool {
	return a.Username != "" && a.Password != ""
}

// TracingConfig contains OpenTelemetry exporter settings.
type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	Insecure    bool
	SampleRatio float64
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	SQLitePath      string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime int // seconds
	ConnMaxIdleTime int // seconds
	RunMigrations   bool

	// url holds a DSN already converted from DATABASE_URL.
	url string
}

// Load builds a Config from environment variables with sensible defaults.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		Env:       getEnv("COURSES_ENV", "development"),
		Host:      getEnv("COURSES_HOST", "0.0.0.0"),
		Port:      getEnv("COURSES_PORT", "8080"),
		LogLevel:  getEnv("COURSES_LOG_LEVEL", "info"),
		LogDir:    getEnv("COURSES_LOG_DIR", "logs"),
		JWTSecret: getEnv("JWT_SECRET", "your-secret-key-change-me"),
		JWTExpiry: time.Duration(getEnvAsInt("JWT_EXPIRY_MINUTES", 60)) * time.Minute,
		RateLimit: getEnvAsInt("COURSES_RATE_LIMIT", 100),
	}

	cfg.AllowedOrigins = splitAndTrim(os.Getenv("COURSES_ALLOWED_ORIGINS"))

	db, err := loadDatabaseConfig()
	if err != nil {
		return nil, err
	}
	cfg.Database = db
	cfg.Redis = RedisConfig{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       getEnvAsInt("REDIS_DB", 0),
	}
	cfg.Admin = AdminConfig{
		Username: strings.TrimSpace(os.Getenv("COURSES_ADMIN_USERNAME")),
		Password: os.Getenv("COURSES_ADMIN_PASSWORD"),
	}
	cfg.Tracing = TracingConfig{
		Enabled:     getEnvAsBool("OTEL_ENABLED", false),
		Endpoint:    strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
		Insecure:    getEnvAsBool("OTEL_EXPORTER_OTLP_INSECURE", false),
		SampleRatio: clampRatio(getEnvAsFloat("OTEL_SAMPLER_RATIO", 0.1)),
	}

	if cfg.IsProduction() && cfg.JWTSecret == "your-secret-key-change-me" {
		return nil, fmt.Errorf("JWT_SECRET must be set in production")
	}

	return cfg, nil
}

// ServerAddress joins the host and port into a listen address.
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsProduction reports whether the app is running in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// DSN builds a PostgreSQL DSN for gorm.
func (d DatabaseConfig) DSN() string {
	if d.url != "" {
		return d.url
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.Name,
		d.SSLMode,
		d.TimeZone,
	)
}

func loadDatabaseConfig() (DatabaseConfig, error) {
	config := DatabaseConfig{
		Driver:          strings.ToLower(getEnv("COURSES_DB_DRIVER", DriverPostgres)),
		Host:            getEnv("COURSES_DB_HOST", "127.0.0.1"),
		Port:            getEnv("COURSES_DB_PORT", "5432"),
		User:            getEnv("COURSES_DB_USER", "postgres"),
		Password:        os.Getenv("COURSES_DB_PASSWORD"),
		Name:            getEnv("COURSES_DB_NAME", "courses"),
		SSLMode:         getEnv("COURSES_DB_SSLMODE", "disable"),
		TimeZone:        getEnv("COURSES_DB_TIMEZONE", "UTC"),
		SQLitePath:      getEnv("COURSES_DB_SQLITE_PATH", "courses.db"),
		MaxIdleConns:    getEnvAsInt("COURSES_DB_MAX_IDLE_CONNS", 5),
		MaxOpenConns:    getEnvAsInt("COURSES_DB_MAX_OPEN_CONNS", 20),
		ConnMaxLifetime: getEnvAsInt("COURSES_DB_CONN_MAX_LIFETIME", 1800),
		ConnMaxIdleTime: getEnvAsInt("COURSES_DB_CONN_MAX_IDLE_TIME", 300),
		RunMigrations:   getEnvAsBool("COURSES_DB_RUN_MIGRATIONS", false),
	}

	switch config.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return config, fmt.Errorf("unsupported database driver %q", config.Driver)
	}

	// DATABASE_URL takes precedence over the individual COURSES_DB_* keys.
	if dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL")); dbURL != "" && config.Driver == DriverPostgres {
		return config.WithURL(dbURL)
	}

	return config, nil
}

// WithURL returns a copy whose DSN comes from a postgres:// URL instead of the
// discrete host/port/user fields.
func (d DatabaseConfig) WithURL(raw string) (DatabaseConfig, error) {
	dsn, err := ParseDatabaseURL(raw)
	if err != nil {
		return d, err
	}
	d.url = dsn
	return d, nil
}

// ParseDatabaseURL converts a postgres:// URL into a key/value DSN understood by the driver.
func ParseDatabaseURL(raw string) (string, error) {
	dsn, err := pq.ParseURL(raw)
	if err != nil {
		return "", fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	return dsn, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return fallback
}

func clampRatio(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ';'
	})

	var cleaned []string
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}

	return cleaned
}
