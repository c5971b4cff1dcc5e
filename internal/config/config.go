package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database  DatabaseConfig
	JWT       JWTConfig
	App       AppConfig
	Redis     RedisConfig
	Import    ImportConfig
	Analytics AnalyticsConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	FrontendURL []string
}

// RedisConfig enables the shared analytics cache and the cross-instance import lock.
// When disabled both fall back to in-process implementations.
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

type ImportConfig struct {
	BatchSize      int
	LockTTL        time.Duration
	LockWait       time.Duration
	MaxUploadBytes int64
}

type AnalyticsConfig struct {
	GraceMinutes      int
	HighAbsenceDays   int
	FrequentLateCount int
	CacheTTL          time.Duration
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	} else if err != nil {
		slog.Info("No .env file found, using environment")
	}

	config := &Config{}
	var err error

	// Database configuration
	dbPort, err := getEnvInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "factory_erp"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := getEnvInt("APP_PORT", 8080)
	if err != nil {
		return nil, err
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnvSlice("FRONTEND_URL", "http://localhost:3000"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "12h"),
	}

	// Redis configuration
	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	config.Redis = RedisConfig{
		Enabled:  getEnvBool("REDIS_ENABLED", false),
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
	}

	// Import configuration
	batchSize, err := getEnvInt("IMPORT_BATCH_SIZE", 400)
	if err != nil {
		return nil, err
	}
	lockTTL, err := getEnvDuration("IMPORT_LOCK_TTL", 2*time.Minute)
	if err != nil {
		return nil, err
	}
	lockWait, err := getEnvDuration("IMPORT_LOCK_WAIT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	maxUploadMB, err := getEnvInt("IMPORT_MAX_UPLOAD_MB", 20)
	if err != nil {
		return nil, err
	}

	config.Import = ImportConfig{
		BatchSize:      batchSize,
		LockTTL:        lockTTL,
		LockWait:       lockWait,
		MaxUploadBytes: int64(maxUploadMB) << 20,
	}

	// Analytics configuration
	grace, err := getEnvInt("ANALYTICS_GRACE_MINUTES", 5)
	if err != nil {
		return nil, err
	}
	highAbsence, err := getEnvInt("ANALYTICS_HIGH_ABSENCE_DAYS", 3)
	if err != nil {
		return nil, err
	}
	frequentLate, err := getEnvInt("ANALYTICS_FREQUENT_LATE_COUNT", 5)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := getEnvDuration("ANALYTICS_CACHE_TTL", 10*time.Minute)
	if err != nil {
		return nil, err
	}

	config.Analytics = AnalyticsConfig{
		GraceMinutes:      grace,
		HighAbsenceDays:   highAbsence,
		FrequentLateCount: frequentLate,
		CacheTTL:          cacheTTL,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if c.Import.BatchSize < 1 {
		return fmt.Errorf("IMPORT_BATCH_SIZE must be positive")
	}
	if c.Analytics.GraceMinutes < 0 || c.Analytics.HighAbsenceDays < 1 || c.Analytics.FrequentLateCount < 1 {
		return fmt.Errorf("analytics thresholds must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvSlice(key, fallback string) []string {
	var result []string
	for _, v := range strings.Split(getEnv(key, fallback), ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}
