package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"mikune/database"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Storage backends
const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken   string
	DiscordGuildID string

	// Storage configuration
	StorageBackend string // "file" or "postgres"
	DataFile       string
	DatabaseURL    string
	DatabaseName   string

	// Bank configuration
	InterestRate       float64 // Daily savings interest
	LoanInterestRate   float64 // Daily simple interest on loans
	MinLoan            int64
	MaxLoanMultiplier  int64
	LoanDuration       time.Duration
	TransferFeePercent float64
	PropertyResaleRate float64

	// Workers
	InterestSweepEnabled bool
	InterestSweepHour    int // Hour in UTC when the interest sweep runs (0-23)

	// Messaging and cache
	NATSServers         string
	RedisURL            string
	LeaderboardCacheTTL time.Duration

	// OpenTelemetry
	OTelEnabled              bool
	OTelServiceName          string
	OTelExporterType         string // "console", "otlp" or "none"
	OTelOTLPEndpoint         string
	OTelExportIntervalMillis int

	// Logging
	LogLevel string

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// load loads configuration from environment variables
func load() (*Config, error) {
	// A missing .env is normal outside local development
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("Failed to load .env file: %v", err)
	}

	config := &Config{
		DiscordToken:   os.Getenv("DISCORD_TOKEN"),
		DiscordGuildID: os.Getenv("DISCORD_GUILD_ID"),

		StorageBackend: getEnvWithDefault("STORAGE_BACKEND", StorageFile),
		DataFile:       getEnvWithDefault("DATA_FILE", "data/economy.json"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DatabaseName:   os.Getenv("DATABASE_NAME"),

		InterestRate:       getEnvFloat("BANK_INTEREST_RATE", 0.02),
		LoanInterestRate:   getEnvFloat("LOAN_INTEREST_RATE", 0.05),
		MinLoan:            getEnvInt64("MIN_LOAN", 1000),
		MaxLoanMultiplier:  getEnvInt64("MAX_LOAN_MULTIPLIER", 2),
		LoanDuration:       time.Duration(getEnvInt64("LOAN_DURATION_DAYS", 7)) * 24 * time.Hour,
		TransferFeePercent: getEnvFloat("TRANSFER_FEE_PERCENT", 0.01),
		PropertyResaleRate: getEnvFloat("PROPERTY_RESALE_RATE", 0.7),

		InterestSweepEnabled: os.Getenv("INTEREST_SWEEP_ENABLED") == "true",
		InterestSweepHour:    int(getEnvInt64("INTEREST_SWEEP_HOUR", 0)),

		NATSServers:         os.Getenv("NATS_URL"),
		RedisURL:            os.Getenv("REDIS_URL"),
		LeaderboardCacheTTL: getEnvDuration("LEADERBOARD_CACHE_TTL", time.Minute),

		OTelEnabled:              os.Getenv("OTEL_ENABLED") == "true",
		OTelServiceName:          getEnvWithDefault("OTEL_SERVICE_NAME", "mikune"),
		OTelExporterType:         getEnvWithDefault("OTEL_EXPORTER_TYPE", "console"),
		OTelOTLPEndpoint:         getEnvWithDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OTelExportIntervalMillis: int(getEnvInt64("OTEL_EXPORT_INTERVAL_MS", 30000)),

		LogLevel:    getEnvWithDefault("LOG_LEVEL", "info"),
		Environment: getEnvWithDefault("ENVIRONMENT", "development"),
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	switch c.StorageBackend {
	case StorageFile, StoragePostgres:
	default:
		return fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", StorageFile, StoragePostgres, c.StorageBackend)
	}

	if c.InterestSweepHour < 0 || c.InterestSweepHour > 23 {
		return fmt.Errorf("INTEREST_SWEEP_HOUR must be between 0 and 23")
	}

	if c.Environment == "test" {
		return nil
	}

	if c.DiscordToken == "" {
		return fmt.Errorf("DISCORD_TOKEN is required")
	}
	if c.StorageBackend == StoragePostgres && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for the postgres storage backend")
	}
	if c.StorageBackend == StorageFile && strings.TrimSpace(c.DataFile) == "" {
		return fmt.Errorf("DATA_FILE cannot be empty for the file storage backend")
	}
	return nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
		log.Warnf("Ignoring invalid integer for %s: %q", key, value)
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
		log.Warnf("Ignoring invalid number for %s: %q", key, value)
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
		log.Warnf("Ignoring invalid duration for %s: %q", key, value)
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a config with the default bank rules suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:         "test",
		StorageBackend:      StorageFile,
		InterestRate:        0.02,
		LoanInterestRate:    0.05,
		MinLoan:             1000,
		MaxLoanMultiplier:   2,
		LoanDuration:        7 * 24 * time.Hour,
		TransferFeePercent:  0.01,
		PropertyResaleRate:  0.7,
		LeaderboardCacheTTL: time.Minute,
		LogLevel:            "debug",
	}
}
