package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Supported persistence drivers
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DefaultUserID is the single demo user served when no identity service is wired
var DefaultUserID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// Config holds application configuration
type Config struct {
	HTTPPort int
	GRPCPort int
	APIToken string

	DBDriver  string
	DBConnStr string

	AlphaVantageAPIKey string
	AlphaVantageURL    string
	UpstreamTimeout    time.Duration
	UpstreamMaxRetries int

	DemoMode   bool
	RandomSeed uint64

	UserID          uuid.UUID
	DisplayCurrency string

	RefreshSchedule string
	AlertSchedule   string

	CORSOrigins []string

	LogLevel  string
	LogPretty bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	userID, err := uuid.Parse(getEnv("APP_USER_ID", DefaultUserID.String()))
	if err != nil {
		return nil, fmt.Errorf("APP_USER_ID is not a valid uuid: %w", err)
	}

	cfg := &Config{
		HTTPPort:           getEnvAsInt("HTTP_PORT", 8080),
		GRPCPort:           getEnvAsInt("GRPC_PORT", 9090),
		APIToken:           getEnv("API_TOKEN", "dev-token"),
		DBDriver:           strings.ToLower(getEnv("DB_DRIVER", DriverMemory)),
		DBConnStr:          getEnv("DB_CONN_STR", ""),
		AlphaVantageAPIKey: getEnv("ALPHA_VANTAGE_API_KEY", ""),
		AlphaVantageURL:    getEnv("ALPHA_VANTAGE_URL", "https://www.alphavantage.co/query"),
		UpstreamTimeout:    getEnvAsDuration("UPSTREAM_TIMEOUT", 10*time.Second),
		UpstreamMaxRetries: getEnvAsInt("UPSTREAM_MAX_RETRIES", 3),
		DemoMode:           getEnvAsBool("DEMO_MODE", true),
		RandomSeed:         uint64(getEnvAsInt("RANDOM_SEED", 0)),
		UserID:             userID,
		DisplayCurrency:    strings.ToUpper(getEnv("DISPLAY_CURRENCY", "INR")),
		RefreshSchedule:    getEnv("REFRESH_SCHEDULE", "@every 1m"),
		AlertSchedule:      getEnv("ALERT_SCHEDULE", "@every 30s"),
		CORSOrigins:        splitList(getEnv("CORS_ORIGINS", "*")),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogPretty:          getEnvAsBool("LOG_PRETTY", false),
	}

	if cfg.DBConnStr == "" {
		cfg.DBConnStr = defaultConnStr(cfg.DBDriver)
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverMemory, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("DB_DRIVER must be one of memory, postgres, sqlite, got %q", c.DBDriver)
	}

	if c.APIToken == "" {
		return fmt.Errorf("API_TOKEN is required")
	}

	if !validPort(c.HTTPPort) {
		return fmt.Errorf("HTTP_PORT %d is out of range", c.HTTPPort)
	}
	if !validPort(c.GRPCPort) {
		return fmt.Errorf("GRPC_PORT %d is out of range", c.GRPCPort)
	}
	if c.HTTPPort == c.GRPCPort {
		return fmt.Errorf("HTTP_PORT and GRPC_PORT must differ")
	}

	if c.UpstreamMaxRetries < 1 {
		return fmt.Errorf("UPSTREAM_MAX_RETRIES must be at least 1")
	}

	// Without an upstream key the provider can only serve synthetic data
	if c.AlphaVantageAPIKey == "" && !c.DemoMode {
		return fmt.Errorf("ALPHA_VANTAGE_API_KEY is required when DEMO_MODE is off")
	}

	return nil
}

// defaultConnStr builds a connection string from individual variables (Docker friendly)
func defaultConnStr(driver string) string {
	switch driver {
	case DriverPostgres:
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			getEnv("DB_HOST", "localhost"),
			getEnv("DB_PORT", "5432"),
			getEnv("DB_USER", "postgres"),
			getEnv("DB_PASSWORD", "postgres"),
			getEnv("DB_NAME", "finfolio"),
		)
	case DriverSQLite:
		return getEnv("DATABASE_PATH", "./data/finfolio.db")
	default:
		return ""
	}
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func validPort(p int) bool {
	return p > 0 && p < 65536
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
