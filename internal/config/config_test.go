package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no .env in scope

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 9090, cfg.GRPCPort)
	assert.Equal(t, "dev-token", cfg.APIToken)
	assert.Equal(t, DriverMemory, cfg.DBDriver)
	assert.True(t, cfg.DemoMode)
	assert.Equal(t, DefaultUserID, cfg.UserID)
	assert.Equal(t, "INR", cfg.DisplayCurrency)
	assert.Equal(t, 10*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HTTP_PORT", "8181")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DEMO_MODE", "false")
	t.Setenv("ALPHA_VANTAGE_API_KEY", "key")
	t.Setenv("UPSTREAM_TIMEOUT", "3s")
	t.Setenv("DISPLAY_CURRENCY", "usd")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("RANDOM_SEED", "42")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8181, cfg.HTTPPort)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Contains(t, cfg.DBConnStr, "host=db")
	assert.Contains(t, cfg.DBConnStr, "dbname=finfolio")
	assert.False(t, cfg.DemoMode)
	assert.Equal(t, 3*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, "USD", cfg.DisplayCurrency)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, uint64(42), cfg.RandomSeed)
}

func TestLoad_InvalidUserID(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_USER_ID", "not-a-uuid")

	_, err := Load()
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			HTTPPort:           8080,
			GRPCPort:           9090,
			APIToken:           "t",
			DBDriver:           DriverSQLite,
			UpstreamMaxRetries: 3,
			DemoMode:           true,
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "unknown driver", mutate: func(c *Config) { c.DBDriver = "mysql" }, errMsg: "DB_DRIVER"},
		{name: "empty token", mutate: func(c *Config) { c.APIToken = "" }, errMsg: "API_TOKEN is required"},
		{name: "bad port", mutate: func(c *Config) { c.HTTPPort = 70000 }, errMsg: "HTTP_PORT 70000 is out of range"},
		{name: "same ports", mutate: func(c *Config) { c.GRPCPort = 8080 }, errMsg: "must differ"},
		{name: "no retries", mutate: func(c *Config) { c.UpstreamMaxRetries = 0 }, errMsg: "UPSTREAM_MAX_RETRIES"},
		{name: "live mode without key", mutate: func(c *Config) { c.DemoMode = false }, errMsg: "ALPHA_VANTAGE_API_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
