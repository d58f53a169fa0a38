package di

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/finfolio-backend/internal/config"
)

func testConfig(driver, dsn string) *config.Config {
	return &config.Config{
		DBDriver:           driver,
		DBConnStr:          dsn,
		DemoMode:           true,
		RandomSeed:         42,
		UserID:             uuid.New(),
		DisplayCurrency:    "USD",
		UpstreamMaxRetries: 1,
	}
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name   string
		driver string
		dsn    string
		sql    bool
	}{
		{name: "memory", driver: config.DriverMemory},
		{name: "sqlite", driver: config.DriverSQLite, dsn: ":memory:", sql: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			c, err := Build(ctx, testConfig(tt.driver, tt.dsn), zerolog.Nop())
			require.NoError(t, err)
			defer c.Close()

			assert.Equal(t, tt.sql, c.DB != nil)
			assert.Equal(t, "USD", c.Currency.Code())
			require.True(t, c.Store.Snapshot().Ready())

			view, err := c.Store.AddHolding(ctx, "AAPL", decimal.NewFromInt(2), decimal.NewFromInt(100))
			require.NoError(t, err)
			assert.Equal(t, "175.43", view.CurrentPrice.String())
			assert.Equal(t, "Apple Inc.", view.CompanyName)

			indices, err := c.Market.MarketIndices(ctx)
			require.NoError(t, err)
			assert.NotEmpty(t, indices)
		})
	}
}

func TestOpenDatabase_UnknownDriver(t *testing.T) {
	_, err := OpenDatabase(context.Background(), testConfig("oracle", ""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oracle")
}

func TestNewQuoteServices_DemoWithoutKey(t *testing.T) {
	global, regional, err := NewQuoteServices(testConfig(config.DriverMemory, ""), zerolog.Nop())
	require.NoError(t, err)
	assert.Nil(t, global.Source)
	assert.True(t, global.DemoMode)
	assert.NotNil(t, regional)
}
