package alerts

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/finfolio-backend/internal/domain"
)

func newAlert(symbol string, target int64, condition domain.AlertCondition) *domain.PriceAlert {
	return &domain.PriceAlert{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		Symbol:      symbol,
		TargetPrice: decimal.NewFromInt(target),
		Condition:   condition,
		IsActive:    true,
	}
}

func TestEvaluate(t *testing.T) {
	now := time.Date(2024, 3, 1, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		alert     *domain.PriceAlert
		price     string
		triggered bool
	}{
		{name: "above crossed", alert: newAlert("AAPL", 170, domain.AlertConditionAbove), price: "175.43", triggered: true},
		{name: "above exactly at target", alert: newAlert("AAPL", 170, domain.AlertConditionAbove), price: "170", triggered: true},
		{name: "above not reached", alert: newAlert("AAPL", 180, domain.AlertConditionAbove), price: "175.43", triggered: false},
		{name: "below crossed", alert: newAlert("TSLA", 250, domain.AlertConditionBelow), price: "248.50", triggered: true},
		{name: "below exactly at target", alert: newAlert("TSLA", 250, domain.AlertConditionBelow), price: "250", triggered: true},
		{name: "below not reached", alert: newAlert("TSLA", 200, domain.AlertConditionBelow), price: "248.50", triggered: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prices := map[string]decimal.Decimal{tt.alert.Symbol: decimal.RequireFromString(tt.price)}

			triggers := Evaluate([]*domain.PriceAlert{tt.alert}, prices, now)

			if !tt.triggered {
				assert.Empty(t, triggers)
				return
			}
			require.Len(t, triggers, 1)
			fired := triggers[0].Alert
			assert.Equal(t, tt.alert.ID, fired.ID)
			assert.False(t, fired.IsActive)
			require.NotNil(t, fired.TriggeredAt)
			assert.Equal(t, now, *fired.TriggeredAt)
			assert.NoError(t, fired.Validate())
			assert.True(t, triggers[0].Price.Equal(decimal.RequireFromString(tt.price)))

			// The input alert is untouched
			assert.True(t, tt.alert.IsActive)
			assert.Nil(t, tt.alert.TriggeredAt)
		})
	}
}

func TestEvaluate_SkipsInactiveAndUnpriced(t *testing.T) {
	inactive := newAlert("AAPL", 1, domain.AlertConditionAbove)
	inactive.IsActive = false
	unpriced := newAlert("MSFT", 1, domain.AlertConditionAbove)

	prices := map[string]decimal.Decimal{"AAPL": decimal.NewFromInt(100)}

	triggers := Evaluate([]*domain.PriceAlert{inactive, unpriced, nil}, prices, time.Now())
	assert.Empty(t, triggers)
}

func TestSymbols(t *testing.T) {
	inactive := newAlert("NVDA", 1, domain.AlertConditionAbove)
	inactive.IsActive = false

	alerts := []*domain.PriceAlert{
		newAlert("AAPL", 1, domain.AlertConditionAbove),
		newAlert("TSLA", 1, domain.AlertConditionBelow),
		newAlert("AAPL", 2, domain.AlertConditionBelow),
		inactive,
	}

	assert.Equal(t, []string{"AAPL", "TSLA"}, Symbols(alerts))
}

func TestTargetPrices_LatestWins(t *testing.T) {
	older := newAlert("AAPL", 150, domain.AlertConditionAbove)
	older.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := newAlert("AAPL", 200, domain.AlertConditionAbove)
	newer.CreatedAt = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	targets := TargetPrices([]*domain.PriceAlert{newer, older})
	require.Contains(t, targets, "AAPL")
	assert.True(t, targets["AAPL"].Equal(decimal.NewFromInt(200)))
}
