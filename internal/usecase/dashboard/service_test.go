package dashboard

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/finfolio-backend/internal/domain"
	"github.com/simaogato/finfolio-backend/internal/usecase/aggregator"
)

func view(symbol string, quantity, avg, price int64) domain.HoldingView {
	return aggregator.View(domain.Holding{
		Symbol:       symbol,
		Quantity:     decimal.NewFromInt(quantity),
		AveragePrice: decimal.NewFromInt(avg),
	}, decimal.NewFromInt(price))
}

func TestAnalyze_Diversified(t *testing.T) {
	// Five equal positions, calm market -> low risk
	views := []domain.HoldingView{
		view("A", 1, 100, 110),
		view("B", 1, 100, 110),
		view("C", 1, 100, 110),
		view("D", 1, 100, 110),
		view("E", 1, 100, 110),
	}
	changes := map[string]decimal.Decimal{
		"A": decimal.RequireFromString("0.5"),
		"B": decimal.RequireFromString("-0.5"),
	}

	result, err := Analyze(views, changes)
	require.NoError(t, err)

	assert.Equal(t, RiskLow, result.Risk)
	assert.True(t, result.Concentration.Equal(decimal.RequireFromString("0.2")), "got %s", result.Concentration)
	assert.True(t, result.Summary.TotalValue.Equal(decimal.NewFromInt(550)))
	assert.Len(t, result.Allocation, 5)
}

func TestAnalyze_Concentrated(t *testing.T) {
	views := []domain.HoldingView{
		view("BIG", 9, 100, 100),
		view("SMALL", 1, 100, 100),
	}

	result, err := Analyze(views, nil)
	require.NoError(t, err)

	// 0.9^2 + 0.1^2 = 0.82
	assert.True(t, result.Concentration.Equal(decimal.RequireFromString("0.82")), "got %s", result.Concentration)
	assert.Equal(t, RiskHigh, result.Risk)
	assert.True(t, result.Volatility.IsZero())
}

func TestAnalyze_Volatile(t *testing.T) {
	views := []domain.HoldingView{
		view("A", 1, 100, 100),
		view("B", 1, 100, 100),
		view("C", 1, 100, 100),
		view("D", 1, 100, 100),
		view("E", 1, 100, 100),
	}
	changes := map[string]decimal.Decimal{
		"A": decimal.NewFromInt(5),
		"B": decimal.NewFromInt(-5),
		"C": decimal.NewFromInt(5),
		"D": decimal.NewFromInt(-5),
		"E": decimal.NewFromInt(0),
	}

	result, err := Analyze(views, changes)
	require.NoError(t, err)
	assert.Equal(t, RiskHigh, result.Risk)
	assert.True(t, result.Volatility.GreaterThan(decimal.NewFromInt(3)))
}

func TestAnalyze_BestAndWorst(t *testing.T) {
	views := []domain.HoldingView{
		view("UP", 1, 100, 150),
		view("FLAT", 1, 100, 100),
		view("DOWN", 1, 100, 80),
	}

	result, err := Analyze(views, nil)
	require.NoError(t, err)
	require.NotNil(t, result.Best)
	require.NotNil(t, result.Worst)
	assert.Equal(t, "UP", result.Best.Symbol)
	assert.Equal(t, "DOWN", result.Worst.Symbol)
}

func TestAnalyze_Empty(t *testing.T) {
	result, err := Analyze(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, RiskLow, result.Risk)
	assert.Nil(t, result.Best)
	assert.Empty(t, result.Allocation)
	assert.True(t, result.Summary.TotalGainLossPercent.IsZero())
}

func TestBucket(t *testing.T) {
	tests := []struct {
		name          string
		concentration float64
		volatility    float64
		want          RiskLevel
	}{
		{name: "calm and spread", concentration: 0.1, volatility: 0.5, want: RiskLow},
		{name: "moderately concentrated", concentration: 0.3, volatility: 0.5, want: RiskModerate},
		{name: "moderately volatile", concentration: 0.1, volatility: 2, want: RiskModerate},
		{name: "single holding", concentration: 1, volatility: 0, want: RiskHigh},
		{name: "very volatile", concentration: 0.1, volatility: 4, want: RiskHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, bucket(tt.concentration, tt.volatility))
		})
	}
}
