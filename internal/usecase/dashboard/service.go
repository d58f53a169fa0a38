package dashboard

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/simaogato/finfolio-backend/internal/domain"
	"github.com/simaogato/finfolio-backend/internal/usecase/aggregator"
)

// RiskLevel is a coarse label for how exposed a portfolio is
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
)

// Thresholds for the risk bucket.
// Concentration is a Herfindahl index in [1/n, 1]; volatility is in percentage points.
const (
	highConcentration     = 0.5
	moderateConcentration = 0.25
	highVolatility        = 3.0
	moderateVolatility    = 1.5
)

// Analytics is the dashboard view of a portfolio
type Analytics struct {
	Summary       domain.PortfolioSummary
	Allocation    []aggregator.AllocationSlice
	Concentration decimal.Decimal // Herfindahl index of value weights
	Volatility    decimal.Decimal // value-weighted stdev of daily change percent
	Risk          RiskLevel
	Best          *domain.HoldingView // highest gain/loss percent
	Worst         *domain.HoldingView // lowest gain/loss percent
}

// Analyze computes dashboard analytics for the holdings of a portfolio
// Logic:
//   - Summary and Allocation come from the aggregator
//   - Concentration: sum of squared value weights
//   - Volatility: value-weighted population stdev of each holding's daily change percent
//   - Risk: high if either measure crosses its high threshold, moderate likewise, else low
//
// dailyChange maps symbol to the day's change percent; missing symbols count as 0.
func Analyze(views []domain.HoldingView, dailyChange map[string]decimal.Decimal) (*Analytics, error) {
	allocation, err := aggregator.Allocation(views)
	if err != nil {
		return nil, fmt.Errorf("failed to compute allocation: %w", err)
	}

	result := &Analytics{
		Summary:       aggregator.Aggregate(views),
		Allocation:    allocation,
		Concentration: decimal.Zero,
		Volatility:    decimal.Zero,
		Risk:          RiskLow,
	}

	for i := range views {
		v := &views[i]
		if result.Best == nil || v.GainLossPercent.GreaterThan(result.Best.GainLossPercent) {
			result.Best = v
		}
		if result.Worst == nil || v.GainLossPercent.LessThan(result.Worst.GainLossPercent) {
			result.Worst = v
		}
	}

	weights := make([]float64, len(views))
	changes := make([]float64, len(views))
	for i, v := range views {
		weights[i] = v.TotalValue.InexactFloat64()
		changes[i] = dailyChange[v.Symbol].InexactFloat64()
	}

	total := floats.Sum(weights)
	if total <= 0 {
		return result, nil
	}
	floats.Scale(1/total, weights)

	hhi := floats.Dot(weights, weights)
	vol := stat.PopStdDev(changes, weights)
	if math.IsNaN(vol) {
		vol = 0
	}

	result.Concentration = decimal.NewFromFloat(hhi).Round(4)
	result.Volatility = decimal.NewFromFloat(vol).Round(4)
	result.Risk = bucket(hhi, vol)

	return result, nil
}

func bucket(concentration, volatility float64) RiskLevel {
	switch {
	case concentration > highConcentration || volatility > highVolatility:
		return RiskHigh
	case concentration > moderateConcentration || volatility > moderateVolatility:
		return RiskModerate
	default:
		return RiskLow
	}
}
