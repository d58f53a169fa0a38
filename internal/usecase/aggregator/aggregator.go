package aggregator

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/finfolio-backend/internal/domain"
)

// DivisionPrecision is the number of fractional digits kept when dividing.
// Average prices carry this precision so repeated buys do not drift.
const DivisionPrecision = 16

var hundred = decimal.NewFromInt(100)

// hundredths is 100 percent expressed in units of 0.01
const hundredths = 10000

// MergeBuy folds a purchase into an existing holding (or opens a new one when existing is nil)
// Logic:
//
//	newQuantity = oldQuantity + quantity
//	newAverage  = (oldQuantity*oldAverage + quantity*price) / newQuantity
//
// The existing holding is not mutated; the merged copy keeps its ID and CreatedAt.
func MergeBuy(existing *domain.Holding, portfolioID uuid.UUID, symbol, companyName string, quantity, price decimal.Decimal, now time.Time) (*domain.Holding, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("quantity must be positive: %w", domain.ErrInvalidArgument)
	}
	if price.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("price must be positive: %w", domain.ErrInvalidArgument)
	}

	if existing == nil {
		h := &domain.Holding{
			ID:           uuid.New(),
			PortfolioID:  portfolioID,
			Symbol:       symbol,
			CompanyName:  companyName,
			Quantity:     quantity,
			AveragePrice: price,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return h, h.Validate()
	}

	merged := *existing
	newQuantity := existing.Quantity.Add(quantity)
	totalCost := existing.Quantity.Mul(existing.AveragePrice).Add(quantity.Mul(price))

	merged.Quantity = newQuantity
	merged.AveragePrice = totalCost.DivRound(newQuantity, DivisionPrecision)
	merged.UpdatedAt = now
	if companyName != "" {
		merged.CompanyName = companyName
	}

	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// SellOutcome is the result of applying a sell to a holding
type SellOutcome struct {
	Holding  *domain.Holding // remaining position, nil when Closed
	Realized decimal.Decimal // (price - averagePrice) * quantity
	Closed   bool            // true when the whole position was sold
}

// ApplySell reduces a holding by quantity sold at price
// The average price of the remaining position is unchanged.
func ApplySell(existing *domain.Holding, quantity, price decimal.Decimal, now time.Time) (*SellOutcome, error) {
	if existing == nil {
		return nil, fmt.Errorf("no holding to sell: %w", domain.ErrNotFound)
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("quantity must be positive: %w", domain.ErrInvalidArgument)
	}
	if price.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("price must be positive: %w", domain.ErrInvalidArgument)
	}
	if quantity.GreaterThan(existing.Quantity) {
		return nil, fmt.Errorf("selling %s of %s but only %s held: %w",
			quantity, existing.Symbol, existing.Quantity, domain.ErrInsufficientQuantity)
	}

	outcome := &SellOutcome{
		Realized: price.Sub(existing.AveragePrice).Mul(quantity),
	}

	remaining := existing.Quantity.Sub(quantity)
	if remaining.IsZero() {
		outcome.Closed = true
		return outcome, nil
	}

	h := *existing
	h.Quantity = remaining
	h.UpdatedAt = now
	outcome.Holding = &h
	return outcome, nil
}

// DeriveMetrics computes the market-side numbers of a holding at currentPrice
// GainLossPercent is 0 when the total cost is 0.
func DeriveMetrics(h domain.Holding, currentPrice decimal.Decimal) domain.HoldingMetrics {
	totalValue := h.Quantity.Mul(currentPrice)
	totalCost := h.Quantity.Mul(h.AveragePrice)
	gainLoss := totalValue.Sub(totalCost)

	return domain.HoldingMetrics{
		CurrentPrice:    currentPrice,
		TotalValue:      totalValue,
		TotalCost:       totalCost,
		GainLoss:        gainLoss,
		GainLossPercent: percentOf(gainLoss, totalCost),
	}
}

// View pairs a holding with its derived metrics
func View(h domain.Holding, currentPrice decimal.Decimal) domain.HoldingView {
	return domain.HoldingView{Holding: h, HoldingMetrics: DeriveMetrics(h, currentPrice)}
}

// Aggregate sums the metrics of every holding view
// TotalGainLossPercent is 0 when the total cost is 0.
func Aggregate(views []domain.HoldingView) domain.PortfolioSummary {
	var summary domain.PortfolioSummary
	for _, v := range views {
		summary.TotalValue = summary.TotalValue.Add(v.TotalValue)
		summary.TotalCost = summary.TotalCost.Add(v.TotalCost)
	}
	summary.TotalGainLoss = summary.TotalValue.Sub(summary.TotalCost)
	summary.TotalGainLossPercent = percentOf(summary.TotalGainLoss, summary.TotalCost)
	return summary
}

// AllocationSlice is the share of portfolio value held in one symbol
type AllocationSlice struct {
	Symbol  string
	Value   decimal.Decimal
	Percent decimal.Decimal // rounded to 2 decimals
}

// Allocation splits the total value across holdings, largest first.
// Percentages are apportioned in hundredths by largest remainder: every slice is
// floored to 2 decimals and the leftover hundredths go to the largest remainders,
// so slices are never negative and always sum to exactly 100 when the total value is positive.
func Allocation(views []domain.HoldingView) ([]AllocationSlice, error) {
	total := decimal.Zero
	for _, v := range views {
		if v.TotalValue.IsNegative() {
			return nil, errors.New("holding value cannot be negative")
		}
		total = total.Add(v.TotalValue)
	}

	slices := make([]AllocationSlice, 0, len(views))
	for _, v := range views {
		slices = append(slices, AllocationSlice{Symbol: v.Symbol, Value: v.TotalValue})
	}
	sort.SliceStable(slices, func(i, j int) bool {
		return slices[i].Value.GreaterThan(slices[j].Value)
	})

	if !total.IsPositive() {
		for i := range slices {
			slices[i].Percent = decimal.Zero
		}
		return slices, nil
	}

	units := make([]int64, len(slices))
	remainders := make([]decimal.Decimal, len(slices))
	leftover := int64(hundredths)
	for i := range slices {
		exact := slices[i].Value.Mul(decimal.NewFromInt(hundredths)).DivRound(total, DivisionPrecision)
		floor := exact.Floor()
		units[i] = floor.IntPart()
		remainders[i] = exact.Sub(floor)
		leftover -= units[i]
	}

	order := make([]int, len(slices))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return remainders[order[a]].GreaterThan(remainders[order[b]])
	})
	for k := 0; leftover > 0 && k < len(order); k++ {
		units[order[k]]++
		leftover--
	}

	for i := range slices {
		slices[i].Percent = decimal.New(units[i], -2)
	}

	// Safety check: Ensure the slices add up to exactly 100
	sum := decimal.Zero
	for _, s := range slices {
		sum = sum.Add(s.Percent)
	}
	if !sum.Equal(hundred) {
		return nil, errors.New("allocation does not sum to 100")
	}

	return slices, nil
}

func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Mul(hundred).DivRound(whole, DivisionPrecision)
}
