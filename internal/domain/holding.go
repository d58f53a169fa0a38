package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Holding represents a position in a single symbol within a portfolio
// Quantity and AveragePrice are the book side; market values are derived, never stored
type Holding struct {
	ID           uuid.UUID
	PortfolioID  uuid.UUID
	Symbol       string
	CompanyName  string
	Quantity     decimal.Decimal
	AveragePrice decimal.Decimal // weighted-average cost per share
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate ensures the holding adheres to domain rules
func (h *Holding) Validate() error {
	if h.Symbol == "" {
		return errors.New("holding symbol cannot be empty")
	}
	if h.Quantity.LessThanOrEqual(decimal.Zero) {
		return errors.New("holding quantity must be positive")
	}
	if h.AveragePrice.LessThanOrEqual(decimal.Zero) {
		return errors.New("holding average price must be positive")
	}
	return nil
}

// HoldingMetrics are the market-side numbers derived from a holding and a current price
type HoldingMetrics struct {
	CurrentPrice    decimal.Decimal
	TotalValue      decimal.Decimal // Quantity * CurrentPrice
	TotalCost       decimal.Decimal // Quantity * AveragePrice
	GainLoss        decimal.Decimal // TotalValue - TotalCost
	GainLossPercent decimal.Decimal // 0 when TotalCost is 0
}

// HoldingView is a holding together with its derived metrics
type HoldingView struct {
	Holding
	HoldingMetrics
}

// PortfolioSummary aggregates the metrics of every holding in a portfolio
type PortfolioSummary struct {
	TotalValue           decimal.Decimal
	TotalCost            decimal.Decimal
	TotalGainLoss        decimal.Decimal
	TotalGainLossPercent decimal.Decimal
}
