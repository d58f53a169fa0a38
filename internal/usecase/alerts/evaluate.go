package alerts

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/simaogato/finfolio-backend/internal/domain"
)

// Trigger is an alert that fired against a quote
type Trigger struct {
	Alert domain.PriceAlert // copy of the alert, already marked triggered
	Price decimal.Decimal   // price that satisfied the condition
}

// Evaluate checks active alerts against current prices and returns those that fired.
//
// Logic:
//   - Inactive alerts and alerts without a price in prices are skipped
//   - ABOVE fires when price >= target, BELOW when price <= target
//   - A fired alert is returned inactive with TriggeredAt = now
//
// The input alerts are not modified; results keep the order of alerts.
func Evaluate(alerts []*domain.PriceAlert, prices map[string]decimal.Decimal, now time.Time) []Trigger {
	triggers := make([]Trigger, 0)

	for _, alert := range alerts {
		if alert == nil || !alert.IsActive {
			continue
		}

		price, ok := prices[alert.Symbol]
		if !ok || !alert.Triggered(price) {
			continue
		}

		fired := *alert
		at := now
		fired.IsActive = false
		fired.TriggeredAt = &at
		fired.UpdatedAt = now

		triggers = append(triggers, Trigger{Alert: fired, Price: price})
	}

	return triggers
}

// Symbols returns the distinct symbols of active alerts in first-seen order
func Symbols(alerts []*domain.PriceAlert) []string {
	seen := make(map[string]struct{}, len(alerts))
	symbols := make([]string, 0, len(alerts))
	for _, alert := range alerts {
		if alert == nil || !alert.IsActive {
			continue
		}
		if _, ok := seen[alert.Symbol]; ok {
			continue
		}
		seen[alert.Symbol] = struct{}{}
		symbols = append(symbols, alert.Symbol)
	}
	return symbols
}

// TargetPrices maps each symbol to the target of its most recent active alert
// Used to show alert prices next to watchlist rows.
func TargetPrices(alerts []*domain.PriceAlert) map[string]*decimal.Decimal {
	targets := make(map[string]*decimal.Decimal)
	latest := make(map[string]time.Time)
	for _, alert := range alerts {
		if alert == nil || !alert.IsActive {
			continue
		}
		if at, ok := latest[alert.Symbol]; ok && at.After(alert.CreatedAt) {
			continue
		}
		target := alert.TargetPrice
		targets[alert.Symbol] = &target
		latest[alert.Symbol] = alert.CreatedAt
	}
	return targets
}
