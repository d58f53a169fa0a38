package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AlertCondition is the direction a price must cross for an alert to fire
type AlertCondition string

const (
	AlertConditionAbove AlertCondition = "above"
	AlertConditionBelow AlertCondition = "below"
)

// PriceAlert fires once when the quote for Symbol crosses TargetPrice
type PriceAlert struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Symbol      string
	CompanyName string
	TargetPrice decimal.Decimal
	Condition   AlertCondition
	IsActive    bool
	TriggeredAt *time.Time // NULL until the alert fires
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate ensures the alert adheres to domain rules
func (a *PriceAlert) Validate() error {
	if a.Symbol == "" {
		return errors.New("alert symbol cannot be empty")
	}

	if a.TargetPrice.LessThanOrEqual(decimal.Zero) {
		return errors.New("alert target price must be positive")
	}

	if a.Condition != AlertConditionAbove && a.Condition != AlertConditionBelow {
		return errors.New("alert condition must be above or below")
	}

	// A triggered alert is always inactive
	if a.TriggeredAt != nil && a.IsActive {
		return errors.New("triggered alert cannot be active")
	}

	return nil
}

// Triggered reports whether price satisfies the alert condition
func (a *PriceAlert) Triggered(price decimal.Decimal) bool {
	switch a.Condition {
	case AlertConditionAbove:
		return price.GreaterThanOrEqual(a.TargetPrice)
	case AlertConditionBelow:
		return price.LessThanOrEqual(a.TargetPrice)
	default:
		return false
	}
}
