package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WatchlistItem is a symbol the user follows without holding it
// Symbol is unique per user
type WatchlistItem struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Symbol      string
	CompanyName string
	CreatedAt   time.Time
}

// WatchlistRow is a watchlist item enriched with live quote data
type WatchlistRow struct {
	WatchlistItem
	Price         decimal.Decimal
	Change        decimal.Decimal
	ChangePercent decimal.Decimal
	AlertPrice    *decimal.Decimal // nil when no alert target is known
}
