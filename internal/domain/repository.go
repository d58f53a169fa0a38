package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repositories return errors wrapping ErrNotFound when a row does not exist
// and ErrPersistenceConflict on uniqueness violations.

// ProfileRepository defines the interface for profile persistence operations
type ProfileRepository interface {
	// GetByID retrieves a profile by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)

	// Create creates a new profile
	Create(ctx context.Context, profile *Profile) error
}

// PortfolioRepository defines the interface for portfolio persistence operations
type PortfolioRepository interface {
	// GetByID retrieves a portfolio by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Portfolio, error)

	// ListByUser retrieves all portfolios of a user, default portfolio first
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Portfolio, error)

	// Create creates a new portfolio
	Create(ctx context.Context, portfolio *Portfolio) error
}

// HoldingRepository defines the interface for holding persistence operations
type HoldingRepository interface {
	// GetByID retrieves a holding by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Holding, error)

	// GetBySymbol retrieves the holding of a symbol within a portfolio
	GetBySymbol(ctx context.Context, portfolioID uuid.UUID, symbol string) (*Holding, error)

	// ListByPortfolio retrieves all holdings of a portfolio ordered by symbol
	ListByPortfolio(ctx context.Context, portfolioID uuid.UUID) ([]*Holding, error)

	// Create creates a new holding
	Create(ctx context.Context, holding *Holding) error

	// Update overwrites quantity, average price, company name and updated_at
	Update(ctx context.Context, holding *Holding) error

	// Delete removes a holding
	Delete(ctx context.Context, id uuid.UUID) error
}

// TransactionRepository defines the interface for transaction persistence operations
type TransactionRepository interface {
	// Create appends a new transaction
	Create(ctx context.Context, tx *Transaction) error

	// ListByPortfolio retrieves a page of transactions, newest first
	ListByPortfolio(ctx context.Context, portfolioID uuid.UUID, limit, offset int) ([]*Transaction, error)

	// Count returns the number of transactions of a portfolio
	Count(ctx context.Context, portfolioID uuid.UUID) (int, error)
}

// WatchlistRepository defines the interface for watchlist persistence operations
type WatchlistRepository interface {
	// ListByUser retrieves the watchlist of a user in insertion order
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*WatchlistItem, error)

	// Insert adds a symbol to the watchlist
	// Returns ErrPersistenceConflict if the symbol is already watched
	Insert(ctx context.Context, item *WatchlistItem) error

	// UpdateCompanyName renames an existing watchlist entry
	UpdateCompanyName(ctx context.Context, userID uuid.UUID, symbol, companyName string) error

	// DeleteBySymbol removes a symbol from the watchlist
	DeleteBySymbol(ctx context.Context, userID uuid.UUID, symbol string) error
}

// PriceAlertRepository defines the interface for price alert persistence operations
type PriceAlertRepository interface {
	// Create creates a new alert
	Create(ctx context.Context, alert *PriceAlert) error

	// ListByUser retrieves alerts of a user; activeOnly filters out triggered ones
	ListByUser(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]*PriceAlert, error)

	// MarkTriggered deactivates an alert and records when it fired
	MarkTriggered(ctx context.Context, id uuid.UUID, at time.Time) error

	// Delete removes an alert owned by userID
	Delete(ctx context.Context, userID, id uuid.UUID) error
}
