package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/simaogato/finfolio-backend/internal/domain"
)

// holdingRepository implements domain.HoldingRepository
type holdingRepository struct {
	db *DB
}

// NewHoldingRepository creates a new holding repository
func NewHoldingRepository(db *DB) domain.HoldingRepository {
	return &holdingRepository{db: db}
}

// GetByID retrieves a holding by its ID
func (r *holdingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Holding, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	h, ok := r.db.holdings[id]
	if !ok {
		return nil, fmt.Errorf("holding %s: %w", id, domain.ErrNotFound)
	}
	return &h, nil
}

// GetBySymbol retrieves the holding of a symbol within a portfolio
func (r *holdingRepository) GetBySymbol(ctx context.Context, portfolioID uuid.UUID, symbol string) (*domain.Holding, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, h := range r.db.holdings {
		if h.PortfolioID == portfolioID && h.Symbol == symbol {
			return &h, nil
		}
	}
	return nil, fmt.Errorf("holding %s: %w", symbol, domain.ErrNotFound)
}

// ListByPortfolio retrieves all holdings of a portfolio ordered by symbol
func (r *holdingRepository) ListByPortfolio(ctx context.Context, portfolioID uuid.UUID) ([]*domain.Holding, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]*domain.Holding, 0)
	for _, h := range r.db.holdings {
		if h.PortfolioID == portfolioID {
			out = append(out, &h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out, nil
}

// Create creates a new holding
// Returns ErrPersistenceConflict if the portfolio already holds the symbol
func (r *holdingRepository) Create(ctx context.Context, holding *domain.Holding) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, h := range r.db.holdings {
		if h.ID == holding.ID || (h.PortfolioID == holding.PortfolioID && h.Symbol == holding.Symbol) {
			return fmt.Errorf("holding %s: %w", holding.Symbol, domain.ErrPersistenceConflict)
		}
	}
	r.db.holdings[holding.ID] = *holding
	return nil
}

// Update overwrites quantity, average price, company name and updated_at
func (r *holdingRepository) Update(ctx context.Context, holding *domain.Holding) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	h, ok := r.db.holdings[holding.ID]
	if !ok {
		return fmt.Errorf("holding %s: %w", holding.ID, domain.ErrNotFound)
	}
	h.Quantity = holding.Quantity
	h.AveragePrice = holding.AveragePrice
	h.CompanyName = holding.CompanyName
	h.UpdatedAt = holding.UpdatedAt
	r.db.holdings[h.ID] = h
	return nil
}

// Delete removes a holding
func (r *holdingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.holdings[id]; !ok {
		return fmt.Errorf("holding %s: %w", id, domain.ErrNotFound)
	}
	delete(r.db.holdings, id)
	return nil
}
