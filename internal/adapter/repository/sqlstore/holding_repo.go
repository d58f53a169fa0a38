package sqlstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

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

const holdingColumns = `id, portfolio_id, symbol, company_name, quantity, average_price, created_at, updated_at`

func scanHolding(row rowScanner) (*domain.Holding, error) {
	var h domain.Holding
	var quantityStr, averageStr string
	var createdAt, updatedAt dbTime

	if err := row.Scan(&h.ID, &h.PortfolioID, &h.Symbol, &h.CompanyName, &quantityStr, &averageStr, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	// Parse quantity and average_price (DECIMAL)
	quantity, err := decimal.NewFromString(quantityStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse quantity: %w", err)
	}
	average, err := decimal.NewFromString(averageStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse average_price: %w", err)
	}

	h.Quantity = quantity
	h.AveragePrice = average
	h.CreatedAt, h.UpdatedAt = createdAt.Time, updatedAt.Time
	return &h, nil
}

// GetByID retrieves a holding by its ID
func (r *holdingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Holding, error) {
	query := `SELECT ` + holdingColumns + ` FROM holdings WHERE id = $1`

	h, err := scanHolding(r.db.queryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "holding")
	}
	return h, nil
}

// GetBySymbol retrieves the holding of a symbol within a portfolio
func (r *holdingRepository) GetBySymbol(ctx context.Context, portfolioID uuid.UUID, symbol string) (*domain.Holding, error) {
	query := `SELECT ` + holdingColumns + ` FROM holdings WHERE portfolio_id = $1 AND symbol = $2`

	h, err := scanHolding(r.db.queryRow(ctx, query, portfolioID, symbol))
	if err != nil {
		return nil, notFound(err, "holding")
	}
	return h, nil
}

// ListByPortfolio retrieves all holdings of a portfolio ordered by symbol
func (r *holdingRepository) ListByPortfolio(ctx context.Context, portfolioID uuid.UUID) ([]*domain.Holding, error) {
	query := `SELECT ` + holdingColumns + ` FROM holdings WHERE portfolio_id = $1 ORDER BY symbol ASC`

	rows, err := r.db.query(ctx, query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}
	defer rows.Close()

	holdings := make([]*domain.Holding, 0)
	for rows.Next() {
		h, err := scanHolding(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		holdings = append(holdings, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holdings: %w", err)
	}
	return holdings, nil
}

// Create creates a new holding
func (r *holdingRepository) Create(ctx context.Context, holding *domain.Holding) error {
	query := `
		INSERT INTO holdings (id, portfolio_id, symbol, company_name, quantity, average_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.exec(ctx, query,
		holding.ID,
		holding.PortfolioID,
		holding.Symbol,
		holding.CompanyName,
		holding.Quantity.String(),
		holding.AveragePrice.String(),
		r.db.timeArg(holding.CreatedAt),
		r.db.timeArg(holding.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("holding %s already exists: %w", holding.Symbol, domain.ErrPersistenceConflict)
		}
		return fmt.Errorf("failed to create holding: %w", err)
	}
	return nil
}

// Update overwrites quantity, average price, company name and updated_at
func (r *holdingRepository) Update(ctx context.Context, holding *domain.Holding) error {
	query := `
		UPDATE holdings
		SET quantity = $1, average_price = $2, company_name = $3, updated_at = $4
		WHERE id = $5
	`

	result, err := r.db.exec(ctx, query,
		holding.Quantity.String(),
		holding.AveragePrice.String(),
		holding.CompanyName,
		r.db.timeArg(holding.UpdatedAt),
		holding.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update holding: %w", err)
	}
	return requireAffected(result, "holding")
}

// Delete removes a holding
func (r *holdingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.exec(ctx, `DELETE FROM holdings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete holding: %w", err)
	}
	return requireAffected(result, "holding")
}
