package sqlstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/finfolio-backend/internal/domain"
)

// transactionRepository implements domain.TransactionRepository
type transactionRepository struct {
	db *DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *DB) domain.TransactionRepository {
	return &transactionRepository{db: db}
}

// Create validates and appends a new transaction
func (r *transactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	if err := tx.Validate(); err != nil {
		return fmt.Errorf("invalid transaction: %w", err)
	}

	query := `
		INSERT INTO transactions (id, portfolio_id, symbol, company_name, transaction_type,
			quantity, price, total_amount, realized_gain_loss, transaction_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.exec(ctx, query,
		tx.ID,
		tx.PortfolioID,
		tx.Symbol,
		tx.CompanyName,
		string(tx.Type),
		tx.Quantity.String(),
		tx.Price.String(),
		tx.TotalAmount.String(),
		tx.RealizedGainLoss.String(),
		r.db.timeArg(tx.TransactionDate),
		r.db.timeArg(tx.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("transaction %s already exists: %w", tx.ID, domain.ErrPersistenceConflict)
		}
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// ListByPortfolio retrieves a page of transactions, newest first
// A limit of 0 returns every row from offset on.
func (r *transactionRepository) ListByPortfolio(ctx context.Context, portfolioID uuid.UUID, limit, offset int) ([]*domain.Transaction, error) {
	query := `
		SELECT id, portfolio_id, symbol, company_name, transaction_type,
			quantity, price, total_amount, realized_gain_loss, transaction_date, created_at
		FROM transactions
		WHERE portfolio_id = $1
		ORDER BY transaction_date DESC, created_at DESC
	`
	args := []any{portfolioID}
	if limit > 0 {
		query += ` LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	} else if offset > 0 {
		// sqlite requires a LIMIT before OFFSET; -1 means unbounded there and ALL in postgres
		if r.db.Dialect == DialectSQLite {
			query += ` LIMIT -1 OFFSET $2`
		} else {
			query += ` OFFSET $2`
		}
		args = append(args, offset)
	}

	rows, err := r.db.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	txs := make([]*domain.Transaction, 0)
	for rows.Next() {
		var tx domain.Transaction
		var txType string
		var quantityStr, priceStr, totalStr, realizedStr string
		var txDate, createdAt dbTime

		err := rows.Scan(
			&tx.ID,
			&tx.PortfolioID,
			&tx.Symbol,
			&tx.CompanyName,
			&txType,
			&quantityStr,
			&priceStr,
			&totalStr,
			&realizedStr,
			&txDate,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		amounts := []struct {
			raw  string
			dest *decimal.Decimal
			name string
		}{
			{quantityStr, &tx.Quantity, "quantity"},
			{priceStr, &tx.Price, "price"},
			{totalStr, &tx.TotalAmount, "total_amount"},
			{realizedStr, &tx.RealizedGainLoss, "realized_gain_loss"},
		}
		for _, a := range amounts {
			v, err := decimal.NewFromString(a.raw)
			if err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", a.name, err)
			}
			*a.dest = v
		}

		tx.Type = domain.TransactionType(txType)
		tx.TransactionDate = txDate.Time
		tx.CreatedAt = createdAt.Time
		txs = append(txs, &tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return txs, nil
}

// Count returns the number of transactions of a portfolio
func (r *transactionRepository) Count(ctx context.Context, portfolioID uuid.UUID) (int, error) {
	var n int
	err := r.db.queryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE portfolio_id = $1`, portfolioID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return n, nil
}
