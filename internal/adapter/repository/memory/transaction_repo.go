package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

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

// Create appends a new transaction
func (r *transactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.transactions = append(r.db.transactions, *tx)
	return nil
}

// ListByPortfolio retrieves a page of transactions, newest first
func (r *transactionRepository) ListByPortfolio(ctx context.Context, portfolioID uuid.UUID, limit, offset int) ([]*domain.Transaction, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	matched := make([]*domain.Transaction, 0)
	// Walk backwards so equal timestamps keep newest-inserted first
	for i := len(r.db.transactions) - 1; i >= 0; i-- {
		tx := r.db.transactions[i]
		if tx.PortfolioID == portfolioID {
			matched = append(matched, &tx)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].TransactionDate.After(matched[j].TransactionDate)
	})

	if offset >= len(matched) {
		return []*domain.Transaction{}, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

// Count returns the number of transactions of a portfolio
func (r *transactionRepository) Count(ctx context.Context, portfolioID uuid.UUID) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	n := 0
	for _, tx := range r.db.transactions {
		if tx.PortfolioID == portfolioID {
			n++
		}
	}
	return n, nil
}
