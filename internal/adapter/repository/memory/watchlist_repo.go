package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/simaogato/finfolio-backend/internal/domain"
)

// watchlistRepository implements domain.WatchlistRepository
type watchlistRepository struct {
	db *DB
}

// NewWatchlistRepository creates a new watchlist repository
func NewWatchlistRepository(db *DB) domain.WatchlistRepository {
	return &watchlistRepository{db: db}
}

// ListByUser retrieves the watchlist of a user in insertion order
func (r *watchlistRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.WatchlistItem, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]*domain.WatchlistItem, 0)
	for _, item := range r.db.watchlist {
		if item.UserID == userID {
			out = append(out, &item)
		}
	}
	return out, nil
}

// Insert adds a symbol to the watchlist
func (r *watchlistRepository) Insert(ctx context.Context, item *domain.WatchlistItem) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, existing := range r.db.watchlist {
		if existing.UserID == item.UserID && existing.Symbol == item.Symbol {
			return fmt.Errorf("watchlist %s: %w", item.Symbol, domain.ErrPersistenceConflict)
		}
	}
	r.db.watchlist = append(r.db.watchlist, *item)
	return nil
}

// UpdateCompanyName renames an existing watchlist entry
func (r *watchlistRepository) UpdateCompanyName(ctx context.Context, userID uuid.UUID, symbol, companyName string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i := range r.db.watchlist {
		if r.db.watchlist[i].UserID == userID && r.db.watchlist[i].Symbol == symbol {
			r.db.watchlist[i].CompanyName = companyName
			return nil
		}
	}
	return fmt.Errorf("watchlist %s: %w", symbol, domain.ErrNotFound)
}

// DeleteBySymbol removes a symbol from the watchlist
func (r *watchlistRepository) DeleteBySymbol(ctx context.Context, userID uuid.UUID, symbol string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i, item := range r.db.watchlist {
		if item.UserID == userID && item.Symbol == symbol {
			r.db.watchlist = append(r.db.watchlist[:i], r.db.watchlist[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("watchlist %s: %w", symbol, domain.ErrNotFound)
}
