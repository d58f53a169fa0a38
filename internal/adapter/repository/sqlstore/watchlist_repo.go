package sqlstore

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
	query := `
		SELECT id, user_id, symbol, company_name, created_at
		FROM watchlists
		WHERE user_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list watchlist: %w", err)
	}
	defer rows.Close()

	items := make([]*domain.WatchlistItem, 0)
	for rows.Next() {
		var item domain.WatchlistItem
		var createdAt dbTime
		if err := rows.Scan(&item.ID, &item.UserID, &item.Symbol, &item.CompanyName, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan watchlist item: %w", err)
		}
		item.CreatedAt = createdAt.Time
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating watchlist: %w", err)
	}
	return items, nil
}

// Insert adds a symbol to the watchlist
func (r *watchlistRepository) Insert(ctx context.Context, item *domain.WatchlistItem) error {
	query := `
		INSERT INTO watchlists (id, user_id, symbol, company_name, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.exec(ctx, query, item.ID, item.UserID, item.Symbol, item.CompanyName, r.db.timeArg(item.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s is already watched: %w", item.Symbol, domain.ErrPersistenceConflict)
		}
		return fmt.Errorf("failed to insert watchlist item: %w", err)
	}
	return nil
}

// UpdateCompanyName renames an existing watchlist entry
func (r *watchlistRepository) UpdateCompanyName(ctx context.Context, userID uuid.UUID, symbol, companyName string) error {
	result, err := r.db.exec(ctx,
		`UPDATE watchlists SET company_name = $1 WHERE user_id = $2 AND symbol = $3`,
		companyName, userID, symbol,
	)
	if err != nil {
		return fmt.Errorf("failed to update watchlist item: %w", err)
	}
	return requireAffected(result, "watchlist item")
}

// DeleteBySymbol removes a symbol from the watchlist
func (r *watchlistRepository) DeleteBySymbol(ctx context.Context, userID uuid.UUID, symbol string) error {
	result, err := r.db.exec(ctx, `DELETE FROM watchlists WHERE user_id = $1 AND symbol = $2`, userID, symbol)
	if err != nil {
		return fmt.Errorf("failed to delete watchlist item: %w", err)
	}
	return requireAffected(result, "watchlist item")
}
