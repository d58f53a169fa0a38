package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/simaogato/finfolio-backend/internal/domain"
)

// priceAlertRepository implements domain.PriceAlertRepository
type priceAlertRepository struct {
	db *DB
}

// NewPriceAlertRepository creates a new price alert repository
func NewPriceAlertRepository(db *DB) domain.PriceAlertRepository {
	return &priceAlertRepository{db: db}
}

// Create creates a new alert
func (r *priceAlertRepository) Create(ctx context.Context, alert *domain.PriceAlert) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.alerts[alert.ID]; ok {
		return fmt.Errorf("alert %s: %w", alert.ID, domain.ErrPersistenceConflict)
	}
	r.db.alerts[alert.ID] = *alert
	return nil
}

// ListByUser retrieves alerts of a user, newest first
func (r *priceAlertRepository) ListByUser(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]*domain.PriceAlert, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]*domain.PriceAlert, 0)
	for _, a := range r.db.alerts {
		if a.UserID != userID || (activeOnly && !a.IsActive) {
			continue
		}
		out = append(out, &a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// MarkTriggered deactivates an alert and records when it fired
func (r *priceAlertRepository) MarkTriggered(ctx context.Context, id uuid.UUID, at time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	a, ok := r.db.alerts[id]
	if !ok {
		return fmt.Errorf("alert %s: %w", id, domain.ErrNotFound)
	}
	a.IsActive = false
	a.TriggeredAt = &at
	a.UpdatedAt = at
	r.db.alerts[id] = a
	return nil
}

// Delete removes an alert owned by userID
func (r *priceAlertRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	a, ok := r.db.alerts[id]
	if !ok || a.UserID != userID {
		return fmt.Errorf("alert %s: %w", id, domain.ErrNotFound)
	}
	delete(r.db.alerts, id)
	return nil
}
