package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

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
	query := `
		INSERT INTO price_alerts (id, user_id, symbol, company_name, target_price, condition,
			is_active, triggered_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.exec(ctx, query,
		alert.ID,
		alert.UserID,
		alert.Symbol,
		alert.CompanyName,
		alert.TargetPrice.String(),
		string(alert.Condition),
		alert.IsActive,
		r.db.nullTimeArg(alert.TriggeredAt),
		r.db.timeArg(alert.CreatedAt),
		r.db.timeArg(alert.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("alert %s already exists: %w", alert.ID, domain.ErrPersistenceConflict)
		}
		return fmt.Errorf("failed to create alert: %w", err)
	}
	return nil
}

// ListByUser retrieves alerts of a user, newest first
func (r *priceAlertRepository) ListByUser(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]*domain.PriceAlert, error) {
	query := `
		SELECT id, user_id, symbol, company_name, target_price, condition,
			is_active, triggered_at, created_at, updated_at
		FROM price_alerts
		WHERE user_id = $1
	`
	args := []any{userID}
	if activeOnly {
		query += ` AND is_active = $2`
		args = append(args, true)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	defer rows.Close()

	alerts := make([]*domain.PriceAlert, 0)
	for rows.Next() {
		var a domain.PriceAlert
		var targetStr, condition string
		var triggeredAt, createdAt, updatedAt dbTime

		err := rows.Scan(&a.ID, &a.UserID, &a.Symbol, &a.CompanyName, &targetStr, &condition,
			&a.IsActive, &triggeredAt, &createdAt, &updatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}

		target, err := decimal.NewFromString(targetStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse target_price: %w", err)
		}
		a.TargetPrice = target
		a.Condition = domain.AlertCondition(condition)
		if triggeredAt.Valid {
			at := triggeredAt.Time
			a.TriggeredAt = &at
		}
		a.CreatedAt, a.UpdatedAt = createdAt.Time, updatedAt.Time
		alerts = append(alerts, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating alerts: %w", err)
	}
	return alerts, nil
}

// MarkTriggered deactivates an alert and records when it fired
func (r *priceAlertRepository) MarkTriggered(ctx context.Context, id uuid.UUID, at time.Time) error {
	result, err := r.db.exec(ctx,
		`UPDATE price_alerts SET is_active = $1, triggered_at = $2, updated_at = $3 WHERE id = $4`,
		false, r.db.timeArg(at), r.db.timeArg(at), id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark alert triggered: %w", err)
	}
	return requireAffected(result, "alert")
}

// Delete removes an alert owned by userID
func (r *priceAlertRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result, err := r.db.exec(ctx, `DELETE FROM price_alerts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete alert: %w", err)
	}
	return requireAffected(result, "alert")
}
