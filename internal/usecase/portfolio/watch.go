package portfolio

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/finfolio-backend/internal/domain"
	"github.com/simaogato/finfolio-backend/internal/usecase/alerts"
	"github.com/simaogato/finfolio-backend/internal/usecase/watchlist"
)

// AddToWatchlist follows symbol. Re-adding a watched symbol updates its company name.
// A blank companyName is resolved through the quote provider.
func (s *Store) AddToWatchlist(ctx context.Context, symbol, companyName string) (*domain.WatchlistItem, error) {
	symbol = normalizeSymbol(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("symbol cannot be empty: %w", domain.ErrInvalidArgument)
	}

	sess, err := s.current()
	if err != nil {
		return nil, err
	}

	companyName = strings.TrimSpace(companyName)
	if companyName == "" {
		companyName = s.companyName(ctx, symbol)
	}

	unlock := s.locks.Lock("watchlist/" + sess.userID.String() + "/" + symbol)
	defer unlock()

	stored, err := s.deps.Watchlist.ListByUser(ctx, sess.userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load watchlist: %w", err)
	}
	items := make([]domain.WatchlistItem, 0, len(stored))
	for _, it := range stored {
		items = append(items, *it)
	}

	items, created := watchlist.Upsert(items, symbol, companyName, sess.userID, s.now().UTC())
	var item domain.WatchlistItem
	for _, it := range items {
		if it.Symbol == symbol {
			item = it
		}
	}

	if created {
		err = s.deps.Watchlist.Insert(ctx, &item)
		// Another writer inserted it first; treat as an update
		if errors.Is(err, domain.ErrPersistenceConflict) {
			err = s.deps.Watchlist.UpdateCompanyName(ctx, sess.userID, symbol, companyName)
		}
	} else {
		err = s.deps.Watchlist.UpdateCompanyName(ctx, sess.userID, symbol, companyName)
	}
	if err != nil {
		s.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to persist watchlist item")
		return nil, fmt.Errorf("failed to save watchlist item: %w", err)
	}

	if err := s.reload(ctx, sess.epoch); err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("Reload after watch failed")
	}
	return &item, nil
}

// RemoveFromWatchlist stops following symbol
func (s *Store) RemoveFromWatchlist(ctx context.Context, symbol string) error {
	symbol = normalizeSymbol(symbol)
	if symbol == "" {
		return fmt.Errorf("symbol cannot be empty: %w", domain.ErrInvalidArgument)
	}

	sess, err := s.current()
	if err != nil {
		return err
	}

	if err := s.deps.Watchlist.DeleteBySymbol(ctx, sess.userID, symbol); err != nil {
		return fmt.Errorf("failed to remove %s from watchlist: %w", symbol, err)
	}

	s.mu.Lock()
	if s.epoch == sess.epoch {
		next := s.state
		rows := make([]domain.WatchlistRow, 0, len(next.Watchlist))
		for _, r := range next.Watchlist {
			if r.Symbol != symbol {
				rows = append(rows, r)
			}
		}
		next.Watchlist = rows
		next.UpdatedAt = s.now()
		s.state = next
		s.publishLocked()
	}
	s.mu.Unlock()

	return nil
}

// CreatePriceAlert registers an alert on symbol for the session user
func (s *Store) CreatePriceAlert(ctx context.Context, symbol string, target decimal.Decimal, condition domain.AlertCondition) (*domain.PriceAlert, error) {
	symbol = normalizeSymbol(symbol)

	sess, err := s.current()
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	alert := &domain.PriceAlert{
		ID:          uuid.New(),
		UserID:      sess.userID,
		Symbol:      symbol,
		TargetPrice: target,
		Condition:   condition,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := alert.Validate(); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrInvalidArgument)
	}
	alert.CompanyName = s.companyName(ctx, symbol)

	if err := s.deps.Alerts.Create(ctx, alert); err != nil {
		return nil, fmt.Errorf("failed to create alert: %w", err)
	}

	if err := s.reload(ctx, sess.epoch); err != nil {
		s.log.Warn().Err(err).Msg("Reload after alert creation failed")
	}
	return alert, nil
}

// DeletePriceAlert removes an alert of the session user
func (s *Store) DeletePriceAlert(ctx context.Context, id uuid.UUID) error {
	sess, err := s.current()
	if err != nil {
		return err
	}
	if err := s.deps.Alerts.Delete(ctx, sess.userID, id); err != nil {
		return fmt.Errorf("failed to delete alert: %w", err)
	}
	if err := s.reload(ctx, sess.epoch); err != nil {
		s.log.Warn().Err(err).Msg("Reload after alert deletion failed")
	}
	return nil
}

// ListPriceAlerts returns alerts of the session user, newest first
func (s *Store) ListPriceAlerts(ctx context.Context, activeOnly bool) ([]*domain.PriceAlert, error) {
	sess, err := s.current()
	if err != nil {
		return nil, err
	}
	list, err := s.deps.Alerts.ListByUser(ctx, sess.userID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	return list, nil
}

// CheckAlerts quotes every symbol with an active alert and marks the alerts that fired
func (s *Store) CheckAlerts(ctx context.Context) ([]alerts.Trigger, error) {
	sess, err := s.current()
	if err != nil {
		return nil, err
	}

	active, err := s.deps.Alerts.ListByUser(ctx, sess.userID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	if len(active) == 0 {
		return []alerts.Trigger{}, nil
	}

	quotes, err := s.deps.Quotes.GetQuotes(ctx, alerts.Symbols(active))
	if err != nil {
		return nil, fmt.Errorf("failed to quote alert symbols: %w", err)
	}
	prices := make(map[string]decimal.Decimal, len(quotes))
	for _, q := range quotes {
		prices[q.Symbol] = q.Price
	}

	triggers := alerts.Evaluate(active, prices, s.now().UTC())
	for _, t := range triggers {
		if err := s.deps.Alerts.MarkTriggered(ctx, t.Alert.ID, *t.Alert.TriggeredAt); err != nil {
			return nil, fmt.Errorf("failed to mark alert %s triggered: %w", t.Alert.ID, err)
		}
		s.log.Info().
			Str("symbol", t.Alert.Symbol).
			Str("condition", string(t.Alert.Condition)).
			Str("target", t.Alert.TargetPrice.String()).
			Str("price", t.Price.String()).
			Msg("Price alert triggered")
	}

	if len(triggers) > 0 {
		if err := s.reload(ctx, sess.epoch); err != nil {
			s.log.Warn().Err(err).Msg("Reload after alert check failed")
		}
	}
	return triggers, nil
}
