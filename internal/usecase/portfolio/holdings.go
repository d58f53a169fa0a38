package portfolio

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/finfolio-backend/internal/domain"
	"github.com/simaogato/finfolio-backend/internal/usecase/aggregator"
)

// SellResult is the outcome of RecordSell
type SellResult struct {
	Transaction *domain.Transaction
	Realized    decimal.Decimal
	Remaining   *domain.HoldingView // nil when the position was closed
}

func holdingKey(portfolioID uuid.UUID, symbol string) string {
	return portfolioID.String() + "/" + symbol
}

// AddHolding records a purchase of quantity shares of symbol at price.
// An existing position is merged at its weighted-average cost; a new one is
// opened with a company name resolved through the quote provider.
// A buy transaction is appended in both cases.
func (s *Store) AddHolding(ctx context.Context, symbol string, quantity, price decimal.Decimal) (*domain.HoldingView, error) {
	symbol = normalizeSymbol(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("symbol cannot be empty: %w", domain.ErrInvalidArgument)
	}
	if quantity.LessThanOrEqual(decimal.Zero) || price.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("quantity and price must be positive: %w", domain.ErrInvalidArgument)
	}

	sess, err := s.current()
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(holdingKey(sess.portfolioID, symbol))
	holding, err := s.addHoldingLocked(ctx, sess, symbol, quantity, price)
	unlock()
	if err != nil {
		return nil, err
	}

	if err := s.reload(ctx, sess.epoch); err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("Reload after buy failed")
	}

	view := s.latestView(*holding, holding.AveragePrice)
	return &view, nil
}

// latestView values h at the last published price of its symbol, or at
// fallback when the snapshot has none. The snapshot may lag behind h.
func (s *Store) latestView(h domain.Holding, fallback decimal.Decimal) domain.HoldingView {
	price := fallback
	if view, ok := s.Snapshot().Holding(h.Symbol); ok {
		price = view.CurrentPrice
	}
	return aggregator.View(h, price)
}

// undoHolding reverts a holding write whose transaction could not be recorded
func (s *Store) undoHolding(ctx context.Context, symbol string, undo func(context.Context) error) {
	if err := undo(context.WithoutCancel(ctx)); err != nil {
		s.log.Error().Err(err).Str("symbol", symbol).Msg("Holding persisted without its transaction")
		return
	}
	s.log.Warn().Str("symbol", symbol).Msg("Holding change rolled back")
}

func (s *Store) addHoldingLocked(ctx context.Context, sess session, symbol string, quantity, price decimal.Decimal) (*domain.Holding, error) {
	existing, err := s.deps.Holdings.GetBySymbol(ctx, sess.portfolioID, symbol)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to load holding: %w", err)
	}
	if err != nil {
		existing = nil
	}

	companyName := ""
	if existing == nil {
		companyName = s.companyName(ctx, symbol)
	}

	now := s.now().UTC()
	merged, err := aggregator.MergeBuy(existing, sess.portfolioID, symbol, companyName, quantity, price, now)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		err = s.deps.Holdings.Create(ctx, merged)
	} else {
		err = s.deps.Holdings.Update(ctx, merged)
	}
	if err != nil {
		s.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to persist holding")
		return nil, fmt.Errorf("failed to save holding: %w", err)
	}

	tx := domain.NewTransaction(sess.portfolioID, symbol, merged.CompanyName, domain.TransactionTypeBuy, quantity, price, now)
	if err := s.deps.Transactions.Create(ctx, tx); err != nil {
		s.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to record buy transaction")
		s.undoHolding(ctx, symbol, func(ctx context.Context) error {
			if existing == nil {
				return s.deps.Holdings.Delete(ctx, merged.ID)
			}
			return s.deps.Holdings.Update(ctx, existing)
		})
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	s.log.Info().
		Str("symbol", symbol).
		Str("quantity", merged.Quantity.String()).
		Str("average_price", merged.AveragePrice.String()).
		Msg("Holding bought")

	return merged, nil
}

// RecordSell sells quantity shares of symbol at price.
// The position is reduced (average price unchanged) or deleted when fully sold,
// and a sell transaction carrying the realized gain or loss is appended.
func (s *Store) RecordSell(ctx context.Context, symbol string, quantity, price decimal.Decimal) (*SellResult, error) {
	symbol = normalizeSymbol(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("symbol cannot be empty: %w", domain.ErrInvalidArgument)
	}

	sess, err := s.current()
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(holdingKey(sess.portfolioID, symbol))
	result, err := s.recordSellLocked(ctx, sess, symbol, quantity, price)
	unlock()
	if err != nil {
		return nil, err
	}

	if err := s.reload(ctx, sess.epoch); err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("Reload after sell failed")
	}
	if result.Remaining != nil {
		view := s.latestView(result.Remaining.Holding, price)
		result.Remaining = &view
	}
	return result, nil
}

func (s *Store) recordSellLocked(ctx context.Context, sess session, symbol string, quantity, price decimal.Decimal) (*SellResult, error) {
	existing, err := s.deps.Holdings.GetBySymbol(ctx, sess.portfolioID, symbol)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("no holding of %s: %w", symbol, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load holding: %w", err)
	}

	now := s.now().UTC()
	outcome, err := aggregator.ApplySell(existing, quantity, price, now)
	if err != nil {
		return nil, err
	}

	if outcome.Closed {
		err = s.deps.Holdings.Delete(ctx, existing.ID)
	} else {
		err = s.deps.Holdings.Update(ctx, outcome.Holding)
	}
	if err != nil {
		s.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to persist sell")
		return nil, fmt.Errorf("failed to save holding: %w", err)
	}

	tx := domain.NewTransaction(sess.portfolioID, symbol, existing.CompanyName, domain.TransactionTypeSell, quantity, price, now)
	tx.RealizedGainLoss = outcome.Realized
	if err := s.deps.Transactions.Create(ctx, tx); err != nil {
		s.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to record sell transaction")
		s.undoHolding(ctx, symbol, func(ctx context.Context) error {
			if outcome.Closed {
				return s.deps.Holdings.Create(ctx, existing)
			}
			return s.deps.Holdings.Update(ctx, existing)
		})
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	s.log.Info().
		Str("symbol", symbol).
		Str("quantity", quantity.String()).
		Str("realized", outcome.Realized.String()).
		Bool("closed", outcome.Closed).
		Msg("Holding sold")

	result := &SellResult{Transaction: tx, Realized: outcome.Realized}
	if !outcome.Closed {
		view := aggregator.View(*outcome.Holding, price)
		result.Remaining = &view
	}
	return result, nil
}

// RemoveHolding deletes a holding of the current portfolio without recording a transaction
func (s *Store) RemoveHolding(ctx context.Context, id uuid.UUID) error {
	sess, err := s.current()
	if err != nil {
		return err
	}

	holding, err := s.deps.Holdings.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get holding: %w", err)
	}
	if holding.PortfolioID != sess.portfolioID {
		return fmt.Errorf("holding %s: %w", id, domain.ErrNotFound)
	}

	unlock := s.locks.Lock(holdingKey(sess.portfolioID, holding.Symbol))
	err = s.deps.Holdings.Delete(ctx, id)
	unlock()
	if err != nil {
		return fmt.Errorf("failed to delete holding: %w", err)
	}

	s.log.Info().Str("symbol", holding.Symbol).Msg("Holding removed")

	if err := s.reload(ctx, sess.epoch); err != nil {
		s.log.Warn().Err(err).Msg("Reload after removal failed")
	}
	return nil
}
