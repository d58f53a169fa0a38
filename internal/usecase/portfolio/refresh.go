package portfolio

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/simaogato/finfolio-backend/internal/domain"
	"github.com/simaogato/finfolio-backend/internal/usecase/aggregator"
	"github.com/simaogato/finfolio-backend/internal/usecase/alerts"
	"github.com/simaogato/finfolio-backend/internal/usecase/dashboard"
)

// quoteFanOut bounds concurrent quote lookups for holdings
const quoteFanOut = 5

// RefreshData reloads the current portfolio and requotes it.
// Loading is true while it runs and false afterwards whatever the outcome.
func (s *Store) RefreshData(ctx context.Context) error {
	sess, err := s.current()
	if err != nil {
		return err
	}

	s.setLoading(1)
	defer s.setLoading(-1)

	if err := s.reload(ctx, sess.epoch); err != nil {
		s.log.Error().Err(err).Msg("Failed to refresh portfolio data")

		s.mu.Lock()
		if s.epoch == sess.epoch {
			s.state.LastError = err.Error()
		}
		s.mu.Unlock()
		return err
	}

	s.log.Debug().Msg("Portfolio data refreshed")
	return nil
}

func (s *Store) setLoading(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loading += delta
	loading := s.loading > 0
	if s.state.Loading == loading || s.state.Phase == PhaseClosed {
		return
	}
	next := s.state
	next.Loading = loading
	s.state = next
	s.publishLocked()
}

// Analytics computes dashboard analytics over the latest snapshot
func (s *Store) Analytics() (*dashboard.Analytics, error) {
	snap := s.Snapshot()
	if !snap.Ready() {
		return nil, fmt.Errorf("store is %s: %w", snap.Phase, domain.ErrNotReady)
	}
	return dashboard.Analyze(snap.Holdings, snap.DailyChange)
}

// reload reads everything the snapshot shows and publishes it, unless the
// portfolio changed, the store closed, or a newer reload committed meanwhile.
func (s *Store) reload(ctx context.Context, epoch uint64) error {
	s.mu.Lock()
	if s.epoch != epoch || !s.state.Ready() {
		s.mu.Unlock()
		return nil
	}
	s.reloadSeq++
	seq := s.reloadSeq
	userID := s.state.UserID
	portfolioID := s.state.Portfolio.ID
	s.mu.Unlock()

	holdings, err := s.deps.Holdings.ListByPortfolio(ctx, portfolioID)
	if err != nil {
		return fmt.Errorf("failed to list holdings: %w", err)
	}

	views, daily, err := s.quoteHoldings(ctx, holdings)
	if err != nil {
		return err
	}

	txs, err := s.deps.Transactions.ListByPortfolio(ctx, portfolioID, s.txPage, 0)
	if err != nil {
		return fmt.Errorf("failed to list transactions: %w", err)
	}

	active, err := s.deps.Alerts.ListByUser(ctx, userID, true)
	if err != nil {
		return fmt.Errorf("failed to list alerts: %w", err)
	}

	watched, err := s.deps.Watchlist.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list watchlist: %w", err)
	}
	items := make([]domain.WatchlistItem, 0, len(watched))
	for _, it := range watched {
		items = append(items, *it)
	}
	rows, err := s.enricher.Enrich(ctx, items, alerts.TargetPrices(active))
	if err != nil {
		return fmt.Errorf("failed to enrich watchlist: %w", err)
	}

	portfolios, err := s.deps.Portfolios.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list portfolios: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch || seq < s.committed {
		s.log.Debug().Uint64("seq", seq).Msg("Discarding stale reload")
		return nil
	}
	s.committed = seq

	next := s.state
	next.Holdings = views
	next.Summary = aggregator.Aggregate(views)
	next.DailyChange = daily
	next.Watchlist = rows
	next.Transactions = derefAll(txs)
	next.Alerts = derefAll(active)
	next.Portfolios = derefAll(portfolios)
	for i := range next.Portfolios {
		if next.Portfolios[i].ID == portfolioID {
			p := next.Portfolios[i]
			next.Portfolio = &p
		}
	}
	next.LastError = ""
	next.UpdatedAt = s.now()
	s.state = next
	s.publishLocked()

	return nil
}

// quoteHoldings prices every holding concurrently. A holding whose quote fails
// is valued at its average price so one bad symbol does not blank the portfolio.
func (s *Store) quoteHoldings(ctx context.Context, holdings []*domain.Holding) ([]domain.HoldingView, map[string]decimal.Decimal, error) {
	views := make([]domain.HoldingView, len(holdings))
	changes := make([]decimal.Decimal, len(holdings))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(quoteFanOut)
	for i, h := range holdings {
		g.Go(func() error {
			price := h.AveragePrice
			q, err := s.deps.Quotes.GetQuote(gctx, h.Symbol)
			switch {
			case err == nil:
				price = q.Price
				changes[i] = q.ChangePercent
			case gctx.Err() != nil:
				return gctx.Err()
			default:
				s.log.Warn().Err(err).Str("symbol", h.Symbol).Msg("Quote failed, valuing at average price")
			}
			views[i] = aggregator.View(*h, price)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	daily := make(map[string]decimal.Decimal, len(holdings))
	for i, h := range holdings {
		daily[h.Symbol] = changes[i]
	}
	return views, daily, nil
}

func derefAll[T any](in []*T) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if v != nil {
			out = append(out, *v)
		}
	}
	return out
}
