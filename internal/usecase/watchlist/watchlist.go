package watchlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/simaogato/finfolio-backend/internal/domain"
)

// fanOutLimit bounds concurrent quote lookups while enriching
const fanOutLimit = 5

// QuoteProvider resolves the current quote of a symbol
type QuoteProvider interface {
	GetQuote(ctx context.Context, symbol string) (*domain.Quote, error)
}

// Enricher attaches live quote data to watchlist items
type Enricher struct {
	Quotes QuoteProvider

	log zerolog.Logger
}

// NewEnricher creates a new Enricher instance
func NewEnricher(quotes QuoteProvider, log zerolog.Logger) *Enricher {
	return &Enricher{
		Quotes: quotes,
		log:    log.With().Str("component", "watchlist").Logger(),
	}
}

// Enrich quotes every item in parallel and returns rows in the order of items.
// AlertPrice is carried over from previous (keyed by symbol), nil otherwise.
// A symbol whose quote fails keeps a zero-priced row so one bad symbol does
// not blank the watchlist. Only cancellation of ctx aborts the enrichment.
func (e *Enricher) Enrich(ctx context.Context, items []domain.WatchlistItem, previous map[string]*decimal.Decimal) ([]domain.WatchlistRow, error) {
	rows := make([]domain.WatchlistRow, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOutLimit)

	for i, item := range items {
		rows[i] = domain.WatchlistRow{WatchlistItem: item}
		if p, ok := previous[item.Symbol]; ok && p != nil {
			alert := *p
			rows[i].AlertPrice = &alert
		}

		g.Go(func() error {
			q, err := e.Quotes.GetQuote(gctx, item.Symbol)
			switch {
			case err == nil:
			case gctx.Err() != nil:
				return fmt.Errorf("failed to quote %s: %w", item.Symbol, gctx.Err())
			case errors.Is(err, domain.ErrNotFound):
				e.log.Warn().Str("symbol", item.Symbol).Msg("No quote for watched symbol")
				return nil
			default:
				e.log.Warn().Err(err).Str("symbol", item.Symbol).Msg("Quote failed for watched symbol")
				return nil
			}
			rows[i].Price = q.Price
			rows[i].Change = q.Change
			rows[i].ChangePercent = q.ChangePercent
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}

// Upsert adds symbol to items or, when already present, updates its company name.
// Matching is case-sensitive; callers normalise symbols beforehand.
// The existing item keeps its ID and CreatedAt. Returns whether a new item was created.
// items is not modified.
func Upsert(items []domain.WatchlistItem, symbol, companyName string, userID uuid.UUID, now time.Time) ([]domain.WatchlistItem, bool) {
	out := make([]domain.WatchlistItem, len(items), len(items)+1)
	copy(out, items)

	for i := range out {
		if out[i].Symbol == symbol {
			out[i].CompanyName = companyName
			return out, false
		}
	}

	out = append(out, domain.WatchlistItem{
		ID:          uuid.New(),
		UserID:      userID,
		Symbol:      symbol,
		CompanyName: companyName,
		CreatedAt:   now,
	})
	return out, true
}

// Remove returns items without symbol
func Remove(items []domain.WatchlistItem, symbol string) []domain.WatchlistItem {
	out := make([]domain.WatchlistItem, 0, len(items))
	for _, item := range items {
		if item.Symbol != symbol {
			out = append(out, item)
		}
	}
	return out
}
