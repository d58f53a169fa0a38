package quotes

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/simaogato/finfolio-backend/internal/adapter/marketdata/reference"
	"github.com/simaogato/finfolio-backend/internal/domain"
	"github.com/simaogato/finfolio-backend/internal/quotecache"
)

// Facets narrow a regional search or listing
type Facets struct {
	Exchange domain.Exchange // exact match when set
	Sector   string          // case-insensitive substring when set
}

func (f Facets) empty() bool {
	return f.Exchange == "" && f.Sector == ""
}

func (f Facets) match(exchange domain.Exchange, sector string) bool {
	if f.Exchange != "" && f.Exchange != exchange {
		return false
	}
	if f.Sector != "" && !strings.Contains(strings.ToLower(sector), strings.ToLower(f.Sector)) {
		return false
	}
	return true
}

// RegionalService serves the Indian market from its reference table.
// It has its own cache, typically with a longer TTL than the global one.
type RegionalService struct {
	Table *reference.RegionalTable
	Cache *quotecache.Cache[any]
	Synth *Synthesizer

	log zerolog.Logger
}

// NewRegionalService creates a new RegionalService instance
func NewRegionalService(table *reference.RegionalTable, cache *quotecache.Cache[any], synth *Synthesizer, log zerolog.Logger) *RegionalService {
	return &RegionalService{
		Table: table,
		Cache: cache,
		Synth: synth,
		log:   log.With().Str("component", "regional_quotes").Logger(),
	}
}

// GetQuote returns the listing of symbol: a jittered reference row, or a synthetic one for unknown symbols
func (s *RegionalService) GetQuote(ctx context.Context, symbol string) (*domain.RegionalStock, error) {
	if strings.TrimSpace(symbol) == "" {
		return nil, fmt.Errorf("symbol cannot be empty: %w", domain.ErrInvalidArgument)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := quotecache.Key(quotecache.KindRegionalQuote, symbol)
	if v, ok := s.Cache.Get(key); ok {
		if stock, ok := v.(domain.RegionalStock); ok {
			s.log.Debug().Str("symbol", symbol).Msg("Regional quote cache hit")
			return &stock, nil
		}
	}

	var stock domain.RegionalStock
	if ref, ok := s.Table.Lookup(symbol); ok {
		stock = s.Synth.Jitter(ref)
	} else {
		stock = s.Synth.RegionalStock(symbol)
	}
	stock.Symbol = strings.ToUpper(symbol)

	s.Cache.Put(key, stock)
	return &stock, nil
}

// SearchStocks matches query against symbol, name and sector, then applies facets.
// A blank query lists every reference row that passes the facets.
func (s *RegionalService) SearchStocks(ctx context.Context, query string, facets Facets) ([]domain.RegionalSearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := quotecache.Key(quotecache.KindRegionalSearch, query)
	if !facets.empty() {
		key += "|" + string(facets.Exchange) + "|" + facets.Sector
	}
	if v, ok := s.Cache.Get(key); ok {
		if results, ok := v.([]domain.RegionalSearchResult); ok {
			return results, nil
		}
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	results := make([]domain.RegionalSearchResult, 0)
	for _, stock := range s.Table.Stocks() {
		if !facets.match(stock.Exchange, stock.Sector) {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(stock.Symbol), needle) &&
			!strings.Contains(strings.ToLower(stock.Name), needle) &&
			!strings.Contains(strings.ToLower(stock.Sector), needle) {
			continue
		}
		results = append(results, domain.RegionalSearchResult{
			Symbol:   stock.Symbol,
			Name:     stock.Name,
			Exchange: stock.Exchange,
			Sector:   stock.Sector,
			ISIN:     s.Synth.ISIN(),
		})
	}

	s.Cache.Put(key, results)
	return results, nil
}

// PopularStocks returns every reference row with a fresh simulated move, filtered by facets
func (s *RegionalService) PopularStocks(ctx context.Context, facets Facets) ([]domain.RegionalStock, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]domain.RegionalStock, 0)
	for _, stock := range s.Table.Stocks() {
		if facets.match(stock.Exchange, stock.Sector) {
			out = append(out, s.Synth.Jitter(stock))
		}
	}
	return out, nil
}

// MarketIndices returns the headline indices
func (s *RegionalService) MarketIndices(ctx context.Context) ([]domain.MarketIndex, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Table.Indices(), nil
}

// SectorPerformance returns the daily move of each sector, best first
func (s *RegionalService) SectorPerformance(ctx context.Context) ([]domain.SectorPerformance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Table.Sectors(), nil
}
