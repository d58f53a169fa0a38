package quotes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/simaogato/finfolio-backend/internal/adapter/marketdata/reference"
	"github.com/simaogato/finfolio-backend/internal/domain"
	"github.com/simaogato/finfolio-backend/internal/quotecache"
)

// fanOutLimit bounds concurrent upstream lookups in GetQuotes
const fanOutLimit = 5

// QuoteSource is the live upstream market data API
type QuoteSource interface {
	GlobalQuote(ctx context.Context, symbol string) (*domain.Quote, error)
	SymbolSearch(ctx context.Context, keywords string) ([]domain.SearchResult, error)
}

// Service serves global quotes and symbol search through a TTL cache.
// In demo mode upstream failures are replaced by reference or synthetic data;
// otherwise they surface as errors wrapping domain.ErrTransportFailure.
type Service struct {
	Source   QuoteSource // nil when no upstream is configured
	Table    *reference.GlobalTable
	Cache    *quotecache.Cache[any]
	Synth    *Synthesizer
	DemoMode bool

	log   zerolog.Logger
	group singleflight.Group
}

// NewService creates a new Service instance
func NewService(
	source QuoteSource,
	table *reference.GlobalTable,
	cache *quotecache.Cache[any],
	synth *Synthesizer,
	demoMode bool,
	log zerolog.Logger,
) *Service {
	return &Service{
		Source:   source,
		Table:    table,
		Cache:    cache,
		Synth:    synth,
		DemoMode: demoMode,
		log:      log.With().Str("component", "quotes").Logger(),
	}
}

// GetQuote returns the quote of symbol.
// The returned Symbol is always the requested symbol uppercased.
// Returns an error wrapping domain.ErrNotFound if the upstream has no data for symbol.
func (s *Service) GetQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	if strings.TrimSpace(symbol) == "" {
		return nil, fmt.Errorf("symbol cannot be empty: %w", domain.ErrInvalidArgument)
	}

	key := quotecache.Key(quotecache.KindQuote, symbol)
	if v, ok := s.Cache.Get(key); ok {
		if q, ok := v.(domain.Quote); ok {
			s.log.Debug().Str("symbol", symbol).Msg("Quote cache hit")
			return &q, nil
		}
	}

	// Concurrent misses for the same key share one upstream call
	v, err, _ := s.group.Do(key, func() (any, error) {
		q, err := s.fetchQuote(ctx, symbol)
		if err != nil {
			return nil, err
		}
		s.Cache.Put(key, *q)
		return *q, nil
	})
	if err != nil {
		return nil, err
	}

	q := v.(domain.Quote)
	return &q, nil
}

func (s *Service) fetchQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	upper := strings.ToUpper(symbol)

	if s.Source == nil {
		if !s.DemoMode {
			return nil, fmt.Errorf("no quote source configured: %w", domain.ErrTransportFailure)
		}
		return s.demoQuote(upper), nil
	}

	q, err := s.Source.GlobalQuote(ctx, symbol)
	if err == nil {
		q.Symbol = upper
		// The live endpoint carries no company name
		if ref, ok := s.Table.Lookup(upper); ok && (q.Name == "" || strings.EqualFold(q.Name, upper)) {
			q.Name = ref.Name
		}
		return q, nil
	}

	if errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	if !s.DemoMode {
		if !errors.Is(err, domain.ErrTransportFailure) {
			err = fmt.Errorf("%w: %w", domain.ErrTransportFailure, err)
		}
		return nil, fmt.Errorf("failed to fetch quote for %s: %w", upper, err)
	}

	s.log.Warn().Err(err).Str("symbol", upper).Msg("Upstream quote failed, serving demo data")
	return s.demoQuote(upper), nil
}

// demoQuote returns the reference row of symbol or a synthetic quote
func (s *Service) demoQuote(symbol string) *domain.Quote {
	if q, ok := s.Table.Lookup(symbol); ok {
		return &q
	}
	q := s.Synth.Quote(symbol)
	return &q
}

// SearchSymbols returns symbol matches for query. A blank query yields no results.
func (s *Service) SearchSymbols(ctx context.Context, query string) ([]domain.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return []domain.SearchResult{}, nil
	}

	key := quotecache.Key(quotecache.KindSearch, query)
	if v, ok := s.Cache.Get(key); ok {
		if results, ok := v.([]domain.SearchResult); ok {
			s.log.Debug().Str("query", query).Msg("Search cache hit")
			return results, nil
		}
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		results, err := s.fetchSearch(ctx, query)
		if err != nil {
			return nil, err
		}
		s.Cache.Put(key, results)
		return results, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]domain.SearchResult), nil
}

func (s *Service) fetchSearch(ctx context.Context, query string) ([]domain.SearchResult, error) {
	if s.Source == nil {
		if !s.DemoMode {
			return nil, fmt.Errorf("no quote source configured: %w", domain.ErrTransportFailure)
		}
		return s.Table.Search(query), nil
	}

	results, err := s.Source.SymbolSearch(ctx, query)
	if err == nil {
		return results, nil
	}

	if !s.DemoMode {
		if !errors.Is(err, domain.ErrTransportFailure) {
			err = fmt.Errorf("%w: %w", domain.ErrTransportFailure, err)
		}
		return nil, fmt.Errorf("failed to search %q: %w", query, err)
	}

	s.log.Warn().Err(err).Str("query", query).Msg("Upstream search failed, serving demo data")
	return s.Table.Search(query), nil
}

// GetQuotes fetches quotes for several symbols concurrently, preserving input order.
// Symbols unknown to the upstream are skipped; any other failure aborts the batch.
func (s *Service) GetQuotes(ctx context.Context, symbols []string) ([]domain.Quote, error) {
	found := make([]*domain.Quote, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOutLimit)
	for i, symbol := range symbols {
		g.Go(func() error {
			q, err := s.GetQuote(gctx, symbol)
			if errors.Is(err, domain.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			found[i] = q
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]domain.Quote, 0, len(symbols))
	for _, q := range found {
		if q != nil {
			out = append(out, *q)
		}
	}
	return out, nil
}

// DefaultSymbols are shown when a search box is empty
func (s *Service) DefaultSymbols() []string {
	return append([]string(nil), s.Table.DefaultSymbols...)
}
