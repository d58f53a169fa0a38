package quotes

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/finfolio-backend/internal/adapter/marketdata/reference"
	"github.com/simaogato/finfolio-backend/internal/domain"
	"github.com/simaogato/finfolio-backend/internal/quotecache"
)

func newTestRegional(t *testing.T) *RegionalService {
	t.Helper()
	table, err := reference.LoadRegional()
	require.NoError(t, err)
	return NewRegionalService(table, quotecache.New[any](quotecache.RegionalTTL, nil), NewSynthesizer(11), zerolog.Nop())
}

func TestRegional_GetQuote_ReferenceRowIsJittered(t *testing.T) {
	svc := newTestRegional(t)

	stock, err := svc.GetQuote(context.Background(), "tcs")
	require.NoError(t, err)

	assert.Equal(t, "TCS", stock.Symbol)
	assert.Equal(t, "Tata Consultancy Services Limited", stock.Name)
	assert.Equal(t, "Information Technology", stock.Sector)

	base := decimal.RequireFromString("3678.90")
	assert.True(t, stock.Price.Sub(base).Abs().LessThanOrEqual(decimal.NewFromInt(10)))
	assert.True(t, stock.ChangePercent.Abs().LessThanOrEqual(decimal.RequireFromString("2.5")))

	// Cached for the regional TTL under the raw argument
	again, err := svc.GetQuote(context.Background(), "tcs")
	require.NoError(t, err)
	assert.True(t, stock.Price.Equal(again.Price))
	_, ok := svc.Cache.Get(quotecache.Key(quotecache.KindRegionalQuote, "tcs"))
	assert.True(t, ok)
}

func TestRegional_GetQuote_UnknownSymbol(t *testing.T) {
	svc := newTestRegional(t)

	stock, err := svc.GetQuote(context.Background(), "ACME")
	require.NoError(t, err)

	assert.Equal(t, "ACME Limited", stock.Name)
	assert.Equal(t, "Others", stock.Sector)
	assert.Contains(t, []domain.Exchange{domain.ExchangeNSE, domain.ExchangeBSE}, stock.Exchange)
	assert.True(t, stock.Price.GreaterThanOrEqual(decimal.NewFromInt(100)))
	assert.True(t, stock.Price.LessThan(decimal.NewFromInt(5100)))
	assert.True(t, stock.ChangePercent.Abs().LessThanOrEqual(decimal.NewFromInt(5)))
}

func TestRegional_SearchStocks(t *testing.T) {
	svc := newTestRegional(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		query   string
		facets  Facets
		symbols []string
	}{
		{name: "by sector text", query: "banking", symbols: []string{"HDFCBANK", "ICICIBANK", "SBIN", "KOTAKBANK"}},
		{name: "by name", query: "wipro", symbols: []string{"WIPRO"}},
		{name: "by symbol", query: "maru", symbols: []string{"MARUTI"}},
		{name: "sector facet", query: "", facets: Facets{Sector: "information"}, symbols: []string{"TCS", "INFY", "WIPRO", "HCLTECH"}},
		{name: "exchange facet excludes everything on BSE", query: "bank", facets: Facets{Exchange: domain.ExchangeBSE}, symbols: []string{}},
		{name: "no match", query: "zzz", symbols: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := svc.SearchStocks(ctx, tt.query, tt.facets)
			require.NoError(t, err)

			symbols := make([]string, 0, len(results))
			for _, r := range results {
				symbols = append(symbols, r.Symbol)
				assert.Regexp(t, `^INE[A-Z0-9]{6}01$`, r.ISIN)
			}
			assert.Equal(t, tt.symbols, symbols)
		})
	}
}

func TestRegional_SearchStocks_CachedISIN(t *testing.T) {
	svc := newTestRegional(t)
	ctx := context.Background()

	first, err := svc.SearchStocks(ctx, "infosys", Facets{})
	require.NoError(t, err)
	second, err := svc.SearchStocks(ctx, "infosys", Facets{})
	require.NoError(t, err)

	require.Len(t, first, 1)
	assert.Equal(t, first[0].ISIN, second[0].ISIN)
}

func TestRegional_PopularStocks(t *testing.T) {
	svc := newTestRegional(t)

	all, err := svc.PopularStocks(context.Background(), Facets{})
	require.NoError(t, err)
	assert.Len(t, all, 15)

	banks, err := svc.PopularStocks(context.Background(), Facets{Sector: "bank"})
	require.NoError(t, err)
	assert.Len(t, banks, 4)
	for _, s := range banks {
		assert.True(t, s.Price.IsPositive())
	}
}

func TestRegional_MarketOverview(t *testing.T) {
	svc := newTestRegional(t)
	ctx := context.Background()

	indices, err := svc.MarketIndices(ctx)
	require.NoError(t, err)
	assert.Len(t, indices, 4)

	sectors, err := svc.SectorPerformance(ctx)
	require.NoError(t, err)
	assert.Len(t, sectors, 8)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = svc.MarketIndices(cancelled)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSynthesizer_ISIN(t *testing.T) {
	s := NewSynthesizer(1)
	assert.Regexp(t, `^INE[A-Z0-9]{6}01$`, s.ISIN())
}

func TestSynthesizer_Ranges(t *testing.T) {
	s := NewSynthesizer(99)
	for i := 0; i < 200; i++ {
		q := s.Quote("X")
		assert.True(t, q.Price.GreaterThanOrEqual(decimal.NewFromInt(50)))
		assert.True(t, q.Price.LessThan(decimal.NewFromInt(250)))
		assert.True(t, q.Change.GreaterThanOrEqual(decimal.NewFromInt(-5)))
		assert.True(t, q.Change.LessThan(decimal.NewFromInt(5)))
		assert.True(t, q.Volume >= 0 && q.Volume < 10_000_000)
	}
}
