package quotes

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/finfolio-backend/internal/adapter/marketdata/reference"
	"github.com/simaogato/finfolio-backend/internal/domain"
	"github.com/simaogato/finfolio-backend/internal/quotecache"
)

// MockQuoteSource is a mock implementation of QuoteSource for testing
type MockQuoteSource struct {
	mock.Mock
}

func (m *MockQuoteSource) GlobalQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	args := m.Called(ctx, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quote), args.Error(1)
}

func (m *MockQuoteSource) SymbolSearch(ctx context.Context, keywords string) ([]domain.SearchResult, error) {
	args := m.Called(ctx, keywords)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SearchResult), args.Error(1)
}

func newTestService(t *testing.T, source QuoteSource, demo bool) *Service {
	t.Helper()
	table, err := reference.LoadGlobal()
	require.NoError(t, err)
	cache := quotecache.New[any](quotecache.GlobalTTL, nil)
	return NewService(source, table, cache, NewSynthesizer(7), demo, zerolog.Nop())
}

func TestGetQuote_LiveSuccessIsCached(t *testing.T) {
	ctx := context.Background()
	source := new(MockQuoteSource)
	svc := newTestService(t, source, false)

	source.On("GlobalQuote", ctx, "aapl").Return(&domain.Quote{
		Symbol: "aapl",
		Name:   "aapl",
		Price:  decimal.RequireFromString("190.10"),
		Volume: 100,
	}, nil).Once()

	q, err := svc.GetQuote(ctx, "aapl")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", q.Symbol)
	assert.Equal(t, "Apple Inc.", q.Name, "name is filled from the reference table")
	assert.False(t, q.Synthetic)

	// Second call is served from the cache
	again, err := svc.GetQuote(ctx, "aapl")
	require.NoError(t, err)
	assert.True(t, q.Price.Equal(again.Price))

	source.AssertExpectations(t)
	source.AssertNumberOfCalls(t, "GlobalQuote", 1)
}

func TestGetQuote_DemoFallbackOnTransportFailure(t *testing.T) {
	ctx := context.Background()
	source := new(MockQuoteSource)
	svc := newTestService(t, source, true)

	source.On("GlobalQuote", ctx, "xyzq").Return(nil, fmt.Errorf("dial tcp: %w", domain.ErrTransportFailure))

	q, err := svc.GetQuote(ctx, "xyzq")
	require.NoError(t, err)

	assert.Equal(t, "XYZQ", q.Symbol)
	assert.Equal(t, "XYZQ Inc.", q.Name)
	assert.True(t, q.Price.IsPositive())
	assert.True(t, q.Price.GreaterThanOrEqual(decimal.NewFromInt(50)))
	assert.True(t, q.Price.LessThan(decimal.NewFromInt(250)))
	assert.True(t, q.Synthetic)
	assert.NoError(t, q.Validate())

	// Fallback results are cached too
	_, ok := svc.Cache.Get(quotecache.Key(quotecache.KindQuote, "xyzq"))
	assert.True(t, ok)
}

func TestGetQuote_DemoFallbackUsesReferenceRow(t *testing.T) {
	ctx := context.Background()
	source := new(MockQuoteSource)
	svc := newTestService(t, source, true)

	source.On("GlobalQuote", ctx, "msft").Return(nil, fmt.Errorf("bad body: %w", domain.ErrMalformedPayload))

	q, err := svc.GetQuote(ctx, "msft")
	require.NoError(t, err)
	assert.Equal(t, "MSFT", q.Symbol)
	assert.Equal(t, "Microsoft Corporation", q.Name)
	assert.True(t, decimal.RequireFromString("378.85").Equal(q.Price))
}

func TestGetQuote_LiveModeSurfacesTransportFailure(t *testing.T) {
	ctx := context.Background()
	source := new(MockQuoteSource)
	svc := newTestService(t, source, false)

	source.On("GlobalQuote", ctx, "AAPL").Return(nil, fmt.Errorf("bad body: %w", domain.ErrMalformedPayload))

	q, err := svc.GetQuote(ctx, "AAPL")
	assert.Nil(t, q)
	assert.ErrorIs(t, err, domain.ErrTransportFailure)
	assert.ErrorIs(t, err, domain.ErrMalformedPayload)

	_, ok := svc.Cache.Get(quotecache.Key(quotecache.KindQuote, "AAPL"))
	assert.False(t, ok, "failures are not cached")
}

func TestGetQuote_NotFoundIsNotReplaced(t *testing.T) {
	ctx := context.Background()
	source := new(MockQuoteSource)
	svc := newTestService(t, source, true)

	source.On("GlobalQuote", ctx, "NOPE").Return(nil, fmt.Errorf("symbol NOPE: %w", domain.ErrNotFound))

	_, err := svc.GetQuote(ctx, "NOPE")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetQuote_NoSource(t *testing.T) {
	ctx := context.Background()

	demo := newTestService(t, nil, true)
	q, err := demo.GetQuote(ctx, "TSLA")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("248.50").Equal(q.Price))

	live := newTestService(t, nil, false)
	_, err = live.GetQuote(ctx, "TSLA")
	assert.ErrorIs(t, err, domain.ErrTransportFailure)
}

func TestGetQuote_EmptySymbol(t *testing.T) {
	svc := newTestService(t, nil, true)
	_, err := svc.GetQuote(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestGetQuote_SyntheticIsDeterministicForSeed(t *testing.T) {
	a := newTestService(t, nil, true)
	b := newTestService(t, nil, true)

	qa, err := a.GetQuote(context.Background(), "ZZZZ")
	require.NoError(t, err)
	qb, err := b.GetQuote(context.Background(), "ZZZZ")
	require.NoError(t, err)

	assert.True(t, qa.Price.Equal(qb.Price))
	assert.True(t, qa.Change.Equal(qb.Change))
	assert.Equal(t, qa.Volume, qb.Volume)
}

// blockingSource counts calls and blocks until released
type blockingSource struct {
	mu      sync.Mutex
	calls   int
	release chan struct{}
}

func (b *blockingSource) GlobalQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
	<-b.release
	return &domain.Quote{Symbol: symbol, Name: symbol, Price: decimal.NewFromInt(10)}, nil
}

func (b *blockingSource) SymbolSearch(ctx context.Context, keywords string) ([]domain.SearchResult, error) {
	return nil, errors.New("not used")
}

func TestGetQuote_ConcurrentMissesShareOneFetch(t *testing.T) {
	source := &blockingSource{release: make(chan struct{})}
	svc := newTestService(t, source, false)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q, err := svc.GetQuote(context.Background(), "IBM")
			assert.NoError(t, err)
			assert.Equal(t, "IBM", q.Symbol)
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(source.release)
	wg.Wait()

	source.mu.Lock()
	defer source.mu.Unlock()
	assert.LessOrEqual(t, source.calls, 10)
	assert.GreaterOrEqual(t, source.calls, 1)
}

func TestSearchSymbols(t *testing.T) {
	ctx := context.Background()

	t.Run("blank query returns empty without calling upstream", func(t *testing.T) {
		source := new(MockQuoteSource)
		svc := newTestService(t, source, false)

		results, err := svc.SearchSymbols(ctx, "   ")
		require.NoError(t, err)
		assert.Empty(t, results)
		source.AssertNotCalled(t, "SymbolSearch", mock.Anything, mock.Anything)
	})

	t.Run("live results are cached", func(t *testing.T) {
		source := new(MockQuoteSource)
		svc := newTestService(t, source, false)
		source.On("SymbolSearch", ctx, "tesla").Return([]domain.SearchResult{{Symbol: "TSLA", Name: "Tesla Inc"}}, nil).Once()

		results, err := svc.SearchSymbols(ctx, "tesla")
		require.NoError(t, err)
		require.Len(t, results, 1)

		_, err = svc.SearchSymbols(ctx, "tesla")
		require.NoError(t, err)
		source.AssertNumberOfCalls(t, "SymbolSearch", 1)
	})

	t.Run("demo fallback searches reference listings", func(t *testing.T) {
		source := new(MockQuoteSource)
		svc := newTestService(t, source, true)
		source.On("SymbolSearch", ctx, "bank").Return(nil, domain.ErrTransportFailure)

		results, err := svc.SearchSymbols(ctx, "bank")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "HDFCBANK", results[0].Symbol)
	})

	t.Run("live failure is an error", func(t *testing.T) {
		source := new(MockQuoteSource)
		svc := newTestService(t, source, false)
		source.On("SymbolSearch", ctx, "bank").Return(nil, errors.New("boom"))

		_, err := svc.SearchSymbols(ctx, "bank")
		assert.ErrorIs(t, err, domain.ErrTransportFailure)
	})
}

func TestGetQuotes_PreservesOrderAndSkipsUnknown(t *testing.T) {
	ctx := context.Background()
	source := new(MockQuoteSource)
	svc := newTestService(t, source, false)

	for _, sym := range []string{"AAPL", "MSFT", "TSLA"} {
		source.On("GlobalQuote", mock.Anything, sym).Return(&domain.Quote{Symbol: sym, Price: decimal.NewFromInt(1)}, nil)
	}
	source.On("GlobalQuote", mock.Anything, "NOPE").Return(nil, domain.ErrNotFound)

	quotes, err := svc.GetQuotes(ctx, []string{"TSLA", "NOPE", "AAPL", "MSFT"})
	require.NoError(t, err)

	symbols := make([]string, 0, len(quotes))
	for _, q := range quotes {
		symbols = append(symbols, q.Symbol)
	}
	assert.Equal(t, []string{"TSLA", "AAPL", "MSFT"}, symbols)
}

func TestGetQuotes_AbortsOnTransportFailure(t *testing.T) {
	source := new(MockQuoteSource)
	svc := newTestService(t, source, false)

	source.On("GlobalQuote", mock.Anything, "AAPL").Return(nil, domain.ErrTransportFailure)

	_, err := svc.GetQuotes(context.Background(), []string{"AAPL"})
	assert.ErrorIs(t, err, domain.ErrTransportFailure)
}

func TestDefaultSymbols(t *testing.T) {
	svc := newTestService(t, nil, true)
	syms := svc.DefaultSymbols()
	assert.Equal(t, []string{"AAPL", "GOOGL", "MSFT", "AMZN", "TSLA"}, syms)

	syms[0] = "X"
	assert.Equal(t, "AAPL", svc.DefaultSymbols()[0])
}
