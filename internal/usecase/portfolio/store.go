package portfolio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/simaogato/finfolio-backend/internal/domain"
	"github.com/simaogato/finfolio-backend/internal/usecase/seeder"
	"github.com/simaogato/finfolio-backend/internal/usecase/watchlist"
)

const (
	// DefaultTransactionPage is how many recent transactions a snapshot carries
	DefaultTransactionPage = 50

	// maxSearchResults caps how many search matches are quoted
	maxSearchResults = 10
)

// QuoteProvider is the market data the store depends on
type QuoteProvider interface {
	GetQuote(ctx context.Context, symbol string) (*domain.Quote, error)
	GetQuotes(ctx context.Context, symbols []string) ([]domain.Quote, error)
	SearchSymbols(ctx context.Context, query string) ([]domain.SearchResult, error)
	DefaultSymbols() []string
}

// Deps are the collaborators of a Store
type Deps struct {
	Session      domain.SessionProvider
	Quotes       QuoteProvider
	Profiles     domain.ProfileRepository
	Portfolios   domain.PortfolioRepository
	Holdings     domain.HoldingRepository
	Transactions domain.TransactionRepository
	Watchlist    domain.WatchlistRepository
	Alerts       domain.PriceAlertRepository
	Log          zerolog.Logger
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithTransactionPage sets how many recent transactions a snapshot carries
func WithTransactionPage(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.txPage = n
		}
	}
}

// Store owns the portfolio state of the session user.
// Mutations are serialised per symbol; every mutation persists, reloads
// and publishes a new State to subscribers.
type Store struct {
	deps     Deps
	seeder   *seeder.SystemSeeder
	enricher *watchlist.Enricher
	locks    *keyedMutex
	log      zerolog.Logger
	now      func() time.Time
	txPage   int

	mu        sync.RWMutex // guards everything below
	state     State
	epoch     uint64 // bumped when the current portfolio changes or the store closes
	reloadSeq uint64 // last reload started
	committed uint64 // last reload published
	loading   int
	subs      map[int]chan State
	nextSub   int
}

// NewStore creates a new Store instance. Call Activate before any mutation.
func NewStore(deps Deps, opts ...Option) *Store {
	s := &Store{
		deps:     deps,
		seeder:   seeder.NewSystemSeeder(deps.Profiles, deps.Portfolios),
		enricher: watchlist.NewEnricher(deps.Quotes, deps.Log),
		locks:    newKeyedMutex(),
		log:      deps.Log.With().Str("component", "portfolio_store").Logger(),
		now:      time.Now,
		txPage:   DefaultTransactionPage,
		state:    State{Phase: PhaseUninitialized},
		subs:     make(map[int]chan State),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Activate resolves the session user, ensures a profile and default portfolio
// exist, selects the default portfolio and loads it.
func (s *Store) Activate(ctx context.Context) error {
	userID, err := s.deps.Session.CurrentUserID(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve session user: %w", err)
	}

	portfolio, err := s.seeder.Seed(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to seed user data: %w", err)
	}

	s.mu.Lock()
	if s.state.Phase == PhaseClosed {
		s.mu.Unlock()
		return fmt.Errorf("store is closed: %w", domain.ErrNotReady)
	}
	s.epoch++
	s.state = State{
		Phase:     PhaseReady,
		UserID:    userID,
		Portfolio: portfolio,
		UpdatedAt: s.now(),
	}
	s.publishLocked()
	s.mu.Unlock()

	s.log.Info().Str("user_id", userID.String()).Str("portfolio_id", portfolio.ID.String()).Msg("Store activated")

	return s.RefreshData(ctx)
}

// Close discards in-flight results, closes subscriber channels and rejects further mutations
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Phase == PhaseClosed {
		return
	}
	s.epoch++
	s.state.Phase = PhaseClosed
	s.publishLocked()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}

// session captures who and what a mutation acts on
type session struct {
	userID      uuid.UUID
	portfolioID uuid.UUID
	epoch       uint64
}

func (s *Store) current() (session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.state.Ready() {
		return session{}, fmt.Errorf("store is %s: %w", s.state.Phase, domain.ErrNotReady)
	}
	return session{
		userID:      s.state.UserID,
		portfolioID: s.state.Portfolio.ID,
		epoch:       s.epoch,
	}, nil
}

// SetCurrentPortfolio switches the store to another portfolio of the session user
func (s *Store) SetCurrentPortfolio(ctx context.Context, id uuid.UUID) error {
	sess, err := s.current()
	if err != nil {
		return err
	}

	portfolio, err := s.deps.Portfolios.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get portfolio: %w", err)
	}
	if portfolio.UserID != sess.userID {
		return fmt.Errorf("portfolio %s: %w", id, domain.ErrNotFound)
	}

	s.mu.Lock()
	if s.state.Phase == PhaseClosed {
		s.mu.Unlock()
		return fmt.Errorf("store is closed: %w", domain.ErrNotReady)
	}
	s.epoch++
	next := s.state
	next.Portfolio = portfolio
	next.Holdings = nil
	next.Summary = domain.PortfolioSummary{}
	next.Transactions = nil
	next.DailyChange = nil
	next.UpdatedAt = s.now()
	s.state = next
	s.publishLocked()
	s.mu.Unlock()

	return s.RefreshData(ctx)
}

// CreatePortfolio adds a non-default portfolio for the session user
func (s *Store) CreatePortfolio(ctx context.Context, name, description string) (*domain.Portfolio, error) {
	sess, err := s.current()
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	portfolio := &domain.Portfolio{
		ID:          uuid.New(),
		UserID:      sess.userID,
		Name:        strings.TrimSpace(name),
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := portfolio.Validate(); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrInvalidArgument)
	}
	if err := s.deps.Portfolios.Create(ctx, portfolio); err != nil {
		return nil, fmt.Errorf("failed to create portfolio: %w", err)
	}

	if err := s.RefreshData(ctx); err != nil {
		s.log.Warn().Err(err).Msg("Refresh after portfolio creation failed")
	}
	return portfolio, nil
}

// SearchStocks returns quotes for a free-text query.
// A blank query returns quotes for the default symbols; otherwise the first
// matches of the symbol search are quoted, preserving search order.
func (s *Store) SearchStocks(ctx context.Context, query string) ([]domain.Quote, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.deps.Quotes.GetQuotes(ctx, s.deps.Quotes.DefaultSymbols())
	}

	results, err := s.deps.Quotes.SearchSymbols(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search symbols: %w", err)
	}
	if len(results) > maxSearchResults {
		results = results[:maxSearchResults]
	}

	symbols := make([]string, 0, len(results))
	names := make(map[string]string, len(results))
	for _, r := range results {
		sym := normalizeSymbol(r.Symbol)
		symbols = append(symbols, sym)
		names[sym] = r.Name
	}

	quotes, err := s.deps.Quotes.GetQuotes(ctx, symbols)
	if err != nil {
		return nil, err
	}
	// Search results carry better names than bare quotes
	for i := range quotes {
		if n := names[quotes[i].Symbol]; n != "" && quotes[i].Name == quotes[i].Symbol {
			quotes[i].Name = n
		}
	}
	return quotes, nil
}

// Transactions returns a page of the current portfolio's transactions, newest first, and the total count
func (s *Store) Transactions(ctx context.Context, limit, offset int) ([]*domain.Transaction, int, error) {
	sess, err := s.current()
	if err != nil {
		return nil, 0, err
	}
	if limit < 0 || offset < 0 {
		return nil, 0, fmt.Errorf("limit and offset cannot be negative: %w", domain.ErrInvalidArgument)
	}

	txs, err := s.deps.Transactions.ListByPortfolio(ctx, sess.portfolioID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	total, err := s.deps.Transactions.Count(ctx, sess.portfolioID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return txs, total, nil
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// companyName resolves a display name for symbol through the quote provider
func (s *Store) companyName(ctx context.Context, symbol string) string {
	q, err := s.deps.Quotes.GetQuote(ctx, symbol)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.Warn().Err(err).Str("symbol", symbol).Msg("Could not resolve company name")
		}
		return fmt.Sprintf("%s Inc.", symbol)
	}
	if q.Name == "" || strings.EqualFold(q.Name, symbol) {
		return fmt.Sprintf("%s Inc.", symbol)
	}
	return q.Name
}
