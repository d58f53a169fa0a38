// Package di wires configuration into the repositories, quote providers and
// portfolio store shared by the server and the CLI.
package di

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/simaogato/finfolio-backend/internal/adapter/format"
	"github.com/simaogato/finfolio-backend/internal/adapter/marketdata/alphavantage"
	"github.com/simaogato/finfolio-backend/internal/adapter/marketdata/reference"
	"github.com/simaogato/finfolio-backend/internal/adapter/repository/memory"
	"github.com/simaogato/finfolio-backend/internal/adapter/repository/sqlstore"
	"github.com/simaogato/finfolio-backend/internal/config"
	"github.com/simaogato/finfolio-backend/internal/domain"
	"github.com/simaogato/finfolio-backend/internal/quotecache"
	"github.com/simaogato/finfolio-backend/internal/usecase/portfolio"
	"github.com/simaogato/finfolio-backend/internal/usecase/quotes"
)

// Container holds the long-lived services of the process
type Container struct {
	DB       *sqlstore.DB // nil for the memory driver
	Quotes   *quotes.Service
	Market   *quotes.RegionalService
	Store    *portfolio.Store
	Currency *format.Currency
}

// Repositories groups the persistence ports the store needs
type Repositories struct {
	Profiles     domain.ProfileRepository
	Portfolios   domain.PortfolioRepository
	Holdings     domain.HoldingRepository
	Transactions domain.TransactionRepository
	Watchlist    domain.WatchlistRepository
	Alerts       domain.PriceAlertRepository
}

// OpenDatabase connects to the configured SQL database and applies the schema.
// Returns nil for the memory driver.
func OpenDatabase(ctx context.Context, cfg *config.Config) (*sqlstore.DB, error) {
	var dialect string
	switch cfg.DBDriver {
	case config.DriverMemory:
		return nil, nil
	case config.DriverPostgres:
		dialect = sqlstore.DialectPostgres
	case config.DriverSQLite:
		dialect = sqlstore.DialectSQLite
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}

	db, err := sqlstore.NewDB(dialect, cfg.DBConnStr)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// NewRepositories returns SQL-backed repositories, or in-memory ones when db is nil
func NewRepositories(db *sqlstore.DB) Repositories {
	if db == nil {
		mem := memory.NewDB()
		return Repositories{
			Profiles:     memory.NewProfileRepository(mem),
			Portfolios:   memory.NewPortfolioRepository(mem),
			Holdings:     memory.NewHoldingRepository(mem),
			Transactions: memory.NewTransactionRepository(mem),
			Watchlist:    memory.NewWatchlistRepository(mem),
			Alerts:       memory.NewPriceAlertRepository(mem),
		}
	}
	return Repositories{
		Profiles:     sqlstore.NewProfileRepository(db),
		Portfolios:   sqlstore.NewPortfolioRepository(db),
		Holdings:     sqlstore.NewHoldingRepository(db),
		Transactions: sqlstore.NewTransactionRepository(db),
		Watchlist:    sqlstore.NewWatchlistRepository(db),
		Alerts:       sqlstore.NewPriceAlertRepository(db),
	}
}

// NewQuoteServices builds the global and regional quote providers.
// Without an API key the global provider serves reference and synthetic data only.
func NewQuoteServices(cfg *config.Config, log zerolog.Logger) (*quotes.Service, *quotes.RegionalService, error) {
	global, err := reference.LoadGlobal()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load global reference data: %w", err)
	}
	regional, err := reference.LoadRegional()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load regional reference data: %w", err)
	}

	seed := cfg.RandomSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	var source quotes.QuoteSource
	if cfg.AlphaVantageAPIKey != "" {
		source = alphavantage.NewClient(cfg.AlphaVantageAPIKey,
			alphavantage.WithBaseURL(cfg.AlphaVantageURL),
			alphavantage.WithTimeout(cfg.UpstreamTimeout),
			alphavantage.WithRetries(uint(cfg.UpstreamMaxRetries), 500*time.Millisecond),
			alphavantage.WithLogger(log),
		)
	} else if !cfg.DemoMode {
		log.Warn().Msg("No market data API key configured and demo mode is off; global quotes will fail")
	}

	globalService := quotes.NewService(source, global,
		quotecache.New[any](quotecache.GlobalTTL, nil), quotes.NewSynthesizer(seed), cfg.DemoMode, log)
	regionalService := quotes.NewRegionalService(regional,
		quotecache.New[any](quotecache.RegionalTTL, nil), quotes.NewSynthesizer(seed+1), log)
	return globalService, regionalService, nil
}

// Build opens persistence, builds the quote providers and activates the portfolio store
func Build(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Container, error) {
	db, err := OpenDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}

	globalService, regionalService, err := NewQuoteServices(cfg, log)
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, err
	}

	repos := NewRepositories(db)
	store := portfolio.NewStore(portfolio.Deps{
		Session:      domain.StaticSession{UserID: cfg.UserID},
		Quotes:       globalService,
		Profiles:     repos.Profiles,
		Portfolios:   repos.Portfolios,
		Holdings:     repos.Holdings,
		Transactions: repos.Transactions,
		Watchlist:    repos.Watchlist,
		Alerts:       repos.Alerts,
		Log:          log,
	})

	// A failed first quote round still leaves the store ready with LastError set
	if err := store.Activate(ctx); err != nil && !store.Snapshot().Ready() {
		store.Close()
		if db != nil {
			db.Close()
		}
		return nil, fmt.Errorf("failed to activate portfolio store: %w", err)
	}

	return &Container{
		DB:       db,
		Quotes:   globalService,
		Market:   regionalService,
		Store:    store,
		Currency: format.NewCurrency(cfg.DisplayCurrency),
	}, nil
}

// Close releases the store and the database
func (c *Container) Close() error {
	c.Store.Close()
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
