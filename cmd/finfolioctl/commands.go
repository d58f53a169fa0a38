package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/simaogato/finfolio-backend/internal/adapter/format"
	"github.com/simaogato/finfolio-backend/internal/config"
	"github.com/simaogato/finfolio-backend/internal/di"
	"github.com/simaogato/finfolio-backend/internal/domain"
	"github.com/simaogato/finfolio-backend/internal/usecase/quotes"
)

// migrateCmd applies the database schema
type migrateCmd struct{}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "create or upgrade the database schema" }
func (*migrateCmd) Usage() string {
	return `finfolioctl migrate

  Applies the schema to the database selected by DB_DRIVER and DB_CONN_STR.
`
}

func (*migrateCmd) SetFlags(*flag.FlagSet) {}

func (*migrateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, log, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitFailure
	}
	if cfg.DBDriver == config.DriverMemory {
		fmt.Fprintln(os.Stderr, "DB_DRIVER is memory, nothing to migrate")
		return subcommands.ExitUsageError
	}

	db, err := di.OpenDatabase(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error migrating database: %v\n", err)
		return subcommands.ExitFailure
	}
	defer db.Close()

	log.Info().Str("driver", cfg.DBDriver).Msg("Schema is up to date")
	return subcommands.ExitSuccess
}

// quoteCmd prints quotes for one or more symbols
type quoteCmd struct {
	plain bool
}

func (*quoteCmd) Name() string     { return "quote" }
func (*quoteCmd) Synopsis() string { return "display quotes for symbols" }
func (*quoteCmd) Usage() string {
	return `finfolioctl quote [-plain] <symbol>...

  Displays the latest quote of each symbol. Without arguments the default symbols are quoted.
`
}

func (c *quoteCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.plain, "plain", false, "print raw markdown")
}

func (c *quoteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, log, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitFailure
	}
	service, _, err := di.NewQuoteServices(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating quote service: %v\n", err)
		return subcommands.ExitFailure
	}

	symbols := f.Args()
	if len(symbols) == 0 {
		symbols = service.DefaultSymbols()
	}
	list, err := service.GetQuotes(ctx, symbols)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching quotes: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(quotesMarkdown(list, format.NewCurrency(cfg.DisplayCurrency)), c.plain)
	return subcommands.ExitSuccess
}

// searchCmd searches the global or the regional market
type searchCmd struct {
	market   string
	exchange string
	sector   string
	plain    bool
}

func (*searchCmd) Name() string     { return "search" }
func (*searchCmd) Synopsis() string { return "search listed symbols" }
func (*searchCmd) Usage() string {
	return `finfolioctl search [-market global|in] [-exchange NSE|BSE] [-sector <sector>] [-plain] <query>

  Searches symbols and company names. The regional market also matches sectors.
`
}

func (c *searchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.market, "market", "global", "market to search: global or in")
	f.StringVar(&c.exchange, "exchange", "", "regional exchange filter")
	f.StringVar(&c.sector, "sector", "", "regional sector filter")
	f.BoolVar(&c.plain, "plain", false, "print raw markdown")
}

func (c *searchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	query := strings.Join(f.Args(), " ")

	cfg, log, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitFailure
	}
	global, regional, err := di.NewQuoteServices(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating quote service: %v\n", err)
		return subcommands.ExitFailure
	}

	switch strings.ToLower(c.market) {
	case "global":
		if strings.TrimSpace(query) == "" {
			fmt.Fprintln(os.Stderr, "A query is required for the global market")
			return subcommands.ExitUsageError
		}
		results, err := global.SearchSymbols(ctx, query)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error searching symbols: %v\n", err)
			return subcommands.ExitFailure
		}
		printMarkdown(searchMarkdown(query, results), c.plain)
	case "in":
		facets := quotes.Facets{Sector: c.sector}
		if c.exchange != "" {
			facets.Exchange = domain.Exchange(strings.ToUpper(c.exchange))
		}
		results, err := regional.SearchStocks(ctx, query, facets)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error searching stocks: %v\n", err)
			return subcommands.ExitFailure
		}
		printMarkdown(regionalSearchMarkdown(query, results), c.plain)
	default:
		fmt.Fprintf(os.Stderr, "Unknown market %q\n", c.market)
		return subcommands.ExitUsageError
	}
	return subcommands.ExitSuccess
}

// reportCmd renders the current portfolio of the configured user
type reportCmd struct {
	plain bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "display the current portfolio" }
func (*reportCmd) Usage() string {
	return `finfolioctl report [-plain]

  Loads the portfolio of APP_USER_ID, quotes its holdings and displays
  holdings, summary, watchlist and recent transactions.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.plain, "plain", false, "print raw markdown")
}

func (c *reportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, log, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitFailure
	}
	container, err := di.Build(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	defer container.Close()

	printMarkdown(reportMarkdown(container.Store.Snapshot(), container.Currency), c.plain)
	return subcommands.ExitSuccess
}
