package main

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/simaogato/finfolio-backend/internal/adapter/format"
	"github.com/simaogato/finfolio-backend/internal/domain"
	"github.com/simaogato/finfolio-backend/internal/usecase/aggregator"
	"github.com/simaogato/finfolio-backend/internal/usecase/portfolio"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestReportMarkdown(t *testing.T) {
	view := aggregator.View(domain.Holding{
		Symbol:       "AAPL",
		CompanyName:  "Apple Inc.",
		Quantity:     d("10"),
		AveragePrice: d("150"),
	}, d("175.43"))
	alert := d("180")

	st := portfolio.State{
		Phase:     portfolio.PhaseReady,
		Portfolio: &domain.Portfolio{Name: "My Portfolio"},
		Holdings:  []domain.HoldingView{view},
		Summary:   aggregator.Aggregate([]domain.HoldingView{view}),
		Watchlist: []domain.WatchlistRow{{
			WatchlistItem: domain.WatchlistItem{Symbol: "NVDA", CompanyName: "NVIDIA Corporation"},
			Price:         d("451.22"),
			ChangePercent: d("3.59"),
			AlertPrice:    &alert,
		}},
		Transactions: []domain.Transaction{{
			Symbol:           "AAPL",
			Type:             domain.TransactionTypeSell,
			Quantity:         d("1"),
			Price:            d("170"),
			RealizedGainLoss: d("20"),
			TransactionDate:  time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		}},
		LastError: "upstream unavailable",
	}

	md := reportMarkdown(st, format.NewCurrency("USD"))

	assert.Contains(t, md, "# My Portfolio")
	assert.Contains(t, md, "> Last refresh failed: upstream unavailable")
	assert.Contains(t, md, "| $1,754.30 | $1,500.00 | +$254.30 | 16.95% |")
	assert.Contains(t, md, "| AAPL | Apple Inc. | 10 | $150.00 | $175.43 | $1,754.30 | +$254.30 | 16.95% |")
	assert.Contains(t, md, "| NVDA | NVIDIA Corporation | $451.22 | 3.59% | $180.00 |")
	assert.Contains(t, md, "| 2024-03-01 | sell | AAPL | 1 | $170.00 | +$20.00 |")
}

func TestReportMarkdown_Empty(t *testing.T) {
	md := reportMarkdown(portfolio.State{}, format.NewCurrency("INR"))

	assert.Contains(t, md, "# Portfolio")
	assert.Contains(t, md, "No holdings.")
	assert.NotContains(t, md, "## Watchlist")
	assert.NotContains(t, md, "## Recent transactions")
}

func TestQuotesMarkdown(t *testing.T) {
	md := quotesMarkdown([]domain.Quote{
		{Symbol: "MSFT", Name: "Microsoft Corporation", Price: d("378.85"), Change: d("5.67"), ChangePercent: d("1.52"), Volume: 34567890},
		{Symbol: "ZZZ", Name: "ZZZ", Price: d("99.5"), Change: d("-1"), Synthetic: true},
	}, format.NewCurrency("USD"))

	assert.Contains(t, md, "| MSFT | Microsoft Corporation | $378.85 | +$5.67 | 1.52% | 34567890 |")
	assert.Contains(t, md, "| ZZZ | ZZZ *(synthetic)* | $99.50 | -$1.00 | 0.00% | 0 |")
}

func TestSearchMarkdown(t *testing.T) {
	assert.Contains(t, searchMarkdown("xyz", nil), "No matches.")

	md := regionalSearchMarkdown("bank", []domain.RegionalSearchResult{
		{Symbol: "HDFCBANK", Name: "HDFC Bank Limited", Exchange: domain.ExchangeNSE, Sector: "Banking"},
	})
	assert.Contains(t, md, `# Results for "bank"`)
	assert.Contains(t, md, "| HDFCBANK | HDFC Bank Limited | NSE | Banking |")
}

func TestEscapeCell(t *testing.T) {
	assert.Equal(t, `A \| B`, escapeCell("A | B"))
}
