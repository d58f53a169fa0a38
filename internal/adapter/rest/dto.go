package rest

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/simaogato/finfolio-backend/internal/adapter/format"
	"github.com/simaogato/finfolio-backend/internal/domain"
	"github.com/simaogato/finfolio-backend/internal/usecase/alerts"
	"github.com/simaogato/finfolio-backend/internal/usecase/dashboard"
	"github.com/simaogato/finfolio-backend/internal/usecase/portfolio"
)

// Decimals marshal as JSON strings so clients never see float rounding.

type holdingResponse struct {
	ID              string          `json:"id"`
	Symbol          string          `json:"symbol"`
	CompanyName     string          `json:"company_name"`
	Quantity        decimal.Decimal `json:"quantity"`
	AveragePrice    decimal.Decimal `json:"average_price"`
	CurrentPrice    decimal.Decimal `json:"current_price"`
	TotalValue      decimal.Decimal `json:"total_value"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	GainLoss        decimal.Decimal `json:"gain_loss"`
	GainLossPercent decimal.Decimal `json:"gain_loss_percent"`
	DailyChange     decimal.Decimal `json:"daily_change_percent"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type summaryResponse struct {
	TotalValue           decimal.Decimal   `json:"total_value"`
	TotalCost            decimal.Decimal   `json:"total_cost"`
	TotalGainLoss        decimal.Decimal   `json:"total_gain_loss"`
	TotalGainLossPercent decimal.Decimal   `json:"total_gain_loss_percent"`
	Currency             string            `json:"currency"`
	Display              map[string]string `json:"display"`
}

type watchlistResponse struct {
	ID            string           `json:"id"`
	Symbol        string           `json:"symbol"`
	CompanyName   string           `json:"company_name"`
	Price         decimal.Decimal  `json:"price"`
	Change        decimal.Decimal  `json:"change"`
	ChangePercent decimal.Decimal  `json:"change_percent"`
	AlertPrice    *decimal.Decimal `json:"alert_price"`
	CreatedAt     time.Time        `json:"created_at"`
}

type transactionResponse struct {
	ID               string          `json:"id"`
	Symbol           string          `json:"symbol"`
	CompanyName      string          `json:"company_name"`
	Type             string          `json:"type"`
	Quantity         decimal.Decimal `json:"quantity"`
	Price            decimal.Decimal `json:"price"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	RealizedGainLoss decimal.Decimal `json:"realized_gain_loss"`
	TransactionDate  time.Time       `json:"transaction_date"`
}

type alertResponse struct {
	ID          string          `json:"id"`
	Symbol      string          `json:"symbol"`
	CompanyName string          `json:"company_name"`
	TargetPrice decimal.Decimal `json:"target_price"`
	Condition   string          `json:"condition"`
	IsActive    bool            `json:"is_active"`
	TriggeredAt *time.Time      `json:"triggered_at"`
	CreatedAt   time.Time       `json:"created_at"`
}

type portfolioRef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsDefault   bool   `json:"is_default"`
}

type portfolioResponse struct {
	Portfolio    portfolioRef          `json:"portfolio"`
	Holdings     []holdingResponse     `json:"holdings"`
	Summary      summaryResponse       `json:"summary"`
	Watchlist    []watchlistResponse   `json:"watchlist"`
	Transactions []transactionResponse `json:"transactions"`
	Alerts       []alertResponse       `json:"alerts"`
	Loading      bool                  `json:"loading"`
	LastError    string                `json:"last_error,omitempty"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

type quoteResponse struct {
	Symbol        string           `json:"symbol"`
	Name          string           `json:"name"`
	Price         decimal.Decimal  `json:"price"`
	Change        decimal.Decimal  `json:"change"`
	ChangePercent decimal.Decimal  `json:"change_percent"`
	Volume        int64            `json:"volume"`
	MarketCap     *decimal.Decimal `json:"market_cap,omitempty"`
	Synthetic     bool             `json:"synthetic,omitempty"`
}

type regionalStockResponse struct {
	quoteResponse
	Exchange string `json:"exchange"`
	Sector   string `json:"sector"`
}

type regionalSearchResponse struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Sector   string `json:"sector"`
	ISIN     string `json:"isin"`
}

type indexResponse struct {
	Name          string          `json:"name"`
	Value         decimal.Decimal `json:"value"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent decimal.Decimal `json:"change_percent"`
}

type sectorResponse struct {
	Sector     string          `json:"sector"`
	Change     decimal.Decimal `json:"change"`
	StockCount int             `json:"stock_count"`
}

type sellResponse struct {
	Transaction transactionResponse `json:"transaction"`
	Realized    decimal.Decimal     `json:"realized_gain_loss"`
	Remaining   *holdingResponse    `json:"remaining"`
}

type triggerResponse struct {
	Alert alertResponse   `json:"alert"`
	Price decimal.Decimal `json:"price"`
}

type allocationResponse struct {
	Symbol  string          `json:"symbol"`
	Value   decimal.Decimal `json:"value"`
	Percent decimal.Decimal `json:"percent"`
}

type analyticsResponse struct {
	Summary       summaryResponse      `json:"summary"`
	Allocation    []allocationResponse `json:"allocation"`
	Concentration decimal.Decimal      `json:"concentration"`
	Volatility    decimal.Decimal      `json:"volatility"`
	Risk          string               `json:"risk"`
	Best          *holdingResponse     `json:"best,omitempty"`
	Worst         *holdingResponse     `json:"worst,omitempty"`
}

func toHolding(v domain.HoldingView, daily map[string]decimal.Decimal) holdingResponse {
	return holdingResponse{
		ID:              v.ID.String(),
		Symbol:          v.Symbol,
		CompanyName:     v.CompanyName,
		Quantity:        v.Quantity,
		AveragePrice:    v.AveragePrice,
		CurrentPrice:    v.CurrentPrice,
		TotalValue:      v.TotalValue,
		TotalCost:       v.TotalCost,
		GainLoss:        v.GainLoss,
		GainLossPercent: v.GainLossPercent,
		DailyChange:     daily[v.Symbol],
		UpdatedAt:       v.UpdatedAt,
	}
}

func (s *Server) toSummary(sum domain.PortfolioSummary) summaryResponse {
	return summaryResponse{
		TotalValue:           sum.TotalValue,
		TotalCost:            sum.TotalCost,
		TotalGainLoss:        sum.TotalGainLoss,
		TotalGainLossPercent: sum.TotalGainLossPercent,
		Currency:             s.currency.Code(),
		Display: map[string]string{
			"total_value":             s.currency.Format(sum.TotalValue),
			"total_cost":              s.currency.Format(sum.TotalCost),
			"total_gain_loss":         s.currency.Signed(sum.TotalGainLoss),
			"total_gain_loss_percent": format.Percent(sum.TotalGainLossPercent),
		},
	}
}

func toWatchlist(r domain.WatchlistRow) watchlistResponse {
	return watchlistResponse{
		ID:            r.ID.String(),
		Symbol:        r.Symbol,
		CompanyName:   r.CompanyName,
		Price:         r.Price,
		Change:        r.Change,
		ChangePercent: r.ChangePercent,
		AlertPrice:    r.AlertPrice,
		CreatedAt:     r.CreatedAt,
	}
}

func toTransaction(tx domain.Transaction) transactionResponse {
	return transactionResponse{
		ID:               tx.ID.String(),
		Symbol:           tx.Symbol,
		CompanyName:      tx.CompanyName,
		Type:             string(tx.Type),
		Quantity:         tx.Quantity,
		Price:            tx.Price,
		TotalAmount:      tx.TotalAmount,
		RealizedGainLoss: tx.RealizedGainLoss,
		TransactionDate:  tx.TransactionDate,
	}
}

func toAlert(a domain.PriceAlert) alertResponse {
	return alertResponse{
		ID:          a.ID.String(),
		Symbol:      a.Symbol,
		CompanyName: a.CompanyName,
		TargetPrice: a.TargetPrice,
		Condition:   string(a.Condition),
		IsActive:    a.IsActive,
		TriggeredAt: a.TriggeredAt,
		CreatedAt:   a.CreatedAt,
	}
}

func toPortfolioRef(p domain.Portfolio) portfolioRef {
	return portfolioRef{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		IsDefault:   p.IsDefault,
	}
}

func toQuote(q domain.Quote) quoteResponse {
	return quoteResponse{
		Symbol:        q.Symbol,
		Name:          q.Name,
		Price:         q.Price,
		Change:        q.Change,
		ChangePercent: q.ChangePercent,
		Volume:        q.Volume,
		MarketCap:     q.MarketCap,
		Synthetic:     q.Synthetic,
	}
}

func toRegionalStock(st domain.RegionalStock) regionalStockResponse {
	return regionalStockResponse{
		quoteResponse: toQuote(st.Quote()),
		Exchange:      string(st.Exchange),
		Sector:        st.Sector,
	}
}

func toRegionalSearch(r domain.RegionalSearchResult) regionalSearchResponse {
	return regionalSearchResponse{
		Symbol:   r.Symbol,
		Name:     r.Name,
		Exchange: string(r.Exchange),
		Sector:   r.Sector,
		ISIN:     r.ISIN,
	}
}

func toTrigger(t alerts.Trigger) triggerResponse {
	return triggerResponse{Alert: toAlert(t.Alert), Price: t.Price}
}

// toPortfolio renders a ready snapshot; callers check st.Ready()
func (s *Server) toPortfolio(st portfolio.State) portfolioResponse {
	resp := portfolioResponse{
		Portfolio:    toPortfolioRef(*st.Portfolio),
		Holdings:     make([]holdingResponse, 0, len(st.Holdings)),
		Summary:      s.toSummary(st.Summary),
		Watchlist:    make([]watchlistResponse, 0, len(st.Watchlist)),
		Transactions: make([]transactionResponse, 0, len(st.Transactions)),
		Alerts:       make([]alertResponse, 0, len(st.Alerts)),
		Loading:      st.Loading,
		LastError:    st.LastError,
		UpdatedAt:    st.UpdatedAt,
	}
	for _, h := range st.Holdings {
		resp.Holdings = append(resp.Holdings, toHolding(h, st.DailyChange))
	}
	for _, r := range st.Watchlist {
		resp.Watchlist = append(resp.Watchlist, toWatchlist(r))
	}
	for _, tx := range st.Transactions {
		resp.Transactions = append(resp.Transactions, toTransaction(tx))
	}
	for _, a := range st.Alerts {
		resp.Alerts = append(resp.Alerts, toAlert(a))
	}
	return resp
}

func (s *Server) toAnalytics(a *dashboard.Analytics, daily map[string]decimal.Decimal) analyticsResponse {
	resp := analyticsResponse{
		Summary:       s.toSummary(a.Summary),
		Allocation:    make([]allocationResponse, 0, len(a.Allocation)),
		Concentration: a.Concentration,
		Volatility:    a.Volatility,
		Risk:          string(a.Risk),
	}
	for _, slice := range a.Allocation {
		resp.Allocation = append(resp.Allocation, allocationResponse{Symbol: slice.Symbol, Value: slice.Value, Percent: slice.Percent})
	}
	if a.Best != nil {
		best := toHolding(*a.Best, daily)
		resp.Best = &best
	}
	if a.Worst != nil {
		worst := toHolding(*a.Worst, daily)
		resp.Worst = &worst
	}
	return resp
}
