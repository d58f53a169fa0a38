// Package finfoliov1 holds the messages and service definition of
// finfolio.v1.PortfolioService. Messages travel as JSON over gRPC; money
// and quantities are decimal strings so no precision is lost on the wire.
package finfoliov1

// Holding is a position with its market metrics
type Holding struct {
	Id              string     `json:"id"`
	Symbol          string     `json:"symbol"`
	CompanyName     string     `json:"company_name"`
	Quantity        string     `json:"quantity"`
	AveragePrice    string     `json:"average_price"`
	CurrentPrice    string     `json:"current_price"`
	TotalValue      string     `json:"total_value"`
	TotalCost       string     `json:"total_cost"`
	GainLoss        string     `json:"gain_loss"`
	GainLossPercent string     `json:"gain_loss_percent"`
	UpdatedAt       *Timestamp `json:"updated_at,omitempty"`
}

// Summary aggregates every holding of a portfolio
type Summary struct {
	TotalValue           string `json:"total_value"`
	TotalCost            string `json:"total_cost"`
	TotalGainLoss        string `json:"total_gain_loss"`
	TotalGainLossPercent string `json:"total_gain_loss_percent"`
}

// WatchlistItem is a followed symbol with its live quote
type WatchlistItem struct {
	Id            string     `json:"id"`
	Symbol        string     `json:"symbol"`
	CompanyName   string     `json:"company_name"`
	Price         string     `json:"price"`
	Change        string     `json:"change"`
	ChangePercent string     `json:"change_percent"`
	AlertPrice    string     `json:"alert_price,omitempty"` // empty when no alert is set
	CreatedAt     *Timestamp `json:"created_at,omitempty"`
}

// Quote is a point-in-time price of a symbol
type Quote struct {
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	Price         string `json:"price"`
	Change        string `json:"change"`
	ChangePercent string `json:"change_percent"`
	Volume        int64  `json:"volume"`
	MarketCap     string `json:"market_cap,omitempty"`
}

// Transaction is a recorded buy or sell
type Transaction struct {
	Id               string     `json:"id"`
	Symbol           string     `json:"symbol"`
	CompanyName      string     `json:"company_name"`
	Type             string     `json:"type"`
	Quantity         string     `json:"quantity"`
	Price            string     `json:"price"`
	TotalAmount      string     `json:"total_amount"`
	RealizedGainLoss string     `json:"realized_gain_loss"`
	TransactionDate  *Timestamp `json:"transaction_date,omitempty"`
}

type AddHoldingRequest struct {
	Symbol   string `json:"symbol"`
	Quantity string `json:"quantity"`
	Price    string `json:"price"`
}

type AddHoldingResponse struct {
	Holding *Holding `json:"holding"`
}

type RecordSellRequest struct {
	Symbol   string `json:"symbol"`
	Quantity string `json:"quantity"`
	Price    string `json:"price"`
}

type RecordSellResponse struct {
	TransactionId    string     `json:"transaction_id"`
	RealizedGainLoss string     `json:"realized_gain_loss"`
	Remaining        *Holding   `json:"remaining,omitempty"` // nil when the position was closed
	CreatedAt        *Timestamp `json:"created_at,omitempty"`
}

type RemoveHoldingRequest struct {
	HoldingId string `json:"holding_id"`
}

type AddToWatchlistRequest struct {
	Symbol      string `json:"symbol"`
	CompanyName string `json:"company_name,omitempty"`
}

type AddToWatchlistResponse struct {
	Item *WatchlistItem `json:"item"`
}

type RemoveFromWatchlistRequest struct {
	Symbol string `json:"symbol"`
}

type SearchStocksRequest struct {
	Query string `json:"query"`
}

type SearchStocksResponse struct {
	Quotes []*Quote `json:"quotes"`
}

type GetPortfolioRequest struct{}

type GetPortfolioResponse struct {
	PortfolioId   string           `json:"portfolio_id"`
	PortfolioName string           `json:"portfolio_name"`
	Holdings      []*Holding       `json:"holdings"`
	Summary       *Summary         `json:"summary"`
	Watchlist     []*WatchlistItem `json:"watchlist"`
	Transactions  []*Transaction   `json:"transactions"`
	Loading       bool             `json:"loading"`
	LastError     string           `json:"last_error,omitempty"`
	UpdatedAt     *Timestamp       `json:"updated_at,omitempty"`
}

type RefreshDataRequest struct{}
