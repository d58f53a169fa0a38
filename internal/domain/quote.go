package domain

import (
	"github.com/shopspring/decimal"
)

// Exchange identifies a regional stock exchange
type Exchange string

const (
	ExchangeNSE Exchange = "NSE"
	ExchangeBSE Exchange = "BSE"
)

// Quote represents a point-in-time price snapshot for a symbol
type Quote struct {
	Symbol        string // always uppercase
	Name          string
	Price         decimal.Decimal
	Change        decimal.Decimal
	ChangePercent decimal.Decimal
	Volume        int64
	MarketCap     *decimal.Decimal // optional
	Synthetic     bool             // true when produced by the demo generator
}

// Validate ensures the quote is well formed
func (q *Quote) Validate() error {
	if q.Symbol == "" {
		return ErrInvalidArgument
	}
	if q.Price.IsNegative() {
		return ErrInvalidArgument
	}
	if q.Volume < 0 {
		return ErrInvalidArgument
	}
	return nil
}

// SearchResult is a symbol match returned by a symbol search
type SearchResult struct {
	Symbol      string
	Name        string
	Type        string
	Region      string
	MarketOpen  string
	MarketClose string
	Timezone    string
	Currency    string
	MatchScore  string
}

// RegionalStock is a quote enriched with exchange and sector for the regional market
type RegionalStock struct {
	Symbol        string
	Name          string
	Exchange      Exchange
	Sector        string
	Price         decimal.Decimal
	Change        decimal.Decimal
	ChangePercent decimal.Decimal
	Volume        int64
	MarketCap     *decimal.Decimal
}

// Quote converts the regional stock into a plain quote
func (s RegionalStock) Quote() Quote {
	return Quote{
		Symbol:        s.Symbol,
		Name:          s.Name,
		Price:         s.Price,
		Change:        s.Change,
		ChangePercent: s.ChangePercent,
		Volume:        s.Volume,
		MarketCap:     s.MarketCap,
	}
}

// RegionalSearchResult is a symbol match in the regional market
type RegionalSearchResult struct {
	Symbol   string
	Name     string
	Exchange Exchange
	Sector   string
	ISIN     string
}

// MarketIndex is a headline index value
type MarketIndex struct {
	Name          string
	Value         decimal.Decimal
	Change        decimal.Decimal
	ChangePercent decimal.Decimal
}

// SectorPerformance summarises the daily move of a market sector
type SectorPerformance struct {
	Sector     string
	Change     decimal.Decimal
	StockCount int
}
