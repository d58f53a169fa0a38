// Package reference loads the embedded reference market tables used for demo data.
package reference

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/simaogato/finfolio-backend/internal/domain"
)

//go:embed data/*.yaml
var files embed.FS

type stockRow struct {
	Symbol        string `yaml:"symbol"`
	Name          string `yaml:"name"`
	Exchange      string `yaml:"exchange"`
	Sector        string `yaml:"sector"`
	Price         string `yaml:"price"`
	Change        string `yaml:"change"`
	ChangePercent string `yaml:"change_percent"`
	Volume        int64  `yaml:"volume"`
	MarketCap     string `yaml:"market_cap"`
}

type globalFile struct {
	Region         string     `yaml:"region"`
	Currency       string     `yaml:"currency"`
	Timezone       string     `yaml:"timezone"`
	MarketOpen     string     `yaml:"market_open"`
	MarketClose    string     `yaml:"market_close"`
	DefaultSymbols []string   `yaml:"default_symbols"`
	Stocks         []stockRow `yaml:"stocks"`
	SearchOnly     []stockRow `yaml:"search_only"`
}

type regionalFile struct {
	Stocks  []stockRow `yaml:"stocks"`
	Indices []struct {
		Name          string `yaml:"name"`
		Value         string `yaml:"value"`
		Change        string `yaml:"change"`
		ChangePercent string `yaml:"change_percent"`
	} `yaml:"indices"`
	Sectors []struct {
		Sector string `yaml:"sector"`
		Change string `yaml:"change"`
		Stocks int    `yaml:"stocks"`
	} `yaml:"sectors"`
}

// Listing is a searchable symbol without price data
type Listing struct {
	Symbol string
	Name   string
}

// GlobalTable holds the reference quotes for the global market
type GlobalTable struct {
	Region         string
	Currency       string
	Timezone       string
	MarketOpen     string
	MarketClose    string
	DefaultSymbols []string
	quotes         map[string]domain.Quote
	listings       []Listing // quotes and search-only rows in file order
}

// Lookup returns the reference quote of an exact symbol
func (t *GlobalTable) Lookup(symbol string) (domain.Quote, bool) {
	q, ok := t.quotes[symbol]
	return q, ok
}

// Search returns every listing whose symbol or name contains query, case-insensitively
func (t *GlobalTable) Search(query string) []domain.SearchResult {
	needle := strings.ToLower(query)
	results := make([]domain.SearchResult, 0)
	for _, l := range t.listings {
		if !strings.Contains(strings.ToLower(l.Symbol), needle) && !strings.Contains(strings.ToLower(l.Name), needle) {
			continue
		}
		results = append(results, domain.SearchResult{
			Symbol:      l.Symbol,
			Name:        l.Name,
			Type:        "Equity",
			Region:      t.Region,
			MarketOpen:  t.MarketOpen,
			MarketClose: t.MarketClose,
			Timezone:    t.Timezone,
			Currency:    t.Currency,
			MatchScore:  "1.0000",
		})
	}
	return results
}

// RegionalTable holds the reference data for the regional (Indian) market
type RegionalTable struct {
	stocks  []domain.RegionalStock
	indices []domain.MarketIndex
	sectors []domain.SectorPerformance
}

// Stocks returns a copy of the reference listings
func (t *RegionalTable) Stocks() []domain.RegionalStock {
	out := make([]domain.RegionalStock, len(t.stocks))
	copy(out, t.stocks)
	return out
}

// Lookup returns the reference row of a symbol, matched case-insensitively
func (t *RegionalTable) Lookup(symbol string) (domain.RegionalStock, bool) {
	for _, s := range t.stocks {
		if strings.EqualFold(s.Symbol, symbol) {
			return s, true
		}
	}
	return domain.RegionalStock{}, false
}

// Indices returns the headline market indices
func (t *RegionalTable) Indices() []domain.MarketIndex {
	out := make([]domain.MarketIndex, len(t.indices))
	copy(out, t.indices)
	return out
}

// Sectors returns the sector performance table sorted by daily change, best first
func (t *RegionalTable) Sectors() []domain.SectorPerformance {
	out := make([]domain.SectorPerformance, len(t.sectors))
	copy(out, t.sectors)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Change.GreaterThan(out[j].Change)
	})
	return out
}

// LoadGlobal parses the embedded global table
func LoadGlobal() (*GlobalTable, error) {
	var f globalFile
	if err := decode("data/global.yaml", &f); err != nil {
		return nil, err
	}

	t := &GlobalTable{
		Region:         f.Region,
		Currency:       f.Currency,
		Timezone:       f.Timezone,
		MarketOpen:     f.MarketOpen,
		MarketClose:    f.MarketClose,
		DefaultSymbols: f.DefaultSymbols,
		quotes:         make(map[string]domain.Quote, len(f.Stocks)),
	}

	for _, row := range f.Stocks {
		s, err := row.toRegional()
		if err != nil {
			return nil, err
		}
		q := s.Quote()
		q.Synthetic = true
		t.quotes[row.Symbol] = q
		t.listings = append(t.listings, Listing{Symbol: row.Symbol, Name: row.Name})
	}
	for _, row := range f.SearchOnly {
		t.listings = append(t.listings, Listing{Symbol: row.Symbol, Name: row.Name})
	}

	return t, nil
}

// LoadRegional parses the embedded regional table
func LoadRegional() (*RegionalTable, error) {
	var f regionalFile
	if err := decode("data/india.yaml", &f); err != nil {
		return nil, err
	}

	t := &RegionalTable{}
	for _, row := range f.Stocks {
		s, err := row.toRegional()
		if err != nil {
			return nil, err
		}
		t.stocks = append(t.stocks, s)
	}

	for _, row := range f.Indices {
		value, err := parseDecimal(row.Name, "value", row.Value)
		if err != nil {
			return nil, err
		}
		change, err := parseDecimal(row.Name, "change", row.Change)
		if err != nil {
			return nil, err
		}
		pct, err := parseDecimal(row.Name, "change_percent", row.ChangePercent)
		if err != nil {
			return nil, err
		}
		t.indices = append(t.indices, domain.MarketIndex{Name: row.Name, Value: value, Change: change, ChangePercent: pct})
	}

	for _, row := range f.Sectors {
		change, err := parseDecimal(row.Sector, "change", row.Change)
		if err != nil {
			return nil, err
		}
		t.sectors = append(t.sectors, domain.SectorPerformance{Sector: row.Sector, Change: change, StockCount: row.Stocks})
	}

	return t, nil
}

func decode(name string, out any) error {
	raw, err := files.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

func (r stockRow) toRegional() (domain.RegionalStock, error) {
	price, err := parseDecimal(r.Symbol, "price", r.Price)
	if err != nil {
		return domain.RegionalStock{}, err
	}
	change, err := parseDecimal(r.Symbol, "change", r.Change)
	if err != nil {
		return domain.RegionalStock{}, err
	}
	pct, err := parseDecimal(r.Symbol, "change_percent", r.ChangePercent)
	if err != nil {
		return domain.RegionalStock{}, err
	}

	s := domain.RegionalStock{
		Symbol:        r.Symbol,
		Name:          r.Name,
		Exchange:      domain.Exchange(r.Exchange),
		Sector:        r.Sector,
		Price:         price,
		Change:        change,
		ChangePercent: pct,
		Volume:        r.Volume,
	}
	if r.MarketCap != "" {
		mc, err := parseDecimal(r.Symbol, "market_cap", r.MarketCap)
		if err != nil {
			return domain.RegionalStock{}, err
		}
		s.MarketCap = &mc
	}
	return s, nil
}

func parseDecimal(row, field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse %s of %s: %w", field, row, err)
	}
	return d, nil
}
