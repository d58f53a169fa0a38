// Package format renders amounts for display. Amounts are never converted
// between currencies; only the symbol and grouping change.
package format

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when no or an unsupported currency is configured
const DefaultCurrency = "INR"

// Supported lists the display currencies a user can pick
var Supported = []string{"INR", "USD", "EUR", "GBP", "JPY"}

// Currency formats amounts with the symbol and fraction digits of one currency
type Currency struct {
	code     string
	currency *money.Currency
}

// NewCurrency returns a formatter for code, falling back to DefaultCurrency
func NewCurrency(code string) *Currency {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !IsSupported(code) {
		code = DefaultCurrency
	}
	return &Currency{code: code, currency: money.GetCurrency(code)}
}

// IsSupported reports whether code is a selectable display currency
func IsSupported(code string) bool {
	for _, c := range Supported {
		if c == code {
			return true
		}
	}
	return false
}

// Code returns the ISO code
func (c *Currency) Code() string {
	return c.code
}

// Symbol returns the currency sign, e.g. ₹
func (c *Currency) Symbol() string {
	return c.currency.Grapheme
}

// Format renders amount rounded half away from zero to the currency's minor unit
func (c *Currency) Format(amount decimal.Decimal) string {
	minor := amount.Shift(int32(c.currency.Fraction)).Round(0)
	return money.New(minor.IntPart(), c.code).Display()
}

// Signed is Format with an explicit + for gains. Zero renders as "-".
func (c *Currency) Signed(amount decimal.Decimal) string {
	switch {
	case amount.IsZero():
		return "-"
	case amount.IsPositive():
		return "+" + c.Format(amount)
	default:
		return c.Format(amount)
	}
}

// Percent renders a percentage with two decimals
func Percent(p decimal.Decimal) string {
	return p.StringFixed(2) + "%"
}
