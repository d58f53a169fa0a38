package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the direction of a trade
type TransactionType string

const (
	TransactionTypeBuy  TransactionType = "buy"
	TransactionTypeSell TransactionType = "sell"
)

// Transaction is an immutable record of a buy or sell against a portfolio
type Transaction struct {
	ID               uuid.UUID
	PortfolioID      uuid.UUID
	Symbol           string
	CompanyName      string
	Type             TransactionType
	Quantity         decimal.Decimal
	Price            decimal.Decimal
	TotalAmount      decimal.Decimal // Quantity * Price
	RealizedGainLoss decimal.Decimal // only meaningful for sells
	TransactionDate  time.Time
	CreatedAt        time.Time
}

// NewTransaction builds a trade record with the total amount filled in
func NewTransaction(portfolioID uuid.UUID, symbol, companyName string, txType TransactionType, quantity, price decimal.Decimal, at time.Time) *Transaction {
	return &Transaction{
		ID:              uuid.New(),
		PortfolioID:     portfolioID,
		Symbol:          symbol,
		CompanyName:     companyName,
		Type:            txType,
		Quantity:        quantity,
		Price:           price,
		TotalAmount:     quantity.Mul(price),
		TransactionDate: at,
		CreatedAt:       at,
	}
}

// Validate ensures the transaction adheres to domain rules
// Returns an error if validation fails
func (t *Transaction) Validate() error {
	if t.PortfolioID == uuid.Nil {
		return errors.New("transaction must belong to a portfolio")
	}

	if t.Symbol == "" {
		return errors.New("transaction symbol cannot be empty")
	}

	if t.Type != TransactionTypeBuy && t.Type != TransactionTypeSell {
		return errors.New("transaction type must be buy or sell")
	}

	if t.Quantity.LessThanOrEqual(decimal.Zero) {
		return errors.New("transaction quantity must be positive")
	}

	if t.Price.LessThanOrEqual(decimal.Zero) {
		return errors.New("transaction price must be positive")
	}

	// TotalAmount is derived from quantity and price
	if !t.TotalAmount.Equal(t.Quantity.Mul(t.Price)) {
		return errors.New("transaction total amount must equal quantity times price")
	}

	if t.Type == TransactionTypeBuy && !t.RealizedGainLoss.IsZero() {
		return errors.New("buy transactions cannot carry a realized gain or loss")
	}

	return nil
}
