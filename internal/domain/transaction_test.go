package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewTransaction_ComputesTotal(t *testing.T) {
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	tx := NewTransaction(uuid.New(), "AAPL", "Apple Inc.", TransactionTypeBuy,
		decimal.NewFromInt(10), decimal.RequireFromString("150.25"), at)

	assert.NotEqual(t, uuid.Nil, tx.ID)
	assert.True(t, decimal.RequireFromString("1502.5").Equal(tx.TotalAmount))
	assert.Equal(t, at, tx.TransactionDate)
	assert.Equal(t, at, tx.CreatedAt)
	assert.NoError(t, tx.Validate())
}

func TestTransaction_Validate(t *testing.T) {
	portfolioID := uuid.New()

	tests := []struct {
		name    string
		tx      Transaction
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid buy",
			tx: Transaction{
				PortfolioID: portfolioID,
				Symbol:      "AAPL",
				Type:        TransactionTypeBuy,
				Quantity:    decimal.NewFromInt(10),
				Price:       decimal.NewFromInt(150),
				TotalAmount: decimal.NewFromInt(1500),
			},
			wantErr: false,
		},
		{
			name: "valid sell with realized gain",
			tx: Transaction{
				PortfolioID:      portfolioID,
				Symbol:           "AAPL",
				Type:             TransactionTypeSell,
				Quantity:         decimal.NewFromInt(5),
				Price:            decimal.NewFromInt(200),
				TotalAmount:      decimal.NewFromInt(1000),
				RealizedGainLoss: decimal.NewFromInt(250),
			},
			wantErr: false,
		},
		{
			name: "missing portfolio",
			tx: Transaction{
				Symbol:      "AAPL",
				Type:        TransactionTypeBuy,
				Quantity:    decimal.NewFromInt(1),
				Price:       decimal.NewFromInt(1),
				TotalAmount: decimal.NewFromInt(1),
			},
			wantErr: true,
			errMsg:  "transaction must belong to a portfolio",
		},
		{
			name: "empty symbol",
			tx: Transaction{
				PortfolioID: portfolioID,
				Type:        TransactionTypeBuy,
				Quantity:    decimal.NewFromInt(1),
				Price:       decimal.NewFromInt(1),
				TotalAmount: decimal.NewFromInt(1),
			},
			wantErr: true,
			errMsg:  "transaction symbol cannot be empty",
		},
		{
			name: "unknown type",
			tx: Transaction{
				PortfolioID: portfolioID,
				Symbol:      "AAPL",
				Type:        "transfer",
				Quantity:    decimal.NewFromInt(1),
				Price:       decimal.NewFromInt(1),
				TotalAmount: decimal.NewFromInt(1),
			},
			wantErr: true,
			errMsg:  "transaction type must be buy or sell",
		},
		{
			name: "zero quantity",
			tx: Transaction{
				PortfolioID: portfolioID,
				Symbol:      "AAPL",
				Type:        TransactionTypeBuy,
				Quantity:    decimal.Zero,
				Price:       decimal.NewFromInt(1),
				TotalAmount: decimal.Zero,
			},
			wantErr: true,
			errMsg:  "transaction quantity must be positive",
		},
		{
			name: "negative price",
			tx: Transaction{
				PortfolioID: portfolioID,
				Symbol:      "AAPL",
				Type:        TransactionTypeBuy,
				Quantity:    decimal.NewFromInt(1),
				Price:       decimal.NewFromInt(-1),
				TotalAmount: decimal.NewFromInt(-1),
			},
			wantErr: true,
			errMsg:  "transaction price must be positive",
		},
		{
			name: "total mismatch",
			tx: Transaction{
				PortfolioID: portfolioID,
				Symbol:      "AAPL",
				Type:        TransactionTypeBuy,
				Quantity:    decimal.NewFromInt(2),
				Price:       decimal.NewFromInt(10),
				TotalAmount: decimal.NewFromInt(21),
			},
			wantErr: true,
			errMsg:  "transaction total amount must equal quantity times price",
		},
		{
			name: "buy with realized gain",
			tx: Transaction{
				PortfolioID:      portfolioID,
				Symbol:           "AAPL",
				Type:             TransactionTypeBuy,
				Quantity:         decimal.NewFromInt(2),
				Price:            decimal.NewFromInt(10),
				TotalAmount:      decimal.NewFromInt(20),
				RealizedGainLoss: decimal.NewFromInt(5),
			},
			wantErr: true,
			errMsg:  "buy transactions cannot carry a realized gain or loss",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tx.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.errMsg, err.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
