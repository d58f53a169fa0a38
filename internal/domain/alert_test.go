package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPriceAlert_Validate(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		alert   PriceAlert
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid above alert",
			alert:   PriceAlert{Symbol: "AAPL", TargetPrice: decimal.NewFromInt(200), Condition: AlertConditionAbove, IsActive: true},
			wantErr: false,
		},
		{
			name:    "valid triggered alert",
			alert:   PriceAlert{Symbol: "AAPL", TargetPrice: decimal.NewFromInt(200), Condition: AlertConditionBelow, TriggeredAt: &now},
			wantErr: false,
		},
		{
			name:    "empty symbol",
			alert:   PriceAlert{TargetPrice: decimal.NewFromInt(200), Condition: AlertConditionAbove},
			wantErr: true,
			errMsg:  "alert symbol cannot be empty",
		},
		{
			name:    "zero target",
			alert:   PriceAlert{Symbol: "AAPL", Condition: AlertConditionAbove},
			wantErr: true,
			errMsg:  "alert target price must be positive",
		},
		{
			name:    "unknown condition",
			alert:   PriceAlert{Symbol: "AAPL", TargetPrice: decimal.NewFromInt(1), Condition: "equals"},
			wantErr: true,
			errMsg:  "alert condition must be above or below",
		},
		{
			name:    "triggered but active",
			alert:   PriceAlert{Symbol: "AAPL", TargetPrice: decimal.NewFromInt(1), Condition: AlertConditionAbove, IsActive: true, TriggeredAt: &now},
			wantErr: true,
			errMsg:  "triggered alert cannot be active",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.alert.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.errMsg, err.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPriceAlert_Triggered(t *testing.T) {
	above := PriceAlert{TargetPrice: decimal.NewFromInt(100), Condition: AlertConditionAbove}
	below := PriceAlert{TargetPrice: decimal.NewFromInt(100), Condition: AlertConditionBelow}

	assert.True(t, above.Triggered(decimal.NewFromInt(100)))
	assert.True(t, above.Triggered(decimal.NewFromInt(101)))
	assert.False(t, above.Triggered(decimal.RequireFromString("99.99")))

	assert.True(t, below.Triggered(decimal.NewFromInt(100)))
	assert.True(t, below.Triggered(decimal.NewFromInt(50)))
	assert.False(t, below.Triggered(decimal.RequireFromString("100.01")))

	assert.False(t, (&PriceAlert{TargetPrice: decimal.NewFromInt(1)}).Triggered(decimal.NewFromInt(5)))
}
