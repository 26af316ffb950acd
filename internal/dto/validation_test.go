package dto

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type amountHolder struct {
	Amount   decimal.Decimal  `validate:"decimal_gt0"`
	Discount decimal.Decimal  `validate:"decimal_gte0"`
	Minimum  *decimal.Decimal `validate:"omitempty,decimal_gte0"`
}

func TestDecimalValidators(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterValidators(v))

	neg := decimal.NewFromInt(-1)
	tests := []struct {
		name    string
		in      amountHolder
		wantErr bool
	}{
		{"positive amount, zero discount", amountHolder{Amount: decimal.NewFromInt(10), Discount: decimal.Zero}, false},
		{"zero amount", amountHolder{Amount: decimal.Zero}, true},
		{"negative discount", amountHolder{Amount: decimal.NewFromInt(1), Discount: neg}, true},
		{"negative optional minimum", amountHolder{Amount: decimal.NewFromInt(1), Minimum: &neg}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
