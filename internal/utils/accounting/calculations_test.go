package accounting

import (
	"testing"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateSignedAmount(t *testing.T) {
	hundred := decimal.NewFromInt(100)
	tests := []struct {
		name        string
		side        domain.TransactionType
		accountType domain.AccountType
		want        decimal.Decimal
	}{
		{"debit asset", domain.Debit, domain.Asset, hundred},
		{"credit asset", domain.Credit, domain.Asset, hundred.Neg()},
		{"debit expense", domain.Debit, domain.Expense, hundred},
		{"debit revenue", domain.Debit, domain.Revenue, hundred.Neg()},
		{"credit liability", domain.Credit, domain.Liability, hundred},
		{"credit equity", domain.Credit, domain.Equity, hundred},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateSignedAmount(hundred, tt.side, tt.accountType)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
		})
	}

	_, err := CalculateSignedAmount(hundred, domain.Debit, domain.AccountType("INCOME"))
	assert.Error(t, err)
}

func TestSignedBalance(t *testing.T) {
	debit := decimal.NewFromInt(500)
	credit := decimal.NewFromInt(200)

	bal, err := SignedBalance(debit, credit, domain.Asset)
	require.NoError(t, err)
	assert.Equal(t, "300", bal.String())

	bal, err = SignedBalance(debit, credit, domain.Revenue)
	require.NoError(t, err)
	assert.Equal(t, "-300", bal.String())
}
