package accounting

import (
	"fmt"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CalculateSignedAmount applies the correct sign to a posted amount based on account type and side.
// This is used in both services and repositories to ensure consistent accounting logic.
func CalculateSignedAmount(amount decimal.Decimal, side domain.TransactionType, accountType domain.AccountType) (decimal.Decimal, error) {
	signedAmount := amount
	isDebit := side == domain.Debit

	// Determine sign based on accounting convention
	// DEBIT to ASSET/EXPENSE -> Positive (+)
	// CREDIT to ASSET/EXPENSE -> Negative (-)
	// DEBIT to LIABILITY/EQUITY/REVENUE -> Negative (-)
	// CREDIT to LIABILITY/EQUITY/REVENUE -> Positive (+)
	switch accountType {
	case domain.Asset, domain.Expense:
		if !isDebit { // Credit to Asset/Expense
			signedAmount = signedAmount.Neg()
		}
	case domain.Liability, domain.Equity, domain.Revenue:
		if isDebit { // Debit to Liability/Equity/Revenue
			signedAmount = signedAmount.Neg()
		}
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s'", accountType)
	}
	return signedAmount, nil
}

// SignedBalance nets total debits and credits of one account by its type.
func SignedBalance(debit, credit decimal.Decimal, accountType domain.AccountType) (decimal.Decimal, error) {
	d, err := CalculateSignedAmount(debit, domain.Debit, accountType)
	if err != nil {
		return decimal.Zero, err
	}
	c, err := CalculateSignedAmount(credit, domain.Credit, accountType)
	if err != nil {
		return decimal.Zero, err
	}
	return d.Add(c), nil
}
