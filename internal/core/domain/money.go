package domain

import "github.com/shopspring/decimal"

// CurrencyPlaces is the number of decimal places every monetary amount is rounded to.
const CurrencyPlaces int32 = 2

// RoundCurrency rounds half away from zero to CurrencyPlaces.
func RoundCurrency(d decimal.Decimal) decimal.Decimal {
	return d.Round(CurrencyPlaces)
}

// ComputeItemTotal returns quantity*unitPrice + tax - discount, rounded to currency precision.
func ComputeItemTotal(quantity, unitPrice, tax, discount decimal.Decimal) decimal.Decimal {
	return RoundCurrency(quantity.Mul(unitPrice).Add(tax).Sub(discount))
}

// MaxDecimal returns the larger of a and b.
func MaxDecimal(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}
