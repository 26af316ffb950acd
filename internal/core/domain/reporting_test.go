package domain_test

import (
	"testing"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestReorderPoint(t *testing.T) {
	assert.True(t, dec("5").Equal(domain.ReorderPoint(dec("10"), nil)))
	assert.True(t, dec("30").Equal(domain.ReorderPoint(dec("100"), nil)))
	assert.True(t, dec("5").Equal(domain.ReorderPoint(dec("-3"), nil)))

	configured := dec("12")
	assert.True(t, dec("12").Equal(domain.ReorderPoint(dec("100"), &configured)))
}

func TestClassifyStock(t *testing.T) {
	tests := []struct {
		stock   string
		reorder string
		want    domain.StockStatus
	}{
		{"-3", "5", domain.StockOutOfStock},
		{"0", "5", domain.StockOutOfStock},
		{"5", "5", domain.StockCritical},
		{"7.5", "5", domain.StockLow},
		{"7.6", "5", domain.StockGood},
	}
	for _, tt := range tests {
		t.Run(tt.stock, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ClassifyStock(dec(tt.stock), dec(tt.reorder)))
		})
	}
}

func TestNewStockLevel_ClampsNegativeStock(t *testing.T) {
	level := domain.NewStockLevel(domain.ProductMovement{
		Product:      domain.Product{ProductID: "p1", UnitPrice: dec("10")},
		PurchasedQty: decimal.Zero,
		SoldQty:      dec("3"),
	})

	assert.True(t, dec("-3").Equal(level.CurrentStock))
	assert.True(t, level.DisplayStock.IsZero())
	assert.Equal(t, domain.StockOutOfStock, level.Status)
	assert.True(t, level.StockValue.IsZero())
}

func TestNewMetric(t *testing.T) {
	m := domain.NewMetric(dec("150"), dec("100"))
	assert.True(t, dec("50").Equal(m.ChangePercent))

	m = domain.NewMetric(dec("150"), decimal.Zero)
	assert.True(t, m.ChangePercent.IsZero())

	m = domain.NewMetric(dec("0"), dec("300"))
	assert.True(t, dec("-100").Equal(m.ChangePercent))

	m = domain.NewMetric(dec("1"), dec("3"))
	assert.True(t, dec("-66.67").Equal(m.ChangePercent))
}

func TestPartnerLedgerEvent_Side(t *testing.T) {
	assert.Equal(t, domain.Debit, domain.PartnerLedgerEvent{Kind: domain.LedgerEventInvoice, InvoiceType: domain.InvoiceTypeSales}.Side())
	assert.Equal(t, domain.Credit, domain.PartnerLedgerEvent{Kind: domain.LedgerEventPayment, InvoiceType: domain.InvoiceTypeSales}.Side())
	assert.Equal(t, domain.Credit, domain.PartnerLedgerEvent{Kind: domain.LedgerEventInvoice, InvoiceType: domain.InvoiceTypePurchase}.Side())
	assert.Equal(t, domain.Debit, domain.PartnerLedgerEvent{Kind: domain.LedgerEventPayment, InvoiceType: domain.InvoiceTypePurchase}.Side())
}

func TestSummaryPeriod_Duration(t *testing.T) {
	_, err := domain.SummaryPeriod("2w").Duration()
	assert.Error(t, err)

	d, err := domain.Period1Year.Duration()
	assert.NoError(t, err)
	assert.Equal(t, 365*24, int(d.Hours()))
}
