package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func level(sku string, stock int64, status domain.StockStatus) domain.StockLevel {
	d := decimal.NewFromInt(stock)
	return domain.StockLevel{
		SKU:          sku,
		Name:         "Product " + sku,
		UnitPrice:    decimal.NewFromInt(10),
		PurchasedQty: d,
		SoldQty:      decimal.Zero,
		DisplayStock: d,
		ReorderPoint: decimal.NewFromInt(5),
		Status:       status,
		StockValue:   d.Mul(decimal.NewFromInt(10)),
	}
}

func TestWriteStockReport(t *testing.T) {
	low := level("B-1", 2, domain.StockCritical)
	report := domain.StockReport{
		Items:   []domain.StockLevel{level("A-1", 100, domain.StockGood), low},
		Summary: domain.StockSummary{TotalProducts: 2, CriticalCount: 1, GoodCount: 1, TotalStockValue: decimal.NewFromInt(1020)},
		Alerts:  []domain.StockLevel{low},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteStockReport(&buf, report))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{stockSheet, alertsSheet}, f.GetSheetList())

	rows, err := f.GetRows(stockSheet)
	require.NoError(t, err)
	assert.Equal(t, "SKU", rows[0][0])
	assert.Equal(t, "A-1", rows[1][0])
	assert.Equal(t, "100", rows[1][6])
	assert.Equal(t, "critical", rows[2][8])
	assert.Equal(t, "Total stock value", rows[len(rows)-1][0])
	assert.Equal(t, "1020", rows[len(rows)-1][1])

	alerts, err := f.GetRows(alertsSheet)
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, "B-1", alerts[1][0])
}

func TestWritePartnerLedger(t *testing.T) {
	ledger := domain.PartnerLedger{
		Contact:        domain.Contact{Name: "Acme Retail"},
		OpeningBalance: decimal.Zero,
		Entries: []domain.PartnerLedgerEntry{
			{Date: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), Kind: domain.LedgerEventInvoice, DocumentNumber: "INV-2024-06-01",
				Debit: decimal.NewFromInt(1000), Credit: decimal.Zero, RunningBalance: decimal.NewFromInt(1000)},
			{Date: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), Kind: domain.LedgerEventPayment, DocumentNumber: "2024-0001",
				Debit: decimal.Zero, Credit: decimal.NewFromInt(400), RunningBalance: decimal.NewFromInt(600)},
		},
		TotalDebit:     decimal.NewFromInt(1000),
		TotalCredit:    decimal.NewFromInt(400),
		ClosingBalance: decimal.NewFromInt(600),
	}

	var buf bytes.Buffer
	require.NoError(t, WritePartnerLedger(&buf, ledger))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(ledgerSheet)
	require.NoError(t, err)
	assert.Equal(t, "Acme Retail", rows[0][1])
	assert.Equal(t, "2024-06-01", rows[4][0])
	assert.Equal(t, "600", rows[5][5])
	last := rows[len(rows)-1]
	assert.Equal(t, "Closing balance", last[2])
	assert.Equal(t, "600", last[5])
}
