package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceRow represents a single row in a trial balance report
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}

// LedgerEventKind says whether a partner ledger line came from an invoice or a payment.
type LedgerEventKind string

const (
	LedgerEventInvoice LedgerEventKind = "INVOICE"
	LedgerEventPayment LedgerEventKind = "PAYMENT"
)

// PartnerLedgerEvent is one invoice or payment affecting a partner, before balances are run.
type PartnerLedgerEvent struct {
	Kind        LedgerEventKind
	DocumentID  string
	Number      string
	Date        time.Time
	InvoiceType InvoiceType // for payments, the type of the invoice paid
	Amount      decimal.Decimal
	CreatedAt   time.Time
}

// Side returns the ledger side of the event. SALES invoices are debits and PURCHASE
// invoices credits; a payment sits on the opposite side of its invoice.
func (e PartnerLedgerEvent) Side() TransactionType {
	invoiceSide := Debit
	if e.InvoiceType == InvoiceTypePurchase {
		invoiceSide = Credit
	}
	if e.Kind == LedgerEventInvoice {
		return invoiceSide
	}
	if invoiceSide == Debit {
		return Credit
	}
	return Debit
}

// PartnerLedgerEntry is a ledger line with its running balance.
type PartnerLedgerEntry struct {
	Date           time.Time       `json:"date"`
	Kind           LedgerEventKind `json:"kind"`
	DocumentID     string          `json:"documentID"`
	DocumentNumber string          `json:"documentNumber"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// PartnerLedger is the chronological statement of one contact.
type PartnerLedger struct {
	Contact        Contact              `json:"contact"`
	From           *time.Time           `json:"from,omitempty"`
	To             *time.Time           `json:"to,omitempty"`
	OpeningBalance decimal.Decimal      `json:"openingBalance"`
	Entries        []PartnerLedgerEntry `json:"entries"`
	TotalDebit     decimal.Decimal      `json:"totalDebit"`
	TotalCredit    decimal.Decimal      `json:"totalCredit"`
	ClosingBalance decimal.Decimal      `json:"closingBalance"`
}

// StockStatus classifies a product's stock level.
type StockStatus string

const (
	StockOutOfStock StockStatus = "out_of_stock"
	StockCritical   StockStatus = "critical"
	StockLow        StockStatus = "low"
	StockGood       StockStatus = "good"
)

var (
	minReorderPoint  = decimal.NewFromInt(5)
	reorderFraction  = decimal.NewFromFloat(0.3)
	lowStockMultiple = decimal.NewFromFloat(1.5)
)

// ReorderPoint returns the configured minimum when present, otherwise
// max(5, floor(0.3 * currentStock)).
func ReorderPoint(currentStock decimal.Decimal, configured *decimal.Decimal) decimal.Decimal {
	if configured != nil {
		return *configured
	}
	return MaxDecimal(minReorderPoint, currentStock.Mul(reorderFraction).Floor())
}

// ClassifyStock maps a stock level to its status given the reorder point.
func ClassifyStock(currentStock, reorderPoint decimal.Decimal) StockStatus {
	switch {
	case currentStock.LessThanOrEqual(decimal.Zero):
		return StockOutOfStock
	case currentStock.LessThanOrEqual(reorderPoint):
		return StockCritical
	case currentStock.LessThanOrEqual(reorderPoint.Mul(lowStockMultiple)):
		return StockLow
	default:
		return StockGood
	}
}

// ProductMovement is the raw purchased and sold quantity for a product.
type ProductMovement struct {
	Product      Product
	PurchasedQty decimal.Decimal
	SoldQty      decimal.Decimal
}

// StockLevel is one row of the stock report.
type StockLevel struct {
	ProductID    string          `json:"productID"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	PurchasedQty decimal.Decimal `json:"purchasedQty"`
	SoldQty      decimal.Decimal `json:"soldQty"`
	CurrentStock decimal.Decimal `json:"currentStock"` // may be negative
	DisplayStock decimal.Decimal `json:"displayStock"` // clamped at zero
	ReorderPoint decimal.Decimal `json:"reorderPoint"`
	Status       StockStatus     `json:"status"`
	StockValue   decimal.Decimal `json:"stockValue"`
}

// NewStockLevel derives a stock row from the product's movements.
func NewStockLevel(m ProductMovement) StockLevel {
	current := m.PurchasedQty.Sub(m.SoldQty)
	display := MaxDecimal(decimal.Zero, current)
	reorder := ReorderPoint(current, m.Product.MinStockLevel)
	return StockLevel{
		ProductID:    m.Product.ProductID,
		SKU:          m.Product.SKU,
		Name:         m.Product.Name,
		Category:     m.Product.Category,
		UnitPrice:    m.Product.UnitPrice,
		PurchasedQty: m.PurchasedQty,
		SoldQty:      m.SoldQty,
		CurrentStock: current,
		DisplayStock: display,
		ReorderPoint: reorder,
		Status:       ClassifyStock(current, reorder),
		StockValue:   RoundCurrency(display.Mul(m.Product.UnitPrice)),
	}
}

// StockSummary aggregates the stock report.
type StockSummary struct {
	TotalProducts   int             `json:"totalProducts"`
	OutOfStockCount int             `json:"outOfStockCount"`
	CriticalCount   int             `json:"criticalCount"`
	LowCount        int             `json:"lowCount"`
	GoodCount       int             `json:"goodCount"`
	TotalStockValue decimal.Decimal `json:"totalStockValue"`
}

// StockReport lists stock levels with a summary and the rows needing attention.
type StockReport struct {
	Items   []StockLevel `json:"items"`
	Summary StockSummary `json:"summary"`
	Alerts  []StockLevel `json:"alerts"`
}

// StockSort selects the stock report ordering.
type StockSort string

const (
	StockSortName   StockSort = "name"
	StockSortStock  StockSort = "stock"
	StockSortStatus StockSort = "status"
)

// StockQuery filters and orders the stock report.
type StockQuery struct {
	Search   string
	Category string
	Sort     StockSort
	Desc     bool
}

// SummaryPeriod is the window of a financial summary.
type SummaryPeriod string

const (
	Period7Days  SummaryPeriod = "7d"
	Period30Days SummaryPeriod = "30d"
	Period90Days SummaryPeriod = "90d"
	Period1Year  SummaryPeriod = "1y"
)

// Duration returns the window length of the period.
func (p SummaryPeriod) Duration() (time.Duration, error) {
	day := 24 * time.Hour
	switch p {
	case Period7Days:
		return 7 * day, nil
	case Period30Days:
		return 30 * day, nil
	case Period90Days:
		return 90 * day, nil
	case Period1Year:
		return 365 * day, nil
	}
	return 0, fmt.Errorf("unknown summary period %q", p)
}

// PeriodTotals holds invoice totals for one window.
type PeriodTotals struct {
	Revenue       decimal.Decimal
	Expenses      decimal.Decimal
	SalesCount    int
	PurchaseCount int
}

// Metric is a value with its change against the previous period.
type Metric struct {
	Current       decimal.Decimal `json:"current"`
	Previous      decimal.Decimal `json:"previous"`
	ChangePercent decimal.Decimal `json:"changePercent"`
}

var hundred = decimal.NewFromInt(100)

// NewMetric computes (current-previous)/previous*100, defined as 0 when previous is 0.
func NewMetric(current, previous decimal.Decimal) Metric {
	change := decimal.Zero
	if !previous.IsZero() {
		change = current.Sub(previous).Div(previous).Mul(hundred).Round(CurrencyPlaces)
	}
	return Metric{Current: current, Previous: previous, ChangePercent: change}
}

// FinancialSummary compares revenue, expenses and profit across two equal windows.
type FinancialSummary struct {
	Period                SummaryPeriod   `json:"period"`
	From                  time.Time       `json:"from"`
	To                    time.Time       `json:"to"`
	Revenue               Metric          `json:"revenue"`
	Expenses              Metric          `json:"expenses"`
	NetProfit             Metric          `json:"netProfit"`
	SalesInvoiceCount     int             `json:"salesInvoiceCount"`
	PurchaseBillCount     int             `json:"purchaseBillCount"`
	OutstandingReceivable decimal.Decimal `json:"outstandingReceivable"`
	OutstandingPayable    decimal.Decimal `json:"outstandingPayable"`
}
