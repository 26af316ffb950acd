package dto

import (
	"time"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PartnerLedgerParams selects the statement window.
type PartnerLedgerParams struct {
	From         *time.Time `form:"from" time_format:"2006-01-02" time_utc:"1"`
	To           *time.Time `form:"to" time_format:"2006-01-02" time_utc:"1"`
	CarryForward bool       `form:"carryForward"`
}

// StockReportParams filters and orders the stock report.
type StockReportParams struct {
	Search   string           `form:"search"`
	Category string           `form:"category"`
	Sort     domain.StockSort `form:"sort,default=name" binding:"oneof=name stock status"`
	Desc     bool             `form:"desc"`
}

// Query converts the parameters to the domain query.
func (p StockReportParams) Query() domain.StockQuery {
	return domain.StockQuery{Search: p.Search, Category: p.Category, Sort: p.Sort, Desc: p.Desc}
}

// FinancialSummaryParams selects the summary window.
type FinancialSummaryParams struct {
	Period domain.SummaryPeriod `form:"period,default=30d" binding:"oneof=7d 30d 90d 1y"`
}

// TrialBalanceParams selects the trial balance date.
type TrialBalanceParams struct {
	AsOf *time.Time `form:"asOf" time_format:"2006-01-02" time_utc:"1"`
}

// TrialBalanceRowResponse represents a row in the trial balance report response
type TrialBalanceRowResponse struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType string          `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}

// TrialBalanceResponse represents the trial balance report response
type TrialBalanceResponse struct {
	AsOf   string                    `json:"asOf"`
	Rows   []TrialBalanceRowResponse `json:"rows"`
	Totals struct {
		Debit  decimal.Decimal `json:"debit"`
		Credit decimal.Decimal `json:"credit"`
	} `json:"totals"`
}

// ToTrialBalanceResponse converts trial balance rows and sums both columns.
func ToTrialBalanceResponse(asOf time.Time, rows []domain.TrialBalanceRow) TrialBalanceResponse {
	res := TrialBalanceResponse{
		AsOf: asOf.Format("2006-01-02"),
		Rows: make([]TrialBalanceRowResponse, len(rows)),
	}
	res.Totals.Debit = decimal.Zero
	res.Totals.Credit = decimal.Zero
	for i, r := range rows {
		res.Rows[i] = TrialBalanceRowResponse{
			AccountID:   r.AccountID,
			AccountCode: r.AccountCode,
			AccountName: r.AccountName,
			AccountType: string(r.AccountType),
			Debit:       r.Debit,
			Credit:      r.Credit,
			Balance:     r.Balance,
		}
		res.Totals.Debit = res.Totals.Debit.Add(r.Debit)
		res.Totals.Credit = res.Totals.Credit.Add(r.Credit)
	}
	return res
}
