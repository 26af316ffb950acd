// Package export renders reports as Excel workbooks.
package export

import (
	"fmt"
	"io"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/xuri/excelize/v2"
)

// ContentTypeXLSX is the MIME type of the workbooks written here.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	stockSheet  = "Stock"
	alertsSheet = "Alerts"
	ledgerSheet = "Ledger"
)

var stockHeadings = []any{"SKU", "Name", "Category", "Unit Price", "Purchased", "Sold", "Current Stock", "Reorder Point", "Status", "Stock Value"}

// sheetWriter appends rows to one sheet, remembering the first error.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
	err   error
}

func (w *sheetWriter) append(values ...any) {
	if w.err != nil {
		return
	}
	w.row++
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetSheetRow(w.sheet, cell, &values)
}

func newWorkbook(first string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", first); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func stockRow(s domain.StockLevel) []any {
	return []any{
		s.SKU, s.Name, s.Category,
		s.UnitPrice.InexactFloat64(),
		s.PurchasedQty.InexactFloat64(),
		s.SoldQty.InexactFloat64(),
		s.DisplayStock.InexactFloat64(),
		s.ReorderPoint.InexactFloat64(),
		string(s.Status),
		s.StockValue.InexactFloat64(),
	}
}

// WriteStockReport writes the stock rows and a summary to one sheet and the
// alert rows to a second.
func WriteStockReport(out io.Writer, report domain.StockReport) error {
	f, err := newWorkbook(stockSheet)
	if err != nil {
		return fmt.Errorf("create workbook: %w", err)
	}
	defer f.Close()

	stock := &sheetWriter{f: f, sheet: stockSheet}
	stock.append(stockHeadings...)
	for _, s := range report.Items {
		stock.append(stockRow(s)...)
	}
	stock.append()
	stock.append("Total products", report.Summary.TotalProducts)
	stock.append("Out of stock", report.Summary.OutOfStockCount)
	stock.append("Critical", report.Summary.CriticalCount)
	stock.append("Low", report.Summary.LowCount)
	stock.append("Good", report.Summary.GoodCount)
	stock.append("Total stock value", report.Summary.TotalStockValue.InexactFloat64())
	if stock.err != nil {
		return fmt.Errorf("write stock sheet: %w", stock.err)
	}

	if _, err := f.NewSheet(alertsSheet); err != nil {
		return fmt.Errorf("create alerts sheet: %w", err)
	}
	alerts := &sheetWriter{f: f, sheet: alertsSheet}
	alerts.append(stockHeadings...)
	for _, s := range report.Alerts {
		alerts.append(stockRow(s)...)
	}
	if alerts.err != nil {
		return fmt.Errorf("write alerts sheet: %w", alerts.err)
	}

	return f.Write(out)
}

// WritePartnerLedger writes a partner statement with opening and closing lines.
func WritePartnerLedger(out io.Writer, ledger domain.PartnerLedger) error {
	f, err := newWorkbook(ledgerSheet)
	if err != nil {
		return fmt.Errorf("create workbook: %w", err)
	}
	defer f.Close()

	w := &sheetWriter{f: f, sheet: ledgerSheet}
	w.append("Contact", ledger.Contact.Name)
	w.append()
	w.append("Date", "Type", "Document", "Debit", "Credit", "Balance")
	w.append("", "", "Opening balance", nil, nil, ledger.OpeningBalance.InexactFloat64())
	for _, e := range ledger.Entries {
		w.append(e.Date.Format("2006-01-02"), string(e.Kind), e.DocumentNumber,
			e.Debit.InexactFloat64(), e.Credit.InexactFloat64(), e.RunningBalance.InexactFloat64())
	}
	w.append("", "", "Closing balance", ledger.TotalDebit.InexactFloat64(), ledger.TotalCredit.InexactFloat64(),
		ledger.ClosingBalance.InexactFloat64())
	if w.err != nil {
		return fmt.Errorf("write ledger sheet: %w", w.err)
	}
	return f.Write(out)
}
