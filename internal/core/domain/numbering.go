package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DocumentType identifies an independent numbering sequence.
type DocumentType string

const (
	DocSalesInvoice    DocumentType = "SALES_INVOICE"
	DocPurchaseInvoice DocumentType = "PURCHASE_INVOICE"
	DocPayment         DocumentType = "PAYMENT"
	DocSalesOrder      DocumentType = "SALES_ORDER"
	DocPurchaseOrder   DocumentType = "PURCHASE_ORDER"
)

// IsMonthly reports whether the sequence restarts every calendar month (otherwise yearly).
func (d DocumentType) IsMonthly() bool {
	return d == DocSalesInvoice || d == DocPurchaseInvoice
}

// SequenceKey addresses one counter row. Month is 0 for yearly sequences.
type SequenceKey struct {
	WorkplaceID  string
	DocumentType DocumentType
	Year         int
	Month        int
}

// SequenceKeyFor derives the counter key for a document dated at date.
func SequenceKeyFor(workplaceID string, docType DocumentType, date time.Time) SequenceKey {
	key := SequenceKey{WorkplaceID: workplaceID, DocumentType: docType, Year: date.Year()}
	if docType.IsMonthly() {
		key.Month = int(date.Month())
	}
	return key
}

// NumberPattern returns the SQL LIKE prefix shared by every number in this period.
func (k SequenceKey) NumberPattern(prefix string) string {
	var head string
	switch {
	case k.DocumentType.IsMonthly():
		head = fmt.Sprintf("%s-%04d-%02d-", prefix, k.Year, k.Month)
	case prefix == "":
		head = fmt.Sprintf("%04d-", k.Year)
	default:
		head = fmt.Sprintf("%s-%04d-", prefix, k.Year)
	}
	return head + "%"
}

func (k SequenceKey) format(prefix string, seq int64) string {
	if k.DocumentType.IsMonthly() {
		return fmt.Sprintf("%s-%04d-%02d-%02d", prefix, k.Year, k.Month, seq)
	}
	if prefix == "" {
		return fmt.Sprintf("%04d-%04d", k.Year, seq)
	}
	return fmt.Sprintf("%s-%04d-%04d", prefix, k.Year, seq)
}

// FormatDocumentNumber renders seq within the key's period. Invoice numbers look like
// INV-2024-06-01, payment numbers like 2024-0001. Wider values are printed in full.
func FormatDocumentNumber(prefix string, key SequenceKey, seq int64) string {
	return key.format(prefix, seq)
}

// FormatOrderNumber renders the timestamp-based order number.
func FormatOrderNumber(prefix string, at time.Time) string {
	return fmt.Sprintf("%s-%d", prefix, at.UnixMilli())
}

// ParseTrailingSequence extracts the numeric segment after the last '-'.
func ParseTrailingSequence(number string) (int64, error) {
	idx := strings.LastIndex(number, "-")
	if idx < 0 || idx == len(number)-1 {
		return 0, fmt.Errorf("document number %q has no trailing sequence", number)
	}
	seq, err := strconv.ParseInt(number[idx+1:], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("document number %q has a non-numeric sequence: %w", number, err)
	}
	if seq < 0 {
		return 0, fmt.Errorf("document number %q has a negative sequence", number)
	}
	return seq, nil
}
