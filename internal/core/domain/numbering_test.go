package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDocumentNumber(t *testing.T) {
	june := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	invKey := domain.SequenceKeyFor("wp", domain.DocSalesInvoice, june)
	assert.Equal(t, 6, invKey.Month)
	assert.Equal(t, "INV-2024-06-01", domain.FormatDocumentNumber("INV", invKey, 1))
	assert.Equal(t, "INV-2024-06-100", domain.FormatDocumentNumber("INV", invKey, 100))

	payKey := domain.SequenceKeyFor("wp", domain.DocPayment, june)
	assert.Equal(t, 0, payKey.Month)
	assert.Equal(t, "2024-0001", domain.FormatDocumentNumber("", payKey, 1))
	assert.Equal(t, "PAY-2024-0012", domain.FormatDocumentNumber("PAY", payKey, 12))
}

func TestSequenceKey_NumberPattern(t *testing.T) {
	june := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "BILL-2024-06-%", domain.SequenceKeyFor("wp", domain.DocPurchaseInvoice, june).NumberPattern("BILL"))
	assert.Equal(t, "2024-%", domain.SequenceKeyFor("wp", domain.DocPayment, june).NumberPattern(""))
}

func TestFormatOrderNumber(t *testing.T) {
	at := time.UnixMilli(1718409600123).UTC()
	assert.Equal(t, "SO-1718409600123", domain.FormatOrderNumber("SO", at))
}

func TestParseTrailingSequence(t *testing.T) {
	seq, err := domain.ParseTrailingSequence("INV-2024-06-07")
	require.NoError(t, err)
	assert.Equal(t, int64(7), seq)

	seq, err = domain.ParseTrailingSequence("2024-0042")
	require.NoError(t, err)
	assert.Equal(t, int64(42), seq)

	for _, bad := range []string{"INV-2024-06-", "INV2024", "INV-2024-06-7a", ""} {
		_, err := domain.ParseTrailingSequence(bad)
		assert.Error(t, err, bad)
	}
}
