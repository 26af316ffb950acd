package pgsql

import (
	"errors"
	"testing"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "serialization failure", err: &pgconn.PgError{Code: pgSerializationFailure}, want: apperrors.ErrConcurrentUpdate},
		{name: "deadlock", err: &pgconn.PgError{Code: pgDeadlockDetected}, want: apperrors.ErrConcurrentUpdate},
		{name: "invoice number taken", err: &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: constraintInvoiceNumber}, want: apperrors.ErrConcurrentUpdate},
		{name: "payment number taken", err: &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: constraintPaymentNumber}, want: apperrors.ErrConcurrentUpdate},
		{name: "second active conversion", err: &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: constraintActiveOrderInvoice}, want: apperrors.ErrConflict},
		{name: "duplicate sku", err: &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "uq_products_sku"}, want: apperrors.ErrDuplicate},
		{name: "missing reference", err: &pgconn.PgError{Code: pgForeignKeyViolation}, want: apperrors.ErrValidation},
		{name: "anything else", err: errors.New("connection reset"), want: apperrors.ErrInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateError(tt.err, "do thing")
			assert.ErrorIs(t, got, tt.want)
		})
	}
	assert.NoError(t, translateError(nil, "noop"))
}

func TestTranslateError_ActiveConversionIsNotDuplicate(t *testing.T) {
	err := translateError(&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: constraintActiveOrderInvoice}, "save invoice")
	assert.NotErrorIs(t, err, apperrors.ErrDuplicate)
}

func TestTranslateError_ConstraintMessagesHideDriverText(t *testing.T) {
	tests := []struct {
		name string
		err  *pgconn.PgError
		want string
	}{
		{
			name: "known foreign key",
			err: &pgconn.PgError{Code: pgForeignKeyViolation, ConstraintName: "payments_invoice_id_fkey",
				Message: `insert or update on table "payments" violates foreign key constraint "payments_invoice_id_fkey"`},
			want: "invoice does not exist",
		},
		{
			name: "unknown foreign key",
			err:  &pgconn.PgError{Code: pgForeignKeyViolation, ConstraintName: "something_fkey", Message: `table "secret_table"`},
			want: defaultReferenceMessage,
		},
		{
			name: "known check",
			err: &pgconn.PgError{Code: pgCheckViolation, ConstraintName: "invoices_balance_amount_check",
				Message: `new row for relation "invoices" violates check constraint "invoices_balance_amount_check"`},
			want: "invoice balance must not be negative",
		},
		{
			name: "unknown check",
			err:  &pgconn.PgError{Code: pgCheckViolation, ConstraintName: "other_check", Message: `relation "secret_table"`},
			want: defaultCheckMessage,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateError(tt.err, "save payment")
			assert.ErrorIs(t, got, apperrors.ErrValidation)
			assert.Contains(t, got.Error(), tt.want)
			assert.NotContains(t, got.Error(), tt.err.Message)
			assert.NotContains(t, got.Error(), tt.err.ConstraintName)
		})
	}
}

func TestNotFoundOr(t *testing.T) {
	assert.ErrorIs(t, notFoundOr(pgx.ErrNoRows, "invoice", "find invoice"), apperrors.ErrNotFound)
	assert.ErrorIs(t, notFoundOr(errors.New("boom"), "invoice", "find invoice"), apperrors.ErrInternal)
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "INV-2024-06-", likePrefix("INV-2024-06-%"))
	assert.Equal(t, "2024-", likePrefix("2024-"))
	assert.Nil(t, limitArg(0))
	assert.Equal(t, 20, limitArg(20))
	assert.Equal(t, "p.a, p.b, p.c", prefixed("p.", "a, b,\n\tc"))
}
