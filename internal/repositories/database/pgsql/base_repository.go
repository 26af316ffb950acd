package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx, so every
// repository runs unchanged inside or outside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Unique constraints whose violation carries domain meaning.
const (
	constraintInvoiceNumber      = "uq_invoices_number"
	constraintPaymentNumber      = "uq_payments_number"
	constraintActiveOrderInvoice = "uq_invoices_active_order"
)

// referenceMessages names the missing record for each foreign key.
var referenceMessages = map[string]string{
	"orders_contact_id_fkey":                     "contact does not exist",
	"invoices_contact_id_fkey":                   "contact does not exist",
	"invoices_order_id_fkey":                     "order does not exist",
	"order_items_product_id_fkey":                "product does not exist",
	"payments_invoice_id_fkey":                   "invoice does not exist",
	"accounts_parent_account_id_fkey":            "parent account does not exist",
	"ledger_transactions_debit_account_id_fkey":  "debit account does not exist",
	"ledger_transactions_credit_account_id_fkey": "credit account does not exist",
}

// checkMessages describes the rule behind each CHECK constraint.
var checkMessages = map[string]string{
	"products_unit_price_check":         "unitPrice must not be negative",
	"products_min_stock_level_check":    "minStockLevel must not be negative",
	"invoices_balance_amount_check":     "invoice balance must not be negative",
	"order_items_quantity_check":        "quantity must not be negative",
	"order_items_unit_price_check":      "unitPrice must not be negative",
	"order_items_tax_amount_check":      "taxAmount must not be negative",
	"order_items_discount_amount_check": "discountAmount must not be negative",
	"payments_amount_check":             "amount must be positive",
	"ledger_transactions_amount_check":  "amount must be positive",
	"ledger_transactions_check":         "debit and credit accounts must differ",
}

const (
	defaultReferenceMessage = "referenced record does not exist"
	defaultCheckMessage     = "a value is outside its allowed range"
)

// constraintMessage returns the client-safe description of a violated constraint.
// Driver text is never exposed since it can quote column values.
func constraintMessage(pgErr *pgconn.PgError) string {
	messages, fallback := checkMessages, defaultCheckMessage
	if pgErr.Code == pgForeignKeyViolation {
		messages, fallback = referenceMessages, defaultReferenceMessage
	}
	if msg, ok := messages[pgErr.ConstraintName]; ok {
		return msg
	}
	return fallback
}

const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgCheckViolation       = "23514"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// translateError maps driver errors onto application error kinds.
func translateError(err error, action string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected:
			return fmt.Errorf("%w: %s", apperrors.ErrConcurrentUpdate, action)
		case pgUniqueViolation:
			switch pgErr.ConstraintName {
			case constraintInvoiceNumber, constraintPaymentNumber:
				return fmt.Errorf("%w: %s: document number taken", apperrors.ErrConcurrentUpdate, action)
			case constraintActiveOrderInvoice:
				return fmt.Errorf("%w: %s: order already has an active invoice", apperrors.ErrConflict, action)
			}
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicate, action)
		case pgForeignKeyViolation, pgCheckViolation:
			return fmt.Errorf("%w: %s: %s", apperrors.ErrValidation, action, constraintMessage(pgErr))
		}
	}
	return apperrors.NewAppError(500, "failed to "+action, err)
}

// notFoundOr reports pgx.ErrNoRows as a not-found error for entity.
func notFoundOr(err error, entity, action string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFoundError(entity)
	}
	return translateError(err, action)
}

// execAffecting runs a statement that must touch exactly one row.
func execAffecting(ctx context.Context, db querier, entity, action, sql string, args ...any) error {
	tag, err := db.Exec(ctx, sql, args...)
	if err != nil {
		return translateError(err, action)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(entity)
	}
	return nil
}

// likePrefix returns pattern without its trailing wildcard.
func likePrefix(pattern string) string {
	if n := len(pattern); n > 0 && pattern[n-1] == '%' {
		return pattern[:n-1]
	}
	return pattern
}

// limitArg turns a non-positive limit into NULL, which LIMIT treats as unbounded.
func limitArg(limit int) any {
	if limit <= 0 {
		return nil
	}
	return limit
}

// prefixed qualifies every column in a comma separated list with a table alias.
func prefixed(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, c := range parts {
		parts[i] = alias + strings.TrimSpace(c)
	}
	return strings.Join(parts, ", ")
}
