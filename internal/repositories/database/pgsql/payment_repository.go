package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

type paymentRepository struct {
	db querier
}

var _ portsrepo.PaymentRepositoryFacade = (*paymentRepository)(nil)

const paymentColumns = `payment_id, workplace_id, payment_number, invoice_id, payment_date, amount, method, reference, status, created_at, created_by, last_updated_at, last_updated_by`

func scanPayment(row pgx.Row) (domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(&p.PaymentID, &p.WorkplaceID, &p.PaymentNumber, &p.InvoiceID, &p.PaymentDate, &p.Amount,
		&p.Method, &p.Reference, &p.Status, &p.CreatedAt, &p.CreatedBy, &p.LastUpdatedAt, &p.LastUpdatedBy)
	return p, err
}

func (r *paymentRepository) FindPaymentByID(ctx context.Context, workplaceID, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE workplace_id = $1 AND payment_id = $2`
	p, err := scanPayment(r.db.QueryRow(ctx, query, workplaceID, paymentID))
	if err != nil {
		return nil, notFoundOr(err, "payment", "find payment")
	}
	return &p, nil
}

func (r *paymentRepository) ListPaymentsByInvoice(ctx context.Context, workplaceID, invoiceID string) ([]domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE workplace_id = $1 AND invoice_id = $2
		ORDER BY payment_date, created_at`
	rows, err := r.db.Query(ctx, query, workplaceID, invoiceID)
	if err != nil {
		return nil, translateError(err, "list payments")
	}
	payments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Payment, error) {
		return scanPayment(row)
	})
	if err != nil {
		return nil, translateError(err, "scan payments")
	}
	return payments, nil
}

func (r *paymentRepository) CountPaymentsByInvoice(ctx context.Context, workplaceID, invoiceID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM payments WHERE workplace_id = $1 AND invoice_id = $2`,
		workplaceID, invoiceID).Scan(&n)
	if err != nil {
		return 0, translateError(err, "count payments")
	}
	return n, nil
}

func (r *paymentRepository) PaymentNumberExists(ctx context.Context, workplaceID, paymentNumber string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM payments WHERE workplace_id = $1 AND payment_number = $2)`,
		workplaceID, paymentNumber).Scan(&exists)
	if err != nil {
		return false, translateError(err, "check payment number")
	}
	return exists, nil
}

func (r *paymentRepository) LatestPaymentNumber(ctx context.Context, workplaceID, pattern string) (string, bool, error) {
	var number string
	err := r.db.QueryRow(ctx, `
		SELECT payment_number FROM payments
		WHERE workplace_id = $1 AND starts_with(payment_number, $2)
		ORDER BY created_at DESC, payment_number DESC
		LIMIT 1`,
		workplaceID, likePrefix(pattern)).Scan(&number)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, translateError(err, "find latest payment number")
	}
	return number, true, nil
}

func (r *paymentRepository) SavePayment(ctx context.Context, p domain.Payment) error {
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.db.Exec(ctx, query, p.PaymentID, p.WorkplaceID, p.PaymentNumber, p.InvoiceID, p.PaymentDate, p.Amount,
		p.Method, p.Reference, p.Status, p.CreatedAt, p.CreatedBy, p.LastUpdatedAt, p.LastUpdatedBy)
	return translateError(err, "save payment")
}

func (r *paymentRepository) UpdatePaymentStatus(ctx context.Context, workplaceID, paymentID string, status domain.PaymentStatus, userID string, now time.Time) error {
	return execAffecting(ctx, r.db, "payment", "update payment status", `
		UPDATE payments SET status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE workplace_id = $1 AND payment_id = $2`,
		workplaceID, paymentID, status, now, userID)
}

// sequenceRepository keeps one counter row per (workplace, document type, year, month).
type sequenceRepository struct {
	db querier
}

var _ portsrepo.SequenceRepository = (*sequenceRepository)(nil)

func (r *sequenceRepository) SequenceExists(ctx context.Context, key domain.SequenceKey) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM document_sequences
			WHERE workplace_id = $1 AND document_type = $2 AND year = $3 AND month = $4
		)`, key.WorkplaceID, key.DocumentType, key.Year, key.Month).Scan(&exists)
	if err != nil {
		return false, translateError(err, "check sequence")
	}
	return exists, nil
}

func (r *sequenceRepository) SeedSequence(ctx context.Context, key domain.SequenceKey, lastValue int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO document_sequences (workplace_id, document_type, year, month, last_value)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (workplace_id, document_type, year, month) DO NOTHING`,
		key.WorkplaceID, key.DocumentType, key.Year, key.Month, lastValue)
	return translateError(err, "seed sequence")
}

// NextSequenceValue increments under the row lock taken by the upsert.
func (r *sequenceRepository) NextSequenceValue(ctx context.Context, key domain.SequenceKey) (int64, error) {
	var next int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO document_sequences (workplace_id, document_type, year, month, last_value)
		VALUES ($1, $2, $3, $4, 1)
		ON CONFLICT (workplace_id, document_type, year, month)
		DO UPDATE SET last_value = document_sequences.last_value + 1
		RETURNING last_value`,
		key.WorkplaceID, key.DocumentType, key.Year, key.Month).Scan(&next)
	if err != nil {
		return 0, translateError(err, "advance sequence")
	}
	return next, nil
}
