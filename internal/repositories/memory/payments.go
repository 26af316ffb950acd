package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
)

func (r *repos) FindPaymentByID(ctx context.Context, workplaceID, paymentID string) (*domain.Payment, error) {
	st, done := r.acquire()
	defer done()
	p, ok := st.payments[paymentID]
	if !ok || p.WorkplaceID != workplaceID {
		return nil, apperrors.NewNotFoundError("payment " + paymentID)
	}
	return &p, nil
}

func (st *state) paymentsOf(workplaceID, invoiceID string) []domain.Payment {
	out := []domain.Payment{}
	for _, p := range st.payments {
		if p.WorkplaceID == workplaceID && p.InvoiceID == invoiceID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PaymentDate.Equal(out[j].PaymentDate) {
			return out[i].PaymentDate.Before(out[j].PaymentDate)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (r *repos) ListPaymentsByInvoice(ctx context.Context, workplaceID, invoiceID string) ([]domain.Payment, error) {
	st, done := r.acquire()
	defer done()
	return st.paymentsOf(workplaceID, invoiceID), nil
}

func (r *repos) CountPaymentsByInvoice(ctx context.Context, workplaceID, invoiceID string) (int, error) {
	st, done := r.acquire()
	defer done()
	return len(st.paymentsOf(workplaceID, invoiceID)), nil
}

func (r *repos) PaymentNumberExists(ctx context.Context, workplaceID, paymentNumber string) (bool, error) {
	st, done := r.acquire()
	defer done()
	for _, p := range st.payments {
		if p.WorkplaceID == workplaceID && p.PaymentNumber == paymentNumber {
			return true, nil
		}
	}
	return false, nil
}

func (r *repos) LatestPaymentNumber(ctx context.Context, workplaceID, pattern string) (string, bool, error) {
	st, done := r.acquire()
	defer done()
	prefix := likePrefix(pattern)
	var latest *domain.Payment
	for _, p := range st.payments {
		if p.WorkplaceID != workplaceID || !strings.HasPrefix(p.PaymentNumber, prefix) {
			continue
		}
		if latest == nil || p.CreatedAt.After(latest.CreatedAt) ||
			(p.CreatedAt.Equal(latest.CreatedAt) && p.PaymentNumber > latest.PaymentNumber) {
			candidate := p
			latest = &candidate
		}
	}
	if latest == nil {
		return "", false, nil
	}
	return latest.PaymentNumber, true, nil
}

func (r *repos) SavePayment(ctx context.Context, payment domain.Payment) error {
	st, done := r.acquire()
	defer done()
	for _, p := range st.payments {
		if p.WorkplaceID == payment.WorkplaceID && p.PaymentNumber == payment.PaymentNumber && p.PaymentID != payment.PaymentID {
			return fmt.Errorf("%w: payment number %s is taken", apperrors.ErrConcurrentUpdate, payment.PaymentNumber)
		}
	}
	st.payments[payment.PaymentID] = payment
	return nil
}

func (r *repos) UpdatePaymentStatus(ctx context.Context, workplaceID, paymentID string, status domain.PaymentStatus, userID string, now time.Time) error {
	st, done := r.acquire()
	defer done()
	p, ok := st.payments[paymentID]
	if !ok || p.WorkplaceID != workplaceID {
		return apperrors.NewNotFoundError("payment " + paymentID)
	}
	p.Status = status
	p.Touch(userID, now)
	st.payments[paymentID] = p
	return nil
}

func (r *repos) SequenceExists(ctx context.Context, key domain.SequenceKey) (bool, error) {
	st, done := r.acquire()
	defer done()
	_, ok := st.sequences[key]
	return ok, nil
}

func (r *repos) SeedSequence(ctx context.Context, key domain.SequenceKey, lastValue int64) error {
	st, done := r.acquire()
	defer done()
	if _, ok := st.sequences[key]; !ok {
		st.sequences[key] = lastValue
	}
	return nil
}

func (r *repos) NextSequenceValue(ctx context.Context, key domain.SequenceKey) (int64, error) {
	st, done := r.acquire()
	defer done()
	st.sequences[key]++
	return st.sequences[key], nil
}
