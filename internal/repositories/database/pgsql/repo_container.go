package pgsql

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/bizledger/internal/apperrors"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// repoSet binds every repository to one querier.
type repoSet struct {
	contacts  *contactRepository
	products  *productRepository
	orders    *orderRepository
	items     *orderItemRepository
	invoices  *invoiceRepository
	payments  *paymentRepository
	sequences *sequenceRepository
	accounts  *accountRepository
	ledger    *ledgerRepository
	reporting *reportingRepository
}

func newRepoSet(db querier) *repoSet {
	items := &orderItemRepository{db: db}
	return &repoSet{
		contacts:  &contactRepository{db: db},
		products:  &productRepository{db: db},
		orders:    &orderRepository{db: db},
		items:     items,
		invoices:  &invoiceRepository{db: db, items: items},
		payments:  &paymentRepository{db: db},
		sequences: &sequenceRepository{db: db},
		accounts:  &accountRepository{db: db},
		ledger:    &ledgerRepository{db: db},
		reporting: &reportingRepository{db: db},
	}
}

func (s *repoSet) Contacts() portsrepo.ContactRepositoryFacade     { return s.contacts }
func (s *repoSet) Products() portsrepo.ProductRepositoryFacade     { return s.products }
func (s *repoSet) Orders() portsrepo.OrderRepositoryFacade         { return s.orders }
func (s *repoSet) OrderItems() portsrepo.OrderItemRepositoryFacade { return s.items }
func (s *repoSet) Invoices() portsrepo.InvoiceRepositoryFacade     { return s.invoices }
func (s *repoSet) Payments() portsrepo.PaymentRepositoryFacade     { return s.payments }
func (s *repoSet) Sequences() portsrepo.SequenceRepository         { return s.sequences }
func (s *repoSet) Accounts() portsrepo.AccountRepositoryFacade     { return s.accounts }
func (s *repoSet) LedgerTransactions() portsrepo.LedgerTransactionRepositoryFacade {
	return s.ledger
}
func (s *repoSet) Reporting() portsrepo.ReportingRepository { return s.reporting }

// Store is the PostgreSQL implementation of portsrepo.Store.
type Store struct {
	pool *pgxpool.Pool
	*repoSet
}

var _ portsrepo.Store = (*Store)(nil)

// NewStore wires all repositories to the pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, repoSet: newRepoSet(pool)}
}

// WithinTx runs fn in a SERIALIZABLE transaction. Serialization failures surface as
// apperrors.ErrConcurrentUpdate so the service layer can retry the unit of work.
func (s *Store) WithinTx(ctx context.Context, fn portsrepo.TxFunc) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	defer func() {
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			slog.WarnContext(ctx, "Failed to rollback transaction", "error", rbErr)
		}
	}()

	if err := fn(ctx, newRepoSet(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return translateError(err, "commit transaction")
	}
	return nil
}
