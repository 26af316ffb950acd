// Package memory is a process-local Store used by tests and by the memory store driver.
// Units of work are serialized and applied to a copy of the data, so a failing unit
// leaves nothing behind.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
)

type state struct {
	contacts  map[string]domain.Contact
	products  map[string]domain.Product
	orders    map[string]domain.Order
	items     map[string]domain.OrderItem
	invoices  map[string]domain.Invoice
	payments  map[string]domain.Payment
	sequences map[domain.SequenceKey]int64
	accounts  map[string]domain.Account
	postings  map[string]domain.LedgerTransaction
}

func newState() *state {
	return &state{
		contacts:  map[string]domain.Contact{},
		products:  map[string]domain.Product{},
		orders:    map[string]domain.Order{},
		items:     map[string]domain.OrderItem{},
		invoices:  map[string]domain.Invoice{},
		payments:  map[string]domain.Payment{},
		sequences: map[domain.SequenceKey]int64{},
		accounts:  map[string]domain.Account{},
		postings:  map[string]domain.LedgerTransaction{},
	}
}

func (s *state) clone() *state {
	return &state{
		contacts:  maps.Clone(s.contacts),
		products:  maps.Clone(s.products),
		orders:    maps.Clone(s.orders),
		items:     maps.Clone(s.items),
		invoices:  maps.Clone(s.invoices),
		payments:  maps.Clone(s.payments),
		sequences: maps.Clone(s.sequences),
		accounts:  maps.Clone(s.accounts),
		postings:  maps.Clone(s.postings),
	}
}

// Store keeps every entity in maps guarded by one mutex.
type Store struct {
	mu   sync.Mutex
	data *state
	*repos
}

// NewStore returns an empty store.
func NewStore() *Store {
	s := &Store{data: newState()}
	s.repos = &repos{store: s}
	return s
}

var _ portsrepo.Store = (*Store)(nil)

// WithinTx runs fn against a private copy of the data and publishes the copy only
// when fn succeeds. Units of work never interleave.
func (s *Store) WithinTx(ctx context.Context, fn portsrepo.TxFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.data.clone()
	if err := fn(ctx, &repos{store: s, tx: working}); err != nil {
		return err
	}
	s.data = working
	return nil
}

// repos implements every repository facade. Outside a unit of work each call takes
// the store lock; inside one, tx is the working copy and the lock is already held.
type repos struct {
	store *Store
	tx    *state
}

var _ portsrepo.Repositories = (*repos)(nil)

func (r *repos) acquire() (*state, func()) {
	if r.tx != nil {
		return r.tx, func() {}
	}
	r.store.mu.Lock()
	return r.store.data, r.store.mu.Unlock
}

func (r *repos) Contacts() portsrepo.ContactRepositoryFacade                     { return r }
func (r *repos) Products() portsrepo.ProductRepositoryFacade                     { return r }
func (r *repos) Orders() portsrepo.OrderRepositoryFacade                         { return r }
func (r *repos) OrderItems() portsrepo.OrderItemRepositoryFacade                 { return r }
func (r *repos) Invoices() portsrepo.InvoiceRepositoryFacade                     { return r }
func (r *repos) Payments() portsrepo.PaymentRepositoryFacade                     { return r }
func (r *repos) Sequences() portsrepo.SequenceRepository                         { return r }
func (r *repos) Accounts() portsrepo.AccountRepositoryFacade                     { return r }
func (r *repos) LedgerTransactions() portsrepo.LedgerTransactionRepositoryFacade { return r }
func (r *repos) Reporting() portsrepo.ReportingRepository                        { return r }

// page applies limit/offset to n rows. A non-positive limit returns everything after offset.
func page(n, limit, offset int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > n {
		offset = n
	}
	end := n
	if limit > 0 && offset+limit < n {
		end = offset + limit
	}
	return offset, end
}
