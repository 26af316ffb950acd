package repositories

import (
	"context"
)

// TxFunc is a unit of work. The repositories it receives are bound to one store
// transaction; returning an error rolls the whole unit back.
type TxFunc func(ctx context.Context, repos Repositories) error

// TransactionManager runs units of work atomically.
type TransactionManager interface {
	// WithinTx runs fn inside a single serializable transaction. Lost races are reported
	// as apperrors.ErrConcurrentUpdate so callers may retry.
	WithinTx(ctx context.Context, fn TxFunc) error
}

// Store is the persistent store: repositories bound to no transaction plus the
// ability to open one.
type Store interface {
	Repositories
	TransactionManager
}
