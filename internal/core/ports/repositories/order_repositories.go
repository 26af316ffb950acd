package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// OrderReader defines read operations for orders
type OrderReader interface {
	// FindOrderByID returns apperrors.ErrNotFound when no order of that type exists.
	FindOrderByID(ctx context.Context, workplaceID, orderID string, orderType domain.OrderType) (*domain.Order, error)

	// ListOrders lists orders of a type, newest first. Nil filters match everything.
	ListOrders(ctx context.Context, workplaceID string, orderType domain.OrderType, status *domain.OrderStatus, contactID *string, limit, offset int) ([]domain.Order, error)

	// CountActiveInvoicesForOrder counts non-cancelled invoices referencing the order.
	CountActiveInvoicesForOrder(ctx context.Context, workplaceID, orderID string) (int, error)
}

// OrderWriter defines write operations for orders
type OrderWriter interface {
	SaveOrder(ctx context.Context, order domain.Order) error
	UpdateOrderStatus(ctx context.Context, workplaceID, orderID string, status domain.OrderStatus, userID string, now time.Time) error
	UpdateOrderTotal(ctx context.Context, workplaceID, orderID string, total decimal.Decimal, userID string, now time.Time) error
}

// OrderTransactionSupport defines operations only meaningful inside a transaction
type OrderTransactionSupport interface {
	// FindOrderByIDForUpdate reads the order and locks its row until the transaction ends.
	FindOrderByIDForUpdate(ctx context.Context, workplaceID, orderID string, orderType domain.OrderType) (*domain.Order, error)
}

// OrderRepositoryFacade combines all order repository interfaces
type OrderRepositoryFacade interface {
	OrderReader
	OrderWriter
	OrderTransactionSupport
}

// OrderItemReader defines read operations for item rows of any parent
type OrderItemReader interface {
	ListItems(ctx context.Context, workplaceID string, parent domain.ItemParent) ([]domain.OrderItem, error)
	SumItemTotals(ctx context.Context, workplaceID string, parent domain.ItemParent) (decimal.Decimal, error)
}

// OrderItemWriter defines write operations for item rows
type OrderItemWriter interface {
	SaveItems(ctx context.Context, items []domain.OrderItem) error
	// DeleteItem returns apperrors.ErrNotFound when the item does not belong to parent.
	DeleteItem(ctx context.Context, workplaceID string, parent domain.ItemParent, itemID string) error
}

// OrderItemRepositoryFacade combines item reads and writes
type OrderItemRepositoryFacade interface {
	OrderItemReader
	OrderItemWriter
}
