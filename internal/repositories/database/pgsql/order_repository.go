package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type orderRepository struct {
	db querier
}

var _ portsrepo.OrderRepositoryFacade = (*orderRepository)(nil)

const orderColumns = `order_id, workplace_id, order_type, order_number, contact_id, order_date, status, total_amount, notes, created_at, created_by, last_updated_at, last_updated_by`

func scanOrder(row pgx.Row) (domain.Order, error) {
	var o domain.Order
	err := row.Scan(&o.OrderID, &o.WorkplaceID, &o.OrderType, &o.OrderNumber, &o.ContactID, &o.OrderDate,
		&o.Status, &o.TotalAmount, &o.Notes, &o.CreatedAt, &o.CreatedBy, &o.LastUpdatedAt, &o.LastUpdatedBy)
	return o, err
}

func (r *orderRepository) findOrder(ctx context.Context, workplaceID, orderID string, orderType domain.OrderType, lock bool) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE workplace_id = $1 AND order_id = $2 AND order_type = $3`
	if lock {
		query += ` FOR UPDATE`
	}
	o, err := scanOrder(r.db.QueryRow(ctx, query, workplaceID, orderID, orderType))
	if err != nil {
		return nil, notFoundOr(err, "order", "find order")
	}
	return &o, nil
}

func (r *orderRepository) FindOrderByID(ctx context.Context, workplaceID, orderID string, orderType domain.OrderType) (*domain.Order, error) {
	return r.findOrder(ctx, workplaceID, orderID, orderType, false)
}

func (r *orderRepository) FindOrderByIDForUpdate(ctx context.Context, workplaceID, orderID string, orderType domain.OrderType) (*domain.Order, error) {
	return r.findOrder(ctx, workplaceID, orderID, orderType, true)
}

func (r *orderRepository) ListOrders(ctx context.Context, workplaceID string, orderType domain.OrderType, status *domain.OrderStatus, contactID *string, limit, offset int) ([]domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE workplace_id = $1 AND order_type = $2
		  AND ($3::text IS NULL OR status = $3)
		  AND ($4::text IS NULL OR contact_id = $4)
		ORDER BY order_date DESC, created_at DESC, order_id DESC
		LIMIT $5 OFFSET $6`
	rows, err := r.db.Query(ctx, query, workplaceID, orderType, status, contactID, limitArg(limit), offset)
	if err != nil {
		return nil, translateError(err, "list orders")
	}
	orders, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Order, error) {
		return scanOrder(row)
	})
	if err != nil {
		return nil, translateError(err, "scan orders")
	}
	return orders, nil
}

func (r *orderRepository) CountActiveInvoicesForOrder(ctx context.Context, workplaceID, orderID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM invoices
		WHERE workplace_id = $1 AND order_id = $2 AND status <> 'CANCELLED'`,
		workplaceID, orderID).Scan(&n)
	if err != nil {
		return 0, translateError(err, "count order invoices")
	}
	return n, nil
}

func (r *orderRepository) SaveOrder(ctx context.Context, o domain.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.db.Exec(ctx, query, o.OrderID, o.WorkplaceID, o.OrderType, o.OrderNumber, o.ContactID, o.OrderDate,
		o.Status, o.TotalAmount, o.Notes, o.CreatedAt, o.CreatedBy, o.LastUpdatedAt, o.LastUpdatedBy)
	return translateError(err, "save order")
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, workplaceID, orderID string, status domain.OrderStatus, userID string, now time.Time) error {
	return execAffecting(ctx, r.db, "order", "update order status", `
		UPDATE orders SET status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE workplace_id = $1 AND order_id = $2`,
		workplaceID, orderID, status, now, userID)
}

func (r *orderRepository) UpdateOrderTotal(ctx context.Context, workplaceID, orderID string, total decimal.Decimal, userID string, now time.Time) error {
	return execAffecting(ctx, r.db, "order", "update order total", `
		UPDATE orders SET total_amount = $3, last_updated_at = $4, last_updated_by = $5
		WHERE workplace_id = $1 AND order_id = $2`,
		workplaceID, orderID, total, now, userID)
}

type orderItemRepository struct {
	db querier
}

var _ portsrepo.OrderItemRepositoryFacade = (*orderItemRepository)(nil)

const itemColumns = `item_id, workplace_id, parent_id, parent_type, product_id, description, quantity, unit_price, tax_amount, discount_amount, total_amount, created_at, created_by, last_updated_at, last_updated_by`

func scanItem(row pgx.Row) (domain.OrderItem, error) {
	var it domain.OrderItem
	err := row.Scan(&it.ItemID, &it.WorkplaceID, &it.Parent.ID, &it.Parent.Type, &it.ProductID, &it.Description,
		&it.Quantity, &it.UnitPrice, &it.TaxAmount, &it.DiscountAmount, &it.TotalAmount,
		&it.CreatedAt, &it.CreatedBy, &it.LastUpdatedAt, &it.LastUpdatedBy)
	return it, err
}

func (r *orderItemRepository) ListItems(ctx context.Context, workplaceID string, parent domain.ItemParent) ([]domain.OrderItem, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM order_items
		WHERE workplace_id = $1 AND parent_type = $2 AND parent_id = $3
		ORDER BY created_at, item_id`
	rows, err := r.db.Query(ctx, query, workplaceID, parent.Type, parent.ID)
	if err != nil {
		return nil, translateError(err, "list items")
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.OrderItem, error) {
		return scanItem(row)
	})
	if err != nil {
		return nil, translateError(err, "scan items")
	}
	return items, nil
}

func (r *orderItemRepository) SumItemTotals(ctx context.Context, workplaceID string, parent domain.ItemParent) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_amount), 0) FROM order_items
		WHERE workplace_id = $1 AND parent_type = $2 AND parent_id = $3`,
		workplaceID, parent.Type, parent.ID).Scan(&total)
	if err != nil {
		return decimal.Zero, translateError(err, "sum item totals")
	}
	return total, nil
}

func (r *orderItemRepository) SaveItems(ctx context.Context, items []domain.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	query := `
		INSERT INTO order_items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	for _, it := range items {
		if _, err := r.db.Exec(ctx, query, it.ItemID, it.WorkplaceID, it.Parent.ID, it.Parent.Type, it.ProductID, it.Description,
			it.Quantity, it.UnitPrice, it.TaxAmount, it.DiscountAmount, it.TotalAmount,
			it.CreatedAt, it.CreatedBy, it.LastUpdatedAt, it.LastUpdatedBy); err != nil {
			return translateError(err, "save item")
		}
	}
	return nil
}

func (r *orderItemRepository) DeleteItem(ctx context.Context, workplaceID string, parent domain.ItemParent, itemID string) error {
	return execAffecting(ctx, r.db, "item", "delete item", `
		DELETE FROM order_items
		WHERE workplace_id = $1 AND parent_type = $2 AND parent_id = $3 AND item_id = $4`,
		workplaceID, parent.Type, parent.ID, itemID)
}
