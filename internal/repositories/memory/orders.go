package memory

import (
	"context"
	"sort"
	"time"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

func (st *state) order(workplaceID, orderID string, orderType domain.OrderType) (domain.Order, bool) {
	o, ok := st.orders[orderID]
	if !ok || o.WorkplaceID != workplaceID || o.OrderType != orderType {
		return domain.Order{}, false
	}
	return o, true
}

func (r *repos) FindOrderByID(ctx context.Context, workplaceID, orderID string, orderType domain.OrderType) (*domain.Order, error) {
	st, done := r.acquire()
	defer done()
	o, ok := st.order(workplaceID, orderID, orderType)
	if !ok {
		return nil, apperrors.NewNotFoundError("order " + orderID)
	}
	return &o, nil
}

// FindOrderByIDForUpdate needs no row lock: units of work are already serialized.
func (r *repos) FindOrderByIDForUpdate(ctx context.Context, workplaceID, orderID string, orderType domain.OrderType) (*domain.Order, error) {
	return r.FindOrderByID(ctx, workplaceID, orderID, orderType)
}

func (r *repos) ListOrders(ctx context.Context, workplaceID string, orderType domain.OrderType, status *domain.OrderStatus, contactID *string, limit, offset int) ([]domain.Order, error) {
	st, done := r.acquire()
	defer done()
	out := []domain.Order{}
	for _, o := range st.orders {
		if o.WorkplaceID != workplaceID || o.OrderType != orderType {
			continue
		}
		if status != nil && o.Status != *status {
			continue
		}
		if contactID != nil && o.ContactID != *contactID {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OrderDate.Equal(out[j].OrderDate) {
			return out[i].OrderDate.After(out[j].OrderDate)
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].OrderID > out[j].OrderID
	})
	from, to := page(len(out), limit, offset)
	return out[from:to], nil
}

func (r *repos) CountActiveInvoicesForOrder(ctx context.Context, workplaceID, orderID string) (int, error) {
	st, done := r.acquire()
	defer done()
	n := 0
	for _, inv := range st.invoices {
		if inv.WorkplaceID == workplaceID && inv.OrderID != nil && *inv.OrderID == orderID &&
			inv.Status != domain.InvoiceStatusCancelled {
			n++
		}
	}
	return n, nil
}

func (r *repos) SaveOrder(ctx context.Context, order domain.Order) error {
	st, done := r.acquire()
	defer done()
	order.Items = nil
	st.orders[order.OrderID] = order
	return nil
}

func (r *repos) UpdateOrderStatus(ctx context.Context, workplaceID, orderID string, status domain.OrderStatus, userID string, now time.Time) error {
	st, done := r.acquire()
	defer done()
	o, ok := st.orders[orderID]
	if !ok || o.WorkplaceID != workplaceID {
		return apperrors.NewNotFoundError("order " + orderID)
	}
	o.Status = status
	o.Touch(userID, now)
	st.orders[orderID] = o
	return nil
}

func (r *repos) UpdateOrderTotal(ctx context.Context, workplaceID, orderID string, total decimal.Decimal, userID string, now time.Time) error {
	st, done := r.acquire()
	defer done()
	o, ok := st.orders[orderID]
	if !ok || o.WorkplaceID != workplaceID {
		return apperrors.NewNotFoundError("order " + orderID)
	}
	o.TotalAmount = total
	o.Touch(userID, now)
	st.orders[orderID] = o
	return nil
}

func (st *state) itemsOf(workplaceID string, parent domain.ItemParent) []domain.OrderItem {
	out := []domain.OrderItem{}
	for _, it := range st.items {
		if it.WorkplaceID == workplaceID && it.Parent == parent {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ItemID < out[j].ItemID
	})
	return out
}

func (r *repos) ListItems(ctx context.Context, workplaceID string, parent domain.ItemParent) ([]domain.OrderItem, error) {
	st, done := r.acquire()
	defer done()
	return st.itemsOf(workplaceID, parent), nil
}

func (r *repos) SumItemTotals(ctx context.Context, workplaceID string, parent domain.ItemParent) (decimal.Decimal, error) {
	st, done := r.acquire()
	defer done()
	return domain.SumItemTotals(st.itemsOf(workplaceID, parent)), nil
}

func (r *repos) SaveItems(ctx context.Context, items []domain.OrderItem) error {
	st, done := r.acquire()
	defer done()
	for _, it := range items {
		st.items[it.ItemID] = it
	}
	return nil
}

func (r *repos) DeleteItem(ctx context.Context, workplaceID string, parent domain.ItemParent, itemID string) error {
	st, done := r.acquire()
	defer done()
	it, ok := st.items[itemID]
	if !ok || it.WorkplaceID != workplaceID || it.Parent != parent {
		return apperrors.NewNotFoundError("item " + itemID)
	}
	delete(st.items, itemID)
	return nil
}
