package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/SscSPs/bizledger/internal/dto"
)

// orderService manages purchase and sales orders and their item lines.
type orderService struct {
	BaseService
	numbering portssvc.NumberingSvc
}

// NewOrderService creates the order service.
func NewOrderService(store portsrepo.Store, numbering portssvc.NumberingSvc, options ...ServiceOption) portssvc.OrderSvcFacade {
	svc := &orderService{BaseService: newBaseService(store), numbering: numbering}
	applyOptions(&svc.BaseService, options)
	return svc
}

var _ portssvc.OrderSvcFacade = (*orderService)(nil)

func validateOrderType(orderType domain.OrderType) error {
	if !orderType.IsValid() {
		return fmt.Errorf("%w: unknown order type %q", apperrors.ErrValidation, orderType)
	}
	return nil
}

// CreateOrder creates a DRAFT order for a contact of the matching kind.
func (s *orderService) CreateOrder(ctx context.Context, workplaceID string, orderType domain.OrderType, req dto.CreateOrderRequest, actor domain.Actor) (*domain.Order, error) {
	if err := s.AuthorizeWrite(ctx, actor, workplaceID); err != nil {
		return nil, err
	}
	if err := validateOrderType(orderType); err != nil {
		return nil, err
	}
	items := make([]domain.OrderItem, len(req.Items))
	for i, r := range req.Items {
		items[i] = r.ToDomain()
		if err := items[i].Validate(); err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", apperrors.ErrValidation, i+1, err)
		}
	}

	var created domain.Order
	err := s.RunInTx(ctx, "create order", func(ctx context.Context, repos portsrepo.Repositories) error {
		contact, err := repos.Contacts().FindContactByID(ctx, workplaceID, req.ContactID)
		if err != nil {
			return storeError(err, "find contact")
		}
		if !contact.CanTradeAs(orderType) {
			return fmt.Errorf("%w: contact %s is a %s and cannot be used on %s orders",
				apperrors.ErrValidation, contact.ContactID, contact.ContactType, orderType)
		}
		for _, it := range items {
			if _, err := repos.Products().FindProductByID(ctx, workplaceID, it.ProductID); err != nil {
				return storeError(err, "find product")
			}
		}

		now := s.Now()
		audit := domain.NewAuditFields(actor.UserID, now)
		orderDate := now
		if req.OrderDate != nil {
			orderDate = req.OrderDate.UTC()
		}
		order := domain.Order{
			OrderID:     newID(),
			WorkplaceID: workplaceID,
			OrderType:   orderType,
			OrderNumber: s.numbering.OrderNumber(orderType),
			ContactID:   contact.ContactID,
			OrderDate:   orderDate,
			Status:      domain.OrderStatusDraft,
			Notes:       req.Notes,
			AuditFields: audit,
		}
		lines := make([]domain.OrderItem, len(items))
		for i, it := range items {
			lines[i] = it.CopyTo(order.Ref(), newID(), audit)
			lines[i].WorkplaceID = workplaceID
		}
		order.TotalAmount = domain.SumItemTotals(lines)

		if err := repos.Orders().SaveOrder(ctx, order); err != nil {
			return storeError(err, "save order")
		}
		if len(lines) > 0 {
			if err := repos.OrderItems().SaveItems(ctx, lines); err != nil {
				return storeError(err, "save order items")
			}
		}
		order.Items = lines
		created = order
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create order", slog.String("workplace_id", workplaceID), slog.String("order_type", string(orderType)))
		return nil, err
	}
	s.LogInfo(ctx, "Order created",
		slog.String("order_id", created.OrderID),
		slog.String("order_number", created.OrderNumber),
		slog.Int("item_count", len(created.Items)))
	return &created, nil
}

// GetOrder returns the order with its items. Orders outside scope are reported as not found.
func (s *orderService) GetOrder(ctx context.Context, workplaceID, orderID string, orderType domain.OrderType, scope domain.Scope) (*domain.Order, error) {
	if err := validateOrderType(orderType); err != nil {
		return nil, err
	}
	order, err := s.Store.Orders().FindOrderByID(ctx, workplaceID, orderID, orderType)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find order", slog.String("order_id", orderID))
		}
		return nil, storeError(err, "find order")
	}
	if !scope.Allows(order.ContactID) {
		return nil, apperrors.NewNotFoundError("order " + orderID)
	}
	items, err := s.Store.OrderItems().ListItems(ctx, workplaceID, order.Ref())
	if err != nil {
		return nil, storeError(err, "list order items")
	}
	order.Items = items
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, workplaceID string, orderType domain.OrderType, params dto.ListOrdersParams, scope domain.Scope) ([]domain.Order, error) {
	if err := validateOrderType(orderType); err != nil {
		return nil, err
	}
	orders, err := s.Store.Orders().ListOrders(ctx, workplaceID, orderType, params.Status, scope.RestrictToContactID, params.Limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list orders", slog.String("workplace_id", workplaceID))
		return nil, storeError(err, "list orders")
	}
	return orders, nil
}

// ApproveOrder moves a DRAFT order to APPROVED.
func (s *orderService) ApproveOrder(ctx context.Context, workplaceID, orderID string, orderType domain.OrderType, actor domain.Actor) (*domain.Order, error) {
	return s.transition(ctx, workplaceID, orderID, orderType, actor, "approve order",
		func(_ context.Context, _ portsrepo.Repositories, o *domain.Order) (domain.OrderStatus, error) {
			if o.Status != domain.OrderStatusDraft {
				return "", fmt.Errorf("%w: only DRAFT orders can be approved (status %s)", apperrors.ErrInvalidState, o.Status)
			}
			return domain.OrderStatusApproved, nil
		})
}

// FulfilOrder marks an APPROVED order as RECEIVED (purchase) or DELIVERED (sales).
func (s *orderService) FulfilOrder(ctx context.Context, workplaceID, orderID string, orderType domain.OrderType, actor domain.Actor) (*domain.Order, error) {
	return s.transition(ctx, workplaceID, orderID, orderType, actor, "fulfil order",
		func(_ context.Context, _ portsrepo.Repositories, o *domain.Order) (domain.OrderStatus, error) {
			if o.Status != domain.OrderStatusApproved {
				return "", fmt.Errorf("%w: only APPROVED orders can be fulfilled (status %s)", apperrors.ErrInvalidState, o.Status)
			}
			return o.OrderType.FulfilledStatus(), nil
		})
}

// CancelOrder cancels a DRAFT or APPROVED order that has not been invoiced.
func (s *orderService) CancelOrder(ctx context.Context, workplaceID, orderID string, orderType domain.OrderType, actor domain.Actor) (*domain.Order, error) {
	return s.transition(ctx, workplaceID, orderID, orderType, actor, "cancel order",
		func(ctx context.Context, repos portsrepo.Repositories, o *domain.Order) (domain.OrderStatus, error) {
			if !o.IsCancellable() {
				return "", fmt.Errorf("%w: order in status %s cannot be cancelled", apperrors.ErrInvalidState, o.Status)
			}
			invoiced, err := repos.Orders().CountActiveInvoicesForOrder(ctx, workplaceID, o.OrderID)
			if err != nil {
				return "", storeError(err, "count order invoices")
			}
			if invoiced > 0 {
				return "", fmt.Errorf("%w: order %s has an active invoice", apperrors.ErrInvalidState, o.OrderNumber)
			}
			return domain.OrderStatusCancelled, nil
		})
}

type statusRule func(ctx context.Context, repos portsrepo.Repositories, o *domain.Order) (domain.OrderStatus, error)

func (s *orderService) transition(ctx context.Context, workplaceID, orderID string, orderType domain.OrderType, actor domain.Actor, op string, rule statusRule) (*domain.Order, error) {
	if err := s.AuthorizeWrite(ctx, actor, workplaceID); err != nil {
		return nil, err
	}
	if err := validateOrderType(orderType); err != nil {
		return nil, err
	}

	var updated *domain.Order
	err := s.RunInTx(ctx, op, func(ctx context.Context, repos portsrepo.Repositories) error {
		order, err := repos.Orders().FindOrderByIDForUpdate(ctx, workplaceID, orderID, orderType)
		if err != nil {
			return storeError(err, "find order")
		}
		next, err := rule(ctx, repos, order)
		if err != nil {
			return err
		}
		now := s.Now()
		if err := repos.Orders().UpdateOrderStatus(ctx, workplaceID, orderID, next, actor.UserID, now); err != nil {
			return storeError(err, "update order status")
		}
		order.Status = next
		order.Touch(actor.UserID, now)
		updated = order
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Order status change failed", slog.String("operation", op), slog.String("order_id", orderID))
		return nil, err
	}
	s.LogInfo(ctx, "Order status changed", slog.String("order_id", orderID), slog.String("status", string(updated.Status)))
	return updated, nil
}

// AddOrderItem appends a line to a DRAFT order and recomputes the order total.
func (s *orderService) AddOrderItem(ctx context.Context, workplaceID, orderID string, orderType domain.OrderType, req dto.OrderItemRequest, actor domain.Actor) (*domain.Order, error) {
	if err := s.AuthorizeWrite(ctx, actor, workplaceID); err != nil {
		return nil, err
	}
	if err := validateOrderType(orderType); err != nil {
		return nil, err
	}

	var updated *domain.Order
	err := s.RunInTx(ctx, "add order item", func(ctx context.Context, repos portsrepo.Repositories) error {
		order, err := s.lockEditableOrder(ctx, repos, workplaceID, orderID, orderType)
		if err != nil {
			return err
		}
		if _, err := repos.Products().FindProductByID(ctx, workplaceID, req.ProductID); err != nil {
			return storeError(err, "find product")
		}
		item := req.ToDomain()
		if err := item.Validate(); err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}

		now := s.Now()
		item = item.CopyTo(order.Ref(), newID(), domain.NewAuditFields(actor.UserID, now))
		item.WorkplaceID = workplaceID
		if err := repos.OrderItems().SaveItems(ctx, []domain.OrderItem{item}); err != nil {
			return storeError(err, "save order item")
		}
		updated, err = s.recomputeTotal(ctx, repos, order, actor.UserID, now)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to add order item", slog.String("order_id", orderID))
		return nil, err
	}
	s.LogInfo(ctx, "Order item added", slog.String("order_id", orderID), slog.String("total", updated.TotalAmount.String()))
	return updated, nil
}

// RemoveOrderItem deletes a line from a DRAFT order and recomputes the order total.
func (s *orderService) RemoveOrderItem(ctx context.Context, workplaceID, orderID string, orderType domain.OrderType, itemID string, actor domain.Actor) (*domain.Order, error) {
	if err := s.AuthorizeWrite(ctx, actor, workplaceID); err != nil {
		return nil, err
	}
	if err := validateOrderType(orderType); err != nil {
		return nil, err
	}

	var updated *domain.Order
	err := s.RunInTx(ctx, "remove order item", func(ctx context.Context, repos portsrepo.Repositories) error {
		order, err := s.lockEditableOrder(ctx, repos, workplaceID, orderID, orderType)
		if err != nil {
			return err
		}
		if err := repos.OrderItems().DeleteItem(ctx, workplaceID, order.Ref(), itemID); err != nil {
			return storeError(err, "delete order item")
		}
		updated, err = s.recomputeTotal(ctx, repos, order, actor.UserID, s.Now())
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to remove order item", slog.String("order_id", orderID), slog.String("item_id", itemID))
		return nil, err
	}
	s.LogInfo(ctx, "Order item removed", slog.String("order_id", orderID), slog.String("total", updated.TotalAmount.String()))
	return updated, nil
}

func (s *orderService) lockEditableOrder(ctx context.Context, repos portsrepo.Repositories, workplaceID, orderID string, orderType domain.OrderType) (*domain.Order, error) {
	order, err := repos.Orders().FindOrderByIDForUpdate(ctx, workplaceID, orderID, orderType)
	if err != nil {
		return nil, storeError(err, "find order")
	}
	if !order.IsEditable() {
		return nil, fmt.Errorf("%w: items can only change while the order is DRAFT (status %s)", apperrors.ErrInvalidState, order.Status)
	}
	return order, nil
}

// recomputeTotal sets the order total to the sum of its stored item totals.
func (s *orderService) recomputeTotal(ctx context.Context, repos portsrepo.Repositories, order *domain.Order, userID string, now time.Time) (*domain.Order, error) {
	total, err := repos.OrderItems().SumItemTotals(ctx, order.WorkplaceID, order.Ref())
	if err != nil {
		return nil, storeError(err, "sum order items")
	}
	if err := repos.Orders().UpdateOrderTotal(ctx, order.WorkplaceID, order.OrderID, total, userID, now); err != nil {
		return nil, storeError(err, "update order total")
	}
	items, err := repos.OrderItems().ListItems(ctx, order.WorkplaceID, order.Ref())
	if err != nil {
		return nil, storeError(err, "list order items")
	}
	order.TotalAmount = total
	order.Items = items
	order.Touch(userID, now)
	return order, nil
}
