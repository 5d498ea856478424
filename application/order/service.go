/*
Package order Application Layer - Order Business Process Orchestration

Responsibilities of Application Layer:
1. Receive external requests (usually from Controller)
2. Call domain services for business rule validation
3. Call aggregate root methods to execute business operations
4. Use UoW to manage transactions and event collection (Outbox pattern)
5. Return results to caller

Every write on an existing order follows the same path: take the per-order
lock, open a unit of work, reload the order, apply the change, evaluate the
sale conversion rule where it applies, then save the sale before the order.
The reload happens inside the unit of work so a retried attempt never sees
a stale aggregate.

Important: Application services do not directly publish events!
- UoW collects events from aggregates and saves to outbox table before commit
- OutboxProcessor reads outbox table asynchronously and publishes to message queue
*/
package order

import (
	"context"
	"errors"
	"strings"
	"time"

	"aquadash/application/common"
	salesapp "aquadash/application/sale"
	"aquadash/domain/client"
	"aquadash/domain/order"
	"aquadash/domain/product"
	"aquadash/domain/sale"
	"aquadash/domain/shared"
	"aquadash/pkg/logger"

	"go.uber.org/zap"
)

// Dependencies collaborators of the order application service
type Dependencies struct {
	Orders     order.Repository
	Sales      sale.Repository
	Clients    client.Repository
	Products   product.Repository
	UoWFactory shared.UnitOfWorkFactory
	Locker     shared.Locker
	Policy     order.Policy
	// Clock defaults to time.Now; its result is moved into Location
	Clock    func() time.Time
	Location *time.Location
	Currency string
	// Rejections optional
	Rejections RejectionObserver
}

// ApplicationService Order application service - coordinates order-related business processes
type ApplicationService struct {
	orders             order.Repository
	sales              sale.Repository
	orderDomainService *order.DomainService
	items              *common.ItemResolver
	uowFactory         shared.UnitOfWorkFactory
	locker             shared.Locker
	policy             order.Policy
	clock              func() time.Time
	location           *time.Location
	currency           string
	rejections         RejectionObserver
}

// NewApplicationService Create order application service
func NewApplicationService(deps Dependencies) *ApplicationService {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	if deps.Rejections == nil {
		deps.Rejections = noopRejectionObserver{}
	}
	return &ApplicationService{
		orders:             deps.Orders,
		sales:              deps.Sales,
		orderDomainService: order.NewDomainService(client.NewDomainService(deps.Clients)),
		items:              common.NewItemResolver(deps.Products),
		uowFactory:         deps.UoWFactory,
		locker:             deps.Locker,
		policy:             deps.Policy,
		clock:              deps.Clock,
		location:           deps.Location,
		currency:           deps.Currency,
		rejections:         deps.Rejections,
	}
}

// now business time: due dates compare against this calendar day
func (s *ApplicationService) now() time.Time {
	return s.clock().In(s.location)
}

func lockKey(orderID string) string {
	return "order:" + orderID
}

func (s *ApplicationService) respond(o *order.Order, now time.Time) *OrderResponse {
	return toOrderResponse(o, o.Due(s.policy, now), now, s.currency)
}

// ============================================================================
// Write path
// ============================================================================

// mutationResult what a locked write produced
type mutationResult struct {
	order *order.Order
	sale  *sale.Sale
	now   time.Time
}

// mutate runs fn against a freshly loaded order under the per-order lock.
// With convert set, the sale conversion rule runs after fn.
func (s *ApplicationService) mutate(
	ctx context.Context,
	orderID string,
	convert bool,
	fn func(o *order.Order, now time.Time) error,
) (*mutationResult, error) {
	unlock, err := s.locker.Lock(ctx, lockKey(orderID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	var result *mutationResult

	uow := s.uowFactory.New()
	err = uow.Execute(ctx, func(ctx context.Context) error {
		result = nil
		now := s.now()

		o, err := s.orders.FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		if err := fn(o, now); err != nil {
			return err
		}

		var converted *sale.Sale
		if convert {
			converted, err = sale.ConvertIfReady(o, s.policy, now)
			if err != nil {
				return err
			}
			if converted != nil {
				if err := s.sales.Save(ctx, converted); err != nil {
					return err
				}
				uow.RegisterNew(converted)
			}
		}

		if o.IsDeleted() {
			if err := s.orders.Remove(ctx, o); err != nil {
				return err
			}
			uow.RegisterRemoved(o)
		} else {
			if err := s.orders.Save(ctx, o); err != nil {
				return err
			}
			uow.RegisterDirty(o)
		}

		result = &mutationResult{order: o, sale: converted, now: now}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.sale != nil {
		logger.Info("order converted to sale",
			zap.String("order_id", orderID),
			zap.String("sale_id", result.sale.ID()),
			zap.String("total", result.sale.TotalAmount().String()),
		)
	}
	return result, nil
}

// ============================================================================
// Application Service Methods - Business Process Orchestration
// ============================================================================

// CreateOrder Create a pending order for an active client
func (s *ApplicationService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	if err := s.orderDomainService.CanPlaceOrder(ctx, req.ClientID); err != nil {
		return nil, err
	}

	items, err := s.items.ResolveAll(ctx, "order", req.Items)
	if err != nil {
		return nil, err
	}
	deliveryType, err := common.ParseDeliveryType("order", req.DeliveryType)
	if err != nil {
		return nil, err
	}
	fee, err := common.ParseOptionalAmount("order", "delivery_fee", req.DeliveryFee)
	if err != nil {
		return nil, err
	}
	dueDate, err := common.ParseOptionalDate("order", "due_date", req.DueDate)
	if err != nil {
		return nil, err
	}

	var (
		o   *order.Order
		now time.Time
	)
	uow := s.uowFactory.New()
	err = uow.Execute(ctx, func(ctx context.Context) error {
		now = s.now()
		created, err := order.NewOrder(order.CreateParams{
			ClientID:     req.ClientID,
			Items:        items,
			DeliveryType: deliveryType,
			DeliveryFee:  fee,
			DueDate:      dueDate,
			Notes:        req.Notes,
		}, s.policy, now)
		if err != nil {
			return err
		}

		if err := s.orders.Save(ctx, created); err != nil {
			return err
		}
		uow.RegisterNew(created)
		o = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("order created",
		zap.String("order_id", o.ID()),
		zap.String("client_id", o.ClientID()),
		zap.String("base_total", o.BaseTotal().String()),
	)
	return s.respond(o, now), nil
}

// GetOrder Get order information
func (s *ApplicationService) GetOrder(ctx context.Context, orderID string) (*OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.respond(o, s.now()), nil
}

// ListClientOrders Get all orders for a client, newest first
func (s *ApplicationService) ListClientOrders(ctx context.Context, clientID string) ([]*OrderResponse, error) {
	orders, err := s.orders.FindByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return s.respondAll(orders), nil
}

// ListOrders filters orders; an empty query lists every live order
func (s *ApplicationService) ListOrders(ctx context.Context, q ListOrdersQuery) ([]*OrderResponse, error) {
	spec, err := s.buildSpecification(q)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.FindBySpecification(ctx, spec)
	if err != nil {
		return nil, err
	}
	return s.respondAll(orders), nil
}

func (s *ApplicationService) buildSpecification(q ListOrdersQuery) (shared.Specification[*order.Order], error) {
	from, err := common.ParseOptionalDate("order", "from", &q.From)
	if err != nil {
		return nil, err
	}
	to, err := common.ParseOptionalDate("order", "to", &q.To)
	if err != nil {
		return nil, err
	}

	var start, end time.Time
	if from != nil {
		start = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, s.location)
	}
	if to != nil {
		end = time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, s.location).AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return nil, shared.NewValidationError("order", "to", "end date is before start date")
	}

	spec := order.NewByDateRangeSpecification(start, end)

	if status := strings.TrimSpace(q.Status); status != "" {
		st, ok := order.ParseStatus(status)
		if !ok {
			return nil, shared.NewValidationError("order", "status", "unknown status: "+q.Status)
		}
		spec = shared.And(spec, order.NewByStatusSpecification(st))
	}
	if clientID := strings.TrimSpace(q.ClientID); clientID != "" {
		spec = shared.And(spec, order.NewByClientIDSpecification(clientID))
	}
	if q.Unconverted {
		spec = shared.And[*order.Order](spec, order.UnconvertedSpecification{})
	}
	return spec, nil
}

func (s *ApplicationService) respondAll(orders []*order.Order) []*OrderResponse {
	now := s.now()
	out := make([]*OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = s.respond(o, now)
	}
	return out
}

// ComputeDue Balance of an order as of now; read-only
func (s *ApplicationService) ComputeDue(ctx context.Context, orderID string) (*DueResponse, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	return toDueResponse(o.Due(s.policy, now), now, s.currency), nil
}

// RecordPayment Accept a payment under the payment policy.
// When the payment settles a delivered order, the order is converted to a
// sale in the same transaction.
func (s *ApplicationService) RecordPayment(ctx context.Context, orderID string, req common.PaymentRequest) (*PaymentResult, error) {
	input, err := common.ParsePaymentInput("payment", req)
	if err != nil {
		return nil, err
	}

	var payment order.Payment
	result, err := s.mutate(ctx, orderID, true, func(o *order.Order, now time.Time) error {
		p, err := o.RecordPayment(s.policy, input, now)
		if err != nil {
			return err
		}
		payment = p
		return nil
	})
	if err != nil {
		var rejected *order.PaymentRejectedError
		if errors.As(err, &rejected) {
			s.rejections.ObservePaymentRejected(rejected.Reason)
			logger.Info("payment rejected",
				zap.String("order_id", orderID),
				zap.String("reason", string(rejected.Reason)),
				zap.String("amount", input.Amount.String()),
				zap.String("threshold", rejected.Threshold.String()),
			)
		}
		return nil, err
	}

	logger.Info("payment recorded",
		zap.String("order_id", orderID),
		zap.String("payment_id", payment.ID()),
		zap.String("amount", payment.Amount().String()),
		zap.String("method", string(payment.Method())),
	)

	return &PaymentResult{
		Order:           s.respond(result.order, result.now),
		Payment:         common.ToPaymentResponse(payment, s.currency),
		ConvertedToSale: salesapp.ToSaleResponse(result.sale, s.currency),
	}, nil
}

// ChangeStatus Move the order along the state machine.
// Reaching delivered on a fully paid order converts it to a sale.
func (s *ApplicationService) ChangeStatus(ctx context.Context, orderID string, req ChangeStatusRequest) (*StatusResult, error) {
	target, ok := order.ParseStatus(req.Status)
	if !ok {
		return nil, shared.NewValidationError("order", "status", "unknown status: "+req.Status)
	}

	result, err := s.mutate(ctx, orderID, true, func(o *order.Order, now time.Time) error {
		return o.ChangeStatus(target, req.Reason, now)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("order status changed",
		zap.String("order_id", orderID),
		zap.String("status", string(target)),
	)

	return &StatusResult{
		Order:           s.respond(result.order, result.now),
		ConvertedToSale: salesapp.ToSaleResponse(result.sale, s.currency),
	}, nil
}

// DeleteOrder Logically delete a pending order
func (s *ApplicationService) DeleteOrder(ctx context.Context, orderID string) error {
	_, err := s.mutate(ctx, orderID, false, func(o *order.Order, now time.Time) error {
		return o.MarkDeleted(now)
	})
	if err != nil {
		return err
	}
	logger.Info("order deleted", zap.String("order_id", orderID))
	return nil
}

// AddItem Add a line item to a pending order
func (s *ApplicationService) AddItem(ctx context.Context, orderID string, req common.ItemRequest) (*OrderResponse, error) {
	item, err := s.items.Resolve(ctx, "order_item", req)
	if err != nil {
		return nil, err
	}

	result, err := s.mutate(ctx, orderID, false, func(o *order.Order, now time.Time) error {
		_, err := o.AddItem(item, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.respond(result.order, result.now), nil
}

// RemoveItem Remove a line item from a pending order
func (s *ApplicationService) RemoveItem(ctx context.Context, orderID, itemID string) (*OrderResponse, error) {
	result, err := s.mutate(ctx, orderID, false, func(o *order.Order, now time.Time) error {
		return o.RemoveItem(itemID, now)
	})
	if err != nil {
		return nil, err
	}
	return s.respond(result.order, result.now), nil
}

// SetQuantity Change a line item quantity on a pending order
func (s *ApplicationService) SetQuantity(ctx context.Context, orderID, itemID string, req SetQuantityRequest) (*OrderResponse, error) {
	result, err := s.mutate(ctx, orderID, false, func(o *order.Order, now time.Time) error {
		return o.SetQuantity(itemID, req.Quantity, now)
	})
	if err != nil {
		return nil, err
	}
	return s.respond(result.order, result.now), nil
}

// ChangeDelivery Change delivery type and fee on a pending order
func (s *ApplicationService) ChangeDelivery(ctx context.Context, orderID string, req ChangeDeliveryRequest) (*OrderResponse, error) {
	deliveryType, err := common.ParseDeliveryType("order", req.DeliveryType)
	if err != nil {
		return nil, err
	}
	fee, err := common.ParseOptionalAmount("order", "delivery_fee", req.DeliveryFee)
	if err != nil {
		return nil, err
	}

	result, err := s.mutate(ctx, orderID, false, func(o *order.Order, now time.Time) error {
		return o.ChangeDelivery(s.policy, deliveryType, fee, now)
	})
	if err != nil {
		return nil, err
	}
	return s.respond(result.order, result.now), nil
}

// UpdateDetails Edit notes and due date; an empty due_date clears it
func (s *ApplicationService) UpdateDetails(ctx context.Context, orderID string, req UpdateDetailsRequest) (*OrderResponse, error) {
	update := order.DetailsUpdate{Notes: req.Notes}
	if req.DueDate != nil {
		if strings.TrimSpace(*req.DueDate) == "" {
			update.ClearDueDate = true
		} else {
			d, err := common.ParseOptionalDate("order", "due_date", req.DueDate)
			if err != nil {
				return nil, err
			}
			update.DueDate = d
		}
	}

	result, err := s.mutate(ctx, orderID, false, func(o *order.Order, now time.Time) error {
		return o.UpdateDetails(update, now)
	})
	if err != nil {
		return nil, err
	}
	return s.respond(result.order, result.now), nil
}
