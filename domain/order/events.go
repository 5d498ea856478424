package order

import (
	"time"

	"aquadash/domain/shared"
)

// Event names
const (
	EventOrderCreated    = "order.created"
	EventItemChanged     = "order.item_changed"
	EventPaymentRecorded = "order.payment_recorded"
	EventStatusChanged   = "order.status_changed"
	EventOrderCancelled  = "order.cancelled"
	EventOrderDeleted    = "order.deleted"
	EventOrderConverted  = "order.converted"
)

type OrderCreatedEvent struct {
	orderID    string
	clientID   string
	baseTotal  shared.Money
	occurredOn time.Time
}

func NewOrderCreatedEvent(orderID, clientID string, baseTotal shared.Money, at time.Time) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		orderID:    orderID,
		clientID:   clientID,
		baseTotal:  baseTotal,
		occurredOn: at,
	}
}

func (e *OrderCreatedEvent) EventName() string       { return EventOrderCreated }
func (e *OrderCreatedEvent) OccurredOn() time.Time   { return e.occurredOn }
func (e *OrderCreatedEvent) GetAggregateID() string  { return e.orderID }
func (e *OrderCreatedEvent) ClientID() string        { return e.clientID }
func (e *OrderCreatedEvent) BaseTotal() shared.Money { return e.baseTotal }
func (e *OrderCreatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"order_id":   e.orderID,
		"client_id":  e.clientID,
		"base_total": e.baseTotal.String(),
	}
}

type OrderItemChangedEvent struct {
	orderID    string
	change     string
	itemID     string
	baseTotal  shared.Money
	occurredOn time.Time
}

func NewOrderItemChangedEvent(orderID, change, itemID string, baseTotal shared.Money, at time.Time) *OrderItemChangedEvent {
	return &OrderItemChangedEvent{
		orderID:    orderID,
		change:     change,
		itemID:     itemID,
		baseTotal:  baseTotal,
		occurredOn: at,
	}
}

func (e *OrderItemChangedEvent) EventName() string      { return EventItemChanged }
func (e *OrderItemChangedEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *OrderItemChangedEvent) GetAggregateID() string { return e.orderID }
func (e *OrderItemChangedEvent) Change() string         { return e.change }
func (e *OrderItemChangedEvent) ItemID() string         { return e.itemID }
func (e *OrderItemChangedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"order_id":   e.orderID,
		"change":     e.change,
		"item_id":    e.itemID,
		"base_total": e.baseTotal.String(),
	}
}

// PaymentRecordedEvent carries the balance right after the payment
type PaymentRecordedEvent struct {
	orderID    string
	paymentID  string
	amount     shared.Money
	method     PaymentMethod
	amountPaid shared.Money
	remaining  shared.Money
	fullyPaid  bool
	occurredOn time.Time
}

func NewPaymentRecordedEvent(orderID string, p Payment, amountPaid, remaining shared.Money, fullyPaid bool, at time.Time) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		orderID:    orderID,
		paymentID:  p.id,
		amount:     p.amount,
		method:     p.method,
		amountPaid: amountPaid,
		remaining:  remaining,
		fullyPaid:  fullyPaid,
		occurredOn: at,
	}
}

func (e *PaymentRecordedEvent) EventName() string        { return EventPaymentRecorded }
func (e *PaymentRecordedEvent) OccurredOn() time.Time    { return e.occurredOn }
func (e *PaymentRecordedEvent) GetAggregateID() string   { return e.orderID }
func (e *PaymentRecordedEvent) PaymentID() string        { return e.paymentID }
func (e *PaymentRecordedEvent) Amount() shared.Money     { return e.amount }
func (e *PaymentRecordedEvent) Method() PaymentMethod    { return e.method }
func (e *PaymentRecordedEvent) AmountPaid() shared.Money { return e.amountPaid }
func (e *PaymentRecordedEvent) Remaining() shared.Money  { return e.remaining }
func (e *PaymentRecordedEvent) FullyPaid() bool          { return e.fullyPaid }
func (e *PaymentRecordedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"order_id":    e.orderID,
		"payment_id":  e.paymentID,
		"amount":      e.amount.String(),
		"method":      string(e.method),
		"amount_paid": e.amountPaid.String(),
		"remaining":   e.remaining.String(),
		"fully_paid":  e.fullyPaid,
	}
}

type OrderStatusChangedEvent struct {
	orderID    string
	from       Status
	to         Status
	occurredOn time.Time
}

func NewOrderStatusChangedEvent(orderID string, from, to Status, at time.Time) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		orderID:    orderID,
		from:       from,
		to:         to,
		occurredOn: at,
	}
}

func (e *OrderStatusChangedEvent) EventName() string      { return EventStatusChanged }
func (e *OrderStatusChangedEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *OrderStatusChangedEvent) GetAggregateID() string { return e.orderID }
func (e *OrderStatusChangedEvent) From() Status           { return e.from }
func (e *OrderStatusChangedEvent) To() Status             { return e.to }
func (e *OrderStatusChangedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"order_id": e.orderID,
		"from":     string(e.from),
		"to":       string(e.to),
	}
}

type OrderCancelledEvent struct {
	orderID    string
	reason     string
	occurredOn time.Time
}

func NewOrderCancelledEvent(orderID, reason string, at time.Time) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		orderID:    orderID,
		reason:     reason,
		occurredOn: at,
	}
}

func (e *OrderCancelledEvent) EventName() string      { return EventOrderCancelled }
func (e *OrderCancelledEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *OrderCancelledEvent) GetAggregateID() string { return e.orderID }
func (e *OrderCancelledEvent) Reason() string         { return e.reason }
func (e *OrderCancelledEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"order_id": e.orderID,
		"reason":   e.reason,
	}
}

type OrderDeletedEvent struct {
	orderID    string
	occurredOn time.Time
}

func NewOrderDeletedEvent(orderID string, at time.Time) *OrderDeletedEvent {
	return &OrderDeletedEvent{orderID: orderID, occurredOn: at}
}

func (e *OrderDeletedEvent) EventName() string      { return EventOrderDeleted }
func (e *OrderDeletedEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *OrderDeletedEvent) GetAggregateID() string { return e.orderID }
func (e *OrderDeletedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{"order_id": e.orderID}
}

type OrderConvertedEvent struct {
	orderID    string
	saleID     string
	occurredOn time.Time
}

func NewOrderConvertedEvent(orderID, saleID string, at time.Time) *OrderConvertedEvent {
	return &OrderConvertedEvent{orderID: orderID, saleID: saleID, occurredOn: at}
}

func (e *OrderConvertedEvent) EventName() string      { return EventOrderConverted }
func (e *OrderConvertedEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *OrderConvertedEvent) GetAggregateID() string { return e.orderID }
func (e *OrderConvertedEvent) SaleID() string         { return e.saleID }
func (e *OrderConvertedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"order_id": e.orderID,
		"sale_id":  e.saleID,
	}
}

var (
	_ shared.PayloadEvent = (*OrderCreatedEvent)(nil)
	_ shared.PayloadEvent = (*OrderItemChangedEvent)(nil)
	_ shared.PayloadEvent = (*PaymentRecordedEvent)(nil)
	_ shared.PayloadEvent = (*OrderStatusChangedEvent)(nil)
	_ shared.PayloadEvent = (*OrderCancelledEvent)(nil)
	_ shared.PayloadEvent = (*OrderDeletedEvent)(nil)
	_ shared.PayloadEvent = (*OrderConvertedEvent)(nil)
)
