package sale

import (
	"time"

	"aquadash/domain/shared"
)

const EventSaleCreated = "sale.created"

// SaleCreatedEvent 销售已生成
type SaleCreatedEvent struct {
	saleID      string
	orderID     string
	origin      Origin
	clientID    string
	totalAmount shared.Money
	occurredOn  time.Time
}

func NewSaleCreatedEvent(s *Sale, at time.Time) *SaleCreatedEvent {
	return &SaleCreatedEvent{
		saleID:      s.id,
		orderID:     s.orderID,
		origin:      s.origin,
		clientID:    s.clientID,
		totalAmount: s.totalAmount,
		occurredOn:  at,
	}
}

func (e *SaleCreatedEvent) EventName() string         { return EventSaleCreated }
func (e *SaleCreatedEvent) OccurredOn() time.Time     { return e.occurredOn }
func (e *SaleCreatedEvent) GetAggregateID() string    { return e.saleID }
func (e *SaleCreatedEvent) OrderID() string           { return e.orderID }
func (e *SaleCreatedEvent) Origin() Origin            { return e.origin }
func (e *SaleCreatedEvent) TotalAmount() shared.Money { return e.totalAmount }
func (e *SaleCreatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"sale_id":      e.saleID,
		"order_id":     e.orderID,
		"origin":       string(e.origin),
		"client_id":    e.clientID,
		"total_amount": e.totalAmount.String(),
	}
}

var _ shared.PayloadEvent = (*SaleCreatedEvent)(nil)
